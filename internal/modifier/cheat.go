package modifier

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// CheatCode maps an input sequence to either a modifier or a special event.
type CheatCode struct {
	Code     string              `yaml:"code"`
	Modifier models.ModifierID   `yaml:"modifier,omitempty"`
	Special  models.SpecialEvent `yaml:"special,omitempty"`
}

func (c CheatCode) normalized() CheatCode {
	c.Code = strings.ToLower(c.Code)
	return c
}

func (r *Registry) validateCheat(c CheatCode) error {
	switch {
	case c.Code == "":
		return fmt.Errorf("cheat code must not be empty")
	case len([]rune(c.Code)) > r.bufferSize:
		return fmt.Errorf("cheat code %q is longer than the %d rune buffer", c.Code, r.bufferSize)
	case c.Modifier != "" && c.Special != "":
		return fmt.Errorf("cheat code %q maps to both a modifier and a special event", c.Code)
	case c.Special != "":
		if !c.Special.Valid() {
			return fmt.Errorf("cheat code %q: unknown special event %q", c.Code, c.Special)
		}
	default:
		if _, ok := r.mods[c.Modifier]; !ok {
			return fmt.Errorf("cheat code %q: %w %q", c.Code, ErrUnknownModifier, c.Modifier)
		}
	}
	return nil
}

// ProcessCheatToken appends the token to the rolling input buffer, dropping
// the oldest runes beyond the buffer size. When the buffer ends with a known
// code, the code is applied, the buffer is cleared and the match returned.
func (r *Registry) ProcessCheatToken(token string) (CheatCode, bool) {
	if token == "" {
		return CheatCode{}, false
	}
	r.buffer = append(r.buffer, []rune(strings.ToLower(token))...)
	if over := len(r.buffer) - r.bufferSize; over > 0 {
		r.buffer = append(r.buffer[:0], r.buffer[over:]...)
	}

	buf := string(r.buffer)
	for _, c := range r.cheats {
		if strings.HasSuffix(buf, c.Code) {
			r.buffer = r.buffer[:0]
			r.apply(c)
			return c, true
		}
	}
	return CheatCode{}, false
}

// ProcessCommand matches a whole command line against the cheat table,
// either exactly or as a prefix followed by arguments. The rolling buffer is
// left untouched.
func (r *Registry) ProcessCommand(line string) (CheatCode, bool) {
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" {
		return CheatCode{}, false
	}
	for _, c := range r.cheats {
		if line == c.Code || strings.HasPrefix(line, c.Code+" ") {
			r.apply(c)
			return c, true
		}
	}
	return CheatCode{}, false
}

func (r *Registry) apply(c CheatCode) {
	if c.Modifier != "" {
		r.Activate(c.Modifier)
	}
	now := r.now()
	r.logger.Info("cheat accepted",
		zap.String("code", c.Code),
		zap.String("modifier", string(c.Modifier)),
		zap.String("special", string(c.Special)))
	r.bus.Publish(events.Event{
		Kind:      events.KindCheatAccepted,
		Timestamp: now,
		Code:      c.Code,
		Special:   c.Special,
	})
	if c.Special != "" {
		r.bus.Publish(events.Event{
			Kind:      events.KindSpecialEvent,
			Timestamp: now,
			Code:      c.Code,
			Special:   c.Special,
		})
	}
}

// Buffer returns the current contents of the cheat input buffer.
func (r *Registry) Buffer() string {
	return string(r.buffer)
}

// CheatCodes returns a copy of the cheat table.
func (r *Registry) CheatCodes() []CheatCode {
	return append([]CheatCode(nil), r.cheats...)
}
