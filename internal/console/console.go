// Package console is a line-oriented command surface over an office. It is
// a human-readable facade: every command maps onto one office operation or
// query, and failures of domain operations are reported, not returned.
package console

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/office"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

var (
	okColor    = color.New(color.FgGreen)
	noopColor  = color.New(color.FgYellow)
	dimColor   = color.New(color.Faint)
	eventColor = color.New(color.FgCyan)
	starColor  = color.New(color.FgMagenta, color.Bold)
)

// Console executes commands against an office and writes results to out.
type Console struct {
	office   *office.Office
	out      io.Writer
	commands map[string]command
}

// New creates a console.
func New(off *office.Office, out io.Writer) *Console {
	c := &Console{office: off, out: out}
	c.commands = commandTable()
	return c
}

// Exec runs a single command line. Blank lines and lines starting with '#'
// are ignored. An error means the line could not be parsed; an operation
// that was refused is reported on out and is not an error.
func (c *Console) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	// Whole-line cheat commands such as //pixelhq:turbo are accepted as-is.
	if strings.HasPrefix(fields[0], "//") {
		return c.cheat(strings.TrimSpace(line))
	}

	name := strings.ToLower(fields[0])
	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	args := fields[1:]
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return fmt.Errorf("usage: %s", cmd.usage)
	}
	return cmd.run(c, args)
}

// RunScript executes commands line by line and stops at the first line that
// fails to parse.
func (c *Console) RunScript(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		if err := c.Exec(scanner.Text()); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return nil
}

// Attach prints office notifications as they happen. The returned func
// detaches the console.
func (c *Console) Attach() func() {
	return c.office.SubscribeAll(c.notify)
}

func (c *Console) notify(e events.Event) {
	switch e.Kind {
	case events.KindAgentLevelUp:
		eventColor.Fprintf(c.out, "  ↑ %s reached level %d\n", e.Agent.Name, e.Level)
	case events.KindModifierActivated:
		eventColor.Fprintf(c.out, "  ⚡ %s on\n", e.Modifier.Label)
	case events.KindModifierDeactivated:
		dimColor.Fprintf(c.out, "  ⚡ %s off\n", e.Modifier.Label)
	case events.KindSpecialEvent:
		eventColor.Fprintf(c.out, "  ✦ %s\n", specialMessage(e))
	case events.KindAchievementUnlocked:
		starColor.Fprintf(c.out, "  ★ achievement unlocked: %s\n", e.Achievement.Name)
	case events.KindQuestCompleted:
		starColor.Fprintf(c.out, "  ★ quest completed: %s (+%d xp)\n", e.Quest.Name, e.Quest.XPReward)
	case events.KindLevelUp:
		starColor.Fprintf(c.out, "  ★ team level %d\n", e.Level)
	}
}

func specialMessage(e events.Event) string {
	switch e.Special {
	case models.SpecialConfetti:
		return "confetti everywhere"
	case models.SpecialCoffee:
		return "coffee break, everyone feels refreshed"
	case models.SpecialHireIntern:
		return "an intern walks in"
	default:
		return string(e.Special)
	}
}

func (c *Console) ok(format string, args ...any) {
	okColor.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) noop(format string, args ...any) {
	noopColor.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) help() {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := c.commands[name]
		fmt.Fprintf(c.out, "  %-36s %s\n", cmd.usage, dimColor.Sprint(cmd.summary))
	}
	fmt.Fprintf(c.out, "  %-36s %s\n", "//pixelhq:<code>", dimColor.Sprint("enter a cheat code"))
}
