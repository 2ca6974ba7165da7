// Package progression tracks achievements, quests and the team-wide
// experience pool.
package progression

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/xp"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// DefaultMilestoneLevel is the team level that unlocks the milestone
// achievement.
const DefaultMilestoneLevel = 10

// Option configures a Tracker. Use With* functions to create Options.
type Option func(*trackerOptions)

type trackerOptions struct {
	curve     xp.Curve
	milestone int
	clock     func() time.Time
	logger    *zap.Logger
	bus       *events.Bus
}

// WithCurve sets the team level curve.
func WithCurve(c xp.Curve) Option {
	return func(o *trackerOptions) { o.curve = c }
}

// WithMilestoneLevel sets the team level that unlocks the milestone
// achievement.
func WithMilestoneLevel(level int) Option {
	return func(o *trackerOptions) { o.milestone = level }
}

// WithClock sets the time source for unlock timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *trackerOptions) { o.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *trackerOptions) { o.logger = l }
}

// WithBus sets the bus that receives progression notifications.
func WithBus(b *events.Bus) Option {
	return func(o *trackerOptions) { o.bus = b }
}

type achievement struct {
	models.Achievement
	condition func(Snapshot) bool
}

// Tracker owns achievement and quest state plus the team experience pool.
// It is not safe for concurrent use.
type Tracker struct {
	achievements []*achievement
	quests       []*models.Quest

	curve     xp.Curve
	teamXP    int
	teamLevel int
	milestone int

	now    func() time.Time
	logger *zap.Logger
	bus    *events.Bus
}

// New creates a tracker. Definitions are copied and reset to their initial
// locked and zero-progress state.
func New(achievements []AchievementDef, quests []models.Quest, opts ...Option) (*Tracker, error) {
	o := trackerOptions{
		curve:     xp.DefaultCurve(),
		milestone: DefaultMilestoneLevel,
		clock:     time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.curve.Validate(); err != nil {
		return nil, err
	}

	t := &Tracker{
		curve:     o.curve,
		teamLevel: 1,
		milestone: o.milestone,
		now:       o.clock,
		logger:    o.logger,
		bus:       o.bus,
	}

	seenA := make(map[models.AchievementID]bool, len(achievements))
	for _, def := range achievements {
		if def.ID == "" || seenA[def.ID] {
			return nil, fmt.Errorf("achievement id %q is empty or duplicated", def.ID)
		}
		seenA[def.ID] = true
		a := &achievement{Achievement: def.Achievement, condition: def.Condition}
		a.Unlocked = false
		a.UnlockedAt = nil
		t.achievements = append(t.achievements, a)
	}

	seenQ := make(map[models.QuestID]bool, len(quests))
	for _, q := range quests {
		if q.ID == "" || seenQ[q.ID] {
			return nil, fmt.Errorf("quest id %q is empty or duplicated", q.ID)
		}
		if q.Target < 1 || q.XPReward < 0 {
			return nil, fmt.Errorf("quest %s: target must be positive and reward non-negative", q.ID)
		}
		seenQ[q.ID] = true
		q.Progress = 0
		q.Completed = false
		t.quests = append(t.quests, &q)
	}
	return t, nil
}

// Default returns a tracker with the stock achievements and quests.
func Default(opts ...Option) *Tracker {
	t, err := New(DefaultAchievements(), DefaultQuests(), opts...)
	if err != nil {
		panic(fmt.Sprintf("progression: stock definitions rejected: %v", err))
	}
	return t
}

func (t *Tracker) findAchievement(id models.AchievementID) *achievement {
	for _, a := range t.achievements {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (t *Tracker) findQuest(id models.QuestID) *models.Quest {
	for _, q := range t.quests {
		if q.ID == id {
			return q
		}
	}
	return nil
}

// UnlockAchievement unlocks an achievement. It returns false when the id is
// unknown or the achievement is already unlocked.
func (t *Tracker) UnlockAchievement(id models.AchievementID) bool {
	a := t.findAchievement(id)
	if a == nil || a.Unlocked {
		return false
	}
	now := t.now()
	a.Unlocked = true
	a.UnlockedAt = &now

	t.logger.Info("achievement unlocked", zap.String("achievement", string(id)))
	snap := a.Achievement.Clone()
	t.bus.Publish(events.Event{
		Kind:        events.KindAchievementUnlocked,
		Timestamp:   now,
		Achievement: &snap,
	})
	return true
}

// EvaluateConditions unlocks every locked achievement whose condition holds
// for the snapshot and returns the ids unlocked by this call. Calling it
// repeatedly with the same snapshot is harmless.
func (t *Tracker) EvaluateConditions(s Snapshot) []models.AchievementID {
	var unlocked []models.AchievementID
	for _, a := range t.achievements {
		if a.Unlocked || a.condition == nil || !a.condition(s) {
			continue
		}
		if t.UnlockAchievement(a.ID) {
			unlocked = append(unlocked, a.ID)
		}
	}
	return unlocked
}

// UpdateQuest advances a quest, clamping progress to the target. The call
// that reaches the target completes the quest and pays its reward into the
// team pool. Unknown and completed quests are left alone.
func (t *Tracker) UpdateQuest(id models.QuestID, increment int) (models.Quest, bool) {
	q := t.findQuest(id)
	if q == nil {
		return models.Quest{}, false
	}
	if q.Completed || increment <= 0 {
		return *q, false
	}

	before := q.Progress
	q.Progress = min(q.Progress+increment, q.Target)
	if before < q.Target && q.Progress == q.Target {
		q.Completed = true
		t.logger.Info("quest completed",
			zap.String("quest", string(id)),
			zap.Int("reward", q.XPReward))
		t.AddAggregateXP(q.XPReward)
		snap := *q
		t.bus.Publish(events.Event{
			Kind:      events.KindQuestCompleted,
			Timestamp: t.now(),
			Quest:     &snap,
			Amount:    q.XPReward,
		})
	}
	return *q, true
}

// AddAggregateXP adds experience to the team pool and resolves team
// level-ups, announcing each level separately. It returns the number of
// levels gained.
func (t *Tracker) AddAggregateXP(amount int) int {
	if amount <= 0 {
		return 0
	}
	remaining, level, gained := t.curve.Apply(t.teamXP, t.teamLevel, amount)
	from := t.teamLevel
	t.teamXP = remaining
	t.teamLevel = level

	now := t.now()
	for l := from + 1; l <= level; l++ {
		t.logger.Info("team leveled up", zap.Int("level", l))
		t.bus.Publish(events.Event{Kind: events.KindLevelUp, Timestamp: now, Level: l})
	}
	if t.milestone > 0 && level >= t.milestone {
		t.UnlockAchievement(models.AchievementLevelMilestone)
	}
	return gained
}

// TeamLevel returns the team level.
func (t *Tracker) TeamLevel() int { return t.teamLevel }

// TeamXP returns the experience carried toward the next team level.
func (t *Tracker) TeamXP() int { return t.teamXP }

// XPForNextLevel returns the team experience needed to leave the current
// level.
func (t *Tracker) XPForNextLevel() int {
	return t.curve.Threshold(t.teamLevel)
}

// UnlockedCount returns how many achievements are unlocked.
func (t *Tracker) UnlockedCount() int {
	n := 0
	for _, a := range t.achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// IsUnlocked reports whether the achievement is unlocked.
func (t *Tracker) IsUnlocked(id models.AchievementID) bool {
	a := t.findAchievement(id)
	return a != nil && a.Unlocked
}

// Achievements returns copies of every achievement in definition order.
func (t *Tracker) Achievements() []models.Achievement {
	out := make([]models.Achievement, 0, len(t.achievements))
	for _, a := range t.achievements {
		out = append(out, a.Achievement.Clone())
	}
	return out
}

// Quest returns a copy of the quest.
func (t *Tracker) Quest(id models.QuestID) (models.Quest, bool) {
	q := t.findQuest(id)
	if q == nil {
		return models.Quest{}, false
	}
	return *q, true
}

// Quests returns copies of every quest in definition order.
func (t *Tracker) Quests() []models.Quest {
	out := make([]models.Quest, 0, len(t.quests))
	for _, q := range t.quests {
		out = append(out, *q)
	}
	return out
}
