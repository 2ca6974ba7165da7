package hierarchy

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/catalog"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

var epoch = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

type recorder struct{ events []events.Event }

func (r *recorder) count(k events.Kind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func (r *recorder) last(k events.Kind) (events.Event, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == k {
			return r.events[i], true
		}
	}
	return events.Event{}, false
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *recorder) {
	t.Helper()
	bus := events.NewBus()
	rec := &recorder{}
	bus.SubscribeAll(func(e events.Event) { rec.events = append(rec.events, e) })
	seq := 0
	base := []Option{
		WithBus(bus),
		WithClock(func() time.Time { return epoch }),
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("d%03d", seq) }),
	}
	return New(append(base, opts...)...), rec
}

type bypass struct{ on bool }

func (b *bypass) CanBypassCapacity() bool { return b.on }
func (b *bypass) EffectiveCapacityMultiplier(models.Tier) float64 {
	if b.on {
		return math.Inf(1)
	}
	return 1
}

func TestRegister_FirstRegistrationWins(t *testing.T) {
	e, rec := newTestEngine(t)

	a, ok := e.RegisterAgent(1, models.TierEmployee, "alice")
	require.True(t, ok)
	assert.Equal(t, 1, a.Level)
	assert.Equal(t, 0, a.XP)
	assert.True(t, a.IsActive)
	assert.Equal(t, models.SourceCustom, a.Source)

	again, ok := e.RegisterAgent(1, models.TierBoss, "mallory")
	assert.False(t, ok)
	assert.Equal(t, "alice", again.Name)
	assert.Equal(t, models.TierEmployee, again.Tier)

	got, _ := e.Agent(1)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, 1, rec.count(events.KindAgentChanged))
}

func TestRegister_LinksParent(t *testing.T) {
	e, _ := newTestEngine(t)
	e.RegisterAgent(1, models.TierBoss, "boss")
	e.RegisterChild(2, models.TierSupervisor, "sup", 1)
	orphan, _ := e.RegisterChild(3, models.TierIntern, "lost", 99)

	boss, _ := e.Agent(1)
	assert.Equal(t, []int{2}, boss.ChildIDs)
	sup, _ := e.Agent(2)
	pid, ok := sup.Parent()
	assert.True(t, ok)
	assert.Equal(t, 1, pid)
	assert.Nil(t, orphan.ParentID, "unknown parent is not linked")
}

func TestRegister_InvalidTier(t *testing.T) {
	e, rec := newTestEngine(t)
	_, ok := e.RegisterAgent(1, "ceo", "x")
	assert.False(t, ok)
	assert.Equal(t, 0, e.Count())
	assert.Empty(t, rec.events)
}

func TestUnregister_OrphansChildren(t *testing.T) {
	e, rec := newTestEngine(t)
	e.RegisterAgent(1, models.TierBoss, "boss")
	e.RegisterChild(2, models.TierSupervisor, "sup", 1)
	e.RegisterChild(3, models.TierEmployee, "emp-a", 2)
	e.RegisterChild(4, models.TierEmployee, "emp-b", 2)

	require.True(t, e.Unregister(2))
	assert.False(t, e.Unregister(2))

	boss, _ := e.Agent(1)
	assert.Empty(t, boss.ChildIDs)
	for _, id := range []int{3, 4} {
		a, ok := e.Agent(id)
		require.True(t, ok, "children survive")
		assert.Nil(t, a.ParentID, "children are orphaned, not re-parented")
	}
	assert.Equal(t, 1, rec.count(events.KindAgentRemoved))
}

func TestAssignParent(t *testing.T) {
	e, _ := newTestEngine(t)
	e.RegisterAgent(1, models.TierBoss, "boss")
	e.RegisterChild(2, models.TierSupervisor, "sup", 1)
	e.RegisterChild(3, models.TierEmployee, "emp", 2)
	e.RegisterAgent(4, models.TierIntern, "intern")

	assert.True(t, e.AssignParent(4, 3))
	emp, _ := e.Agent(3)
	assert.Equal(t, []int{4}, emp.ChildIDs)

	assert.False(t, e.AssignParent(1, 4), "cycle")
	assert.False(t, e.AssignParent(3, 3), "self")
	assert.False(t, e.AssignParent(3, 42), "unknown parent")

	assert.True(t, e.AssignParent(4, 2), "move")
	emp, _ = e.Agent(3)
	sup, _ := e.Agent(2)
	assert.Empty(t, emp.ChildIDs)
	assert.Equal(t, []int{3, 4}, sup.ChildIDs)
}

func TestPromote_Capacity(t *testing.T) {
	policy := &bypass{}
	e, _ := newTestEngine(t, WithCapacityPolicy(policy))
	e.RegisterAgent(1, models.TierBoss, "boss")
	e.RegisterAgent(2, models.TierSupervisor, "sup")

	tier, ok := e.Promote(2)
	assert.False(t, ok, "boss tier holds one agent")
	assert.Equal(t, models.TierSupervisor, tier)

	policy.on = true
	tier, ok = e.Promote(2)
	require.True(t, ok)
	assert.Equal(t, models.TierBoss, tier)
	assert.Equal(t, 2, e.CountByTier(models.TierBoss))

	sup, _ := e.Agent(2)
	assert.Equal(t, 2, sup.Level, "promotion bonus of 100 reaches level 2")
}

func TestPromote_LeavesReportingLines(t *testing.T) {
	e, _ := newTestEngine(t)
	e.RegisterAgent(1, models.TierSupervisor, "sup")
	e.RegisterChild(2, models.TierEmployee, "emp", 1)
	e.RegisterChild(3, models.TierIntern, "intern", 2)

	_, ok := e.Promote(2)
	require.True(t, ok)

	emp, _ := e.Agent(2)
	assert.Equal(t, models.TierSupervisor, emp.Tier)
	assert.Equal(t, []int{3}, emp.ChildIDs)
	pid, _ := emp.Parent()
	assert.Equal(t, 1, pid)
}

func TestPromoteDemote_Bounds(t *testing.T) {
	e, _ := newTestEngine(t)
	e.RegisterAgent(1, models.TierBoss, "boss")
	e.RegisterAgent(2, models.TierIntern, "intern")

	_, ok := e.Promote(1)
	assert.False(t, ok)
	_, ok = e.Demote(2)
	assert.False(t, ok)
	_, ok = e.Promote(99)
	assert.False(t, ok)

	tier, ok := e.Demote(1)
	require.True(t, ok)
	assert.Equal(t, models.TierSupervisor, tier)
	boss, _ := e.Agent(1)
	assert.Equal(t, 0, boss.XP, "demotion grants nothing")
}

func TestDemote_IgnoresCapacity(t *testing.T) {
	c, err := catalog.New(map[models.Tier]int{models.TierIntern: 0})
	require.NoError(t, err)
	e, _ := newTestEngine(t, WithCatalog(c))
	e.RegisterAgent(1, models.TierEmployee, "emp")

	_, ok := e.Demote(1)
	assert.True(t, ok)
}

func TestAddXP_ExactThresholdLevelsOnce(t *testing.T) {
	e, rec := newTestEngine(t)
	e.RegisterAgent(1, models.TierEmployee, "emp")

	gained, ok := e.AddXP(1, 100)
	require.True(t, ok)
	assert.Equal(t, 1, gained)
	a, _ := e.Agent(1)
	assert.Equal(t, 2, a.Level)
	assert.Equal(t, 0, a.XP)

	ev, ok := rec.last(events.KindXPGained)
	require.True(t, ok)
	assert.Equal(t, 100, ev.Amount, "raw amount, not the remainder")
}

func TestAddXP_TenLevelsAtOnce(t *testing.T) {
	e, rec := newTestEngine(t)
	e.RegisterAgent(1, models.TierEmployee, "emp")

	total := 0
	for l := 1; l <= 10; l++ {
		total += e.XPThreshold(l)
	}
	gained, ok := e.AddXP(1, total)
	require.True(t, ok)
	assert.Equal(t, 10, gained)

	a, _ := e.Agent(1)
	assert.Equal(t, 11, a.Level)
	assert.Equal(t, 0, a.XP)
	assert.Equal(t, 1, rec.count(events.KindAgentLevelUp))
}

func TestAddXP_Rejects(t *testing.T) {
	e, rec := newTestEngine(t)
	e.RegisterAgent(1, models.TierEmployee, "emp")
	rec.events = nil

	_, ok := e.AddXP(2, 10)
	assert.False(t, ok)
	_, ok = e.AddXP(1, -5)
	assert.False(t, ok)
	assert.Empty(t, rec.events)
}

func TestTick_DecaysActivityAndTrimsLog(t *testing.T) {
	e, _ := newTestEngine(t, WithDelegationWindow(3))
	e.RegisterAgent(1, models.TierIntern, "intern")
	for i := 0; i < 5; i++ {
		e.DelegateSkill(1, models.SkillLint)
	}
	a, _ := e.Agent(1)
	assert.Equal(t, 1.0, a.ActivityLevel, "activity clamps at 1")

	e.Tick(2 * time.Second)
	a, _ = e.Agent(1)
	assert.InDelta(t, 0.9, a.ActivityLevel, 1e-9)
	assert.Len(t, e.Delegations(), 3)
	assert.Equal(t, 5, e.DelegationCount(), "lifetime count survives trimming")

	e.Tick(time.Hour)
	a, _ = e.Agent(1)
	assert.Equal(t, 0.0, a.ActivityLevel)
}

func TestTeamStats(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.Equal(t, models.TeamStats{AverageLevel: 1}, e.TeamStats())

	e.RegisterAgent(1, models.TierBoss, "boss")
	e.RegisterAgent(2, models.TierIntern, "intern")
	e.AddXP(1, 100+120+10) // level 3, 10 carried
	e.AddXP(2, 40)

	want := models.TeamStats{AgentCount: 2, AverageLevel: 2, TotalXP: 50}
	if diff := cmp.Diff(want, e.TeamStats()); diff != "" {
		t.Errorf("TeamStats() mismatch (-want +got):\n%s", diff)
	}
}

func TestQueries_ReturnSnapshots(t *testing.T) {
	e, _ := newTestEngine(t)
	e.RegisterAgent(1, models.TierBoss, "boss")
	e.RegisterChild(2, models.TierSupervisor, "sup", 1)

	boss, _ := e.Agent(1)
	boss.ChildIDs[0] = 99
	boss.Name = "changed"

	again, _ := e.Agent(1)
	assert.Equal(t, "boss", again.Name)
	assert.Equal(t, []int{2}, again.ChildIDs)

	children := e.Children(1)
	require.Len(t, children, 1)
	assert.Equal(t, 2, children[0].ID)
	assert.Len(t, e.AgentsByTier(models.TierSupervisor), 1)
	assert.Equal(t, []int{1, 2}, agentIDs(e.Agents()))
}

func TestAddTokens(t *testing.T) {
	e, _ := newTestEngine(t)
	e.RegisterAgent(1, models.TierBoss, "boss")
	assert.True(t, e.AddTokens(1, 120, 30))
	assert.False(t, e.AddTokens(1, -1, 0))
	assert.False(t, e.AddTokens(7, 1, 1))
	a, _ := e.Agent(1)
	assert.Equal(t, 150, a.Tokens)
}

func agentIDs(agents []models.Agent) []int {
	out := make([]int, 0, len(agents))
	for _, a := range agents {
		out = append(out, a.ID)
	}
	return out
}
