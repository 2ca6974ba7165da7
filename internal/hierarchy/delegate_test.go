package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

func TestDelegateSkill_RoutesDownToOwner(t *testing.T) {
	e, rec := newTestEngine(t)
	e.RegisterAgent(1, models.TierBoss, "boss")
	e.RegisterChild(2, models.TierEmployee, "emp", 1)

	d, ok := e.DelegateSkill(1, models.SkillGenerate)
	require.True(t, ok)
	assert.Equal(t, models.DelegationPending, d.Status)
	assert.Equal(t, 1, d.FromID)
	assert.Equal(t, 2, d.ToID)
	assert.Equal(t, epoch, d.Timestamp)

	emp, _ := e.Agent(2)
	assert.Equal(t, []models.Skill{models.SkillGenerate}, emp.SkillQueue)
	assert.InDelta(t, 0.15, emp.ActivityLevel, 1e-9)

	boss, _ := e.Agent(1)
	assert.Equal(t, 25, boss.XP, "delegator is rewarded")

	ev, ok := rec.last(events.KindDelegationCreated)
	require.True(t, ok)
	assert.Equal(t, d, *ev.Delegation)
}

func TestDelegateSkill_DepthFirstFirstMatch(t *testing.T) {
	e, _ := newTestEngine(t)
	e.RegisterAgent(1, models.TierBoss, "boss")
	e.RegisterChild(2, models.TierSupervisor, "sup-a", 1)
	e.RegisterChild(3, models.TierSupervisor, "sup-b", 1)
	e.RegisterChild(4, models.TierIntern, "intern-b", 3)
	e.RegisterChild(5, models.TierEmployee, "emp-a", 2)
	e.RegisterChild(6, models.TierIntern, "intern-a", 5)

	d, ok := e.DelegateSkill(1, models.SkillLint)
	require.True(t, ok)
	assert.Equal(t, 6, d.ToID, "sup-a's subtree is searched before sup-b")
}

func TestDelegateSkill_EscalatesUpward(t *testing.T) {
	e, _ := newTestEngine(t)
	e.RegisterAgent(1, models.TierBoss, "boss")
	e.RegisterChild(2, models.TierIntern, "intern", 1)

	d, ok := e.DelegateSkill(2, models.SkillPlan)
	require.True(t, ok)
	assert.Equal(t, 1, d.ToID)
	assert.Equal(t, models.DelegationActive, d.Status)
}

func TestDelegateSkill_EscalatesThenDescends(t *testing.T) {
	e, _ := newTestEngine(t)
	e.RegisterAgent(1, models.TierBoss, "boss")
	e.RegisterChild(2, models.TierSupervisor, "sup", 1)
	e.RegisterChild(3, models.TierIntern, "intern", 1)

	d, ok := e.DelegateSkill(3, models.SkillReview)
	require.True(t, ok)
	assert.Equal(t, 1, d.FromID, "the boss routes it")
	assert.Equal(t, 2, d.ToID)
}

func TestDelegateSkill_SelfExecution(t *testing.T) {
	e, _ := newTestEngine(t)
	e.RegisterAgent(1, models.TierSupervisor, "sup")

	d, ok := e.DelegateSkill(1, models.SkillResearch)
	require.True(t, ok)
	assert.Equal(t, models.DelegationActive, d.Status)
	assert.True(t, d.SelfExecuted())

	a, _ := e.Agent(1)
	assert.Equal(t, 1, a.Tasks)
	assert.InDelta(t, 0.2, a.ActivityLevel, 1e-9)
	assert.Equal(t, []models.Skill{models.SkillResearch}, a.SkillQueue)
}

func TestDelegateSkill_Failures(t *testing.T) {
	e, rec := newTestEngine(t)
	e.RegisterAgent(1, models.TierSupervisor, "sup")
	e.RegisterAgent(2, models.TierIntern, "orphan")
	rec.events = nil

	tests := []struct {
		name  string
		from  int
		skill models.Skill
	}{
		{name: "unknown agent", from: 42, skill: models.SkillLint},
		{name: "no eligible child", from: 1, skill: models.SkillLint},
		{name: "no parent to escalate to", from: 2, skill: models.SkillPlan},
		{name: "unknown skill", from: 1, skill: "/dance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := e.DelegateSkill(tt.from, tt.skill)
			assert.False(t, ok)
		})
	}
	assert.Empty(t, rec.events)
	assert.Equal(t, 0, e.DelegationCount())
}

func TestDelegateSkill_SearchDepthIsBounded(t *testing.T) {
	e, _ := newTestEngine(t, WithMaxSearchDepth(2))
	e.RegisterAgent(1, models.TierBoss, "boss")
	e.RegisterChild(2, models.TierSupervisor, "sup", 1)
	e.RegisterChild(3, models.TierSupervisor, "sup-2", 2)
	e.RegisterChild(4, models.TierIntern, "deep", 3)

	_, ok := e.DelegateSkill(1, models.SkillLint)
	assert.False(t, ok, "intern sits three levels down")

	_, ok = e.DelegateSkill(2, models.SkillLint)
	assert.True(t, ok)
}

func TestDelegateSkillTo_SkipsTierValidation(t *testing.T) {
	e, _ := newTestEngine(t)
	e.RegisterAgent(1, models.TierIntern, "intern")
	e.RegisterAgent(2, models.TierEmployee, "emp")

	d, ok := e.DelegateSkillTo(1, models.SkillPlan, 2)
	require.True(t, ok)
	assert.Equal(t, models.DelegationPending, d.Status)
	assert.Equal(t, 2, d.ToID)

	_, ok = e.DelegateSkillTo(1, models.SkillPlan, 9)
	assert.False(t, ok)
}

func TestCompleteSkill(t *testing.T) {
	e, rec := newTestEngine(t)
	e.RegisterAgent(1, models.TierEmployee, "emp")
	e.RegisterChild(2, models.TierIntern, "intern", 1)
	first, _ := e.DelegateSkill(1, models.SkillDocs)
	e.DelegateSkill(1, models.SkillLint)

	skill, ok := e.CompleteSkill(2)
	require.True(t, ok)
	assert.Equal(t, models.SkillDocs, skill)

	log := e.DelegationsFor(2)
	require.Len(t, log, 2)
	assert.Equal(t, models.DelegationCompleted, log[0].Status)
	assert.Equal(t, models.DelegationPending, log[1].Status)

	ev, ok := rec.last(events.KindDelegationCompleted)
	require.True(t, ok)
	assert.Equal(t, first.ID, ev.Delegation.ID)

	intern, _ := e.Agent(2)
	assert.Equal(t, 50, intern.XP)
	assert.Equal(t, []models.Skill{models.SkillLint}, intern.SkillQueue)

	e.CompleteSkill(2)
	_, ok = e.CompleteSkill(2)
	assert.False(t, ok, "queue empty")
}
