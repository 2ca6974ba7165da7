package hierarchy

import (
	"math"

	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/catalog"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

const (
	// selfActivityBump is the activity gained by taking on one's own work.
	selfActivityBump = 0.2
	// receiveActivityBump is the activity gained by receiving delegated work.
	receiveActivityBump = 0.15
)

// DelegateSkill routes a skill from an agent to the tier that owns it.
//
// An agent at the owning tier executes the skill itself. A more senior agent
// hands it to the first owning-tier agent found depth-first in its subtree. A
// more junior agent escalates to its parent. Routing fails when the subtree
// has no eligible agent or escalation runs out of parents.
func (e *Engine) DelegateSkill(fromID int, skill models.Skill) (models.Delegation, bool) {
	if !skill.Valid() {
		return models.Delegation{}, false
	}
	return e.route(fromID, skill, make(map[int]struct{}))
}

// DelegateSkillTo hands a skill to an explicit target. Only existence of both
// agents is checked; tier ownership is not.
func (e *Engine) DelegateSkillTo(fromID int, skill models.Skill, toID int) (models.Delegation, bool) {
	if !skill.Valid() {
		return models.Delegation{}, false
	}
	from, ok := e.registry.Get(fromID)
	if !ok {
		return models.Delegation{}, false
	}
	to, ok := e.registry.Get(toID)
	if !ok {
		e.logger.Debug("delegate: unknown target", zap.Int("to_id", toID))
		return models.Delegation{}, false
	}
	return e.assign(from, to, skill), true
}

// route escalates strictly upward, so each hop raises seniority and the
// visited set only guards against corrupted parent links.
func (e *Engine) route(fromID int, skill models.Skill, visited map[int]struct{}) (models.Delegation, bool) {
	from, ok := e.registry.Get(fromID)
	if !ok {
		return models.Delegation{}, false
	}
	if _, seen := visited[fromID]; seen {
		return models.Delegation{}, false
	}
	visited[fromID] = struct{}{}

	owner := catalog.TierOf(skill)
	switch {
	case from.Tier == owner:
		return e.execute(from, skill), true

	case from.Tier.SeniorTo(owner):
		target, ok := e.findInSubtree(from, owner)
		if !ok {
			e.logger.Debug("delegate: no eligible agent below",
				zap.Int("from_id", from.ID),
				zap.String("skill", string(skill)))
			return models.Delegation{}, false
		}
		return e.assign(from, target, skill), true

	default:
		pid, ok := from.Parent()
		if !ok {
			e.logger.Debug("delegate: no senior to escalate to",
				zap.Int("from_id", from.ID),
				zap.String("skill", string(skill)))
			return models.Delegation{}, false
		}
		return e.route(pid, skill, visited)
	}
}

// findInSubtree returns the first agent of the tier below root in depth-first
// pre-order, searching at most maxSearchDepth levels down.
func (e *Engine) findInSubtree(root *models.Agent, tier models.Tier) (*models.Agent, bool) {
	visited := map[int]struct{}{root.ID: {}}
	var walk func(a *models.Agent, depth int) (*models.Agent, bool)
	walk = func(a *models.Agent, depth int) (*models.Agent, bool) {
		if depth > e.maxSearchDepth {
			return nil, false
		}
		for _, cid := range a.ChildIDs {
			if _, seen := visited[cid]; seen {
				continue
			}
			visited[cid] = struct{}{}
			child, ok := e.registry.Get(cid)
			if !ok {
				continue
			}
			if child.Tier == tier {
				return child, true
			}
			if found, ok := walk(child, depth+1); ok {
				return found, true
			}
		}
		return nil, false
	}
	return walk(root, 1)
}

// execute runs the skill on the delegating agent itself.
func (e *Engine) execute(a *models.Agent, skill models.Skill) models.Delegation {
	a.SkillQueue = append(a.SkillQueue, skill)
	a.ActivityLevel = math.Min(1, a.ActivityLevel+selfActivityBump)
	a.Tasks++
	return e.record(a, a, skill, models.DelegationActive)
}

// assign queues the skill on another agent.
func (e *Engine) assign(from, to *models.Agent, skill models.Skill) models.Delegation {
	to.SkillQueue = append(to.SkillQueue, skill)
	to.ActivityLevel = math.Min(1, to.ActivityLevel+receiveActivityBump)
	return e.record(from, to, skill, models.DelegationPending)
}

func (e *Engine) record(from, to *models.Agent, skill models.Skill, status models.DelegationStatus) models.Delegation {
	d := models.Delegation{
		ID:        e.newID(),
		FromID:    from.ID,
		ToID:      to.ID,
		Skill:     skill,
		Timestamp: e.now(),
		Status:    status,
	}
	e.log = append(e.log, d)
	e.delegationCount++

	e.logger.Debug("skill delegated",
		zap.String("delegation_id", d.ID),
		zap.Int("from_id", d.FromID),
		zap.Int("to_id", d.ToID),
		zap.String("skill", string(skill)),
		zap.String("status", string(status)))

	e.addXP(from, e.rewards.Delegation)
	snap := d
	e.bus.Publish(events.Event{
		Kind:       events.KindDelegationCreated,
		Timestamp:  d.Timestamp,
		AgentID:    d.ToID,
		Delegation: &snap,
	})
	return d
}

// CompleteSkill pops the oldest queued skill of an agent, marks the matching
// delegation completed and grants the completion reward.
func (e *Engine) CompleteSkill(id int) (models.Skill, bool) {
	a, ok := e.registry.Get(id)
	if !ok || len(a.SkillQueue) == 0 {
		return "", false
	}
	skill := a.SkillQueue[0]
	a.SkillQueue = a.SkillQueue[1:]
	if len(a.SkillQueue) == 0 {
		a.SkillQueue = nil
	}

	var completed *models.Delegation
	for i := range e.log {
		d := &e.log[i]
		if d.ToID == id && d.Skill == skill && d.Status != models.DelegationCompleted {
			d.Status = models.DelegationCompleted
			snap := *d
			completed = &snap
			break
		}
	}

	e.addXP(a, e.rewards.SkillComplete)
	e.bus.Publish(events.Event{
		Kind:       events.KindDelegationCompleted,
		Timestamp:  e.now(),
		AgentID:    id,
		Delegation: completed,
	})
	return skill, true
}
