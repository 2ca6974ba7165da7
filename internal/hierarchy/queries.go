package hierarchy

import (
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// Agent returns a copy of the agent.
func (e *Engine) Agent(id int) (models.Agent, bool) {
	a, ok := e.registry.Get(id)
	if !ok {
		return models.Agent{}, false
	}
	return a.Clone(), true
}

// Agents returns copies of every agent in registration order.
func (e *Engine) Agents() []models.Agent {
	out := make([]models.Agent, 0, e.registry.Count())
	e.registry.Each(func(a *models.Agent) {
		out = append(out, a.Clone())
	})
	return out
}

// AgentsByTier returns copies of the agents at the tier in registration order.
func (e *Engine) AgentsByTier(tier models.Tier) []models.Agent {
	var out []models.Agent
	e.registry.Each(func(a *models.Agent) {
		if a.Tier == tier {
			out = append(out, a.Clone())
		}
	})
	return out
}

// Children returns copies of the agent's direct reports in link order.
func (e *Engine) Children(id int) []models.Agent {
	a, ok := e.registry.Get(id)
	if !ok {
		return nil
	}
	out := make([]models.Agent, 0, len(a.ChildIDs))
	for _, cid := range a.ChildIDs {
		if c, ok := e.registry.Get(cid); ok {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Count returns the number of registered agents.
func (e *Engine) Count() int {
	return e.registry.Count()
}

// CountByTier returns the number of agents at the tier.
func (e *Engine) CountByTier(tier models.Tier) int {
	return e.registry.CountByTier(tier)
}

// Delegations returns a copy of the retained delegation log, oldest first.
func (e *Engine) Delegations() []models.Delegation {
	return append([]models.Delegation(nil), e.log...)
}

// DelegationsFor returns retained delegations where the agent is either end.
func (e *Engine) DelegationsFor(agentID int) []models.Delegation {
	var out []models.Delegation
	for _, d := range e.log {
		if d.Involves(agentID) {
			out = append(out, d)
		}
	}
	return out
}

// DelegationCount returns the lifetime number of delegations.
func (e *Engine) DelegationCount() int {
	return e.delegationCount
}

// TeamStats aggregates per-agent progress. The average level is floored and
// is 1 for an empty office.
func (e *Engine) TeamStats() models.TeamStats {
	stats := models.TeamStats{AgentCount: e.registry.Count(), AverageLevel: 1}
	if stats.AgentCount == 0 {
		return stats
	}
	levels := 0
	e.registry.Each(func(a *models.Agent) {
		levels += a.Level
		stats.TotalXP += a.XP
	})
	stats.AverageLevel = levels / stats.AgentCount
	return stats
}
