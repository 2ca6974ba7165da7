package hierarchy

import (
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// agentRegistry stores agents by id and remembers registration order so
// listings are stable.
type agentRegistry struct {
	agents map[int]*models.Agent
	order  []int
}

func newAgentRegistry() *agentRegistry {
	return &agentRegistry{agents: make(map[int]*models.Agent)}
}

// Register adds an agent. The caller guarantees the id is free.
func (r *agentRegistry) Register(a *models.Agent) {
	r.agents[a.ID] = a
	r.order = append(r.order, a.ID)
}

// Get retrieves an agent by id.
func (r *agentRegistry) Get(id int) (*models.Agent, bool) {
	a, ok := r.agents[id]
	return a, ok
}

// Unregister removes an agent.
func (r *agentRegistry) Unregister(id int) {
	delete(r.agents, id)
	for i, x := range r.order {
		if x == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Each calls fn for every agent in registration order.
func (r *agentRegistry) Each(fn func(*models.Agent)) {
	for _, id := range r.order {
		fn(r.agents[id])
	}
}

// Count returns the number of registered agents.
func (r *agentRegistry) Count() int {
	return len(r.agents)
}

// CountByTier returns the number of agents at the tier.
func (r *agentRegistry) CountByTier(tier models.Tier) int {
	n := 0
	for _, a := range r.agents {
		if a.Tier == tier {
			n++
		}
	}
	return n
}
