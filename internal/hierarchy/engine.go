// Package hierarchy owns the office's agents, their reporting lines and the
// delegation log. It routes skills to the tier that owns them, moves agents
// between tiers under capacity limits and tracks per-agent experience.
//
// An Engine is single-threaded: every method runs to completion and
// notifications are delivered synchronously before it returns.
package hierarchy

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/catalog"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/xp"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// Engine is the hierarchy engine.
type Engine struct {
	cat            *catalog.Catalog
	policy         CapacityPolicy
	curve          xp.Curve
	rewards        Rewards
	activityDecay  float64
	window         int
	maxSearchDepth int
	now            func() time.Time
	newID          func() string
	logger         *zap.Logger
	bus            *events.Bus

	registry *agentRegistry
	// log is the retained tail of the delegation history, oldest first.
	log []models.Delegation
	// delegationCount is the lifetime number of delegations, unaffected by
	// log truncation.
	delegationCount int
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.policy == nil {
		o.policy = fixedCapacity{}
	}
	return &Engine{
		cat:            o.catalog,
		policy:         o.policy,
		curve:          o.curve,
		rewards:        o.rewards,
		activityDecay:  o.activityDecay,
		window:         o.window,
		maxSearchDepth: o.maxSearchDepth,
		now:            o.clock,
		newID:          o.newID,
		logger:         o.logger,
		bus:            o.bus,
		registry:       newAgentRegistry(),
	}
}

// Registration describes an agent to register.
type Registration struct {
	ID     int
	Tier   models.Tier
	Name   string
	Source models.Source
	// ParentID links the agent under an existing agent. An unknown parent
	// leaves the agent without one.
	ParentID *int
}

// Register adds an agent with xp 0 at level 1. Registering an id that is
// already taken changes nothing and returns the existing agent with false.
func (e *Engine) Register(reg Registration) (models.Agent, bool) {
	if existing, ok := e.registry.Get(reg.ID); ok {
		e.logger.Debug("register: id already taken", zap.Int("agent_id", reg.ID))
		return existing.Clone(), false
	}
	if !reg.Tier.Valid() {
		e.logger.Debug("register: invalid tier",
			zap.Int("agent_id", reg.ID),
			zap.String("tier", string(reg.Tier)))
		return models.Agent{}, false
	}
	if reg.Source == "" {
		reg.Source = models.SourceCustom
	}

	a := &models.Agent{
		ID:       reg.ID,
		Name:     reg.Name,
		Tier:     reg.Tier,
		Source:   reg.Source,
		ChildIDs: []int{},
		Level:    1,
		IsActive: true,
	}
	if reg.ParentID != nil {
		if parent, ok := e.registry.Get(*reg.ParentID); ok {
			pid := parent.ID
			a.ParentID = &pid
			parent.ChildIDs = append(parent.ChildIDs, a.ID)
		}
	}
	e.registry.Register(a)

	e.logger.Debug("agent registered",
		zap.Int("agent_id", a.ID),
		zap.String("tier", string(a.Tier)),
		zap.String("name", a.Name))
	e.publishAgent(events.KindAgentChanged, a)
	return a.Clone(), true
}

// RegisterAgent registers a parentless agent.
func (e *Engine) RegisterAgent(id int, tier models.Tier, name string) (models.Agent, bool) {
	return e.Register(Registration{ID: id, Tier: tier, Name: name})
}

// RegisterChild registers an agent reporting to parentID.
func (e *Engine) RegisterChild(id int, tier models.Tier, name string, parentID int) (models.Agent, bool) {
	return e.Register(Registration{ID: id, Tier: tier, Name: name, ParentID: &parentID})
}

// Unregister removes an agent. Its direct reports are orphaned, not removed
// and not moved to the grandparent.
func (e *Engine) Unregister(id int) bool {
	a, ok := e.registry.Get(id)
	if !ok {
		return false
	}
	if pid, ok := a.Parent(); ok {
		if parent, ok := e.registry.Get(pid); ok {
			parent.ChildIDs = removeID(parent.ChildIDs, id)
		}
	}
	for _, cid := range a.ChildIDs {
		if child, ok := e.registry.Get(cid); ok {
			child.ParentID = nil
		}
	}
	e.registry.Unregister(id)

	a.IsActive = false
	e.logger.Debug("agent unregistered",
		zap.Int("agent_id", id),
		zap.Int("orphaned", len(a.ChildIDs)))
	e.publishAgent(events.KindAgentRemoved, a)
	return true
}

// AssignParent moves child under parent. Self-parenting and links that would
// create a cycle are refused.
func (e *Engine) AssignParent(childID, parentID int) bool {
	child, ok := e.registry.Get(childID)
	if !ok {
		return false
	}
	parent, ok := e.registry.Get(parentID)
	if !ok || childID == parentID {
		return false
	}
	if pid, ok := child.Parent(); ok && pid == parentID {
		return true
	}
	// Walk up from the new parent; meeting the child means a cycle.
	for cur, hops := parent, 0; hops <= e.registry.Count(); hops++ {
		pid, ok := cur.Parent()
		if !ok {
			break
		}
		if pid == childID {
			e.logger.Debug("assign parent: cycle refused",
				zap.Int("child_id", childID),
				zap.Int("parent_id", parentID))
			return false
		}
		if cur, ok = e.registry.Get(pid); !ok {
			break
		}
	}

	if old, ok := child.Parent(); ok {
		if p, ok := e.registry.Get(old); ok {
			p.ChildIDs = removeID(p.ChildIDs, childID)
		}
	}
	pid := parentID
	child.ParentID = &pid
	parent.ChildIDs = append(parent.ChildIDs, childID)
	e.publishAgent(events.KindAgentChanged, child)
	return true
}

// HasCapacity reports whether one more agent fits in the tier under the
// current capacity policy.
func (e *Engine) HasCapacity(tier models.Tier) bool {
	if e.policy.CanBypassCapacity() {
		return true
	}
	limit := float64(e.cat.CapacityOf(tier)) * e.policy.EffectiveCapacityMultiplier(tier)
	return float64(e.registry.CountByTier(tier)) < math.Floor(limit)
}

// Promote moves an agent one tier up and grants the promotion bonus. It fails
// at the top tier and when the tier above is full, unless capacity is
// bypassed. Reporting lines are left as they are.
func (e *Engine) Promote(id int) (models.Tier, bool) {
	a, ok := e.registry.Get(id)
	if !ok {
		return "", false
	}
	next, ok := a.Tier.Above()
	if !ok {
		e.logger.Debug("promote: already at top tier", zap.Int("agent_id", id))
		return a.Tier, false
	}
	if !e.HasCapacity(next) {
		e.logger.Debug("promote: tier at capacity",
			zap.Int("agent_id", id),
			zap.String("tier", string(next)))
		return a.Tier, false
	}

	from := a.Tier
	a.Tier = next
	e.logger.Info("agent promoted",
		zap.Int("agent_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(next)))
	e.addXP(a, e.rewards.Promotion)
	e.publishAgent(events.KindAgentChanged, a)
	return next, true
}

// Demote moves an agent one tier down. Demotion never checks capacity.
func (e *Engine) Demote(id int) (models.Tier, bool) {
	a, ok := e.registry.Get(id)
	if !ok {
		return "", false
	}
	next, ok := a.Tier.Below()
	if !ok {
		e.logger.Debug("demote: already at bottom tier", zap.Int("agent_id", id))
		return a.Tier, false
	}

	from := a.Tier
	a.Tier = next
	e.logger.Info("agent demoted",
		zap.Int("agent_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(next)))
	e.publishAgent(events.KindAgentChanged, a)
	return next, true
}

// AddXP grants experience and resolves level-ups, possibly several in one
// call. It returns the number of levels gained. Negative amounts are refused.
func (e *Engine) AddXP(id, amount int) (int, bool) {
	a, ok := e.registry.Get(id)
	if !ok || amount < 0 {
		return 0, false
	}
	return e.addXP(a, amount), true
}

func (e *Engine) addXP(a *models.Agent, amount int) int {
	remaining, level, gained := e.curve.Apply(a.XP, a.Level, amount)
	a.XP = remaining
	a.Level = level

	now := e.now()
	snap := a.Clone()
	e.bus.Publish(events.Event{
		Kind:      events.KindXPGained,
		Timestamp: now,
		AgentID:   a.ID,
		Agent:     &snap,
		Amount:    amount,
		Level:     level,
	})
	if gained > 0 {
		e.logger.Info("agent leveled up",
			zap.Int("agent_id", a.ID),
			zap.Int("level", level),
			zap.Int("gained", gained))
		e.bus.Publish(events.Event{
			Kind:      events.KindAgentLevelUp,
			Timestamp: now,
			AgentID:   a.ID,
			Agent:     &snap,
			Amount:    gained,
			Level:     level,
		})
	}
	return gained
}

// AddTokens adds token usage to an agent's running total.
func (e *Engine) AddTokens(id, input, output int) bool {
	a, ok := e.registry.Get(id)
	if !ok || input < 0 || output < 0 {
		return false
	}
	a.Tokens += input + output
	return true
}

// XPThreshold returns the experience needed to leave the level.
func (e *Engine) XPThreshold(level int) int {
	return e.curve.Threshold(level)
}

// Tick decays every agent's activity by dt and trims the delegation log to
// its retention window.
func (e *Engine) Tick(dt time.Duration) {
	if dt > 0 {
		decay := e.activityDecay * dt.Seconds()
		e.registry.Each(func(a *models.Agent) {
			a.ActivityLevel = math.Max(0, a.ActivityLevel-decay)
		})
	}
	if e.window >= 0 && len(e.log) > e.window {
		e.log = append([]models.Delegation(nil), e.log[len(e.log)-e.window:]...)
	}
}

func (e *Engine) publishAgent(kind events.Kind, a *models.Agent) {
	snap := a.Clone()
	e.bus.Publish(events.Event{
		Kind:      kind,
		Timestamp: e.now(),
		AgentID:   a.ID,
		Agent:     &snap,
	})
}

func removeID(ids []int, id int) []int {
	for i, x := range ids {
		if x == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
