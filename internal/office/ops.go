package office

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/hierarchy"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/modifier"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// Spawn hires a new agent with the next free id. It fails when the tier is
// full under the current modifiers, or when the parent is unknown or its tier
// may not hire the requested tier.
func (o *Office) Spawn(tier models.Tier, source models.Source, parentID *int) (models.Agent, bool) {
	defer o.settle()
	return o.spawn(tier, source, parentID)
}

func (o *Office) spawn(tier models.Tier, source models.Source, parentID *int) (models.Agent, bool) {
	if !tier.Valid() {
		return models.Agent{}, false
	}
	if !o.engine.HasCapacity(tier) {
		o.logger.Debug("spawn: tier at capacity", zap.String("tier", string(tier)))
		return models.Agent{}, false
	}
	if parentID != nil {
		parent, ok := o.engine.Agent(*parentID)
		if !ok || !o.catalog.CanSpawn(parent.Tier, tier) {
			o.logger.Debug("spawn: parent cannot hire tier",
				zap.Int("parent_id", *parentID),
				zap.String("tier", string(tier)))
			return models.Agent{}, false
		}
	}

	id := o.allocateID()
	return o.register(hierarchy.Registration{
		ID:       id,
		Tier:     tier,
		Name:     fmt.Sprintf("%s %d", tier.Label(), id),
		Source:   source,
		ParentID: parentID,
	})
}

func (o *Office) allocateID() int {
	for {
		id := o.nextID
		o.nextID++
		if _, taken := o.engine.Agent(id); !taken {
			return id
		}
	}
}

// Register adds an agent with a caller-chosen id. Capacity is not enforced;
// registration mirrors an agent that already exists elsewhere.
func (o *Office) Register(reg hierarchy.Registration) (models.Agent, bool) {
	defer o.settle()
	if reg.ID >= o.nextID {
		o.nextID = reg.ID + 1
	}
	return o.register(reg)
}

func (o *Office) register(reg hierarchy.Registration) (models.Agent, bool) {
	a, ok := o.engine.Register(reg)
	if !ok {
		return a, false
	}
	o.tracker.AddAggregateXP(o.settings.perRegistration)
	o.evaluate()
	return a, true
}

// Unregister removes an agent, orphaning its reports.
func (o *Office) Unregister(id int) bool {
	defer o.settle()
	return o.engine.Unregister(id)
}

// Delegate routes a skill. With a nil target the skill is routed by tier.
func (o *Office) Delegate(fromID int, skill models.Skill, toID *int) (models.Delegation, bool) {
	defer o.settle()
	if toID != nil {
		return o.engine.DelegateSkillTo(fromID, skill, *toID)
	}
	return o.engine.DelegateSkill(fromID, skill)
}

// CompleteSkill finishes the oldest queued skill of an agent.
func (o *Office) CompleteSkill(id int) (models.Skill, bool) {
	defer o.settle()
	return o.engine.CompleteSkill(id)
}

// Promote moves an agent one tier up.
func (o *Office) Promote(id int) (models.Tier, bool) {
	defer o.settle()
	tier, ok := o.engine.Promote(id)
	if ok {
		o.flags.promoted = true
		o.evaluate()
	}
	return tier, ok
}

// Demote moves an agent one tier down.
func (o *Office) Demote(id int) (models.Tier, bool) {
	defer o.settle()
	return o.engine.Demote(id)
}

// AddXP grants experience to an agent and returns the levels gained.
func (o *Office) AddXP(id, amount int) (int, bool) {
	defer o.settle()
	return o.engine.AddXP(id, amount)
}

// AddTokens records token usage for an agent.
func (o *Office) AddTokens(id, input, output int) bool {
	return o.engine.AddTokens(id, input, output)
}

// ActivateModifier turns a modifier on or extends it.
func (o *Office) ActivateModifier(id models.ModifierID) modifier.Outcome {
	defer o.settle()
	return o.modifiers.Activate(id)
}

// DeactivateModifier turns a modifier off.
func (o *Office) DeactivateModifier(id models.ModifierID) bool {
	defer o.settle()
	return o.modifiers.Deactivate(id)
}

// ProcessCheatToken feeds keyboard input to the cheat matcher.
func (o *Office) ProcessCheatToken(token string) (modifier.CheatCode, bool) {
	defer o.settle()
	return o.modifiers.ProcessCheatToken(token)
}

// ProcessCommand matches a whole line against the cheat table.
func (o *Office) ProcessCommand(line string) (modifier.CheatCode, bool) {
	defer o.settle()
	return o.modifiers.ProcessCommand(line)
}

// AdvanceQuest adds progress to a quest.
func (o *Office) AdvanceQuest(id models.QuestID, n int) (models.Quest, bool) {
	defer o.settle()
	return o.tracker.UpdateQuest(id, n)
}

// ReportCI records the latest CI result.
func (o *Office) ReportCI(green bool) {
	defer o.settle()
	o.flags.ciGreen = green
	o.evaluate()
}

// ReportDeploy records a production deploy.
func (o *Office) ReportDeploy() {
	defer o.settle()
	o.flags.deployed = true
	o.tracker.UpdateQuest(models.QuestDeploy, 1)
	o.evaluate()
}
