package office

import (
	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/internal/events"
	"github.com/RemyLoveLogicAI/pixel-agents/internal/progression"
	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// wire subscribes the cross-component rules. Handlers only record state or
// queue work; the queued work runs in settle.
func (o *Office) wire() {
	o.bus.Subscribe(events.KindDelegationCreated, func(e events.Event) {
		skill := e.Delegation.Skill
		o.later(func() {
			o.tracker.AddAggregateXP(o.settings.perSkillComplete)
			if skill == models.SkillResearch {
				o.tracker.UpdateQuest(models.QuestResearch, 1)
			}
			o.evaluate()
		})
	})

	o.bus.Subscribe(events.KindModifierActivated, func(events.Event) {
		o.later(func() {
			o.tracker.AddAggregateXP(o.settings.perModifierActivate)
			o.evaluate()
		})
	})

	o.bus.Subscribe(events.KindCheatAccepted, func(events.Event) {
		o.flags.cheatAccepted = true
		o.later(o.evaluate)
	})

	o.bus.Subscribe(events.KindSpecialEvent, func(e events.Event) {
		if e.Special != models.SpecialHireIntern {
			return
		}
		o.later(func() {
			if _, ok := o.spawn(models.TierIntern, models.SourceCustom, nil); !ok {
				o.logger.Debug("hire intern: no room for another intern")
			}
		})
	})

	o.bus.Subscribe(events.KindAgentLevelUp, func(e events.Event) {
		id, level, gained := e.AgentID, e.Level, e.Amount
		o.later(func() {
			o.autoPromote(id, level, gained)
			o.checkEliteSquad()
		})
	})
}

// progressSnapshot gathers the counters achievement conditions read.
func (o *Office) progressSnapshot() progression.Snapshot {
	return progression.Snapshot{
		AgentCount:         o.engine.Count(),
		DelegationCount:    o.engine.DelegationCount(),
		ModifiersActivated: o.modifiers.UniqueActivated(),
		CIGreen:            o.flags.ciGreen,
		Deployed:           o.flags.deployed,
		Promoted:           o.flags.promoted,
		CheatAccepted:      o.flags.cheatAccepted,
	}
}

func (o *Office) evaluate() {
	o.tracker.EvaluateConditions(o.progressSnapshot())
}

// autoPromote promotes an agent whose level-up crossed a multiple of the
// auto-promote interval while an auto-promote modifier is active.
func (o *Office) autoPromote(id, level, gained int) {
	step := o.settings.autoPromoteLevel
	if step <= 0 || !o.modifiers.IsAutoPromoteEnabled() {
		return
	}
	if level/step <= (level-gained)/step {
		return
	}
	if _, ok := o.engine.Promote(id); ok {
		o.logger.Info("auto-promoted agent", zap.Int("agent_id", id), zap.Int("level", level))
		o.flags.promoted = true
		o.evaluate()
	}
}

// checkEliteSquad completes the elite squad quest once every agent has
// reached the milestone level.
func (o *Office) checkEliteSquad() {
	agents := o.engine.Agents()
	if len(agents) == 0 {
		return
	}
	for _, a := range agents {
		if a.Level < eliteLevel {
			return
		}
	}
	o.tracker.UpdateQuest(models.QuestEliteSquad, 1)
}

// eliteLevel is the level every agent needs for the elite squad quest.
const eliteLevel = 10
