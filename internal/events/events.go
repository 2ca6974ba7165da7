// Package events is the notification layer through which the office
// components announce state changes.
package events

import (
	"time"

	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// Kind represents the type of office event.
type Kind string

const (
	// KindAgentChanged indicates an agent was registered, promoted or demoted.
	KindAgentChanged Kind = "agent_changed"
	// KindAgentRemoved indicates an agent was unregistered.
	KindAgentRemoved Kind = "agent_removed"
	// KindAgentLevelUp indicates an agent gained one or more levels.
	KindAgentLevelUp Kind = "agent_level_up"
	// KindDelegationCreated indicates a skill was routed to an agent.
	KindDelegationCreated Kind = "delegation_created"
	// KindDelegationCompleted indicates an agent finished a queued skill.
	KindDelegationCompleted Kind = "delegation_completed"
	// KindXPGained indicates an agent received experience.
	KindXPGained Kind = "xp_gained"
	// KindModifierActivated indicates a modifier went from inactive to active.
	KindModifierActivated Kind = "modifier_activated"
	// KindModifierDeactivated indicates a modifier went from active to inactive.
	KindModifierDeactivated Kind = "modifier_deactivated"
	// KindCheatAccepted indicates the cheat buffer matched a code.
	KindCheatAccepted Kind = "cheat_accepted"
	// KindSpecialEvent indicates a cheat fired a one-shot event.
	KindSpecialEvent Kind = "special_event"
	// KindAchievementUnlocked indicates an achievement was unlocked.
	KindAchievementUnlocked Kind = "achievement_unlocked"
	// KindQuestCompleted indicates a quest reached its target.
	KindQuestCompleted Kind = "quest_completed"
	// KindLevelUp indicates the team level increased.
	KindLevelUp Kind = "level_up"
)

// Event is a single notification. Only the fields relevant to Kind are set;
// pointer payloads are snapshots owned by the receiver.
type Event struct {
	// Kind is the kind of event.
	Kind Kind
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// AgentID is the related agent, if applicable.
	AgentID int
	// Agent is a snapshot of the related agent after the change.
	Agent *models.Agent
	// Delegation is the related delegation record.
	Delegation *models.Delegation
	// Amount is the raw experience granted for XP events.
	Amount int
	// Level is the new level for level-up events.
	Level int
	// Modifier is a snapshot of the related modifier.
	Modifier *models.Modifier
	// Code is the matched cheat code.
	Code string
	// Special is the one-shot event fired by a cheat, if any.
	Special models.SpecialEvent
	// Achievement is a snapshot of the unlocked achievement.
	Achievement *models.Achievement
	// Quest is a snapshot of the completed quest.
	Quest *models.Quest
}
