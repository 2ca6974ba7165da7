package models

import "time"

// AchievementID identifies an achievement.
type AchievementID string

const (
	AchievementFirstHire      AchievementID = "first_hire"
	AchievementTeamBuilder    AchievementID = "team_builder"
	AchievementArmyCommander  AchievementID = "army_commander"
	AchievementCareerLadder   AchievementID = "career_ladder"
	AchievementDelegator      AchievementID = "delegator"
	AchievementGreenSuite     AchievementID = "green_suite"
	AchievementShipIt         AchievementID = "ship_it"
	AchievementModExplorer    AchievementID = "mod_explorer"
	AchievementCheater        AchievementID = "cheater"
	AchievementLevelMilestone AchievementID = "lvl10"
)

// Achievement is a one-way unlockable badge.
type Achievement struct {
	ID          AchievementID `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Unlocked    bool          `json:"unlocked" yaml:"unlocked"`
	UnlockedAt  *time.Time    `json:"unlocked_at,omitempty" yaml:"unlocked_at,omitempty"`
}

// Clone returns a deep copy of the achievement.
func (a *Achievement) Clone() Achievement {
	c := *a
	if a.UnlockedAt != nil {
		t := *a.UnlockedAt
		c.UnlockedAt = &t
	}
	return c
}

// QuestID identifies a quest.
type QuestID string

const (
	QuestRefactor   QuestID = "refactor_3"
	QuestDeploy     QuestID = "deploy"
	QuestResearch   QuestID = "research_10"
	QuestEliteSquad QuestID = "all_lvl10"
)

// Quest is a counter with a target and a one-time XP reward.
type Quest struct {
	ID          QuestID `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Target      int     `json:"target" yaml:"target"`
	Progress    int     `json:"progress" yaml:"progress"`
	Completed   bool    `json:"completed" yaml:"completed"`
	XPReward    int     `json:"xp_reward" yaml:"xp_reward"`
}
