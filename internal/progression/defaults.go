package progression

import "github.com/RemyLoveLogicAI/pixel-agents/pkg/models"

// AchievementDef pairs an achievement with its unlock condition. A nil
// condition means the achievement is only unlocked explicitly.
type AchievementDef struct {
	models.Achievement
	Condition func(Snapshot) bool
}

// Snapshot is the aggregate state achievement conditions are checked against.
type Snapshot struct {
	AgentCount         int
	DelegationCount    int
	ModifiersActivated int
	CIGreen            bool
	Deployed           bool
	Promoted           bool
	CheatAccepted      bool
}

// DefaultAchievements returns the stock achievement set.
func DefaultAchievements() []AchievementDef {
	return []AchievementDef{
		{
			Achievement: models.Achievement{ID: models.AchievementFirstHire, Name: "First Hire", Description: "Spawn your first agent"},
			Condition:   func(s Snapshot) bool { return s.AgentCount >= 1 },
		},
		{
			Achievement: models.Achievement{ID: models.AchievementTeamBuilder, Name: "Team Builder", Description: "Have 5 agents at once"},
			Condition:   func(s Snapshot) bool { return s.AgentCount >= 5 },
		},
		{
			Achievement: models.Achievement{ID: models.AchievementArmyCommander, Name: "Army Commander", Description: "Have 10 agents at once"},
			Condition:   func(s Snapshot) bool { return s.AgentCount >= 10 },
		},
		{
			Achievement: models.Achievement{ID: models.AchievementCareerLadder, Name: "Career Ladder", Description: "Promote an agent"},
			Condition:   func(s Snapshot) bool { return s.Promoted },
		},
		{
			Achievement: models.Achievement{ID: models.AchievementDelegator, Name: "Delegator", Description: "Delegate 10 skills"},
			Condition:   func(s Snapshot) bool { return s.DelegationCount >= 10 },
		},
		{
			Achievement: models.Achievement{ID: models.AchievementGreenSuite, Name: "Green Suite", Description: "Get CI green"},
			Condition:   func(s Snapshot) bool { return s.CIGreen },
		},
		{
			Achievement: models.Achievement{ID: models.AchievementShipIt, Name: "Ship It", Description: "Deploy to production"},
			Condition:   func(s Snapshot) bool { return s.Deployed },
		},
		{
			Achievement: models.Achievement{ID: models.AchievementModExplorer, Name: "Mod Explorer", Description: "Try 3 different modifiers"},
			Condition:   func(s Snapshot) bool { return s.ModifiersActivated >= 3 },
		},
		{
			Achievement: models.Achievement{ID: models.AchievementCheater, Name: "Cheater", Description: "Enter a cheat code"},
			Condition:   func(s Snapshot) bool { return s.CheatAccepted },
		},
		{
			Achievement: models.Achievement{ID: models.AchievementLevelMilestone, Name: "Veteran Office", Description: "Reach team level 10"},
		},
	}
}

// DefaultQuests returns the stock quest set.
func DefaultQuests() []models.Quest {
	return []models.Quest{
		{ID: models.QuestRefactor, Name: "Refactor Sprint", Description: "Refactor 3 modules", Target: 3, XPReward: 500},
		{ID: models.QuestDeploy, Name: "Ship It", Description: "Deploy to production", Target: 1, XPReward: 1000},
		{ID: models.QuestResearch, Name: "Deep Research", Description: "Complete 10 research tasks", Target: 10, XPReward: 300},
		{ID: models.QuestEliteSquad, Name: "Elite Squad", Description: "Get every agent to level 10", Target: 1, XPReward: 2000},
	}
}
