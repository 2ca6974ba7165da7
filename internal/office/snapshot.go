package office

import (
	"time"

	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// Effects is the folded view of the active modifiers.
type Effects struct {
	Speed             float64 `json:"speed" yaml:"speed"`
	SpawnRate         float64 `json:"spawn_rate" yaml:"spawn_rate"`
	ParticleIntensity float64 `json:"particle_intensity" yaml:"particle_intensity"`
	BypassCapacity    bool    `json:"bypass_capacity" yaml:"bypass_capacity"`
	AutoPromote       bool    `json:"auto_promote" yaml:"auto_promote"`
	Telemetry         bool    `json:"telemetry" yaml:"telemetry"`
}

// Team is the aggregate progress of the office.
type Team struct {
	Level         int              `json:"level" yaml:"level"`
	XP            int              `json:"xp" yaml:"xp"`
	XPForNext     int              `json:"xp_for_next" yaml:"xp_for_next"`
	Unlocked      int              `json:"unlocked" yaml:"unlocked"`
	Stats         models.TeamStats `json:"stats" yaml:"stats"`
	CIGreen       bool             `json:"ci_green" yaml:"ci_green"`
	Deployed      bool             `json:"deployed" yaml:"deployed"`
	CheatAccepted bool             `json:"cheat_accepted" yaml:"cheat_accepted"`
}

// Snapshot is a read-only copy of the whole office. Mutating it has no
// effect on the office.
type Snapshot struct {
	Time            time.Time            `json:"time" yaml:"time"`
	Agents          []models.Agent       `json:"agents" yaml:"agents"`
	Delegations     []models.Delegation  `json:"delegations" yaml:"delegations"`
	DelegationCount int                  `json:"delegation_count" yaml:"delegation_count"`
	Modifiers       []models.Modifier    `json:"modifiers" yaml:"modifiers"`
	Effects         Effects              `json:"effects" yaml:"effects"`
	Achievements    []models.Achievement `json:"achievements" yaml:"achievements"`
	Quests          []models.Quest       `json:"quests" yaml:"quests"`
	Team            Team                 `json:"team" yaml:"team"`
}

// Snapshot copies the current state of every component.
func (o *Office) Snapshot() Snapshot {
	return Snapshot{
		Time:            o.clock.Now(),
		Agents:          o.engine.Agents(),
		Delegations:     o.engine.Delegations(),
		DelegationCount: o.engine.DelegationCount(),
		Modifiers:       o.modifiers.All(),
		Effects: Effects{
			Speed:             o.modifiers.EffectiveSpeedMultiplier(),
			SpawnRate:         o.modifiers.EffectiveSpawnRateMultiplier(),
			ParticleIntensity: o.modifiers.EffectiveParticleIntensity(),
			BypassCapacity:    o.modifiers.CanBypassCapacity(),
			AutoPromote:       o.modifiers.IsAutoPromoteEnabled(),
			Telemetry:         o.modifiers.IsTelemetryEnabled(),
		},
		Achievements: o.tracker.Achievements(),
		Quests:       o.tracker.Quests(),
		Team: Team{
			Level:         o.tracker.TeamLevel(),
			XP:            o.tracker.TeamXP(),
			XPForNext:     o.tracker.XPForNextLevel(),
			Unlocked:      o.tracker.UnlockedCount(),
			Stats:         o.engine.TeamStats(),
			CIGreen:       o.flags.ciGreen,
			Deployed:      o.flags.deployed,
			CheatAccepted: o.flags.cheatAccepted,
		},
	}
}

// Agent returns a copy of the agent.
func (o *Office) Agent(id int) (models.Agent, bool) {
	return o.engine.Agent(id)
}

// Agents returns copies of every agent in registration order.
func (o *Office) Agents() []models.Agent {
	return o.engine.Agents()
}

// AgentsByTier returns copies of the agents at the tier.
func (o *Office) AgentsByTier(tier models.Tier) []models.Agent {
	return o.engine.AgentsByTier(tier)
}

// Children returns copies of the agent's direct reports.
func (o *Office) Children(id int) []models.Agent {
	return o.engine.Children(id)
}

// Delegations returns the retained delegation log.
func (o *Office) Delegations() []models.Delegation {
	return o.engine.Delegations()
}

// DelegationsFor returns retained delegations involving the agent.
func (o *Office) DelegationsFor(id int) []models.Delegation {
	return o.engine.DelegationsFor(id)
}

// Modifiers returns copies of every modifier.
func (o *Office) Modifiers() []models.Modifier {
	return o.modifiers.All()
}

// ActiveModifiers returns copies of the active modifiers.
func (o *Office) ActiveModifiers() []models.Modifier {
	return o.modifiers.Active()
}

// TimeRemaining returns how long a modifier stays active.
func (o *Office) TimeRemaining(id models.ModifierID) time.Duration {
	return o.modifiers.TimeRemaining(id)
}

// CheatBuffer returns the pending cheat input.
func (o *Office) CheatBuffer() string {
	return o.modifiers.Buffer()
}

// Achievements returns copies of every achievement.
func (o *Office) Achievements() []models.Achievement {
	return o.tracker.Achievements()
}

// Quests returns copies of every quest.
func (o *Office) Quests() []models.Quest {
	return o.tracker.Quests()
}

// TeamStats aggregates per-agent progress.
func (o *Office) TeamStats() models.TeamStats {
	return o.engine.TeamStats()
}
