package modifier

import (
	"time"

	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// Defaults returns the stock modifier definitions, all inactive.
func Defaults() []models.Modifier {
	return []models.Modifier{
		{
			ID:          models.ModifierTurbo,
			Label:       "Turbo Mode",
			Description: "Everything runs twice as fast",
			Trigger:     "//pixelhq:turbo",
			Duration:    5 * time.Minute,
			Effects: models.Effects{
				SpeedMultiplier:     models.Factor(2.0),
				SpawnRateMultiplier: models.Factor(1.5),
				ParticleIntensity:   models.Factor(1.5),
			},
		},
		{
			ID:          models.ModifierSwarm,
			Label:       "Swarm Mode",
			Description: "Interns everywhere, population limits lifted",
			Trigger:     "//pixelhq:swarm",
			Duration:    3 * time.Minute,
			Effects: models.Effects{
				SpawnRateMultiplier: models.Factor(3.0),
				CapacityMultiplier:  models.Factor(2.0),
				CapacityTiers:       []models.Tier{models.TierEmployee, models.TierIntern},
				BypassCapacity:      true,
			},
		},
		{
			ID:          models.ModifierTimeWarp,
			Label:       "Time Warp",
			Description: "The clock speeds up while hiring slows down",
			Trigger:     "//pixelhq:warp",
			Duration:    4 * time.Minute,
			Effects: models.Effects{
				SpeedMultiplier:     models.Factor(1.5),
				SpawnRateMultiplier: models.Factor(0.5),
			},
		},
		{
			ID:          models.ModifierGodMode,
			Label:       "God Mode",
			Description: "No limits, agents promote themselves as they level",
			Trigger:     "//pixelhq:god",
			Effects: models.Effects{
				SpeedMultiplier:     models.Factor(3.0),
				SpawnRateMultiplier: models.Factor(5.0),
				CapacityMultiplier:  models.Factor(10.0),
				ParticleIntensity:   models.Factor(3.0),
				BypassCapacity:      true,
				AutoPromote:         true,
			},
		},
		{
			ID:          models.ModifierStealth,
			Label:       "Stealth Mode",
			Description: "Quiet office, telemetry off",
			Trigger:     "//pixelhq:stealth",
			Effects: models.Effects{
				SpawnRateMultiplier: models.Factor(0.5),
				ParticleIntensity:   models.Factor(0.3),
				DisableTelemetry:    true,
			},
		},
		{
			ID:          models.ModifierZen,
			Label:       "Zen Mode",
			Description: "Slow and calm, nobody gets hired",
			Trigger:     "//pixelhq:zen",
			Effects: models.Effects{
				SpeedMultiplier:     models.Factor(0.5),
				SpawnRateMultiplier: models.Factor(0),
				CapacityMultiplier:  models.Factor(0.5),
				ParticleIntensity:   models.Factor(0.2),
			},
		},
	}
}

// DefaultCheatCodes returns the stock cheat table. Earlier entries win when
// two codes match the same input.
func DefaultCheatCodes() []CheatCode {
	return []CheatCode{
		{Code: "//pixelhq:turbo", Modifier: models.ModifierTurbo},
		{Code: "//pixelhq:god", Modifier: models.ModifierGodMode},
		{Code: "iddqd", Modifier: models.ModifierGodMode},
		{Code: "//pixelhq:swarm", Modifier: models.ModifierSwarm},
		{Code: "//pixelhq:warp", Modifier: models.ModifierTimeWarp},
		{Code: "//pixelhq:stealth", Modifier: models.ModifierStealth},
		{Code: "//pixelhq:zen", Modifier: models.ModifierZen},
		{Code: "//pixelhq:confetti", Special: models.SpecialConfetti},
		{Code: "//pixelhq:coffee", Special: models.SpecialCoffee},
		{Code: "//pixelhq:hire-intern", Special: models.SpecialHireIntern},
	}
}
