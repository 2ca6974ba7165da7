package office

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// Tick advances office time by dt. Expired modifiers are swept first, then
// the hierarchy ages by dt scaled by the speed multiplier, then employees
// with queued work hire interns. Modifier durations run on unscaled time.
func (o *Office) Tick(dt time.Duration) {
	defer o.settle()

	o.clock.advance(dt)
	o.modifiers.Tick(o.clock.Now())

	scaled := time.Duration(float64(dt) * o.modifiers.EffectiveSpeedMultiplier())
	o.engine.Tick(scaled)

	o.autoSpawnInterns()
}

// autoSpawnInterns gives busy employees interns: ceil(queue * spawn rate)
// per employee, limited by how many more reports the employee can take.
// Parentless interns are reassigned before new ones are hired, and hiring
// stops once the intern population reaches the auto-spawn cap.
func (o *Office) autoSpawnInterns() {
	rate := o.settings.spawnRate * o.modifiers.EffectiveSpawnRateMultiplier()
	if rate <= 0 {
		return
	}
	maxReports := o.catalog.MaxReportsOf(models.TierEmployee)

	for _, emp := range o.engine.AgentsByTier(models.TierEmployee) {
		if len(emp.SkillQueue) == 0 {
			continue
		}
		needed := int(math.Ceil(float64(len(emp.SkillQueue)) * rate))
		needed = min(needed, maxReports-len(emp.ChildIDs))

		for i := 0; i < needed; i++ {
			if id, ok := o.orphanIntern(); ok {
				o.engine.AssignParent(id, emp.ID)
				continue
			}
			if o.engine.CountByTier(models.TierIntern) >= o.settings.autoSpawnCap {
				return
			}
			parent := emp.ID
			if _, ok := o.spawn(models.TierIntern, emp.Source, &parent); !ok {
				break
			}
			o.logger.Debug("auto-hired intern", zap.Int("employee_id", emp.ID))
		}
	}
}

func (o *Office) orphanIntern() (int, bool) {
	for _, a := range o.engine.AgentsByTier(models.TierIntern) {
		if a.ParentID == nil {
			return a.ID, true
		}
	}
	return 0, false
}
