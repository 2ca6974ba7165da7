// Package catalog holds the static description of the office tiers: how many
// agents each tier may hold, who may hand work to or hire whom, and which
// skills each tier owns.
package catalog

import (
	"errors"
	"fmt"

	"github.com/RemyLoveLogicAI/pixel-agents/pkg/models"
)

// ErrUnknownTier is returned when configuration names a tier outside the
// closed set.
var ErrUnknownTier = errors.New("unknown tier")

// skillOwners maps every skill to the single tier that executes it natively.
var skillOwners = map[models.Skill]models.Tier{
	models.SkillPlan:        models.TierBoss,
	models.SkillOrchestrate: models.TierBoss,
	models.SkillResearch:    models.TierSupervisor,
	models.SkillReview:      models.TierSupervisor,
	models.SkillAnalyze:     models.TierSupervisor,
	models.SkillGenerate:    models.TierEmployee,
	models.SkillTest:        models.TierEmployee,
	models.SkillBuild:       models.TierEmployee,
	models.SkillLint:        models.TierIntern,
	models.SkillDocs:        models.TierIntern,
	models.SkillFormat:      models.TierIntern,
}

// TierSpec describes one tier.
type TierSpec struct {
	Tier     models.Tier `yaml:"tier"`
	Label    string      `yaml:"label"`
	Capacity int         `yaml:"capacity"`
	// MaxReports is how many direct reports the tier supervises before
	// auto-hiring stops.
	MaxReports int            `yaml:"max_reports"`
	Delegates  []models.Tier  `yaml:"delegates,omitempty"`
	Spawns     []models.Tier  `yaml:"spawns,omitempty"`
	Skills     []models.Skill `yaml:"skills"`
}

func (s TierSpec) clone() TierSpec {
	c := s
	c.Delegates = append([]models.Tier(nil), s.Delegates...)
	c.Spawns = append([]models.Tier(nil), s.Spawns...)
	c.Skills = append([]models.Skill(nil), s.Skills...)
	return c
}

// Catalog is the read-only tier table.
type Catalog struct {
	specs map[models.Tier]TierSpec
}

// DefaultCapacities returns the stock population limit for each tier.
func DefaultCapacities() map[models.Tier]int {
	return map[models.Tier]int{
		models.TierBoss:       1,
		models.TierSupervisor: 3,
		models.TierEmployee:   8,
		models.TierIntern:     12,
	}
}

// Default returns the stock catalog. It panics if the stock capacities are
// rejected.
func Default() *Catalog {
	c, err := New(nil)
	if err != nil {
		panic(fmt.Sprintf("catalog: stock capacities rejected: %v", err))
	}
	return c
}

// New builds a catalog, overriding stock capacities with the given values.
func New(capacities map[models.Tier]int) (*Catalog, error) {
	caps := DefaultCapacities()
	for tier, n := range capacities {
		if !tier.Valid() {
			return nil, fmt.Errorf("capacity for %q: %w", tier, ErrUnknownTier)
		}
		if n < 0 {
			return nil, fmt.Errorf("capacity for %s must not be negative, got %d", tier, n)
		}
		caps[tier] = n
	}

	specs := map[models.Tier]TierSpec{
		models.TierBoss: {
			MaxReports: 3,
			Delegates:  []models.Tier{models.TierSupervisor, models.TierEmployee},
			Spawns:     []models.Tier{models.TierSupervisor},
		},
		models.TierSupervisor: {
			MaxReports: 4,
			Delegates:  []models.Tier{models.TierEmployee, models.TierIntern},
			Spawns:     []models.Tier{models.TierEmployee, models.TierIntern},
		},
		models.TierEmployee: {
			MaxReports: 3,
			Delegates:  []models.Tier{models.TierIntern},
			Spawns:     []models.Tier{models.TierIntern},
		},
		models.TierIntern: {},
	}

	for tier, spec := range specs {
		spec.Tier = tier
		spec.Label = tier.Label()
		spec.Capacity = caps[tier]
		// Skills derive from the ownership table so the two cannot disagree.
		for _, skill := range models.AllSkills() {
			if skillOwners[skill] == tier {
				spec.Skills = append(spec.Skills, skill)
			}
		}
		specs[tier] = spec
	}

	return &Catalog{specs: specs}, nil
}

// TierOf returns the tier that owns the skill.
func TierOf(skill models.Skill) models.Tier {
	return skillOwners[skill]
}

// TierOf returns the tier that owns the skill.
func (c *Catalog) TierOf(skill models.Skill) models.Tier {
	return TierOf(skill)
}

// CapacityOf returns the stock population limit of the tier.
func (c *Catalog) CapacityOf(tier models.Tier) int {
	return c.specs[tier].Capacity
}

// MaxReportsOf returns how many direct reports the tier supervises.
func (c *Catalog) MaxReportsOf(tier models.Tier) int {
	return c.specs[tier].MaxReports
}

// CanDelegate reports whether agents of tier from may hand work to tier to.
func (c *Catalog) CanDelegate(from, to models.Tier) bool {
	return contains(c.specs[from].Delegates, to)
}

// CanSpawn reports whether agents of tier from may hire agents of tier to.
func (c *Catalog) CanSpawn(from, to models.Tier) bool {
	return contains(c.specs[from].Spawns, to)
}

// Rank returns the seniority index of the tier, 0 being the most senior.
func (c *Catalog) Rank(tier models.Tier) int {
	return tier.Rank()
}

// Owns reports whether the tier natively executes the skill.
func (c *Catalog) Owns(tier models.Tier, skill models.Skill) bool {
	return TierOf(skill) == tier
}

// Spec returns a copy of the tier's description.
func (c *Catalog) Spec(tier models.Tier) (TierSpec, bool) {
	s, ok := c.specs[tier]
	if !ok {
		return TierSpec{}, false
	}
	return s.clone(), true
}

// Specs returns every tier description from most to least senior.
func (c *Catalog) Specs() []TierSpec {
	out := make([]TierSpec, 0, len(c.specs))
	for _, tier := range models.AllTiers() {
		out = append(out, c.specs[tier].clone())
	}
	return out
}

func contains(tiers []models.Tier, t models.Tier) bool {
	for _, x := range tiers {
		if x == t {
			return true
		}
	}
	return false
}
