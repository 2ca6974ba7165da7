package models

import (
	"fmt"
	"strings"
)

// Skill is a slash command an agent can execute. Every skill is owned by
// exactly one tier; the ownership table lives in the catalog package.
type Skill string

const (
	SkillPlan        Skill = "/plan"
	SkillOrchestrate Skill = "/orchestrate"
	SkillResearch    Skill = "/research"
	SkillReview      Skill = "/review"
	SkillAnalyze     Skill = "/analyze"
	SkillGenerate    Skill = "/generate"
	SkillTest        Skill = "/test"
	SkillBuild       Skill = "/build"
	SkillLint        Skill = "/lint"
	SkillDocs        Skill = "/docs"
	SkillFormat      Skill = "/format"
)

var allSkills = [...]Skill{
	SkillPlan, SkillOrchestrate,
	SkillResearch, SkillReview, SkillAnalyze,
	SkillGenerate, SkillTest, SkillBuild,
	SkillLint, SkillDocs, SkillFormat,
}

// AllSkills returns every skill, grouped from the most senior owner down.
func AllSkills() []Skill {
	out := make([]Skill, len(allSkills))
	copy(out, allSkills[:])
	return out
}

// Valid returns true if the skill is a known value.
func (s Skill) Valid() bool {
	for _, known := range allSkills {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the skill name without the leading slash, capitalized.
func (s Skill) Label() string {
	name := strings.TrimPrefix(string(s), "/")
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// ParseSkill converts user input into a Skill. The leading slash is optional.
func ParseSkill(s string) (Skill, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	skill := Skill(s)
	if !skill.Valid() {
		return "", fmt.Errorf("unknown skill %q", s)
	}
	return skill, nil
}
