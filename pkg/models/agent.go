package models

import (
	"fmt"
	"strings"
)

// Source identifies which coding assistant an agent stands in for.
type Source string

const (
	SourceClaude   Source = "claude"
	SourceCursor   Source = "cursor"
	SourceCodex    Source = "codex"
	SourceOctocode Source = "octocode"
	SourceCustom   Source = "custom"
)

// Valid returns true if the source is a known value.
func (s Source) Valid() bool {
	switch s {
	case SourceClaude, SourceCursor, SourceCodex, SourceOctocode, SourceCustom:
		return true
	default:
		return false
	}
}

// ParseSource converts user input into a Source.
func ParseSource(s string) (Source, error) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	if !src.Valid() {
		return "", fmt.Errorf("unknown source %q", s)
	}
	return src, nil
}

// Agent is a member of the office hierarchy.
//
// Parent and child links are ids, not references. Values handed out by the
// hierarchy engine are snapshots; mutating them has no effect on the engine.
type Agent struct {
	// ID is the caller-assigned unique identifier.
	ID int `json:"id" yaml:"id"`
	// Name is the display name.
	Name string `json:"name" yaml:"name"`
	// Tier is the agent's current rank.
	Tier Tier `json:"tier" yaml:"tier"`
	// Source is the assistant this agent represents.
	Source Source `json:"source" yaml:"source"`
	// ParentID is the id of the agent this one reports to, nil when orphaned.
	ParentID *int `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	// ChildIDs are the ids of direct reports, in link order.
	ChildIDs []int `json:"child_ids" yaml:"child_ids"`
	// SkillQueue holds pending skills, oldest first.
	SkillQueue []Skill `json:"skill_queue" yaml:"skill_queue"`
	// ActivityLevel is in [0, 1]; it decays on tick and rises on new work.
	ActivityLevel float64 `json:"activity_level" yaml:"activity_level"`
	// XP is the experience carried toward the next level.
	XP int `json:"xp" yaml:"xp"`
	// Level starts at 1.
	Level int `json:"level" yaml:"level"`
	// IsActive is true while the agent is registered.
	IsActive bool `json:"is_active" yaml:"is_active"`
	// Tokens is the running total of input and output tokens.
	Tokens int `json:"tokens" yaml:"tokens"`
	// Tasks counts skills the agent executed on itself.
	Tasks int `json:"tasks" yaml:"tasks"`
}

// Parent returns the parent id and whether the agent has one.
func (a Agent) Parent() (int, bool) {
	if a.ParentID == nil {
		return 0, false
	}
	return *a.ParentID, true
}

// Clone returns a deep copy of the agent.
func (a *Agent) Clone() Agent {
	c := *a
	if a.ParentID != nil {
		pid := *a.ParentID
		c.ParentID = &pid
	}
	c.ChildIDs = append([]int(nil), a.ChildIDs...)
	c.SkillQueue = append([]Skill(nil), a.SkillQueue...)
	return c
}

// TeamStats aggregates per-agent progress across the whole registry.
type TeamStats struct {
	AgentCount   int `json:"agent_count" yaml:"agent_count"`
	AverageLevel int `json:"average_level" yaml:"average_level"`
	TotalXP      int `json:"total_xp" yaml:"total_xp"`
}
