package models

import "time"

// DelegationStatus is the lifecycle state of a delegation record.
type DelegationStatus string

const (
	// DelegationPending means the skill was queued on another agent.
	DelegationPending DelegationStatus = "pending"
	// DelegationActive means the agent is executing the skill itself.
	DelegationActive DelegationStatus = "active"
	// DelegationCompleted means the target finished the skill.
	DelegationCompleted DelegationStatus = "completed"
)

// Valid returns true if the status is a known value.
func (s DelegationStatus) Valid() bool {
	switch s {
	case DelegationPending, DelegationActive, DelegationCompleted:
		return true
	default:
		return false
	}
}

// Delegation records one routing decision.
type Delegation struct {
	ID        string           `json:"id" yaml:"id"`
	FromID    int              `json:"from_id" yaml:"from_id"`
	ToID      int              `json:"to_id" yaml:"to_id"`
	Skill     Skill            `json:"skill" yaml:"skill"`
	Timestamp time.Time        `json:"timestamp" yaml:"timestamp"`
	Status    DelegationStatus `json:"status" yaml:"status"`
}

// SelfExecuted reports whether the delegating agent kept the work.
func (d Delegation) SelfExecuted() bool {
	return d.FromID == d.ToID
}

// Involves reports whether the agent is either end of the delegation.
func (d Delegation) Involves(agentID int) bool {
	return d.FromID == agentID || d.ToID == agentID
}
