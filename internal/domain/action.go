package domain

import "time"

// ActionKind classifies a recorded mutation.
type ActionKind string

const (
	ActionAdd             ActionKind = "add"
	ActionEdit            ActionKind = "edit"
	ActionDelete          ActionKind = "delete"
	ActionFilterDeduction ActionKind = "filterDeduction"
	ActionBatchDelete     ActionKind = "batchDelete"
)

// ActionRecord is one committed mutation in a project's linear history.
type ActionRecord struct {
	ID              string     `json:"id"`
	Kind            ActionKind `json:"kind"`
	Timestamp       time.Time  `json:"timestamp"`
	AffectedNumbers []Number   `json:"affectedNumbers"`
}
