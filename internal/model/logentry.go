package model

import (
	"encoding/json"
	"time"
)

type EntityType string

const (
	EntityProduct  EntityType = "product"
	EntitySupplier EntityType = "supplier"
	EntityJob      EntityType = "job"
)

var entityLabels = map[EntityType]string{
	EntityProduct:  "Product",
	EntitySupplier: "Supplier",
	EntityJob:      "Job List",
}

// Label returns the display name used in tables and exports.
func (t EntityType) Label() string {
	return entityLabels[t]
}

// EntityTypeFromLabel maps a display label back to its entity type.
func EntityTypeFromLabel(label string) (EntityType, bool) {
	for t, l := range entityLabels {
		if l == label {
			return t, true
		}
	}
	return "", false
}

// LogEntry is one field-level change of one entity, flattened out of the
// entity's changeHistory. Entries are never mutated after normalization.
type LogEntry struct {
	EntityType  EntityType `json:"entityType"`
	EntityID    string     `json:"entityId"`
	EntityName  string     `json:"entityName"`
	Field       string     `json:"field"`
	ChangeType  string     `json:"changeType"`
	OldValue    any        `json:"oldValue"`
	NewValue    any        `json:"newValue"`
	ChangedBy   *string    `json:"changedBy"`
	ChangedAt   time.Time  `json:"changedAt"`
	ItemName    string     `json:"itemName,omitempty"`
	ProductName string     `json:"productName,omitempty"`
}

// SortKey is the timestamp used for ordering; a missing timestamp counts as epoch 0.
func (e LogEntry) SortKey() time.Time {
	if e.ChangedAt.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return e.ChangedAt
}

// ChangedByText returns the attribution or an empty string.
func (e LogEntry) ChangedByText() string {
	if e.ChangedBy == nil {
		return ""
	}
	return *e.ChangedBy
}

func (e LogEntry) MarshalJSON() ([]byte, error) {
	type alias LogEntry
	out := struct {
		alias
		ChangedAt *time.Time `json:"changedAt"`
	}{alias: alias(e)}
	if !e.ChangedAt.IsZero() {
		out.ChangedAt = &e.ChangedAt
	}
	return json.Marshal(out)
}
