package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"loghistory-backend/internal/util"
)

// RawChangeEvent is one element of an upstream entity's changeHistory.
type RawChangeEvent struct {
	Field       string
	ChangeType  string
	OldValue    any
	NewValue    any
	ChangedBy   *string
	ChangedAt   time.Time
	ItemName    string
	ProductName string
}

type rawChangeEventJSON struct {
	Field       string `json:"field"`
	ChangeType  string `json:"changeType"`
	OldValue    any    `json:"oldValue"`
	NewValue    any    `json:"newValue"`
	ChangedBy   any    `json:"changedBy"`
	ChangedAt   any    `json:"changedAt"`
	ItemName    any    `json:"itemName"`
	ProductName any    `json:"productName"`
}

// UnmarshalJSON is lenient: attribution that is not a string is dropped and a
// timestamp that cannot be parsed is left zero.
func (e *RawChangeEvent) UnmarshalJSON(data []byte) error {
	var aux rawChangeEventJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = RawChangeEvent{
		Field:       aux.Field,
		ChangeType:  aux.ChangeType,
		OldValue:    aux.OldValue,
		NewValue:    aux.NewValue,
		ItemName:    stringOf(aux.ItemName),
		ProductName: stringOf(aux.ProductName),
	}
	if s, ok := aux.ChangedBy.(string); ok {
		e.ChangedBy = &s
	}
	e.ChangedAt = timeOf(aux.ChangedAt)
	return nil
}

// RawEntity is an upstream record: arbitrary fields plus an optional changeHistory.
type RawEntity struct {
	Fields        map[string]any
	ChangeHistory []RawChangeEvent
}

func (e *RawEntity) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	e.Fields = make(map[string]any, len(fields))
	e.ChangeHistory = nil
	for k, raw := range fields {
		if k == "changeHistory" {
			if err := json.Unmarshal(raw, &e.ChangeHistory); err != nil {
				return fmt.Errorf("changeHistory: %w", err)
			}
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("field %s: %w", k, err)
		}
		e.Fields[k] = v
	}
	return nil
}

// Text returns the named field rendered as text, or "" when absent, null or empty.
func (e RawEntity) Text(name string) string {
	return stringOf(e.Fields[name])
}

func stringOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func timeOf(v any) time.Time {
	switch t := v.(type) {
	case string:
		if parsed, err := util.ParseTimeFlexible(t); err == nil {
			return parsed
		}
	case float64:
		return time.UnixMilli(int64(t)).UTC()
	}
	return time.Time{}
}
