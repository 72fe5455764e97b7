package model

import "fmt"

// Well-known notice fields. Notices are open mappings, so any other field a
// client sends is stored and returned as-is.
const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldCategory  = "category"
	FieldPriority  = "priority"
	FieldAuthor    = "author"
	FieldTimestamp = "timestamp"
	FieldViews     = "views"
)

// Notice priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// DefaultCategory is used for notices without a category.
const DefaultCategory = "general"

// TimestampLayout is the ISO-8601 layout stamped on new notices. The fixed
// fraction width keeps lexical order equal to chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000"

type Notice map[string]any

// ID returns the store-assigned identifier, or "" if absent.
func (n Notice) ID() string {
	s, _ := n[FieldID].(string)
	return s
}

// Timestamp returns the timestamp field when it is a string, or "".
func (n Notice) Timestamp() string {
	s, _ := n[FieldTimestamp].(string)
	return s
}

// Category returns the notice category, defaulting to DefaultCategory when
// the field is absent or null.
func (n Notice) Category() string {
	return n.label(FieldCategory, DefaultCategory)
}

// Priority returns the notice priority, defaulting to PriorityLow when the
// field is absent or null.
func (n Notice) Priority() string {
	return n.label(FieldPriority, PriorityLow)
}

func (n Notice) label(field, fallback string) string {
	v, ok := n[field]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Clone returns a shallow copy.
func (n Notice) Clone() Notice {
	out := make(Notice, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}
