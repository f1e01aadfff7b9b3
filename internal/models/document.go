package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is a schemaless record stored in a named collection.
type Document struct {
	ID         uuid.UUID      `json:"id"`
	Collection string         `json:"collection"`
	Data       map[string]any `json:"data"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewDocument creates a new document with generated UUID and timestamps
func NewDocument(collection string, data map[string]any) *Document {
	now := time.Now().UTC()
	if data == nil {
		data = map[string]any{}
	}
	return &Document{
		ID:         uuid.New(),
		Collection: collection,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// String returns the trimmed string value of field, or "" when the field is
// missing or not a string.
func (d *Document) String(field string) string {
	if d == nil || d.Data == nil {
		return ""
	}
	s, ok := d.Data[field].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// FirstString returns the first non-empty string among fields.
func (d *Document) FirstString(fields ...string) string {
	for _, f := range fields {
		if v := d.String(f); v != "" {
			return v
		}
	}
	return ""
}
