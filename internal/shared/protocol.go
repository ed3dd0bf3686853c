package shared

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Section partitions status items.
type Section string

const (
	SectionBuilding Section = "building"
	SectionLearning Section = "learning"
)

// Sections lists the known sections in display order.
var Sections = []Section{SectionBuilding, SectionLearning}

func (s Section) Valid() bool {
	for _, known := range Sections {
		if s == known {
			return true
		}
	}
	return false
}

type ServiceInfo struct {
	Service   string   `json:"service"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
}

// StatusItem is an active item as returned by GET /status.
type StatusItem struct {
	ID          int64   `json:"id"`
	Section     Section `json:"section"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Position    int64   `json:"position"`
}

// StatusList is keyed by section name; both sections are always present.
type StatusList map[Section][]StatusItem

// StatusUpsertRequest is the body of POST /status. A zero or absent ID
// creates an item; anything else patches the fields that are present.
type StatusUpsertRequest struct {
	ID          Optional[int64]   `json:"id,omitzero"`
	Section     Optional[Section] `json:"section,omitzero"`
	Title       Optional[string]  `json:"title,omitzero"`
	Description Optional[string]  `json:"description,omitzero"`
	Position    Optional[int64]   `json:"position,omitzero"`
	IsActive    Optional[Bool]    `json:"is_active,omitzero"`
}

// ReorderRequest is the body of POST /status/reorder. IDs is nil when the
// field was absent or null.
type ReorderRequest struct {
	Section Section  `json:"section"`
	IDs     *[]int64 `json:"ids"`
}

type LogEntry struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type CreateLogRequest struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Bool decodes JSON true/false as well as the integers 0 and 1, matching the
// INTEGER column it is stored in. It always encodes as a JSON bool.
type Bool bool

func (b *Bool) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*b = true
		return nil
	case "false", "0":
		*b = false
		return nil
	}
	return &json.UnmarshalTypeError{Value: string(data), Type: reflect.TypeFor[Bool]()}
}

func (b Bool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}
