package models

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// FilterScope distinguishes the catalog filter set from the schedule filter set.
type FilterScope string

const (
	FilterScopeCatalog  FilterScope = "catalog"
	FilterScopeSchedule FilterScope = "schedule"
)

// Valid reports whether the scope is known.
func (s FilterScope) Valid() bool {
	return s == FilterScopeCatalog || s == FilterScopeSchedule
}

// ActiveFilter is one entry of the active filter state.
type ActiveFilter struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Criteria     json.RawMessage `json:"criteria"`
	DisplayValue string          `json:"displayValue"`
}

// FilterEventType names a state transition.
type FilterEventType string

const (
	FilterEventAdd    FilterEventType = "add"
	FilterEventRemove FilterEventType = "remove"
	FilterEventUpdate FilterEventType = "update"
	FilterEventClear  FilterEventType = "clear"
)

// FilterEvent is delivered to listeners after every state mutation.
type FilterEvent struct {
	Type     FilterEventType `json:"type"`
	FilterID string          `json:"filterId,omitempty"`
	Criteria json.RawMessage `json:"criteria,omitempty"`
	Active   []ActiveFilter  `json:"activeFilters"`
}

// FilterOption is a selectable value offered for a filter.
type FilterOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count,omitempty"`
}

// FilterDescriptor describes a registered filter for clients.
type FilterDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// FilterStateRecord is the persisted serialized state of one scope.
type FilterStateRecord struct {
	ProfileID string         `db:"profile_id"`
	Scope     FilterScope    `db:"scope"`
	Payload   types.JSONText `db:"payload"`
	UpdatedAt time.Time      `db:"updated_at"`
}
