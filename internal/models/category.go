package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType groups categories in the UI. It has no effect on data
// relationships; both kinds live in the same table and matrix.
type CategoryType string

const (
	CategoryTypeDigital    CategoryType = "digital"
	CategoryTypeAutonomous CategoryType = "autonomous"
)

// TechnologyCategory represents a row of the comparison matrix. A technology
// may belong to any number of categories through the category mapping.
type TechnologyCategory struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Type      CategoryType `json:"type"`
	SortOrder int          `json:"sort_order"`
	IsActive  bool         `json:"is_active"`
	CreatedBy *uuid.UUID   `json:"created_by,omitempty"`
	UpdatedBy *uuid.UUID   `json:"updated_by,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
