package models

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a shipbuilder or technology vendor shown as a column
// in the comparison matrix. Companies keep a dense 1..N sort order
// maintained by the reorder operation.
type Company struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	SortOrder int        `json:"sort_order"`
	IsActive  bool       `json:"is_active"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
