package models

import (
	"time"

	"github.com/google/uuid"
)

// Change log operation kinds.
const (
	OpCreate = "CREATE"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// ChangeLog is an append-only audit row recorded after each admin
// mutation. The application never updates or deletes these rows, and a
// failed append never rolls back the mutation it describes.
type ChangeLog struct {
	ID          uuid.UUID  `json:"id"`
	TableName   string     `json:"table_name"`
	RecordID    *uuid.UUID `json:"record_id,omitempty"`
	Operation   string     `json:"operation"`
	AdminID     *uuid.UUID `json:"admin_id,omitempty"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
}
