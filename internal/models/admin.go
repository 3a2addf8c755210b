package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin represents an administrator account. Admins are identified by a
// short human-readable code and are never created through the application
// itself; rows are managed directly in the database.
type Admin struct {
	ID        uuid.UUID `json:"id"`
	AdminCode string    `json:"admin_code"`
	AdminName string    `json:"admin_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
