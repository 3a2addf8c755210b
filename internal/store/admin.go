// Package store contains the per-table data access types. Each store
// wraps a *sql.DB and exposes the queries one entity needs; callers get
// models back, never raw rows.
package store

import (
	"database/sql"
	"fmt"

	"shiptech/internal/models"
)

// AdminStore manages administrator lookups. The application never creates
// or modifies admin rows; those are managed directly in the database.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore returns a new AdminStore.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminColumns = `id, admin_code, admin_name, is_active, created_at`

// FindActiveByCode looks up an active admin by the exact code string.
// Returns nil if no active admin carries that code. Callers are expected
// to trim user input before calling.
func (s *AdminStore) FindActiveByCode(code string) (*models.Admin, error) {
	row := s.db.QueryRow(`
		SELECT `+adminColumns+`
		FROM admins
		WHERE admin_code = $1 AND is_active = TRUE
	`, code)

	var a models.Admin
	err := row.Scan(&a.ID, &a.AdminCode, &a.AdminName, &a.IsActive, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by code: %w", err)
	}
	return &a, nil
}

// List returns all admins ordered by code. Used by the management view to
// resolve creator/updater names and by the diagnostics snapshot.
func (s *AdminStore) List() ([]models.Admin, error) {
	rows, err := s.db.Query(`SELECT ` + adminColumns + ` FROM admins ORDER BY admin_code`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var items []models.Admin
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.ID, &a.AdminCode, &a.AdminName, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
