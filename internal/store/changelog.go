package store

import (
	"database/sql"
	"fmt"

	"shiptech/internal/models"
)

// ChangeLogStore appends and reads audit rows. The table is append-only:
// there are no update or delete operations.
type ChangeLogStore struct {
	db *sql.DB
}

// NewChangeLogStore returns a new ChangeLogStore.
func NewChangeLogStore(db *sql.DB) *ChangeLogStore {
	return &ChangeLogStore{db: db}
}

// Append records one audit row. Callers treat a failure here as non-fatal:
// the primary mutation is already committed and is not rolled back.
func (s *ChangeLogStore) Append(log *models.ChangeLog) error {
	_, err := s.db.Exec(`
		INSERT INTO change_logs (table_name, record_id, operation, admin_id, description)
		VALUES ($1, $2, $3, $4, $5)
	`, log.TableName, log.RecordID, log.Operation, log.AdminID, log.Description)
	if err != nil {
		return fmt.Errorf("append change log: %w", err)
	}
	return nil
}

// ListRecent returns the newest audit rows, most recent first.
func (s *ChangeLogStore) ListRecent(limit int) ([]models.ChangeLog, error) {
	rows, err := s.db.Query(`
		SELECT id, table_name, record_id, operation, admin_id, description, created_at
		FROM change_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list change logs: %w", err)
	}
	defer rows.Close()

	var items []models.ChangeLog
	for rows.Next() {
		var l models.ChangeLog
		err := rows.Scan(&l.ID, &l.TableName, &l.RecordID, &l.Operation, &l.AdminID, &l.Description, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan change log: %w", err)
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
