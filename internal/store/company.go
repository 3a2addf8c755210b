package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"shiptech/internal/models"
)

// CompanyStore manages companies in the database.
type CompanyStore struct {
	db *sql.DB
}

// NewCompanyStore returns a new CompanyStore.
func NewCompanyStore(db *sql.DB) *CompanyStore {
	return &CompanyStore{db: db}
}

const companyColumns = `id, name, sort_order, is_active, created_by, updated_by, created_at, updated_at`

// scanCompany scans a row into a Company struct.
func scanCompany(scanner interface{ Scan(...any) error }) (*models.Company, error) {
	var c models.Company
	err := scanner.Scan(
		&c.ID, &c.Name, &c.SortOrder, &c.IsActive,
		&c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all companies ordered by sort position.
func (s *CompanyStore) List() ([]models.Company, error) {
	rows, err := s.db.Query(`
		SELECT ` + companyColumns + `
		FROM companies
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var items []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a company by ID. Returns nil if not found.
func (s *CompanyStore) FindByID(id uuid.UUID) (*models.Company, error) {
	row := s.db.QueryRow(`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find company by id: %w", err)
	}
	return c, nil
}

// Create inserts a new company at the end of the sort order and returns it.
func (s *CompanyStore) Create(name string, adminID uuid.UUID) (*models.Company, error) {
	row := s.db.QueryRow(`
		INSERT INTO companies (name, sort_order, created_by, updated_by)
		VALUES (
			$1,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM companies),
			$2, $2
		)
		RETURNING `+companyColumns,
		name, adminID,
	)
	c, err := scanCompany(row)
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return c, nil
}

// Rename updates a company's display name.
func (s *CompanyStore) Rename(id uuid.UUID, name string, adminID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE companies SET name = $1, updated_by = $2, updated_at = NOW()
		WHERE id = $3
	`, name, adminID, id)
	if err != nil {
		return fmt.Errorf("rename company: %w", err)
	}
	return nil
}

// Delete removes a company. Dependent technologies are removed by the
// ON DELETE CASCADE constraint.
func (s *CompanyStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}

// Reorder assigns dense 1..N sort positions following the given ID order.
// All updates run in one transaction so a failure leaves the previous
// ordering intact rather than a partially renumbered one.
func (s *CompanyStore) Reorder(orderedIDs []uuid.UUID, adminID uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE companies SET sort_order = $1, updated_by = $2, updated_at = NOW()
		WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	for i, id := range orderedIDs {
		if _, err := stmt.Exec(i+1, adminID, id); err != nil {
			return fmt.Errorf("reorder company %s: %w", id, err)
		}
	}

	return tx.Commit()
}
