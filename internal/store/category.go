package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"shiptech/internal/models"
)

// CategoryStore manages technology categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, type, sort_order, is_active, created_by, updated_by, created_at, updated_at`

// scanCategory scans a row into a TechnologyCategory struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.TechnologyCategory, error) {
	var c models.TechnologyCategory
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Type, &c.SortOrder, &c.IsActive,
		&c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by sort position.
func (s *CategoryStore) List() ([]models.TechnologyCategory, error) {
	rows, err := s.db.Query(`
		SELECT ` + categoryColumns + `
		FROM technology_categories
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.TechnologyCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.TechnologyCategory, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM technology_categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category at the end of the sort order and returns it.
func (s *CategoryStore) Create(name string, typ models.CategoryType, adminID uuid.UUID) (*models.TechnologyCategory, error) {
	row := s.db.QueryRow(`
		INSERT INTO technology_categories (name, type, sort_order, created_by, updated_by)
		VALUES (
			$1, $2,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM technology_categories),
			$3, $3
		)
		RETURNING `+categoryColumns,
		name, typ, adminID,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// Rename updates a category's display name.
func (s *CategoryStore) Rename(id uuid.UUID, name string, adminID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE technology_categories SET name = $1, updated_by = $2, updated_at = NOW()
		WHERE id = $3
	`, name, adminID, id)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	return nil
}

// Delete removes a category. Mapping rows pointing at it are removed by
// the ON DELETE CASCADE constraint; technologies themselves survive.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM technology_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Reorder assigns dense 1..N sort positions following the given ID order,
// in one transaction.
func (s *CategoryStore) Reorder(orderedIDs []uuid.UUID, adminID uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE technology_categories SET sort_order = $1, updated_by = $2, updated_at = NOW()
		WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	for i, id := range orderedIDs {
		if _, err := stmt.Exec(i+1, adminID, id); err != nil {
			return fmt.Errorf("reorder category %s: %w", id, err)
		}
	}

	return tx.Commit()
}
