package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"shiptech/internal/models"
)

// TechnologyStore manages technologies and their category mappings.
type TechnologyStore struct {
	db *sql.DB
}

// NewTechnologyStore returns a new TechnologyStore.
func NewTechnologyStore(db *sql.DB) *TechnologyStore {
	return &TechnologyStore{db: db}
}

const technologyColumns = `id, title, acronym_full, description, image_url, company_id,
	link1, link1_title, link2, link2_title, link3, link3_title,
	created_by, updated_by, created_at, updated_at`

// scanTechnology scans a row into a Technology struct.
func scanTechnology(scanner interface{ Scan(...any) error }) (*models.Technology, error) {
	var t models.Technology
	err := scanner.Scan(
		&t.ID, &t.Title, &t.AcronymFull, &t.Description, &t.ImageURL, &t.CompanyID,
		&t.Link1, &t.Link1Title, &t.Link2, &t.Link2Title, &t.Link3, &t.Link3Title,
		&t.CreatedBy, &t.UpdatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all technologies ordered by title.
func (s *TechnologyStore) List() ([]models.Technology, error) {
	rows, err := s.db.Query(`SELECT ` + technologyColumns + ` FROM technologies ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list technologies: %w", err)
	}
	defer rows.Close()

	var items []models.Technology
	for rows.Next() {
		t, err := scanTechnology(rows)
		if err != nil {
			return nil, fmt.Errorf("scan technology: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a technology by ID. Returns nil if not found.
func (s *TechnologyStore) FindByID(id uuid.UUID) (*models.Technology, error) {
	row := s.db.QueryRow(`SELECT `+technologyColumns+` FROM technologies WHERE id = $1`, id)
	t, err := scanTechnology(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find technology by id: %w", err)
	}
	return t, nil
}

// Create inserts a new technology and returns the stored row.
func (s *TechnologyStore) Create(t *models.Technology) (*models.Technology, error) {
	row := s.db.QueryRow(`
		INSERT INTO technologies (
			title, acronym_full, description, image_url, company_id,
			link1, link1_title, link2, link2_title, link3, link3_title,
			created_by, updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+technologyColumns,
		t.Title, t.AcronymFull, t.Description, t.ImageURL, t.CompanyID,
		t.Link1, t.Link1Title, t.Link2, t.Link2Title, t.Link3, t.Link3Title,
		t.CreatedBy, t.UpdatedBy,
	)
	result, err := scanTechnology(row)
	if err != nil {
		return nil, fmt.Errorf("create technology: %w", err)
	}
	return result, nil
}

// Update modifies an existing technology.
func (s *TechnologyStore) Update(t *models.Technology) error {
	_, err := s.db.Exec(`
		UPDATE technologies SET
			title = $1, acronym_full = $2, description = $3, image_url = $4,
			company_id = $5,
			link1 = $6, link1_title = $7, link2 = $8, link2_title = $9,
			link3 = $10, link3_title = $11,
			updated_by = $12, updated_at = NOW()
		WHERE id = $13
	`, t.Title, t.AcronymFull, t.Description, t.ImageURL,
		t.CompanyID,
		t.Link1, t.Link1Title, t.Link2, t.Link2Title,
		t.Link3, t.Link3Title,
		t.UpdatedBy, t.ID)
	if err != nil {
		return fmt.Errorf("update technology: %w", err)
	}
	return nil
}

// SetImageURL updates only the image reference of a technology.
func (s *TechnologyStore) SetImageURL(id uuid.UUID, url *string, adminID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE technologies SET image_url = $1, updated_by = $2, updated_at = NOW()
		WHERE id = $3
	`, url, adminID, id)
	if err != nil {
		return fmt.Errorf("set technology image: %w", err)
	}
	return nil
}

// Delete removes a technology. Its mapping rows go with it (CASCADE).
func (s *TechnologyStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM technologies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete technology: %w", err)
	}
	return nil
}

// ListMappings returns every technology-to-category mapping row.
func (s *TechnologyStore) ListMappings() ([]models.CategoryMapping, error) {
	rows, err := s.db.Query(`SELECT technology_id, category_id FROM technology_category_mapping`)
	if err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	defer rows.Close()

	var items []models.CategoryMapping
	for rows.Next() {
		var m models.CategoryMapping
		if err := rows.Scan(&m.TechnologyID, &m.CategoryID); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// CategoryIDs returns the IDs of the categories a technology is mapped to.
func (s *TechnologyStore) CategoryIDs(techID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Query(`
		SELECT category_id FROM technology_category_mapping
		WHERE technology_id = $1
	`, techID)
	if err != nil {
		return nil, fmt.Errorf("technology categories: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SetCategories reconciles a technology's category set to exactly the
// given IDs. The current set is diffed against the desired one and only
// the additions and removals are applied, in a single transaction, so the
// technology is never observable without its mappings mid-edit.
func (s *TechnologyStore) SetCategories(techID uuid.UUID, categoryIDs []uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT category_id FROM technology_category_mapping
		WHERE technology_id = $1
	`, techID)
	if err != nil {
		return fmt.Errorf("current mappings: %w", err)
	}

	current := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan mapping: %w", err)
		}
		current[id] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	desired := make(map[uuid.UUID]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		desired[id] = true
	}

	for id := range desired {
		if current[id] {
			continue
		}
		_, err := tx.Exec(`
			INSERT INTO technology_category_mapping (technology_id, category_id)
			VALUES ($1, $2)
		`, techID, id)
		if err != nil {
			return fmt.Errorf("attach category %s: %w", id, err)
		}
	}

	for id := range current {
		if desired[id] {
			continue
		}
		_, err := tx.Exec(`
			DELETE FROM technology_category_mapping
			WHERE technology_id = $1 AND category_id = $2
		`, techID, id)
		if err != nil {
			return fmt.Errorf("detach category %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// AttachCategory adds one mapping row. Adding an existing mapping is a no-op.
func (s *TechnologyStore) AttachCategory(techID, categoryID uuid.UUID) error {
	_, err := s.db.Exec(`
		INSERT INTO technology_category_mapping (technology_id, category_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, techID, categoryID)
	if err != nil {
		return fmt.Errorf("attach category: %w", err)
	}
	return nil
}

// DetachCategory removes one mapping row. The technology itself survives.
func (s *TechnologyStore) DetachCategory(techID, categoryID uuid.UUID) error {
	_, err := s.db.Exec(`
		DELETE FROM technology_category_mapping
		WHERE technology_id = $1 AND category_id = $2
	`, techID, categoryID)
	if err != nil {
		return fmt.Errorf("detach category: %w", err)
	}
	return nil
}
