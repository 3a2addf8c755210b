// Package compare assembles the in-memory view structures served by the
// comparison and management pages: the company × category matrix index
// and the denormalized, filterable management listing. Everything here is
// pure data shaping with no I/O, so the loaders can be tested without a
// database or an HTTP server.
package compare

import (
	"github.com/google/uuid"

	"shiptech/internal/models"
)

// CellKey addresses one cell of the comparison matrix.
type CellKey struct {
	CompanyID  uuid.UUID
	CategoryID uuid.UUID
}

// Matrix is the cell index of the comparison view: for every
// (company, category) pair, the technologies satisfying both. A cell may
// hold zero, one, or several technologies, since a technology maps to any
// number of categories.
type Matrix struct {
	cells map[CellKey][]models.Technology
}

// BuildMatrix indexes technologies by their company and mapped categories.
// Cell order follows the order of the technologies slice, so a title-sorted
// input produces title-sorted cells; rebuilding from the same input yields
// the same order.
func BuildMatrix(techs []models.Technology, mappings []models.CategoryMapping) *Matrix {
	categoriesByTech := make(map[uuid.UUID][]uuid.UUID, len(techs))
	for _, m := range mappings {
		categoriesByTech[m.TechnologyID] = append(categoriesByTech[m.TechnologyID], m.CategoryID)
	}

	cells := make(map[CellKey][]models.Technology)
	for _, t := range techs {
		for _, categoryID := range categoriesByTech[t.ID] {
			key := CellKey{CompanyID: t.CompanyID, CategoryID: categoryID}
			cells[key] = append(cells[key], t)
		}
	}

	return &Matrix{cells: cells}
}

// Cell returns the technologies for one (company, category) pair. The
// returned slice is nil for an empty cell.
func (m *Matrix) Cell(companyID, categoryID uuid.UUID) []models.Technology {
	return m.cells[CellKey{CompanyID: companyID, CategoryID: categoryID}]
}

// Cells returns the whole index, keyed by cell. Handlers serialize this
// for the comparison page payload.
func (m *Matrix) Cells() map[CellKey][]models.Technology {
	return m.cells
}
