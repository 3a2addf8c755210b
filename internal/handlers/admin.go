package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shiptech/internal/cache"
	"shiptech/internal/middleware"
	"shiptech/internal/models"
	"shiptech/internal/storage"
	"shiptech/internal/store"
)

// Admin groups the authenticated mutation handlers and their dependencies.
// Every handler here runs behind RequireAdmin, so AdminFromCtx is never nil.
type Admin struct {
	companies     *store.CompanyStore
	categories    *store.CategoryStore
	technologies  *store.TechnologyStore
	changeLogs    *store.ChangeLogStore
	storageClient *storage.Client
	viewCache     *cache.ViewCache
}

// NewAdmin creates a new Admin handler group. storageClient may be nil if
// S3 is not configured; viewCache may be nil.
func NewAdmin(companies *store.CompanyStore, categories *store.CategoryStore, technologies *store.TechnologyStore, changeLogs *store.ChangeLogStore, storageClient *storage.Client, viewCache *cache.ViewCache) *Admin {
	return &Admin{
		companies:     companies,
		categories:    categories,
		technologies:  technologies,
		changeLogs:    changeLogs,
		storageClient: storageClient,
		viewCache:     viewCache,
	}
}

// logChange appends an audit row. Best-effort: the mutation it describes
// is already committed, so a failure only logs a warning.
func (a *Admin) logChange(tableName string, recordID uuid.UUID, op string, admin *models.Admin, desc string) {
	entry := &models.ChangeLog{
		TableName:   tableName,
		RecordID:    &recordID,
		Operation:   op,
		Description: desc,
	}
	if admin != nil {
		entry.AdminID = &admin.ID
	}
	if err := a.changeLogs.Append(entry); err != nil {
		slog.Warn("change log append failed", "table", tableName, "operation", op, "error", err)
	}
}

// invalidateComparison drops the cached comparison payload after a mutation.
func (a *Admin) invalidateComparison(ctx context.Context) {
	if a.viewCache != nil {
		a.viewCache.Invalidate(ctx, cache.ComparisonKey)
	}
}

// idParam parses the {id} URL parameter as a UUID.
func idParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

type nameRequest struct {
	Name string `json:"name"`
}

type reorderRequest struct {
	SourceID uuid.UUID `json:"source_id"`
	TargetID uuid.UUID `json:"target_id"`
}

// spliceOrder moves source to target's position in the given ID order.
// Returns false when either ID is missing from the list.
func spliceOrder(ids []uuid.UUID, source, target uuid.UUID) ([]uuid.UUID, bool) {
	sourceIdx, targetIdx := -1, -1
	for i, id := range ids {
		switch id {
		case source:
			sourceIdx = i
		case target:
			targetIdx = i
		}
	}
	if sourceIdx == -1 || targetIdx == -1 {
		return nil, false
	}

	ordered := make([]uuid.UUID, 0, len(ids))
	ordered = append(ordered, ids[:sourceIdx]...)
	ordered = append(ordered, ids[sourceIdx+1:]...)

	for i, id := range ordered {
		if id == target {
			targetIdx = i
			break
		}
	}
	ordered = append(ordered[:targetIdx], append([]uuid.UUID{source}, ordered[targetIdx:]...)...)
	return ordered, true
}

// --- Companies ---

// CompanyCreate adds a company at the end of the sort order and responds
// with the fresh column list.
func (a *Admin) CompanyCreate(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := a.companies.Create(name, admin.ID)
	if err != nil {
		slog.Error("create company failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create company")
		return
	}

	a.logChange("companies", created.ID, models.OpCreate, admin, fmt.Sprintf("company %q created", created.Name))
	a.invalidateComparison(r.Context())
	a.respondCompanies(w, http.StatusCreated, created)
}

// CompanyUpdate renames a company.
func (a *Admin) CompanyUpdate(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := a.companies.FindByID(id)
	if err != nil {
		slog.Error("company lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load company")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}

	if err := a.companies.Rename(id, name, admin.ID); err != nil {
		slog.Error("rename company failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to rename company")
		return
	}

	a.logChange("companies", id, models.OpUpdate, admin, fmt.Sprintf("company %q renamed to %q", existing.Name, name))
	a.invalidateComparison(r.Context())
	a.respondCompanies(w, http.StatusOK, nil)
}

// CompanyDelete removes a company and, through the cascade, its
// technologies and their mappings.
func (a *Admin) CompanyDelete(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := a.companies.FindByID(id)
	if err != nil {
		slog.Error("company lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load company")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}

	if err := a.companies.Delete(id); err != nil {
		slog.Error("delete company failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete company")
		return
	}

	a.logChange("companies", id, models.OpDelete, admin, fmt.Sprintf("company %q deleted", existing.Name))
	a.invalidateComparison(r.Context())
	a.respondCompanies(w, http.StatusOK, nil)
}

// CompanyReorder moves one company to another's position and renumbers
// the whole column order densely in one transaction.
func (a *Admin) CompanyReorder(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := a.companies.List()
	if err != nil {
		slog.Error("load companies failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load companies")
		return
	}

	ids := make([]uuid.UUID, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}
	ordered, ok := spliceOrder(ids, req.SourceID, req.TargetID)
	if !ok {
		writeError(w, http.StatusNotFound, "company not found")
		return
	}

	if err := a.companies.Reorder(ordered, admin.ID); err != nil {
		slog.Error("reorder companies failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reorder companies")
		return
	}

	a.logChange("companies", req.SourceID, models.OpUpdate, admin, "company order changed")
	a.invalidateComparison(r.Context())
	a.respondCompanies(w, http.StatusOK, nil)
}

// respondCompanies answers with the fresh company list, optionally
// including the just-created row. Mutation responses always carry fresh
// data rather than letting the client patch its copy optimistically.
func (a *Admin) respondCompanies(w http.ResponseWriter, status int, created *models.Company) {
	list, err := a.companies.List()
	if err != nil {
		slog.Error("load companies failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load companies")
		return
	}
	body := map[string]any{"companies": list}
	if created != nil {
		body["company"] = created
	}
	writeJSON(w, status, body)
}

// --- Categories ---

type categoryRequest struct {
	Name string              `json:"name"`
	Type models.CategoryType `json:"type"`
}

// CategoryCreate adds a category at the end of the sort order.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Type != models.CategoryTypeDigital && req.Type != models.CategoryTypeAutonomous {
		writeError(w, http.StatusBadRequest, "type must be digital or autonomous")
		return
	}

	created, err := a.categories.Create(name, req.Type, admin.ID)
	if err != nil {
		slog.Error("create category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	a.logChange("technology_categories", created.ID, models.OpCreate, admin, fmt.Sprintf("category %q created", created.Name))
	a.invalidateComparison(r.Context())
	a.respondCategories(w, http.StatusCreated, created)
}

// CategoryUpdate renames a category.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := a.categories.FindByID(id)
	if err != nil {
		slog.Error("category lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load category")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	if err := a.categories.Rename(id, name, admin.ID); err != nil {
		slog.Error("rename category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to rename category")
		return
	}

	a.logChange("technology_categories", id, models.OpUpdate, admin, fmt.Sprintf("category %q renamed to %q", existing.Name, name))
	a.invalidateComparison(r.Context())
	a.respondCategories(w, http.StatusOK, nil)
}

// CategoryDelete removes a category. Mapped technologies survive; only
// their mapping rows go with the category.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := a.categories.FindByID(id)
	if err != nil {
		slog.Error("category lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load category")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		slog.Error("delete category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	a.logChange("technology_categories", id, models.OpDelete, admin, fmt.Sprintf("category %q deleted", existing.Name))
	a.invalidateComparison(r.Context())
	a.respondCategories(w, http.StatusOK, nil)
}

// CategoryReorder moves one category to another's position and renumbers
// the row order densely in one transaction.
func (a *Admin) CategoryReorder(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := a.categories.List()
	if err != nil {
		slog.Error("load categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}

	ids := make([]uuid.UUID, len(list))
	for i, c := range list {
		ids[i] = c.ID
	}
	ordered, ok := spliceOrder(ids, req.SourceID, req.TargetID)
	if !ok {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	if err := a.categories.Reorder(ordered, admin.ID); err != nil {
		slog.Error("reorder categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reorder categories")
		return
	}

	a.logChange("technology_categories", req.SourceID, models.OpUpdate, admin, "category order changed")
	a.invalidateComparison(r.Context())
	a.respondCategories(w, http.StatusOK, nil)
}

func (a *Admin) respondCategories(w http.ResponseWriter, status int, created *models.TechnologyCategory) {
	list, err := a.categories.List()
	if err != nil {
		slog.Error("load categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	body := map[string]any{"categories": list}
	if created != nil {
		body["category"] = created
	}
	writeJSON(w, status, body)
}
