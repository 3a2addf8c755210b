package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shiptech/internal/middleware"
	"shiptech/internal/models"
)

// technologyRequest is the JSON body for creating or updating a technology.
// Empty optional strings are normalized to NULL before the write.
type technologyRequest struct {
	Title       string      `json:"title"`
	CompanyID   uuid.UUID   `json:"company_id"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
	AcronymFull string      `json:"acronym_full"`
	Description string      `json:"description"`
	Link1       string      `json:"link1"`
	Link1Title  string      `json:"link1_title"`
	Link2       string      `json:"link2"`
	Link2Title  string      `json:"link2_title"`
	Link3       string      `json:"link3"`
	Link3Title  string      `json:"link3_title"`
}

// apply copies the request fields onto a technology row. The image URL is
// not part of the request; it only changes through the image endpoints.
func (req *technologyRequest) apply(t *models.Technology) {
	t.Title = trimmed(req.Title)
	t.CompanyID = req.CompanyID
	t.AcronymFull = optional(req.AcronymFull)
	t.Description = optional(req.Description)
	t.Link1 = optional(req.Link1)
	t.Link1Title = optional(req.Link1Title)
	t.Link2 = optional(req.Link2)
	t.Link2Title = optional(req.Link2Title)
	t.Link3 = optional(req.Link3)
	t.Link3Title = optional(req.Link3Title)
}

// TechnologyCreate validates and inserts a technology together with its
// category set. Validation failures answer 400 before any write.
func (a *Admin) TechnologyCreate(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	var req technologyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateTechnology(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var tech models.Technology
	req.apply(&tech)
	tech.CreatedBy = &admin.ID
	tech.UpdatedBy = &admin.ID

	created, err := a.technologies.Create(&tech)
	if err != nil {
		slog.Error("create technology failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create technology")
		return
	}

	if err := a.technologies.SetCategories(created.ID, req.CategoryIDs); err != nil {
		slog.Error("set technology categories failed", "error", err, "technology_id", created.ID)
		writeError(w, http.StatusInternalServerError, "failed to set categories")
		return
	}

	a.logChange("technologies", created.ID, models.OpCreate, admin, fmt.Sprintf("technology %q created", created.Title))
	a.invalidateComparison(r.Context())
	writeJSON(w, http.StatusCreated, map[string]any{
		"technology":   created,
		"category_ids": req.CategoryIDs,
	})
}

// TechnologyUpdate validates and rewrites a technology row, then
// reconciles its category set to exactly the requested IDs.
func (a *Admin) TechnologyUpdate(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req technologyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateTechnology(&req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := a.technologies.FindByID(id)
	if err != nil {
		slog.Error("technology lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load technology")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "technology not found")
		return
	}

	req.apply(existing)
	existing.UpdatedBy = &admin.ID

	if err := a.technologies.Update(existing); err != nil {
		slog.Error("update technology failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update technology")
		return
	}
	if err := a.technologies.SetCategories(id, req.CategoryIDs); err != nil {
		slog.Error("set technology categories failed", "error", err, "technology_id", id)
		writeError(w, http.StatusInternalServerError, "failed to set categories")
		return
	}

	a.logChange("technologies", id, models.OpUpdate, admin, fmt.Sprintf("technology %q updated", existing.Title))
	a.invalidateComparison(r.Context())

	fresh, err := a.technologies.FindByID(id)
	if err != nil || fresh == nil {
		slog.Error("reload technology failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load technology")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"technology":   fresh,
		"category_ids": req.CategoryIDs,
	})
}

// TechnologyDelete removes a technology, its mapping rows (cascade), and
// its stored image (best-effort).
func (a *Admin) TechnologyDelete(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := a.technologies.FindByID(id)
	if err != nil {
		slog.Error("technology lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load technology")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "technology not found")
		return
	}

	if err := a.technologies.Delete(id); err != nil {
		slog.Error("delete technology failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete technology")
		return
	}

	a.deleteStoredImage(r, existing)
	a.logChange("technologies", id, models.OpDelete, admin, fmt.Sprintf("technology %q deleted", existing.Title))
	a.invalidateComparison(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// AttachCategory adds the technology to one more matrix cell. Attaching
// an already-present category is a no-op.
func (a *Admin) AttachCategory(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	techID, catID, ok := mappingParams(w, r)
	if !ok {
		return
	}

	if err := a.technologies.AttachCategory(techID, catID); err != nil {
		slog.Error("attach category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to attach category")
		return
	}

	a.logChange("technology_category_mapping", techID, models.OpCreate, admin, fmt.Sprintf("category %s attached", catID))
	a.invalidateComparison(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// DetachCategory removes the technology from one matrix cell. The
// technology itself survives.
func (a *Admin) DetachCategory(w http.ResponseWriter, r *http.Request) {
	admin := middleware.AdminFromCtx(r.Context())

	techID, catID, ok := mappingParams(w, r)
	if !ok {
		return
	}

	if err := a.technologies.DetachCategory(techID, catID); err != nil {
		slog.Error("detach category failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to detach category")
		return
	}

	a.logChange("technology_category_mapping", techID, models.OpDelete, admin, fmt.Sprintf("category %s detached", catID))
	a.invalidateComparison(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// mappingParams parses the {id} and {categoryID} URL parameters. Writes
// the error response itself on failure.
func mappingParams(w http.ResponseWriter, r *http.Request) (techID, catID uuid.UUID, ok bool) {
	techID, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, uuid.Nil, false
	}
	catID, err = uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return uuid.Nil, uuid.Nil, false
	}
	return techID, catID, true
}
