package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"shiptech/internal/cache"
	"shiptech/internal/compare"
	"shiptech/internal/models"
	"shiptech/internal/store"
)

// defaultChangeLogLimit bounds the change log listing when no limit is given.
const defaultChangeLogLimit = 50

// maxChangeLogLimit caps how many audit rows one request may fetch.
const maxChangeLogLimit = 200

// Public groups the unauthenticated read handlers: the comparison matrix,
// the management listing, and the supporting lookups.
type Public struct {
	companies    *store.CompanyStore
	categories   *store.CategoryStore
	technologies *store.TechnologyStore
	admins       *store.AdminStore
	changeLogs   *store.ChangeLogStore
	viewCache    *cache.ViewCache
}

// NewPublic creates a new Public handler group. viewCache may be nil, in
// which case every comparison request rebuilds from the database.
func NewPublic(companies *store.CompanyStore, categories *store.CategoryStore, technologies *store.TechnologyStore, admins *store.AdminStore, changeLogs *store.ChangeLogStore, viewCache *cache.ViewCache) *Public {
	return &Public{
		companies:    companies,
		categories:   categories,
		technologies: technologies,
		admins:       admins,
		changeLogs:   changeLogs,
		viewCache:    viewCache,
	}
}

// Comparison serves the full comparison page payload: companies,
// categories, and the cell index keyed "companyID:categoryID". The three
// table fetches run concurrently and each is best-effort: a failed fetch
// logs and leaves its slice empty so the others still populate.
func (p *Public) Comparison(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if p.viewCache != nil {
		if payload, ok := p.viewCache.Get(ctx, cache.ComparisonKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(payload)
			return
		}
	}

	var (
		wg         sync.WaitGroup
		companies  []models.Company
		categories []models.TechnologyCategory
		techs      []models.Technology
		mappings   []models.CategoryMapping
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if companies, err = p.companies.List(); err != nil {
			slog.Error("load companies failed", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if categories, err = p.categories.List(); err != nil {
			slog.Error("load categories failed", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if techs, err = p.technologies.List(); err != nil {
			slog.Error("load technologies failed", "error", err)
			return
		}
		if mappings, err = p.technologies.ListMappings(); err != nil {
			slog.Error("load category mappings failed", "error", err)
		}
	}()
	wg.Wait()

	matrix := compare.BuildMatrix(techs, mappings)
	cells := make(map[string][]models.Technology, len(matrix.Cells()))
	for key, cell := range matrix.Cells() {
		cells[key.CompanyID.String()+":"+key.CategoryID.String()] = cell
	}

	payload, err := json.Marshal(map[string]any{
		"companies":  companies,
		"categories": categories,
		"cells":      cells,
	})
	if err != nil {
		slog.Error("marshal comparison payload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build comparison")
		return
	}

	if p.viewCache != nil {
		p.viewCache.Set(ctx, cache.ComparisonKey, payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(payload)
}

// Management serves the denormalized technology listing with filtering
// and sorting. Query params: company and category (repeatable, union
// within and across), sort (title|company|updated), order (asc|desc).
func (p *Public) Management(w http.ResponseWriter, r *http.Request) {
	techs, err := p.technologies.List()
	if err != nil {
		slog.Error("load technologies failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load technologies")
		return
	}
	companies, err := p.companies.List()
	if err != nil {
		slog.Error("load companies failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load companies")
		return
	}
	categories, err := p.categories.List()
	if err != nil {
		slog.Error("load categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	mappings, err := p.technologies.ListMappings()
	if err != nil {
		slog.Error("load category mappings failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load category mappings")
		return
	}
	admins, err := p.admins.List()
	if err != nil {
		slog.Error("load admins failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load admins")
		return
	}

	details := compare.BuildDetails(techs, companies, categories, mappings, admins)

	q := r.URL.Query()
	details = compare.ApplyFilter(details, compare.Filter{
		Companies:  q["company"],
		Categories: q["category"],
	})

	field := compare.SortField(q.Get("sort"))
	if field == "" {
		field = compare.SortByTitle
	}
	compare.SortDetails(details, field, q.Get("order") == "desc")

	writeJSON(w, http.StatusOK, map[string]any{"technologies": details})
}

// Companies lists all companies in matrix column order. The management
// page uses this for its filter options.
func (p *Public) Companies(w http.ResponseWriter, r *http.Request) {
	items, err := p.companies.List()
	if err != nil {
		slog.Error("load companies failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load companies")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": items})
}

// Categories lists all categories in matrix row order.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	items, err := p.categories.List()
	if err != nil {
		slog.Error("load categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": items})
}

// ChangeLogs lists the newest audit rows, most recent first. Accepts an
// optional limit query param.
func (p *Public) ChangeLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultChangeLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > maxChangeLogLimit {
		limit = maxChangeLogLimit
	}

	items, err := p.changeLogs.ListRecent(limit)
	if err != nil {
		slog.Error("load change logs failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load change logs")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"change_logs": items})
}
