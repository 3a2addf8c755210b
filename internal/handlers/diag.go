package handlers

import (
	"net/http"
	"time"
)

// tableSnapshot is one table's contents in the diagnostics payload. A
// failed read fills Error instead of failing the whole snapshot.
type tableSnapshot struct {
	Count int    `json:"count"`
	Rows  any    `json:"rows,omitempty"`
	Error string `json:"error,omitempty"`
}

// Snapshot dumps the four main tables as JSON for connectivity checks and
// manual inspection. Each table is read independently so one failure
// still leaves the rest visible.
func (p *Public) Snapshot(w http.ResponseWriter, r *http.Request) {
	tables := make(map[string]tableSnapshot, 4)

	if admins, err := p.admins.List(); err != nil {
		tables["admins"] = tableSnapshot{Error: err.Error()}
	} else {
		tables["admins"] = tableSnapshot{Count: len(admins), Rows: admins}
	}

	if companies, err := p.companies.List(); err != nil {
		tables["companies"] = tableSnapshot{Error: err.Error()}
	} else {
		tables["companies"] = tableSnapshot{Count: len(companies), Rows: companies}
	}

	if categories, err := p.categories.List(); err != nil {
		tables["technology_categories"] = tableSnapshot{Error: err.Error()}
	} else {
		tables["technology_categories"] = tableSnapshot{Count: len(categories), Rows: categories}
	}

	if techs, err := p.technologies.List(); err != nil {
		tables["technologies"] = tableSnapshot{Error: err.Error()}
	} else {
		tables["technologies"] = tableSnapshot{Count: len(techs), Rows: techs}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tables":     tables,
		"checked_at": time.Now().UTC(),
	})
}

// CreateAdminDisabled answers the retired admin-creation route. Admin
// rows are managed directly in the database; the endpoint stays mounted
// so callers get instructions instead of a bare 404.
func (p *Public) CreateAdminDisabled(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error":        "admin creation through the API is disabled",
		"instructions": "insert the row directly: INSERT INTO admins (admin_code, admin_name, is_active) VALUES ('ADMIN004', 'display name', true);",
	})
}
