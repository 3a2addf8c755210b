package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shiptech/internal/models"
)

func TestComparisonPayloadCells(t *testing.T) {
	env := newTestEnv(t)
	admin := testAdmin(t, env.DB, "TSTPUB01")
	fix := newTechFixture(t, env, admin)

	tech, err := env.Technologies.Create(&models.Technology{
		Title:     "비교행렬기술",
		CompanyID: fix.company.ID,
		CreatedBy: &admin.ID,
		UpdatedBy: &admin.ID,
	})
	if err != nil {
		t.Fatalf("create technology: %v", err)
	}
	if err := env.Technologies.AttachCategory(tech.ID, fix.catA.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/comparison", nil)
	rec := httptest.NewRecorder()
	env.Public.Comparison(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Companies  []models.Company              `json:"companies"`
		Categories []models.TechnologyCategory   `json:"categories"`
		Cells      map[string][]models.Technology `json:"cells"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	key := fix.company.ID.String() + ":" + fix.catA.ID.String()
	cell := resp.Cells[key]
	found := false
	for _, ct := range cell {
		if ct.ID == tech.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("cell %s missing the mapped technology", key)
	}

	// The technology never appears under a category it is not mapped to.
	wrongKey := fix.company.ID.String() + ":" + fix.catB.ID.String()
	for _, ct := range resp.Cells[wrongKey] {
		if ct.ID == tech.ID {
			t.Errorf("technology leaked into unmapped cell %s", wrongKey)
		}
	}
}

func TestManagementFilterAndSort(t *testing.T) {
	env := newTestEnv(t)
	admin := testAdmin(t, env.DB, "TSTPUB02")
	fix := newTechFixture(t, env, admin)

	mk := func(title string) {
		t.Helper()
		tech, err := env.Technologies.Create(&models.Technology{
			Title:     title,
			CompanyID: fix.company.ID,
			CreatedBy: &admin.ID,
			UpdatedBy: &admin.ID,
		})
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		if err := env.Technologies.AttachCategory(tech.ID, fix.catA.ID); err != nil {
			t.Fatalf("attach: %v", err)
		}
	}
	mk("필터기술가")
	mk("필터기술나")

	// Filtered by the fixture company: both technologies match.
	req := httptest.NewRequest(http.MethodGet,
		"/api/management?company=기술테스트조선&sort=title&order=desc", nil)
	rec := httptest.NewRecorder()
	env.Public.Management(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Technologies []models.TechnologyDetail `json:"technologies"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Technologies) != 2 {
		t.Fatalf("got %d technologies, want 2", len(resp.Technologies))
	}
	// Descending title order.
	if resp.Technologies[0].Title != "필터기술나" {
		t.Errorf("first = %q, want 필터기술나", resp.Technologies[0].Title)
	}
	if resp.Technologies[0].CompanyName != "기술테스트조선" {
		t.Errorf("company name = %q", resp.Technologies[0].CompanyName)
	}

	// A filter naming an unknown company matches nothing.
	req = httptest.NewRequest(http.MethodGet, "/api/management?company=존재하지않는회사", nil)
	rec = httptest.NewRecorder()
	env.Public.Management(rec, req)
	resp.Technologies = nil
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Technologies) != 0 {
		t.Errorf("unknown company filter returned %d rows", len(resp.Technologies))
	}
}

func TestChangeLogsLimitValidation(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/changelogs?limit=abc", nil)
	rec := httptest.NewRecorder()
	env.Public.ChangeLogs(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/changelogs?limit=5", nil)
	rec = httptest.NewRecorder()
	env.Public.ChangeLogs(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestSnapshotListsTables(t *testing.T) {
	env := newTestEnv(t)
	testAdmin(t, env.DB, "TSTPUB03")

	req := httptest.NewRequest(http.MethodGet, "/api/diag/snapshot", nil)
	rec := httptest.NewRecorder()
	env.Public.Snapshot(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Tables map[string]struct {
			Count int    `json:"count"`
			Error string `json:"error"`
		} `json:"tables"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, name := range []string{"admins", "companies", "technology_categories", "technologies"} {
		snap, ok := resp.Tables[name]
		if !ok {
			t.Errorf("snapshot missing table %q", name)
			continue
		}
		if snap.Error != "" {
			t.Errorf("table %q errored: %s", name, snap.Error)
		}
	}
	if resp.Tables["admins"].Count < 1 {
		t.Error("admins snapshot should include the seeded test admin")
	}
}

func TestCreateAdminDisabled(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/diag/create-admin", nil)
	rec := httptest.NewRecorder()
	env.Public.CreateAdminDisabled(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["instructions"] == "" {
		t.Error("response missing instructions")
	}
}
