package store

import (
	"testing"

	"github.com/google/uuid"

	"shiptech/internal/models"
)

func TestTechnologyCRUD(t *testing.T) {
	db := testDB(t)
	adminID := testAdmin(t, db, "TST-TE-001")

	companies := NewCompanyStore(db)
	techs := NewTechnologyStore(db)

	t.Cleanup(func() {
		cleanTechnologies(t, db, "tech-crud-x", "tech-crud-y")
		cleanCompanies(t, db, "tech-crud-co")
	})

	co, err := companies.Create("tech-crud-co", adminID)
	if err != nil {
		t.Fatalf("create company: %v", err)
	}

	desc := "situational awareness suite"
	created, err := techs.Create(&models.Technology{
		Title:       "tech-crud-x",
		Description: &desc,
		CompanyID:   co.ID,
		CreatedBy:   &adminID,
		UpdatedBy:   &adminID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Description == nil || *created.Description != desc {
		t.Error("description not persisted")
	}
	if created.AcronymFull != nil {
		t.Error("absent acronym should stay NULL")
	}

	created.Title = "tech-crud-y"
	link := "https://example.com/spec"
	created.Link1 = &link
	if err := techs.Update(created); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := techs.FindByID(created.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("FindByID: (%v, %v)", reloaded, err)
	}
	if reloaded.Title != "tech-crud-y" {
		t.Errorf("title = %q", reloaded.Title)
	}
	if reloaded.Link1 == nil || *reloaded.Link1 != link {
		t.Error("link1 not persisted")
	}

	if err := techs.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gone, _ := techs.FindByID(created.ID); gone != nil {
		t.Error("technology still present after delete")
	}
}

func TestSetCategoriesReconcilesDiff(t *testing.T) {
	db := testDB(t)
	adminID := testAdmin(t, db, "TST-TE-002")

	companies := NewCompanyStore(db)
	categories := NewCategoryStore(db)
	techs := NewTechnologyStore(db)

	t.Cleanup(func() {
		cleanTechnologies(t, db, "tech-map-x")
		cleanCategories(t, db, "cat-map-ai", "cat-map-nav", "cat-map-col")
		cleanCompanies(t, db, "tech-map-co")
	})

	co, err := companies.Create("tech-map-co", adminID)
	if err != nil {
		t.Fatalf("create company: %v", err)
	}
	ai, err := categories.Create("cat-map-ai", models.CategoryTypeDigital, adminID)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	nav, err := categories.Create("cat-map-nav", models.CategoryTypeAutonomous, adminID)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	col, err := categories.Create("cat-map-col", models.CategoryTypeAutonomous, adminID)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	tech, err := techs.Create(&models.Technology{Title: "tech-map-x", CompanyID: co.ID})
	if err != nil {
		t.Fatalf("create technology: %v", err)
	}

	// Start in the digital category.
	if err := techs.SetCategories(tech.ID, []uuid.UUID{ai.ID}); err != nil {
		t.Fatalf("SetCategories initial: %v", err)
	}

	// Move to the two autonomous categories.
	if err := techs.SetCategories(tech.ID, []uuid.UUID{nav.ID, col.ID}); err != nil {
		t.Fatalf("SetCategories edit: %v", err)
	}

	ids, err := techs.CategoryIDs(tech.ID)
	if err != nil {
		t.Fatalf("CategoryIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d mappings, want 2", len(ids))
	}
	got := map[uuid.UUID]bool{}
	for _, id := range ids {
		got[id] = true
	}
	if !got[nav.ID] || !got[col.ID] {
		t.Error("expected mappings to nav and col categories")
	}
	if got[ai.ID] {
		t.Error("mapping to removed category survived reconciliation")
	}
}

func TestAttachDetachCategory(t *testing.T) {
	db := testDB(t)
	adminID := testAdmin(t, db, "TST-TE-003")

	companies := NewCompanyStore(db)
	categories := NewCategoryStore(db)
	techs := NewTechnologyStore(db)

	t.Cleanup(func() {
		cleanTechnologies(t, db, "tech-att-x")
		cleanCategories(t, db, "cat-att-a")
		cleanCompanies(t, db, "tech-att-co")
	})

	co, _ := companies.Create("tech-att-co", adminID)
	cat, _ := categories.Create("cat-att-a", models.CategoryTypeDigital, adminID)
	tech, err := techs.Create(&models.Technology{Title: "tech-att-x", CompanyID: co.ID})
	if err != nil {
		t.Fatalf("create technology: %v", err)
	}

	if err := techs.AttachCategory(tech.ID, cat.ID); err != nil {
		t.Fatalf("AttachCategory: %v", err)
	}
	// Attaching again must be a no-op, not an error.
	if err := techs.AttachCategory(tech.ID, cat.ID); err != nil {
		t.Fatalf("AttachCategory repeat: %v", err)
	}

	ids, _ := techs.CategoryIDs(tech.ID)
	if len(ids) != 1 {
		t.Fatalf("got %d mappings, want 1", len(ids))
	}

	if err := techs.DetachCategory(tech.ID, cat.ID); err != nil {
		t.Fatalf("DetachCategory: %v", err)
	}
	ids, _ = techs.CategoryIDs(tech.ID)
	if len(ids) != 0 {
		t.Errorf("got %d mappings after detach, want 0", len(ids))
	}

	// The technology itself survives a detach.
	if still, _ := techs.FindByID(tech.ID); still == nil {
		t.Error("technology removed by category detach")
	}
}

func TestDeleteCompanyCascadesToTechnologies(t *testing.T) {
	db := testDB(t)
	adminID := testAdmin(t, db, "TST-TE-004")

	companies := NewCompanyStore(db)
	techs := NewTechnologyStore(db)

	t.Cleanup(func() {
		cleanTechnologies(t, db, "tech-cas-x")
		cleanCompanies(t, db, "tech-cas-co")
	})

	co, _ := companies.Create("tech-cas-co", adminID)
	tech, err := techs.Create(&models.Technology{Title: "tech-cas-x", CompanyID: co.ID})
	if err != nil {
		t.Fatalf("create technology: %v", err)
	}

	if err := companies.Delete(co.ID); err != nil {
		t.Fatalf("delete company: %v", err)
	}
	if orphan, _ := techs.FindByID(tech.ID); orphan != nil {
		t.Error("technology survived owning company deletion")
	}
}
