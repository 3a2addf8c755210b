package store

import (
	"testing"

	"shiptech/internal/models"
)

func TestChangeLogAppendAndListRecent(t *testing.T) {
	db := testDB(t)
	adminID := testAdmin(t, db, "TST-CL-001")
	s := NewChangeLogStore(db)

	t.Cleanup(func() {
		db.Exec(`DELETE FROM change_logs WHERE description LIKE 'cl-test-%'`)
	})

	entries := []string{"cl-test-first", "cl-test-second", "cl-test-third"}
	for _, desc := range entries {
		err := s.Append(&models.ChangeLog{
			TableName:   "companies",
			Operation:   models.OpCreate,
			AdminID:     &adminID,
			Description: desc,
		})
		if err != nil {
			t.Fatalf("Append %s: %v", desc, err)
		}
	}

	recent, err := s.ListRecent(100)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}

	// Our three rows appear newest-first.
	var got []string
	for _, l := range recent {
		if len(l.Description) >= 8 && l.Description[:8] == "cl-test-" {
			got = append(got, l.Description)
		}
	}
	if len(got) != 3 {
		t.Fatalf("found %d test rows, want 3", len(got))
	}
	if got[0] != "cl-test-third" || got[2] != "cl-test-first" {
		t.Errorf("order = %v, want newest first", got)
	}
}
