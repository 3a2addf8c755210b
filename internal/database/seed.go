package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: the three
// test admin codes, the major shipbuilders and class societies, and the
// standard matrix categories. It is a no-op when admins already exist.
// Production admins are managed directly in the database, never here.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return fmt.Errorf("seed check admins: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	admins := []struct{ code, name string }{
		{"ADMIN001", "김관리자"},
		{"ADMIN002", "이관리자"},
		{"ADMIN003", "박관리자"},
	}
	for _, a := range admins {
		_, err := db.Exec(`
			INSERT INTO admins (admin_code, admin_name, is_active)
			VALUES ($1, $2, TRUE)
		`, a.code, a.name)
		if err != nil {
			return fmt.Errorf("seed insert admin %s: %w", a.code, err)
		}
	}

	companies := []string{"HD현대", "삼성중공업", "한화오션", "Kongsberg", "한국선급", "DNV"}
	for i, name := range companies {
		_, err := db.Exec(`
			INSERT INTO companies (name, sort_order)
			VALUES ($1, $2)
		`, name, i+1)
		if err != nil {
			return fmt.Errorf("seed insert company %s: %w", name, err)
		}
	}

	categories := []struct {
		name string
		typ  string
	}{
		{"디지털트윈", "digital"},
		{"AI/빅데이터", "digital"},
		{"원격 모니터링", "digital"},
		{"자율운항", "autonomous"},
		{"충돌 회피", "autonomous"},
		{"자동 접안", "autonomous"},
	}
	for i, c := range categories {
		_, err := db.Exec(`
			INSERT INTO technology_categories (name, type, sort_order)
			VALUES ($1, $2, $3)
		`, c.name, c.typ, i+1)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.name, err)
		}
	}

	slog.Info("database seeded with development data",
		"admin_codes", "ADMIN001, ADMIN002, ADMIN003",
	)

	return nil
}
