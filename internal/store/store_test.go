// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"shiptech/internal/database"
)

// testDSN returns the PostgreSQL connection string for testing.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "shiptech")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "shiptech")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testAdmin inserts a throwaway admin for FK references and registers its
// removal. Cascades clean up whatever the admin created through audit FKs.
func testAdmin(t *testing.T, db *sql.DB, code string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.QueryRow(`
		INSERT INTO admins (admin_code, admin_name, is_active)
		VALUES ($1, 'Test Admin', TRUE)
		RETURNING id
	`, code).Scan(&id)
	if err != nil {
		t.Fatalf("insert test admin: %v", err)
	}

	t.Cleanup(func() {
		db.Exec(`DELETE FROM admins WHERE id = $1`, id)
	})
	return id
}

// cleanCompanies removes test companies by name. Call in t.Cleanup().
func cleanCompanies(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec(`DELETE FROM companies WHERE name = $1`, name)
	}
}

// cleanCategories removes test categories by name. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec(`DELETE FROM technology_categories WHERE name = $1`, name)
	}
}

// cleanTechnologies removes test technologies by title. Call in t.Cleanup().
func cleanTechnologies(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		db.Exec(`DELETE FROM technologies WHERE title = $1`, title)
	}
}
