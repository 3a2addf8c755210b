// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"shiptech/internal/database"
	"shiptech/internal/middleware"
	"shiptech/internal/models"
	"shiptech/internal/session"
	"shiptech/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "shiptech")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "shiptech")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "view:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB           *sql.DB
	Valkey       *redis.Client
	Sessions     *session.Store
	Admins       *store.AdminStore
	Companies    *store.CompanyStore
	Categories   *store.CategoryStore
	Technologies *store.TechnologyStore
	ChangeLogs   *store.ChangeLogStore
	Admin        *Admin
	Auth         *Auth
	Public       *Public
}

// newTestEnv creates a complete test environment. S3 and the view cache
// stay nil so handlers exercise their unconfigured paths.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	admins := store.NewAdminStore(db)
	companies := store.NewCompanyStore(db)
	categories := store.NewCategoryStore(db)
	technologies := store.NewTechnologyStore(db)
	changeLogs := store.NewChangeLogStore(db)

	return &testEnv{
		DB:           db,
		Valkey:       vk,
		Sessions:     sessions,
		Admins:       admins,
		Companies:    companies,
		Categories:   categories,
		Technologies: technologies,
		ChangeLogs:   changeLogs,
		Admin:        NewAdmin(companies, categories, technologies, changeLogs, nil, nil),
		Auth:         NewAuth(sessions, admins),
		Public:       NewPublic(companies, categories, technologies, admins, changeLogs, nil),
	}
}

// testAdmin inserts an active admin row and removes it on cleanup.
func testAdmin(t *testing.T, db *sql.DB, code string) *models.Admin {
	t.Helper()

	a := &models.Admin{AdminCode: code, AdminName: "테스트관리자", IsActive: true}
	err := db.QueryRow(`
		INSERT INTO admins (admin_code, admin_name, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (admin_code) DO UPDATE SET is_active = TRUE
		RETURNING id, created_at
	`, a.AdminCode, a.AdminName).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		t.Fatalf("insert test admin: %v", err)
	}

	t.Cleanup(func() {
		db.Exec(`DELETE FROM change_logs WHERE admin_id = $1`, a.ID)
		db.Exec(`DELETE FROM admins WHERE id = $1`, a.ID)
	})
	return a
}

// ctxWithAdmin injects an authenticated admin the way LoadAdmin does.
func ctxWithAdmin(ctx context.Context, admin *models.Admin) context.Context {
	return context.WithValue(ctx, middleware.AdminKey, admin)
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// cleanCompanies removes test companies by name (cascades to technologies).
func cleanCompanies(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, n := range names {
		db.Exec(`DELETE FROM companies WHERE name = $1`, n)
	}
}

// cleanCategories removes test categories by name.
func cleanCategories(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, n := range names {
		db.Exec(`DELETE FROM technology_categories WHERE name = $1`, n)
	}
}
