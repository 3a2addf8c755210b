// Integration tests for the Valkey session store. Skipped when Valkey is
// not reachable. Uses DB 15 to stay out of development data.
package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("skipping: valkey not reachable: %v", err)
	}

	t.Cleanup(func() { client.Close() })
	return client
}

func TestSessionLifecycle(t *testing.T) {
	client := testClient(t)
	store := NewStore(client, false)
	ctx := context.Background()

	adminID := uuid.New()
	rec := httptest.NewRecorder()
	id, err := store.Create(ctx, rec, &Data{
		AdminID:   adminID,
		AdminCode: "ADMIN001",
		AdminName: "김관리자",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}

	// The cookie on the response carries the session ID.
	cookies := rec.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == CookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("session cookie not set")
	}
	if sessionCookie.Value != id {
		t.Errorf("cookie value = %q, want %q", sessionCookie.Value, id)
	}
	if !sessionCookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	// A request bearing the cookie resolves the session.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie)
	data, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data == nil {
		t.Fatal("session not found")
	}
	if data.AdminID != adminID || data.AdminCode != "ADMIN001" {
		t.Errorf("session data = %+v", data)
	}

	// Destroy removes the session and expires the cookie.
	rec2 := httptest.NewRecorder()
	if err := store.Destroy(ctx, rec2, req); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	gone, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("Get after destroy: %v", err)
	}
	if gone != nil {
		t.Error("session still resolvable after destroy")
	}
}

func TestGetWithoutCookie(t *testing.T) {
	client := testClient(t)
	store := NewStore(client, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Error("expected nil session for cookie-less request")
	}
}
