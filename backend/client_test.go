package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"restaurant-dashboard/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.New(filepath.Join(t.TempDir(), "session.db"))
	return New(srv.URL, store), store
}

func TestAttachesBearerToken(t *testing.T) {
	var gotAuth string
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	store.SetAccessToken("tok-123", "admin")

	var out map[string]any
	if err := c.Get(context.Background(), "/api/menu", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	store.SetAccessToken("stale", "customer")

	err := c.Get(context.Background(), "/api/menu", nil)
	var ue *UnauthorizedError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UnauthorizedError", err)
	}
	if ue.Body == "" {
		t.Fatal("expected response body on UnauthorizedError")
	}
	if store.GetAccessToken() != "" {
		t.Fatal("token should be cleared after 401")
	}
	if store.GetUserRole() != "" {
		t.Fatal("role should be cleared after 401")
	}
}

func TestHTTPErrorCarriesStatusAndBody(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	store.SetAccessToken("tok", "admin")

	err := c.Get(context.Background(), "/api/menu", nil)
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("err = %v, want *HTTPError", err)
	}
	if he.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", he.Status)
	}
	if he.Body != "boom\n" {
		t.Fatalf("body = %q, want boom", he.Body)
	}
}

func TestEmptyBodyIsSuccess(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	store.SetAccessToken("tok", "admin")

	out := map[string]any{"untouched": true}
	if err := c.Get(context.Background(), "/api/menu", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !out["untouched"].(bool) {
		t.Fatal("out should be untouched on empty body")
	}
}

func TestNonJSONBodyPassesThroughAsText(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain ok"))
	}))
	store.SetAccessToken("tok", "admin")

	var out string
	if err := c.Get(context.Background(), "/api/waste", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out != "plain ok" {
		t.Fatalf("out = %q, want raw text", out)
	}
}

func TestPostSetsJSONContentType(t *testing.T) {
	var gotType string
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	store.SetAccessToken("tok", "admin")

	if err := c.Post(context.Background(), "/api/waste", map[string]int{"q": 1}, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if gotType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotType)
	}
}

func TestTokenWaitTimesOutAndProceedsUnauthenticated(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	c.tokenWait = 100 * time.Millisecond

	start := time.Now()
	if err := c.Get(context.Background(), "/api/menu", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < c.tokenWait {
		t.Fatalf("request returned after %v, should have waited at least %v", elapsed, c.tokenWait)
	}
	if elapsed > c.tokenWait+2*time.Second {
		t.Fatalf("request took %v, wait is not bounded", elapsed)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want unauthenticated request", gotAuth)
	}
}

func TestTokenWaitResolvesEarlyOnSessionChange(t *testing.T) {
	var gotAuth string
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	c.tokenWait = 5 * time.Second

	go func() {
		time.Sleep(50 * time.Millisecond)
		store.SetAccessToken("late-token", "customer")
	}()

	start := time.Now()
	if err := c.Get(context.Background(), "/api/menu", nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("request took %v, should resolve on session change", elapsed)
	}
	if gotAuth != "Bearer late-token" {
		t.Fatalf("Authorization = %q, want late token attached", gotAuth)
	}
}

func TestLoginPathSkipsTokenWait(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accessToken":"x"}`))
	}))
	c.tokenWait = 5 * time.Second

	start := time.Now()
	var out map[string]any
	if err := c.Post(context.Background(), "/api/auth/login", map[string]string{"username": "a"}, &out); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("login request waited %v for a token, should not wait", elapsed)
	}
}
