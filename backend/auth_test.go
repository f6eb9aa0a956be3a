package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"restaurant-dashboard/session"
)

func TestCustomerLoginStoresTokenAndRole(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "abc", "role": "customer"})
	}))
	c.tokenWait = 10 * time.Millisecond

	res, err := c.Login(context.Background(), "customer", "pw1", "customer")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotPath != "/api/v1/customers/login" {
		t.Fatalf("path = %q, want customer login endpoint", gotPath)
	}
	if gotBody["role"] != "customer" {
		t.Fatalf("body role = %q, want customer", gotBody["role"])
	}
	if res.Token != "abc" || res.Role != "customer" {
		t.Fatalf("result = %+v, want token abc role customer", res)
	}
	if store.GetAccessToken() != "abc" {
		t.Fatalf("stored token = %q, want abc", store.GetAccessToken())
	}
	if store.GetUserRole() != "customer" {
		t.Fatalf("stored role = %q, want customer", store.GetUserRole())
	}
}

func TestAdminLoginUsesAuthEndpoint(t *testing.T) {
	var gotPath string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{"token": "adm"})
	}))

	res, err := c.Login(context.Background(), "root", "pw", "admin")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotPath != "/api/auth/login" {
		t.Fatalf("path = %q, want admin auth endpoint", gotPath)
	}
	// role absent from response: requested role is the fallback
	if res.Role != "admin" {
		t.Fatalf("role = %q, want requested-role fallback", res.Role)
	}
}

func TestLoginExtractsNestedTokenShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		role string
	}{
		{"snake_case", `{"access_token":"t1","role":"customer"}`, "customer"},
		{"data wrapper", `{"data":{"accessToken":"t1","role":"customer"}}`, "customer"},
		{"user role", `{"token":"t1","user":{"role":"admin"}}`, "admin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			c.tokenWait = 10 * time.Millisecond
			res, err := c.Login(context.Background(), "u", "p", "customer")
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if res.Token != "t1" {
				t.Fatalf("token = %q, want t1", res.Token)
			}
			if res.Role != tc.role {
				t.Fatalf("role = %q, want %q", res.Role, tc.role)
			}
		})
	}
}

func TestLoginWithoutTokenFails(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"welcome"}`))
	}))
	c.tokenWait = 10 * time.Millisecond

	_, err := c.Login(context.Background(), "u", "p", "customer")
	var le *LoginError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoginError", err)
	}
	if store.GetAccessToken() != "" {
		t.Fatal("no token should be stored on failed extraction")
	}
}

func TestLogoutClearsSessionEvenWhenBackendFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	store := session.New(filepath.Join(t.TempDir(), "session.db"))
	store.SetAccessToken("tok", "customer")
	store.SetCustomerUsername("alice")
	c := New(srv.URL, store)

	c.Logout(context.Background())
	if store.GetAccessToken() != "" || store.GetUserRole() != "" || store.GetCustomerUsername() != "" {
		t.Fatal("logout must clear token, role and username regardless of backend result")
	}
}

func TestRegisterCustomerPostsOnce(t *testing.T) {
	calls := 0
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/api/v1/customers/register" {
			t.Errorf("path = %q, want register endpoint", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "42", "message": "created"})
	}))
	store.SetAccessToken("tok", "customer")

	age := 30
	res, err := c.RegisterCustomer(context.Background(), RegisterRequest{
		Username: "alice30", Name: "Alice Smith", Age: &age,
		Contact: "alice@example.com", Password: "pw",
	})
	if err != nil {
		t.Fatalf("RegisterCustomer: %v", err)
	}
	if calls != 1 {
		t.Fatalf("backend called %d times, want exactly 1 (no retry)", calls)
	}
	if res.ID != "42" || res.Message != "created" {
		t.Fatalf("res = %+v", res)
	}
}
