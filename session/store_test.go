package session

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "session.db"))
}

func TestRoleNeverOutlivesToken(t *testing.T) {
	s := newTestStore(t)

	s.SetAccessToken("tok-1", "admin")
	if got := s.GetUserRole(); got != "admin" {
		t.Fatalf("role = %q, want admin", got)
	}

	s.SetAccessToken("", "")
	if got := s.GetAccessToken(); got != "" {
		t.Fatalf("token = %q after clear, want empty", got)
	}
	if got := s.GetUserRole(); got != "" {
		t.Fatalf("role = %q after token clear, want empty", got)
	}
}

func TestTokenWithoutRoleKeepsExistingRole(t *testing.T) {
	s := newTestStore(t)
	s.SetAccessToken("tok-1", "customer")
	s.SetAccessToken("tok-2", "")
	if got := s.GetUserRole(); got != "customer" {
		t.Fatalf("role = %q, want customer preserved", got)
	}
	if got := s.GetAccessToken(); got != "tok-2" {
		t.Fatalf("token = %q, want tok-2", got)
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s := newTestStore(t)

	var events []Change
	unsubscribe := s.Subscribe(func(ev Change) { events = append(events, ev) })

	s.SetAccessToken("abc", "customer")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Token != "abc" || events[0].Role != "customer" {
		t.Fatalf("event = %+v, want token abc role customer", events[0])
	}

	s.SetCustomerUsername("alice")
	if len(events) != 2 {
		t.Fatalf("got %d events after username set, want 2", len(events))
	}
	if events[1].CustomerUsername != "alice" {
		t.Fatalf("event username = %q, want alice", events[1].CustomerUsername)
	}

	unsubscribe()
	s.SetAccessToken("", "")
	if len(events) != 2 {
		t.Fatalf("got %d events after unsubscribe, want 2", len(events))
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s1 := New(path)
	s1.SetAccessToken("tok", "admin")
	s1.SetCustomerUsername("bob")

	s2 := New(path)
	if got := s2.GetAccessToken(); got != "tok" {
		t.Fatalf("reopened token = %q, want tok", got)
	}
	if got := s2.GetUserRole(); got != "admin" {
		t.Fatalf("reopened role = %q, want admin", got)
	}
	if got := s2.GetCustomerUsername(); got != "bob" {
		t.Fatalf("reopened username = %q, want bob", got)
	}
}

func TestUnavailableStorageReadsReturnEmpty(t *testing.T) {
	s := New("/nonexistent-dir/does/not/exist/session.db")

	// writes are dropped, reads stay empty, nothing panics
	s.SetAccessToken("tok", "admin")
	if got := s.GetAccessToken(); got != "" {
		t.Fatalf("token = %q from unavailable storage, want empty", got)
	}
	if got := s.GetUserRole(); got != "" {
		t.Fatalf("role = %q from unavailable storage, want empty", got)
	}

	// notifications still fire even without persistence
	fired := false
	s.Subscribe(func(Change) { fired = true })
	s.SetAccessToken("tok2", "")
	if !fired {
		t.Fatal("expected change notification despite unavailable storage")
	}
}

func TestDeleteRemovesKey(t *testing.T) {
	s := newTestStore(t)
	s.SetCustomerUsername("alice")
	s.Delete("customer_username")
	if got := s.GetCustomerUsername(); got != "" {
		t.Fatalf("username = %q after delete, want empty", got)
	}
}
