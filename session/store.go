package session

import (
	"errors"
	"log"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	tokenKey    = "access_token"
	roleKey     = "user_role"
	usernameKey = "customer_username"

	// LegacyOrdersKey is a cache key from an earlier dashboard version.
	// It is purged on every customer refresh and never written.
	LegacyOrdersKey = "local_orders_v1"
)

// entry is one persisted key-value pair, the durable analog of a browser
// localStorage slot.
type entry struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// Change carries the auth-relevant state after a mutation. It is delivered
// to every subscriber and is what unblocks a request waiting for a token.
type Change struct {
	Token            string
	Role             string
	CustomerUsername string
}

// Store holds the access token, user role and customer username. All reads
// are best-effort: if the backing file could not be opened, reads return
// empty strings and writes are dropped rather than failing the caller.
type Store struct {
	db *gorm.DB

	mu     sync.Mutex
	nextID int
	subs   map[int]func(Change)
}

// New opens (or creates) the session database at path. An open failure is
// logged and yields a store with no persistence, matching the behavior of
// a browser with storage disabled.
func New(path string) *Store {
	s := &Store{subs: make(map[int]func(Change))}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("session: storage unavailable (%v); continuing without persistence", err)
		return s
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		log.Printf("session: migrate failed (%v); continuing without persistence", err)
		return s
	}
	s.db = db
	return s
}

// Subscribe registers fn to be called after every auth-relevant mutation.
// The returned function removes the subscription. Callbacks run outside the
// store's lock and must not assume any ordering between subscribers.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) broadcast() {
	ev := Change{
		Token:            s.GetAccessToken(),
		Role:             s.GetUserRole(),
		CustomerUsername: s.GetCustomerUsername(),
	}
	s.mu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// SetAccessToken stores the token, and the role when given. An empty token
// clears both entries: a role is never retained without a token. Either way
// subscribers are notified.
func (s *Store) SetAccessToken(token, role string) {
	if token != "" {
		s.put(tokenKey, token)
		if role != "" {
			s.put(roleKey, role)
		}
	} else {
		s.remove(tokenKey)
		s.remove(roleKey)
	}
	s.broadcast()
}

// SetCustomerUsername stores (or, when empty, clears) the username customer
// order payloads are attributed to.
func (s *Store) SetCustomerUsername(name string) {
	if name != "" {
		s.put(usernameKey, name)
	} else {
		s.remove(usernameKey)
	}
	s.broadcast()
}

func (s *Store) GetAccessToken() string      { return s.get(tokenKey) }
func (s *Store) GetUserRole() string         { return s.get(roleKey) }
func (s *Store) GetCustomerUsername() string { return s.get(usernameKey) }

// Delete removes an arbitrary key. Used to purge legacy cache entries.
func (s *Store) Delete(key string) { s.remove(key) }

func (s *Store) get(key string) string {
	if s.db == nil {
		return ""
	}
	var e entry
	if err := s.db.First(&e, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("session: read %s failed: %v", key, err)
		}
		return ""
	}
	return e.Value
}

func (s *Store) put(key, value string) {
	if s.db == nil {
		return
	}
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&entry{Key: key, Value: value}).Error
	if err != nil {
		log.Printf("session: write %s failed: %v", key, err)
	}
}

func (s *Store) remove(key string) {
	if s.db == nil {
		return
	}
	if err := s.db.Delete(&entry{}, "key = ?", key).Error; err != nil {
		log.Printf("session: delete %s failed: %v", key, err)
	}
}
