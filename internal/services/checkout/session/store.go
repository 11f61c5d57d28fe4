// Package session keeps one checkout state machine per browser session in
// memory. Entries expire after an idle period and are never persisted.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/credix-checkout/internal/checkout"
	apperrors "github.com/louisbranch/credix-checkout/internal/platform/errors"
)

// ErrNotFound indicates a session id that is unknown or expired.
var ErrNotFound = apperrors.New(apperrors.CodeSessionNotFound, "checkout session not found")

// DefaultIdleTTL is how long an untouched session survives.
const DefaultIdleTTL = 30 * time.Minute

// DefaultMaxSessions caps how many sessions the store holds at once.
const DefaultMaxSessions = 10000

type entry struct {
	machine  *checkout.Machine
	lastSeen time.Time
}

// Store maps session ids to checkout machines. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	cart    checkout.Cart
	ttl     time.Duration
	max     int
	now     func() time.Time
	newID   func() string
	entries map[string]*entry
}

// Option configures a Store.
type Option func(*Store)

// WithIdleTTL overrides DefaultIdleTTL. Non-positive values are ignored.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxSessions overrides DefaultMaxSessions. Non-positive values are
// ignored.
func WithMaxSessions(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.max = n
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the uuid session id generator.
func WithIDGenerator(next func() string) Option {
	return func(s *Store) {
		if next != nil {
			s.newID = next
		}
	}
}

// NewStore builds a store whose new machines check out cart.
func NewStore(cart checkout.Cart, opts ...Option) *Store {
	s := &Store{
		cart:    cart,
		ttl:     DefaultIdleTTL,
		max:     DefaultMaxSessions,
		now:     time.Now,
		newID:   uuid.NewString,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get returns the live machine for id and refreshes its idle timer.
func (s *Store) Get(id string) (*checkout.Machine, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	if s.expired(e, now) {
		delete(s.entries, id)
		return nil, false
	}
	e.lastSeen = now
	return e.machine, true
}

// GetOrCreate returns the machine for id, or a fresh machine under a new id
// when id is unknown or expired. created reports which case applied. A full
// store drops expired sessions first and then the least recently seen one.
func (s *Store) GetOrCreate(id string) (sessionID string, machine *checkout.Machine, created bool) {
	if machine, ok := s.Get(id); ok {
		return strings.TrimSpace(id), machine, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.entries) >= s.max {
		s.makeRoomLocked(now)
	}
	sessionID = s.newID()
	machine = checkout.NewMachine(s.cart)
	s.entries[sessionID] = &entry{machine: machine, lastSeen: now}
	return sessionID, machine, true
}

func (s *Store) makeRoomLocked(now time.Time) {
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
		}
	}
	for len(s.entries) >= s.max {
		oldestID := ""
		var oldest time.Time
		for id, e := range s.entries {
			if oldestID == "" || e.lastSeen.Before(oldest) {
				oldestID, oldest = id, e.lastSeen
			}
		}
		delete(s.entries, oldestID)
	}
}

// Delete drops the session for id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, strings.TrimSpace(id))
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = s.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return now.Sub(e.lastSeen) >= s.ttl
}
