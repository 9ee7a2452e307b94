package session

import (
	"context"
	"log/slog"
	"sync"

	"portaldesa.com/gate/auth"
)

// Status is the session lifecycle state.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
)

// Snapshot is an immutable view of the session handed to readers. Identity
// is nil when no verified identity is known.
type Snapshot struct {
	Status   Status
	Identity *auth.Claims
}

// Store is the process-local cache of the last-known verified identity. All
// mutation funnels through exactly three operations: Init (refresh-on-load),
// Login and Logout. Readers observe it through Snapshot or Subscribe.
//
// Logout is authoritative over any in-flight initialization: a whoami result
// that arrives after a logout is discarded, never resurrected.
type Store struct {
	mu       sync.Mutex
	status   Status
	identity *auth.Claims
	epoch    uint64

	storage Storage
	client  IdentityClient
	logger  *slog.Logger

	subs    map[int]chan Snapshot
	nextSub int
}

// NewStore creates a session store in the loading state.
func NewStore(storage Storage, client IdentityClient, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		status:  StatusLoading,
		storage: storage,
		client:  client,
		logger:  logger,
		subs:    make(map[int]chan Snapshot),
	}
}

// Init re-validates the persisted credential against the backend and settles
// the store into the ready state. Any failure (no credential, rejection,
// timeout via ctx) clears persisted state and leaves identity nil: the
// store fails closed, never open.
func (s *Store) Init(ctx context.Context) {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	credential, ok := s.storage.Credential()
	if !ok {
		s.settle(epoch, nil)
		return
	}

	// Network suspend point; the store is not locked while it waits.
	claims, err := s.client.WhoAmI(ctx, credential)
	if err != nil {
		s.logger.Warn("session re-validation failed", "error", err)
		s.settle(epoch, nil)
		return
	}

	s.settle(epoch, claims)
}

// settle applies an initialization result unless a login or logout has
// superseded it in the meantime.
func (s *Store) settle(epoch uint64, claims *auth.Claims) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		// A terminal operation won the race; its state stands.
		return
	}

	if claims == nil {
		s.storage.Clear()
		s.identity = nil
	} else {
		s.storage.SetIdentity(claims)
		s.identity = claims
	}
	s.status = StatusReady
	s.notifyLocked()
}

// Login installs a freshly issued credential and its identity, persisting
// both.
func (s *Store) Login(credential string, identity *auth.Claims) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.storage.SetCredential(credential)
	s.storage.SetIdentity(identity)
	s.identity = identity
	s.status = StatusReady
	s.notifyLocked()
}

// Logout clears the identity and all persisted state atomically.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.storage.Clear()
	s.identity = nil
	s.status = StatusReady
	s.notifyLocked()
}

// Snapshot returns the current session view.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Status: s.status, Identity: s.identity}
}

// Credential returns the persisted credential, if any.
func (s *Store) Credential() (string, bool) {
	return s.storage.Credential()
}

// Subscribe registers a reader for session changes. The channel holds the
// latest snapshot only; a slow reader sees the newest state, not a backlog.
// The returned cancel function releases the subscription.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	ch <- Snapshot{Status: s.status, Identity: s.identity}
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

// notifyLocked publishes the current state to all subscribers, replacing any
// unread snapshot. Callers hold s.mu.
func (s *Store) notifyLocked() {
	snap := Snapshot{Status: s.status, Identity: s.identity}
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
