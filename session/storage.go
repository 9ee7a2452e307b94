package session

import (
	"encoding/json"
	"sync"

	"portaldesa.com/gate/auth"
)

// Storage persists the client's credential and its last-known identity
// record. Clear removes both in one call so the pair can never get out of
// step across a logout.
type Storage interface {
	Credential() (string, bool)
	SetCredential(token string) error
	Identity() (*auth.Claims, bool)
	SetIdentity(claims *auth.Claims) error
	Clear() error
}

// MemoryStorage is the in-process Storage used by tests and by embedders
// that supply their own persistence elsewhere. The identity is held in
// serialized form, matching what a durable implementation would store.
type MemoryStorage struct {
	mu         sync.Mutex
	credential string
	identity   []byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Credential() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credential, m.credential != ""
}

func (m *MemoryStorage) SetCredential(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = token
	return nil
}

func (m *MemoryStorage) Identity() (*auth.Claims, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil, false
	}
	claims := &auth.Claims{}
	if err := json.Unmarshal(m.identity, claims); err != nil {
		return nil, false
	}
	return claims, true
}

func (m *MemoryStorage) SetIdentity(claims *auth.Claims) error {
	data, err := json.Marshal(claims)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = data
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = ""
	m.identity = nil
	return nil
}
