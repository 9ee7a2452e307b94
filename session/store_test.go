package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"portaldesa.com/gate/auth"
)

// fakeIdentityClient lets tests script the whoami round-trip, including
// blocking it to race against logout.
type fakeIdentityClient struct {
	claims  *auth.Claims
	err     error
	release chan struct{} // when set, WhoAmI blocks until closed or ctx done
}

func (f *fakeIdentityClient) WhoAmI(ctx context.Context, credential string) (*auth.Claims, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func testIdentity() *auth.Claims {
	return &auth.Claims{
		UserID:   "user123",
		Username: "siti",
		Email:    "siti@example.com",
		Role:     "editor",
	}
}

func TestStoreStartsLoading(t *testing.T) {
	store := NewStore(NewMemoryStorage(), &fakeIdentityClient{}, nil)
	if snap := store.Snapshot(); snap.Status != StatusLoading {
		t.Errorf("initial status = %v; want loading", snap.Status)
	}
}

func TestInitWithoutCredential(t *testing.T) {
	store := NewStore(NewMemoryStorage(), &fakeIdentityClient{claims: testIdentity()}, nil)

	store.Init(context.Background())

	snap := store.Snapshot()
	if snap.Status != StatusReady || snap.Identity != nil {
		t.Errorf("snapshot = %+v; want ready with nil identity", snap)
	}
}

func TestInitRevalidatesPersistedCredential(t *testing.T) {
	storage := NewMemoryStorage()
	storage.SetCredential("persisted-token")
	store := NewStore(storage, &fakeIdentityClient{claims: testIdentity()}, nil)

	store.Init(context.Background())

	snap := store.Snapshot()
	if snap.Status != StatusReady || snap.Identity == nil {
		t.Fatalf("snapshot = %+v; want ready with identity", snap)
	}
	if snap.Identity.UserID != "user123" {
		t.Errorf("identity = %+v", snap.Identity)
	}
	if identity, ok := storage.Identity(); !ok || identity.UserID != "user123" {
		t.Error("identity record was not persisted")
	}
}

func TestInitFailureClearsState(t *testing.T) {
	storage := NewMemoryStorage()
	storage.SetCredential("rejected-token")
	store := NewStore(storage, &fakeIdentityClient{err: fmt.Errorf("401")}, nil)

	store.Init(context.Background())

	snap := store.Snapshot()
	if snap.Status != StatusReady || snap.Identity != nil {
		t.Errorf("snapshot = %+v; want fail-closed ready/nil", snap)
	}
	if _, ok := storage.Credential(); ok {
		t.Error("rejected credential should have been cleared")
	}
}

func TestInitTimeoutFailsClosed(t *testing.T) {
	storage := NewMemoryStorage()
	storage.SetCredential("slow-token")
	client := &fakeIdentityClient{claims: testIdentity(), release: make(chan struct{})}
	store := NewStore(storage, client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	store.Init(ctx)

	snap := store.Snapshot()
	if snap.Status != StatusReady || snap.Identity != nil {
		t.Errorf("snapshot after timeout = %+v; want ready with nil identity", snap)
	}
}

func TestLogoutSupersedesInFlightInit(t *testing.T) {
	storage := NewMemoryStorage()
	storage.SetCredential("persisted-token")
	client := &fakeIdentityClient{claims: testIdentity(), release: make(chan struct{})}
	store := NewStore(storage, client, nil)

	done := make(chan struct{})
	go func() {
		store.Init(context.Background())
		close(done)
	}()

	// Logout while the whoami round-trip is still pending, then let the
	// stale success arrive.
	store.Logout()
	close(client.release)
	<-done

	snap := store.Snapshot()
	if snap.Identity != nil {
		t.Error("a whoami result arriving after logout must not resurrect identity")
	}
	if _, ok := storage.Credential(); ok {
		t.Error("logout must leave persisted state cleared")
	}
}

func TestLoginLogoutLifecycle(t *testing.T) {
	storage := NewMemoryStorage()
	store := NewStore(storage, &fakeIdentityClient{}, nil)

	store.Login("fresh-token", testIdentity())
	snap := store.Snapshot()
	if snap.Status != StatusReady || snap.Identity == nil {
		t.Fatalf("after login: %+v", snap)
	}
	if cred, ok := store.Credential(); !ok || cred != "fresh-token" {
		t.Errorf("credential = (%q, %v); want persisted fresh-token", cred, ok)
	}

	store.Logout()
	snap = store.Snapshot()
	if snap.Identity != nil {
		t.Error("identity should be nil after logout")
	}
	if _, ok := store.Credential(); ok {
		t.Error("credential should be cleared after logout")
	}
	if _, ok := storage.Identity(); ok {
		t.Error("identity record should be cleared with the credential")
	}
}

func TestSubscribeObservesChanges(t *testing.T) {
	store := NewStore(NewMemoryStorage(), &fakeIdentityClient{}, nil)

	ch, cancel := store.Subscribe()
	defer cancel()

	// The subscription starts with the current state.
	if snap := <-ch; snap.Status != StatusLoading {
		t.Errorf("first snapshot = %+v; want loading", snap)
	}

	store.Login("fresh-token", testIdentity())
	if snap := <-ch; snap.Identity == nil {
		t.Error("login snapshot should carry the identity")
	}

	store.Logout()
	if snap := <-ch; snap.Identity != nil {
		t.Error("logout snapshot should have nil identity")
	}
}

func TestSubscribeKeepsLatestOnly(t *testing.T) {
	store := NewStore(NewMemoryStorage(), &fakeIdentityClient{}, nil)

	ch, cancel := store.Subscribe()
	defer cancel()

	// Two mutations without a read in between: the reader sees the newest
	// state, not a backlog.
	store.Login("fresh-token", testIdentity())
	store.Logout()

	if snap := <-ch; snap.Status != StatusReady || snap.Identity != nil {
		t.Errorf("stale snapshot delivered: %+v", snap)
	}
}
