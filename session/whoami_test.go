package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPIdentityClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/whoami" {
			t.Errorf("path = %q; want /auth/whoami", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user_id":"user123","username":"siti","email":"siti@example.com","role":"editor"}`))
	}))
	defer server.Close()

	client := NewHTTPIdentityClient(server.URL, nil)

	claims, err := client.WhoAmI(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("WhoAmI: %v", err)
	}
	if claims.UserID != "user123" || claims.Role != "editor" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := client.WhoAmI(context.Background(), "bad-token"); err == nil {
		t.Error("rejected credential should surface as an error")
	}
}

func TestHTTPIdentityClientHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewHTTPIdentityClient(server.URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.WhoAmI(ctx, "any"); err == nil {
		t.Error("cancelled context should fail the round-trip")
	}
}

var _ IdentityClient = (*HTTPIdentityClient)(nil)
