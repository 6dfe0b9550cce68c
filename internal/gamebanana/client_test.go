package gamebanana

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUserName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Core/Item/Data" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("itemid"); got != "1234" {
			t.Errorf("unexpected itemid %q", got)
		}
		w.Write([]byte(`["SomeMapper"]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	name, err := client.UserName(context.Background(), 1234)
	if err != nil {
		t.Fatalf("UserName failed: %v", err)
	}
	if name != "SomeMapper" {
		t.Errorf("expected SomeMapper, got %q", name)
	}
}

func TestUserNameNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// GameBanana answers unknown items with an error object
		w.Write([]byte(`{"error":"Item not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.UserName(context.Background(), 999999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Core/Member/Identify" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("username"); got != "somemapper" {
			t.Errorf("unexpected username %q", got)
		}
		w.Write([]byte(`[1234]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	id, err := client.UserID(context.Background(), "somemapper")
	if err != nil {
		t.Fatalf("UserID failed: %v", err)
	}
	if id != 1234 {
		t.Errorf("expected 1234, got %d", id)
	}
}

func TestUserIDNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[0]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.UserID(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServerErrorIsLookupError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.UserName(context.Background(), 1234)

	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected LookupError, got %v", err)
	}
	if lookupErr.Op != "UserName" {
		t.Errorf("expected op UserName, got %q", lookupErr.Op)
	}
}

func TestHTTPNotFoundIsErrNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.UserID(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
