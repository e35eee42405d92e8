package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClientListEntities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/registry/entities" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"entity_id":"light.office","id":"e1","name":"Office Light"}]`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "secret", 0)
	entities, err := client.ListEntities(context.Background())
	if err != nil {
		t.Fatalf("ListEntities() error: %v", err)
	}
	if len(entities) != 1 || entities[0].ID != "light.office" || entities[0].StableID != "e1" {
		t.Errorf("entities = %+v", entities)
	}
}

func TestHTTPClientListUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // immediately, so the address refuses connections

	client := NewHTTPClient(srv.URL, "", 0)
	_, err := client.ListEntities(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("ListEntities() error = %v, want ErrUnavailable", err)
	}
}

func TestHTTPClientRenameStatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantErr   error
		transient bool
	}{
		{"success", http.StatusOK, nil, false},
		{"old identifier gone", http.StatusNotFound, ErrPreconditionFailed, false},
		{"new identifier taken", http.StatusConflict, ErrPreconditionFailed, false},
		{"server overloaded", http.StatusServiceUnavailable, ErrTransient, true},
		{"rate limited", http.StatusTooManyRequests, ErrTransient, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := NewHTTPClient(srv.URL, "", 0)
			err := client.RenameEntity(context.Background(), "light.office", "office.light.main")

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("RenameEntity() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RenameEntity() error = %v, want %v", err, tt.wantErr)
			}
			if IsTransient(err) != tt.transient {
				t.Errorf("IsTransient() = %v, want %v", IsTransient(err), tt.transient)
			}
		})
	}
}

func TestHTTPClientSetLabelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, "", 0)
	err := client.SetLabel(context.Background(), "light.gone", LabelRenamed)
	if !errors.Is(err, ErrEntityNotFound) {
		t.Errorf("SetLabel() error = %v, want ErrEntityNotFound", err)
	}
}
