package credentials

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/database"
	_ "github.com/nerrad567/irrigation-dashboard/migrations" // registers embedded migrations
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "creds.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewSQLiteStore(db.DB)
}

func TestConnectionConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ConnectionConfig
		wantErr bool
		missing string
	}{
		{"complete", ConnectionConfig{"broker.example.com", "alice", "pw"}, false, ""},
		{"no host", ConnectionConfig{"", "alice", "pw"}, true, "host"},
		{"blank host", ConnectionConfig{"   ", "alice", "pw"}, true, "host"},
		{"no username", ConnectionConfig{"h", "", "pw"}, true, "username"},
		{"no password", ConnectionConfig{"h", "alice", ""}, true, "password"},
		{"all empty", ConnectionConfig{}, true, "host, username, password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, ErrConfigInvalid) {
				t.Errorf("error %v is not ErrConfigInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q does not name %q", err, tt.missing)
			}
		})
	}
}

func TestConnectionConfigStringHidesPassword(t *testing.T) {
	s := ConnectionConfig{Host: "h", Username: "u", Password: "hunter2"}.String()
	if strings.Contains(s, "hunter2") {
		t.Errorf("String() = %q leaks the password", s)
	}
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"sqlite": func(t *testing.T) Store { return openStore(t) },
		"memory": func(*testing.T) Store { return NewMemoryStore() },
	}

	for name, open := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := open(t)

			if _, err := store.Load(ctx); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Load() on empty store error = %v, want ErrNotFound", err)
			}

			cfg := ConnectionConfig{Host: " broker.example.com ", Username: "alice", Password: " pw "}
			if err := store.Save(ctx, cfg); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			got, err := store.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			want := ConnectionConfig{Host: "broker.example.com", Username: "alice", Password: " pw "}
			if got != want {
				t.Errorf("Load() = %+v, want %+v", got, want)
			}

			replaced := ConnectionConfig{Host: "other", Username: "bob", Password: "x"}
			if err := store.Save(ctx, replaced); err != nil {
				t.Fatalf("Save() replace error = %v", err)
			}
			if got, _ := store.Load(ctx); got != replaced {
				t.Errorf("Load() after replace = %+v, want %+v", got, replaced)
			}

			if err := store.Save(ctx, ConnectionConfig{Host: "h"}); !errors.Is(err, ErrConfigInvalid) {
				t.Errorf("Save(invalid) error = %v, want ErrConfigInvalid", err)
			}
			if got, _ := store.Load(ctx); got != replaced {
				t.Errorf("invalid Save changed stored config to %+v", got)
			}

			if err := store.Clear(ctx); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			if err := store.Clear(ctx); err != nil {
				t.Fatalf("second Clear() error = %v", err)
			}
			if _, err := store.Load(ctx); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load() after Clear error = %v, want ErrNotFound", err)
			}
		})
	}
}
