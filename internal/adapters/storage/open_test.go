package storage

import (
	"context"
	"path/filepath"
	"testing"

	"meditrack/internal/adapters/storage/remote"
)

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	mem, err := Open(ctx, Config{}, nil)
	if err != nil || mem.Driver != DriverMemory || mem.Medicines == nil || mem.Notifications == nil {
		t.Fatalf("expected memory stores, got %#v err=%v", mem, err)
	}
	if err := mem.Close(); err != nil {
		t.Fatalf("Close on memory must be a no-op, got %v", err)
	}

	lite, err := Open(ctx, Config{Driver: "SQLite", SQLitePath: filepath.Join(t.TempDir(), "m.db")}, nil)
	if err != nil || lite.Driver != DriverSQLite {
		t.Fatalf("expected sqlite stores, got err=%v", err)
	}
	_ = lite.Close()

	rem, err := Open(ctx, Config{Driver: "remote", Remote: remote.Config{BaseURL: "http://localhost:8080/api"}}, nil)
	if err != nil || rem.Driver != DriverRemote || rem.Notifications == nil {
		t.Fatalf("expected remote stores, got err=%v", err)
	}

	if _, err := Open(ctx, Config{Driver: "mongo"}, nil); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	if _, err := Open(ctx, Config{Driver: "remote"}, nil); err == nil {
		t.Fatalf("expected error for remote without base url")
	}
}
