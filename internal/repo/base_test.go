package repo

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestConn(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return conn
}

func TestBaseDBBindsContext(t *testing.T) {
	conn := openTestConn(t)
	base := NewBase(conn)

	ctx := context.WithValue(context.Background(), struct{}{}, "marker")
	bound := base.DB(ctx)

	if bound == nil || bound.Statement == nil {
		t.Fatal("expected statement-bound handle")
	}
	if bound.Statement.Context != ctx {
		t.Fatalf("context did not flow through, got %v", bound.Statement.Context)
	}
}

func TestBaseDBNilContextReturnsRawHandle(t *testing.T) {
	conn := openTestConn(t)
	base := NewBase(conn)

	if base.DB(nil) != conn {
		t.Fatal("expected raw connection for nil context")
	}
}
