// Package dbtest provides a migrated in-memory SQLite database for tests.
package dbtest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"sportmeet/core/database"

	"github.com/google/uuid"
)

var counter atomic.Int64

// New returns a fresh, migrated in-memory database that is closed when the
// test ends.
func New(t testing.TB) database.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:sportmeet_test_%d?mode=memory&cache=shared", counter.Add(1))
	db, err := database.OpenSQLite(dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// User is a seeded row in the users table.
type User struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string
}

// SeedUser inserts a user with the given name and role and returns it.
func SeedUser(t testing.TB, db database.Database, name, role string) User {
	t.Helper()

	u := User{
		ID:    uuid.New(),
		Name:  name,
		Email: fmt.Sprintf("%s-%d@example.com", name, counter.Add(1)),
		Role:  role,
	}
	now := time.Now().UTC()
	err := db.ExecContext(context.Background(),
		db.Rebind(`INSERT INTO users (id, name, email, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
		u.ID, u.Name, u.Email, u.Role, now, now)
	if err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}
