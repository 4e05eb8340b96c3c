package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"xtra-telemetry/internal/domain"
	"xtra-telemetry/internal/logger"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewSqliteDB(filepath.Join(t.TempDir(), "telemetry.db"), logger.Discard())
	if err != nil {
		t.Fatalf("NewSqliteDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := runMigrations(db); err != nil {
		t.Errorf("second runMigrations: %v", err)
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	if _, err := repo.GetUserByEmail(ctx, "nobody@localhost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetUserByEmail() error = %v, want ErrUserNotFound", err)
	}

	user := &domain.User{Email: "admin@localhost", Password: "hash-1"}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 {
		t.Error("CreateUser did not set ID")
	}

	dup := &domain.User{Email: "admin@localhost", Password: "x"}
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, domain.ErrEmailAlreadyExists) {
		t.Errorf("duplicate CreateUser() error = %v", err)
	}

	if err := repo.UpdatePassword(ctx, user.ID, "hash-2"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
	if err := repo.UpdatePassword(ctx, 999, "hash-3"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("UpdatePassword(missing) error = %v", err)
	}

	got, err := repo.GetUserByEmail(ctx, "admin@localhost")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.Password != "hash-2" {
		t.Errorf("Password = %q, want hash-2", got.Password)
	}
}

func TestCurrentSampleRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCurrentSampleRepository(openTestDB(t))

	empty, err := repo.Latest(ctx, 10)
	if err != nil || len(empty) != 0 || empty == nil {
		t.Fatalf("Latest() on empty table = %v, %v", empty, err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range 5 {
		s := &domain.CurrentSample{
			CurrentMA:  -100 * (i + 1),
			Charging:   i == 4,
			RecordedAt: base.Add(time.Duration(i) * 5 * time.Second),
		}
		if err := repo.Insert(ctx, s); err != nil {
			t.Fatalf("Insert #%d: %v", i, err)
		}
	}

	latest, err := repo.Latest(ctx, 2)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("Latest(2) returned %d samples", len(latest))
	}
	if latest[0].CurrentMA != -400 || latest[1].CurrentMA != -500 || !latest[1].Charging {
		t.Errorf("Latest(2) = %+v", latest)
	}
	if !latest[1].RecordedAt.Equal(base.Add(20 * time.Second)) {
		t.Errorf("RecordedAt = %v", latest[1].RecordedAt)
	}

	removed, err := repo.Trim(ctx, 3)
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if removed != 2 {
		t.Errorf("Trim(3) removed %d, want 2", removed)
	}

	rest, _ := repo.Latest(ctx, 10)
	if len(rest) != 3 || rest[0].CurrentMA != -300 {
		t.Errorf("after Trim = %+v", rest)
	}
}
