//go:build integration

package seed

import (
	"context"
	"testing"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/testutil"
)

func TestIntegration_RunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, url := testutil.OpenDB(ctx)
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	if db == nil {
		t.Fatal("could not open DATABASE_URL")
	}
	if err := testutil.MustMigrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	opts := Options{AdminEmail: "admin@consultorio.test", AdminPassword: "Admin123!"}
	if err := Run(ctx, db, opts); err != nil {
		t.Fatalf("first run: %v", err)
	}
	before, err := repo.ListPathologySystems(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	users, err := repo.CountUsers(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	if err := Run(ctx, db, opts); err != nil {
		t.Fatalf("second run: %v", err)
	}
	after, _ := repo.ListPathologySystems(ctx, db)
	if len(after) != len(before) {
		t.Fatalf("systems grew from %d to %d", len(before), len(after))
	}
	if n, _ := repo.CountUsers(ctx, db); n != users {
		t.Fatalf("users grew from %d to %d", users, n)
	}
}
