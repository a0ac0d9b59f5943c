//go:build integration

package repo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/testutil"
	"gorm.io/gorm"
)

// openDBForRepoTest exige DATABASE_URL. Ejecutar: go test -tags integration ./internal/repo
func openDBForRepoTest(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func randomCedula() string {
	return fmt.Sprintf("9%08d", rand.Intn(100000000))
}

func TestIntegration_PatientLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openDBForRepoTest(t)

	id := randomCedula()
	p := &Patient{ID: id, FirstName: "Luis", LastName: "Gómez", Sex: "Masculino"}
	if err := CreatePatient(ctx, db, p); err != nil {
		t.Fatalf("CreatePatient: %v", err)
	}
	got, err := PatientByID(ctx, db, id)
	if err != nil {
		t.Fatalf("PatientByID: %v", err)
	}
	if got.FirstName != "Luis" {
		t.Errorf("FirstName = %q", got.FirstName)
	}

	upd, err := UpdatePatient(ctx, db, id, map[string]any{"direction": "Caracas"})
	if err != nil {
		t.Fatalf("UpdatePatient: %v", err)
	}
	if upd.Direction != "Caracas" {
		t.Errorf("update not visible: %q", upd.Direction)
	}

	ev := &Event{IDPatient: id, Title: "Control", DateTime: time.Now().Add(24 * time.Hour), Time: "09:00"}
	n, err := CreateEventWithNotification(ctx, db, ev)
	if err != nil {
		t.Fatalf("CreateEventWithNotification: %v", err)
	}
	if n.IDEvent != ev.ID {
		t.Errorf("notification must reference the event")
	}

	if err := DeletePatient(ctx, db, id); err != nil {
		t.Fatalf("DeletePatient: %v", err)
	}
	list, err := ListPatients(ctx, db, PatientFilter{ID: id})
	if err != nil {
		t.Fatalf("ListPatients: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("deleted patient must not be listed")
	}
	if _, err := EventByID(ctx, db, ev.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("event must be removed with its patient, got %v", err)
	}
	if err := DeletePatient(ctx, db, id); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("second delete: want ErrRecordNotFound, got %v", err)
	}
}

func TestIntegration_PathologyNameUnique(t *testing.T) {
	ctx := context.Background()
	db := openDBForRepoTest(t)

	sys := &PathologySystem{Name: fmt.Sprintf("Sistema prueba %d", time.Now().UnixNano())}
	if err := CreatePathologySystem(ctx, db, sys); err != nil {
		t.Fatalf("CreatePathologySystem: %v", err)
	}
	name := fmt.Sprintf("gripe-%d", time.Now().UnixNano())
	if err := CreatePathology(ctx, db, &Pathology{Name: name, PathologySystemID: sys.ID}); err != nil {
		t.Fatalf("CreatePathology: %v", err)
	}
	if _, err := PathologyByName(ctx, db, name); err != nil {
		t.Fatalf("PathologyByName: %v", err)
	}
	err := CreatePathology(ctx, db, &Pathology{Name: "GRIPE" + name[5:], PathologySystemID: sys.ID})
	if err == nil {
		t.Fatal("unique index must reject a case-insensitive duplicate")
	}
}
