package seed

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/auth"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
	"gorm.io/gorm"
)

// DefaultSystems son los sistemas del cuerpo con los que arranca el catálogo de patologías.
var DefaultSystems = []string{
	"Cardiovascular",
	"Respiratorio",
	"Digestivo",
	"Nervioso",
	"Musculoesquelético",
	"Endocrino",
	"Urinario",
	"Tegumentario",
	"Inmunológico",
	"Reproductor",
}

type Options struct {
	AdminEmail    string
	AdminPassword string
}

// Run crea el usuario administrador si no hay usuarios y los sistemas por defecto
// si el catálogo está vacío. Es idempotente.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	if err := seedAdmin(ctx, db, opts); err != nil {
		return err
	}
	return seedSystems(ctx, db)
}

func seedAdmin(ctx context.Context, db *gorm.DB, opts Options) error {
	email := strings.TrimSpace(opts.AdminEmail)
	if email == "" || opts.AdminPassword == "" {
		return nil
	}
	n, err := repo.CountUsers(ctx, db)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return err
	}
	u := &repo.User{Email: email, PasswordHash: hash, Username: "admin", Name: "Administrador"}
	if err := repo.CreateUser(ctx, db, u); err != nil {
		return err
	}
	slog.Info("[seed] admin user created", "email", u.Email)
	return nil
}

func seedSystems(ctx context.Context, db *gorm.DB) error {
	existing, err := repo.ListPathologySystems(ctx, db)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, name := range DefaultSystems {
		if err := repo.CreatePathologySystem(ctx, db, &repo.PathologySystem{Name: name}); err != nil {
			return err
		}
	}
	slog.Info("[seed] pathology systems created", "count", len(DefaultSystems))
	return nil
}
