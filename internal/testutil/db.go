package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB conecta a DATABASE_URL. Devuelve (nil, "") si la variable no está
// definida y (nil, url) si la base no responde, para que el test decida entre
// Skip y Fatal.
func OpenDB(ctx context.Context) (*gorm.DB, string) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, ""
	}
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, url
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return nil, url
	}
	return db, url
}

// MustMigrate aplica migrations/ buscando el directorio hacia arriba desde el
// directorio del paquete bajo prueba.
func MustMigrate(ctx context.Context, db *gorm.DB) error {
	dir, err := MigrationsDir()
	if err != nil {
		return err
	}
	return migrate.Run(ctx, db, dir)
}

func MigrationsDir() (string, error) {
	cur, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(cur, "migrations")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", errors.New("migrations dir not found")
		}
		cur = parent
	}
}
