package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/config"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/email"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/logger"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/migrate"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/reminder"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Envía los recordatorios de las citas de mañana (REMINDER_DAYS_AHEAD) y termina.
// Pensado para ejecutarse desde cron una vez al día.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Error("database", logger.Err(err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("db.DB", logger.Err(err))
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()
	if err := sqlDB.PingContext(ctx); err != nil {
		log.Error("ping", logger.Err(err))
		os.Exit(1)
	}
	if err := migrate.Run(ctx, db, "migrations"); err != nil {
		log.Error("migrations", logger.Err(err))
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.ReminderTZ)
	if err != nil {
		log.Warn("REMINDER_TZ invalid, using UTC", "tz", cfg.ReminderTZ, logger.Err(err))
		loc = time.UTC
	}
	day := reminder.DayStart(time.Now(), loc, cfg.ReminderDaysAhead)

	senders := reminder.Senders{
		WhatsApp: reminder.DefaultWhatsAppSender(cfg.TwilioAccountSid, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom),
	}
	if cfg.SMTPHost != "" && cfg.SMTPFromEmail != "" {
		senders.Email = &email.Config{
			Host:     cfg.SMTPHost,
			Port:     email.PortFromString(cfg.SMTPPort),
			User:     cfg.SMTPUser,
			Pass:     cfg.SMTPPass,
			FromName: cfg.SMTPFromName,
			FromAddr: cfg.SMTPFromEmail,
		}
	}
	sent, skipped := reminder.SendEventReminders(ctx, db, day, senders, nil)
	log.Info("[reminder] done", "sent", sent, "skipped", skipped, "date", day.Format("2006-01-02"))
}
