package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/whatsapp"
	"gorm.io/gorm"
)

// WhatsAppSender sends a reminder to a phone number.
type WhatsAppSender interface {
	SendReminder(ctx context.Context, phone, patientName, title, dateStr, timeStr string) error
}

// EmailSender se usa cuando el paciente no tiene teléfono o WhatsApp falla.
type EmailSender interface {
	SendEventReminder(to, name, title string, date time.Time, hour, description string) error
}

// EventLister returns the events of a day. Tests use a mock; nil means repo.EventsBetween.
type EventLister interface {
	EventsBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]repo.EventReminderRow, error)
}

type Senders struct {
	WhatsApp WhatsAppSender
	Email    EmailSender
}

type repoLister struct{}

func (repoLister) EventsBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]repo.EventReminderRow, error) {
	return repo.EventsBetween(ctx, db, from, to)
}

// DayStart devuelve la medianoche de hoy+daysAhead en loc.
func DayStart(now time.Time, loc *time.Location, daysAhead int) time.Time {
	now = now.In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, daysAhead)
}

// SendEventReminders carga los eventos del día que empieza en day y envía un recordatorio
// por evento: WhatsApp al teléfono del paciente, o correo si no hay teléfono o WhatsApp falla.
// Los fallos por destinatario se registran y no detienen el resto.
func SendEventReminders(ctx context.Context, db *gorm.DB, day time.Time, s Senders, lister EventLister) (sent int, skipped int) {
	if lister == nil {
		if db == nil {
			slog.Warn("[reminder] db is nil and no lister, skipping")
			return 0, 0
		}
		lister = repoLister{}
	}
	rows, err := lister.EventsBetween(ctx, db, day, day.AddDate(0, 0, 1))
	if err != nil {
		slog.Error("[reminder] EventsBetween", "error", err)
		return 0, 0
	}
	if s.WhatsApp == nil && s.Email == nil {
		slog.Warn("[reminder] no senders configured", "pending", len(rows))
		return 0, len(rows)
	}
	dateStr := day.Format("02/01/2006")
	for _, r := range rows {
		name := r.FirstName
		if r.LastName != "" {
			name += " " + r.LastName
		}
		log := slog.With("event_id", r.EventID, "patient_id", r.PatientID)
		if s.WhatsApp != nil && r.Phone != "" {
			err := s.WhatsApp.SendReminder(ctx, r.Phone, name, r.Title, dateStr, r.Time)
			if err == nil {
				sent++
				log.Info("[reminder] whatsapp sent")
				continue
			}
			log.Warn("[reminder] whatsapp failed", "error", err)
		}
		if s.Email != nil && r.Email != "" {
			if err := s.Email.SendEventReminder(r.Email, name, r.Title, day, r.Time, r.Description); err != nil {
				log.Warn("[reminder] email failed", "error", err)
				skipped++
				continue
			}
			sent++
			log.Info("[reminder] email sent")
			continue
		}
		skipped++
	}
	return sent, skipped
}

// DefaultWhatsAppSender returns a whatsapp.Client from the given config, or nil if not configured.
func DefaultWhatsAppSender(accountSid, authToken, from string) WhatsAppSender {
	if accountSid == "" || authToken == "" || from == "" {
		return nil
	}
	return whatsapp.NewClient(whatsapp.Config{
		AccountSid: accountSid,
		AuthToken:  authToken,
		From:       from,
	})
}
