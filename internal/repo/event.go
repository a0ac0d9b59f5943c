package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event es una cita en la agenda del consultorio.
type Event struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	IDPatient   string    `gorm:"column:id_patient" json:"id_patient"`
	Title       string    `gorm:"column:title" json:"title"`
	DateTime    time.Time `gorm:"column:date_time" json:"date_time"`
	Time        string    `gorm:"column:time" json:"time"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string { return "event" }

type Notification struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	IDEvent   uuid.UUID `gorm:"column:id_event;type:uuid" json:"id_event"`
	IsRead    bool      `gorm:"column:is_read" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }

type NotificationEvent struct {
	Title       string `gorm:"column:title" json:"title"`
	Description string `gorm:"column:description" json:"description"`
}

// NotificationView es la notificación con título y descripción de su evento.
type NotificationView struct {
	ID        uuid.UUID         `gorm:"column:id" json:"id"`
	IDEvent   uuid.UUID         `gorm:"column:id_event" json:"id_event"`
	IsRead    bool              `gorm:"column:is_read" json:"is_read"`
	CreatedAt time.Time         `gorm:"column:created_at" json:"created_at"`
	Event     NotificationEvent `gorm:"embedded;embeddedPrefix:event_" json:"event"`
}

type EventFilter struct {
	PatientID string
	From      *time.Time
	To        *time.Time // exclusivo
}

func ListEvents(ctx context.Context, db *gorm.DB, f EventFilter) ([]Event, error) {
	q := db.WithContext(ctx).Order("date_time, time")
	if f.PatientID != "" {
		q = q.Where("id_patient = ?", f.PatientID)
	}
	if f.From != nil {
		q = q.Where("date_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date_time < ?", *f.To)
	}
	list := []Event{}
	err := q.Find(&list).Error
	return list, err
}

func EventByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Event, error) {
	var e Event
	if err := db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEventWithNotification inserta el evento y su notificación en una sola transacción.
func CreateEventWithNotification(ctx context.Context, db *gorm.DB, e *Event) (*Notification, error) {
	var n Notification
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		n = Notification{IDEvent: e.ID}
		return tx.Create(&n).Error
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func SaveEvent(ctx context.Context, db *gorm.DB, e *Event) error {
	e.UpdatedAt = time.Now()
	res := db.WithContext(ctx).Model(&Event{}).
		Where("id = ?", e.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func DeleteEvent(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListNotifications devuelve las más recientes primero.
func ListNotifications(ctx context.Context, db *gorm.DB, unreadOnly bool) ([]NotificationView, error) {
	q := `
		SELECT n.id, n.id_event, n.is_read, n.created_at,
		       e.title AS event_title, e.description AS event_description
		FROM notification n
		JOIN event e ON e.id = n.id_event
	`
	if unreadOnly {
		q += ` WHERE n.is_read = false`
	}
	q += ` ORDER BY n.created_at DESC`
	list := []NotificationView{}
	err := db.WithContext(ctx).Raw(q).Scan(&list).Error
	return list, err
}

func SetNotificationRead(ctx context.Context, db *gorm.DB, id uuid.UUID, read bool) error {
	res := db.WithContext(ctx).Model(&Notification{}).Where("id = ?", id).Update("is_read", read)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkAllNotificationsRead devuelve cuántas notificaciones cambiaron.
func MarkAllNotificationsRead(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).Model(&Notification{}).Where("is_read IS DISTINCT FROM true").Update("is_read", true)
	return res.RowsAffected, res.Error
}

// EventReminderRow es un evento del día con los datos de contacto del paciente.
type EventReminderRow struct {
	EventID     uuid.UUID `gorm:"column:event_id"`
	Title       string    `gorm:"column:title"`
	DateTime    time.Time `gorm:"column:date_time"`
	Time        string    `gorm:"column:time"`
	Description string    `gorm:"column:description"`
	PatientID   string    `gorm:"column:patient_id"`
	FirstName   string    `gorm:"column:first_name"`
	LastName    string    `gorm:"column:last_name"`
	Phone       string    `gorm:"column:phone"`
	Email       string    `gorm:"column:email"`
}

// EventsBetween lista eventos con date_time en [from, to).
func EventsBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]EventReminderRow, error) {
	var rows []EventReminderRow
	err := db.WithContext(ctx).Raw(`
		SELECT e.id AS event_id, e.title, e.date_time, e.time, e.description,
		       p.id AS patient_id, p.first_name, p.last_name, p.phone, p.email
		FROM event e
		JOIN patient p ON p.id = e.id_patient
		WHERE e.date_time >= ? AND e.date_time < ?
		ORDER BY e.date_time, e.time
	`, from, to).Scan(&rows).Error
	return rows, err
}
