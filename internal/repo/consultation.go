package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Consultation struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID          string    `gorm:"column:patient_id" json:"patient_id"`
	Height             *float64  `gorm:"column:height" json:"height"`
	Weight             *float64  `gorm:"column:weight" json:"weight"`
	BloodType          string    `gorm:"column:blood_type" json:"blood_type"`
	Temperature        *float64  `gorm:"column:temperature" json:"temperature"`
	PathologyID        *int64    `gorm:"column:pathology_id" json:"pathology_id"`
	PathologySystemID  *int64    `gorm:"column:pathology_system_id" json:"pathology_system_id"`
	ReasonConsultation string    `gorm:"column:reason_consultation" json:"reason_consultation"`
	Diagnosis          string    `gorm:"column:diagnosis" json:"diagnosis"`
	MedicalHistory     bool      `gorm:"column:medical_history" json:"medical_history"`
	Smoke              bool      `gorm:"column:smoke" json:"smoke"`
	Drink              bool      `gorm:"column:drink" json:"drink"`
	Allergic           bool      `gorm:"column:allergic" json:"allergic"`
	Discapacity        bool      `gorm:"column:discapacity" json:"discapacity"`
	RecipeURL          string    `gorm:"column:recipe_url" json:"recipe_url"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Pathology       *Pathology       `gorm:"foreignKey:PathologyID" json:"pathology,omitempty"`
	PathologySystem *PathologySystem `gorm:"foreignKey:PathologySystemID" json:"pathology_system,omitempty"`
}

func (Consultation) TableName() string { return "consultation" }

type ConsultationFilter struct {
	PatientID string
	ID        uuid.UUID
}

// ListConsultations incluye nombre de patología y sistema.
func ListConsultations(ctx context.Context, db *gorm.DB, f ConsultationFilter) ([]Consultation, error) {
	q := db.WithContext(ctx).
		Preload("Pathology").
		Preload("PathologySystem").
		Order("created_at DESC")
	if f.PatientID != "" {
		q = q.Where("patient_id = ?", f.PatientID)
	}
	if f.ID != uuid.Nil {
		q = q.Where("id = ?", f.ID)
	}
	list := []Consultation{}
	err := q.Find(&list).Error
	return list, err
}

// ConsultationByID devuelve la fila sin asociaciones.
func ConsultationByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Consultation, error) {
	var c Consultation
	if err := db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func CreateConsultation(ctx context.Context, db *gorm.DB, c *Consultation) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

// SaveConsultation escribe todas las columnas editables de c.
func SaveConsultation(ctx context.Context, db *gorm.DB, c *Consultation) error {
	c.UpdatedAt = time.Now()
	res := db.WithContext(ctx).Model(&Consultation{}).
		Where("id = ?", c.ID).
		Select("*").
		Omit("id", "patient_id", "created_at", clause.Associations).
		Updates(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func DeleteConsultation(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&Consultation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
