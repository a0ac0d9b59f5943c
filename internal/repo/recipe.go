package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe es un reposo médico almacenado como PDF.
type Recipe struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID      string     `gorm:"column:patient_id" json:"patient_id"`
	ConsultationID *uuid.UUID `gorm:"column:consultation_id;type:uuid" json:"consultation_id"`
	RecipeURL      string     `gorm:"column:recipe_url" json:"recipe_url"`
	StorageKey     string     `gorm:"column:storage_key" json:"-"`
	Description    string     `gorm:"column:description" json:"description"`
	IssueRecipe    string     `gorm:"column:issue_recipe" json:"issue_recipe"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Recipe) TableName() string { return "recipe" }

// ListRecipes filtra por paciente cuando patientID no está vacío.
func ListRecipes(ctx context.Context, db *gorm.DB, patientID string) ([]Recipe, error) {
	q := db.WithContext(ctx).Order("created_at DESC")
	if patientID != "" {
		q = q.Where("patient_id = ?", patientID)
	}
	list := []Recipe{}
	err := q.Find(&list).Error
	return list, err
}

func CreateRecipe(ctx context.Context, db *gorm.DB, r *Recipe) error {
	return db.WithContext(ctx).Create(r).Error
}

// RecipeGroup agrupa los reposos de un paciente.
type RecipeGroup struct {
	PatientID string   `json:"patient_id"`
	Reposos   []Recipe `json:"reposos"`
}

// GroupRecipesByPatient conserva el orden en que aparece cada paciente.
func GroupRecipesByPatient(list []Recipe) []RecipeGroup {
	idx := map[string]int{}
	groups := []RecipeGroup{}
	for _, r := range list {
		i, ok := idx[r.PatientID]
		if !ok {
			i = len(groups)
			idx[r.PatientID] = i
			groups = append(groups, RecipeGroup{PatientID: r.PatientID})
		}
		groups[i].Reposos = append(groups[i].Reposos, r)
	}
	return groups
}
