package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ReportSource identifica una tabla con created_at que se puede graficar por mes.
type ReportSource string

const (
	SourcePatients      ReportSource = "pacientes"
	SourceConsultations ReportSource = "consultas"
	SourceEvents        ReportSource = "citas"
	SourceRecipes       ReportSource = "reposos"
	SourcePathologies   ReportSource = "patologias"
)

var reportTables = map[ReportSource]string{
	SourcePatients:      "patient",
	SourceConsultations: "consultation",
	SourceEvents:        "event",
	SourceRecipes:       "recipe",
	SourcePathologies:   "pathologies",
}

// ReportSources en el orden en que se exportan.
var ReportSources = []ReportSource{SourcePatients, SourceConsultations, SourceEvents, SourceRecipes, SourcePathologies}

func (s ReportSource) Valid() bool {
	_, ok := reportTables[s]
	return ok
}

// CreatedAtBetween devuelve los created_at de la tabla de s en [from, to).
func CreatedAtBetween(ctx context.Context, db *gorm.DB, s ReportSource, from, to time.Time) ([]time.Time, error) {
	table, ok := reportTables[s]
	if !ok {
		return nil, fmt.Errorf("unknown report source %q", s)
	}
	var out []time.Time
	err := db.WithContext(ctx).Table(table).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at").
		Pluck("created_at", &out).Error
	return out, err
}

type PatientDemographic struct {
	Sex string     `gorm:"column:sex"`
	DOB *time.Time `gorm:"column:dob"`
	Age *int       `gorm:"column:age"`
}

func PatientDemographics(ctx context.Context, db *gorm.DB) ([]PatientDemographic, error) {
	var rows []PatientDemographic
	err := db.WithContext(ctx).Raw(`SELECT sex, dob, age FROM patient`).Scan(&rows).Error
	return rows, err
}
