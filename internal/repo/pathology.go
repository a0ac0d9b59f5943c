package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type PathologySystem struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PathologySystem) TableName() string { return "pathology_system" }

type Pathology struct {
	ID                int64     `gorm:"column:id;primaryKey" json:"id"`
	Name              string    `gorm:"column:name" json:"name"`
	PathologySystemID int64     `gorm:"column:pathology_system_id" json:"pathology_system_id"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Pathology) TableName() string { return "pathologies" }

func ListPathologySystems(ctx context.Context, db *gorm.DB) ([]PathologySystem, error) {
	list := []PathologySystem{}
	err := db.WithContext(ctx).Order("name").Find(&list).Error
	return list, err
}

func PathologySystemExists(ctx context.Context, db *gorm.DB, id int64) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&PathologySystem{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// PathologySystemByName compara sin distinguir mayúsculas.
func PathologySystemByName(ctx context.Context, db *gorm.DB, name string) (*PathologySystem, error) {
	var s PathologySystem
	if err := db.WithContext(ctx).Where("lower(name) = lower(?)", name).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func CreatePathologySystem(ctx context.Context, db *gorm.DB, s *PathologySystem) error {
	return db.WithContext(ctx).Create(s).Error
}

func CountPathologiesInSystem(ctx context.Context, db *gorm.DB, systemID int64) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&Pathology{}).Where("pathology_system_id = ?", systemID).Count(&n).Error
	return n, err
}

func DeletePathologySystem(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&PathologySystem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListPathologies filtra por sistema cuando systemID > 0.
func ListPathologies(ctx context.Context, db *gorm.DB, systemID int64) ([]Pathology, error) {
	q := db.WithContext(ctx).Order("name")
	if systemID > 0 {
		q = q.Where("pathology_system_id = ?", systemID)
	}
	list := []Pathology{}
	err := q.Find(&list).Error
	return list, err
}

// PathologyByName espera el nombre ya normalizado (trim + minúsculas).
func PathologyByName(ctx context.Context, db *gorm.DB, name string) (*Pathology, error) {
	var p Pathology
	if err := db.WithContext(ctx).Where("lower(name) = ?", name).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func CreatePathology(ctx context.Context, db *gorm.DB, p *Pathology) error {
	return db.WithContext(ctx).Create(p).Error
}

func DeletePathology(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&Pathology{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
