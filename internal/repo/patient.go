package repo

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Patient usa la cédula como clave primaria.
type Patient struct {
	ID             string          `gorm:"column:id;primaryKey" json:"id"`
	FirstName      string          `gorm:"column:first_name" json:"first_name"`
	SecondName     string          `gorm:"column:second_name" json:"second_name"`
	LastName       string          `gorm:"column:last_name" json:"last_name"`
	SecondLastName string          `gorm:"column:second_last_name" json:"second_last_name"`
	DOB            *datatypes.Date `gorm:"column:dob;type:date" json:"dob"`
	Charge         string          `gorm:"column:charge" json:"charge"`
	Direction      string          `gorm:"column:direction" json:"direction"`
	Phone          string          `gorm:"column:phone" json:"phone"`
	Email          string          `gorm:"column:email" json:"email"`
	Sex            string          `gorm:"column:sex" json:"sex"`
	Age            *int            `gorm:"column:age" json:"age"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string { return "patient" }

// FullName concatena nombres y apellidos no vacíos.
func (p Patient) FullName() string {
	out := ""
	for _, s := range []string{p.FirstName, p.SecondName, p.LastName, p.SecondLastName} {
		if s == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += s
	}
	return out
}

type PatientFilter struct {
	ID     string
	Limit  int
	Offset int
}

// ListPatients devuelve los pacientes más recientes primero. Si Limit es 0 no se pagina.
func ListPatients(ctx context.Context, db *gorm.DB, f PatientFilter) ([]Patient, error) {
	q := db.WithContext(ctx).Model(&Patient{}).Order("created_at DESC")
	if f.ID != "" {
		q = q.Where("id = ?", f.ID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	list := []Patient{}
	err := q.Find(&list).Error
	return list, err
}

func CountPatients(ctx context.Context, db *gorm.DB, f PatientFilter) (int64, error) {
	q := db.WithContext(ctx).Model(&Patient{})
	if f.ID != "" {
		q = q.Where("id = ?", f.ID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func PatientByID(ctx context.Context, db *gorm.DB, id string) (*Patient, error) {
	var p Patient
	if err := db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func PatientExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&Patient{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func CreatePatient(ctx context.Context, db *gorm.DB, p *Patient) error {
	return db.WithContext(ctx).Create(p).Error
}

// UpdatePatient actualiza solo las columnas de fields. La cédula no se modifica.
func UpdatePatient(ctx context.Context, db *gorm.DB, id string, fields map[string]any) (*Patient, error) {
	delete(fields, "id")
	if len(fields) > 0 {
		res := db.WithContext(ctx).Model(&Patient{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return PatientByID(ctx, db, id)
}

// DeletePatient borra el paciente; consultas, eventos y reposos caen por cascada.
func DeletePatient(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&Patient{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
