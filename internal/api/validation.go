package api

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/report"
	"gorm.io/datatypes"
)

var (
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cedulaRegex = regexp.MustCompile(`^\d+$`)
	nameRegex   = regexp.MustCompile(`^[\p{L}\s]+$`)
	phoneRegex  = regexp.MustCompile(`^\+58\d+$`)
	hourRegex   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

var (
	ErrInvalidEmail  = errors.New("El correo electrónico no es válido.")
	ErrInvalidCedula = errors.New("La cédula no debe contener letras.")
	ErrInvalidPhone  = errors.New("El teléfono celular debe comenzar con +58 y no debe contener caracteres.")
	ErrInvalidAge    = errors.New("La edad no debe contener letras o caracteres.")
	ErrInvalidSex    = errors.New("El sexo debe ser masculino, femenino u otro.")
	ErrInvalidDOB    = errors.New("La fecha de nacimiento no es válida.")
	ErrDOBRequired   = errors.New("La fecha de Nacimiento es requerida.")
)

// ValidateEmailRegex valida el formato del correo.
func ValidateEmailRegex(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// PatientInput es el cuerpo de alta o edición de un paciente. Campos nil no se tocan.
type PatientInput struct {
	ID             *string `json:"id"`
	FirstName      *string `json:"first_name"`
	FirtsName      *string `json:"firts_name"` // nombre de campo del formulario web
	SecondName     *string `json:"second_name"`
	LastName       *string `json:"last_name"`
	SecondLastName *string `json:"second_last_name"`
	DOB            *string `json:"dob"`
	Charge         *string `json:"charge"`
	Direction      *string `json:"direction"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Sex            *string `json:"sex"`
	Age            *int    `json:"age"`
	Cedula         *string `json:"cedula"`
}

var nameFields = []struct {
	label string
	get   func(*PatientInput) *string
}{
	{"El nombre", func(p *PatientInput) *string { return p.FirstName }},
	{"El segundo nombre", func(p *PatientInput) *string { return p.SecondName }},
	{"El apellido paterno", func(p *PatientInput) *string { return p.LastName }},
	{"El apellido materno", func(p *PatientInput) *string { return p.SecondLastName }},
}

func (in *PatientInput) normalize() {
	if in.FirstName == nil && in.FirtsName != nil {
		in.FirstName = in.FirtsName
	}
	for _, p := range []*string{in.ID, in.Cedula, in.FirstName, in.SecondName, in.LastName, in.SecondLastName, in.DOB, in.Phone, in.Email, in.Sex} {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	if in.ID == nil && in.Cedula != nil {
		in.ID = in.Cedula
	}
}

// Validate aplica las reglas del formulario. create exige cédula, nombre, apellido y dob.
func (in *PatientInput) Validate(create bool) error {
	in.normalize()
	if create {
		if in.ID == nil || *in.ID == "" {
			return errors.New("La cédula es obligatoria.")
		}
		if in.FirstName == nil || *in.FirstName == "" || in.LastName == nil || *in.LastName == "" {
			return errors.New("El nombre y el apellido son obligatorios.")
		}
		if in.DOB == nil || *in.DOB == "" {
			return ErrDOBRequired
		}
	}
	if in.ID != nil && !cedulaRegex.MatchString(*in.ID) {
		return ErrInvalidCedula
	}
	for _, f := range nameFields {
		v := f.get(in)
		if v != nil && *v != "" && !nameRegex.MatchString(*v) {
			return errors.New(f.label + " no debe contener números.")
		}
	}
	if in.Phone != nil && *in.Phone != "" && !phoneRegex.MatchString(*in.Phone) {
		return ErrInvalidPhone
	}
	if in.Email != nil && *in.Email != "" {
		if err := ValidateEmailRegex(*in.Email); err != nil {
			return err
		}
	}
	if in.Age != nil && *in.Age < 0 {
		return ErrInvalidAge
	}
	if in.Sex != nil && *in.Sex != "" && report.NormalizeSex(*in.Sex) == report.SexOther && !strings.EqualFold(*in.Sex, report.SexOther) {
		return ErrInvalidSex
	}
	if in.DOB != nil && *in.DOB != "" {
		if _, err := parseDate(*in.DOB); err != nil {
			return ErrInvalidDOB
		}
	}
	return nil
}

// parseDate acepta YYYY-MM-DD o un timestamp RFC 3339 (lo que envía el selector de fecha).
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func normalizeSex(s string) string {
	if s == "" {
		return report.SexOther
	}
	return report.NormalizeSex(s)
}

// Patient arma la fila para el alta. Llamar después de Validate(true).
func (in *PatientInput) Patient() *repo.Patient {
	p := &repo.Patient{ID: *in.ID}
	for col, v := range in.Fields() {
		switch col {
		case "first_name":
			p.FirstName = v.(string)
		case "second_name":
			p.SecondName = v.(string)
		case "last_name":
			p.LastName = v.(string)
		case "second_last_name":
			p.SecondLastName = v.(string)
		case "dob":
			d := v.(datatypes.Date)
			p.DOB = &d
		case "charge":
			p.Charge = v.(string)
		case "direction":
			p.Direction = v.(string)
		case "phone":
			p.Phone = v.(string)
		case "email":
			p.Email = v.(string)
		case "sex":
			p.Sex = v.(string)
		case "age":
			a := v.(int)
			p.Age = &a
		}
	}
	if p.Sex == "" {
		p.Sex = report.SexOther
	}
	return p
}

// Fields devuelve las columnas presentes para un UPDATE parcial. Nunca incluye id.
func (in *PatientInput) Fields() map[string]any {
	m := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			m[col] = *v
		}
	}
	set("first_name", in.FirstName)
	set("second_name", in.SecondName)
	set("last_name", in.LastName)
	set("second_last_name", in.SecondLastName)
	set("charge", in.Charge)
	set("direction", in.Direction)
	set("phone", in.Phone)
	set("email", in.Email)
	if in.Sex != nil {
		m["sex"] = normalizeSex(*in.Sex)
	}
	if in.Age != nil {
		m["age"] = *in.Age
	}
	if in.DOB != nil && *in.DOB != "" {
		if t, err := parseDate(*in.DOB); err == nil {
			m["dob"] = datatypes.Date(t)
		}
	}
	return m
}
