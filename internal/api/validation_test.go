package api

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func TestValidateEmailRegex(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"a+b@b.com.ve", true},
		{"", false},
		{"   ", false},
		{"a@", false},
		{"@b.com", false},
		{"a@b", false},
		{"a b@c.com", false},
	}
	for _, c := range cases {
		err := ValidateEmailRegex(c.in)
		if (err == nil) != c.want {
			t.Fatalf("email=%q wantOk=%v gotErr=%v", c.in, c.want, err)
		}
	}
}

func validPatient() PatientInput {
	return PatientInput{
		ID:        strp("12345678"),
		FirstName: strp("José"),
		LastName:  strp("Núñez"),
		DOB:       strp("1990-05-10"),
		Phone:     strp("+584121234567"),
		Email:     strp("jose@correo.com"),
		Sex:       strp("Masculino"),
	}
}

func TestPatientInput_ValidCreate(t *testing.T) {
	in := validPatient()
	if err := in.Validate(true); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestPatientInput_Rules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PatientInput)
	}{
		{"cedula con letras", func(p *PatientInput) { p.ID = strp("12a45") }},
		{"nombre con números", func(p *PatientInput) { p.FirstName = strp("Jose2") }},
		{"apellido materno con números", func(p *PatientInput) { p.SecondLastName = strp("R0jas") }},
		{"teléfono sin +58", func(p *PatientInput) { p.Phone = strp("04121234567") }},
		{"teléfono con guiones", func(p *PatientInput) { p.Phone = strp("+58412-123") }},
		{"email inválido", func(p *PatientInput) { p.Email = strp("jose@") }},
		{"edad negativa", func(p *PatientInput) { p.Age = intp(-1) }},
		{"sexo desconocido", func(p *PatientInput) { p.Sex = strp("xyz") }},
		{"dob inválida", func(p *PatientInput) { p.DOB = strp("10/05/1990") }},
		{"sin dob", func(p *PatientInput) { p.DOB = nil }},
		{"sin cédula", func(p *PatientInput) { p.ID = nil }},
	}
	for _, c := range cases {
		in := validPatient()
		c.mutate(&in)
		if err := in.Validate(true); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestPatientInput_UpdateAllowsPartial(t *testing.T) {
	in := PatientInput{Direction: strp("Caracas")}
	if err := in.Validate(false); err != nil {
		t.Fatalf("partial update: %v", err)
	}
	f := in.Fields()
	if len(f) != 1 || f["direction"] != "Caracas" {
		t.Fatalf("fields = %v", f)
	}
}

func TestPatientInput_LegacyFirstNameAndCedula(t *testing.T) {
	in := PatientInput{Cedula: strp(" 999 "), FirtsName: strp("Ana"), LastName: strp("Paz"), DOB: strp("2001-01-02T00:00:00.000Z")}
	if err := in.Validate(true); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	p := in.Patient()
	if p.ID != "999" || p.FirstName != "Ana" {
		t.Fatalf("patient = %+v", p)
	}
	if p.DOB == nil || time.Time(*p.DOB).Format("2006-01-02") != "2001-01-02" {
		t.Fatalf("dob = %v", p.DOB)
	}
	if p.Sex != "otro" {
		t.Errorf("empty sex must be stored as otro, got %q", p.Sex)
	}
}

func TestPatientInput_FieldsNormalizeSex(t *testing.T) {
	in := PatientInput{Sex: strp("Femenino"), Age: intp(30), DOB: strp("1994-03-01")}
	if err := in.Validate(false); err != nil {
		t.Fatal(err)
	}
	f := in.Fields()
	if f["sex"] != "femenino" {
		t.Errorf("sex = %v", f["sex"])
	}
	if f["age"] != 30 {
		t.Errorf("age = %v", f["age"])
	}
	if _, ok := f["dob"].(datatypes.Date); !ok {
		t.Errorf("dob type = %T", f["dob"])
	}
	if _, ok := f["id"]; ok {
		t.Error("fields must never include id")
	}
}
