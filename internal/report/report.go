// Package report agrupa registros para los gráficos del dashboard.
package report

import (
	"strings"
	"time"
)

var MonthNames = [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// YearRange devuelve [1 de enero, 1 de enero del año siguiente) en loc.
func YearRange(year int, loc *time.Location) (from, to time.Time) {
	from = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(1, 0, 0)
}

// MonthlyBuckets siempre devuelve 12 entradas en orden de calendario.
// Las fechas fuera del año se ignoran.
func MonthlyBuckets(ts []time.Time, year int, loc *time.Location) []MonthCount {
	out := make([]MonthCount, 12)
	for i := range out {
		out[i].Month = MonthNames[i]
	}
	for _, t := range ts {
		t = t.In(loc)
		if t.Year() != year {
			continue
		}
		out[t.Month()-1].Count++
	}
	return out
}

const (
	SexMale   = "masculino"
	SexFemale = "femenino"
	SexOther  = "otro"
)

type SexCount struct {
	Sex   string `json:"sex"`
	Count int    `json:"count"`
}

// NormalizeSex lleva las variantes del formulario a masculino, femenino u otro.
func NormalizeSex(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "masculino", "hombre":
		return SexMale
	case "f", "femenino", "mujer":
		return SexFemale
	default:
		return SexOther
	}
}

func CountBySex(sexes []string) []SexCount {
	out := []SexCount{{Sex: SexMale}, {Sex: SexFemale}, {Sex: SexOther}}
	for _, s := range sexes {
		switch NormalizeSex(s) {
		case SexMale:
			out[0].Count++
		case SexFemale:
			out[1].Count++
		default:
			out[2].Count++
		}
	}
	return out
}

type AgeRange struct {
	Label string
	Min   int
	Max   int // -1 sin tope
}

var AgeRanges = []AgeRange{
	{"0-17", 0, 17},
	{"18-30", 18, 30},
	{"31-45", 31, 45},
	{"46-60", 46, 60},
	{"61+", 61, -1},
}

type RangeCount struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Person es lo mínimo para calcular la edad.
type Person struct {
	DOB *time.Time
	Age *int
}

// AgeAt calcula años cumplidos desde dob; sin dob usa la edad guardada.
func AgeAt(p Person, now time.Time) (int, bool) {
	if p.DOB != nil && !p.DOB.IsZero() {
		dob := *p.DOB
		age := now.Year() - dob.Year()
		if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
			age--
		}
		if age < 0 {
			return 0, false
		}
		return age, true
	}
	if p.Age != nil && *p.Age >= 0 {
		return *p.Age, true
	}
	return 0, false
}

// CountByAgeRange omite a quien no tiene dob ni edad.
func CountByAgeRange(people []Person, now time.Time) []RangeCount {
	out := make([]RangeCount, len(AgeRanges))
	for i, r := range AgeRanges {
		out[i].Range = r.Label
	}
	for _, p := range people {
		age, ok := AgeAt(p, now)
		if !ok {
			continue
		}
		for i, r := range AgeRanges {
			if age >= r.Min && (r.Max < 0 || age <= r.Max) {
				out[i].Count++
				break
			}
		}
	}
	return out
}
