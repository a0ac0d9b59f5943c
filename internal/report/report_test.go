package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestYearRange(t *testing.T) {
	from, to := YearRange(2024, time.UTC)
	assert.Equal(t, date(2024, 1, 1).Add(-12*time.Hour), from)
	assert.Equal(t, date(2025, 1, 1).Add(-12*time.Hour), to)
}

func TestMonthlyBuckets(t *testing.T) {
	ts := []time.Time{
		date(2024, 1, 5), date(2024, 1, 20), date(2024, 3, 1),
		date(2024, 12, 31), date(2023, 12, 31), date(2025, 1, 1),
	}
	got := MonthlyBuckets(ts, 2024, time.UTC)
	require.Len(t, got, 12)
	assert.Equal(t, "enero", got[0].Month)
	assert.Equal(t, "diciembre", got[11].Month)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, 0, got[1].Count)
	assert.Equal(t, 1, got[2].Count)
	assert.Equal(t, 1, got[11].Count)

	sum := 0
	for _, m := range got {
		sum += m.Count
	}
	assert.Equal(t, 4, sum, "only rows inside the year are counted")
}

func TestMonthlyBuckets_Empty(t *testing.T) {
	got := MonthlyBuckets(nil, 2024, time.UTC)
	require.Len(t, got, 12)
	for i, m := range got {
		assert.Equal(t, MonthNames[i], m.Month)
		assert.Zero(t, m.Count)
	}
}

func TestMonthlyBuckets_Location(t *testing.T) {
	caracas := time.FixedZone("VET", -4*3600)
	// 1 de febrero 02:00 UTC es 31 de enero en Caracas.
	got := MonthlyBuckets([]time.Time{time.Date(2024, 2, 1, 2, 0, 0, 0, time.UTC)}, 2024, caracas)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, 0, got[1].Count)
}

func TestCountBySex(t *testing.T) {
	got := CountBySex([]string{"Masculino", "femenino", " FEMENINO ", "", "Otro", "M"})
	assert.Equal(t, []SexCount{{SexMale, 2}, {SexFemale, 2}, {SexOther, 2}}, got)
}

func TestAgeAt(t *testing.T) {
	now := date(2024, 6, 15)
	dob := date(2000, 6, 16)
	age, ok := AgeAt(Person{DOB: &dob}, now)
	require.True(t, ok)
	assert.Equal(t, 23, age, "birthday not reached yet")

	dob = date(2000, 6, 15)
	age, _ = AgeAt(Person{DOB: &dob}, now)
	assert.Equal(t, 24, age)

	stored := 40
	age, ok = AgeAt(Person{Age: &stored}, now)
	require.True(t, ok)
	assert.Equal(t, 40, age)

	_, ok = AgeAt(Person{}, now)
	assert.False(t, ok)
}

func TestCountByAgeRange(t *testing.T) {
	now := date(2024, 6, 15)
	ages := []int{0, 17, 18, 30, 31, 45, 46, 60, 61, 90}
	var people []Person
	for i := range ages {
		people = append(people, Person{Age: &ages[i]})
	}
	people = append(people, Person{})
	got := CountByAgeRange(people, now)
	require.Len(t, got, 5)
	for _, rc := range got {
		assert.Equal(t, 2, rc.Count, rc.Range)
	}
	assert.Equal(t, "61+", got[4].Range)
}

func TestWriteXLSX(t *testing.T) {
	months := MonthlyBuckets([]time.Time{date(2024, 2, 1)}, 2024, time.UTC)
	var buf bytes.Buffer
	err := WriteXLSX(&buf, Workbook{
		Year:    2024,
		Monthly: []Series{{Name: "pacientes", Data: months}},
		Sex:     CountBySex([]string{"Femenino"}),
		Ages:    CountByAgeRange(nil, date(2024, 1, 1)),
	})
	require.NoError(t, err)

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 3)
	monthly := f.Sheets[0]
	assert.Equal(t, "Mensual 2024", monthly.Name)
	require.Len(t, monthly.Rows, 13)
	assert.Equal(t, "pacientes", monthly.Rows[0].Cells[1].Value)
	assert.Equal(t, "febrero", monthly.Rows[2].Cells[0].Value)
	assert.Equal(t, "1", monthly.Rows[2].Cells[1].Value)
	assert.Equal(t, "femenino", f.Sheets[1].Rows[2].Cells[0].Value)
}
