package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRecipesByPatient_FirstSeenOrder(t *testing.T) {
	list := []Recipe{
		{PatientID: "200", Description: "a"},
		{PatientID: "100", Description: "b"},
		{PatientID: "200", Description: "c"},
		{PatientID: "300", Description: "d"},
	}
	groups := GroupRecipesByPatient(list)
	require.Len(t, groups, 3)
	assert.Equal(t, "200", groups[0].PatientID)
	assert.Equal(t, "100", groups[1].PatientID)
	assert.Equal(t, "300", groups[2].PatientID)
	require.Len(t, groups[0].Reposos, 2)
	assert.Equal(t, "c", groups[0].Reposos[1].Description)
}

func TestGroupRecipesByPatient_Empty(t *testing.T) {
	groups := GroupRecipesByPatient(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestPatientFullName(t *testing.T) {
	p := Patient{FirstName: "Ana", LastName: "Pérez", SecondLastName: "Rojas"}
	assert.Equal(t, "Ana Pérez Rojas", p.FullName())
}

func TestReportSourceValid(t *testing.T) {
	for _, s := range ReportSources {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ReportSource("usuarios").Valid())
}
