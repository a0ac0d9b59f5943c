package report

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
)

// Series es una serie mensual con nombre (pacientes, consultas, ...).
type Series struct {
	Name string
	Data []MonthCount
}

type Workbook struct {
	Year    int
	Monthly []Series
	Sex     []SexCount
	Ages    []RangeCount
}

// WriteXLSX escribe las hojas Mensual, Sexo y Edad.
func WriteXLSX(w io.Writer, wb Workbook) error {
	file := xlsx.NewFile()

	monthly, err := file.AddSheet(fmt.Sprintf("Mensual %d", wb.Year))
	if err != nil {
		return err
	}
	header := monthly.AddRow()
	header.AddCell().SetString("Mes")
	for _, s := range wb.Monthly {
		header.AddCell().SetString(s.Name)
	}
	for m := 0; m < 12; m++ {
		row := monthly.AddRow()
		row.AddCell().SetString(MonthNames[m])
		for _, s := range wb.Monthly {
			n := 0
			if m < len(s.Data) {
				n = s.Data[m].Count
			}
			row.AddCell().SetInt(n)
		}
	}

	sex, err := file.AddSheet("Sexo")
	if err != nil {
		return err
	}
	row := sex.AddRow()
	row.AddCell().SetString("Sexo")
	row.AddCell().SetString("Pacientes")
	for _, c := range wb.Sex {
		row = sex.AddRow()
		row.AddCell().SetString(c.Sex)
		row.AddCell().SetInt(c.Count)
	}

	ages, err := file.AddSheet("Edad")
	if err != nil {
		return err
	}
	row = ages.AddRow()
	row.AddCell().SetString("Rango de edad")
	row.AddCell().SetString("Pacientes")
	for _, c := range wb.Ages {
		row = ages.AddRow()
		row.AddCell().SetString(c.Range)
		row.AddCell().SetInt(c.Count)
	}

	return file.Write(w)
}
