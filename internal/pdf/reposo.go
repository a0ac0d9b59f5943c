package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

// ReposoDoc son los datos impresos en un reposo médico.
type ReposoDoc struct {
	ClinicName  string
	PatientName string
	PatientID   string
	IssueText   string
	Description string
	IssuedAt    time.Time
	// VerifyURL, si no está vacío, se imprime como QR al pie.
	VerifyURL string
}

var meses = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// FechaLarga formatea t como "2 de marzo de 2024".
func FechaLarga(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), meses[t.Month()-1], t.Year())
}

// BuildReposoPDF genera el reposo en A4 con fuentes core (los acentos se traducen a cp1252).
func BuildReposoPDF(doc ReposoDoc) ([]byte, error) {
	if doc.IssuedAt.IsZero() {
		doc.IssuedAt = time.Now()
	}
	if doc.ClinicName == "" {
		doc.ClinicName = "Consultorio Médico IUTEPAL"
	}
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Reposo médico"), false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(doc.ClinicName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, tr("REPOSO MÉDICO"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr("Paciente: "+doc.PatientName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Cédula: "+doc.PatientID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Fecha de emisión: "+FechaLarga(doc.IssuedAt)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, tr("Indicación"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(doc.IssueText), "", "J", false)
	if doc.Description != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 5, tr(doc.Description), "", "L", false)
	}

	pdf.Ln(24)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "______________________________", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr("Firma y sello del médico"), "", 1, "C", false, 0, "")

	if doc.VerifyURL != "" {
		qrPNG, err := qrcode.Encode(doc.VerifyURL, qrcode.Medium, 128)
		if err != nil {
			return nil, fmt.Errorf("qr: %w", err)
		}
		pdf.Ln(8)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
		pdf.ImageOptions("qr", 20, pdf.GetY(), 28, 28, false, opts, 0, "")
		pdf.SetY(pdf.GetY() + 30)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 5, doc.VerifyURL, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
