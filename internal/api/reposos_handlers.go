package api

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strings"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/cache"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/logger"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/pdf"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/storage"
)

const (
	maxUploadBytes  = 10 << 20
	clinicName      = "Consultorio Médico IUTEPAL"
	errReposoPDF    = "Error downloading or uploading PDF"
	errNoFile       = "No file uploaded"
	errStorageUnset = "storage not configured"
)

type urlBuilder interface {
	URL(key string) string
}

// ListReposos devuelve los reposos, opcionalmente de un paciente; ?group=patient agrupa por paciente.
func (h *Handler) ListReposos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := repo.ListRecipes(r.Context(), h.DB, strings.TrimSpace(q.Get("patient_id")))
	if err != nil {
		h.handleDBError(w, r, "list-reposos", err)
		return
	}
	if q.Get("group") == "patient" {
		writeData(w, http.StatusOK, repo.GroupRecipesByPatient(list))
		return
	}
	writeData(w, http.StatusOK, list)
}

// storeRecipe guarda la fila; si falla borra el objeto ya subido. Los errores de
// inserción, incluidas las restricciones de Postgres, se responden con 500.
func (h *Handler) storeRecipe(ctx context.Context, rec *repo.Recipe) error {
	if err := repo.CreateRecipe(ctx, h.DB, rec); err != nil {
		if derr := h.store().Delete(ctx, rec.StorageKey); derr != nil {
			h.logger().Warn("[reposos] cleanup object", "key", rec.StorageKey, logger.Err(derr))
		}
		return err
	}
	h.invalidate(ctx, cache.PrefixReports)
	return nil
}

// UploadReposo recibe un archivo multipart (campo file) y lo guarda en el bucket.
func (h *Handler) UploadReposo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		writeError(w, http.StatusBadRequest, errNoFile)
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, errNoFile)
		return
	}
	defer file.Close()
	patientID := strings.TrimSpace(r.FormValue("patient_id"))
	if patientID == "" {
		writeError(w, http.StatusBadRequest, "patient_id es obligatorio")
		return
	}
	body, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, errNoFile)
		return
	}
	if len(body) > maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	rec := &repo.Recipe{PatientID: patientID, Description: r.FormValue("description")}
	if s := r.FormValue("consultation_id"); s != "" {
		id, ok := parseUUID(s)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid consultation_id")
			return
		}
		rec.ConsultationID = &id
	}
	contentType := hdr.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	rec.StorageKey = storage.UploadKey(hdr.Filename)
	url, err := h.store().Put(r.Context(), rec.StorageKey, contentType, body)
	if err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			writeError(w, http.StatusServiceUnavailable, errStorageUnset)
			return
		}
		h.logger().Error("[reposos] upload", "key", rec.StorageKey, logger.Err(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rec.RecipeURL = url
	if err := h.storeRecipe(r.Context(), rec); err != nil {
		h.logger().Error("[reposos] insert", "key", rec.StorageKey, "patient_id", patientID, logger.Err(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type createReposoRequest struct {
	PatientID      string `json:"patient_id"`
	IssueRecipe    string `json:"issue_recipe"`
	PDFURL         string `json:"pdf_url"`
	Description    string `json:"description"`
	ConsultationID string `json:"consultation_id"`
}

// reposoPDF obtiene el documento: pdf_url del cliente, generador remoto o render local.
func (h *Handler) reposoPDF(ctx context.Context, req createReposoRequest, key string) ([]byte, error) {
	maxBytes := int64(maxUploadBytes)
	if h.Cfg != nil && h.Cfg.PDFMaxDownloadBytes > 0 {
		maxBytes = h.Cfg.PDFMaxDownloadBytes
	}
	if req.PDFURL != "" {
		return pdf.Fetch(ctx, h.httpClient(), req.PDFURL, maxBytes)
	}
	p, err := repo.PatientByID(ctx, h.DB, req.PatientID)
	if err != nil {
		return nil, err
	}
	patientName := p.FullName()
	now := h.clock()
	if h.PDFGen.Enabled() {
		fileURL, err := h.PDFGen.Create(ctx, map[string]any{
			"patient_name": patientName,
			"patient_id":   req.PatientID,
			"issue_recipe": req.IssueRecipe,
			"description":  req.Description,
			"date":         pdf.FechaLarga(now),
		}, key[strings.LastIndex(key, "/")+1:])
		if err != nil {
			return nil, err
		}
		return pdf.Fetch(ctx, h.httpClient(), fileURL, maxBytes)
	}
	doc := pdf.ReposoDoc{
		ClinicName:  clinicName,
		PatientName: patientName,
		PatientID:   req.PatientID,
		IssueText:   req.IssueRecipe,
		Description: req.Description,
		IssuedAt:    now,
	}
	if u, ok := h.store().(urlBuilder); ok {
		doc.VerifyURL = u.URL(key)
	}
	return pdf.BuildReposoPDF(doc)
}

// CreateReposo genera o descarga el PDF del reposo, lo sube al bucket y guarda la fila.
func (h *Handler) CreateReposo(w http.ResponseWriter, r *http.Request) {
	var req createReposoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.PatientID = strings.TrimSpace(req.PatientID)
	req.PDFURL = strings.TrimSpace(req.PDFURL)
	if req.PatientID == "" {
		writeError(w, http.StatusBadRequest, "patient_id es obligatorio")
		return
	}
	if _, disabled := h.store().(storage.Disabled); disabled {
		writeError(w, http.StatusServiceUnavailable, errStorageUnset)
		return
	}
	rec := &repo.Recipe{PatientID: req.PatientID, IssueRecipe: req.IssueRecipe, Description: req.Description}
	if req.ConsultationID != "" {
		id, ok := parseUUID(req.ConsultationID)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid consultation_id")
			return
		}
		rec.ConsultationID = &id
	}
	rec.StorageKey = storage.GeneratedKey(req.PatientID, rand.Intn(1000000))
	log := h.logger().With("patient_id", req.PatientID, "key", rec.StorageKey)
	body, err := h.reposoPDF(r.Context(), req, rec.StorageKey)
	if err != nil {
		log.Error("[reposos] obtain pdf", logger.Err(err))
		writeError(w, http.StatusInternalServerError, errReposoPDF)
		return
	}
	url, err := h.store().Put(r.Context(), rec.StorageKey, "application/pdf", body)
	if err != nil {
		log.Error("[reposos] upload pdf", logger.Err(err))
		writeError(w, http.StatusInternalServerError, errReposoPDF)
		return
	}
	rec.RecipeURL = url
	if err := h.storeRecipe(r.Context(), rec); err != nil {
		log.Error("[reposos] insert", logger.Err(err))
		writeError(w, http.StatusInternalServerError, errReposoPDF)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
