package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/cache"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
)

var consultationProtected = []string{"id", "patient_id", "created_at", "updated_at", "pathology", "pathology_system"}

// ListConsultations filtra por ?patient_id= y ?id=.
func (h *Handler) ListConsultations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repo.ConsultationFilter{PatientID: strings.TrimSpace(q.Get("patient_id"))}
	if s := q.Get("id"); s != "" {
		id, ok := parseUUID(s)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		f.ID = id
	}
	list, err := repo.ListConsultations(r.Context(), h.DB, f)
	if err != nil {
		h.handleDBError(w, r, "list-consultations", err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (h *Handler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	list, err := repo.ListConsultations(r.Context(), h.DB, repo.ConsultationFilter{ID: id})
	if err != nil {
		h.handleDBError(w, r, "get-consultation", err)
		return
	}
	if len(list) == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeData(w, http.StatusOK, list[0])
}

func (h *Handler) CreateConsultation(w http.ResponseWriter, r *http.Request) {
	var c repo.Consultation
	if !decodeJSON(w, r, &c) {
		return
	}
	c.PatientID = strings.TrimSpace(c.PatientID)
	if c.PatientID == "" {
		writeError(w, http.StatusBadRequest, "patient_id es obligatorio")
		return
	}
	c.ID = uuid.Nil
	c.Pathology, c.PathologySystem = nil, nil
	if err := repo.CreateConsultation(r.Context(), h.DB, &c); err != nil {
		h.handleDBError(w, r, "create-consultation", err)
		return
	}
	h.invalidate(r.Context(), cache.PrefixReports)
	writeData(w, http.StatusCreated, c)
}

// UpdateConsultation aplica el cuerpo como merge patch sobre la fila guardada.
func (h *Handler) UpdateConsultation(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBodyRaw(w, r)
	if !ok {
		return
	}
	var key idBody
	_ = json.Unmarshal(raw, &key)
	id, ok := parseUUID(pathOrBodyID(r, key))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	cur, err := repo.ConsultationByID(r.Context(), h.DB, id)
	if err != nil {
		h.handleDBError(w, r, "update-consultation", err)
		return
	}
	var next repo.Consultation
	if err := applyMergePatch(cur, raw, &next, consultationProtected...); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	next.ID, next.PatientID, next.CreatedAt = cur.ID, cur.PatientID, cur.CreatedAt
	next.Pathology, next.PathologySystem = nil, nil
	if err := repo.SaveConsultation(r.Context(), h.DB, &next); err != nil {
		h.handleDBError(w, r, "update-consultation", err)
		return
	}
	writeData(w, http.StatusOK, next)
}

func (h *Handler) DeleteConsultation(w http.ResponseWriter, r *http.Request) {
	var key idBody
	if mux.Vars(r)["id"] == "" {
		_ = json.NewDecoder(r.Body).Decode(&key)
	}
	id, ok := parseUUID(pathOrBodyID(r, key))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := repo.DeleteConsultation(r.Context(), h.DB, id); err != nil {
		h.handleDBError(w, r, "delete-consultation", err)
		return
	}
	h.invalidate(r.Context(), cache.PrefixReports)
	writeData(w, http.StatusOK, map[string]string{"id": id.String()})
}
