package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/cache"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
	"gorm.io/gorm"
)

const errPatientExists = "El paciente ya existe."

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	f := repo.PatientFilter{ID: strings.TrimSpace(r.URL.Query().Get("id"))}
	limit, offset, paged := ParseLimitOffset(r)
	f.Limit, f.Offset = limit, offset
	list, err := repo.ListPatients(r.Context(), h.DB, f)
	if err != nil {
		h.handleDBError(w, r, "list-patients", err)
		return
	}
	if !paged {
		writeData(w, http.StatusOK, list)
		return
	}
	total, err := repo.CountPatients(r.Context(), h.DB, repo.PatientFilter{ID: f.ID})
	if err != nil {
		h.handleDBError(w, r, "count-patients", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":   list,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	p, err := repo.PatientByID(r.Context(), h.DB, mux.Vars(r)["id"])
	if err != nil {
		h.handleDBError(w, r, "get-patient", err)
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var in PatientInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := in.Validate(true); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	exists, err := repo.PatientExists(r.Context(), h.DB, *in.ID)
	if err != nil {
		h.handleDBError(w, r, "create-patient", err)
		return
	}
	if exists {
		writeError(w, http.StatusBadRequest, errPatientExists)
		return
	}
	p := in.Patient()
	if err := repo.CreatePatient(r.Context(), h.DB, p); err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusBadRequest, errPatientExists)
			return
		}
		h.handleDBError(w, r, "create-patient", err)
		return
	}
	h.invalidate(r.Context(), cache.PrefixReports)
	writeData(w, http.StatusCreated, p)
}

// UpdatePatient acepta la cédula en la ruta o como "cedula" en el cuerpo.
func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBodyRaw(w, r)
	if !ok {
		return
	}
	var in PatientInput
	var key idBody
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}
		_ = json.Unmarshal(raw, &key)
	}
	id := pathOrBodyID(r, key)
	if id == "" {
		writeError(w, http.StatusBadRequest, "La cédula es obligatoria.")
		return
	}
	// la cédula no cambia: lo que venga en el cuerpo solo identifica la fila
	in.ID, in.Cedula = nil, nil
	if err := in.Validate(false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fields := in.Fields()
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "No hay campos para actualizar")
		return
	}
	p, err := repo.UpdatePatient(r.Context(), h.DB, id, fields)
	if err != nil {
		h.handleDBError(w, r, "update-patient", err)
		return
	}
	h.invalidate(r.Context(), cache.PrefixReports)
	writeData(w, http.StatusOK, p)
}

func (h *Handler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	var key idBody
	if mux.Vars(r)["id"] == "" {
		_ = json.NewDecoder(r.Body).Decode(&key)
	}
	id := pathOrBodyID(r, key)
	if id == "" {
		writeError(w, http.StatusBadRequest, "La cédula es obligatoria.")
		return
	}
	if err := repo.DeletePatient(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Paciente no encontrado")
			return
		}
		h.handleDBError(w, r, "delete-patient", err)
		return
	}
	h.invalidate(r.Context(), cache.PrefixReports, cache.PrefixNotifications)
	writeData(w, http.StatusOK, map[string]string{"id": id})
}
