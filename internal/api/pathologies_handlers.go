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

const (
	errPathologyRequired = "El nombre de la patología y el ID del sistema de patologías son obligatorios."
	errPathologyExists   = "La patología ya existe."
	errPathologyID       = "El ID de la patología es obligatorio."
	errSystemExists      = "El sistema ya existe."
	errSystemNotFound    = "El sistema de patologías no existe."
	errSystemInUse       = "El sistema tiene patologías asociadas."
)

func (h *Handler) ListPathologies(w http.ResponseWriter, r *http.Request) {
	var systemID int64
	if s := r.URL.Query().Get("system_id"); s != "" {
		id, ok := parseInt64(s)
		if !ok {
			writeError(w, http.StatusBadRequest, "El ID del sistema de patología debe ser un número.")
			return
		}
		systemID = id
	}
	list, err := repo.ListPathologies(r.Context(), h.DB, systemID)
	if err != nil {
		h.handleDBError(w, r, "list-pathologies", err)
		return
	}
	writeData(w, http.StatusOK, list)
}

type pathologyInput struct {
	Name              string      `json:"name"`
	PathologySystemID json.Number `json:"pathology_system_id"`
}

// NormalizePathologyName es la forma en que se guarda y compara el nombre.
func NormalizePathologyName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (h *Handler) CreatePathology(w http.ResponseWriter, r *http.Request) {
	var in pathologyInput
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	name := NormalizePathologyName(in.Name)
	systemID, ok := parseInt64(in.PathologySystemID.String())
	if name == "" || !ok {
		writeError(w, http.StatusBadRequest, errPathologyRequired)
		return
	}
	if _, err := repo.PathologyByName(r.Context(), h.DB, name); err == nil {
		writeError(w, http.StatusBadRequest, errPathologyExists)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.handleDBError(w, r, "create-pathology", err)
		return
	}
	exists, err := repo.PathologySystemExists(r.Context(), h.DB, systemID)
	if err != nil {
		h.handleDBError(w, r, "create-pathology", err)
		return
	}
	if !exists {
		writeError(w, http.StatusBadRequest, errSystemNotFound)
		return
	}
	p := &repo.Pathology{Name: name, PathologySystemID: systemID}
	if err := repo.CreatePathology(r.Context(), h.DB, p); err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusBadRequest, errPathologyExists)
			return
		}
		h.handleDBError(w, r, "create-pathology", err)
		return
	}
	h.invalidate(r.Context(), cache.PrefixReports)
	writeData(w, http.StatusCreated, p)
}

func (h *Handler) DeletePathology(w http.ResponseWriter, r *http.Request) {
	var key idBody
	if mux.Vars(r)["id"] == "" {
		_ = json.NewDecoder(r.Body).Decode(&key)
	}
	id, ok := parseInt64(pathOrBodyID(r, key))
	if !ok {
		writeError(w, http.StatusBadRequest, errPathologyID)
		return
	}
	if err := repo.DeletePathology(r.Context(), h.DB, id); err != nil {
		h.handleDBError(w, r, "delete-pathology", err)
		return
	}
	h.invalidate(r.Context(), cache.PrefixReports)
	writeData(w, http.StatusOK, map[string]int64{"id": id})
}

func (h *Handler) ListPathologySystems(w http.ResponseWriter, r *http.Request) {
	list, err := repo.ListPathologySystems(r.Context(), h.DB)
	if err != nil {
		h.handleDBError(w, r, "list-systems", err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (h *Handler) CreatePathologySystem(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "El nombre del sistema es obligatorio.")
		return
	}
	if _, err := repo.PathologySystemByName(r.Context(), h.DB, name); err == nil {
		writeError(w, http.StatusBadRequest, errSystemExists)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.handleDBError(w, r, "create-system", err)
		return
	}
	s := &repo.PathologySystem{Name: name}
	if err := repo.CreatePathologySystem(r.Context(), h.DB, s); err != nil {
		if isUniqueViolation(err) {
			writeError(w, http.StatusBadRequest, errSystemExists)
			return
		}
		h.handleDBError(w, r, "create-system", err)
		return
	}
	writeData(w, http.StatusCreated, s)
}

func (h *Handler) DeletePathologySystem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseInt64(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	n, err := repo.CountPathologiesInSystem(r.Context(), h.DB, id)
	if err != nil {
		h.handleDBError(w, r, "delete-system", err)
		return
	}
	if n > 0 {
		writeError(w, http.StatusBadRequest, errSystemInUse)
		return
	}
	if err := repo.DeletePathologySystem(r.Context(), h.DB, id); err != nil {
		h.handleDBError(w, r, "delete-system", err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"id": id})
}
