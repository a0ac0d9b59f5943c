package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/auth"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
	"gorm.io/gorm"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := auth.UserIDFrom(r.Context())
	if id == uuid.Nil {
		writeError(w, http.StatusUnauthorized, "Usuario no autenticado")
		return
	}
	u, err := repo.UserByID(r.Context(), h.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusInternalServerError, "Perfil no encontrado")
			return
		}
		h.handleDBError(w, r, "get-profile", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

// UpdateProfile actualiza solo las columnas de perfil presentes en el cuerpo.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := auth.UserIDFrom(r.Context())
	if id == uuid.Nil {
		writeError(w, http.StatusUnauthorized, "Usuario no autenticado")
		return
	}
	var body map[string]json.RawMessage
	if !decodeJSON(w, r, &body) {
		return
	}
	fields := map[string]any{}
	for _, col := range repo.ProfileColumns {
		raw, ok := body[col]
		if !ok {
			continue
		}
		var s *string
		if err := json.Unmarshal(raw, &s); err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+col)
			return
		}
		if s == nil || strings.TrimSpace(*s) == "" {
			continue
		}
		fields[col] = strings.TrimSpace(*s)
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "No hay campos para actualizar")
		return
	}
	u, err := repo.UpdateUserProfile(r.Context(), h.DB, id, fields)
	if err != nil {
		h.handleDBError(w, r, "update-profile", err)
		return
	}
	writeData(w, http.StatusOK, u)
}
