package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/logger"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/middleware"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"data": v})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON lee el cuerpo en dst; responde 400 si no es JSON válido.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return false
	}
	return true
}

// handleDBError traduce errores de gorm/postgres: fila inexistente 404, restricción 400, resto 500.
func (h *Handler) handleDBError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusGatewayTimeout, "timeout")
		return
	}
	log := h.logger().With("op", op, "path", r.URL.Path, "request_id", middleware.RequestIDFromContext(r.Context()))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		log.Warn("[db] constraint", "pg_code", pgErr.Code, "pg_message", pgErr.Message, "pg_detail", pgErr.Detail)
		writeError(w, http.StatusBadRequest, pgErr.Message)
		return
	}
	log.Error("[db] failed", logger.Err(err))
	writeError(w, http.StatusInternalServerError, "internal")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// cached sirve el cuerpo guardado en key o lo calcula con build y lo guarda.
func (h *Handler) cached(w http.ResponseWriter, r *http.Request, key string, build func() (any, error)) {
	if h.Cache != nil {
		if b, ok := h.Cache.Get(r.Context(), key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			_, _ = w.Write(b)
			return
		}
	}
	v, err := build()
	if err != nil {
		h.handleDBError(w, r, key, err)
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	b = append(b, '\n')
	if h.Cache != nil {
		h.Cache.Set(r.Context(), key, b)
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func (h *Handler) invalidate(ctx context.Context, prefixes ...string) {
	if h.Cache == nil {
		return
	}
	for _, p := range prefixes {
		h.Cache.DeletePrefix(ctx, p)
	}
}
