package api

import (
	"net/http"
	"strings"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/auth"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/middleware"
)

const maxClientErrorField = 2000

type FrontendErrorIngestRequest struct {
	RequestID  string         `json:"request_id"`
	Severity   string         `json:"severity"` // WARN|ERROR
	Kind       string         `json:"kind"`
	Message    string         `json:"message"`
	Stack      string         `json:"stack,omitempty"`
	HTTPMethod string         `json:"http_method,omitempty"`
	Path       string         `json:"path,omitempty"`
	Status     *int           `json:"status,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[:n]
	}
	return s
}

// IngestFrontendError registra en el log los errores que reporta el cliente web.
// La sesión es opcional; si existe se anota el usuario.
func (h *Handler) IngestFrontendError(w http.ResponseWriter, r *http.Request) {
	var req FrontendErrorIngestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sev := strings.ToUpper(strings.TrimSpace(req.Severity))
	if sev != "WARN" && sev != "ERROR" {
		writeError(w, http.StatusBadRequest, "severity inválida")
		return
	}
	kind := truncate(req.Kind, 100)
	if kind == "" {
		kind = "FRONTEND_ERROR"
	}
	msg := truncate(req.Message, maxClientErrorField)
	if msg == "" {
		msg = "frontend error"
	}
	rid := truncate(req.RequestID, 100)
	if rid == "" {
		rid = middleware.RequestIDFromContext(r.Context())
	}
	attrs := []any{
		"source", "FRONTEND",
		"kind", kind,
		"request_id", rid,
		"client_path", truncate(req.Path, 500),
		"client_method", strings.ToUpper(truncate(req.HTTPMethod, 10)),
	}
	if req.Status != nil {
		attrs = append(attrs, "client_status", *req.Status)
	}
	if req.Stack != "" {
		attrs = append(attrs, "stack", truncate(req.Stack, maxClientErrorField))
	}
	if len(req.Metadata) > 0 {
		attrs = append(attrs, "metadata", req.Metadata)
	}
	if c := auth.ClaimsFrom(r.Context()); c != nil {
		attrs = append(attrs, "user_id", c.UserID)
	}
	if sev == "ERROR" {
		h.logger().Error(msg, attrs...)
	} else {
		h.logger().Warn(msg, attrs...)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}
