package api

import (
	"net/http"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/broker"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/cache"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/logger"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
)

// ListNotifications se consulta cada pocos segundos; la respuesta va por caché.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "true"
	key := cache.PrefixNotifications + "all"
	if unreadOnly {
		key = cache.PrefixNotifications + "unread"
	}
	h.cached(w, r, key, func() (any, error) {
		list, err := repo.ListNotifications(r.Context(), h.DB, unreadOnly)
		if err != nil {
			return nil, err
		}
		unread := 0
		for _, n := range list {
			if !n.IsRead {
				unread++
			}
		}
		return map[string]any{"notifications": list, "unread": unread}, nil
	})
}

type notificationUpdate struct {
	ID      string `json:"id"`
	IsRead  *bool  `json:"is_read"`
	MarkAll bool   `json:"markAll"`
}

// UpdateNotifications cambia is_read de una notificación o, con markAll, marca todas como leídas.
func (h *Handler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	var req notificationUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.MarkAll {
		n, err := repo.MarkAllNotificationsRead(r.Context(), h.DB)
		if err != nil {
			h.handleDBError(w, r, "mark-all-read", err)
			return
		}
		h.invalidate(r.Context(), cache.PrefixNotifications)
		m := broker.Message{Type: broker.NotificationsRead, At: h.clock()}
		if err := h.publisher().Publish(r.Context(), m); err != nil {
			h.logger().Warn("[broker] publish failed", "type", m.Type, logger.Err(err))
		}
		writeData(w, http.StatusOK, map[string]int64{"updated": n})
		return
	}
	id, ok := parseUUID(req.ID)
	if !ok || req.IsRead == nil {
		writeError(w, http.StatusBadRequest, "id e is_read son obligatorios")
		return
	}
	if err := repo.SetNotificationRead(r.Context(), h.DB, id, *req.IsRead); err != nil {
		h.handleDBError(w, r, "set-notification-read", err)
		return
	}
	h.invalidate(r.Context(), cache.PrefixNotifications)
	writeData(w, http.StatusOK, map[string]any{"id": id, "is_read": *req.IsRead})
}
