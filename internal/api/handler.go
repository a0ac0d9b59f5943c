package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/broker"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/cache"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/config"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/pdf"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/storage"
	"gorm.io/gorm"
)

type Handler struct {
	DB        *gorm.DB
	Cfg       *config.Config
	Cache     cache.Store
	Store     storage.ObjectStore
	Publisher broker.Publisher
	PDFGen    *pdf.Generator
	HTTP      *http.Client
	Log       *slog.Logger

	hashPassword           func(string) (string, error)
	sendPasswordResetEmail func(to, resetURL string) error
	now                    func() time.Time
}

func (h *Handler) SetHashPassword(fn func(string) (string, error)) { h.hashPassword = fn }
func (h *Handler) SetSendPasswordResetEmail(fn func(to, resetURL string) error) {
	h.sendPasswordResetEmail = fn
}

func (h *Handler) logger() *slog.Logger {
	if h.Log != nil {
		return h.Log
	}
	return slog.Default()
}

func (h *Handler) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}

func (h *Handler) httpClient() *http.Client {
	if h.HTTP != nil {
		return h.HTTP
	}
	return http.DefaultClient
}

func (h *Handler) store() storage.ObjectStore {
	if h.Store != nil {
		return h.Store
	}
	return storage.Disabled{}
}

func (h *Handler) publisher() broker.Publisher {
	if h.Publisher != nil {
		return h.Publisher
	}
	return broker.Nop{}
}
