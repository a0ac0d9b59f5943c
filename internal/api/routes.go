package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/middleware"
)

// Register monta las rutas /api sobre r. Todo salvo /api/auth y /api/errors exige sesión.
func Register(r *mux.Router, h *Handler) {
	public := r.PathPrefix("/api/auth").Subrouter()
	public.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	public.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
	public.HandleFunc("/recover-password", h.RecoverPassword).Methods(http.MethodPost)
	public.HandleFunc("/reset-password", h.ResetPassword).Methods(http.MethodPost)
	r.Handle("/api/errors/frontend", middleware.OptionalAuthMiddleware(h.Cfg.JWTSecret)(http.HandlerFunc(h.IngestFrontendError))).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.RequireAuthMiddleware(h.Cfg.JWTSecret))

	protected.HandleFunc("/usuario", h.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/usuario", h.UpdateProfile).Methods(http.MethodPut)

	protected.HandleFunc("/pacientes", h.ListPatients).Methods(http.MethodGet)
	protected.HandleFunc("/pacientes", h.CreatePatient).Methods(http.MethodPost)
	protected.HandleFunc("/pacientes", h.UpdatePatient).Methods(http.MethodPut)
	protected.HandleFunc("/pacientes", h.DeletePatient).Methods(http.MethodDelete)
	protected.HandleFunc("/pacientes/{id}", h.GetPatient).Methods(http.MethodGet)
	protected.HandleFunc("/pacientes/{id}", h.UpdatePatient).Methods(http.MethodPut)
	protected.HandleFunc("/pacientes/{id}", h.DeletePatient).Methods(http.MethodDelete)

	protected.HandleFunc("/consultas", h.ListConsultations).Methods(http.MethodGet)
	protected.HandleFunc("/consultas", h.CreateConsultation).Methods(http.MethodPost)
	protected.HandleFunc("/consultas", h.UpdateConsultation).Methods(http.MethodPut)
	protected.HandleFunc("/consultas", h.DeleteConsultation).Methods(http.MethodDelete)
	protected.HandleFunc("/consultas/{id}", h.GetConsultation).Methods(http.MethodGet)
	protected.HandleFunc("/consultas/{id}", h.UpdateConsultation).Methods(http.MethodPut)
	protected.HandleFunc("/consultas/{id}", h.DeleteConsultation).Methods(http.MethodDelete)

	protected.HandleFunc("/eventos", h.ListEvents).Methods(http.MethodGet)
	protected.HandleFunc("/eventos", h.CreateEvent).Methods(http.MethodPost)
	protected.HandleFunc("/eventos", h.UpdateEvent).Methods(http.MethodPut)
	protected.HandleFunc("/eventos", h.DeleteEvent).Methods(http.MethodDelete)
	protected.HandleFunc("/eventos/{id}", h.UpdateEvent).Methods(http.MethodPut)
	protected.HandleFunc("/eventos/{id}", h.DeleteEvent).Methods(http.MethodDelete)

	protected.HandleFunc("/notificaciones", h.ListNotifications).Methods(http.MethodGet)
	protected.HandleFunc("/notificaciones", h.UpdateNotifications).Methods(http.MethodPut)

	protected.HandleFunc("/patologias", h.ListPathologies).Methods(http.MethodGet)
	protected.HandleFunc("/patologias", h.CreatePathology).Methods(http.MethodPost)
	protected.HandleFunc("/patologias", h.DeletePathology).Methods(http.MethodDelete)
	protected.HandleFunc("/patologias/{id}", h.DeletePathology).Methods(http.MethodDelete)

	protected.HandleFunc("/sistema", h.ListPathologySystems).Methods(http.MethodGet)
	protected.HandleFunc("/sistema", h.CreatePathologySystem).Methods(http.MethodPost)
	protected.HandleFunc("/sistema/{id}", h.DeletePathologySystem).Methods(http.MethodDelete)

	protected.HandleFunc("/reposos", h.ListReposos).Methods(http.MethodGet)
	protected.HandleFunc("/reposos", h.UploadReposo).Methods(http.MethodPost)
	protected.HandleFunc("/reposos/crear", h.CreateReposo).Methods(http.MethodPost)

	protected.HandleFunc("/reportes/export", h.ExportReports).Methods(http.MethodGet)
	protected.HandleFunc("/reportes/pacientes/sexo", h.SexReport).Methods(http.MethodGet)
	protected.HandleFunc("/reportes/pacientes/rango-edad", h.AgeRangeReport).Methods(http.MethodGet)
	protected.HandleFunc("/reportes/{source}", h.MonthlyReport).Methods(http.MethodGet)
}
