package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/broker"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/cache"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/logger"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
)

var eventProtected = []string{"id", "created_at", "updated_at"}

const publishTimeout = 2 * time.Second

type eventInput struct {
	IDPatient   string `json:"id_patient"`
	Title       string `json:"title"`
	DateTime    string `json:"date_time"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

// parseDateTime acepta RFC 3339 o solo fecha (YYYY-MM-DD): esta última es la
// medianoche en loc, la zona del consultorio, igual que la ventana del recordatorio.
func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}

func (in *eventInput) event(loc *time.Location) (*repo.Event, error) {
	in.IDPatient = strings.TrimSpace(in.IDPatient)
	in.Title = strings.TrimSpace(in.Title)
	in.Time = strings.TrimSpace(in.Time)
	if in.IDPatient == "" || in.Title == "" || in.DateTime == "" || in.Time == "" {
		return nil, errors.New("id_patient, title, date_time y time son obligatorios")
	}
	if !hourRegex.MatchString(in.Time) {
		return nil, errors.New("time debe tener el formato HH:MM")
	}
	dt, err := parseDateTime(in.DateTime, loc)
	if err != nil {
		return nil, errors.New("date_time no es una fecha válida")
	}
	return &repo.Event{
		IDPatient:   in.IDPatient,
		Title:       in.Title,
		DateTime:    dt,
		Time:        in.Time,
		Description: in.Description,
	}, nil
}

// publishEvent no usa el contexto de la petición: la cancelación del cliente no
// debe descartar el mensaje y un broker lento no retiene la respuesta más de publishTimeout.
func (h *Handler) publishEvent(ctx context.Context, typ string, e *repo.Event) {
	m := broker.Message{Type: typ, EventID: e.ID.String(), PatientID: e.IDPatient, At: h.clock()}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := h.publisher().Publish(ctx, m); err != nil {
		h.logger().Warn("[broker] publish failed", "type", typ, "event_id", m.EventID, logger.Err(err))
	}
}

// ListEvents filtra por ?id_patient= y por rango de fechas ?from=&to= (ambas
// inclusive, días del consultorio).
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	loc := h.location()
	f := repo.EventFilter{PatientID: strings.TrimSpace(q.Get("id_patient"))}
	if s := q.Get("from"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from debe tener el formato YYYY-MM-DD")
			return
		}
		f.From = &t
	}
	if s := q.Get("to"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to debe tener el formato YYYY-MM-DD")
			return
		}
		t = t.AddDate(0, 0, 1)
		f.To = &t
	}
	list, err := repo.ListEvents(r.Context(), h.DB, f)
	if err != nil {
		h.handleDBError(w, r, "list-events", err)
		return
	}
	writeData(w, http.StatusOK, list)
}

// CreateEvent ignora el id del cliente y crea el evento con su notificación.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in eventInput
	if !decodeJSON(w, r, &in) {
		return
	}
	e, err := in.event(h.location())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := repo.CreateEventWithNotification(r.Context(), h.DB, e)
	if err != nil {
		h.handleDBError(w, r, "create-event", err)
		return
	}
	h.invalidate(r.Context(), cache.PrefixNotifications, cache.PrefixReports)
	h.publishEvent(r.Context(), broker.EventCreated, e)
	writeJSON(w, http.StatusCreated, map[string]any{"event": e, "notification": n})
}

// normalizeEventPatch lleva date_time a RFC 3339 para que el merge patch decodifique.
func normalizeEventPatch(raw []byte, loc *time.Location) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, errPatchNotObject
	}
	if v, ok := fields["date_time"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, errors.New("date_time no es una fecha válida")
		}
		t, err := parseDateTime(s, loc)
		if err != nil {
			return nil, errors.New("date_time no es una fecha válida")
		}
		b, _ := json.Marshal(t)
		fields["date_time"] = b
	}
	if v, ok := fields["time"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil || !hourRegex.MatchString(strings.TrimSpace(s)) {
			return nil, errors.New("time debe tener el formato HH:MM")
		}
	}
	return json.Marshal(fields)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
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
	patch, err := normalizeEventPatch(raw, h.location())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cur, err := repo.EventByID(r.Context(), h.DB, id)
	if err != nil {
		h.handleDBError(w, r, "update-event", err)
		return
	}
	var next repo.Event
	if err := applyMergePatch(cur, patch, &next, eventProtected...); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	next.ID, next.CreatedAt = cur.ID, cur.CreatedAt
	if strings.TrimSpace(next.Title) == "" || strings.TrimSpace(next.IDPatient) == "" {
		writeError(w, http.StatusBadRequest, "id_patient y title son obligatorios")
		return
	}
	if err := repo.SaveEvent(r.Context(), h.DB, &next); err != nil {
		h.handleDBError(w, r, "update-event", err)
		return
	}
	h.invalidate(r.Context(), cache.PrefixNotifications, cache.PrefixReports)
	h.publishEvent(r.Context(), broker.EventUpdated, &next)
	writeData(w, http.StatusOK, next)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	var key idBody
	if mux.Vars(r)["id"] == "" {
		_ = json.NewDecoder(r.Body).Decode(&key)
	}
	id, ok := parseUUID(pathOrBodyID(r, key))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	e, err := repo.EventByID(r.Context(), h.DB, id)
	if err != nil {
		h.handleDBError(w, r, "delete-event", err)
		return
	}
	if err := repo.DeleteEvent(r.Context(), h.DB, id); err != nil {
		h.handleDBError(w, r, "delete-event", err)
		return
	}
	h.invalidate(r.Context(), cache.PrefixNotifications, cache.PrefixReports)
	h.publishEvent(r.Context(), broker.EventDeleted, e)
	writeData(w, http.StatusOK, map[string]string{"id": id.String()})
}
