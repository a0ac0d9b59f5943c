package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/broker"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/reminder"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
	"gorm.io/gorm"
)

func TestParseLimitOffset(t *testing.T) {
	cases := []struct {
		query      string
		limit, off int
		ok         bool
	}{
		{"", 0, 0, false},
		{"limit=10", 10, 0, true},
		{"limit=10&offset=20", 10, 20, true},
		{"limit=500", maxLimit, 0, true},
		{"limit=abc", 0, 0, false},
		{"limit=0", 0, 0, false},
		{"limit=5&offset=-3", 5, 0, true},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/api/pacientes?"+c.query, nil)
		l, o, ok := ParseLimitOffset(r)
		if l != c.limit || o != c.off || ok != c.ok {
			t.Errorf("%q: got (%d,%d,%v) want (%d,%d,%v)", c.query, l, o, ok, c.limit, c.off, c.ok)
		}
	}
}

func TestApplyMergePatch(t *testing.T) {
	cur := repo.Consultation{PatientID: "123", Diagnosis: "gripe", Smoke: true, BloodType: "O+"}
	var next repo.Consultation
	patch := []byte(`{"diagnosis":"asma","smoke":false,"patient_id":"999","blood_type":null}`)
	if err := applyMergePatch(cur, patch, &next, consultationProtected...); err != nil {
		t.Fatalf("applyMergePatch: %v", err)
	}
	if next.Diagnosis != "asma" || next.Smoke {
		t.Errorf("patch not applied: %+v", next)
	}
	if next.PatientID != "123" {
		t.Errorf("protected key patched: %q", next.PatientID)
	}
	if next.BloodType != "" {
		t.Errorf("null must remove the value, got %q", next.BloodType)
	}
}

func TestApplyMergePatch_NotObject(t *testing.T) {
	var out repo.Event
	if err := applyMergePatch(repo.Event{}, []byte(`[1,2]`), &out); !errors.Is(err, errPatchNotObject) {
		t.Fatalf("want errPatchNotObject, got %v", err)
	}
}

func TestNormalizeEventPatch(t *testing.T) {
	out, err := normalizeEventPatch([]byte(`{"date_time":"2025-02-12","time":"09:30"}`), time.UTC)
	if err != nil {
		t.Fatalf("normalizeEventPatch: %v", err)
	}
	if !strings.Contains(string(out), `"2025-02-12T00:00:00Z"`) {
		t.Errorf("date_time not normalized: %s", out)
	}
	if _, err := normalizeEventPatch([]byte(`{"time":"9h"}`), time.UTC); err == nil {
		t.Error("expected error for invalid time")
	}
	if _, err := normalizeEventPatch([]byte(`{"date_time":"mañana"}`), time.UTC); err == nil {
		t.Error("expected error for invalid date_time")
	}
}

func TestEventInput(t *testing.T) {
	in := eventInput{IDPatient: "123", Title: " Control ", DateTime: "2025-02-12T14:00:00-04:00", Time: "14:00"}
	e, err := in.event(time.UTC)
	if err != nil {
		t.Fatalf("event: %v", err)
	}
	if e.Title != "Control" || !e.DateTime.Equal(time.Date(2025, 2, 12, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("event = %+v", e)
	}
	in.Time = "25:00"
	if _, err := in.event(time.UTC); err == nil {
		t.Error("expected error for invalid hour")
	}
}

func TestIDBodyValue(t *testing.T) {
	cases := map[string]string{
		`{"id":"abc"}`:    "abc",
		`{"id":42}`:       "42",
		`{"cedula":"77"}`: "77",
		`{}`:              "",
	}
	for body, want := range cases {
		var b idBody
		if err := json.Unmarshal([]byte(body), &b); err != nil {
			t.Fatal(err)
		}
		if got := b.value(); got != want {
			t.Errorf("%s: got %q want %q", body, got, want)
		}
	}
}

func TestHandleDBError(t *testing.T) {
	h := &Handler{}
	cases := []struct {
		err  error
		code int
		body string
	}{
		{gorm.ErrRecordNotFound, http.StatusNotFound, "not found"},
		{fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}), http.StatusBadRequest, "violates foreign key"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal"},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		h.handleDBError(rr, httptest.NewRequest(http.MethodGet, "/x", nil), "test", c.err)
		if rr.Code != c.code || !strings.Contains(rr.Body.String(), c.body) {
			t.Errorf("%v: got %d %s", c.err, rr.Code, rr.Body.String())
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("23505 must be a unique violation")
	}
	if isUniqueViolation(errors.New("x")) {
		t.Error("plain error is not a unique violation")
	}
}

func caracas(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Caracas")
	if err != nil {
		t.Skipf("tzdata: %v", err)
	}
	return loc
}

func TestParseDateTime_DateOnlyIsClinicMidnight(t *testing.T) {
	loc := caracas(t)
	got, err := parseDateTime("2026-10-15", loc)
	if err != nil {
		t.Fatal(err)
	}
	day := reminder.DayStart(time.Date(2026, 10, 14, 12, 0, 0, 0, loc), loc, 1)
	if got.Before(day) || !got.Before(day.AddDate(0, 0, 1)) {
		t.Fatalf("event %v outside reminder window [%v, %v)", got, day, day.AddDate(0, 0, 1))
	}
	rfc, err := parseDateTime("2026-10-15T10:00:00Z", loc)
	if err != nil || !rfc.Equal(time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("RFC 3339 must keep its offset: %v %v", rfc, err)
	}
}

func TestNormalizeEventPatch_ClinicZone(t *testing.T) {
	out, err := normalizeEventPatch([]byte(`{"date_time":"2026-10-15"}`), caracas(t))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"2026-10-15T00:00:00-04:00"`) {
		t.Errorf("date_time not in clinic zone: %s", out)
	}
}

func TestEventInput_DateOnlyUsesLocation(t *testing.T) {
	loc := caracas(t)
	in := eventInput{IDPatient: "123", Title: "Control", DateTime: "2026-10-15", Time: "08:00"}
	e, err := in.event(loc)
	if err != nil {
		t.Fatal(err)
	}
	if !e.DateTime.Equal(time.Date(2026, 10, 15, 4, 0, 0, 0, time.UTC)) {
		t.Fatalf("date_time = %v", e.DateTime)
	}
}

type recordingPublisher struct {
	ctxErr      error
	hasDeadline bool
	msgs        []broker.Message
}

func (p *recordingPublisher) Publish(ctx context.Context, m broker.Message) error {
	p.ctxErr = ctx.Err()
	_, p.hasDeadline = ctx.Deadline()
	p.msgs = append(p.msgs, m)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestPublishEvent_DetachedFromRequest(t *testing.T) {
	pub := &recordingPublisher{}
	h := &Handler{Publisher: pub}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.publishEvent(ctx, broker.EventCreated, &repo.Event{IDPatient: "123"})
	if len(pub.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(pub.msgs))
	}
	if pub.ctxErr != nil {
		t.Fatalf("publish context must survive request cancellation, got %v", pub.ctxErr)
	}
	if !pub.hasDeadline {
		t.Fatal("publish context must be bounded")
	}
}
