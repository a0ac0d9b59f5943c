package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendReminder_NotConfigured_ReturnsNil(t *testing.T) {
	// Cliente sin credenciales no envía y devuelve nil (no-op).
	c := NewClient(Config{})
	err := c.SendReminder(context.Background(), "+584121234567", "María", "Control", "12/02/2025", "14:30")
	if err != nil {
		t.Errorf("SendReminder sin config debe devolver nil, got %v", err)
	}
}

func TestSendReminder_EmptyFrom_ReturnsNil(t *testing.T) {
	c := NewClient(Config{AccountSid: "sid", AuthToken: "token"})
	err := c.SendReminder(context.Background(), "+584121234567", "María", "Control", "12/02/2025", "14:30")
	if err != nil {
		t.Errorf("SendReminder sin From debe devolver nil, got %v", err)
	}
}

func TestSendReminder_PostsForm(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotPath = r.URL.Path
		gotTo, gotFrom, gotBody = r.PostForm.Get("To"), r.PostForm.Get("From"), r.PostForm.Get("Body")
		gotUser, _, _ = r.BasicAuth()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(Config{AccountSid: "AC1", AuthToken: "tok", From: "+14155238886", BaseURL: srv.URL})
	if err := c.SendReminder(context.Background(), "+58 412-123-4567", "María", "Control", "12/02/2025", "14:30"); err != nil {
		t.Fatalf("SendReminder: %v", err)
	}
	if gotPath != "/Accounts/AC1/Messages.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotTo != "whatsapp:+584121234567" || gotFrom != "whatsapp:+14155238886" {
		t.Errorf("to=%q from=%q", gotTo, gotFrom)
	}
	if gotUser != "AC1" {
		t.Errorf("basic auth user = %q", gotUser)
	}
	if !strings.Contains(gotBody, "12/02/2025 a las 14:30") {
		t.Errorf("body = %q", gotBody)
	}
}

func TestSendReminder_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid To"}`, http.StatusBadRequest)
	}))
	defer srv.Close()
	c := NewClient(Config{AccountSid: "AC1", AuthToken: "tok", From: "+1", BaseURL: srv.URL})
	err := c.SendReminder(context.Background(), "+584121234567", "Ana", "Control", "12/02/2025", "")
	if err == nil || !strings.Contains(err.Error(), "invalid To") {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+584121234567":          "whatsapp:+584121234567",
		"whatsapp:+584121234567": "whatsapp:+584121234567",
		" 58 (412) 123 4567 ":    "whatsapp:+584121234567",
		"":                       "",
	}
	for in, want := range cases {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}
