package email

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"strconv"
	"text/template"
	"time"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	FromName string
	FromAddr string

	// sendMail permite sustituir net/smtp en tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var (
	errEmptyRecipient = errors.New("destinatario de correo vacío")
	errNoHost         = errors.New("SMTP host no configurado")
	errNoFrom         = errors.New("remitente SMTP (From) no configurado")
)

func (c *Config) Send(to, subject, body string, html bool) error {
	if to == "" {
		slog.Error("[email] destinatario vacío", "subject", subject)
		return errEmptyRecipient
	}
	if c.Host == "" {
		slog.Error("[email] SMTP host vacío", "to", to)
		return errNoHost
	}
	if c.FromAddr == "" {
		slog.Error("[email] SMTP From vacío", "to", to)
		return errNoFrom
	}
	port := c.Port
	if port == 0 {
		port = 25
	}
	addr := fmt.Sprintf("%s:%d", c.Host, port)
	msg := c.buildMessage(to, subject, body, html)
	send := c.sendMail
	if send == nil {
		send = smtp.SendMail
	}
	slog.Info("[email] enviando", "to", to, "subject", subject, "addr", addr)
	if err := send(addr, c.authForSend(), c.FromAddr, []string{to}, msg); err != nil {
		slog.Error("[email] fallo al enviar", "to", to, "subject", subject, "error", err)
		return err
	}
	slog.Info("[email] enviado", "to", to, "subject", subject)
	return nil
}

func (c *Config) buildMessage(to, subject, body string, html bool) []byte {
	from := c.FromAddr
	if c.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", c.FromName), c.FromAddr)
	}
	contentType := "text/plain; charset=UTF-8"
	if html {
		contentType = "text/html; charset=UTF-8"
	}
	var buf bytes.Buffer
	buf.WriteString("From: " + from + "\r\n")
	buf.WriteString("To: " + to + "\r\n")
	buf.WriteString("Subject: " + mime.QEncoding.Encode("UTF-8", subject) + "\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: " + contentType + "\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.Bytes()
}

// authForSend returns nil when User is empty (e.g. MailHog), so no AUTH is sent.
func (c *Config) authForSend() smtp.Auth {
	if c.User != "" {
		return smtp.PlainAuth("", c.User, c.Pass, c.Host)
	}
	return nil
}

var resetTpl = template.Must(template.New("reset").Parse(`Hola,

Recibimos una solicitud para restablecer tu contraseña. Abre el siguiente enlace (válido por 1 hora):

{{.ResetURL}}

Si no solicitaste el cambio, ignora este correo.`))

func (c *Config) SendPasswordReset(to, resetURL string) error {
	if to == "" || resetURL == "" {
		return errors.New("to o resetURL vacío")
	}
	var b bytes.Buffer
	if err := resetTpl.Execute(&b, map[string]string{"ResetURL": resetURL}); err != nil {
		return err
	}
	return c.Send(to, "Restablecer contraseña - Consultorio Médico", b.String(), false)
}

var reminderTpl = template.Must(template.New("reminder").Parse(`Hola, {{.Name}},

Le recordamos su cita "{{.Title}}" el {{.Date}}{{if .Time}} a las {{.Time}}{{end}} en el consultorio médico.
{{if .Description}}
{{.Description}}
{{end}}
Si no puede asistir, por favor comuníquese con el consultorio.`))

// SendEventReminder avisa al paciente de una cita próxima.
func (c *Config) SendEventReminder(to, name, title string, date time.Time, hour, description string) error {
	var b bytes.Buffer
	err := reminderTpl.Execute(&b, map[string]string{
		"Name":        name,
		"Title":       title,
		"Date":        date.Format("02/01/2006"),
		"Time":        hour,
		"Description": description,
	})
	if err != nil {
		return err
	}
	return c.Send(to, "Recordatorio de cita - Consultorio Médico", b.String(), false)
}

// LogConfigSummary registra la configuración SMTP (sin contraseña).
func (c *Config) LogConfigSummary() {
	slog.Info("[email] config SMTP", "host", c.Host, "port", c.Port, "from", c.FromAddr, "auth", c.User != "")
	if c.Host == "" || c.FromAddr == "" {
		slog.Warn("[email] host o from vacío; los envíos pueden fallar")
	}
}

func PortFromString(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
