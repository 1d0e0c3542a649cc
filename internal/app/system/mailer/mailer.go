// internal/app/system/mailer/mailer.go
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Config holds SMTP settings. An empty Host disables sending; handlers
// treat a disabled sender as "invite created, mail skipped".
type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
}

// Email is a fully built message with both bodies. HTML-capable clients
// render HTMLBody; everything else falls back to TextBody.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers mail over SMTP.
type Sender struct {
	cfg Config
	log *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Sender {
	return &Sender{cfg: cfg, log: logger}
}

// Enabled reports whether an SMTP host is configured.
func (s *Sender) Enabled() bool {
	return s.cfg.Host != ""
}

// Send delivers the email as multipart/alternative. Auth is used only
// when a username is configured, so a local dev relay needs none.
func (s *Sender) Send(e Email) error {
	if !s.Enabled() {
		return fmt.Errorf("mailer disabled: no SMTP host configured")
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
	}

	const boundary = "hub-mail-boundary"
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(e.TextBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(e.HTMLBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{e.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.log.Info("email sent", zap.String("to", e.To), zap.String("subject", e.Subject))
	return nil
}
