package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"event-checkin/pkg/utils"

	"go.uber.org/zap"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// SMTPMailer delivers messages through one SMTP relay using PLAIN auth.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
	log  *zap.Logger
}

func NewSMTPMailer(config utils.EmailConfig, log *zap.Logger) (*SMTPMailer, error) {
	if config.Host == "" {
		return nil, errors.New("SMTP_HOST is required")
	}
	if config.From == "" {
		return nil, errors.New("EMAIL_FROM is required")
	}

	var auth smtp.Auth
	if config.User != "" {
		auth = smtp.PlainAuth("", config.User, config.Password, config.Host)
	}

	return &SMTPMailer{
		addr: net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		from: config.From,
		auth: auth,
		log:  log.With(zap.String("component", "mailer")),
	}, nil
}

// Send blocks until the relay accepts the message or ctx is done.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(m.addr, m.auth, m.from, []string{msg.To}, m.build(msg))
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			m.log.Error("Failed to send email", zap.Error(err), zap.String("to", msg.To))
			return fmt.Errorf("send mail to %s: %w", msg.To, err)
		}
		m.log.Info("Email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
		return nil
	}
}

func (m *SMTPMailer) build(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// OTPMessage renders the check-in code email.
func OTPMessage(to, name, eventTitle, code string, expiresAt time.Time) Message {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour one-time code for %s is %s.\nIt expires at %s UTC and can be used once.\n",
		name, eventTitle, code, expiresAt.UTC().Format("2006-01-02 15:04"),
	)
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Your code for %s", eventTitle),
		Body:    body,
	}
}
