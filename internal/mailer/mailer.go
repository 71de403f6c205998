// Package mailer delivers change reports over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumipallolabs/reporter/internal/config"
	"github.com/lumipallolabs/reporter/internal/logging"
	"github.com/lumipallolabs/reporter/internal/report"
	"github.com/wneessen/go-mail"
)

var (
	ErrNoRecipients = errors.New("no recipients configured")
	ErrNoSender     = errors.New("no sender configured")
)

// Sender delivers composed messages
type Sender interface {
	Send(ctx context.Context, msgs ...*mail.Msg) error
}

// SMTP sends messages through a configured mail server
type SMTP struct {
	client *mail.Client
}

// NewSMTP creates an SMTP sender from the mail server settings
func NewSMTP(cfg *config.Config, opts ...mail.Option) (*SMTP, error) {
	server := cfg.MailServer
	if server.Host == "" {
		return nil, errors.New("mail server host is empty")
	}

	options := []mail.Option{
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(cfg.Timeout()),
	}
	if server.Port != 0 {
		options = append(options, mail.WithPort(server.Port))
	}
	if server.Domain != "" {
		options = append(options, mail.WithHELO(server.Domain))
	}
	if server.Username != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(server.Username),
			mail.WithPassword(server.Password),
		)
	}
	options = append(options, opts...)

	client, err := mail.NewClient(server.Host, options...)
	if err != nil {
		return nil, fmt.Errorf("mail client: %w", err)
	}
	return &SMTP{client: client}, nil
}

// Send dials the server and delivers the messages
func (s *SMTP) Send(ctx context.Context, msgs ...*mail.Msg) error {
	return s.client.DialAndSendWithContext(ctx, msgs...)
}

// Mailer composes and sends reports
type Mailer struct {
	sender  Sender
	from    string
	to      []string
	subject string
}

// New creates a mailer addressed from the configuration
func New(sender Sender, cfg *config.Config) *Mailer {
	return &Mailer{
		sender:  sender,
		from:    cfg.Sender(),
		to:      cfg.Recipients(),
		subject: cfg.Subject(),
	}
}

// Compose builds a multipart message with text and HTML bodies
func (m *Mailer) Compose(r *report.Report) (*mail.Msg, error) {
	if m.from == "" {
		return nil, ErrNoSender
	}
	if len(m.to) == 0 {
		return nil, ErrNoRecipients
	}

	text, err := report.Text(r)
	if err != nil {
		return nil, fmt.Errorf("render text: %w", err)
	}
	html, err := report.HTML(r)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(m.to...); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	msg.Subject(m.subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)
	return msg, nil
}

// Send composes the report and hands it to the sender
func (m *Mailer) Send(ctx context.Context, r *report.Report) error {
	msg, err := m.Compose(r)
	if err != nil {
		return err
	}

	logging.Log.Info().
		Strs("to", m.to).
		Str("subject", m.subject).
		Str("run", r.RunID).
		Msg("sending report")

	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	return nil
}
