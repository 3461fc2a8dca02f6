package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/gifting-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendInvitation(to, inviteeName, inviterName, organizationName, role, invitationLink, expiresAt string) error
	SendShipmentsReady(to, recipientName string, shipments []ReadyShipment) error
}

// ReadyShipment is one line of the "ready to ship" digest
type ReadyShipment struct {
	EmployeeName string
	Department   string
	Birthday     string
	TriggerDate  string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      sendFunc
	backoff   time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

type invitationEmailData struct {
	InviteeName      string
	InviterName      string
	OrganizationName string
	Role             string
	InvitationLink   string
	ExpiresAt        string
}

// SendInvitation sends a team invitation
func (s *emailServiceImpl) SendInvitation(to, inviteeName, inviterName, organizationName, role, invitationLink, expiresAt string) error {
	data := invitationEmailData{
		InviteeName:      inviteeName,
		InviterName:      inviterName,
		OrganizationName: organizationName,
		Role:             role,
		InvitationLink:   invitationLink,
		ExpiresAt:        expiresAt,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "invitation.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(to, fmt.Sprintf("Convite para %s", organizationName), body.String())
}

type shipmentsReadyEmailData struct {
	RecipientName string
	Shipments     []ReadyShipment
}

// SendShipmentsReady sends the digest of shipments that just became ready to ship
func (s *emailServiceImpl) SendShipmentsReady(to, recipientName string, shipments []ReadyShipment) error {
	if len(shipments) == 0 {
		return nil
	}

	var body bytes.Buffer
	data := shipmentsReadyEmailData{RecipientName: recipientName, Shipments: shipments}
	if err := s.templates.ExecuteTemplate(&body, "shipments_ready.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("%d presente(s) pronto(s) para envio", len(shipments))
	return s.sendHTML(to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// exponential backoff: 1x, 2x, 4x
		if attempt < maxRetries {
			time.Sleep(s.backoff << (attempt - 1))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
