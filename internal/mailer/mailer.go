// Package mailer sends transactional e-mail through the SendGrid v3 API.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/intlakaa/internal/config"
	"github.com/intlakaa/internal/logging"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Option("missingkey=zero").ParseFS(templateFS, "templates/*.html"))

const inviteSubject = "دعوة للانضمام إلى لوحة تحكم انطلاقة"

// Invite is the data rendered into the invitation e-mail.
type Invite struct {
	To         string
	Link       string
	InvitedBy  string
	ValidHours int
}

// SendGrid delivers mail over HTTP. Without an API key it only logs what
// would have been sent.
type SendGrid struct {
	apiKey  string
	baseURL string
	from    *mail.Email
	client  *rest.Client
	logger  *logging.Logger
}

func NewSendGrid(cfg config.MailConfig, logger *logging.Logger) *SendGrid {
	return &SendGrid{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		from:    mail.NewEmail(cfg.FromName, cfg.From),
		client: &rest.Client{
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
		},
		logger: logger,
	}
}

func (s *SendGrid) SendInvite(ctx context.Context, inv Invite) error {
	body, err := render("invite.html", inv)
	if err != nil {
		return err
	}

	if s.apiKey == "" {
		s.logger.Infow("mail delivery disabled, invite link logged instead", "to", inv.To, "link", inv.Link)
		return nil
	}

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", inv.To))

	m := mail.NewV3Mail()
	m.SetFrom(s.from)
	m.Subject = inviteSubject
	m.AddPersonalizations(p)
	m.AddContent(mail.NewContent("text/html", body))

	return s.send(ctx, m)
}

func (s *SendGrid) send(ctx context.Context, m *mail.SGMailV3) error {
	req := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.baseURL)
	req.Method = rest.Post
	req.Headers["Content-Type"] = "application/json"
	req.Body = mail.GetRequestBody(m)

	start := time.Now()
	resp, err := s.client.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 300 {
		detail := resp.Body
		if len(detail) > 1024 {
			detail = detail[:1024]
		}
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, strings.TrimSpace(detail))
	}

	s.logger.Debugw("mail sent", "status", resp.StatusCode, "duration", time.Since(start).String())
	return nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
