package utils

import (
	"fmt"
	"log"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"madrasa/config"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// Mailer delivers one HTML message.
type Mailer interface {
	Send(to, name, subject, html string) error
}

// Mail is the process-wide mailer. InitMailer swaps in SendGrid when a key is configured.
var Mail Mailer = LogMailer{}

// InitMailer picks the mailer from cfg
func InitMailer(cfg *config.Config) {
	if cfg.SendgridAPIKey == "" {
		log.Println("[MAILER] SENDGRID_API_KEY not set, e-mails are only logged")
		Mail = LogMailer{}
		return
	}
	Mail = NewSendgridMailer(cfg.SendgridAPIKey, cfg.EmailSender)
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(to, _, subject, _ string) error {
	log.Printf("[MAILER] to=%s subject=%q (not sent)", to, subject)
	return nil
}

type SendgridMailer struct {
	key  string
	from *sgmail.Email
}

func NewSendgridMailer(key, from string) *SendgridMailer {
	return &SendgridMailer{key: key, from: sgmail.NewEmail("Madrasa", from)}
}

func (m *SendgridMailer) Send(to, name, subject, html string) error {
	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail(name, to))

	msg := sgmail.NewV3Mail()
	msg.SetFrom(m.from)
	msg.AddPersonalizations(p)
	msg.AddContent(sgmail.NewContent("text/html", html))

	req := sendgrid.GetRequest(m.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(msg)

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sending email: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
