package services

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/adampresley/adamgokit/email"
	"github.com/danielcfuentes/album-studio/pkg/models"
)

type ContactNotifier interface {
	NotifyContact(submission models.ContactSubmission) error
}

type MailSender interface {
	Send(mail email.Mail) error
}

type EmailServiceConfig struct {
	ApiKey    string
	FromName  string
	FromEmail string
	ToName    string
	ToEmail   string

	// Sender replaces the Resend client built from ApiKey.
	Sender MailSender
}

/*
EmailService tells the photographer about new contact form submissions.
*/
type EmailService struct {
	fromName  string
	fromEmail string
	toName    string
	toEmail   string
	sender    MailSender
}

var contactTemplate = template.Must(template.New("contact").Parse(`
<h1>New message from your website</h1>
<p><strong>{{.Name}}</strong> ({{.Email}}) wrote:</p>
<p style="white-space: pre-wrap">{{.Message}}</p>
<p><small>Received {{.CreatedAt.Format "Jan 2, 2006 3:04 PM MST"}}</small></p>
`))

func NewEmailService(config EmailServiceConfig) EmailService {
	sender := config.Sender

	if sender == nil {
		sender = email.NewResendService(&email.Config{
			ApiKey: config.ApiKey,
		})
	}

	return EmailService{
		fromName:  config.FromName,
		fromEmail: config.FromEmail,
		toName:    config.ToName,
		toEmail:   config.ToEmail,
		sender:    sender,
	}
}

func (s EmailService) NotifyContact(submission models.ContactSubmission) error {
	body := strings.Builder{}

	if err := contactTemplate.Execute(&body, submission); err != nil {
		return fmt.Errorf("error rendering contact email: %w", err)
	}

	err := s.sender.Send(email.Mail{
		Body:       body.String(),
		BodyIsHtml: true,
		From: email.EmailAddress{
			Email: s.fromEmail,
			Name:  s.fromName,
		},
		Subject: fmt.Sprintf("New inquiry from %s", submission.Name),
		To: []email.EmailAddress{
			{Name: s.toName, Email: s.toEmail},
		},
	})

	if err != nil {
		return fmt.Errorf("error sending contact email from '%s': %w", submission.Email, err)
	}

	return nil
}

/*
NoopContactNotifier is used when no e-mail provider is configured.
*/
type NoopContactNotifier struct{}

func (NoopContactNotifier) NotifyContact(submission models.ContactSubmission) error {
	return nil
}
