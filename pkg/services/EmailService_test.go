package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/adampresley/adamgokit/email"
	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/danielcfuentes/album-studio/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailSender struct {
	err  error
	sent []email.Mail
}

func (f *fakeMailSender) Send(mail email.Mail) error {
	f.sent = append(f.sent, mail)
	return f.err
}

func TestNotifyContactSendsEscapedEmail(t *testing.T) {
	sender := &fakeMailSender{}
	svc := services.NewEmailService(services.EmailServiceConfig{
		FromName:  "Website",
		FromEmail: "noreply@example.com",
		ToName:    "Jane",
		ToEmail:   "jane@example.com",
		Sender:    sender,
	})

	err := svc.NotifyContact(models.ContactSubmission{
		Name:      "Ann",
		Email:     "ann@example.com",
		Message:   "<script>alert(1)</script> June 14?",
		CreatedAt: time.Date(2025, 3, 1, 15, 4, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	mail := sender.sent[0]
	assert.Equal(t, "New inquiry from Ann", mail.Subject)
	assert.True(t, mail.BodyIsHtml)
	assert.Equal(t, "noreply@example.com", mail.From.Email)
	assert.Equal(t, []email.EmailAddress{{Name: "Jane", Email: "jane@example.com"}}, mail.To)
	assert.Contains(t, mail.Body, "ann@example.com")
	assert.Contains(t, mail.Body, "&lt;script&gt;")
	assert.NotContains(t, mail.Body, "<script>")
	assert.Contains(t, mail.Body, "Mar 1, 2025 3:04 PM UTC")
}

func TestNotifyContactWrapsSendErrors(t *testing.T) {
	sender := &fakeMailSender{err: errors.New("provider down")}
	svc := services.NewEmailService(services.EmailServiceConfig{Sender: sender})

	err := svc.NotifyContact(models.ContactSubmission{Name: "Ann", Email: "ann@example.com", Message: "hi"})

	assert.ErrorIs(t, err, sender.err)
}
