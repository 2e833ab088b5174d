package site_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielcfuentes/album-studio/cmd/website/internal/respond"
	"github.com/danielcfuentes/album-studio/cmd/website/internal/site"
	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/danielcfuentes/album-studio/pkg/services"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	err      error
	notified []models.ContactSubmission
}

func (n *recordingNotifier) NotifyContact(submission models.ContactSubmission) error {
	n.notified = append(n.notified, submission)
	return n.err
}

func newController(t *testing.T, notifier services.ContactNotifier) (site.SiteController, services.ContactServicer) {
	t.Helper()

	store, err := services.NewLocalStore(services.LocalStoreConfig{
		Path: filepath.Join(t.TempDir(), "data.json"),
	})
	require.NoError(t, err)

	contacts := services.NewLocalContactService(services.LocalContactServiceConfig{Store: store})

	return site.NewSiteController(site.SiteControllerConfig{
		ContactNotifier: notifier,
		ContactService:  contacts,
		SettingsService: services.NewLocalSettingsService(services.LocalSettingsServiceConfig{Store: store}),
	}), contacts
}

func TestSettingsReturnsDefaults(t *testing.T) {
	controller, _ := newController(t, nil)

	rec := httptest.NewRecorder()
	controller.Settings(rec, httptest.NewRequest(http.MethodGet, "/api/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var settings models.SiteSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, models.DefaultSiteSettings(), settings)
}

func TestSubmitContact(t *testing.T) {
	tests := []struct {
		name        string
		notifierErr error
	}{
		{name: "notification sent"},
		{name: "notification failure does not lose the message", notifierErr: errors.New("mail provider down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &recordingNotifier{err: tt.notifierErr}
			controller, contacts := newController(t, notifier)

			body := `{"name":" Ana ","email":"ana@example.com","message":"Are you free in June?"}`

			rec := httptest.NewRecorder()
			controller.SubmitContact(rec, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body)))

			require.Equal(t, http.StatusCreated, rec.Code)

			stored, err := contacts.List(context.Background())
			require.NoError(t, err)
			require.Len(t, stored, 1)
			assert.Equal(t, "Ana", stored[0].Name)

			require.Len(t, notifier.notified, 1)
			assert.Equal(t, stored[0].ID, notifier.notified[0].ID)
		})
	}
}

func TestSubmitContactValidation(t *testing.T) {
	notifier := &recordingNotifier{}
	controller, contacts := newController(t, notifier)

	rec := httptest.NewRecorder()
	controller.SubmitContact(rec, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"Ana","email":"not-an-email","message":"Hi"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errorResponse respond.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errorResponse))
	assert.Equal(t, "email", errorResponse.Field)

	stored, err := contacts.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, notifier.notified)
}
