package site

import (
	"log/slog"
	"net/http"

	"github.com/danielcfuentes/album-studio/cmd/website/internal/respond"
	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/danielcfuentes/album-studio/pkg/services"
)

type SiteHandlers interface {
	Settings(w http.ResponseWriter, r *http.Request)
	SubmitContact(w http.ResponseWriter, r *http.Request)
}

type SiteControllerConfig struct {
	ContactNotifier services.ContactNotifier
	ContactService  services.ContactServicer
	SettingsService services.SettingsServicer
}

type SiteController struct {
	contactNotifier services.ContactNotifier
	contactService  services.ContactServicer
	settingsService services.SettingsServicer
}

func NewSiteController(config SiteControllerConfig) SiteController {
	if config.ContactNotifier == nil {
		config.ContactNotifier = services.NoopContactNotifier{}
	}

	return SiteController{
		contactNotifier: config.ContactNotifier,
		contactService:  config.ContactService,
		settingsService: config.SettingsService,
	}
}

/*
GET /api/settings
*/
func (c SiteController) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := c.settingsService.Get(r.Context())

	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.OK(w, settings)
}

/*
POST /api/contact
*/
func (c SiteController) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var (
		err        error
		submission models.ContactSubmission
	)

	if err = respond.DecodeJSON(r, &submission); err != nil {
		respond.Error(w, err)
		return
	}

	if submission, err = c.contactService.Submit(r.Context(), submission); err != nil {
		respond.Error(w, err)
		return
	}

	/*
	 * The message is already saved, so a failed notification is only logged.
	 */
	if err = c.contactNotifier.NotifyContact(submission); err != nil {
		slog.Error("error sending contact notification", "error", err, "submissionID", submission.ID)
	}

	respond.Created(w, submission)
}
