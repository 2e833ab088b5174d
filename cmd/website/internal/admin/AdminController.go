package admin

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/danielcfuentes/album-studio/cmd/website/internal/respond"
	"github.com/danielcfuentes/album-studio/cmd/website/internal/viewmodels"
	"github.com/danielcfuentes/album-studio/pkg/albumquery"
	"github.com/danielcfuentes/album-studio/pkg/imageurl"
	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/danielcfuentes/album-studio/pkg/services"
	"github.com/gabriel-vasile/mimetype"
)

const (
	recentAlbumCount = 5

	// Room for the multipart envelope around the file itself.
	multipartOverheadBytes int64 = 1 << 20
)

type AdminHandlers interface {
	LoginAction(w http.ResponseWriter, r *http.Request)
	LogoutAction(w http.ResponseWriter, r *http.Request)
	Dashboard(w http.ResponseWriter, r *http.Request)
	AlbumList(w http.ResponseWriter, r *http.Request)
	CreateAlbum(w http.ResponseWriter, r *http.Request)
	UpdateAlbum(w http.ResponseWriter, r *http.Request)
	DeleteAlbum(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	ContactList(w http.ResponseWriter, r *http.Request)
	DeleteContact(w http.ResponseWriter, r *http.Request)
	Upload(w http.ResponseWriter, r *http.Request)
	Normalize(w http.ResponseWriter, r *http.Request)
}

type AdminControllerConfig struct {
	AlbumService    services.AlbumServicer
	AuthService     services.AdminAuthServicer
	ContactService  services.ContactServicer
	MaxUploadBytes  int64
	SessionService  sessions.Session[*models.AdminSession]
	SettingsService services.SettingsServicer
	UploadService   services.UploadServicer

	// UploadFolders maps the folder names callers may ask for onto storage folders.
	UploadFolders map[string]string
}

type AdminController struct {
	albumService    services.AlbumServicer
	authService     services.AdminAuthServicer
	contactService  services.ContactServicer
	maxUploadBytes  int64
	sessionService  sessions.Session[*models.AdminSession]
	settingsService services.SettingsServicer
	uploadService   services.UploadServicer
	uploadFolders   map[string]string
}

func NewAdminController(config AdminControllerConfig) AdminController {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = services.DefaultMaxUploadBytes
	}

	return AdminController{
		albumService:    config.AlbumService,
		authService:     config.AuthService,
		contactService:  config.ContactService,
		maxUploadBytes:  config.MaxUploadBytes,
		sessionService:  config.SessionService,
		settingsService: config.SettingsService,
		uploadService:   config.UploadService,
		uploadFolders:   config.UploadFolders,
	}
}

/*
POST /admin/login
*/
func (c AdminController) LoginAction(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		request viewmodels.LoginRequest
	)

	if err = respond.DecodeJSON(r, &request); err != nil {
		respond.Error(w, err)
		return
	}

	if !c.authService.Authenticate(request.Password) {
		slog.Warn("failed admin login attempt", "remoteAddr", r.RemoteAddr)
		respond.Error(w, respond.NewError(http.StatusUnauthorized, "Incorrect password. Please try again."))
		return
	}

	/*
	 * Setup the session and let the caller in
	 */
	if err = c.sessionService.Set(r, &models.AdminSession{LoggedInAt: time.Now()}); err != nil {
		slog.Error("error setting admin session", "error", err)
	}

	if err = c.sessionService.Save(w, r); err != nil {
		slog.Error("error saving session", "error", err)
		respond.Error(w, err)
		return
	}

	respond.OK(w, viewmodels.Message{Message: "logged in"})
}

/*
POST /admin/logout
*/
func (c AdminController) LogoutAction(w http.ResponseWriter, r *http.Request) {
	_ = c.sessionService.Destroy(w, r)
	_ = c.sessionService.Save(w, r)
	respond.NoContent(w)
}

/*
GET /admin/dashboard
*/
func (c AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	var (
		err      error
		albums   []models.Album
		contacts []models.ContactSubmission
	)

	if albums, err = c.albumService.List(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	if contacts, err = c.contactService.List(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	respond.OK(w, viewmodels.Dashboard{
		Stats:        albumquery.Summarize(albums),
		RecentAlbums: albumquery.Recent(albums, recentAlbumCount),
		ContactCount: len(contacts),
		LoggedInAt:   viewmodels.GetAdminFromContext(r).LoggedInAt,
	})
}

/*
GET /admin/albums?q=
*/
func (c AdminController) AlbumList(w http.ResponseWriter, r *http.Request) {
	albums, err := c.albumService.List(r.Context())

	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.OK(w, albumquery.AdminSearch(albums, httphelpers.GetFromRequest[string](r, "q")))
}

/*
POST /admin/albums
*/
func (c AdminController) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		input models.AlbumInput
		album models.Album
	)

	if err = respond.DecodeJSON(r, &input); err != nil {
		respond.Error(w, err)
		return
	}

	if album, err = c.albumService.Create(r.Context(), input); err != nil {
		respond.Error(w, err)
		return
	}

	slog.Info("album created", "albumID", album.ID, "slug", album.Slug)
	respond.Created(w, album)
}

/*
PUT /admin/albums/{id}
*/
func (c AdminController) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		input models.AlbumInput
		album models.Album
	)

	if err = respond.DecodeJSON(r, &input); err != nil {
		respond.Error(w, err)
		return
	}

	if album, err = c.albumService.Update(r.Context(), httphelpers.GetFromRequest[string](r, "id"), input); err != nil {
		respond.Error(w, err)
		return
	}

	respond.OK(w, album)
}

/*
DELETE /admin/albums/{id}
*/
func (c AdminController) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	id := httphelpers.GetFromRequest[string](r, "id")

	if err := c.albumService.Delete(r.Context(), id); err != nil {
		respond.Error(w, err)
		return
	}

	slog.Info("album deleted", "albumID", id)
	respond.NoContent(w)
}

/*
PUT /admin/settings
*/
func (c AdminController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var (
		err      error
		settings models.SiteSettings
	)

	if err = respond.DecodeJSON(r, &settings); err != nil {
		respond.Error(w, err)
		return
	}

	if settings, err = c.settingsService.Update(r.Context(), settings); err != nil {
		respond.Error(w, err)
		return
	}

	respond.OK(w, settings)
}

/*
GET /admin/contacts
*/
func (c AdminController) ContactList(w http.ResponseWriter, r *http.Request) {
	contacts, err := c.contactService.List(r.Context())

	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.OK(w, contacts)
}

/*
DELETE /admin/contacts/{id}
*/
func (c AdminController) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := c.contactService.Delete(r.Context(), httphelpers.GetFromRequest[string](r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	respond.NoContent(w)
}

/*
POST /admin/uploads?folder=albums|settings

Expects a multipart form with the image in "file". The content type is
sniffed from the bytes, never taken from the request.
*/
func (c AdminController) Upload(w http.ResponseWriter, r *http.Request) {
	var (
		err  error
		data []byte
		blob services.PreparedBlob
		url  string
	)

	folder, ok := c.uploadFolders[httphelpers.GetFromRequest[string](r, "folder")]

	if !ok {
		respond.Error(w, respond.NewError(http.StatusBadRequest, "folder must be one of the configured upload folders"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes+multipartOverheadBytes)

	file, header, err := r.FormFile("file")

	if err != nil {
		var maxBytesErr *http.MaxBytesError

		if errors.As(err, &maxBytesErr) {
			size := r.ContentLength

			// Chunked bodies have no length; all we know is the limit was passed.
			if size < 0 {
				size = maxBytesErr.Limit + 1
			}

			respond.Error(w, &services.FileTooLargeError{Size: size, Limit: c.maxUploadBytes})
			return
		}

		respond.Error(w, respond.NewError(http.StatusBadRequest, "a file is required"))
		return
	}

	defer file.Close()

	if data, err = io.ReadAll(file); err != nil {
		respond.Error(w, fmt.Errorf("error reading uploaded file: %w", err))
		return
	}

	contentType := mimetype.Detect(data).String()

	if !services.IsAcceptedImageType(contentType) {
		respond.Error(w, respond.NewError(http.StatusBadRequest, fmt.Sprintf("unsupported file type '%s'. Upload a JPEG, PNG, WebP or GIF image", contentType)))
		return
	}

	upload := services.UploadFile{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	}

	if blob, err = c.uploadService.Prepare(upload); err != nil {
		respond.Error(w, err)
		return
	}

	if url, err = c.uploadService.Store(r.Context(), blob, folder); err != nil {
		respond.Error(w, err)
		return
	}

	slog.Info("image uploaded", "url", url, "originalSize", len(data), "storedSize", len(blob.Data), "recompressed", blob.Recompressed)

	respond.Created(w, viewmodels.UploadResult{
		URL:          url,
		Recompressed: blob.Recompressed,
	})
}

/*
POST /admin/normalize
*/
func (c AdminController) Normalize(w http.ResponseWriter, r *http.Request) {
	var request viewmodels.NormalizeRequest

	if err := respond.DecodeJSON(r, &request); err != nil {
		respond.Error(w, err)
		return
	}

	normalized := imageurl.Normalize(request.URL)

	respond.OK(w, viewmodels.NormalizePreview{
		Input:      request.URL,
		Normalized: normalized,
		Changed:    normalized != request.URL,
	})
}
