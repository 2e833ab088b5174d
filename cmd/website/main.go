package main

import (
	"context"
	"encoding/gob"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/danielcfuentes/album-studio/cmd/website/internal/admin"
	"github.com/danielcfuentes/album-studio/cmd/website/internal/albums"
	"github.com/danielcfuentes/album-studio/cmd/website/internal/configuration"
	"github.com/danielcfuentes/album-studio/cmd/website/internal/site"
	"github.com/danielcfuentes/album-studio/pkg/database"
	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/danielcfuentes/album-studio/pkg/services"
	"github.com/danielcfuentes/album-studio/pkg/storage"
	"github.com/rfberaldo/sqlz"
)

var (
	Version string = "development"
	appName string = "album-studio"

	config configuration.Config

	/* Services */
	albumService       services.AlbumServicer
	authService        services.AdminAuthServicer
	contactNotifier    services.ContactNotifier
	contactService     services.ContactServicer
	coverRepairService services.CoverRepairer
	db                 *sqlz.DB
	objectStorage      storage.ObjectStorer
	s3Client           s3.S3Client
	sessionService     sessions.Session[*models.AdminSession]
	settingsService    services.SettingsServicer
	uploadJanitor      services.UploadJanitorServicer
	uploadService      services.UploadServicer

	/* Controllers */
	adminController  admin.AdminHandlers
	albumsController albums.AlbumsHandlers
	siteController   site.SiteHandlers
)

func main() {
	var (
		err            error
		trustedProxies []netip.Prefix
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("persistence", config.Persistence),
		slog.String("storage", config.Storage),
		slog.String("trustedproxies", config.TrustedProxies),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	setupPersistence()
	setupStorage()

	gob.Register(&models.AdminSession{})

	cookieStore := sessions.NewCookieStore(config.CookieSecret)
	sessionService = sessions.NewSessionWrapper[*models.AdminSession](cookieStore, "albumstudioadmin", "admin")

	if authService, err = services.NewAdminAuthService(services.AdminAuthServiceConfig{
		PasswordHash: config.AdminPasswordHash,
		Password:     config.AdminPassword,
	}); err != nil {
		panic(err)
	}

	if config.AdminPasswordHash == "" && config.AdminPassword == "" {
		slog.Warn("no admin password is configured. the admin area is locked")
	}

	contactNotifier = services.NoopContactNotifier{}

	if config.EmailApiKey != "" && config.EmailToAddress != "" {
		contactNotifier = services.NewEmailService(services.EmailServiceConfig{
			ApiKey:    config.EmailApiKey,
			FromName:  config.EmailFromName,
			FromEmail: config.EmailFromAddress,
			ToEmail:   config.EmailToAddress,
		})
	}

	uploadService = services.NewUploadService(services.UploadServiceConfig{
		Options: config.UploadOptions(),
		Storage: objectStorage,
	})

	coverRepairService = services.NewCoverRepairService(services.CoverRepairServiceConfig{
		AlbumService:    albumService,
		SettingsService: settingsService,
		MaxWorkers:      config.MaxRepairWorkers,
		ShutdownCtx:     shutdownCtx,
	})

	/*
	 * Setup controllers
	 */
	adminController = admin.NewAdminController(admin.AdminControllerConfig{
		AlbumService:    albumService,
		AuthService:     authService,
		ContactService:  contactService,
		MaxUploadBytes:  int64(config.UploadMaxBytes),
		SessionService:  sessionService,
		SettingsService: settingsService,
		UploadService:   uploadService,
		UploadFolders: map[string]string{
			"albums":   config.AlbumUploadFolder,
			"settings": config.SettingsUploadFolder,
		},
	})

	albumsController = albums.NewAlbumsController(albums.AlbumsControllerConfig{
		AlbumService: albumService,
	})

	siteController = site.NewSiteController(site.SiteControllerConfig{
		ContactNotifier: contactNotifier,
		ContactService:  contactService,
		SettingsService: settingsService,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	adminAccessMiddleware := newAdminAccessMiddleware(
		sessionService,
		[]string{
			"/admin/login",
		},
	)

	if trustedProxies, err = parseTrustedProxies(config.TrustedProxies); err != nil {
		panic(err)
	}

	contactRateLimit := newRateLimitMiddleware(shutdownCtx, config.ContactRatePerMinute, config.ContactRateBurst, trustedProxies)
	counterRateLimit := newRateLimitMiddleware(shutdownCtx, config.CounterRatePerMinute, config.CounterRateBurst, trustedProxies)
	loginRateLimit := newRateLimitMiddleware(shutdownCtx, config.ContactRatePerMinute, config.ContactRateBurst, trustedProxies)

	adminOnly := []mux.MiddlewareFunc{adminAccessMiddleware}

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},

		{Path: "GET /api/albums", HandlerFunc: albumsController.AlbumList},
		{Path: "GET /api/albums/featured", HandlerFunc: albumsController.FeaturedAlbums},
		{Path: "GET /api/albums/{slug}", HandlerFunc: albumsController.AlbumDetail},
		{Path: "POST /api/albums/{id}/view", HandlerFunc: albumsController.RecordView, Middlewares: []mux.MiddlewareFunc{counterRateLimit}},
		{Path: "POST /api/albums/{id}/click", HandlerFunc: albumsController.RecordClick, Middlewares: []mux.MiddlewareFunc{counterRateLimit}},
		{Path: "GET /api/settings", HandlerFunc: siteController.Settings},
		{Path: "POST /api/contact", HandlerFunc: siteController.SubmitContact, Middlewares: []mux.MiddlewareFunc{contactRateLimit}},

		{Path: "POST /admin/login", HandlerFunc: adminController.LoginAction, Middlewares: []mux.MiddlewareFunc{loginRateLimit}},
		{Path: "POST /admin/logout", HandlerFunc: adminController.LogoutAction},
		{Path: "GET /admin/dashboard", HandlerFunc: adminController.Dashboard, Middlewares: adminOnly},
		{Path: "GET /admin/albums", HandlerFunc: adminController.AlbumList, Middlewares: adminOnly},
		{Path: "POST /admin/albums", HandlerFunc: adminController.CreateAlbum, Middlewares: adminOnly},
		{Path: "PUT /admin/albums/{id}", HandlerFunc: adminController.UpdateAlbum, Middlewares: adminOnly},
		{Path: "DELETE /admin/albums/{id}", HandlerFunc: adminController.DeleteAlbum, Middlewares: adminOnly},
		{Path: "PUT /admin/settings", HandlerFunc: adminController.UpdateSettings, Middlewares: adminOnly},
		{Path: "GET /admin/contacts", HandlerFunc: adminController.ContactList, Middlewares: adminOnly},
		{Path: "DELETE /admin/contacts/{id}", HandlerFunc: adminController.DeleteContact, Middlewares: adminOnly},
		{Path: "POST /admin/uploads", HandlerFunc: adminController.Upload, Middlewares: adminOnly},
		{Path: "POST /admin/normalize", HandlerFunc: adminController.Normalize, Middlewares: adminOnly},
	}

	if localStorage, ok := objectStorage.(storage.LocalStorage); ok {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(localStorage.RootDir())))
		routes = append(routes, mux.Route{Path: "GET /uploads/", HandlerFunc: fileServer.ServeHTTP})
	}

	routerConfig := mux.RouterConfig{
		Address:          config.Host,
		Debug:            Version == "development",
		HttpWriteTimeout: 60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the unused upload cleanup job. It only knows how to list S3 buckets.
	 */
	if s3Client != nil {
		uploadJanitor = services.NewUploadJanitorService(services.UploadJanitorServiceConfig{
			AlbumService:    albumService,
			SettingsService: settingsService,
			Bucket:          config.AwsBucket,
			Folders:         config.UploadFolders(),
			Retention:       time.Duration(config.JanitorRetentionDays) * 24 * time.Hour,
			S3Client:        s3Client,
			Storage:         objectStorage,
		})

		uploadJanitor.StartCleanupRoutine(time.Duration(config.JanitorIntervalHours) * time.Hour)
		defer uploadJanitor.StopCleanupRoutine()
	}

	/*
	 * Start the image link repair job
	 */
	setupCoverRepair(shutdownCtx)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func setupPersistence() {
	var (
		err   error
		store services.LocalStore
	)

	switch config.Persistence {
	case configuration.BackendLocal:
		if store, err = services.NewLocalStore(services.LocalStoreConfig{
			Path: config.LocalDataFile,
			Seed: config.SeedLocalData(),
		}); err != nil {
			panic(err)
		}

		albumService = services.NewLocalAlbumService(services.LocalAlbumServiceConfig{Store: store})
		contactService = services.NewLocalContactService(services.LocalContactServiceConfig{Store: store})
		settingsService = services.NewLocalSettingsService(services.LocalSettingsServiceConfig{Store: store})

	default:
		if db, err = database.Connect(config.DSN); err != nil {
			panic(err)
		}

		albumService = services.NewAlbumService(services.AlbumServiceConfig{DB: db})
		contactService = services.NewContactService(services.ContactServiceConfig{DB: db})
		settingsService = services.NewSettingsService(services.SettingsServiceConfig{DB: db})
	}
}

func setupStorage() {
	var (
		err error
	)

	if config.Storage != configuration.BackendS3 {
		objectStorage = storage.NewLocalStorage(storage.LocalStorageConfig{
			MaxObjectBytes: int64(config.UploadStorageLimitBytes),
			PublicBaseURL:  config.PublicBaseURL,
			RootDir:        config.LocalStorageDir,
		})

		return
	}

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		panic(err)
	}

	if s3Client, err = s3.NewClient(awsConfig); err != nil {
		panic(err)
	}

	s3Storage := storage.NewS3Storage(storage.S3StorageConfig{
		Bucket:        config.AwsBucket,
		PublicBaseURL: config.PublicBaseURL,
		Region:        config.AwsRegion,
		S3Client:      s3Client,
	})

	if err = s3Storage.EnsureBucketExists(); err != nil {
		panic(err)
	}

	objectStorage = s3Storage
}

func setupCoverRepair(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		running := false

		runner := func() {
			running = true

			defer func() {
				running = false
			}()

			coverRepairService.Repair()
		}

		runner()

		for {
			select {
			case <-ctx.Done():
				return

			case <-ticker.C:
				if running {
					slog.Info("image link repair already running. skipping...")
					continue
				}

				runner()
			}
		}
	}()
}
