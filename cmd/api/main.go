package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"treinoexpresso/cmd/internal/config"
	"treinoexpresso/cmd/internal/domain/database"
	"treinoexpresso/cmd/internal/domain/database/repository"
	"treinoexpresso/cmd/internal/domain/policy"
	"treinoexpresso/cmd/internal/http/handler"
	authmiddleware "treinoexpresso/cmd/internal/http/middleware"
	cognitoclient "treinoexpresso/cmd/internal/infrastructure/aws/cognito"
	"treinoexpresso/cmd/internal/infrastructure/aws/storage"
	gcsstorage "treinoexpresso/cmd/internal/infrastructure/gcp/storage"
	"treinoexpresso/cmd/internal/infrastructure/mail"
	"treinoexpresso/cmd/internal/infrastructure/minhareceita"
	"treinoexpresso/cmd/internal/infrastructure/objectstore"
	"treinoexpresso/cmd/internal/service"
	"treinoexpresso/cmd/internal/service/jobs"
	"treinoexpresso/cmd/internal/utils"
	"treinoexpresso/cmd/internal/utils/uid"
	"treinoexpresso/cmd/internal/utils/validators"
)

func main() {
	ctx := context.Background()

	// Loads env vars depending on environment
	if err := config.LoadEnv(ctx); err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}

	settings, err := config.FromEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	log.SetLevel(settings.LogLevel)

	validate := validator.New()
	if err := validators.Register(validate); err != nil {
		log.Fatalf("failed to register validators: %v", err)
	}

	if err := uid.Init(settings.SnowflakeNode); err != nil {
		log.Fatal(err)
	}

	db, err := database.Init(settings.DBDriver, settings.DBDSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	cogClient, err := cognitoclient.NewClient(ctx, settings.CognitoRegion, settings.CognitoAppClientID)
	if err != nil {
		log.Fatalf("failed to create cognito client: %v", err)
	}

	if err := utils.InitJWKS(settings.CognitoRegion, settings.CognitoUserPoolID); err != nil {
		log.Fatal(err)
	}

	store, closeStore, err := newObjectStore(ctx, settings)
	if err != nil {
		log.Fatalf("failed to create storage client: %v", err)
	}
	defer closeStore()

	mailer, err := mail.New(settings.MailProvider, settings.ResendAPIKey, settings.SendGridAPIKey)
	if err != nil {
		log.Fatalf("failed to create mailer: %v", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	prestacaoRepo := repository.NewPrestacaoRepository(db)
	agendamentoRepo := repository.NewAgendamentoRepository(db)
	datasetRepo := repository.NewDatasetRepository(db)
	companyRepo := repository.NewCompanyRepository(db)

	// Services
	pol := policy.NewAccessPolicy()
	clock := service.NewClock(settings.Location)
	reader := service.NewDatasetReader(store)

	userService := service.NewUserService(userRepo, validate, cogClient, pol, settings.IsAdminEmail)
	rosterService := service.NewRosterService(reader, agendamentoRepo, clock, validate)
	trainingService := service.NewTrainingService(agendamentoRepo, datasetRepo, store, reader, pol, clock, validate)
	prestacaoService := service.NewPrestacaoService(prestacaoRepo, store, pol, clock, validate)
	datasetService := service.NewDatasetService(datasetRepo, store, pol)
	lojaService := service.NewLojaService(repository.NewLojaRepository(db), pol)
	arquivoService := service.NewArquivoService(repository.NewArquivoRepository(db), store, pol, validate)
	miscService := service.NewMiscService(minhareceita.NewClient(settings.MinhaReceitaURL), companyRepo, service.MailEnv{
		ResendAPIKey: settings.ResendAPIKeySet,
		FromEmail:    settings.FromEmailSet,
		MailTo:       settings.MailToSet,
	})
	baixaService := service.NewBaixaService(mailer, settings.FromEmail, settings.MailTo, clock)

	// Background jobs
	scheduler := jobs.NewScheduler(settings.Location)
	if err := scheduler.Register(settings.CompanyCacheSchedule, jobs.NewCompanyCacheCleaner(companyRepo)); err != nil {
		log.Fatal(err)
	}
	scheduler.Start()

	routes := &handler.Routes{
		Users:      handler.NewUserDefault(userService),
		Roster:     handler.NewRosterRoute(rosterService, service.NewMicrosseguroService(reader), service.NewCertificateService(reader)),
		Datasets:   handler.NewDatasetRoute(datasetService),
		Training:   handler.NewTrainingRoute(trainingService),
		Prestacoes: handler.NewPrestacaoRoute(prestacaoService),
		Lojas:      handler.NewLojaRoute(lojaService, arquivoService),
		Util:       handler.NewUtilRoute(miscService, baixaService),
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(settings.LogLevel)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Infof("%s %s %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, handler.HeaderIdempotencyKey},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))
	e.Use(middleware.BodyLimit(settings.BodyLimit))

	auth := authmiddleware.NewAuthMiddleware(&authmiddleware.AuthMiddlewareConfig{Users: userService})
	routes.Register(e, auth)

	go func() {
		if err := e.Start(":" + settings.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shut down server: %v", err)
	}
}

func newObjectStore(ctx context.Context, settings *config.Settings) (objectstore.Store, func(), error) {
	if settings.StorageProvider == "gcs" {
		client, err := gcsstorage.NewClient(ctx, settings.GCSBucket, settings.GCSCredentialsJSON)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {
			if err := client.Close(); err != nil {
				log.Warnf("failed to close GCS client: %v", err)
			}
		}, nil
	}

	client, err := storage.NewStorageClient(ctx, settings.S3Region, settings.S3Bucket)
	if err != nil {
		return nil, nil, err
	}
	return client, func() {}, nil
}
