package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/quota"
	"app/internal/realtime"
	"app/internal/repository"
	"app/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires the full application. It returns the root handler, the DB pool,
// and the cross-instance fanout bridge (nil when disabled) so main can run
// the bridge's receive loop and close everything on shutdown.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *sql.DB, *realtime.PubSubBridge, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initialized")

	// Open DB connection (connection pooling)
	dsn := cfg.DBConnectionString
	// Local development runs without SSL. Production connection strings are
	// expected to carry their own SSL settings.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := " "
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			if strings.Contains(dsn, "?") {
				separator = "&"
			} else {
				separator = "?"
			}
		}
		dsn += separator + "sslmode=disable"
	}
	// Transaction poolers like pgbouncer break server-side prepared
	// statements, so use the simple query protocol outside development.
	if cfg.Environment != "development" {
		if !strings.Contains(dsn, "prefer_simple_protocol") {
			separator := "&"
			if !strings.Contains(dsn, "?") {
				separator = "?"
			}
			dsn += separator + "prefer_simple_protocol=true"
		}
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open DB connection")
		return nil, nil, nil, err
	}
	if err := db.Ping(); err != nil {
		logger.Error().Err(err).Msg("Failed to ping DB")
		return nil, nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// S3 client for asset uploads
	s3Config, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load S3 config")
		return nil, nil, nil, err
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})

	validate := validator.New(validator.WithRequiredStructEnabled())

	// Realtime hub, with an optional Pub/Sub bridge for multi-instance
	// deployments.
	hub := realtime.NewHub(logger)
	var bridge *realtime.PubSubBridge
	if cfg.FanoutBridgeEnabled {
		hostname, _ := os.Hostname()
		instanceID := fmt.Sprintf("%s-%d", hostname, os.Getpid())
		bridge, err = realtime.NewPubSubBridge(context.Background(), cfg.GCPProjectID, cfg.FanoutTopic, cfg.FanoutSubscription, instanceID, logger)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to create fanout bridge")
			return nil, nil, nil, err
		}
		hub.SetBridge(bridge)
		// The receive loop runs until the bridge is closed on shutdown.
		go func() {
			if err := bridge.Receive(context.Background(), hub); err != nil {
				logger.Error().Err(err).Msg("Fanout bridge receive loop stopped")
			}
		}()
	}

	evaluator := quota.Evaluator{
		FolderLimit:       cfg.FreePlanFolderLimit,
		CollaboratorLimit: cfg.FreePlanCollaboratorLimit,
	}

	// Repositories, services, handlers
	userRepo := repository.NewUserRepo(db)
	workspaceRepo := repository.NewWorkspaceRepo(db, logger)
	folderRepo := repository.NewFolderRepo(db, logger)
	fileRepo := repository.NewFileRepo(db, logger)
	collaboratorRepo := repository.NewCollaboratorRepo(db)
	subscriptionRepo := repository.NewSubscriptionRepo(db)

	userSvc := service.NewUserService(userRepo)
	workspaceSvc := service.NewWorkspaceService(workspaceRepo, collaboratorRepo, logger)
	folderSvc := service.NewFolderService(folderRepo, workspaceSvc, subscriptionRepo, evaluator, logger)
	fileSvc := service.NewFileService(fileRepo, folderSvc, hub, logger)
	collaboratorSvc := service.NewCollaboratorService(collaboratorRepo, userRepo, workspaceSvc, subscriptionRepo, evaluator, logger)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo)
	uploadSvc := service.NewUploadService(s3Client, cfg.S3Bucket, cfg.S3URL, logger)

	userHandler := handler.NewUserHandler(userSvc, collaboratorSvc, validate, logger)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceSvc, validate, logger)
	folderHandler := handler.NewFolderHandler(folderSvc, validate, logger)
	fileHandler := handler.NewFileHandler(fileSvc, validate, logger)
	collaboratorHandler := handler.NewCollaboratorHandler(collaboratorSvc, validate, logger)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionSvc, logger)
	uploadHandler := handler.NewUploadHandler(uploadSvc, subscriptionSvc, logger)
	realtimeHandler := handler.NewRealtimeHandler(hub, cfg.JWTSecret, logger)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	mux := http.NewServeMux()

	// API v1 routes under /v1
	apiV1Mux := http.NewServeMux()
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	workspaceHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	folderHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	fileHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	collaboratorHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	subscriptionHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	uploadHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// The websocket endpoint stays at the root so the path matches what
	// clients were built against.
	realtimeHandler.RegisterRoutes(mux, cfg.SocketPath)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		Debug:            false,
	})

	return middleware.LoggerMiddleware(c.Handler(mux)), db, bridge, nil
}

// removeDisableGzip is a workaround for S3 signature errors with some
// S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
