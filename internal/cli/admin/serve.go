package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mtqmn/qalbu/internal/api/handlers"
	"github.com/mtqmn/qalbu/internal/config"
	"github.com/mtqmn/qalbu/internal/database"
	"github.com/mtqmn/qalbu/internal/index"
	"github.com/mtqmn/qalbu/internal/jobs"
	"github.com/mtqmn/qalbu/internal/repository"
	"github.com/mtqmn/qalbu/internal/server"
	"github.com/mtqmn/qalbu/internal/service"
	"github.com/mtqmn/qalbu/internal/storage"
	"github.com/mtqmn/qalbu/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the qalbu API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		environment := cfg.SentryEnvironment
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := cfg.SentrySampleRate
		if sampleRate == 0 {
			sampleRate = 0.1
			if environment == "development" {
				sampleRate = 1.0
			}
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	quranRepo := repository.NewQuranRepository(pool)
	chatLogRepo := repository.NewChatLogRepository(pool)
	audioRepo := repository.NewAudioRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	ix := index.New(knowledgeRepo, cfg.MaxVocabulary)
	if count, err := ix.Rebuild(ctx); err != nil {
		log.Printf("initial index build failed, serving empty until next reload: %v", err)
	} else {
		log.Printf("index ready with %d items", count)
	}

	feedbackSvc := service.NewFeedbackService(txRunner)
	dispatcher := jobs.NewFeedbackDispatcher(feedbackSvc, cfg.FeedbackQueueSize)
	go dispatcher.Start(ctx)

	reloadWorker := jobs.NewWorker("reload", jobs.NewReloadProcessor(ix), cfg.ReloadInterval)
	go reloadWorker.Start(ctx)

	fallback := service.NewFallbackResolver(quranRepo, service.ErrorPolicy(cfg.FallbackErrorPolicy))
	chatSvc := service.NewChatService(ix, fallback, dispatcher, chatLogRepo, cfg.SimilarityThreshold, cfg.TopK)
	adminSvc := service.NewAdminService(ix, knowledgeRepo, pool)

	var audioStorage service.AudioStorage
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		audioStorage = s3Client
		log.Printf("S3 storage configured (bucket '%s')", cfg.S3Bucket)
	}
	audioSvc := service.NewAudioService(audioRepo, audioStorage)

	router := server.NewRouter(server.RouterConfig{
		ChatHandler:  handlers.NewChatHandler(chatSvc, feedbackSvc),
		AdminHandler: handlers.NewAdminHandler(adminSvc),
		AudioHandler: handlers.NewAudioHandler(audioSvc),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	reloadWorker.Stop()
	dispatcher.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	// golang-migrate needs database/sql, not pgx native
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
