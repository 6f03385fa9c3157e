package app

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/auth"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/handlers"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/mailer"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/media"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/middlewares"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/internal/store"
	"github.com/HasiburRahman-hr11/ami-video-uploader-server/migrations"
)

type Application struct {
	Logger            *log.Logger
	db                *sql.DB
	MiddlewareHandler *middlewares.MiddlewareHandler
	UserHandler       *handlers.UserHandler
	VideoHandler      *handlers.VideoHandler
}

func NewApplication() (*Application, error) {
	logger := log.New(os.Stdout, "LOGGING: ", log.Ldate|log.Ltime)

	if err := godotenv.Load(); err != nil {
		logger.Println("No .env file found, using process environment")
	}

	pgDB, err := store.ConnectPGDB()
	if err != nil {
		logger.Println("Error connecting to db")
		return nil, err
	}

	err = store.MigrateFS(pgDB, migrations.FS, ".")
	if err != nil {
		logger.Println("PANIC: Postgresql migration failed, exiting...")
		return nil, err
	}

	logger.Println("Database migrated...")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	tokens := auth.NewTokenProvider(jwtSecret)

	mediaStore, err := media.NewS3Store(os.Getenv("AWS_REGION"), os.Getenv("S3_BUCKET"))
	if err != nil {
		logger.Println("Error creating media store")
		return nil, err
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	smtpMailer := mailer.NewSMTPMailer(
		os.Getenv("SMTP_HOST"),
		smtpPort,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASS"),
	)

	userStore := store.NewPostgresUserStore(pgDB)
	videoStore := store.NewPostgresVideoStore(pgDB)

	userHandler := handlers.NewUserHandler(userStore, tokens, smtpMailer, logger)
	videoHandler := handlers.NewVideoHandler(videoStore, userStore, mediaStore, logger)

	middlewareHandler := middlewares.NewMiddlewareHandler(logger, tokens)

	app := &Application{
		Logger:            logger,
		db:                pgDB,
		MiddlewareHandler: middlewareHandler,
		UserHandler:       userHandler,
		VideoHandler:      videoHandler,
	}

	return app, nil
}
