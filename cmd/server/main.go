package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tmsiti/tmsiti-backend/internal/config"
	"github.com/tmsiti/tmsiti-backend/internal/es"
	"github.com/tmsiti/tmsiti-backend/internal/handlers"
	"github.com/tmsiti/tmsiti-backend/internal/i18n"
	"github.com/tmsiti/tmsiti-backend/internal/logging"
	authmw "github.com/tmsiti/tmsiti-backend/internal/middleware/auth"
	loggingmw "github.com/tmsiti/tmsiti-backend/internal/middleware/logging"
	"github.com/tmsiti/tmsiti-backend/internal/mykafka"
	"github.com/tmsiti/tmsiti-backend/internal/token"
	httpserver "github.com/tmsiti/tmsiti-backend/internal/transport/http"
	"github.com/tmsiti/tmsiti-backend/internal/upload"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	prod := mykafka.NewProducer(strings.Split(configuration.KAFKA_ADDRESS, ","))

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	tokens := &token.Service{
		Secret:     []byte(configuration.SECRET_KEY),
		AccessTTL:  configuration.AccessTTL,
		RefreshTTL: configuration.RefreshTTL,
	}

	uploads := &upload.Validator{
		MaxSize: configuration.MaxFileSize,
		Dir:     configuration.UPLOAD_DIR,
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler(logger)
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: configuration.CORS_ORIGINS,
		}),
		i18n.Middleware(configuration.DEFAULT_LANG),
		loggingmw.RequestLogger(logger),
	)

	deps := httpserver.Deps{
		AuthMW:             &authmw.Middleware{DB: db, Tokens: tokens},
		AuthHandler:        &handlers.AuthHandler{DB: db, Tokens: tokens, Producer: prod},
		UserHandler:        &handlers.UserHandler{DB: db, Producer: prod},
		NewsHandler:        &handlers.NewsHandler{DB: db, Producer: prod, Uploads: uploads, ES: esClient, Index: es.NewsIndex},
		RegulationsHandler: &handlers.RegulationsHandler{DB: db, Uploads: uploads},
		InstituteHandler:   &handlers.InstituteHandler{DB: db},
		ContactHandler:     &handlers.ContactHandler{DB: db},
		SearchHandler:      &handlers.SearchHandler{ES: esClient, Index: es.NewsIndex},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}
}
