package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ashukla/ridepool/internal/config"
	"github.com/ashukla/ridepool/internal/es"
	"github.com/ashukla/ridepool/internal/handlers"
	"github.com/ashukla/ridepool/internal/logging"
	authmw "github.com/ashukla/ridepool/internal/middleware/auth"
	"github.com/ashukla/ridepool/internal/mykafka"
	"github.com/ashukla/ridepool/internal/repo"
	"github.com/ashukla/ridepool/internal/service"
	"github.com/ashukla/ridepool/internal/token"
	httpserver "github.com/ashukla/ridepool/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	tokens, err := token.New([]byte(configuration.JWT_SECRET), configuration.TOKEN_TTL)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	revoked := token.NewRevocationRegistry()

	policy, err := authmw.NewPolicy(httpserver.PolicyRules())
	if err != nil {
		log.Fatalf("authorization policy: %v", err)
	}

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}

	rp := &repo.GormRepo{DB: db}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		Logger: logger,
		AuthMW: &authmw.Middleware{Tokens: tokens, Revoked: revoked, Policy: policy},
		AuthHandler: &handlers.AuthHandler{
			Svc: &service.AuthService{Repo: rp, Tokens: tokens, Revoked: revoked, Producer: prod},
		},
		RideHandler: &handlers.RideHandler{
			Svc: &service.RideService{Repo: rp, Producer: prod, ES: esClient},
		},
		BookingHandler: &handlers.BookingHandler{
			Svc: &service.BookingService{Repo: rp, Producer: prod},
		},
		NotificationHandler: &handlers.NotificationHandler{
			Svc: &service.NotificationService{Repo: rp},
		},
		SearchHandler: &handlers.SearchHandler{ES: esClient, Index: es.RideIndex},
		AdminHandler:  &handlers.AdminHandler{Repo: rp},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.SERVER_PORT,
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

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db handle error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
