package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"investdash/internal/config"
	"investdash/internal/database"
	"investdash/internal/handlers"
	"investdash/internal/service"
	"investdash/web"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	// Load .env file if it exists, but don't fail if it's missing (e.g. in production)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}
	logger.SetLevel(cfg.Level())

	tmpl, err := web.Templates()
	if err != nil {
		logger.Fatalf("parse templates: %v", err)
	}

	dsn := cfg.DSN()
	if err := database.RunMigrations(dsn); err != nil {
		logger.Fatalf("migrations failed: %v", err)
	}

	db, err := initDB(dsn)
	if err != nil {
		logger.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	r := database.New(db, logger)
	dash := service.NewDashboard(r, cfg.TopK, logger)
	h := handlers.NewHandler(r, dash, logger)

	rg := gin.Default()
	rg.SetHTMLTemplate(tmpl)
	h.Register(rg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           rg,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		s := <-sig
		logger.Infof("shutdown signal received: %s", s)

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Errorf("server shutdown error: %v", err)
		}
	}()

	logger.Infof("server starting on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("server error: %v", err)
		return
	}
	logger.Info("server stopped")
}

// initDB opens the single pool shared by every request.
func initDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return db, nil
}
