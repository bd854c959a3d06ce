package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ethannchen/nextqnaweb-sub001/internal/database"
	"github.com/ethannchen/nextqnaweb-sub001/internal/engine"
	"github.com/ethannchen/nextqnaweb-sub001/internal/server"
	"github.com/ethannchen/nextqnaweb-sub001/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using environment variables")
	}

	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(lvl)
	}

	db, err := database.New()
	if err != nil {
		logrus.Fatalf("failed to initialize database: %v", err)
	}
	defer database.Close(db)

	eng, err := engine.New(context.Background(), store.NewGorm(db), engine.Options{})
	if err != nil {
		logrus.Fatalf("failed to initialize engine: %v", err)
	}

	srv := server.New(eng)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown error: %v", err)
	}
}
