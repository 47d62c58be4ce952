package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calendar_notifier/internal/app"
	"calendar_notifier/internal/domain/notification"
	"calendar_notifier/internal/infra/bus"
	"calendar_notifier/internal/infra/config"
	idb "calendar_notifier/internal/infra/database"
	"calendar_notifier/internal/infra/email"
	"calendar_notifier/internal/infra/logger"
	"calendar_notifier/internal/infra/popup"
	"calendar_notifier/internal/infra/scanner"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	log := logger.New(cfg)
	log.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"scan_cron":   cfg.ScanCronSpec,
		"http_addr":   cfg.HTTPAddr,
	}).Info("calendar notifier starting")

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("database connection established")

	users := idb.NewPostgresUserDirectory(db)
	events := idb.NewPostgresEventDirectory(db)

	mailer, err := email.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUsername, cfg.SMTPPassword)
	if err != nil {
		log.Fatalf("FATAL: Could not configure SMTP mailer: %v", err)
	}
	hub := popup.NewHub(log)

	notifBus := bus.New(log)
	prefs := app.NewPreferenceResolver(users, log)
	dispatcher := app.NewDispatcher(users, prefs, mailer, hub, log)
	notifBus.Subscribe(dispatcher.Handle)

	publisher := app.NewPublisher(notifBus, users, events, log)

	scan := scanner.New(events, users, prefs, notifBus, log, cfg.ScanCronSpec, cfg.ScanTick)
	if err := scan.Start(); err != nil {
		log.Fatalf("FATAL: Could not start upcoming-event scanner: %v", err)
	}

	router := chi.NewRouter()
	router.Get("/ws/notifications", hub.AttachHandler)
	router.Post("/api/notifications", publishHandler(publisher, log))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()
	log.Info("application setup complete, scanner and popup endpoint are running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	scan.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown was not clean")
	}
	log.Info("shut down gracefully")
}

type publishRequest struct {
	Category   notification.Category `json:"category"`
	Title      string                `json:"title"`
	Body       string                `json:"body"`
	Recipients []string              `json:"recipients"`
}

// publishHandler is the thin intake for the surrounding CRUD services: they
// post an already rendered notification and the engine fans it out. The
// response mirrors the synchronous publish contract, so a fan-out failure
// fails the request.
func publishHandler(publisher *app.Publisher, log *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req publishRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		err := publisher.Publish(r.Context(), req.Category, req.Title, req.Body, req.Recipients)
		if err != nil {
			log.WithError(err).WithField("category", req.Category).Warn("publish request failed")
			if errors.Is(err, bus.ErrNoRecipients) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "notification dispatch failed", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}
}
