package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/config"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/handler"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/integrations/billerdir"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/middleware"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/repository"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/service"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	if err := repo.InitSchema(); err != nil {
		logger.Fatalf("Failed to initialize schema: %v", err)
	}
	var sender service.EmailSender
	if cfg.EmailEnabled {
		sender = email.NewSender(cfg, logger)
	}
	svc := service.NewService(repo, logger, cfg, sender)
	var directory handler.BillerDirectory
	if cfg.BillerDirURL != "" {
		directory = billerdir.NewClient(cfg, logger)
	}
	h := handler.NewHandler(svc, directory)

	// Schedule execution: scan for due schedules on the configured cadence
	c := cron.New()
	if _, err := c.AddFunc(cfg.ScheduleCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := svc.ExecuteSchedules(ctx); err != nil {
			logger.Errorf("Schedule execution failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Invalid SCHEDULE_CRON %q: %v", cfg.ScheduleCron, err)
	}
	c.Start()
	defer c.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/accounts", h.CreateAccount).Methods("POST")
	authRouter.HandleFunc("/accounts", h.ListAccounts).Methods("GET")
	authRouter.HandleFunc("/accounts/{id}/transactions", h.ListTransactions).Methods("GET")
	authRouter.HandleFunc("/transfers", h.Transfer).Methods("POST")
	authRouter.HandleFunc("/bpay", h.PayBPAY).Methods("POST")
	authRouter.HandleFunc("/schedules", h.CreateSchedule).Methods("POST")
	authRouter.HandleFunc("/schedules", h.ListSchedules).Methods("GET")
	authRouter.HandleFunc("/bills", h.ListBills).Methods("GET")
	authRouter.HandleFunc("/billers", h.ListBillers).Methods("GET")
	authRouter.HandleFunc("/messages", h.ListMessages).Methods("GET")
	authRouter.HandleFunc("/messages/{id}/read", h.MarkMessageRead).Methods("PATCH")
	// Admin console routes
	adminRouter := authRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminOnly)
	adminRouter.HandleFunc("/billers", h.CreateBiller).Methods("POST")
	adminRouter.HandleFunc("/billers/{id}", h.DeleteBiller).Methods("DELETE")
	adminRouter.HandleFunc("/billers/import", h.ImportBillers).Methods("POST")
	adminRouter.HandleFunc("/bills", h.IssueBill).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
