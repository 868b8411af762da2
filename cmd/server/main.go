package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codexoft-ke/alx-travel-app-0x03/internal/application/services"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/config"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/chapa"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/mail"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/infrastructure/persistence/postgres"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/interfaces/rest/handlers"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/interfaces/rest/middleware"
	"github.com/codexoft-ke/alx-travel-app-0x03/internal/worker"
	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting travel booking service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	paymentRepo := postgres.NewPaymentRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	listingRepo := postgres.NewListingRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	userRepo := postgres.NewUserRepository(db)
	coordinator := postgres.NewTransactionCoordinator(db)

	chapaClient := chapa.NewClient(cfg.Chapa)
	gateway := chapa.NewRetryClient(chapaClient, cfg.Retry)

	mailer := mail.NewSMTPMailer(cfg.Mail)
	notifier := worker.NewNotifier(cfg.Notifier, paymentRepo, bookingRepo, listingRepo, userRepo, mailer, logger)

	listingService := services.NewListingService(listingRepo, reviewRepo, logger)
	bookingService := services.NewBookingService(bookingRepo, listingRepo, notifier, logger)
	reviewService := services.NewReviewService(reviewRepo, listingRepo, bookingRepo, logger)
	initiateService := services.NewInitiatePaymentService(paymentRepo, bookingRepo, userRepo, listingRepo, gateway, cfg.Chapa, logger)
	verifyService := services.NewVerifyPaymentService(paymentRepo, coordinator, gateway, notifier, logger)
	queryService := services.NewQueryService(paymentRepo, bookingRepo)

	h := handlers.NewHandlers(
		listingService,
		bookingService,
		reviewService,
		initiateService,
		verifyService,
		queryService,
		logger,
	)

	router := mux.NewRouter()
	h.Register(router)

	handler := middleware.Recovery(logger)(router)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	notifier.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()
	notifier.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
