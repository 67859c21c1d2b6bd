// File: tutorhive/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutorhive/config"
	"tutorhive/cron"
	"tutorhive/database"
	"tutorhive/database/repository"
	"tutorhive/handlers"
	"tutorhive/middleware"
	"tutorhive/routes"
	"tutorhive/services/booking"
	"tutorhive/services/meeting"
	"tutorhive/services/notification"
	paymentSvc "tutorhive/services/payment"
	"tutorhive/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitBookingCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	slotRepo := repository.NewMongoSlotRepo()
	sessionRepo := repository.NewMongoSessionRepo()
	paymentRepo := repository.NewMongoPaymentRepo()
	userRepo := repository.NewMongoUserRepo()

	if err := slotRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure slot indexes: %v", err)
	}

	// services.
	gateway := paymentSvc.NewStripeGateway()
	provisioner := meeting.NewZoomProvisioner()
	notifier := notification.NewEmailNotificationService()

	taskClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	defer taskClient.Close()

	bookingService := &booking.DefaultBookingService{
		Slots:       slotRepo,
		Sessions:    sessionRepo,
		Payments:    paymentRepo,
		Users:       userRepo,
		Gateway:     gateway,
		Provisioner: provisioner,
		Notifier:    notifier,
		Refunds:     booking.NewRefundPolicy(config.AppConfig.RefundUnitDivisor),
		Tasks:       &booking.AsynqEnqueuer{Client: taskClient},
		Tokens:      &booking.RedisCancelTokenStore{Client: utils.GetBookingCacheClient()},
	}

	bookingHandler := handlers.NewBookingHandler(bookingService)

	// Register routes.
	routes.RegisterRoutes(router, bookingHandler)

	// Background workers.
	go cron.InitProvisionWorker(sessionRepo, provisioner)
	go utils.StartHealthMonitor(utils.GetBookingCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
