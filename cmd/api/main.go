package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/skota27/bus_booking/internal/adapter/cache/rediscache"
	"github.com/skota27/bus_booking/internal/adapter/gateway/phonepe"
	"github.com/skota27/bus_booking/internal/adapter/handler"
	"github.com/skota27/bus_booking/internal/adapter/notifier/mail"
	"github.com/skota27/bus_booking/internal/adapter/repository/postgres"
	"github.com/skota27/bus_booking/internal/core/services"
	"github.com/skota27/bus_booking/internal/platform/database"
	"github.com/skota27/bus_booking/internal/platform/redisconn"
)

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using OS environment.")
	}

	dbConfig := database.Config{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "postgres"),
		Password: getenv("DB_PASSWORD", ""),
		DBName:   getenv("DB_NAME", "bus_booking"),
	}

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to db after retries: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	defer db.Close()

	redisClient, err := redisconn.NewClient(redisconn.Config{
		Host:     getenv("REDIS_HOST", "localhost"),
		Port:     getenv("REDIS_PORT", "6379"),
		Password: getenv("REDIS_PASSWORD", ""),
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	gateway := phonepe.NewClient(phonepe.Config{
		MerchantID:  os.Getenv("PHONEPE_MERCHANT_ID"),
		SaltKey:     os.Getenv("PHONEPE_SALT_KEY"),
		SaltIndex:   getenv("PHONEPE_SALT_INDEX", "1"),
		BaseURL:     getenv("PHONEPE_BASE_URL", "https://api-preprod.phonepe.com/apis/pg-sandbox"),
		RedirectURL: os.Getenv("PAYMENT_REDIRECT_URL"),
		CallbackURL: getenv("BASE_URL", "http://localhost:8080") + "/payments/validate",
	})

	smtpPort, err := strconv.Atoi(getenv("SMTP_PORT", "587"))
	if err != nil {
		log.Fatalf("Invalid SMTP_PORT: %v", err)
	}

	notifier, err := mail.NewNotifier(mail.Config{
		Host:     getenv("SMTP_HOST", "localhost"),
		Port:     smtpPort,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getenv("SMTP_FROM", "bookings@localhost"),
	})
	if err != nil {
		log.Fatalf("Failed to create mail notifier: %v", err)
	}

	routeRepo := postgres.NewRouteRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	seatCache := rediscache.NewSeatCache(redisClient)
	reservationLock := rediscache.NewReservationLock(redisClient)

	reservationService := services.NewReservationService(
		routeRepo,
		bookingRepo,
		seatCache,
		reservationLock,
		gateway,
		notifier,
	)

	reservationHandler := handler.NewReservationHandler(reservationService)

	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()

	go func() {
		reservationService.RunSettlementPoller(pollerCtx)
	}()

	mux := http.NewServeMux()

	mux.HandleFunc("/bookings", reservationHandler.CreateReservation)
	mux.HandleFunc("/payments/validate", reservationHandler.PaymentWebhook)
	mux.HandleFunc("/payments/status", reservationHandler.PaymentStatus)
	mux.HandleFunc("/routes", reservationHandler.ListRoutes)

	server := &http.Server{
		Addr:         ":" + getenv("PORT", "8080"),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	stopPoller()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
