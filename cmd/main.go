package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"vehicle-insurance-service/internal/config"
	"vehicle-insurance-service/internal/database/minio"
	"vehicle-insurance-service/internal/database/postgres"
	"vehicle-insurance-service/internal/database/redis"
	"vehicle-insurance-service/internal/event"
	"vehicle-insurance-service/internal/handlers"
	"vehicle-insurance-service/internal/repository"
	"vehicle-insurance-service/internal/services"
	"vehicle-insurance-service/internal/worker"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/var", "log", "vehicle_insurance_service")
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Printf("Failed to set up file logging, continuing on stderr: %v", err)
	} else {
		defer logFile.Close()
	}

	cfg := config.New()

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connect to database: %s", err)
		go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	redisClient, err := redis.NewRedisClient(
		cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		log.Fatalf("failed to connect to redis: %s", err)
	}
	defer redisClient.Close()

	minioClient, err := minio.NewMinioClient(cfg.MinioCfg)
	if err != nil {
		log.Fatalf("failed to connect to minio: %s", err)
	}

	// Event publishing is best-effort; the service runs without the broker.
	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("failed to connect to rabbitmq, events will not be published: %s", err)
	} else {
		defer rabbitConn.Close()
	}
	publisher := event.NewNotificationPublisher(rabbitConn)

	// Repositories
	estimateRepo := repository.NewEstimateRepository(db)
	policyRepo := repository.NewPolicyRepository(db)
	billRepo := repository.NewBillRepository(db)
	claimRepo := repository.NewClaimRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	mailer := services.NewMailer(cfg.SMTPCfg)
	notifier := services.NewNotifier(notificationRepo, accountRepo, publisher, mailer)
	lifecycleService := services.NewLifecycleService(policyRepo, accountRepo, redisClient, notifier)
	estimateService := services.NewEstimateService(estimateRepo, accountRepo, notifier)
	policyService := services.NewPolicyService(
		policyRepo, estimateRepo, billRepo, claimRepo, accountRepo, lifecycleService, notifier)
	billingService := services.NewBillingService(billRepo, policyService, notifier)
	claimService := services.NewClaimService(claimRepo, policyRepo, accountRepo, lifecycleService, notifier)
	inspectionService := services.NewInspectionService(inspectionRepo, claimRepo, accountRepo, notifier)
	documentService := services.NewDocumentService(minioClient)
	authService := services.NewAuthService(accountRepo, cfg.JWTSecret)
	otpService := services.NewOTPService(redisClient, mailer)

	app := fiber.New()

	app.Get("/checkhealth", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("Vehicle insurance service is healthy")
	})

	handlers.NewEstimateHandler(estimateService).Register(app)
	handlers.NewPolicyHandler(policyService, lifecycleService, documentService, minioClient).Register(app)
	handlers.NewBillingHandler(billingService, policyService, documentService).Register(app)
	handlers.NewClaimHandler(claimService).Register(app)
	handlers.NewInspectionHandler(inspectionService, minioClient).Register(app)
	handlers.NewAuthHandler(authService, otpService).Register(app)
	handlers.NewNotificationHandler(notificationRepo).Register(app)

	intervalMin, err := strconv.Atoi(cfg.LifecycleIntervalMin)
	if err != nil || intervalMin <= 0 {
		intervalMin = 15
	}
	lifecycleWorker := worker.NewLifecycleWorker(lifecycleService, time.Duration(intervalMin)*time.Minute)
	lifecycleWorker.Start()

	go func() {
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	lifecycleWorker.Stop()
	if err := app.Shutdown(); err != nil {
		log.Printf("server shutdown error: %s", err)
	}
	if db != nil {
		db.Close()
	}
	log.Println("shutdown complete")
}
