package bootstrap

import (
	"context"
	"log"

	"shopflow-be/internal/config"
	"shopflow-be/internal/controller"
	"shopflow-be/internal/handler"
	"shopflow-be/internal/pkg/logger"
	"shopflow-be/internal/pkg/mailer"
	"shopflow-be/internal/repository/implementation"
	"shopflow-be/internal/repository/unitofwork"
	"shopflow-be/internal/service"
	"shopflow-be/internal/websocket"
	"shopflow-be/pkg/cache"
	"shopflow-be/pkg/orderevents"
	"shopflow-be/pkg/shipping"

	pktNats "shopflow-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	OrderController  controller.IOrderController
	ReturnController controller.IReturnController

	// Background workers (exposed for main.go to run)
	MailDispatcher *service.MailDispatcher

	// WebSockets & notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}

	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	orderCache := cache.NewOrderCache(rdb)
	feeEstimator := shipping.NewZoneEstimator()

	// 3. Services
	eventPublisher := orderevents.NewNatsPublisher(natsPub, sysLogger)
	mailDispatcher := service.NewMailDispatcher(emailService, sysLogger)

	returnService := service.NewReturnService(
		uowFactory,
		eventPublisher,
		mailDispatcher,
		feeEstimator,
		orderCache,
		sysLogger,
	)
	orderService := service.NewOrderService(uowFactory, orderCache, sysLogger)

	// 4. Notification system
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, sysLogger)
	if natsSub != nil {
		go notifService.Start()
	}
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, sysLogger)

	return &Container{
		OrderController:     controller.NewOrderController(orderService),
		ReturnController:    controller.NewReturnController(returnService),
		MailDispatcher:      mailDispatcher,
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
	}
}
