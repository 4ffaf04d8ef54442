package di

import (
	"context"
	"fmt"

	"github.com/atlastrips/travel-booking/internal/config"
	"github.com/atlastrips/travel-booking/internal/database"
	"github.com/atlastrips/travel-booking/internal/gateway"
	"github.com/atlastrips/travel-booking/internal/handler"
	"github.com/atlastrips/travel-booking/internal/logger"
	"github.com/atlastrips/travel-booking/internal/notify"
	"github.com/atlastrips/travel-booking/internal/repository"
	"github.com/atlastrips/travel-booking/internal/service"
	"github.com/atlastrips/travel-booking/internal/worker"
)

// Container wires the application together
type Container struct {
	Config *config.Config
	DB     *database.PostgresDB

	BookingService service.BookingService

	BookingHandler *handler.BookingHandler
	WebhookHandler *handler.WebhookHandler
	HealthHandler  *handler.HealthHandler

	ExpiryWorker *worker.ExpiryWorker
}

// NewContainer builds all dependencies
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		MaxRetries:      3,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	bookingRepo := repository.NewPostgresBookingRepository(db)
	catalogRepo := repository.NewPostgresCatalogRepository(db)

	var payments gateway.PaymentGateway
	if cfg.Stripe.SecretKey != "" {
		payments, err = gateway.NewStripeGateway(&gateway.StripeGatewayConfig{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
			Currency:      cfg.Stripe.Currency,
			SuccessURL:    cfg.Stripe.SuccessURL,
			CancelURL:     cfg.Stripe.CancelURL,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create payment gateway: %w", err)
		}
	} else {
		logger.Get().Warn("no payment provider configured, card payments are disabled")
		payments = gateway.NewDisabledGateway()
	}

	var notifier notify.Notifier
	if cfg.SMTP.Host != "" {
		notifier, err = notify.NewSMTPNotifier(&notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create mail notifier: %w", err)
		}
	} else {
		logger.Get().Warn("no SMTP host configured, booking emails are disabled")
		notifier = notify.NewNoOpNotifier()
	}

	bookingService := service.NewBookingService(bookingRepo, catalogRepo, payments, notifier)

	expiryWorker := worker.NewExpiryWorker(bookingService, &worker.ExpiryWorkerConfig{
		Interval:  cfg.Booking.ReaperInterval,
		BatchSize: cfg.Booking.ReaperBatchSize,
	})

	return &Container{
		Config:         cfg,
		DB:             db,
		BookingService: bookingService,
		BookingHandler: handler.NewBookingHandler(bookingService),
		WebhookHandler: handler.NewWebhookHandler(payments, bookingService),
		HealthHandler:  handler.NewHealthHandler(db, cfg.App.Version),
		ExpiryWorker:   expiryWorker,
	}, nil
}

// Close releases container resources
func (c *Container) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
}
