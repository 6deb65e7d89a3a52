package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"installment-backoffice/app/controller"
	"installment-backoffice/app/router"
	"installment-backoffice/config"
	"installment-backoffice/db"
	"installment-backoffice/metrics"
	"installment-backoffice/repository"
	"installment-backoffice/service"
)

// Application is the wired HTTP surface and the connections it owns
type Application struct {
	Handler http.Handler

	redis *redis.Client
	log   *zap.Logger
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg config.Config, log *zap.Logger) (*Application, error) {
	// Initialize database connection
	if err := db.InitDB(ctx, cfg.Database, log.Named("db")); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	application := &Application{log: log}

	// Duplicate-submission guard, only when Redis is configured
	var guard service.SubmissionGuard = service.NoopSubmissionGuard{}
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		application.redis = client
		guard = service.NewRedisSubmissionGuard(client, cfg.Redis.SubmissionTTL)
		log.Info("✓ Submission guard backed by Redis", zap.Duration("ttl", cfg.Redis.SubmissionTTL))
	} else {
		log.Warn("REDIS_URL not set, duplicate submissions are not guarded")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	submissionMetrics := metrics.NewSubmissions(registry)

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(log)
	itemRepo := repository.NewOrderItemRepository(log)
	installmentRepo := repository.NewInstallmentRepository(log)
	paymentRepo := repository.NewPaymentRepository(log)
	planRepo := repository.NewInstallmentPlanRepository(log)
	customerRepo := repository.NewCustomerRepository(log)
	submissionRepo := repository.NewSubmissionRepository(log)

	// Initialize services
	submissionService := service.NewOrderSubmissionService(service.OrderSubmissionParams{
		Orders:       orderRepo,
		Items:        itemRepo,
		Installments: installmentRepo,
		Payments:     paymentRepo,
		Plans:        planRepo,
		Journal:      submissionRepo,
		Guard:        guard,
		Metrics:      submissionMetrics,
		Log:          log,
	})
	orderService := service.NewOrderService(orderRepo, itemRepo, installmentRepo, paymentRepo, customerRepo, log)
	planService := service.NewInstallmentPlanService(planRepo, log)
	statementService, err := service.NewStatementService(orderService, cfg.BaseURL, cfg.ChromePath, cfg.Currency, log)
	if err != nil {
		return nil, err
	}

	// Create controllers
	controllers := &router.Controllers{
		Order:       controller.NewOrderController(submissionService, orderService, log),
		Submission:  controller.NewSubmissionController(submissionService, log),
		Installment: controller.NewInstallmentController(planService, orderService, log),
		Customer:    controller.NewCustomerController(orderService, log),
		Statement:   controller.NewStatementController(statementService, log),
		Metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)
	application.Handler = mux

	return application, nil
}

// Close releases the connections opened by Initialize
func (a *Application) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("Close: failed to close redis client", zap.Error(err))
		}
	}
	if err := db.CloseDB(); err != nil {
		a.log.Warn("Close: failed to close database", zap.Error(err))
	}
}
