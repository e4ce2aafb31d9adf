package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/workhub/settlement/internal/application/usecase"
	"github.com/workhub/settlement/internal/infrastructure/config"
	stripegw "github.com/workhub/settlement/internal/infrastructure/gateway/stripe"
	"github.com/workhub/settlement/internal/infrastructure/lookup"
	"github.com/workhub/settlement/internal/infrastructure/messaging"
	infraPG "github.com/workhub/settlement/internal/infrastructure/postgres"
	grpcPresentation "github.com/workhub/settlement/internal/presentation/grpc"
	"github.com/workhub/settlement/pkg/auth"
	kafkapkg "github.com/workhub/settlement/pkg/kafka"
	"github.com/workhub/settlement/pkg/observability"
	pgpkg "github.com/workhub/settlement/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	cfg.Validate()

	// Initialize logger.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.Telemetry.ServiceName,
	})

	logger.Info("starting settlement-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName:   cfg.Telemetry.ServiceName,
		Endpoint:      cfg.Telemetry.OTLPEndpoint,
		Insecure:      true,
		SamplingRatio: cfg.Telemetry.SamplingRatio,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer shutdownTracer(ctx)
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer meterProvider.Shutdown(ctx)

	metrics, err := observability.NewSettlementMetrics(meterProvider.Meter("settlement"))
	if err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	// Initialize database.
	dbCfg := pgpkg.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: cfg.DB.MaxConns,
		MinConns: cfg.DB.MinConns,
	}
	pool, err := pgpkg.NewPool(ctx, dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations.
	if err := pgpkg.RunMigrations(dbCfg.DSN(), cfg.MigrationsDir); err != nil {
		logger.Warn("migration warning", "error", err)
	}

	// Initialize Kafka.
	kafkaCfg := kafkapkg.Config{
		Brokers:       cfg.Kafka.Brokers,
		ConsumerGroup: cfg.Kafka.ConsumerGroup,
	}
	producer := kafkapkg.NewProducer(kafkaCfg)
	defer producer.Close()

	// Backend service connections.
	projectConn, err := lookup.Dial("project", cfg.Services.ProjectAddr, logger)
	if err != nil {
		logger.Error("failed to connect to project service", "error", err)
		os.Exit(1)
	}
	defer projectConn.Close()

	identityConn, err := lookup.Dial("identity", cfg.Services.IdentityAddr, logger)
	if err != nil {
		logger.Error("failed to connect to identity service", "error", err)
		os.Exit(1)
	}
	defer identityConn.Close()

	// JWT validation.
	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret:       cfg.JWT.Secret,
		PublicKeyPEM: cfg.JWT.PublicKeyPEM,
		Issuer:       cfg.JWT.Issuer,
	})
	if err != nil {
		logger.Error("failed to initialize JWT validation", "error", err)
		os.Exit(1)
	}

	// Wire dependencies (DI via constructors).
	intentRepo := infraPG.NewPaymentIntentRepo(pool)
	accountRepo := infraPG.NewRemoteAccountRepo(pool)
	chargeRepo := infraPG.NewChargeRepo(pool)
	transferRepo := infraPG.NewTransferRepo(pool)
	outboxRepo := infraPG.NewOutboxRepo(pool)
	projectMirror := infraPG.NewProjectMirrorRepo(pool)
	userMirror := infraPG.NewUserMirrorRepo(pool)

	publisher := messaging.NewPublisher(producer)
	gateway := stripegw.NewAdapter(cfg.Stripe.APIKey, logger)
	projectLookup := lookup.NewProjectClient(projectConn)
	accountLookup := lookup.NewIdentityClient(identityConn)

	// Use cases.
	ensureAccountUC := usecase.NewEnsureAccount(accountRepo, gateway, publisher, outboxRepo, metrics, logger)
	payForProjectUC := usecase.NewPayForProject(intentRepo, projectLookup, accountLookup, gateway, publisher, outboxRepo, metrics, logger)
	confirmPaymentUC := usecase.NewConfirmPayment(intentRepo, chargeRepo, gateway, metrics, logger)
	cancelIntentUC := usecase.NewCancelIntent(intentRepo, gateway, publisher, outboxRepo, metrics, logger)
	transferFundsUC := usecase.NewTransferFunds(intentRepo, chargeRepo, transferRepo, projectLookup, accountLookup, gateway, publisher, outboxRepo, metrics, logger)
	listMethodsUC := usecase.NewListPaymentMethods(accountLookup, gateway)
	detachMethodUC := usecase.NewDetachPaymentMethod(accountLookup, gateway)

	// Projection consumers applying settlement events to the mirrored fields.
	projectProjector := messaging.NewProjectProjector(projectMirror, logger)
	identityProjector := messaging.NewIdentityProjector(userMirror, logger)

	consumers := []*kafkapkg.Consumer{
		kafkapkg.NewConsumer(kafkaCfg, usecase.TopicPaymentIntentLifecycle, projectProjector.HandleIntentLifecycle, logger),
		kafkapkg.NewConsumer(kafkaCfg, usecase.TopicEmployerAccountLinked, identityProjector.HandleEmployerLinked, logger),
		kafkapkg.NewConsumer(kafkaCfg, usecase.TopicFreelancerAccountLinked, identityProjector.HandleFreelancerLinked, logger),
	}
	for _, consumer := range consumers {
		c := consumer
		defer c.Close()
		go func() {
			if err := c.Start(ctx); err != nil && ctx.Err() == nil {
				logger.Error("consumer stopped", "error", err)
			}
		}()
	}

	// Outbox relay re-sends events whose synchronous publish failed.
	relay := messaging.NewOutboxRelay(outboxRepo, producer, metrics, logger)
	go relay.Run(ctx)

	// gRPC server.
	handler := grpcPresentation.NewSettlementHandler(
		ensureAccountUC, payForProjectUC, confirmPaymentUC,
		cancelIntentUC, transferFundsUC, listMethodsUC, detachMethodUC,
		logger,
	)
	grpcServer := grpcPresentation.NewServer(handler, logger, jwtService)

	// HTTP server (health checks + metrics).
	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pgpkg.HealthCheck(r.Context(), pool); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: mux,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		errCh <- grpcServer.Serve(fmt.Sprintf(":%d", cfg.GRPCPort))
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	httpServer.Shutdown(context.Background())
	grpcServer.GracefulStop()
	logger.Info("settlement-service stopped")
}
