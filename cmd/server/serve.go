package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/rcarvalho-pb/checkout_relay-go/internal/application/checkout"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/application/notification"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/delivery"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/domain/event"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infra/config"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infra/logging"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/eventbus"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/eventstream"
	httpapi "github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/http"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/notifier"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/persistence/inmemory"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/persistence/sqlite"
	"github.com/rcarvalho-pb/checkout_relay-go/internal/infrastructure/stripe"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the checkout relay HTTP server",
		RunE:  runServe,
	}
	cmd.Flags().String("port", "", "listen port (overrides PORT)")
	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}
	return cfg, nil
}

func openLedger(cfg *config.Config) (delivery.Repository, *sql.DB, error) {
	if cfg.DatabasePath == "" {
		return inmemory.NewDeliveryRepository(), nil, nil
	}

	db, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open delivery ledger: %w", err)
	}
	if err := sqlite.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate delivery ledger: %w", err)
	}
	return sqlite.NewDeliveryRepository(db), db, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireStripe(); err != nil {
		return err
	}

	logger := logging.NewSlogLogger(os.Stdout, cfg.LogLevel)
	counters := &metrics.Counters{}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCounters(registry, counters)
	serverMetrics := metrics.NewServerMetrics(registry)

	ledger, db, err := openLedger(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	bus := eventbus.NewInMemoryBus()
	recorder := &notification.DeliveryRecorder{Repo: ledger}
	bus.Subscribe(recorder.Handle, event.NotificationDelivered, event.NotificationFailed, event.NotificationSkipped)

	kafkaClient := eventstream.NewClient(cfg.KafkaBrokers)
	if kafkaClient.Enabled() {
		writer := kafkaClient.NewWriter(cfg.KafkaTopic)
		defer writer.Close()

		publisher := &eventstream.Publisher{Writer: writer, Logger: logger}
		bus.Subscribe(publisher.Handle, event.NotificationDelivered)
		logger.Info("kafka fan-out enabled", map[string]any{"brokers": kafkaClient.Brokers, "topic": cfg.KafkaTopic})
	}

	completion := &notification.CompletionNotifier{
		Sender:   notifier.NewHTTPClient(cfg.NotifierURL, cfg.NotifyTimeout, logger),
		EventBus: bus,
		Ledger:   ledger,
		Logger:   logger,
		Metrics:  counters,
		Dedup:    cfg.NotifyDedup,
	}

	service := &checkout.Service{
		Processor: stripe.NewProcessor(stripe.Options{
			SecretKey: cfg.StripeSecretKey,
			Currency:  cfg.Currency,
			APIURL:    cfg.StripeAPIURL,
		}),
		Notifier: completion,
		Logger:   logger,
		Metrics:  counters,
		Defaults: checkout.SessionDefaults{
			SuccessURL: cfg.DefaultSuccessURL,
			CancelURL:  cfg.DefaultCancelURL,
		},
	}

	handler := &httpapi.CheckoutHandler{
		Service:     service,
		Logger:      logger,
		ServerName:  cfg.ServerName,
		NotifierURL: cfg.NotifierURL,
	}
	if cfg.StripeWebhookSecret != "" {
		handler.Verifier = stripe.NewWebhookVerifier(cfg.StripeWebhookSecret)
	} else {
		logger.Warn("STRIPE_WEBHOOK_SECRET not set, webhook events are accepted unsigned", nil)
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpapi.NewRouter(handler, serverMetrics, metrics.Handler(registry)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", map[string]any{
			"addr":         server.Addr,
			"notifier_url": cfg.NotifierURL,
			"currency":     cfg.Currency,
			"dedup":        cfg.NotifyDedup,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-stop:
	}

	logger.Info("shutting down server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped gracefully", nil)
	return nil
}
