package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/claimwise/internal/auth"
	"github.com/mmynk/claimwise/internal/config"
	"github.com/mmynk/claimwise/internal/events"
	"github.com/mmynk/claimwise/internal/lifecycle"
	"github.com/mmynk/claimwise/internal/locker"
	"github.com/mmynk/claimwise/internal/middleware"
	"github.com/mmynk/claimwise/internal/observability"
	"github.com/mmynk/claimwise/internal/service"
	"github.com/mmynk/claimwise/internal/storage/sqlite"
	"github.com/mmynk/claimwise/pkg/api/apiconnect"
	"github.com/mmynk/claimwise/pkg/logging"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "claimwise",
		Short:        "Insurance claim lifecycle server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Connect API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.LogLevel, cfg.LogFormat)

			store, err := sqlite.New(cfg.DBPath)
			if err != nil {
				return err
			}
			slog.Info("Schema up to date", "database", cfg.DBPath)
			return store.Close()
		},
	}
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			roleName, _ := cmd.Flags().GetString("role")
			subject, _ := cmd.Flags().GetString("subject")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireSecret(); err != nil {
				return err
			}
			role, err := auth.ParseRole(roleName)
			if err != nil {
				return err
			}

			token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL).Generate(auth.Actor{ID: subject, Role: role})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("role", "patient", "Actor role: patient, doctor, insurance or bank")
	cmd.Flags().String("subject", "", "Actor ID carried in the sub claim")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.RequireSecret(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.OTelEnabled,
		ServiceName: "claimwise",
		Version:     version,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	policy, err := lifecycle.NewPolicy(cfg.Coverage)
	if err != nil {
		return err
	}

	claimLocker, err := newLocker(ctx, cfg)
	if err != nil {
		return err
	}
	publisher, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range []any{claimLocker, publisher} {
			if closer, ok := c.(interface{ Close() error }); ok {
				if err := closer.Close(); err != nil {
					slog.Warn("Close failed", "error", err)
				}
			}
		}
	}()

	opts := []service.Option{
		service.WithLocker(claimLocker),
		service.WithPublisher(publisher),
		service.WithPolicy(policy),
		service.WithLockTiming(cfg.LockTTL, cfg.LockWait),
	}

	// Auth runs first so tracing and logging see the actor.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager),
		observability.TracingInterceptor(),
		middleware.LoggingInterceptor(),
	)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", observability.Handler())

	mount := func(path string, handler http.Handler) {
		r.Handle(path+"*", handler)
		slog.Info("Service registered", "path", path)
	}
	mount(apiconnect.NewClaimServiceHandler(service.NewClaimService(store, opts...), interceptors))
	mount(apiconnect.NewPaymentServiceHandler(service.NewPaymentService(store, opts...), interceptors))
	mount(apiconnect.NewTreatmentServiceHandler(service.NewTreatmentService(store, opts...), interceptors))

	// h2c serves HTTP/2 without TLS, which Connect and gRPC clients need.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting",
			"address", srv.Addr,
			"coverage", cfg.Coverage.String(),
			"version", version,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

// newLocker uses Redis when REDIS_ADDR is set so that several replicas share
// claim locks; otherwise locks are process-local.
func newLocker(ctx context.Context, cfg *config.Config) (locker.Locker, error) {
	if cfg.RedisAddr == "" {
		slog.Info("Using in-process claim locks")
		return locker.NewLocal(), nil
	}
	l, err := locker.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	slog.Info("Using redis claim locks", "addr", cfg.RedisAddr)
	return l, nil
}

func newPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		slog.Info("Publishing lifecycle events to the log")
		return events.LogPublisher{}, nil
	}
	p, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to amqp: %w", err)
	}
	slog.Info("Publishing lifecycle events to amqp", "exchange", cfg.AMQPExchange)
	return p, nil
}
