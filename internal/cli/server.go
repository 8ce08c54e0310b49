package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"iot-practice-service/internal/app"
	"iot-practice-service/internal/config"
	"iot-practice-service/internal/domain"
	"iot-practice-service/internal/infra/memory"
	pgloader "iot-practice-service/internal/infra/postgres"
	infraredis "iot-practice-service/internal/infra/redis"
	"iot-practice-service/internal/telemetry"
	transport "iot-practice-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the practice server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	bankID := bankIDFor(cfg)
	var loader memory.BankLoader
	if pool != nil {
		loader = pgloader.NewBankLoader(pool)
	} else {
		bank, err := loadBank(cfg.Bank.File)
		if err != nil {
			return err
		}
		loader = memory.NewStaticBankLoader(map[string][]domain.Assignment{bankID: bank})
	}

	bankTTL := config.TTLDuration(cfg.Bank.TTL, 10*time.Minute)
	var bankRepo app.BankRepository
	if redisClient != nil {
		bankRepo = infraredis.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		bankRepo = memory.NewBankRepository(loader, bankTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = infraredis.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	service := app.NewPracticeService(store, bankRepo, app.Options{
		BankID:                bankID,
		AllowSequentialForAll: cfg.Practice.AllowSequentialAll,
		Recorder:              newRecorder(cfg, redisClient, prometheus.DefaultRegisterer),
	})

	var metrics http.Handler
	if cfg.Telemetry.Metrics {
		metrics = promhttp.Handler()
	}
	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, cfg.Server.CORSOrigins, metrics),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sweepSessions(sweepCtx, service, config.TTLDuration(cfg.Practice.SessionIdle, 2*time.Hour))

	go func() {
		log.Printf("starting practice service on :%s (bank %q)", finalPort, bankID)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newRecorder builds the usage sink. The event sink and the Prometheus
// counters are switched on independently.
func newRecorder(cfg config.Config, client *redis.Client, reg prometheus.Registerer) telemetry.Recorder {
	var recorders telemetry.Multi
	if cfg.Telemetry.Enabled {
		if client != nil {
			recorders = append(recorders, infraredis.NewEventRecorder(client, cfg.Telemetry.Key, cfg.Telemetry.MaxLen))
		} else {
			recorders = append(recorders, telemetry.LogRecorder{})
		}
	}
	if cfg.Telemetry.Metrics {
		recorders = append(recorders, telemetry.NewPromRecorder(reg))
	}
	switch len(recorders) {
	case 0:
		return telemetry.Nop{}
	case 1:
		return recorders[0]
	}
	return recorders
}

// sweepSessions drops abandoned sessions until ctx is done.
func sweepSessions(ctx context.Context, service *app.PracticeService, idle time.Duration) {
	interval := idle / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if removed := service.Sweep(idle); removed > 0 {
				log.Printf("swept %d idle sessions", removed)
			}
		case <-ctx.Done():
			return
		}
	}
}
