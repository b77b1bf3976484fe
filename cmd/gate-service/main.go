package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/GateSentry/GateSentry/internal/common/clock"
	"github.com/GateSentry/GateSentry/internal/common/config"
	"github.com/GateSentry/GateSentry/internal/common/db"
	"github.com/GateSentry/GateSentry/internal/common/logger"
	"github.com/GateSentry/GateSentry/internal/common/middleware"
	"github.com/GateSentry/GateSentry/internal/common/server"
	"github.com/GateSentry/GateSentry/internal/common/tracing"
	"github.com/GateSentry/GateSentry/internal/gatelog"
	"github.com/GateSentry/GateSentry/internal/gateway"
	"github.com/GateSentry/GateSentry/internal/registry"
)

var (
	configPath = flag.String("config", "configs/gate-service.json", "config file path")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	tracer, closer, err := tracing.InitTracer(
		cfg.Server.Name,
		cfg.Jaeger.Endpoint,
		cfg.Jaeger.Sampler,
	)
	if err != nil {
		log.Warnf("failed to init tracer: %v", err)
	} else {
		defer closer.Close()
	}
	_ = tracer

	clk := clock.NewFixedZoneClock(cfg.Gate.UTCOffsetName, cfg.Gate.UTCOffsetSeconds)

	var (
		sessionRepo gatelog.Repository
		vehicleRepo registry.Repository
	)
	switch cfg.Database.Driver {
	case "memory":
		log.Warn("using in-memory store, sessions will not survive a restart")
		sessionRepo = gatelog.NewMemoryRepo()
		vehicleRepo = registry.NewMemoryRepo()
	default:
		gormDB, err := db.NewMySQL(
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Database,
			cfg.Database.MaxIdle,
			cfg.Database.MaxOpen,
		)
		if err != nil {
			log.Fatalf("failed to init mysql: %v", err)
		}
		if err := gormDB.AutoMigrate(&registry.Vehicle{}, &gatelog.Session{}); err != nil {
			log.Fatalf("failed to migrate mysql schema: %v", err)
		}
		sessionRepo = gatelog.NewRepo(gormDB)
		vehicleRepo = registry.NewRepo(gormDB)
	}

	registryService := registry.NewService(vehicleRepo, clk)
	gateService := gatelog.NewService(sessionRepo, registryService, clk, log, gatelog.Config{
		ShortWindow:          time.Duration(cfg.Gate.ShortWindowMinutes) * time.Minute,
		LongWindow:           time.Duration(cfg.Gate.LongWindowMinutes) * time.Minute,
		DurationThresholdMin: cfg.Gate.SuspiciousStayMin,
		PastEntriesLimit:     cfg.Gate.PastEntriesLimit,
		AllLogsDefaultLimit:  cfg.Gate.AllLogsDefaultLimit,
	})

	breaker := middleware.NewCircuitBreaker(
		"session-store",
		cfg.Gate.BreakerMaxFailures,
		time.Duration(cfg.Gate.BreakerResetSeconds)*time.Second,
	)
	limiter := middleware.NewTokenBucket(cfg.Gate.RateLimitBurst, cfg.Gate.RateLimitPerSecond)

	handler := gateway.NewHandler(gateService, registryService, breaker, log)
	router := gateway.NewRouter(handler, limiter, log, cfg.Server.Name)

	if err := server.RunHTTPServer(cfg, log, router); err != nil {
		log.Fatalf("gate-service exited with error: %v", err)
	}
}
