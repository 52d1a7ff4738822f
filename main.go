package main

import (
	"context"
	"net/http"
	"net/http/pprof"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blautech-admin/core"
	"blautech-admin/migrations"
	"blautech-admin/pkg/resources"
	"blautech-admin/pkg/servers"
)

func main() {
	var err error

	name, version := "blautech-admin", "1.0"

	// 1. Config (Logger base included)
	ctx, cfg := resources.Configure(context.Background(), name, version)
	startupLogger := log.Ctx(ctx).With().Str("stage", "startup").Str("component", "main").Logger()
	shutdownLogger := log.Ctx(ctx).With().Str("stage", "shut down").Str("component", "main").Logger()

	startupLogger.Info().Msg("application starting up")
	defer shutdownLogger.Info().Msg("application stopped")

	// 2. Telemetry (traces/metrics/logs), zerolog bridged into OTel logs
	if cfg.OtelEnabled {
		var stopFn resources.StopFn

		ctx, stopFn, err = resources.Observe(ctx, cfg)
		if err != nil {
			shutdownLogger.Fatal().Err(err).Msg("unable to setup otel telemetry")
		}
		defer stopFn(ctx, 15*time.Second)
	}

	// 3. Schema
	if cfg.Database.Migrate {
		err = resources.RunMigrations(ctx, cfg.Database, migrations.FS)
		if err != nil {
			shutdownLogger.Fatal().Err(err).Msg("unable to migrate database")
		}
	}

	// 4. Core resources
	pool, err := resources.CreateDatabaseConnectionPool(ctx, cfg.Database)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg("unable to create database connection pool")
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		startupLogger.Warn().Err(err).Str("timezone", cfg.Timezone).Msg("unknown timezone, using local time")
		location = time.Local
	}

	if cfg.AuthJWTSecret == "" {
		startupLogger.Warn().Msg("AUTH_JWT_SECRET is empty, every request will be anonymous")
	}

	// 5. Wiring
	client := core.NewDataClient(pool)
	relay := core.NewWebhookRelay(cfg.WebhookURL, cfg.WebhookTimeout)
	handlers := core.NewHandlers(client, relay, core.Settings{
		Location:          location,
		FormSuccessDelay:  cfg.FormSuccessDelay,
		RelaySuccessDelay: cfg.RelaySuccessDelay,
		Universities:      core.NewOptionSet("university", cfg.ClubUniversities...),
		Topics:            core.NewOptionSet("topic", cfg.ClubTopics...),
	})

	// 6. Daemons/servers setup

	gin.SetMode(gin.ReleaseMode)

	restHandler := gin.Default()
	restHandler.Use(resources.TracerMiddleware(name))
	restHandler.Use(resources.MeterMiddleware(name))

	core.RegisterRoutes(restHandler, handlers, core.NewSessionParser(cfg.AuthJWTSecret), cfg.AuthAdminRole)

	debugHandler := http.NewServeMux()
	debugHandler.HandleFunc("/debug/pprof/", pprof.Index)
	debugHandler.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugHandler.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugHandler.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugHandler.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// 7. Daemons/servers lifecycle

	errChan := make(chan error, 16)

	stopFn := servers.Manage(ctx, servers.NewBaseServer("base-server", pool), errChan)
	defer stopFn(ctx, 15*time.Second)

	stopFn = servers.Manage(ctx, servers.NewHTTPServer("debug-server", "localhost", cfg.DebugPort, debugHandler), errChan)
	defer stopFn(ctx, 15*time.Second)

	stopFn = servers.Manage(ctx, servers.NewHTTPServer("rest-server", cfg.HTTPHost, cfg.HTTPPort, restHandler), errChan)
	defer stopFn(ctx, 15*time.Second)

	startupLogger.Info().Msg("application running")

	// 8. Wait for shutdown signal

	notifyCtx, cancelNotifyFn := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancelNotifyFn()

	select {
	case <-notifyCtx.Done():
		startupLogger.Info().Msg("application shutdown requested")
	case runErr := <-errChan:
		shutdownLogger.Error().Err(runErr).Msg("runtime error")
	}
}
