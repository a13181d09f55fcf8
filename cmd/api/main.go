package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "labbaik_intel/internal/adapters/http_server"
	"labbaik_intel/internal/adapters/observability"
	redisad "labbaik_intel/internal/adapters/redis"
	"labbaik_intel/internal/app"
	"labbaik_intel/internal/intel/geocluster"
	"labbaik_intel/internal/intel/pricing"
	"labbaik_intel/internal/intel/season"
	"labbaik_intel/internal/shared"
	mysqlrepo "labbaik_intel/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	cal := season.DefaultWithThreshold(cfg.PeakThreshold)
	q := app.NewQueryService(repo, cache, cfg.CacheTTL, pricing.NewConverter(), cal)

	th := geocluster.Thresholds{
		Name:       cfg.NameThreshold,
		GeoMeters:  cfg.GeoThresholdM,
		Address:    cfg.AddressThreshold,
		Confidence: cfg.ConfidenceFloor,
	}
	// the API only uses the command side for snapshot pushes; no feed client.
	c := app.NewResolutionService(nil, repo, cache, th, cfg.AutoMerge)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
