package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"labbaik_intel/internal/adapters/feed"
	"labbaik_intel/internal/adapters/observability"
	redisad "labbaik_intel/internal/adapters/redis"
	"labbaik_intel/internal/app"
	"labbaik_intel/internal/intel/geocluster"
	"labbaik_intel/internal/shared"
	mysqlrepo "labbaik_intel/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.FeedBase).
		Int("workers", cfg.Workers).
		Strs("cities", cfg.Cities).
		Strs("providers", cfg.Providers).
		Msg("resolver starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := feed.New(cfg.FeedBase, cfg.FeedKey, cfg.FeedRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize feed client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	th := geocluster.Thresholds{
		Name:       cfg.NameThreshold,
		GeoMeters:  cfg.GeoThresholdM,
		Address:    cfg.AddressThreshold,
		Confidence: cfg.ConfidenceFloor,
	}
	svc := app.NewResolutionService(client, repo, cache, th, cfg.AutoMerge)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, city := range cfg.Cities {
		city := city

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(city string) {
			defer wg.Done()
			defer sem.Release(int64(1))

			report, err := svc.ResolveCity(ctx, cfg.Providers, city)
			observability.ObserveResolution(city, err, report.Clusters)
			if err != nil {
				log.Warn().Str("city", city).Err(err).Msg("resolution failed")
				return
			}

			for _, provider := range cfg.Providers {
				n, err := svc.IngestSnapshots(ctx, provider, city)
				if err != nil {
					log.Warn().Str("city", city).Str("provider", provider).Err(err).
						Msg("snapshot ingest failed")
					continue
				}
				observability.ObserveSnapshots(provider, n)
			}
			log.Info().Str("city", city).Int("entities", report.Entities).Msg("resolve ok")
		}(city)
	}

	wg.Wait()
	log.Info().Msg("resolution completed")
}
