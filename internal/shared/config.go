package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	FeedBase    string
	FeedKey     string
	FeedRPS     int
	Providers   []string
	Cities      []string
	Workers     int
	AutoMerge   bool
	CacheTTL    time.Duration

	// clustering knobs
	NameThreshold    float64
	GeoThresholdM    float64
	AddressThreshold float64
	ConfidenceFloor  float64

	// season policy
	PeakThreshold float64
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	abool := func(k string, def bool) bool {
		if v := os.Getenv(k); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
		return def
	}
	list := func(k, def string) []string {
		raw := env(k, def)
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				out = append(out, t)
			}
		}
		return out
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/labbaik?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),
		FeedBase:    env("FEED_BASE_URL", "https://feed-gw.labbaik.id/v1"),
		FeedKey:     env("FEED_API_KEY", ""),
		FeedRPS:     atoi("FEED_RPS", 5),
		Providers:   list("FEED_PROVIDERS", "agoda,traveloka,tiket"),
		Cities:      list("RESOLVE_CITIES", "MAKKAH,MADINAH"),
		Workers:     atoi("RESOLVE_WORKERS", 4),
		AutoMerge:   abool("RESOLVE_AUTO_MERGE", true),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		NameThreshold:    atof("CLUSTER_NAME_THRESHOLD", 0.75),
		GeoThresholdM:    atof("CLUSTER_GEO_METERS", 100),
		AddressThreshold: atof("CLUSTER_ADDRESS_THRESHOLD", 0.7),
		ConfidenceFloor:  atof("CLUSTER_CONFIDENCE", 0.8),

		PeakThreshold: atof("SEASON_PEAK_THRESHOLD", 1.5),
	}
	if c.FeedKey == "" {
		log.Warn().Msg("FEED_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
