package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"labbaik_intel/internal/domain"
	"labbaik_intel/internal/intel/geocluster"
	"labbaik_intel/internal/intel/namenorm"
)

// RunReport summarizes one per-city resolution run.
type RunReport struct {
	City       string `json:"city"`
	Fetched    int    `json:"fetched"`
	Skipped    int    `json:"skipped"`
	Entities   int    `json:"entities"`
	Clusters   int    `json:"clusters"`
	AutoMerged int    `json:"auto_merged"`
	Snapshots  int    `json:"snapshots"`
}

// ResolutionService drives the ingest -> map -> cluster -> merge -> persist
// pipeline for one city at a time. Instances are cheap; the batch runner
// creates one per worker.
type ResolutionService struct {
	feed       domain.FeedClient
	repo       domain.HotelRepository
	cache      domain.Cache
	thresholds geocluster.Thresholds
	autoMerge  bool
}

func NewResolutionService(f domain.FeedClient, r domain.HotelRepository, cache domain.Cache, th geocluster.Thresholds, autoMerge bool) *ResolutionService {
	return &ResolutionService{feed: f, repo: r, cache: cache, thresholds: th, autoMerge: autoMerge}
}

// ResolveCity fetches every provider's feed for a city, folds the raw
// payloads into typed records, clusters duplicates, and persists the merged
// entities plus the cluster reports. A provider feed that fails is logged
// and skipped; resolution continues with the rest.
func (s *ResolutionService) ResolveCity(ctx context.Context, providers []string, city string) (RunReport, error) {
	city = namenorm.NormalizeCity(city)
	report := RunReport{City: city}

	var records []domain.HotelRecord
	for _, provider := range providers {
		payloads, err := s.feed.ListHotels(ctx, provider, city)
		if err != nil {
			log.Warn().Err(err).
				Str("provider", provider).
				Str("city", city).
				Msg("provider feed unavailable, skipping")
			continue
		}
		for _, p := range payloads {
			rec := mapHotelRecord(provider, p)
			if rec.Name == "" {
				_ = s.repo.LogSkip(ctx, provider, rec.ID, "missing name")
				report.Skipped++
				continue
			}
			if rec.ID == "" {
				rec.ID = recordFingerprint(rec.Provider, rec.Name, city)
			}
			if rec.City == "" {
				rec.City = city
			}
			records = append(records, rec)
		}
	}
	report.Fetched = len(records)

	for _, rec := range records {
		if err := s.repo.UpsertRecord(ctx, rec); err != nil {
			return report, fmt.Errorf("upsert record %s/%s: %w", rec.Provider, rec.ID, err)
		}
	}

	entities, clusters := geocluster.Deduplicate(records, city, s.autoMerge, s.thresholds)
	report.Entities = len(entities)
	report.Clusters = len(clusters)

	for _, c := range clusters {
		if err := s.repo.SaveCluster(ctx, c); err != nil {
			return report, fmt.Errorf("save cluster %s: %w", c.ID, err)
		}
	}
	for _, e := range entities {
		if err := s.repo.UpsertMerged(ctx, e); err != nil {
			return report, fmt.Errorf("upsert entity %s: %w", e.ID, err)
		}
		if e.IsMerged {
			report.AutoMerged++
		}
		if s.cache != nil {
			_ = s.cache.Del(ctx, "hotel:"+e.ID)
		}
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, "clusters:"+city)
	}

	log.Info().
		Str("city", city).
		Int("records", report.Fetched).
		Int("entities", report.Entities).
		Int("clusters", report.Clusters).
		Int("auto_merged", report.AutoMerged).
		Msg("city resolved")
	return report, nil
}

// IngestSnapshots pulls availability snapshots for a city from one provider
// and persists them. Risk is computed at query time, so persisting is all
// the pipeline needs here.
func (s *ResolutionService) IngestSnapshots(ctx context.Context, provider, city string) (int, error) {
	payloads, err := s.feed.ListSnapshots(ctx, provider, city)
	if err != nil {
		return 0, fmt.Errorf("snapshot feed %s/%s: %w", provider, city, err)
	}

	now := time.Now().UTC()
	inserted := 0
	for _, p := range payloads {
		snap := mapSnapshot(provider, now, p)
		if snap.HotelID == "" {
			_ = s.repo.LogSkip(ctx, provider, "", "snapshot missing hotel id")
			continue
		}
		if err := s.repo.InsertSnapshot(ctx, snap); err != nil {
			return inserted, fmt.Errorf("insert snapshot %s: %w", snap.HotelID, err)
		}
		inserted++
		if s.cache != nil {
			_ = s.cache.Del(ctx, "risk:"+snap.HotelID)
		}
	}
	return inserted, nil
}

// PushSnapshot persists a single externally supplied snapshot event.
func (s *ResolutionService) PushSnapshot(ctx context.Context, snap domain.AvailabilitySnapshot) error {
	if snap.HotelID == "" {
		return fmt.Errorf("%w: snapshot missing hotel id", domain.ErrInvalidInput)
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now().UTC()
	}
	if err := s.repo.InsertSnapshot(ctx, snap); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, "risk:"+snap.HotelID)
	}
	return nil
}
