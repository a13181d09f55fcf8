package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"labbaik_intel/internal/app"
	"labbaik_intel/internal/domain"
	"labbaik_intel/internal/intel/geocluster"
)

type fakeFeed struct {
	hotels    map[string][]map[string]any // keyed by provider
	snapshots map[string][]map[string]any
	err       error
}

func (f *fakeFeed) ListHotels(ctx context.Context, provider, city string) ([]map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hotels[provider], nil
}
func (f *fakeFeed) ListSnapshots(ctx context.Context, provider, city string) ([]map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshots[provider], nil
}

func TestResolveCity(t *testing.T) {
	feed := &fakeFeed{hotels: map[string][]map[string]any{
		"agoda": {
			{
				"hotel_id":  "AG-1",
				"hotel_name": "Makkah Hilton Hotel",
				"city":      "makkah",
				"latitude":  21.4225,
				"longitude": 39.8262,
				"price":     550.0,
				"currency":  "SAR",
				"amenities": []any{"WiFi", "Parking"},
			},
			{
				// No usable name: skipped and logged.
				"hotel_id": "AG-2",
				"city":     "makkah",
			},
		},
		"traveloka": {
			{
				"id":   "TR-9",
				"name": "Makkah Hilton Towers",
				"location": map[string]any{
					"lat": 21.4226,
					"lng": 39.8263,
				},
				"price_per_night": "610,0",
			},
			{
				"name":     "Pullman Zamzam Makkah",
				"city":     "Makkah",
				"latitude": 21.4188,
				"lng":      39.8253,
			},
		},
	}}
	repo := newFakeRepo()
	cache := &fakeCache{store: map[string]any{"clusters:MAKKAH": []domain.ClusterSummary{}}}
	svc := app.NewResolutionService(feed, repo, cache, geocluster.DefaultThresholds(), true)

	report, err := svc.ResolveCity(context.Background(), []string{"agoda", "traveloka"}, "makkah")
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if report.Fetched != 3 || report.Skipped != 1 {
		t.Fatalf("fetched/skipped = %d/%d, want 3/1", report.Fetched, report.Skipped)
	}
	if repo.skips != 1 {
		t.Fatalf("logged skips = %d, want 1", repo.skips)
	}
	if len(repo.records) != 3 {
		t.Fatalf("upserted records = %d, want 3", len(repo.records))
	}

	// The two Hilton records cluster; Pullman stays on its own.
	if report.Clusters != 1 || len(repo.clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", report.Clusters)
	}
	if report.Entities != 2 || report.AutoMerged != 1 {
		t.Fatalf("entities/merged = %d/%d, want 2/1", report.Entities, report.AutoMerged)
	}

	merged, ok := repo.merged["AG-1"]
	if !ok {
		t.Fatal("merged Hilton entity not persisted under representative id")
	}
	if !merged.IsMerged || merged.MergedCount != 2 {
		t.Fatalf("merged entity = %+v", merged)
	}
	if merged.ProviderIDs["agoda"] != "AG-1" || merged.ProviderIDs["traveloka"] != "TR-9" {
		t.Fatalf("provider ids = %v", merged.ProviderIDs)
	}
	// First non-empty wins: the price comes from the agoda record.
	if merged.MinPrice == nil || *merged.MinPrice != 550.0 {
		t.Fatalf("merged min price = %v, want 550", merged.MinPrice)
	}

	// The record without an explicit id got a synthesized one.
	var pullman *domain.HotelRecord
	for i := range repo.records {
		if repo.records[i].Name == "Pullman Zamzam Makkah" {
			pullman = &repo.records[i]
		}
	}
	if pullman == nil || pullman.ID == "" {
		t.Fatalf("Pullman record missing or without id: %+v", pullman)
	}
	if pullman.City != "MAKKAH" {
		t.Fatalf("Pullman city = %q, want MAKKAH", pullman.City)
	}

	// The run invalidated the city's cluster cache.
	if _, ok := cache.store["clusters:MAKKAH"]; ok {
		t.Fatal("cluster cache not invalidated")
	}
}

func TestResolveCity_ProviderFailureIsSkipped(t *testing.T) {
	feed := &fakeFeed{err: errors.New("upstream down")}
	repo := newFakeRepo()
	svc := app.NewResolutionService(feed, repo, &fakeCache{}, geocluster.DefaultThresholds(), true)

	report, err := svc.ResolveCity(context.Background(), []string{"agoda"}, "mecca")
	if err != nil {
		t.Fatalf("provider failure must not fail the run: %v", err)
	}
	if report.Fetched != 0 || report.Entities != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestIngestSnapshots(t *testing.T) {
	feed := &fakeFeed{snapshots: map[string][]map[string]any{
		"agoda": {
			{
				"hotel_id":   "AG-1",
				"status":     "sold_out",
				"checkin":    "2025-06-10",
				"checkout":   "2025-06-14",
				"rooms_left": 0.0,
				"price":      750.0,
			},
			{
				// Missing hotel id: logged and skipped.
				"status": "available",
			},
		},
	}}
	repo := newFakeRepo()
	svc := app.NewResolutionService(feed, repo, &fakeCache{}, geocluster.DefaultThresholds(), true)

	n, err := svc.IngestSnapshots(context.Background(), "agoda", "mecca")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if n != 1 || repo.skips != 1 {
		t.Fatalf("inserted/skips = %d/%d, want 1/1", n, repo.skips)
	}

	snaps := repo.snapshots["AG-1"]
	if len(snaps) != 1 {
		t.Fatalf("persisted snapshots = %d, want 1", len(snaps))
	}
	s := snaps[0]
	if s.Status != domain.StatusSoldOut {
		t.Errorf("status = %s, want sold_out", s.Status)
	}
	if s.Checkin.Format("2006-01-02") != "2025-06-10" {
		t.Errorf("checkin = %v", s.Checkin)
	}
	if s.RoomsLeft == nil || *s.RoomsLeft != 0 {
		t.Errorf("rooms left = %v, want 0", s.RoomsLeft)
	}
	if s.FetchedAt.IsZero() {
		t.Error("fetched_at not defaulted")
	}
}

func TestPushSnapshot(t *testing.T) {
	repo := newFakeRepo()
	svc := app.NewResolutionService(&fakeFeed{}, repo, &fakeCache{}, geocluster.DefaultThresholds(), true)

	err := svc.PushSnapshot(context.Background(), domain.AvailabilitySnapshot{
		HotelID: "AG-1",
		Status:  domain.StatusLimited,
		Checkin: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(repo.snapshots["AG-1"]) != 1 {
		t.Fatal("snapshot not persisted")
	}
	if repo.snapshots["AG-1"][0].FetchedAt.IsZero() {
		t.Error("fetched_at not defaulted")
	}

	err = svc.PushSnapshot(context.Background(), domain.AvailabilitySnapshot{Status: domain.StatusSoldOut})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
