package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "labbaik_intel/internal/adapters/redis"
	"labbaik_intel/internal/domain"
)

func TestCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	entity := domain.MergedHotelEntity{
		HotelRecord: domain.HotelRecord{ID: "AG-1", Name: "Makkah Hilton", City: "MAKKAH"},
		ProviderIDs: map[string]string{"agoda": "AG-1"},
		IsMerged:    true,
		MergedCount: 2,
	}

	// miss first
	var got domain.MergedHotelEntity
	ok, err := c.Get(ctx, "hotel:AG-1", &got)
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "hotel:AG-1", entity, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ok, err = c.Get(ctx, "hotel:AG-1", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Name != "Makkah Hilton" || got.ProviderIDs["agoda"] != "AG-1" || !got.IsMerged {
		t.Fatalf("unexpected cached entity: %+v", got)
	}

	if err := c.Del(ctx, "hotel:AG-1"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	ok, _ = c.Get(ctx, "hotel:AG-1", &got)
	if ok {
		t.Fatal("expected miss after Del")
	}
}

func TestCacheTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "clusters:MAKKAH", []domain.ClusterSummary{{ClusterID: "MAKKAH-0"}}, 30); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(31 * time.Second) // past the TTL

	var got []domain.ClusterSummary
	ok, _ := c.Get(ctx, "clusters:MAKKAH", &got)
	if ok {
		t.Fatal("expected expiry after TTL")
	}
}
