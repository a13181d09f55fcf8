package app

import (
	"context"
	"fmt"
	"time"

	"labbaik_intel/internal/domain"
	"labbaik_intel/internal/intel/amenities"
	"labbaik_intel/internal/intel/geocluster"
	"labbaik_intel/internal/intel/itinerary"
	"labbaik_intel/internal/intel/pricing"
	"labbaik_intel/internal/intel/risk"
	"labbaik_intel/internal/intel/season"
)

// QueryService answers read requests: cached cluster and entity lookups,
// on-demand risk scoring, conversion, and itineraries.
type QueryService struct {
	repo      domain.HotelRepository
	cache     domain.Cache
	cacheTTL  time.Duration
	converter *pricing.Converter
	calendar  *season.Calendar
	builder   *itinerary.Builder
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration, conv *pricing.Converter, cal *season.Calendar) *QueryService {
	if conv == nil {
		conv = pricing.NewConverter()
	}
	if cal == nil {
		cal = season.Default()
	}
	return &QueryService{
		repo:      r,
		cache:     c,
		cacheTTL:  ttl,
		converter: conv,
		calendar:  cal,
		builder:   itinerary.NewBuilder(cal),
	}
}

// GetEntity returns the merged canonical entity for an id.
func (s *QueryService) GetEntity(ctx context.Context, id string) (domain.MergedHotelEntity, error) {
	key := "hotel:" + id
	var e domain.MergedHotelEntity
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &e); ok {
			return e, nil
		}
	}
	e, err := s.repo.GetMerged(ctx, id)
	if err != nil {
		return domain.MergedHotelEntity{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, e, int(s.cacheTTL.Seconds()))
	}
	return e, nil
}

// ListClusterSummaries returns the review-queue view of a city's latest
// resolution run.
func (s *QueryService) ListClusterSummaries(ctx context.Context, city string) ([]domain.ClusterSummary, error) {
	key := "clusters:" + city
	var out []domain.ClusterSummary
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	clusters, err := s.repo.ListClusters(ctx, city)
	if err != nil {
		return nil, err
	}
	out = make([]domain.ClusterSummary, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, geocluster.Summarize(c))
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// HotelRisk scores sold-out risk for a hotel and stay. Each call seeds a
// fresh calculator from the persisted snapshot history, so concurrent
// queries never share mutable state. The snapshot window is cached per
// hotel; snapshot writes invalidate it.
func (s *QueryService) HotelRisk(ctx context.Context, hotelID, city string, checkin time.Time, checkout *time.Time) (domain.RiskScore, error) {
	if _, err := s.repo.GetMerged(ctx, hotelID); err != nil {
		return domain.RiskScore{}, err
	}

	key := "risk:" + hotelID
	var snaps []domain.AvailabilitySnapshot
	cached := false
	if s.cache != nil {
		cached, _ = s.cache.Get(ctx, key, &snaps)
	}
	if !cached {
		since := time.Now().UTC().Add(-60 * 24 * time.Hour)
		var err error
		snaps, err = s.repo.ListSnapshots(ctx, hotelID, since)
		if err != nil {
			return domain.RiskScore{}, err
		}
		if s.cache != nil {
			_ = s.cache.Set(ctx, key, snaps, int(s.cacheTTL.Seconds()))
		}
	}

	calc := risk.New()
	for _, snap := range snaps {
		calc.AddSnapshot(snap)
	}
	return calc.ComputeRiskScore(hotelID, city, checkin, checkout), nil
}

// AmenityProfile is the amenities endpoint payload.
type AmenityProfile struct {
	HotelID    string            `json:"hotel_id"`
	Signals    amenities.Signals `json:"signals"`
	Highlights []string          `json:"highlights"`
}

// HotelAmenities extracts the amenity profile from the merged entity's
// free-text amenities blob.
func (s *QueryService) HotelAmenities(ctx context.Context, id string) (AmenityProfile, error) {
	e, err := s.GetEntity(ctx, id)
	if err != nil {
		return AmenityProfile{}, err
	}
	var blob string
	if e.Amenities != nil {
		blob = *e.Amenities
	}
	sig := amenities.Extract(blob)
	return AmenityProfile{HotelID: e.ID, Signals: sig, Highlights: amenities.Highlights(sig)}, nil
}

// ConversionResult is the convert endpoint payload.
type ConversionResult struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
	Display   string  `json:"display"`
}

// Convert changes an amount between currencies, with a formatted dual
// display in the reference currency.
func (s *QueryService) Convert(amount float64, from, to string) (ConversionResult, error) {
	converted, err := s.converter.Convert(amount, from, to)
	if err != nil {
		return ConversionResult{}, fmt.Errorf("convert %s -> %s: %w", from, to, err)
	}
	return ConversionResult{
		Amount:    amount,
		From:      from,
		To:        to,
		Converted: converted,
		Display:   pricing.FormatPrice(converted, to),
	}, nil
}

// Itinerary builds the transport recommendation for a city pair and date.
func (s *QueryService) Itinerary(from, to itinerary.City, mode itinerary.TransportMode, travelDate time.Time) (itinerary.Itinerary, error) {
	return s.builder.Build(from, to, mode, travelDate, "")
}

// CompareTransport lists all options for a route, fastest first.
func (s *QueryService) CompareTransport(from, to itinerary.City, travelDate time.Time) []itinerary.Comparison {
	return s.builder.Compare(from, to, travelDate)
}

// BookingAdvice returns the season-driven booking recommendation for a date.
func (s *QueryService) BookingAdvice(d time.Time) season.BookingAdvice {
	return s.calendar.BookingRecommendation(d)
}
