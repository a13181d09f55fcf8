// Package risk maintains rolling availability history per hotel and computes
// 0-100 sold-out risk scores from it.
package risk

import (
	"fmt"
	"sync"
	"time"

	"labbaik_intel/internal/domain"
)

// Sub-score weights. As coded they sum to 75, not 100: the rooms-left factor
// is folded into the availability sub-score instead of being weighted
// separately, but its slot was never redistributed. Kept as named constants
// so a future correction is a one-line change.
const (
	weightAvailability = 30
	weightRoomsLeft    = 25 // reserved, folded into availability
	weightPriceTrend   = 20
	weightUrgency      = 15
	weightSeasonal     = 10
)

// retentionWindow is the trailing snapshot retention period.
const retentionWindow = 60 * 24 * time.Hour

// recentWindow bounds the history considered when scoring.
const recentWindow = 30 * 24 * time.Hour

// Calculator owns the snapshot store for one logical run (one city batch).
// Safe for concurrent use; separate batches should each own an instance.
type Calculator struct {
	mu        sync.Mutex
	snapshots map[string][]domain.AvailabilitySnapshot
	clock     func() time.Time
}

func New() *Calculator {
	return NewWithClock(time.Now)
}

// NewWithClock injects the time source; tests pin it.
func NewWithClock(clock func() time.Time) *Calculator {
	return &Calculator{
		snapshots: make(map[string][]domain.AvailabilitySnapshot),
		clock:     clock,
	}
}

// AddSnapshot appends a snapshot and prunes the hotel's history to the
// 60-day window in the same critical section. A snapshot that leaves the
// window never re-enters it.
func (c *Calculator) AddSnapshot(s domain.AvailabilitySnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.clock().Add(-retentionWindow)
	kept := c.snapshots[s.HotelID][:0]
	for _, old := range c.snapshots[s.HotelID] {
		if old.FetchedAt.After(cutoff) {
			kept = append(kept, old)
		}
	}
	if s.FetchedAt.After(cutoff) {
		kept = append(kept, s)
	}
	c.snapshots[s.HotelID] = kept
}

// RecentSnapshots returns the hotel's snapshots newer than the given lookback.
func (c *Calculator) RecentSnapshots(hotelID string, lookback time.Duration) []domain.AvailabilitySnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.clock().Add(-lookback)
	var out []domain.AvailabilitySnapshot
	for _, s := range c.snapshots[hotelID] {
		if s.FetchedAt.After(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

var statusScores = map[domain.AvailabilityStatus]int{
	domain.StatusAvailable: 10,
	domain.StatusLimited:   50,
	domain.StatusLastRooms: 80,
	domain.StatusSoldOut:   100,
	domain.StatusUnknown:   50,
}

func availabilityScore(snaps []domain.AvailabilitySnapshot) (int, []string) {
	if len(snaps) == 0 {
		return 50, []string{"No recent availability data"}
	}

	var reasons []string
	latest := snaps[len(snaps)-1]

	score, ok := statusScores[latest.Status]
	if !ok {
		score = 50
	}

	if len(snaps) >= 3 {
		for _, s := range snaps[len(snaps)-3:] {
			if s.Status == domain.StatusSoldOut {
				score = min(100, score+20)
				reasons = append(reasons, "Recently sold out")
				break
			}
		}
	}

	// Only one rooms-left bonus can fire; <=2 shadows the 3-5 band.
	if latest.RoomsLeft != nil {
		if *latest.RoomsLeft <= 2 {
			score = min(100, score+30)
			reasons = append(reasons, fmt.Sprintf("Only %d room(s) left!", *latest.RoomsLeft))
		} else if *latest.RoomsLeft <= 5 {
			score = min(100, score+15)
			reasons = append(reasons, fmt.Sprintf("Only %d rooms left", *latest.RoomsLeft))
		}
	}

	switch latest.Status {
	case domain.StatusAvailable:
		reasons = append(reasons, "Currently available")
	case domain.StatusLimited:
		reasons = append(reasons, "Limited availability")
	}

	return min(100, score), reasons
}

func priceTrendScore(snaps []domain.AvailabilitySnapshot) (int, domain.PriceTrend, []string) {
	var prices []float64
	for _, s := range snaps {
		if s.MinPrice != nil && *s.MinPrice != 0 {
			prices = append(prices, *s.MinPrice)
		}
	}
	if len(prices) < 2 {
		// Insufficient history degrades to a neutral contribution.
		return 0, domain.PriceTrend{Direction: "stable"}, nil
	}

	recent := prices
	older := prices[:len(prices)/2]
	if len(prices) >= 7 {
		recent = prices[len(prices)-7:]
	}
	if len(prices) > 7 {
		older = prices[:len(prices)-7]
	}

	avgRecent := mean(recent)
	avgOlder := avgRecent
	if len(older) > 0 {
		avgOlder = mean(older)
	}

	changePercent := 0.0
	if avgOlder > 0 {
		changePercent = (avgRecent - avgOlder) / avgOlder * 100
	}

	var (
		direction string
		score     int
		reasons   []string
	)
	switch {
	case changePercent > 5:
		direction = "up"
		score = min(50, int(changePercent*2))
		reasons = append(reasons, fmt.Sprintf("Price increased %.1f%%", changePercent))
	case changePercent < -5:
		direction = "down"
		score = 0
		reasons = append(reasons, fmt.Sprintf("Price dropped %.1f%%", -changePercent))
	default:
		direction = "stable"
		score = 10
	}

	trend := domain.PriceTrend{
		Direction:     direction,
		ChangePercent: round1(changePercent),
		AvgRecent:     ptr(round2(avgRecent)),
	}
	if avgOlder != avgRecent {
		trend.AvgOlder = ptr(round2(avgOlder))
	}
	return score, trend, reasons
}

func urgencyScore(daysUntil int) (int, []string) {
	switch {
	case daysUntil <= 3:
		return 90, []string{"Check-in in 3 days or less!"}
	case daysUntil <= 7:
		return 70, []string{"Check-in within a week"}
	case daysUntil <= 14:
		return 50, []string{"Check-in within 2 weeks"}
	case daysUntil <= 30:
		return 30, []string{"Check-in within a month"}
	case daysUntil <= 60:
		return 15, nil
	default:
		return 5, nil
	}
}

func seasonalScore(month time.Month) (int, []string) {
	switch month {
	case time.June, time.July:
		return 80, []string{"Hajj season - very high demand"}
	case time.March, time.April:
		return 70, []string{"Ramadan - high demand"}
	case time.December, time.January:
		return 50, []string{"Holiday season"}
	case time.February, time.November:
		return 30, nil
	default:
		return 10, []string{"Low season"}
	}
}

// ComputeRiskScore combines the weighted sub-scores into a clamped 0-100
// score with the top five contributing reasons. Empty history yields a
// neutral mid-risk result, never an error.
func (c *Calculator) ComputeRiskScore(hotelID, city string, checkin time.Time, checkout *time.Time) domain.RiskScore {
	now := c.clock()
	snaps := c.RecentSnapshots(hotelID, recentWindow)

	var reasons []string

	availScore, availReasons := availabilityScore(snaps)
	reasons = append(reasons, availReasons...)

	priceScore, trend, priceReasons := priceTrendScore(snaps)
	reasons = append(reasons, priceReasons...)

	daysUntil := int(checkin.Sub(now).Hours() / 24)
	urgScore, urgReasons := urgencyScore(daysUntil)
	reasons = append(reasons, urgReasons...)

	seasScore, seasReasons := seasonalScore(checkin.Month())
	reasons = append(reasons, seasReasons...)

	total := int(float64(availScore)*weightAvailability/100 +
		float64(priceScore)*weightPriceTrend/100 +
		float64(urgScore)*weightUrgency/100 +
		float64(seasScore)*weightSeasonal/100)
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	level, recommendation := LevelFor(total)
	if len(reasons) > 5 {
		reasons = reasons[:5]
	}

	return domain.RiskScore{
		HotelID:        hotelID,
		City:           city,
		Score:          total,
		Level:          level,
		Reasons:        reasons,
		Trend:          trend,
		Recommendation: recommendation,
		ComputedAt:     now,
	}
}

// LevelFor buckets a score and pairs it with the fixed recommendation.
func LevelFor(score int) (domain.RiskLevel, string) {
	switch {
	case score >= 81:
		return domain.RiskCritical, "Book immediately! High risk of selling out."
	case score >= 61:
		return domain.RiskHigh, "Book soon - availability is limited."
	case score >= 31:
		return domain.RiskMedium, "Consider booking - demand is building."
	default:
		return domain.RiskLow, "Low pressure - safe to compare options."
	}
}

// FormatBadge renders a risk level as a display badge.
func FormatBadge(level domain.RiskLevel) string {
	switch level {
	case domain.RiskLow:
		return "Low Risk"
	case domain.RiskMedium:
		return "Medium Risk"
	case domain.RiskHigh:
		return "High Risk - Book Soon!"
	case domain.RiskCritical:
		return "CRITICAL - Almost Sold Out!"
	}
	return "Unknown"
}

// UrgencyText describes days-until-checkin for display.
func UrgencyText(daysUntil int) string {
	switch {
	case daysUntil <= 0:
		return "Check-in today!"
	case daysUntil == 1:
		return "Check-in tomorrow!"
	case daysUntil <= 3:
		return fmt.Sprintf("Only %d days left!", daysUntil)
	case daysUntil <= 7:
		return fmt.Sprintf("%d days until check-in", daysUntil)
	case daysUntil <= 14:
		return "Less than 2 weeks"
	case daysUntil <= 30:
		return "Within a month"
	default:
		return fmt.Sprintf("%d days away", daysUntil)
	}
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round1(f float64) float64 { return float64(int(f*10+sign(f)*0.5)) / 10 }
func round2(f float64) float64 { return float64(int(f*100+sign(f)*0.5)) / 100 }

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

func ptr[T any](v T) *T { return &v }
