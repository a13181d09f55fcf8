package domain

import "time"

// AvailabilityStatus is the provider-reported availability bucket.
type AvailabilityStatus string

const (
	StatusAvailable AvailabilityStatus = "available"
	StatusLimited   AvailabilityStatus = "limited"    // < 5 rooms
	StatusLastRooms AvailabilityStatus = "last_rooms" // 1-2 rooms
	StatusSoldOut   AvailabilityStatus = "sold_out"
	StatusUnknown   AvailabilityStatus = "unknown"
)

// ParseStatus maps a provider status string onto a known bucket.
func ParseStatus(s string) AvailabilityStatus {
	switch AvailabilityStatus(s) {
	case StatusAvailable, StatusLimited, StatusLastRooms, StatusSoldOut:
		return AvailabilityStatus(s)
	}
	return StatusUnknown
}

// AvailabilitySnapshot is a point-in-time availability fact for one hotel.
type AvailabilitySnapshot struct {
	HotelID   string             `json:"hotel_id"`
	Provider  string             `json:"provider"`
	Checkin   time.Time          `json:"checkin"`
	Checkout  time.Time          `json:"checkout"`
	Status    AvailabilityStatus `json:"status"`
	RoomsLeft *int               `json:"rooms_left,omitempty"`
	MinPrice  *float64           `json:"min_price,omitempty"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// RiskLevel buckets a 0-100 risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"      // 0-30
	RiskMedium   RiskLevel = "medium"   // 31-60
	RiskHigh     RiskLevel = "high"     // 61-80
	RiskCritical RiskLevel = "critical" // 81-100
)

// PriceTrend describes the recent price direction for a hotel.
type PriceTrend struct {
	Direction     string   `json:"direction"` // up | down | stable
	ChangePercent float64  `json:"change_percent"`
	AvgRecent     *float64 `json:"avg_price_7d,omitempty"`
	AvgOlder      *float64 `json:"avg_price_30d,omitempty"`
}

// RiskScore is a derived sold-out risk assessment, never stored.
type RiskScore struct {
	HotelID        string     `json:"hotel_id"`
	City           string     `json:"city"`
	Score          int        `json:"score"` // 0-100
	Level          RiskLevel  `json:"level"`
	Reasons        []string   `json:"reasons"`
	Trend          PriceTrend `json:"trend"`
	Recommendation string     `json:"recommendation"`
	ComputedAt     time.Time  `json:"computed_at"`
}
