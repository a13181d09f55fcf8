// Package season maps calendar dates to demand weights used by risk scoring
// and itinerary buffers.
package season

import (
	"fmt"
	"sort"
	"time"

	"labbaik_intel/internal/domain"
)

// SeasonType labels why a period carries extra demand.
type SeasonType string

const (
	TypeRamadan         SeasonType = "RAMADAN"
	TypeHajj            SeasonType = "HAJJ"
	TypeSchoolHolidayID SeasonType = "SCHOOL_HOLIDAY_ID"
	TypeSchoolHolidayMY SeasonType = "SCHOOL_HOLIDAY_MY"
	TypeEidFitr         SeasonType = "EID_FITR"
	TypeEidAdha         SeasonType = "EID_ADHA"
	TypeNewYear         SeasonType = "NEW_YEAR"
)

// Period is one configured demand window, inclusive on both ends.
type Period struct {
	Name        string
	Type        SeasonType
	Start       time.Time
	End         time.Time
	Weight      float64 // 1.0 normal, up to 2.0 peak
	Description string
}

// DefaultPeakThreshold marks a date as peak when its weight reaches it.
const DefaultPeakThreshold = 1.5

// Calendar answers weight lookups over a validated set of periods. Periods
// may overlap; the highest weight wins.
type Calendar struct {
	periods       []Period
	peakThreshold float64
}

// NewCalendar validates the configuration up front: a period ending before
// it starts is a programmer error and fails fast.
func NewCalendar(periods []Period, peakThreshold float64) (*Calendar, error) {
	for _, p := range periods {
		if p.End.Before(p.Start) {
			return nil, fmt.Errorf("%w: %s ends %s before start %s",
				domain.ErrInvalidSeasonPeriod, p.Name,
				p.End.Format("2006-01-02"), p.Start.Format("2006-01-02"))
		}
		if p.Weight < 1.0 {
			return nil, fmt.Errorf("%w: %s has weight %v < 1.0",
				domain.ErrInvalidSeasonPeriod, p.Name, p.Weight)
		}
	}
	if peakThreshold <= 0 {
		peakThreshold = DefaultPeakThreshold
	}
	return &Calendar{periods: periods, peakThreshold: peakThreshold}, nil
}

// Default builds the calendar for the configured 2025-2026 seasons.
func Default() *Calendar {
	c, err := NewCalendar(defaultPeriods(), DefaultPeakThreshold)
	if err != nil {
		// defaultPeriods is static and validated by tests.
		panic(err)
	}
	return c
}

// DefaultWithThreshold keeps the built-in periods but lets deployments tune
// what counts as a peak.
func DefaultWithThreshold(peakThreshold float64) *Calendar {
	c, err := NewCalendar(defaultPeriods(), peakThreshold)
	if err != nil {
		panic(err)
	}
	return c
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func defaultPeriods() []Period {
	return []Period{
		{Name: "Ramadan 2025", Type: TypeRamadan, Start: date(2025, 3, 1), End: date(2025, 3, 30), Weight: 1.8,
			Description: "Fasting month, demand spikes over the last ten days"},
		{Name: "Idul Fitri 2025", Type: TypeEidFitr, Start: date(2025, 3, 31), End: date(2025, 4, 5), Weight: 2.0,
			Description: "Eid al-Fitr, peak demand and prices"},
		{Name: "Hajj 2025", Type: TypeHajj, Start: date(2025, 5, 25), End: date(2025, 6, 15), Weight: 2.0,
			Description: "Hajj season, Makkah hotels scarce for umrah"},
		{Name: "Idul Adha 2025", Type: TypeEidAdha, Start: date(2025, 6, 7), End: date(2025, 6, 12), Weight: 2.0,
			Description: "Eid al-Adha"},
		{Name: "Indonesia school holiday", Type: TypeSchoolHolidayID, Start: date(2025, 6, 15), End: date(2025, 7, 15), Weight: 1.5,
			Description: "Indonesian school break, family umrah traffic"},
		{Name: "Year-end holiday", Type: TypeSchoolHolidayID, Start: date(2025, 12, 20), End: date(2026, 1, 5), Weight: 1.6,
			Description: "Christmas and New Year break"},
		{Name: "New Year 2026", Type: TypeNewYear, Start: date(2025, 12, 28), End: date(2026, 1, 3), Weight: 1.4,
			Description: "New Year holiday"},
		{Name: "Ramadan 2026", Type: TypeRamadan, Start: date(2026, 2, 18), End: date(2026, 3, 19), Weight: 1.8,
			Description: "Fasting month"},
		{Name: "Idul Fitri 2026", Type: TypeEidFitr, Start: date(2026, 3, 20), End: date(2026, 3, 25), Weight: 2.0,
			Description: "Eid al-Fitr"},
		{Name: "Hajj 2026", Type: TypeHajj, Start: date(2026, 5, 15), End: date(2026, 6, 5), Weight: 2.0,
			Description: "Hajj season"},
	}
}

func containsDate(p Period, d time.Time) bool {
	day := date(d.Year(), d.Month(), d.Day())
	return !day.Before(p.Start) && !day.After(p.End)
}

// Season returns the matching period carrying the highest weight, or nil.
// Periods overlap (Hajj and Eid al-Adha, year-end and New Year), so the
// scan cannot stop at the first hit.
func (c *Calendar) Season(d time.Time) *Period {
	var best *Period
	for i := range c.periods {
		p := &c.periods[i]
		if !containsDate(*p, d) {
			continue
		}
		if best == nil || p.Weight > best.Weight {
			best = p
		}
	}
	return best
}

// Weight returns the demand weight for a date, 1.0 outside any period.
func (c *Calendar) Weight(d time.Time) float64 {
	if s := c.Season(d); s != nil {
		return s.Weight
	}
	return 1.0
}

// WeightRange returns the maximum weight across a stay, scanning at most 30
// days from the start.
func (c *Calendar) WeightRange(start, end time.Time) float64 {
	maxWeight := 1.0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if w := c.Weight(d); w > maxWeight {
			maxWeight = w
		}
		if d.Sub(start) >= 30*24*time.Hour {
			break
		}
	}
	return maxWeight
}

// IsPeak reports whether a date's weight reaches the peak threshold.
func (c *Calendar) IsPeak(d time.Time) bool {
	return c.Weight(d) >= c.peakThreshold
}

// UpcomingPeaks lists peak periods that have not ended yet, soonest first.
func (c *Calendar) UpcomingPeaks(from time.Time, limit int) []Period {
	var out []Period
	for _, p := range c.periods {
		if !p.End.Before(from) && p.Weight >= c.peakThreshold {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// BookingAdvice is the season-driven booking recommendation for a date.
type BookingAdvice struct {
	Date        string  `json:"date"`
	Season      string  `json:"season"`
	SeasonType  string  `json:"season_type,omitempty"`
	Weight      float64 `json:"weight"`
	Urgency     string  `json:"urgency"`
	AdvanceDays int     `json:"recommended_advance_booking_days"`
	PriceImpact string  `json:"expected_price_impact"`
	Advice      string  `json:"recommendation"`
}

// BookingRecommendation maps a date's weight band onto booking advice.
func (c *Calendar) BookingRecommendation(d time.Time) BookingAdvice {
	s := c.Season(d)
	w := c.Weight(d)

	adv := BookingAdvice{
		Date:   d.Format("2006-01-02"),
		Season: "Regular",
		Weight: w,
	}
	if s != nil {
		adv.Season = s.Name
		adv.SeasonType = string(s.Type)
	}

	switch {
	case w >= 1.8:
		adv.Urgency = "CRITICAL"
		adv.AdvanceDays = 90
		adv.PriceImpact = "+50-100%"
		adv.Advice = "Book 3+ months ahead; prices and availability are very tight."
	case w >= 1.5:
		adv.Urgency = "HIGH"
		adv.AdvanceDays = 60
		adv.PriceImpact = "+30-50%"
		adv.Advice = "Book 2 months ahead; demand is high."
	case w >= 1.3:
		adv.Urgency = "MEDIUM"
		adv.AdvanceDays = 30
		adv.PriceImpact = "+10-30%"
		adv.Advice = "Book a month ahead for the best rates."
	default:
		adv.Urgency = "LOW"
		adv.AdvanceDays = 14
		adv.PriceImpact = "Normal"
		adv.Advice = "Flexible; plenty of options available."
	}
	return adv
}
