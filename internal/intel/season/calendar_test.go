package season

import (
	"errors"
	"testing"
	"time"

	"labbaik_intel/internal/domain"
)

func TestNewCalendarValidation(t *testing.T) {
	_, err := NewCalendar([]Period{
		{Name: "backwards", Start: date(2025, 5, 10), End: date(2025, 5, 1), Weight: 1.5},
	}, 0)
	if !errors.Is(err, domain.ErrInvalidSeasonPeriod) {
		t.Fatalf("expected ErrInvalidSeasonPeriod, got %v", err)
	}

	_, err = NewCalendar([]Period{
		{Name: "discount", Start: date(2025, 5, 1), End: date(2025, 5, 10), Weight: 0.5},
	}, 0)
	if !errors.Is(err, domain.ErrInvalidSeasonPeriod) {
		t.Fatalf("expected ErrInvalidSeasonPeriod for weight < 1, got %v", err)
	}

	if _, err := NewCalendar(defaultPeriods(), 0); err != nil {
		t.Fatalf("default periods must validate: %v", err)
	}
}

func TestWeightPicksMaxAcrossOverlaps(t *testing.T) {
	c := Default()

	cases := []struct {
		name string
		d    time.Time
		want float64
	}{
		{"hajj and eid adha overlap", date(2025, 6, 8), 2.0},
		{"hajj end meets school holiday start", date(2025, 6, 15), 2.0},
		{"school holiday only", date(2025, 6, 20), 1.5},
		{"year-end beats new year", date(2025, 12, 30), 1.6},
		{"inclusive period end", date(2026, 1, 5), 1.6},
		{"quiet season", date(2026, 2, 1), 1.0},
		{"ramadan 2026", date(2026, 3, 1), 1.8},
		{"hajj 2026", date(2026, 5, 20), 2.0},
	}
	for _, tc := range cases {
		if got := c.Weight(tc.d); got != tc.want {
			t.Errorf("%s: Weight(%s) = %v, want %v", tc.name, tc.d.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestSeasonIgnoresTimeOfDay(t *testing.T) {
	c := Default()
	d := time.Date(2025, 3, 30, 23, 59, 0, 0, time.UTC)
	s := c.Season(d)
	if s == nil || s.Type != TypeRamadan {
		t.Fatalf("Season(%v) = %+v, want Ramadan 2025", d, s)
	}
}

func TestWeightRangeCapsAtThirtyDays(t *testing.T) {
	c := Default()

	// A stay crossing into Eid al-Fitr picks up the peak weight.
	if got := c.WeightRange(date(2025, 3, 25), date(2025, 4, 2)); got != 2.0 {
		t.Errorf("WeightRange crossing Eid = %v, want 2.0", got)
	}

	// A very long range stops scanning after 30 days, before Hajj begins.
	if got := c.WeightRange(date(2025, 4, 10), date(2025, 6, 10)); got != 1.0 {
		t.Errorf("WeightRange capped scan = %v, want 1.0", got)
	}
}

func TestIsPeak(t *testing.T) {
	c := Default()
	if !c.IsPeak(date(2025, 6, 1)) {
		t.Error("Hajj date should be peak")
	}
	if !c.IsPeak(date(2025, 12, 29)) {
		// The 1.6 year-end weight wins over the 1.4 New Year weight.
		t.Error("year-end date should be peak")
	}
	if c.IsPeak(date(2026, 2, 1)) {
		t.Error("quiet date should not be peak")
	}
	if !c.IsPeak(date(2026, 5, 20)) {
		t.Error("Hajj 2026 date should be peak")
	}

	strict, err := NewCalendar(defaultPeriods(), 1.9)
	if err != nil {
		t.Fatal(err)
	}
	if strict.IsPeak(date(2025, 3, 15)) {
		t.Error("Ramadan (1.8) is below a 1.9 threshold")
	}
	if !strict.IsPeak(date(2025, 6, 1)) {
		t.Error("Hajj (2.0) clears a 1.9 threshold")
	}
}

func TestUpcomingPeaks(t *testing.T) {
	c := Default()
	peaks := c.UpcomingPeaks(date(2025, 5, 1), 2)
	if len(peaks) != 2 {
		t.Fatalf("got %d peaks, want 2", len(peaks))
	}
	if peaks[0].Name != "Hajj 2025" {
		t.Errorf("first peak = %s, want Hajj 2025", peaks[0].Name)
	}
	if peaks[1].Type != TypeEidAdha {
		t.Errorf("second peak type = %s, want EID_ADHA", peaks[1].Type)
	}

	all := c.UpcomingPeaks(date(2025, 5, 1), 0)
	for _, p := range all {
		if p.Weight < DefaultPeakThreshold {
			t.Errorf("%s weight %v below peak threshold", p.Name, p.Weight)
		}
		if p.End.Before(date(2025, 5, 1)) {
			t.Errorf("%s already ended", p.Name)
		}
	}
}

func TestBookingRecommendation(t *testing.T) {
	c := Default()

	adv := c.BookingRecommendation(date(2025, 6, 1))
	if adv.Urgency != "CRITICAL" || adv.AdvanceDays != 90 {
		t.Errorf("Hajj advice = %+v, want CRITICAL/90", adv)
	}
	if adv.Season != "Hajj 2025" {
		t.Errorf("Hajj advice season = %s", adv.Season)
	}

	adv = c.BookingRecommendation(date(2025, 6, 20))
	if adv.Urgency != "HIGH" || adv.AdvanceDays != 60 {
		t.Errorf("school holiday advice = %+v, want HIGH/60", adv)
	}

	adv = c.BookingRecommendation(date(2025, 12, 29))
	if adv.Urgency != "HIGH" {
		t.Errorf("year-end advice urgency = %s, want HIGH", adv.Urgency)
	}

	adv = c.BookingRecommendation(date(2026, 2, 1))
	if adv.Urgency != "LOW" || adv.Season != "Regular" {
		t.Errorf("quiet advice = %+v, want LOW/Regular", adv)
	}
}
