// Package itinerary recommends intercity transport with buffer times that
// widen during peak demand seasons.
package itinerary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"labbaik_intel/internal/domain"
	"labbaik_intel/internal/intel/season"
)

// TransportMode identifies how a segment is travelled.
type TransportMode string

const (
	ModeTrain      TransportMode = "TRAIN" // Haramain High Speed
	ModeBus        TransportMode = "BUS"   // SAPTCO VIP
	ModePrivateCar TransportMode = "PRIVATE_CAR"
	ModeUber       TransportMode = "UBER"
)

// City is a supported itinerary endpoint.
type City string

const (
	CityMakkah  City = "MAKKAH"
	CityMadinah City = "MADINAH"
	CityJeddah  City = "JEDDAH"
)

// ParseCity accepts the city name case-insensitively.
func ParseCity(s string) (City, error) {
	switch c := City(strings.ToUpper(strings.TrimSpace(s))); c {
	case CityMakkah, CityMadinah, CityJeddah:
		return c, nil
	default:
		return "", fmt.Errorf("%w: city %q", domain.ErrNotFound, s)
	}
}

// ParseMode accepts the transport mode case-insensitively.
func ParseMode(s string) (TransportMode, error) {
	switch m := TransportMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case ModeTrain, ModeBus, ModePrivateCar, ModeUber:
		return m, nil
	default:
		return "", fmt.Errorf("%w: transport mode %q", domain.ErrNotFound, s)
	}
}

// TransportOption is one scheduled or on-demand connection between cities.
type TransportOption struct {
	Mode        TransportMode `json:"mode"`
	Operator    string        `json:"operator"`
	From        City          `json:"from_city"`
	To          City          `json:"to_city"`
	DurationMin int           `json:"duration_min"`
	PriceSAR    float64       `json:"price_sar"`
	PriceMinSAR float64       `json:"price_min_sar"`
	PriceMaxSAR float64       `json:"price_max_sar"`
	Frequency   string        `json:"frequency"`
	StationFrom string        `json:"station_from"`
	StationTo   string        `json:"station_to"`
	BookingURL  string        `json:"booking_url,omitempty"`
	Notes       []string      `json:"notes,omitempty"`
}

// BufferTime is the recommended lead time before a departure, split into
// the hotel-to-station leg and the check-in wait.
type BufferTime struct {
	HotelToStationMin int      `json:"hotel_to_station_min"`
	CheckinBufferMin  int      `json:"checkin_buffer_min"`
	TotalMin          int      `json:"total_min"`
	PeakExtraMin      int      `json:"peak_extra_min,omitempty"`
	Notes             []string `json:"notes,omitempty"`
}

// Segment is one leg of an itinerary with its buffer folded in.
type Segment struct {
	FromLocation string          `json:"from"`
	ToLocation   string          `json:"to"`
	Transport    TransportOption `json:"transport"`
	Buffer       BufferTime      `json:"buffer"`
	TotalTimeMin int             `json:"total_time_min"`
}

// Itinerary is the full recommendation for a city pair.
type Itinerary struct {
	From             City     `json:"from_city"`
	To               City     `json:"to_city"`
	Segments         []Segment `json:"segments"`
	TotalDurationMin int      `json:"total_duration_min"`
	TotalPriceSAR    float64  `json:"total_price_sar"`
	IsPeakSeason     bool     `json:"is_peak_season"`
	Recommendations  []string `json:"recommendations,omitempty"`
}

// Comparison is one row of a transport option comparison.
type Comparison struct {
	Mode         TransportMode `json:"mode"`
	Operator     string        `json:"operator"`
	DurationMin  int           `json:"duration_min"`
	BufferMin    int           `json:"buffer_min"`
	TotalTimeMin int           `json:"total_time_min"`
	PriceSAR     float64       `json:"price_sar"`
	PriceRange   string        `json:"price_range"`
	Frequency    string        `json:"frequency"`
	StationFrom  string        `json:"station_from"`
	StationTo    string        `json:"station_to"`
	BookingURL   string        `json:"booking_url,omitempty"`
	Recommended  bool          `json:"recommended"`
}

func routeKey(from, to City) string {
	return string(from) + "_" + string(to)
}

var routeOptions = buildRoutes()

func buildRoutes() map[string][]TransportOption {
	routes := map[string][]TransportOption{
		routeKey(CityMakkah, CityMadinah): {
			{
				Mode: ModeTrain, Operator: "Haramain High Speed Railway",
				From: CityMakkah, To: CityMadinah,
				DurationMin: 120, PriceSAR: 200, PriceMinSAR: 150, PriceMaxSAR: 350,
				Frequency:   "Every 30-60 min",
				StationFrom: "Makkah Station (Al Rusaifah)",
				StationTo:   "Madinah Station (Knowledge Economic City)",
				BookingURL:  "https://sar.hhr.sa",
				Notes: []string{
					"Fastest and most comfortable option",
					"Book online at hhr.sa or the SAR app",
					"Passport required for verification",
					"Baggage: 2x23kg plus 7kg cabin",
				},
			},
			{
				Mode: ModeBus, Operator: "SAPTCO VIP",
				From: CityMakkah, To: CityMadinah,
				DurationMin: 360, PriceSAR: 120, PriceMinSAR: 100, PriceMaxSAR: 150,
				Frequency:   "6x daily",
				StationFrom: "SAPTCO Makkah Terminal",
				StationTo:   "SAPTCO Madinah Terminal",
				BookingURL:  "https://www.saptco.com.sa",
				Notes: []string{
					"Cheaper than the train",
					"VIP coach with AC, WiFi and onboard toilet",
					"Stops at rest areas",
				},
			},
			{
				Mode: ModePrivateCar, Operator: "Private/Rental",
				From: CityMakkah, To: CityMadinah,
				DurationMin: 300, PriceSAR: 600, PriceMinSAR: 500, PriceMaxSAR: 1000,
				Frequency:   "On demand",
				StationFrom: "Hotel pickup",
				StationTo:   "Hotel dropoff",
				Notes: []string{
					"Flexible, door-to-door",
					"Can stop for ziyarah sites",
					"Fare is negotiated with the driver",
				},
			},
			{
				Mode: ModeUber, Operator: "Uber/Careem",
				From: CityMakkah, To: CityMadinah,
				DurationMin: 300, PriceSAR: 450, PriceMinSAR: 400, PriceMaxSAR: 600,
				Frequency:   "On demand",
				StationFrom: "Hotel pickup",
				StationTo:   "Hotel dropoff",
				Notes: []string{
					"Booked via app with transparent pricing",
					"Surge pricing possible",
				},
			},
		},
		routeKey(CityJeddah, CityMakkah): {
			{
				Mode: ModeTrain, Operator: "Haramain High Speed Railway",
				From: CityJeddah, To: CityMakkah,
				DurationMin: 30, PriceSAR: 75, PriceMinSAR: 50, PriceMaxSAR: 100,
				Frequency:   "Every 30 min",
				StationFrom: "Jeddah Station (Sulaymaniyah)",
				StationTo:   "Makkah Station",
				BookingURL:  "https://sar.hhr.sa",
				Notes:       []string{"Very fast", "From the airport take a bus or taxi to the station first"},
			},
			{
				Mode: ModeBus, Operator: "SAPTCO",
				From: CityJeddah, To: CityMakkah,
				DurationMin: 90, PriceSAR: 50, PriceMinSAR: 40, PriceMaxSAR: 80,
				Frequency:   "Every 30 min",
				StationFrom: "Jeddah Airport / SAPTCO Terminal",
				StationTo:   "Makkah Terminal",
				Notes:       []string{"Direct bus from the airport", "Cheap and comfortable"},
			},
			{
				Mode: ModeUber, Operator: "Uber/Careem",
				From: CityJeddah, To: CityMakkah,
				DurationMin: 75, PriceSAR: 200, PriceMinSAR: 150, PriceMaxSAR: 300,
				Frequency:   "On demand",
				StationFrom: "Airport/Hotel",
				StationTo:   "Makkah hotel",
				Notes:       []string{"Door-to-door", "Pricier but convenient"},
			},
		},
		routeKey(CityJeddah, CityMadinah): {
			{
				Mode: ModeTrain, Operator: "Haramain High Speed Railway",
				From: CityJeddah, To: CityMadinah,
				DurationMin: 120, PriceSAR: 200, PriceMinSAR: 150, PriceMaxSAR: 300,
				Frequency:   "Every 60 min",
				StationFrom: "Jeddah Station",
				StationTo:   "Madinah Station",
				BookingURL:  "https://sar.hhr.sa",
				Notes:       []string{"Direct train, two hour trip"},
			},
		},
	}

	// Return legs reuse the outbound data with stations swapped.
	routes[routeKey(CityMadinah, CityMakkah)] = reverseRoute(routes[routeKey(CityMakkah, CityMadinah)])
	routes[routeKey(CityMakkah, CityJeddah)] = reverseRoute(routes[routeKey(CityJeddah, CityMakkah)])
	routes[routeKey(CityMadinah, CityJeddah)] = reverseRoute(routes[routeKey(CityJeddah, CityMadinah)])
	return routes
}

func reverseRoute(opts []TransportOption) []TransportOption {
	out := make([]TransportOption, len(opts))
	for i, o := range opts {
		rev := o
		rev.From, rev.To = o.To, o.From
		rev.StationFrom, rev.StationTo = o.StationTo, o.StationFrom
		out[i] = rev
	}
	return out
}

var bufferByMode = map[TransportMode]BufferTime{
	ModeTrain: {
		HotelToStationMin: 45, CheckinBufferMin: 45, TotalMin: 90, PeakExtraMin: 30,
		Notes: []string{
			"Train stations sit outside the city; taxi or Uber needed",
			"Check in 30 minutes before departure",
			"Airport-style security check",
		},
	},
	ModeBus: {
		HotelToStationMin: 30, CheckinBufferMin: 30, TotalMin: 60, PeakExtraMin: 20,
		Notes: []string{
			"Terminals are usually close to hotels",
			"Check in 20 minutes before departure",
		},
	},
	ModePrivateCar: {
		HotelToStationMin: 0, CheckinBufferMin: 15, TotalMin: 15,
		Notes: []string{"Direct hotel pickup; be ready 15 minutes early"},
	},
	ModeUber: {
		HotelToStationMin: 0, CheckinBufferMin: 15, TotalMin: 15,
		Notes: []string{"Order the ride 10-15 minutes before leaving"},
	},
}

// Builder assembles itineraries from the static transport tables and a
// season calendar. It holds no mutable state and is safe for concurrent use.
type Builder struct {
	cal *season.Calendar
}

func NewBuilder(cal *season.Calendar) *Builder {
	if cal == nil {
		cal = season.Default()
	}
	return &Builder{cal: cal}
}

// Options returns the transport options for a city pair, empty if the pair
// has no route data.
func (b *Builder) Options(from, to City) []TransportOption {
	return routeOptions[routeKey(from, to)]
}

// Buffer returns the lead-time recommendation for a mode on a date. During
// peak season the extra buffer is split evenly between the station leg and
// the check-in wait.
func (b *Builder) Buffer(mode TransportMode, travelDate time.Time) BufferTime {
	buf, ok := bufferByMode[mode]
	if !ok {
		buf = BufferTime{HotelToStationMin: 30, CheckinBufferMin: 30, TotalMin: 60}
	}
	if !b.cal.IsPeak(travelDate) || buf.PeakExtraMin == 0 {
		return buf
	}

	extra := buf.PeakExtraMin
	out := buf
	out.HotelToStationMin += extra / 2
	out.CheckinBufferMin += extra / 2
	out.TotalMin += extra
	out.Notes = append(append([]string(nil), buf.Notes...),
		fmt.Sprintf("Peak season: +%d minutes of extra buffer", extra),
		"Expect crowds at stations and terminals",
	)
	return out
}

// Build assembles a single-segment itinerary for a city pair. When the
// requested mode is not offered on the route, the first available option is
// used instead. Unknown routes fail with ErrNotFound.
func (b *Builder) Build(from, to City, mode TransportMode, travelDate time.Time, hotelName string) (Itinerary, error) {
	options := b.Options(from, to)
	if len(options) == 0 {
		return Itinerary{}, fmt.Errorf("%w: no transport data for route %s -> %s",
			domain.ErrNotFound, from, to)
	}

	transport := options[0]
	for _, o := range options {
		if o.Mode == mode {
			transport = o
			break
		}
	}

	buf := b.Buffer(transport.Mode, travelDate)
	fromLoc := hotelName
	if fromLoc == "" {
		fromLoc = "Hotel in " + string(from)
	}
	seg := Segment{
		FromLocation: fromLoc,
		ToLocation:   "Hotel in " + string(to),
		Transport:    transport,
		Buffer:       buf,
		TotalTimeMin: transport.DurationMin + buf.TotalMin,
	}

	return Itinerary{
		From:             from,
		To:               to,
		Segments:         []Segment{seg},
		TotalDurationMin: seg.TotalTimeMin,
		TotalPriceSAR:    transport.PriceSAR,
		IsPeakSeason:     b.cal.IsPeak(travelDate),
		Recommendations:  b.recommendations(transport, buf, travelDate),
	}, nil
}

func (b *Builder) recommendations(transport TransportOption, buf BufferTime, travelDate time.Time) []string {
	var recs []string
	switch transport.Mode {
	case ModeTrain:
		recs = append(recs,
			"Book the train 1-2 weeks ahead at hhr.sa",
			"Business class is worth it for the two hour trip")
	case ModeBus:
		recs = append(recs,
			"Buy tickets online at saptco.com.sa",
			"Bring snacks and water for the 5-6 hour trip")
	case ModePrivateCar, ModeUber:
		recs = append(recs,
			"Agree on the fare before departure",
			"Stops at ziyarah sites (Bir Ali and others) can be requested")
	}

	recs = append(recs,
		fmt.Sprintf("Total travel time: ~%d minutes", transport.DurationMin+buf.TotalMin),
		fmt.Sprintf("Allow a %d minute buffer before departure", buf.TotalMin),
	)

	if b.cal.IsPeak(travelDate) {
		if s := b.cal.Season(travelDate); s != nil {
			recs = append(recs, fmt.Sprintf("PEAK SEASON (%s): book and depart earlier than usual", s.Name))
		}
	}
	return recs
}

// Compare lists every option on a route with buffers applied, fastest total
// time first. The train is always flagged as the recommended mode.
func (b *Builder) Compare(from, to City, travelDate time.Time) []Comparison {
	options := b.Options(from, to)
	out := make([]Comparison, 0, len(options))
	for _, opt := range options {
		buf := b.Buffer(opt.Mode, travelDate)
		out = append(out, Comparison{
			Mode:         opt.Mode,
			Operator:     opt.Operator,
			DurationMin:  opt.DurationMin,
			BufferMin:    buf.TotalMin,
			TotalTimeMin: opt.DurationMin + buf.TotalMin,
			PriceSAR:     opt.PriceSAR,
			PriceRange:   fmt.Sprintf("%.0f-%.0f SAR", opt.PriceMinSAR, opt.PriceMaxSAR),
			Frequency:    opt.Frequency,
			StationFrom:  opt.StationFrom,
			StationTo:    opt.StationTo,
			BookingURL:   opt.BookingURL,
			Recommended:  opt.Mode == ModeTrain,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalTimeMin < out[j].TotalTimeMin })
	return out
}
