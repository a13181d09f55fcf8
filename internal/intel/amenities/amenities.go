// Package amenities extracts structured facility signals from the free-text
// amenity blobs providers ship, and scores them for pilgrim relevance.
package amenities

import (
	"regexp"
	"sort"
	"strings"

	"labbaik_intel/internal/domain"
)

// Signals are the facility flags detected in a hotel's amenities text.
type Signals struct {
	Shuttle      bool `json:"shuttle"`
	ShuttleFree  bool `json:"shuttle_free"`
	ShuttleHaram bool `json:"shuttle_haram"`

	WheelchairAccess bool `json:"wheelchair_access"`
	Elevator         bool `json:"elevator"`

	FamilyRoom      bool `json:"family_room"`
	ConnectingRooms bool `json:"connecting_rooms"`
	Suite           bool `json:"suite"`

	Breakfast     bool `json:"breakfast"`
	BreakfastFree bool `json:"breakfast_free"`
	Restaurant    bool `json:"restaurant"`

	Wifi     bool `json:"wifi"`
	WifiFree bool `json:"wifi_free"`

	Parking     bool `json:"parking"`
	ParkingFree bool `json:"parking_free"`

	Pool bool `json:"pool"`
	Gym  bool `json:"gym"`
	Spa  bool `json:"spa"`

	Laundry     bool `json:"laundry"`
	RoomService bool `json:"room_service"`
	Concierge   bool `json:"concierge"`

	PrayerRoom bool `json:"prayer_room"`
	Quran      bool `json:"quran"`

	AirConditioning bool `json:"air_conditioning"`
	Minibar         bool `json:"minibar"`
	Safe            bool `json:"safe"`

	Score         int      `json:"score"`
	PriorityScore int      `json:"priority_score"`
	RawMatches    []string `json:"raw_matches,omitempty"`
}

type rule struct {
	key      string
	set      func(*Signals)
	patterns []*regexp.Regexp
}

func res(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// rules is ordered: extraction and RawMatches follow this sequence.
var rules = []rule{
	{"shuttle", func(s *Signals) { s.Shuttle = true },
		res(`\bshuttle\b`, `\bhotel shuttle\b`, `\btransfer\b`, `\btransport(ation)?\b`, `\bpick[- ]?up\b`)},
	{"shuttle_free", func(s *Signals) { s.ShuttleFree = true },
		res(`\bfree shuttle\b`, `\bcomplimentary shuttle\b`, `\bshuttle.*free\b`, `\bfree.*transport\b`)},
	{"shuttle_haram", func(s *Signals) { s.ShuttleHaram = true },
		res(`\bshuttle.*haram\b`, `\bto (al[- ])?haram\b`, `\bharam.*shuttle\b`, `\bmasjid(il)? haram\b`, `\bto mosque\b`, `\bmosque shuttle\b`)},

	{"wheelchair_access", func(s *Signals) { s.WheelchairAccess = true },
		res(`\bwheelchair\b`, `\baccessib(le|ility)\b`, `\bdisabled\b`, `\bhandicap\b`, `\bbarrier[- ]?free\b`, `\bmobility\b`)},
	{"elevator", func(s *Signals) { s.Elevator = true },
		res(`\belevator\b`, `\blift\b`)},

	{"family_room", func(s *Signals) { s.FamilyRoom = true },
		res(`\bfamily room\b`, `\bfamily suite\b`, `\bfamily\b`, `\btriple room\b`, `\bquad room\b`)},
	{"connecting_rooms", func(s *Signals) { s.ConnectingRooms = true },
		res(`\bconnecting room\b`, `\badjoining room\b`)},
	{"suite", func(s *Signals) { s.Suite = true },
		res(`\bsuite\b`, `\bjunior suite\b`, `\bexecutive suite\b`)},

	{"breakfast", func(s *Signals) { s.Breakfast = true },
		res(`\bbreakfast\b`, `\bmorning meal\b`)},
	{"breakfast_free", func(s *Signals) { s.BreakfastFree = true },
		res(`\bfree breakfast\b`, `\bbreakfast included\b`, `\bcomplimentary breakfast\b`, `\bincl.*breakfast\b`, `\bbreakfast.*incl\b`)},
	{"restaurant", func(s *Signals) { s.Restaurant = true },
		res(`\brestaurant\b`, `\bdining\b`, `\bbuffet\b`, `\bcafe\b`, `\bcafeteria\b`)},

	{"wifi", func(s *Signals) { s.Wifi = true },
		res(`\bwi[- ]?fi\b`, `\binternet\b`, `\bwireless\b`)},
	{"wifi_free", func(s *Signals) { s.WifiFree = true },
		res(`\bfree wi[- ]?fi\b`, `\bcomplimentary.*internet\b`, `\bwi[- ]?fi.*free\b`)},

	{"parking", func(s *Signals) { s.Parking = true },
		res(`\bparking\b`, `\bcar park\b`, `\bvalet\b`)},
	{"parking_free", func(s *Signals) { s.ParkingFree = true },
		res(`\bfree parking\b`, `\bcomplimentary parking\b`)},

	{"pool", func(s *Signals) { s.Pool = true },
		res(`\bpool\b`, `\bswimming\b`)},
	{"gym", func(s *Signals) { s.Gym = true },
		res(`\bgym\b`, `\bfitness\b`, `\bexercise\b`, `\bworkout\b`)},
	{"spa", func(s *Signals) { s.Spa = true },
		res(`\bspa\b`, `\bmassage\b`, `\bwellness\b`, `\bsauna\b`)},

	{"laundry", func(s *Signals) { s.Laundry = true },
		res(`\blaundry\b`, `\bdry clean\b`, `\bwashing\b`)},
	{"room_service", func(s *Signals) { s.RoomService = true },
		res(`\broom service\b`, `\bin[- ]?room dining\b`)},
	{"concierge", func(s *Signals) { s.Concierge = true },
		res(`\bconcierge\b`, `\b24[- ]?hour.*desk\b`, `\breception\b`)},

	{"prayer_room", func(s *Signals) { s.PrayerRoom = true },
		res(`\bprayer room\b`, `\bmusholla\b`, `\bmasjid\b`, `\bmosque\b`)},
	{"quran", func(s *Signals) { s.Quran = true },
		res(`\bquran\b`, `\bqur'?an\b`, `\bholy book\b`)},

	{"air_conditioning", func(s *Signals) { s.AirConditioning = true },
		res(`\bair[- ]?condition\b`, `\ba/?c\b`, `\bclimate control\b`)},
	{"minibar", func(s *Signals) { s.Minibar = true },
		res(`\bminibar\b`, `\bmini[- ]?fridge\b`, `\brefrigerator\b`)},
	{"safe", func(s *Signals) { s.Safe = true },
		res(`\bsafe\b`, `\bsafety box\b`, `\bsecurity box\b`)},
}

// umrahPriorityWeights biases scoring toward what pilgrims actually ask for.
// Keys absent here weigh 1.
var umrahPriorityWeights = map[string]int{
	"shuttle_haram":     10,
	"shuttle_free":      8,
	"shuttle":           6,
	"wheelchair_access": 5,
	"elevator":          3,
	"breakfast_free":    5,
	"breakfast":         3,
	"family_room":       4,
	"connecting_rooms":  4,
	"wifi_free":         3,
	"wifi":              2,
	"prayer_room":       3,
	"quran":             2,
	"laundry":           2,
	"air_conditioning":  2,
	"restaurant":        2,
	"room_service":      1,
	"concierge":         1,
}

func weightFor(key string, weights map[string]int) int {
	if w, ok := weights[key]; ok {
		return w
	}
	return 1
}

// Extract scans the lowercased text once per rule, first matching pattern
// wins. Score counts the flags set; PriorityScore weighs them for Umrah
// relevance.
func Extract(text string) Signals {
	var s Signals
	if text == "" {
		return s
	}

	t := strings.ToLower(text)
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(t) {
				r.set(&s)
				s.RawMatches = append(s.RawMatches, r.key+":"+p.String())
				s.Score++
				s.PriorityScore += weightFor(r.key, umrahPriorityWeights)
				break
			}
		}
	}
	return s
}

// Has reports whether the named signal flag is set.
func (s Signals) Has(key string) bool {
	switch key {
	case "shuttle":
		return s.Shuttle
	case "shuttle_free":
		return s.ShuttleFree
	case "shuttle_haram":
		return s.ShuttleHaram
	case "wheelchair_access":
		return s.WheelchairAccess
	case "elevator":
		return s.Elevator
	case "family_room":
		return s.FamilyRoom
	case "connecting_rooms":
		return s.ConnectingRooms
	case "suite":
		return s.Suite
	case "breakfast":
		return s.Breakfast
	case "breakfast_free":
		return s.BreakfastFree
	case "restaurant":
		return s.Restaurant
	case "wifi":
		return s.Wifi
	case "wifi_free":
		return s.WifiFree
	case "parking":
		return s.Parking
	case "parking_free":
		return s.ParkingFree
	case "pool":
		return s.Pool
	case "gym":
		return s.Gym
	case "spa":
		return s.Spa
	case "laundry":
		return s.Laundry
	case "room_service":
		return s.RoomService
	case "concierge":
		return s.Concierge
	case "prayer_room":
		return s.PrayerRoom
	case "quran":
		return s.Quran
	case "air_conditioning":
		return s.AirConditioning
	case "minibar":
		return s.Minibar
	case "safe":
		return s.Safe
	}
	return false
}

// Highlights picks the display-worthy signals, strongest shuttle claim first.
func Highlights(s Signals) []string {
	var out []string

	switch {
	case s.ShuttleHaram:
		out = append(out, "Shuttle ke Haram")
	case s.ShuttleFree:
		out = append(out, "Free Shuttle")
	case s.Shuttle:
		out = append(out, "Shuttle Available")
	}
	if s.WheelchairAccess {
		out = append(out, "Wheelchair Access")
	}
	switch {
	case s.BreakfastFree:
		out = append(out, "Free Breakfast")
	case s.Breakfast:
		out = append(out, "Breakfast Available")
	}
	if s.FamilyRoom {
		out = append(out, "Family Room")
	}
	if s.WifiFree {
		out = append(out, "Free WiFi")
	}
	if s.PrayerRoom {
		out = append(out, "Prayer Room")
	}
	return out
}

func entitySignals(e domain.MergedHotelEntity) Signals {
	if e.Amenities == nil {
		return Signals{}
	}
	return Extract(*e.Amenities)
}

// Filter keeps the entities whose amenities text carries every required
// signal key.
func Filter(entities []domain.MergedHotelEntity, required []string) []domain.MergedHotelEntity {
	out := make([]domain.MergedHotelEntity, 0, len(entities))
	for _, e := range entities {
		s := entitySignals(e)
		ok := true
		for _, key := range required {
			if !s.Has(key) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, e)
		}
	}
	return out
}

// Rank orders entities by weighted amenity score, highest first. A nil
// weights map uses the Umrah priorities. The sort is stable so equal scores
// keep their input order.
func Rank(entities []domain.MergedHotelEntity, weights map[string]int) []domain.MergedHotelEntity {
	if weights == nil {
		weights = umrahPriorityWeights
	}

	type scored struct {
		entity domain.MergedHotelEntity
		score  int
	}
	rows := make([]scored, 0, len(entities))
	for _, e := range entities {
		s := entitySignals(e)
		total := 0
		for _, r := range rules {
			if s.Has(r.key) {
				total += weightFor(r.key, weights)
			}
		}
		rows = append(rows, scored{entity: e, score: total})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })

	out := make([]domain.MergedHotelEntity, len(rows))
	for i, row := range rows {
		out[i] = row.entity
	}
	return out
}
