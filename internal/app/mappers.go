package app

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"labbaik_intel/internal/domain"
	"labbaik_intel/internal/intel/namenorm"
)

/********** alias registries (single source of truth) **********/

// Provider feeds disagree on field names. Each logical field maps to the
// dot-path aliases seen in the wild, tried in order.
var hotelAliases = map[string][]string{
	"id":       {"hotel_id", "id", "property_id", "propertyId", "code"},
	"provider": {"provider", "source", "platform", "site", "origin"},
	"name":     {"name", "hotel_name", "hotelName", "title", "property_name"},
	"city":     {"city", "address.city", "location.city", "locality", "town"},
	"currency": {"currency", "currency_code", "price.currency", "pricing.currency"},
	"address": {
		"address", "address.line", "address_raw", "full_address",
		"address1", "address_line1", "location.address",
		"street", "street_address", "formatted_address",
	},
}

var snapshotAliases = map[string][]string{
	"hotel_id": {"hotel_id", "id", "property_id", "hotelId"},
	"provider": {"provider", "source", "platform", "site"},
	"status":   {"status", "availability", "availability_status", "room_status"},
	"checkin":  {"checkin", "check_in", "checkin_date", "from_date"},
	"checkout": {"checkout", "check_out", "checkout_date", "to_date"},
	"fetched":  {"fetched_at", "scraped_at", "timestamp", "ts"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstIntFlexible: int from several paths (float64/int/string).
func firstIntFlexible(m map[string]any, paths ...string) *int {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int(v)
			return &x
		case int:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.Atoi(s); err == nil {
				return &n
			}
		}
	}
	return nil
}

// firstSliceStrings: accept []any holding strings or {name/title} objects.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					if n, ok := t["name"].(string); ok && n != "" {
						out = append(out, n)
						continue
					}
					if n, ok := t["title"].(string); ok && n != "" {
						out = append(out, n)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// firstTimeFlexible parses a date or timestamp at several paths. Feeds send
// "2025-06-10", RFC3339, or unix seconds.
func firstTimeFlexible(m map[string]any, paths ...string) *time.Time {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
				if t, err := time.Parse(layout, s); err == nil {
					return &t
				}
			}
		case float64:
			t := time.Unix(int64(v), 0).UTC()
			return &t
		}
	}
	return nil
}

/********** hotel record mapper **********/

// mapHotelRecord folds one raw provider payload into a typed record. The
// alias juggling happens here and nowhere else; the core only ever sees
// typed fields.
func mapHotelRecord(provider string, p map[string]any) domain.HotelRecord {
	raw, err := json.Marshal(p)
	if err != nil {
		log.Error().Err(err).
			Str("context", "mapHotelRecord").
			Msg("failed to marshal payload to JSON")
	}

	if v := firstNonEmptyAlias(p, hotelAliases, "provider"); v != nil {
		provider = *v
	}

	id := deref(firstNonEmptyAlias(p, hotelAliases, "id"))
	if id == "" {
		// Numeric ids arrive as JSON numbers.
		if n := firstIntFlexible(p, hotelAliases["id"]...); n != nil {
			id = strconv.Itoa(*n)
		}
	}

	h := domain.HotelRecord{
		ID:       id,
		Provider: provider,
		Name:     deref(firstNonEmptyAlias(p, hotelAliases, "name")),
		City:     namenorm.NormalizeCity(deref(firstNonEmptyAlias(p, hotelAliases, "city"))),
		Lat:      getFloatFlexible(p, "latitude", "lat", "location.lat", "coordinates.lat"),
		Lon:      getFloatFlexible(p, "longitude", "lon", "lng", "location.lon", "location.lng", "coordinates.lng"),
		Address:  mapAddress(p),
		MinPrice: getFloatFlexible(p, "min_price", "price", "price_per_night", "pricing.min", "lowest_price"),
		Currency: firstNonEmptyAlias(p, hotelAliases, "currency"),
		RawJSON:  raw,
	}

	if f := getFloatFlexible(p, "stars", "star_rating", "rating.stars", "rating"); f != nil {
		x := int(*f)
		h.StarRating = &x
	} else if s := namenorm.ExtractStars(h.Name); s > 0 {
		h.StarRating = &s
	}

	// Amenities may arrive as an array or a comma blob; normalize to a blob.
	if arr := firstSliceStrings(p, "amenities", "facilities", "features"); len(arr) > 0 {
		h.Amenities = ptrStr(strings.Join(arr, ", "))
	} else if s := lookupStr(p, "amenities"); s != "" {
		h.Amenities = &s
	}

	return h
}

func mapAddress(p map[string]any) *string {
	if s := firstNonEmptyAlias(p, hotelAliases, "address"); s != nil {
		return s
	}

	// Compose from components when no single field is present.
	parts := []string{
		lookupStr(p, "address.addressLine1"),
		lookupStr(p, "address.addressLine2"),
		lookupStr(p, "address.street"),
		lookupStr(p, "address.district"),
		lookupStr(p, "address.city"),
		lookupStr(p, "address.postcode"),
		lookupStr(p, "address.country"),
	}
	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	if len(nonEmpty) > 0 {
		composed := strings.Join(nonEmpty, ", ")
		return &composed
	}
	return nil
}

/********** snapshot mapper **********/

func mapSnapshot(provider string, now time.Time, r map[string]any) domain.AvailabilitySnapshot {
	if v := firstNonEmptyAlias(r, snapshotAliases, "provider"); v != nil {
		provider = *v
	}

	hotelID := deref(firstNonEmptyAlias(r, snapshotAliases, "hotel_id"))
	if hotelID == "" {
		if n := firstIntFlexible(r, snapshotAliases["hotel_id"]...); n != nil {
			hotelID = strconv.Itoa(*n)
		}
	}

	s := domain.AvailabilitySnapshot{
		HotelID:   hotelID,
		Provider:  provider,
		Status:    domain.ParseStatus(deref(firstNonEmptyAlias(r, snapshotAliases, "status"))),
		RoomsLeft: firstIntFlexible(r, "rooms_left", "roomsLeft", "rooms_available", "available_rooms"),
		MinPrice:  getFloatFlexible(r, "min_price", "price", "lowest_price", "price_per_night"),
		FetchedAt: now,
	}

	if t := firstTimeFlexible(r, snapshotAliases["checkin"]...); t != nil {
		s.Checkin = *t
	}
	if t := firstTimeFlexible(r, snapshotAliases["checkout"]...); t != nil {
		s.Checkout = *t
	}
	if t := firstTimeFlexible(r, snapshotAliases["fetched"]...); t != nil {
		s.FetchedAt = *t
	}
	return s
}

// recordFingerprint builds a stable id for records that arrive without one.
func recordFingerprint(provider, name, city string) string {
	sig := strings.Join([]string{provider, namenorm.Normalize(name), city}, "|")
	sum := sha1.Sum([]byte(sig))
	return hex.EncodeToString(sum[:8])
}
