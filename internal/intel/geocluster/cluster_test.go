package geocluster_test

import (
	"math"
	"reflect"
	"testing"

	"labbaik_intel/internal/domain"
	"labbaik_intel/internal/intel/geocluster"
)

func pstr(s string) *string     { return &s }
func pint(i int) *int           { return &i }
func pfloat(f float64) *float64 { return &f }

func rec(id, provider, name string, lat, lon float64) domain.HotelRecord {
	return domain.HotelRecord{
		ID: id, Provider: provider, Name: name, City: "MAKKAH",
		Lat: pfloat(lat), Lon: pfloat(lon),
	}
}

func TestHaversineMeters(t *testing.T) {
	// Identical points.
	if d := geocluster.HaversineMeters(21.4225, 39.8262, 21.4225, 39.8262); d != 0 {
		t.Fatalf("expected 0, got %v", d)
	}
	// ~30m of latitude.
	d := geocluster.HaversineMeters(21.4225, 39.8262, 21.42277, 39.8262)
	if math.Abs(d-30) > 1.0 {
		t.Fatalf("expected ~30m, got %v", d)
	}
}

func TestIsDuplicate_GeoPlusName(t *testing.T) {
	// ~30m apart with a name similarity around 0.8: two qualifying signals,
	// the mean must clear 0.7.
	a := rec("h1", "traveloka", "Safwah Orchid Hotel", 21.4225, 39.8262)
	b := rec("h2", "tiket", "Safwa Orchid Suites", 21.42277, 39.8262)

	dup, reasons, conf := geocluster.IsDuplicate(a, b, geocluster.DefaultThresholds())
	if !dup {
		t.Fatalf("expected duplicate, reasons=%v conf=%v", reasons, conf)
	}
	if conf < 0.7 {
		t.Fatalf("expected confidence >= 0.7, got %v", conf)
	}
	if len(reasons) != 2 {
		t.Fatalf("expected name+distance reasons, got %v", reasons)
	}
}

func TestIsDuplicate_StrongNameAlone(t *testing.T) {
	// No coordinates: the geo signal is silently disabled, a containment
	// match (0.9) decides alone.
	a := domain.HotelRecord{ID: "h1", Name: "Elaf Kinda Hotel", City: "MAKKAH"}
	b := domain.HotelRecord{ID: "h2", Name: "Elaf Kinda", City: "MAKKAH"}

	dup, _, conf := geocluster.IsDuplicate(a, b, geocluster.DefaultThresholds())
	if !dup || conf < 0.9 {
		t.Fatalf("expected duplicate on name alone, dup=%v conf=%v", dup, conf)
	}
}

func TestIsDuplicate_Unrelated(t *testing.T) {
	a := rec("h1", "traveloka", "Pullman Zamzam", 21.4225, 39.8262)
	b := rec("h2", "tiket", "Anwar Movenpick", 24.4672, 39.6111) // Madinah, far away

	if dup, _, _ := geocluster.IsDuplicate(a, b, geocluster.DefaultThresholds()); dup {
		t.Fatalf("unrelated hotels flagged as duplicates")
	}
}

func TestFindClusters_Deterministic(t *testing.T) {
	records := []domain.HotelRecord{
		rec("a", "traveloka", "Makkah Hilton Hotel", 21.4225, 39.8262),
		rec("b", "tiket", "Makkah Hilton Towers", 21.42255, 39.82625),
		rec("c", "agoda", "Pullman Zamzam", 21.4190, 39.8250),
		rec("d", "traveloka", "Pullman Zam Zam Makkah", 21.41902, 39.82501),
	}

	first := geocluster.FindClusters(records, "makkah", geocluster.DefaultThresholds())
	second := geocluster.FindClusters(records, "makkah", geocluster.DefaultThresholds())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("clustering not deterministic")
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 clusters, got %d: %+v", len(first), first)
	}
	for _, c := range first {
		if c.City != "MAKKAH" {
			t.Fatalf("city not canonicalized: %q", c.City)
		}
		if c.Confidence != 1.0 {
			t.Fatalf("cluster confidence formula changed: %v", c.Confidence)
		}
		if len(c.Members) != 2 {
			t.Fatalf("expected 2 members, got %d", len(c.Members))
		}
	}
}

func TestFindClusters_RepresentativeByCompleteness(t *testing.T) {
	sparse := domain.HotelRecord{ID: "sparse", Provider: "tiket", Name: "Makkah Hilton Hotel", City: "MAKKAH"}
	full := rec("full", "traveloka", "Makkah Hilton", 21.4225, 39.8262)
	full.Address = pstr("Ibrahim Al Khalil Rd")
	full.Amenities = pstr("wifi parking")
	full.StarRating = pint(5)

	clusters := geocluster.FindClusters([]domain.HotelRecord{sparse, full}, "MAKKAH", geocluster.DefaultThresholds())
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %+v", clusters)
	}
	if clusters[0].RepresentativeID != "full" {
		t.Fatalf("expected the complete record as representative, got %q", clusters[0].RepresentativeID)
	}
}

func TestMerge_NeverLosesFields(t *testing.T) {
	a := domain.HotelRecord{ID: "a", Provider: "traveloka", Name: "Elaf Kinda", City: "MAKKAH", Amenities: pstr("wifi")}
	b := rec("b", "tiket", "Elaf Kinda Hotel", 21.4221, 39.8258)
	b.Address = pstr("Ajyad Street")
	b.StarRating = pint(4)
	b.Amenities = pstr("parking shuttle")
	b.MinPrice = pfloat(850)
	b.Currency = pstr("SAR")

	m := geocluster.Merge([]domain.HotelRecord{a, b})

	if !m.IsMerged || m.MergedCount != 2 {
		t.Fatalf("merge flags wrong: %+v", m)
	}
	// First non-empty wins for scalar conflicts.
	if m.ID != "a" || m.Name != "Elaf Kinda" {
		t.Fatalf("fold order broken: %+v", m)
	}
	// Every non-empty member field survives.
	if m.Lat == nil || m.Lon == nil || m.Address == nil || m.StarRating == nil ||
		m.MinPrice == nil || m.Currency == nil {
		t.Fatalf("merge lost fields: %+v", m)
	}
	// Amenities concatenate, no dedup.
	if *m.Amenities != "wifi parking shuttle" {
		t.Fatalf("amenities = %q", *m.Amenities)
	}
	if m.ProviderIDs["traveloka"] != "a" || m.ProviderIDs["tiket"] != "b" {
		t.Fatalf("provider id map wrong: %v", m.ProviderIDs)
	}
}

func TestDeduplicate_AutoMerge(t *testing.T) {
	records := []domain.HotelRecord{
		rec("a", "traveloka", "Makkah Hilton Hotel", 21.4225, 39.8262),
		rec("b", "tiket", "Makkah Hilton Towers", 21.42255, 39.82625),
		rec("c", "agoda", "Pullman Zamzam", 21.4190, 39.8250),
	}
	records[1].Address = pstr("Ibrahim Al Khalil Rd")
	records[1].StarRating = pint(5)

	out, clusters := geocluster.Deduplicate(records, "MAKKAH", true, geocluster.DefaultThresholds())
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %+v", clusters)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 output entities, got %+v", out)
	}
	var sawMerged, sawSingle bool
	for _, e := range out {
		if e.IsMerged {
			sawMerged = true
			if e.MergedCount != 2 {
				t.Fatalf("merged count = %d", e.MergedCount)
			}
		} else if e.ID == "c" {
			sawSingle = true
		}
	}
	if !sawMerged || !sawSingle {
		t.Fatalf("unexpected dedup output: %+v", out)
	}
}

func TestDeduplicate_NoAutoMerge(t *testing.T) {
	records := []domain.HotelRecord{
		rec("a", "traveloka", "Makkah Hilton Hotel", 21.4225, 39.8262),
		rec("b", "tiket", "Makkah Hilton Towers", 21.42255, 39.82625),
	}
	out, clusters := geocluster.Deduplicate(records, "MAKKAH", false, geocluster.DefaultThresholds())
	if len(clusters) != 1 {
		t.Fatalf("expected cluster report, got %+v", clusters)
	}
	if len(out) != 2 {
		t.Fatalf("expected all members retained for review, got %+v", out)
	}
}

func TestSummarize(t *testing.T) {
	c := domain.DuplicateCluster{
		ID: "cluster_a", City: "MAKKAH", RepresentativeID: "a", RepresentativeName: "Hilton",
		Members:    []domain.HotelRecord{{ID: "a", Name: "Hilton"}, {ID: "b", Name: "Hilton Makkah"}},
		Confidence: 1.0,
	}
	s := geocluster.Summarize(c)
	if s.MemberCount != 2 || s.Action != "auto_merge" {
		t.Fatalf("summary wrong: %+v", s)
	}
	c.Confidence = 0.5
	if s := geocluster.Summarize(c); s.Action != "review" {
		t.Fatalf("low confidence should flag review, got %+v", s)
	}
}
