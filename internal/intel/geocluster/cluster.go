// Package geocluster groups duplicate hotel records across providers using
// name, distance, and address signals, and merges clusters into canonical
// entities.
package geocluster

import (
	"fmt"
	"math"
	"strings"

	"labbaik_intel/internal/domain"
	"labbaik_intel/internal/intel/namenorm"
)

const (
	DefaultNameThreshold       = 0.75
	DefaultGeoThresholdMeters  = 100
	DefaultAddressThreshold    = 0.7
	DefaultConfidenceThreshold = 0.8

	earthRadiusMeters = 6371000
)

// HaversineMeters returns the great-circle distance between two points.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// AddressSimilarity scores two raw addresses: 1.0 on equal canonical forms,
// 0.85 on containment, else the edit-similarity ratio.
func AddressSimilarity(addr1, addr2 string) float64 {
	if addr1 == "" || addr2 == "" {
		return 0
	}
	a1 := namenorm.Normalize(addr1)
	a2 := namenorm.Normalize(addr2)
	if a1 == a2 {
		return 1.0
	}
	if strings.Contains(a1, a2) || strings.Contains(a2, a1) {
		return 0.85
	}
	return namenorm.Ratio(a1, a2)
}

// Thresholds bundles the tunable duplicate-test limits.
type Thresholds struct {
	Name       float64
	GeoMeters  float64
	Address    float64
	Confidence float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Name:       DefaultNameThreshold,
		GeoMeters:  DefaultGeoThresholdMeters,
		Address:    DefaultAddressThreshold,
		Confidence: DefaultConfidenceThreshold,
	}
}

// IsDuplicate tests whether two records describe the same physical hotel.
// Signals: name similarity, haversine distance, address similarity. Missing
// coordinates on either side silently disable the geo signal.
func IsDuplicate(a, b domain.HotelRecord, th Thresholds) (bool, []string, float64) {
	var reasons []string
	var scores []float64

	nameSim := namenorm.Similarity(a.Name, b.Name)
	if nameSim >= th.Name {
		reasons = append(reasons, fmt.Sprintf("Name similarity: %.2f", nameSim))
		scores = append(scores, nameSim)
	}

	geoMatch := false
	if a.HasCoords() && b.HasCoords() {
		dist := HaversineMeters(*a.Lat, *a.Lon, *b.Lat, *b.Lon)
		if dist <= th.GeoMeters {
			geoMatch = true
			reasons = append(reasons, fmt.Sprintf("Distance: %.0fm", dist))
			scores = append(scores, 1.0-dist/th.GeoMeters)
		}
	}

	addrSim := AddressSimilarity(derefStr(a.Address), derefStr(b.Address))
	if addrSim >= th.Address {
		reasons = append(reasons, fmt.Sprintf("Address similarity: %.2f", addrSim))
		scores = append(scores, addrSim)
	}

	// Decision precedence: multi-signal mean, then strong name alone, then
	// geo plus a moderate name match.
	switch {
	case len(scores) >= 2:
		mean := 0.0
		for _, s := range scores {
			mean += s
		}
		mean /= float64(len(scores))
		if mean >= 0.7 {
			return true, reasons, mean
		}
		return false, reasons, mean
	case nameSim >= 0.9:
		return true, reasons, nameSim
	case geoMatch && nameSim >= 0.6:
		return true, reasons, 0.8
	}
	return false, reasons, 0
}

// FindClusters runs a greedy single-pass scan over records in input order.
// Each unconsumed record seeds a cluster; later records are tested against
// the seed only, so membership is not transitive. That trade-off is accepted
// to keep the scan at plain O(n^2) pair tests.
func FindClusters(records []domain.HotelRecord, city string, th Thresholds) []domain.DuplicateCluster {
	var clusters []domain.DuplicateCluster
	used := make(map[string]struct{}, len(records))

	for i, seed := range records {
		seedID := recordID(seed, i)
		if _, ok := used[seedID]; ok {
			continue
		}
		used[seedID] = struct{}{}

		members := []domain.HotelRecord{seed}
		var reasons []string

		for j := i + 1; j < len(records); j++ {
			cand := records[j]
			candID := recordID(cand, j)
			if _, ok := used[candID]; ok {
				continue
			}
			if dup, why, _ := IsDuplicate(seed, cand, th); dup {
				members = append(members, cand)
				reasons = append(reasons, why...)
				used[candID] = struct{}{}
			}
		}

		if len(members) < 2 {
			continue
		}

		rep := pickRepresentative(members)
		clusters = append(clusters, domain.DuplicateCluster{
			ID:                 "cluster_" + rep.ID,
			City:               namenorm.NormalizeCity(city),
			RepresentativeID:   rep.ID,
			RepresentativeName: rep.Name,
			Members:            members,
			Reasons:            dedupeStrings(reasons),
			// Degenerate on purpose: the source formula divides member count
			// by itself. Kept until a real confidence model replaces it.
			Confidence: float64(len(members)) / float64(len(members)),
		})
	}
	return clusters
}

// pickRepresentative maximizes a completeness score; ties go to input order.
func pickRepresentative(members []domain.HotelRecord) domain.HotelRecord {
	best := members[0]
	bestScore := -1
	for _, m := range members {
		score := 0
		if m.Lat != nil && m.Lon != nil {
			score += 2
		}
		if m.Address != nil && *m.Address != "" {
			score++
		}
		if m.Amenities != nil && *m.Amenities != "" {
			score++
		}
		if m.StarRating != nil {
			score++
		}
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best
}

func recordID(h domain.HotelRecord, idx int) string {
	if h.ID != "" {
		return h.ID
	}
	return fmt.Sprintf("idx_%d", idx)
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
