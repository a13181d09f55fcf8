package geocluster

import (
	"strings"

	"labbaik_intel/internal/domain"
)

// Merge folds cluster members left to right into one canonical entity. A
// field is taken only when the accumulator's slot is still empty, so merge
// order decides conflicts (first non-empty wins). Amenities text is
// concatenated across members rather than deduplicated. No non-empty field
// from any member is ever lost.
func Merge(members []domain.HotelRecord) domain.MergedHotelEntity {
	if len(members) == 0 {
		return domain.MergedHotelEntity{}
	}

	merged := domain.MergedHotelEntity{
		HotelRecord: members[0],
		ProviderIDs: map[string]string{},
		MergedCount: len(members),
	}
	if members[0].Provider != "" {
		merged.ProviderIDs[members[0].Provider] = members[0].ID
	}
	if len(members) == 1 {
		return merged
	}
	merged.IsMerged = true

	var amenities []string
	if members[0].Amenities != nil && *members[0].Amenities != "" {
		amenities = append(amenities, *members[0].Amenities)
	}

	for _, m := range members[1:] {
		if merged.Name == "" {
			merged.Name = m.Name
		}
		if merged.City == "" {
			merged.City = m.City
		}
		if merged.Lat == nil {
			merged.Lat = m.Lat
		}
		if merged.Lon == nil {
			merged.Lon = m.Lon
		}
		if merged.Address == nil || *merged.Address == "" {
			merged.Address = m.Address
		}
		if merged.StarRating == nil {
			merged.StarRating = m.StarRating
		}
		if merged.MinPrice == nil {
			merged.MinPrice = m.MinPrice
		}
		if merged.Currency == nil || *merged.Currency == "" {
			merged.Currency = m.Currency
		}
		if len(merged.RawJSON) == 0 {
			merged.RawJSON = m.RawJSON
		}

		if m.Amenities != nil && *m.Amenities != "" {
			amenities = append(amenities, *m.Amenities)
		}

		provider := m.Provider
		if provider == "" {
			provider = "unknown"
		}
		if m.ID != "" {
			merged.ProviderIDs[provider] = m.ID
		}
	}

	if len(amenities) > 0 {
		joined := strings.Join(amenities, " ")
		merged.Amenities = &joined
	}
	return merged
}

// Summarize builds the review-queue view of a cluster. Clusters under the
// default confidence threshold are flagged for manual review.
func Summarize(c domain.DuplicateCluster) domain.ClusterSummary {
	names := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		names = append(names, m.Name)
	}
	action := "auto_merge"
	if c.Confidence < DefaultConfidenceThreshold {
		action = "review"
	}
	return domain.ClusterSummary{
		ClusterID:        c.ID,
		City:             c.City,
		RepresentativeID: c.RepresentativeID,
		Representative:   c.RepresentativeName,
		MemberCount:      len(c.Members),
		MemberNames:      names,
		Reasons:          c.Reasons,
		Confidence:       c.Confidence,
		Action:           action,
	}
}

// Deduplicate clusters the records and, when autoMerge is on, replaces each
// high-confidence cluster with its merged entity: the representative slot
// carries the merged record and every other member id is dropped from the
// output. Low-confidence clusters are reported but left untouched for
// review.
func Deduplicate(records []domain.HotelRecord, city string, autoMerge bool, th Thresholds) ([]domain.MergedHotelEntity, []domain.DuplicateCluster) {
	clusters := FindClusters(records, city, th)

	if !autoMerge {
		out := make([]domain.MergedHotelEntity, 0, len(records))
		for _, r := range records {
			out = append(out, Merge([]domain.HotelRecord{r}))
		}
		return out, clusters
	}

	dropped := make(map[string]struct{})
	mergedByRep := make(map[string]domain.MergedHotelEntity)

	for _, c := range clusters {
		if c.Confidence < th.Confidence {
			continue
		}
		merged := Merge(c.Members)
		mergedByRep[c.RepresentativeID] = merged
		for _, m := range c.Members {
			if m.ID != c.RepresentativeID {
				dropped[m.ID] = struct{}{}
			}
		}
	}

	var out []domain.MergedHotelEntity
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := dropped[r.ID]; ok {
			continue
		}
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}

		if mv, ok := mergedByRep[r.ID]; ok {
			out = append(out, mv)
		} else {
			out = append(out, Merge([]domain.HotelRecord{r}))
		}
	}
	return out, clusters
}
