package domain

// HotelRecord is one provider-supplied hotel row. Immutable once mapped at the
// ingestion boundary; the core only reads it.
type HotelRecord struct {
	ID         string
	Provider   string
	Name       string
	City       string
	Lat, Lon   *float64
	Address    *string
	StarRating *int
	Amenities  *string // free-text amenities blob as scraped
	MinPrice   *float64
	Currency   *string
	RawJSON    []byte // full provider payload
}

// HasCoords reports whether both coordinates are present and in range.
func (h HotelRecord) HasCoords() bool {
	if h.Lat == nil || h.Lon == nil {
		return false
	}
	return *h.Lat >= -90 && *h.Lat <= 90 && *h.Lon >= -180 && *h.Lon <= 180
}

// DuplicateCluster groups provider records believed to describe one physical
// hotel. Rebuilt on every resolution run; the representative id is the only
// key that stays stable across runs.
type DuplicateCluster struct {
	ID                 string
	City               string
	RepresentativeID   string
	RepresentativeName string
	Members            []HotelRecord
	Reasons            []string
	Confidence         float64
}

// MergedHotelEntity is the canonical record folded out of a cluster.
type MergedHotelEntity struct {
	HotelRecord
	ProviderIDs map[string]string
	IsMerged    bool
	MergedCount int
}

// ClusterSummary is the review-queue view of a cluster.
type ClusterSummary struct {
	ClusterID        string   `json:"cluster_id"`
	City             string   `json:"city"`
	RepresentativeID string   `json:"representative_id"`
	Representative   string   `json:"representative_name"`
	MemberCount      int      `json:"member_count"`
	MemberNames      []string `json:"member_names"`
	Reasons          []string `json:"reasons"`
	Confidence       float64  `json:"confidence"`
	Action           string   `json:"action"` // auto_merge | review
}
