package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"labbaik_intel/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertRecord(ctx context.Context, h domain.HotelRecord) error {
	_, err := r.db.ExecContext(ctx, upsertRecordSQL,
		h.Provider,
		h.ID,
		h.Name,
		h.City,
		valF64(h.Lat),
		valF64(h.Lon),
		valStr(h.Address),
		valInt(h.StarRating),
		valStr(h.Amenities),
		valF64(h.MinPrice),
		valStr(h.Currency),
		valJSON(h.RawJSON),
	)
	return err
}

func (r *Repo) UpsertMerged(ctx context.Context, m domain.MergedHotelEntity) error {
	providerIDs, _ := json.Marshal(m.ProviderIDs)
	_, err := r.db.ExecContext(ctx, upsertMergedSQL,
		m.ID,
		m.Name,
		m.City,
		valF64(m.Lat),
		valF64(m.Lon),
		valStr(m.Address),
		valInt(m.StarRating),
		valStr(m.Amenities),
		valF64(m.MinPrice),
		valStr(m.Currency),
		string(providerIDs),
		m.IsMerged,
		m.MergedCount,
		valJSON(m.RawJSON),
	)
	return err
}

func (r *Repo) SaveCluster(ctx context.Context, c domain.DuplicateCluster) error {
	members, err := json.Marshal(c.Members)
	if err != nil {
		return err
	}
	reasons, _ := json.Marshal(c.Reasons)
	_, err = r.db.ExecContext(ctx, upsertClusterSQL,
		c.ID,
		c.City,
		c.RepresentativeID,
		c.RepresentativeName,
		string(members),
		string(reasons),
		c.Confidence,
	)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, s domain.AvailabilitySnapshot) error {
	_, err := r.db.ExecContext(ctx, insertSnapshotSQL,
		s.HotelID,
		s.Provider,
		valTime(s.Checkin),
		valTime(s.Checkout),
		string(s.Status),
		valInt(s.RoomsLeft),
		valF64(s.MinPrice),
		s.FetchedAt,
	)
	return err
}

func (r *Repo) LogSkip(ctx context.Context, provider, id, reason string) error {
	_, err := r.db.ExecContext(ctx, insertSkipSQL, provider, id, reason)
	return err
}

func (r *Repo) ListRecords(ctx context.Context, city string) ([]domain.HotelRecord, error) {
	rows, err := r.db.QueryContext(ctx, listRecordsSQL, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.HotelRecord
	for rows.Next() {
		h, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func scanRecord(rows *sql.Rows) (domain.HotelRecord, error) {
	var h domain.HotelRecord
	var (
		lat, lon, minPrice        sql.NullFloat64
		addr, amenities, currency sql.NullString
		stars                     sql.NullInt64
		raw                       sql.RawBytes
	)
	if err := rows.Scan(
		&h.Provider, &h.ID, &h.Name, &h.City,
		&lat, &lon, &addr, &stars, &amenities, &minPrice, &currency, &raw,
	); err != nil {
		return domain.HotelRecord{}, err
	}
	if lat.Valid {
		v := lat.Float64
		h.Lat = &v
	}
	if lon.Valid {
		v := lon.Float64
		h.Lon = &v
	}
	if addr.Valid {
		v := addr.String
		h.Address = &v
	}
	if stars.Valid {
		v := int(stars.Int64)
		h.StarRating = &v
	}
	if amenities.Valid {
		v := amenities.String
		h.Amenities = &v
	}
	if minPrice.Valid {
		v := minPrice.Float64
		h.MinPrice = &v
	}
	if currency.Valid {
		v := currency.String
		h.Currency = &v
	}
	if len(raw) > 0 {
		h.RawJSON = append([]byte(nil), raw...)
	}
	return h, nil
}

func (r *Repo) GetMerged(ctx context.Context, id string) (domain.MergedHotelEntity, error) {
	row := r.db.QueryRowContext(ctx, getMergedSQL, id)

	var m domain.MergedHotelEntity
	var (
		lat, lon, minPrice        sql.NullFloat64
		addr, amenities, currency sql.NullString
		stars                     sql.NullInt64
		providerIDs, raw          []byte
	)
	if err := row.Scan(
		&m.ID, &m.Name, &m.City,
		&lat, &lon, &addr, &stars, &amenities, &minPrice, &currency,
		&providerIDs, &m.IsMerged, &m.MergedCount, &raw,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.MergedHotelEntity{}, domain.ErrNotFound
		}
		return domain.MergedHotelEntity{}, err
	}

	if lat.Valid {
		v := lat.Float64
		m.Lat = &v
	}
	if lon.Valid {
		v := lon.Float64
		m.Lon = &v
	}
	if addr.Valid {
		v := addr.String
		m.Address = &v
	}
	if stars.Valid {
		v := int(stars.Int64)
		m.StarRating = &v
	}
	if amenities.Valid {
		v := amenities.String
		m.Amenities = &v
	}
	if minPrice.Valid {
		v := minPrice.Float64
		m.MinPrice = &v
	}
	if currency.Valid {
		v := currency.String
		m.Currency = &v
	}
	_ = json.Unmarshal(providerIDs, &m.ProviderIDs)
	if len(raw) > 0 {
		m.RawJSON = raw
	}
	return m, nil
}

func (r *Repo) ListClusters(ctx context.Context, city string) ([]domain.DuplicateCluster, error) {
	rows, err := r.db.QueryContext(ctx, listClustersSQL, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DuplicateCluster
	for rows.Next() {
		var c domain.DuplicateCluster
		var members, reasons []byte
		if err := rows.Scan(
			&c.ID, &c.City, &c.RepresentativeID, &c.RepresentativeName,
			&members, &reasons, &c.Confidence,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(members, &c.Members); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(reasons, &c.Reasons)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) ListSnapshots(ctx context.Context, hotelID string, since time.Time) ([]domain.AvailabilitySnapshot, error) {
	rows, err := r.db.QueryContext(ctx, listSnapshotsSQL, hotelID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AvailabilitySnapshot
	for rows.Next() {
		var s domain.AvailabilitySnapshot
		var (
			checkin   sql.NullTime
			checkout  sql.NullTime
			status    string
			roomsLeft sql.NullInt64
			minPrice  sql.NullFloat64
		)
		if err := rows.Scan(
			&s.HotelID, &s.Provider, &checkin, &checkout,
			&status, &roomsLeft, &minPrice, &s.FetchedAt,
		); err != nil {
			return nil, err
		}
		s.Checkin = checkin.Time
		s.Checkout = checkout.Time
		s.Status = domain.ParseStatus(status)
		if roomsLeft.Valid {
			v := int(roomsLeft.Int64)
			s.RoomsLeft = &v
		}
		if minPrice.Valid {
			v := minPrice.Float64
			s.MinPrice = &v
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
