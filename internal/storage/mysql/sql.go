package mysql

const upsertRecordSQL = `
INSERT INTO hotel_records
  (provider, id, name, city, lat, lon, address, stars, amenities, min_price, currency, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  city       = VALUES(city),
  lat        = VALUES(lat),
  lon        = VALUES(lon),
  address    = VALUES(address),
  stars      = VALUES(stars),
  amenities  = VALUES(amenities),
  min_price  = VALUES(min_price),
  currency   = VALUES(currency),
  raw        = VALUES(raw),
  updated_at = CURRENT_TIMESTAMP
`

const upsertMergedSQL = `
INSERT INTO merged_entities
  (id, name, city, lat, lon, address, stars, amenities, min_price, currency,
   provider_ids, is_merged, merged_count, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name         = VALUES(name),
  city         = VALUES(city),
  lat          = VALUES(lat),
  lon          = VALUES(lon),
  address      = VALUES(address),
  stars        = VALUES(stars),
  amenities    = VALUES(amenities),
  min_price    = VALUES(min_price),
  currency     = VALUES(currency),
  provider_ids = VALUES(provider_ids),
  is_merged    = VALUES(is_merged),
  merged_count = VALUES(merged_count),
  raw          = VALUES(raw),
  updated_at   = CURRENT_TIMESTAMP
`

// Cluster ids are stable per (city, seed index), so reruns overwrite the
// previous run's rows in place.
const upsertClusterSQL = `
INSERT INTO clusters
  (id, city, representative_id, representative_name, members, reasons, confidence)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  representative_id   = VALUES(representative_id),
  representative_name = VALUES(representative_name),
  members             = VALUES(members),
  reasons             = VALUES(reasons),
  confidence          = VALUES(confidence),
  updated_at          = CURRENT_TIMESTAMP
`

const insertSnapshotSQL = `
INSERT INTO availability_snapshots
  (hotel_id, provider, checkin, checkout, status, rooms_left, min_price, fetched_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const insertSkipSQL = `
INSERT INTO ingest_skips (provider, record_id, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listRecordsSQL = `
SELECT provider, id, name, city, lat, lon, address, stars, amenities, min_price, currency, raw
FROM hotel_records
WHERE city = ?
ORDER BY provider, id
`

const getMergedSQL = `
SELECT id, name, city, lat, lon, address, stars, amenities, min_price, currency,
       provider_ids, is_merged, merged_count, raw
FROM merged_entities
WHERE id = ?
`

const listClustersSQL = `
SELECT id, city, representative_id, representative_name, members, reasons, confidence
FROM clusters
WHERE city = ?
ORDER BY id
`

const listSnapshotsSQL = `
SELECT hotel_id, provider, checkin, checkout, status, rooms_left, min_price, fetched_at
FROM availability_snapshots
WHERE hotel_id = ? AND fetched_at >= ?
ORDER BY fetched_at
`
