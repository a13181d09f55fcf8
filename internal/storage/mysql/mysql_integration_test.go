//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"labbaik_intel/internal/domain"
	mysqlrepo "labbaik_intel/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pint(i int) *int           { return &i }
func pfloat(f float64) *float64 { return &f }

func migrationsDir(t *testing.T) string {
	t.Helper()
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	// repo default: <module-root>/migrations
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("migrations dir %s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestRepo_MySQL_UpsertAndQuery(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=labbaik",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "labbaik")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange — two provider records for the same hotel plus the merged view.
	rec1 := domain.HotelRecord{
		ID:        "AG-1",
		Provider:  "agoda",
		Name:      "Makkah Hilton Hotel",
		City:      "MAKKAH",
		Lat:       pfloat(21.4225),
		Lon:       pfloat(39.8262),
		Address:   pstr("Ibrahim Al Khalil Rd"),
		StarRating: pint(5),
		Amenities: pstr("WiFi, Parking"),
		MinPrice:  pfloat(550),
		Currency:  pstr("SAR"),
		RawJSON:   []byte(`{}`),
	}
	rec2 := domain.HotelRecord{
		ID:       "TR-9",
		Provider: "traveloka",
		Name:     "Makkah Hilton Towers",
		City:     "MAKKAH",
		Lat:      pfloat(21.4226),
		Lon:      pfloat(39.8263),
		RawJSON:  []byte(`{}`),
	}
	for _, rec := range []domain.HotelRecord{rec1, rec2} {
		if err := repo.UpsertRecord(ctx, rec); err != nil {
			t.Fatalf("UpsertRecord %s: %v", rec.ID, err)
		}
	}
	// Idempotent: a second upsert of the same key must not fail.
	if err := repo.UpsertRecord(ctx, rec1); err != nil {
		t.Fatalf("UpsertRecord rerun: %v", err)
	}

	got, err := repo.ListRecords(ctx, "MAKKAH")
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records = %d, want 2", len(got))
	}
	if got[0].Provider != "agoda" || got[0].StarRating == nil || *got[0].StarRating != 5 {
		t.Fatalf("unexpected first record: %+v", got[0])
	}

	merged := domain.MergedHotelEntity{
		HotelRecord: rec1,
		ProviderIDs: map[string]string{"agoda": "AG-1", "traveloka": "TR-9"},
		IsMerged:    true,
		MergedCount: 2,
	}
	if err := repo.UpsertMerged(ctx, merged); err != nil {
		t.Fatalf("UpsertMerged: %v", err)
	}

	m, err := repo.GetMerged(ctx, "AG-1")
	if err != nil {
		t.Fatalf("GetMerged: %v", err)
	}
	if !m.IsMerged || m.MergedCount != 2 || m.ProviderIDs["traveloka"] != "TR-9" {
		t.Fatalf("unexpected merged entity: %+v", m)
	}
	if _, err := repo.GetMerged(ctx, "ghost"); err != domain.ErrNotFound {
		t.Fatalf("GetMerged(ghost) err = %v, want ErrNotFound", err)
	}

	cluster := domain.DuplicateCluster{
		ID:                 "MAKKAH-0",
		City:               "MAKKAH",
		RepresentativeID:   "AG-1",
		RepresentativeName: "Makkah Hilton Hotel",
		Members:            []domain.HotelRecord{rec1, rec2},
		Reasons:            []string{"name similarity 0.90", "geo distance 14m"},
		Confidence:         1.0,
	}
	if err := repo.SaveCluster(ctx, cluster); err != nil {
		t.Fatalf("SaveCluster: %v", err)
	}
	// Rerun overwrites in place.
	cluster.Confidence = 0.9
	if err := repo.SaveCluster(ctx, cluster); err != nil {
		t.Fatalf("SaveCluster rerun: %v", err)
	}

	clusters, err := repo.ListClusters(ctx, "MAKKAH")
	if err != nil {
		t.Fatalf("ListClusters: %v", err)
	}
	if len(clusters) != 1 || len(clusters[0].Members) != 2 || clusters[0].Confidence != 0.9 {
		t.Fatalf("unexpected clusters: %+v", clusters)
	}

	now := time.Now().UTC().Truncate(time.Second)
	snap := domain.AvailabilitySnapshot{
		HotelID:   "AG-1",
		Provider:  "agoda",
		Checkin:   now.Add(5 * 24 * time.Hour),
		Checkout:  now.Add(9 * 24 * time.Hour),
		Status:    domain.StatusLastRooms,
		RoomsLeft: pint(2),
		MinPrice:  pfloat(750),
		FetchedAt: now,
	}
	if err := repo.InsertSnapshot(ctx, snap); err != nil {
		t.Fatalf("InsertSnapshot: %v", err)
	}

	snaps, err := repo.ListSnapshots(ctx, "AG-1", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(snaps) != 1 || snaps[0].Status != domain.StatusLastRooms {
		t.Fatalf("unexpected snapshots: %+v", snaps)
	}
	if snaps[0].RoomsLeft == nil || *snaps[0].RoomsLeft != 2 {
		t.Fatalf("rooms left = %v, want 2", snaps[0].RoomsLeft)
	}

	// A feed that omits stay dates still inserts; zero times become NULL
	// and round-trip as zero.
	bare := domain.AvailabilitySnapshot{
		HotelID:   "AG-1",
		Provider:  "traveloka",
		Status:    domain.StatusSoldOut,
		FetchedAt: now,
	}
	if err := repo.InsertSnapshot(ctx, bare); err != nil {
		t.Fatalf("InsertSnapshot without stay dates: %v", err)
	}
	snaps, err = repo.ListSnapshots(ctx, "AG-1", now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}
	for _, s := range snaps {
		if s.Provider == "traveloka" && (!s.Checkin.IsZero() || !s.Checkout.IsZero()) {
			t.Fatalf("stay dates not zero: %+v", s)
		}
	}

	// Snapshots outside the window are excluded.
	old, err := repo.ListSnapshots(ctx, "AG-1", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListSnapshots future window: %v", err)
	}
	if len(old) != 0 {
		t.Fatalf("window filter leaked %d snapshots", len(old))
	}

	if err := repo.LogSkip(ctx, "agoda", "AG-2", "missing name"); err != nil {
		t.Fatalf("LogSkip: %v", err)
	}
	if err := repo.LogSkip(ctx, "agoda", "AG-2", "missing name"); err != nil {
		t.Fatalf("LogSkip rerun: %v", err)
	}
}
