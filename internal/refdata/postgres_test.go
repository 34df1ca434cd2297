package refdata

import (
	"context"
	"database/sql"
	"reflect"
	"testing"

	"galaxy-lookup/internal/geom"

	_ "modernc.org/sqlite"
)

// Seed and the read path only use portable SQL, so an in-memory sqlite
// database stands in for postgres here.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return db
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Errorf("second EnsureSchema: %v", err)
	}
}

func TestPostgresSource(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	stmts := []string{
		`INSERT INTO refdata_landmarks(id, name, x, y, z) VALUES (2, 'Colonia', -9530.5, -910.28125, 19808.125)`,
		`INSERT INTO refdata_landmarks(id, name, x, y, z) VALUES (1, 'Sol', 0, 0, 0)`,
		`INSERT INTO refdata_carriers(id, name, x, y, z) VALUES (1, 'DSSA Test', 1, 2, 3)`,
		`INSERT INTO refdata_diversions(id, name, system_name, distance_from_star, x, y, z) VALUES (1, 'Daedalus', 'Sol', 180, 0, 0, 0)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	s := NewStore(Postgres(db))
	lm, err := s.Landmarks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(lm) != 2 || lm[0].Name != "Sol" || lm[1].Coords != (geom.Coordinate{X: -9530.5, Y: -910.28125, Z: 19808.125}) {
		t.Errorf("Landmarks = %+v", lm)
	}
	cs, err := s.Carriers(ctx)
	if err != nil || len(cs) != 1 || cs[0].Name != "DSSA Test" {
		t.Errorf("Carriers = %+v, %v", cs, err)
	}
	ds, err := s.Diversions(ctx)
	if err != nil || len(ds) != 1 || ds[0].SystemName != "Sol" || ds[0].DistanceFromStar != 180 {
		t.Errorf("Diversions = %+v, %v", ds, err)
	}
}

func TestSeedRejectsInvalidSource(t *testing.T) {
	db := openTestDB(t)
	src := &countingSource{landmarks: []Landmark{{Name: ""}}}
	if _, err := Seed(context.Background(), db, src); err == nil {
		t.Fatal("want validation error")
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM refdata_landmarks").Scan(&n); err != nil || n != 0 {
		t.Errorf("rows = %d, %v; want untouched table", n, err)
	}
}

func TestSeedRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	want := NewStore(Embedded())
	wantLm, err := want.Landmarks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantCs, err := want.Carriers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantDs, err := want.Diversions(ctx)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		n, err := Seed(ctx, db, Embedded())
		if err != nil {
			t.Fatalf("Seed #%d: %v", i+1, err)
		}
		if n != (Counts{Landmarks: len(wantLm), Carriers: len(wantCs), Diversions: len(wantDs)}) {
			t.Errorf("Seed #%d counts = %+v", i+1, n)
		}
	}

	got := NewStore(Postgres(db))
	lm, err := got.Landmarks(ctx)
	if err != nil || !reflect.DeepEqual(lm, wantLm) {
		t.Errorf("Landmarks = %+v, %v", lm, err)
	}
	cs, err := got.Carriers(ctx)
	if err != nil || !reflect.DeepEqual(cs, wantCs) {
		t.Errorf("Carriers = %+v, %v", cs, err)
	}
	ds, err := got.Diversions(ctx)
	if err != nil || !reflect.DeepEqual(ds, wantDs) {
		t.Errorf("Diversions = %+v, %v", ds, err)
	}
}

func TestSeedReplacesAllTables(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	if _, err := Seed(ctx, db, Embedded()); err != nil {
		t.Fatal(err)
	}
	src := &countingSource{landmarks: []Landmark{{Name: "Beagle Point", Coords: geom.Coordinate{X: -1111.5625, Y: -134.21875, Z: 65269.75}}}}
	n, err := Seed(ctx, db, src)
	if err != nil {
		t.Fatal(err)
	}
	if n != (Counts{Landmarks: 1}) {
		t.Errorf("counts = %+v", n)
	}
	for table, want := range map[string]int{"refdata_landmarks": 1, "refdata_carriers": 0, "refdata_diversions": 0} {
		var got int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&got); err != nil || got != want {
			t.Errorf("%s rows = %d, %v; want %d", table, got, err, want)
		}
	}
	lm, err := Postgres(db).Landmarks(ctx)
	if err != nil || len(lm) != 1 || lm[0].Name != "Beagle Point" {
		t.Errorf("Landmarks = %+v, %v", lm, err)
	}
}
