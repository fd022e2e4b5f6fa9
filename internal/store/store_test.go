package store

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/albapepper/lottery-data/internal/provider"
)

// fakeRow assigns its values to Scan destinations positionally.
type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if r.vals[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

type fakeDB struct {
	sql  string
	args []any
	row  fakeRow
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.sql, f.args = sql, args
	return f.row
}

func intPtr(n int) *int { return &n }

var drawDate = time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

func sampleDraws() []provider.Draw {
	return []provider.Draw{
		{
			Game: provider.Loto, Date: drawDate, Year: 2024, Numbers: []int{4, 11, 23, 37, 49},
			Loto: &provider.LotoDetails{Day: 16, Month: "mars", Chance: intPtr(6), Label: "SAMEDI"},
		},
		{
			Game: provider.EuroMillions, Date: drawDate, Year: 2024, Numbers: []int{5, 12, 19, 33, 50},
			EuroMillions: &provider.EuroMillionsDetails{Stars: [2]int{3, 11}, Sequence: intPtr(1720)},
		},
		{
			Game: provider.EuroDreams, Date: drawDate, Year: 2024, Numbers: []int{2, 9, 14, 21, 30, 40},
			EuroDreams: &provider.EuroDreamsDetails{Dream: 4},
		},
		{
			Game: provider.Crescendo, Date: drawDate, Year: 2024, Numbers: []int{1, 2, 3, 4, 5},
		},
	}
}

func TestDrawRowRoundTrip(t *testing.T) {
	for _, d := range sampleDraws() {
		table, cols, vals, err := drawRow(d)
		if err != nil {
			t.Fatalf("drawRow(%s): %v", d.Game, err)
		}
		if table != string(d.Game)+"_tirages" {
			t.Errorf("table(%s) = %q", d.Game, table)
		}
		if len(cols) != len(vals) {
			t.Fatalf("%s: %d columns for %d values", d.Game, len(cols), len(vals))
		}

		got, err := scanDraw(d.Game, fakeRow{vals: vals})
		if err != nil {
			t.Fatalf("scanDraw(%s): %v", d.Game, err)
		}
		if !reflect.DeepEqual(got, d) {
			t.Errorf("%s round trip:\n got  %+v\n want %+v", d.Game, got, d)
		}
	}
}

func TestDrawRowLotoColumns(t *testing.T) {
	_, cols, vals, err := drawRow(sampleDraws()[0])
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"date_tirage", "annee", "jour", "mois",
		"numero_1", "numero_2", "numero_3", "numero_4", "numero_5", "numero_6",
		"numero_complementaire", "numero_chance", "type_tirage",
	}
	if !reflect.DeepEqual(cols, want) {
		t.Errorf("columns = %v", cols)
	}
	if vals[9] != nil {
		t.Errorf("numero_6 = %v, want NULL", vals[9])
	}
	if bonus, ok := vals[10].(*int); !ok || bonus != nil {
		t.Errorf("numero_complementaire = %v, want NULL", vals[10])
	}
}

func TestDrawRowRejectsIncomplete(t *testing.T) {
	tests := []provider.Draw{
		{Game: provider.Loto, Date: drawDate, Numbers: []int{1, 2, 3, 4, 5}},
		{Game: provider.EuroMillions, Date: drawDate, Numbers: []int{1, 2, 3, 4, 5}},
		{Game: provider.EuroDreams, Date: drawDate, Numbers: []int{1, 2, 3, 4, 5, 6}},
		{Game: provider.Crescendo, Date: drawDate, Numbers: []int{1, 2, 3, 4}},
		{Game: provider.Game("keno"), Date: drawDate, Numbers: []int{1, 2, 3, 4, 5}},
	}
	for _, d := range tests {
		if _, _, _, err := drawRow(d); err == nil {
			t.Errorf("drawRow(%s, %v) accepted an incomplete draw", d.Game, d.Numbers)
		}
	}
}

func TestUpsertDrawSQL(t *testing.T) {
	sql := upsertDrawSQL("crescendo_tirages", drawColumns(provider.Crescendo))
	for _, want := range []string{
		"INSERT INTO crescendo_tirages (date_tirage, annee, numero_1",
		"VALUES ($1,$2,$3,$4,$5,$6,$7)",
		"ON CONFLICT (date_tirage) DO UPDATE SET annee = EXCLUDED.annee",
		"RETURNING (xmax = 0) AS inserted",
	} {
		if !strings.Contains(sql, want) {
			t.Errorf("upsert SQL missing %q:\n%s", want, sql)
		}
	}
	if strings.Contains(sql, "date_tirage = EXCLUDED") {
		t.Error("conflict key must not be updated")
	}
}

func TestUpsertDrawReportsInsert(t *testing.T) {
	for _, want := range []bool{true, false} {
		db := &fakeDB{row: fakeRow{vals: []any{want}}}
		got, err := New(db).UpsertDraw(context.Background(), sampleDraws()[3])
		if err != nil {
			t.Fatalf("UpsertDraw: %v", err)
		}
		if got != want {
			t.Errorf("inserted = %v, want %v", got, want)
		}
		if len(db.args) != 7 {
			t.Errorf("args = %d, want 7", len(db.args))
		}
	}
}

func TestUpsertDrawError(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: errors.New("conn reset")}}
	if _, err := New(db).UpsertDraw(context.Background(), sampleDraws()[3]); err == nil {
		t.Fatal("expected error")
	}
}

func TestUpsertStatArgs(t *testing.T) {
	db := &fakeDB{}
	st := provider.NumberStat{
		Game: provider.Loto, Kind: "numero", Number: 7,
		Occurrences: 9, RecencyIndex: 0, AverageGap: 11, Temperature: provider.Hot,
	}
	if err := New(db).UpsertStat(context.Background(), st); err != nil {
		t.Fatal(err)
	}
	want := []any{"loto", "numero", 7, 9, 0, 11, "chaud"}
	if !reflect.DeepEqual(db.args, want) {
		t.Errorf("args = %v, want %v", db.args, want)
	}
	if !strings.Contains(db.sql, "ON CONFLICT (game_type, stat_type, numero)") {
		t.Errorf("stat upsert not keyed on (game, kind, number):\n%s", db.sql)
	}
}

func TestMetadataJSONNotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	if _, err := New(db).MetadataJSON(context.Background(), provider.Loto); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
