// Package store persists draws, per-number stats and game metadata to
// Postgres. Draws are keyed on their date within the game's table; stats on
// (game, stat kind, number); metadata on game.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/albapepper/lottery-data/internal/config"
	"github.com/albapepper/lottery-data/internal/provider"
)

// DBTX is the subset of pgxpool.Pool / pgx.Tx the store issues queries on.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads and writes lottery tables.
type Store struct {
	db DBTX
}

// New creates a Store over a pool or transaction.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// UpsertDraw writes a draw, replacing any row with the same date. inserted
// reports whether the date was new to the table.
func (s *Store) UpsertDraw(ctx context.Context, d provider.Draw) (inserted bool, err error) {
	table, cols, vals, err := drawRow(d)
	if err != nil {
		return false, err
	}
	err = s.db.QueryRow(ctx, upsertDrawSQL(table, cols), vals...).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upsert %s draw %s: %w", d.Game, d.Date.Format(provider.DateLayout), err)
	}
	return inserted, nil
}

// ListDraws returns the game's draws ordered by date, newest first.
// limit <= 0 returns the whole history.
func (s *Store) ListDraws(ctx context.Context, game provider.Game, limit int) ([]provider.Draw, error) {
	cfg, ok := config.Game(string(game))
	if !ok {
		return nil, fmt.Errorf("unknown game %q", game)
	}

	cols := drawColumns(game)
	sql := "SELECT " + strings.Join(cols, ", ") + " FROM " + cfg.Table + " ORDER BY date_tirage DESC"
	args := []any{}
	if limit > 0 {
		sql += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s draws: %w", game, err)
	}
	draws, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (provider.Draw, error) {
		return scanDraw(game, row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s draws: %w", game, err)
	}
	return draws, nil
}

// UpsertStat writes one per-number stat row.
func (s *Store) UpsertStat(ctx context.Context, st provider.NumberStat) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO `+config.StatsTable+` (
			game_type, stat_type, numero, occurrences,
			derniere_sortie, ecart_moyen, temperature, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,NOW())
		ON CONFLICT (game_type, stat_type, numero) DO UPDATE SET
			occurrences = EXCLUDED.occurrences,
			derniere_sortie = EXCLUDED.derniere_sortie,
			ecart_moyen = EXCLUDED.ecart_moyen,
			temperature = EXCLUDED.temperature,
			updated_at = NOW()`,
		string(st.Game), st.Kind, st.Number, st.Occurrences,
		st.RecencyIndex, st.AverageGap, string(st.Temperature),
	)
	if err != nil {
		return fmt.Errorf("upsert %s stat %d: %w", st.Game, st.Number, err)
	}
	return nil
}

// UpsertMetadata writes the game's metadata row.
func (s *Store) UpsertMetadata(ctx context.Context, m provider.Metadata) error {
	updated := m.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO `+config.MetadataTable+` (
			game_type, last_tirage_date, total_tirages, last_update
		) VALUES ($1,$2,$3,$4)
		ON CONFLICT (game_type) DO UPDATE SET
			last_tirage_date = EXCLUDED.last_tirage_date,
			total_tirages = EXCLUDED.total_tirages,
			last_update = EXCLUDED.last_update`,
		string(m.Game), m.LatestDraw, m.TotalDraws, updated,
	)
	if err != nil {
		return fmt.Errorf("upsert %s metadata: %w", m.Game, err)
	}
	return nil
}

// StatsJSON returns the game's stat rows as a JSON array ordered by number.
func (s *Store) StatsJSON(ctx context.Context, game provider.Game) ([]byte, error) {
	var raw []byte
	if err := s.db.QueryRow(ctx, "list_stats", string(game), config.StatKindNumber).Scan(&raw); err != nil {
		return nil, fmt.Errorf("list %s stats: %w", game, err)
	}
	return raw, nil
}

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// MetadataJSON returns the game's metadata row as a JSON object.
func (s *Store) MetadataJSON(ctx context.Context, game provider.Game) ([]byte, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, "game_metadata", string(game)).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s metadata: %w", game, err)
	}
	return raw, nil
}

// --------------------------------------------------------------------------
// Row mapping
// --------------------------------------------------------------------------

func upsertDrawSQL(table string, cols []string) string {
	placeholders := make([]string, len(cols))
	var sets []string
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if c != "date_tirage" {
			sets = append(sets, c+" = EXCLUDED."+c)
		}
	}
	return "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ")" +
		" VALUES (" + strings.Join(placeholders, ",") + ")" +
		" ON CONFLICT (date_tirage) DO UPDATE SET " + strings.Join(sets, ", ") +
		" RETURNING (xmax = 0) AS inserted"
}

// drawColumns lists a game's table columns in storage order.
func drawColumns(game provider.Game) []string {
	cols := []string{"date_tirage", "annee"}
	switch game {
	case provider.Loto:
		cols = append(cols, "jour", "mois")
		cols = append(cols, numberColumns(6)...)
		cols = append(cols, "numero_complementaire", "numero_chance", "type_tirage")
	case provider.EuroMillions:
		cols = append(cols, numberColumns(5)...)
		cols = append(cols, "etoile_1", "etoile_2", "numero_tirage")
	case provider.EuroDreams:
		cols = append(cols, numberColumns(6)...)
		cols = append(cols, "dream_number")
	default:
		cols = append(cols, numberColumns(5)...)
	}
	return cols
}

func numberColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = fmt.Sprintf("numero_%d", i+1)
	}
	return cols
}

// drawRow maps a draw onto its table, columns and values.
func drawRow(d provider.Draw) (table string, cols []string, vals []any, err error) {
	cfg, ok := config.Game(string(d.Game))
	if !ok {
		return "", nil, nil, fmt.Errorf("unknown game %q", d.Game)
	}
	if len(d.Numbers) != cfg.MainCount {
		return "", nil, nil, fmt.Errorf("%s draw has %d numbers, want %d", d.Game, len(d.Numbers), cfg.MainCount)
	}

	vals = []any{d.Date, d.Year}
	switch d.Game {
	case provider.Loto:
		if d.Loto == nil {
			return "", nil, nil, fmt.Errorf("loto draw %s has no loto details", d.Date.Format(provider.DateLayout))
		}
		vals = append(vals, d.Loto.Day, d.Loto.Month)
		vals = appendNumbers(vals, d.Numbers)
		vals = append(vals, nil, d.Loto.Bonus, d.Loto.Chance, d.Loto.Label)
	case provider.EuroMillions:
		if d.EuroMillions == nil {
			return "", nil, nil, fmt.Errorf("euromillions draw %s has no stars", d.Date.Format(provider.DateLayout))
		}
		vals = appendNumbers(vals, d.Numbers)
		vals = append(vals, d.EuroMillions.Stars[0], d.EuroMillions.Stars[1], d.EuroMillions.Sequence)
	case provider.EuroDreams:
		if d.EuroDreams == nil {
			return "", nil, nil, fmt.Errorf("eurodreams draw %s has no dream number", d.Date.Format(provider.DateLayout))
		}
		vals = appendNumbers(vals, d.Numbers)
		vals = append(vals, d.EuroDreams.Dream)
	default:
		vals = appendNumbers(vals, d.Numbers)
	}

	return cfg.Table, drawColumns(d.Game), vals, nil
}

func appendNumbers(vals []any, numbers []int) []any {
	for _, n := range numbers {
		vals = append(vals, n)
	}
	return vals
}

// scanDraw reads one row selected with drawColumns(game).
func scanDraw(game provider.Game, row pgx.Row) (provider.Draw, error) {
	d := provider.Draw{Game: game}
	var n [6]int

	switch game {
	case provider.Loto:
		var (
			det   provider.LotoDetails
			sixth *int
		)
		if err := row.Scan(&d.Date, &d.Year, &det.Day, &det.Month,
			&n[0], &n[1], &n[2], &n[3], &n[4], &sixth,
			&det.Bonus, &det.Chance, &det.Label); err != nil {
			return d, err
		}
		d.Numbers = append([]int(nil), n[:5]...)
		d.Loto = &det
	case provider.EuroMillions:
		var det provider.EuroMillionsDetails
		if err := row.Scan(&d.Date, &d.Year,
			&n[0], &n[1], &n[2], &n[3], &n[4],
			&det.Stars[0], &det.Stars[1], &det.Sequence); err != nil {
			return d, err
		}
		d.Numbers = append([]int(nil), n[:5]...)
		d.EuroMillions = &det
	case provider.EuroDreams:
		var det provider.EuroDreamsDetails
		if err := row.Scan(&d.Date, &d.Year,
			&n[0], &n[1], &n[2], &n[3], &n[4], &n[5], &det.Dream); err != nil {
			return d, err
		}
		d.Numbers = append([]int(nil), n[:6]...)
		d.EuroDreams = &det
	default:
		if err := row.Scan(&d.Date, &d.Year,
			&n[0], &n[1], &n[2], &n[3], &n[4]); err != nil {
			return d, err
		}
		d.Numbers = append([]int(nil), n[:5]...)
	}

	d.Date = d.Date.UTC()
	return d, nil
}
