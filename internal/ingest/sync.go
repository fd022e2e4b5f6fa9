// Package ingest orchestrates a lottery sync: fetch the upstream batch, parse
// and upsert each draw, then rebuild the game's number statistics.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/lottery-data/internal/provider"
	"github.com/albapepper/lottery-data/internal/stats"
)

// Trigger actions. The aliases are the names the dashboard has always sent.
const (
	ActionSync       = "sync"
	ActionImportFile = "import_file"

	actionSyncAlias       = "sync_fdj_api"
	actionImportFileAlias = "import_excel"
)

// Fetcher retrieves the raw upstream records of a game.
type Fetcher interface {
	FetchRecords(ctx context.Context, game provider.Game) ([]provider.Fields, error)
}

// DrawStore is the persistence the sync writes to and the stats pass reads.
type DrawStore interface {
	UpsertDraw(ctx context.Context, d provider.Draw) (inserted bool, err error)
	stats.Store
}

// Hook runs after a sync completed. A failing hook is logged and never
// changes the sync's outcome.
type Hook struct {
	Name string
	Fn   func(ctx context.Context, res *Result) error
}

// Options configure a Syncer.
type Options struct {
	Workers int    // concurrent draw upserts, minimum 1
	Locker  Locker // optional cross-process lock
	Hooks   []Hook
}

// Syncer runs syncs. Safe for concurrent use; syncs of the same game are
// serialized.
type Syncer struct {
	fetcher Fetcher
	store   DrawStore
	workers int
	locker  Locker
	hooks   []Hook
	local   gameMutexes
	logger  *slog.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(fetcher Fetcher, store DrawStore, opts Options, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Syncer{
		fetcher: fetcher,
		store:   store,
		workers: workers,
		locker:  opts.Locker,
		hooks:   opts.Hooks,
		logger:  logger,
	}
}

// AddHook appends a post-sync hook. Call before the first sync.
func (s *Syncer) AddHook(name string, fn func(ctx context.Context, res *Result) error) {
	s.hooks = append(s.hooks, Hook{Name: name, Fn: fn})
}

// Sync fetches the game's most recent records, upserts every draw that
// parses, and recomputes the game's stats once every upsert has settled.
// Only a fetch failure (or a held lock) fails the sync; parse and persist
// problems are counted in the result.
func (s *Syncer) Sync(ctx context.Context, game provider.Game) (Result, error) {
	if _, ok := provider.ParseGame(string(game)); !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownGame, game)
	}

	release, err := s.acquire(ctx, game)
	if err != nil {
		return Result{}, err
	}
	defer release()

	res := Result{RunID: uuid.New(), Game: game, StartedAt: time.Now()}
	logger := s.logger.With("game", game, "run_id", res.RunID)

	records, err := s.fetcher.FetchRecords(ctx, game)
	if err != nil {
		return res, newFetchError(game, err)
	}
	res.Total = len(records)

	draws := make([]provider.Draw, 0, len(records))
	for _, rec := range records {
		d, ok := provider.ParseRecord(game, rec)
		if !ok {
			res.Skipped++
			continue
		}
		draws = append(draws, d)
	}
	res.Parsed = len(draws)
	logger.Info("Parsed records", "fetched", res.Total, "parsed", res.Parsed, "skipped", res.Skipped)

	s.upsertDraws(ctx, draws, &res, logger)

	outcome, err := stats.Recompute(ctx, s.store, game, logger)
	if err != nil {
		logger.Warn("Stats recompute failed", "error", err)
		res.AddErrorf("stats: %v", err)
	} else {
		res.StatsUpdated = outcome.Upserted
		res.StatsFailed = outcome.Failed
		res.Draws = outcome.Draws
		res.LatestDraw = outcome.Latest
	}

	res.Duration = time.Since(res.StartedAt)
	s.runHooks(ctx, &res, logger)

	logger.Info("Sync complete", "summary", res.Summary(), "duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

// Exclusive runs fn while holding the same per-game locks as Sync, so fn
// never interleaves with a sync of game in this process or, with a Locker,
// in any other.
func (s *Syncer) Exclusive(ctx context.Context, game provider.Game, fn func(ctx context.Context) error) error {
	release, err := s.acquire(ctx, game)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

// acquire takes the in-process mutex, then the cross-process lock.
func (s *Syncer) acquire(ctx context.Context, game provider.Game) (func(), error) {
	unlock := s.local.lock(game)
	if s.locker == nil {
		return unlock, nil
	}
	release, err := s.locker.Acquire(ctx, game)
	if err != nil {
		unlock()
		return nil, err
	}
	return func() {
		release()
		unlock()
	}, nil
}

// upsertDraws writes draws with a bounded worker pool and returns once every
// upsert has either succeeded or failed.
func (s *Syncer) upsertDraws(ctx context.Context, draws []provider.Draw, res *Result, logger *slog.Logger) {
	if len(draws) == 0 {
		return
	}

	workers := s.workers
	if workers > len(draws) {
		workers = len(draws)
	}

	ch := make(chan provider.Draw, len(draws))
	for _, d := range draws {
		ch <- d
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup
	processed := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range ch {
				inserted, err := s.store.UpsertDraw(ctx, d)

				mu.Lock()
				switch {
				case err != nil:
					res.Failed++
					res.AddErrorf("upsert %s: %v", d.Date.Format(provider.DateLayout), err)
					logger.Warn("Draw upsert failed", "date", d.Date.Format(provider.DateLayout), "error", err)
				case inserted:
					res.Inserted++
				default:
					res.Updated++
				}
				processed++
				if processed%50 == 0 {
					logger.Info("Draw upsert progress", "processed", processed, "of", len(draws))
				}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
}

func (s *Syncer) runHooks(ctx context.Context, res *Result, logger *slog.Logger) {
	for _, h := range s.hooks {
		if err := h.Fn(ctx, res); err != nil {
			logger.Warn("Post-sync hook failed", "hook", h.Name, "error", err)
		}
	}
}

// Request is an inbound trigger.
type Request struct {
	Action   string `json:"action"`
	Game     string `json:"game"`
	File     string `json:"file,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// NormalizeAction maps an action name or its alias to its canonical name.
// Unknown actions are returned unchanged.
func NormalizeAction(action string) string {
	switch a := strings.TrimSpace(action); a {
	case ActionSync, actionSyncAlias:
		return ActionSync
	case ActionImportFile, actionImportFileAlias:
		return ActionImportFile
	default:
		return a
	}
}

// Handle dispatches a trigger. File import is recognized but unsupported.
func (s *Syncer) Handle(ctx context.Context, req Request) (Result, error) {
	switch NormalizeAction(req.Action) {
	case ActionSync:
		game, ok := provider.ParseGame(strings.TrimSpace(req.Game))
		if !ok {
			return Result{}, fmt.Errorf("%w: %q", ErrUnknownGame, req.Game)
		}
		return s.Sync(ctx, game)
	case ActionImportFile:
		return Result{}, &UnsupportedActionError{Action: req.Action}
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
}
