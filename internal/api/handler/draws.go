package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/lottery-data/internal/api/respond"
	"github.com/albapepper/lottery-data/internal/cache"
	"github.com/albapepper/lottery-data/internal/config"
	"github.com/albapepper/lottery-data/internal/provider"
	"github.com/albapepper/lottery-data/internal/store"
)

const (
	defaultDrawLimit = 50
	maxDrawLimit     = 1000
)

// GetGames lists the supported games.
// @Summary List games
// @Description Returns every supported game with its number range and FDJ dataset.
// @Tags games
// @Produce json
// @Success 200 {array} config.GameConfig
// @Router /games [get]
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "games", cache.TTLGames, func() ([]byte, error) {
		games := make([]config.GameConfig, 0, len(config.GameIDs))
		for _, id := range config.GameIDs {
			if g, ok := config.Game(id); ok {
				games = append(games, g)
			}
		}
		return json.Marshal(games)
	})
}

// GetDraws returns a game's draws, newest first.
// @Summary List draws
// @Description Returns stored draws of a game ordered by draw date descending.
// @Tags draws
// @Produce json
// @Param game path string true "Game" Enums(loto, euromillions, eurodreams, crescendo)
// @Param limit query int false "Maximum draws (default 50, max 1000)"
// @Success 200 {array} provider.Draw
// @Failure 400 {object} respond.ErrorResponse
// @Router /draws/{game} [get]
func (h *Handler) GetDraws(w http.ResponseWriter, r *http.Request) {
	game, ok := h.gameParam(w, r)
	if !ok {
		return
	}

	limit := defaultDrawLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxDrawLimit {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_LIMIT",
				fmt.Sprintf("limit must be an integer between 1 and %d", maxDrawLimit))
			return
		}
		limit = n
	}

	h.serveCached(w, r, cache.GameKey(string(game), "draws", strconv.Itoa(limit)), cache.TTLDraws, func() ([]byte, error) {
		draws, err := h.reader.ListDraws(r.Context(), game, limit)
		if err != nil {
			return nil, err
		}
		if draws == nil {
			draws = []provider.Draw{}
		}
		return json.Marshal(draws)
	})
}

// GetStats returns a game's per-number stats.
// @Summary Number stats
// @Description Returns occurrences, recency, average gap and temperature for every number of a game, ordered by number. Raw JSON from Postgres.
// @Tags stats
// @Produce json
// @Param game path string true "Game" Enums(loto, euromillions, eurodreams, crescendo)
// @Success 200 {array} provider.NumberStat
// @Failure 400 {object} respond.ErrorResponse
// @Router /stats/{game} [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	game, ok := h.gameParam(w, r)
	if !ok {
		return
	}
	h.serveCached(w, r, cache.GameKey(string(game), "stats"), cache.TTLStats, func() ([]byte, error) {
		return h.reader.StatsJSON(r.Context(), game)
	})
}

// GetMetadata returns a game's sync metadata.
// @Summary Game metadata
// @Description Returns the latest stored draw date, history size and last update time of a game.
// @Tags games
// @Produce json
// @Param game path string true "Game" Enums(loto, euromillions, eurodreams, crescendo)
// @Success 200 {object} provider.Metadata
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /games/{game}/metadata [get]
func (h *Handler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	game, ok := h.gameParam(w, r)
	if !ok {
		return
	}
	h.serveCached(w, r, cache.GameKey(string(game), "metadata"), cache.TTLMetadata, func() ([]byte, error) {
		return h.reader.MetadataJSON(r.Context(), game)
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

func (h *Handler) gameParam(w http.ResponseWriter, r *http.Request) (provider.Game, bool) {
	raw := chi.URLParam(r, "game")
	game, ok := provider.ParseGame(raw)
	if !ok {
		respond.WriteError(w, http.StatusBadRequest, "UNKNOWN_GAME", "Unsupported game: "+raw)
		return "", false
	}
	return game, true
}

// serveCached answers from the cache when possible, otherwise loads, caches
// and writes the payload. Conditional requests get a 304 on ETag match.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, load func() ([]byte, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	data, err := load()
	if errors.Is(err, store.ErrNotFound) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No data yet for this game")
		return
	}
	if err != nil {
		h.logger.Error("Query failed", "key", key, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to load data")
		return
	}

	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}
