// Package provider defines canonical data types that upstream records are
// normalized into. These structs are the contract between the record parser,
// the store and the stats aggregator — the parser outputs these, the store
// writes them to Postgres, the aggregator reads them back.
package provider

import (
	"encoding/json"
	"time"

	"github.com/albapepper/lottery-data/internal/config"
)

// DateLayout is the wire and storage format of a draw date.
const DateLayout = "2006-01-02"

// Game identifies a lottery variant.
type Game string

const (
	Loto         Game = "loto"
	EuroMillions Game = "euromillions"
	EuroDreams   Game = "eurodreams"
	Crescendo    Game = "crescendo"
)

// ParseGame validates a game identifier against the registry.
func ParseGame(s string) (Game, bool) {
	if _, ok := config.Game(s); !ok {
		return "", false
	}
	return Game(s), true
}

// Config returns the registry entry for the game.
func (g Game) Config() config.GameConfig {
	cfg, _ := config.Game(string(g))
	return cfg
}

// MaxNumber is the highest main number of the game.
func (g Game) MaxNumber() int {
	return g.Config().MaxNumber
}

// Draw is one official result. Exactly one of the per-game detail pointers is
// set for loto, euromillions and eurodreams; crescendo carries none.
type Draw struct {
	Game    Game      `json:"game"`
	Date    time.Time `json:"-"`
	Year    int       `json:"annee"`
	Numbers []int     `json:"numbers"`

	Loto         *LotoDetails         `json:"loto,omitempty"`
	EuroMillions *EuroMillionsDetails `json:"euromillions,omitempty"`
	EuroDreams   *EuroDreamsDetails   `json:"eurodreams,omitempty"`
}

// LotoDetails holds the loto-only fields.
type LotoDetails struct {
	Day    int    `json:"jour"`
	Month  string `json:"mois"`
	Bonus  *int   `json:"numero_complementaire,omitempty"`
	Chance *int   `json:"numero_chance,omitempty"`
	Label  string `json:"type_tirage"`
}

// EuroMillionsDetails holds the two stars and the optional FDJ draw number.
type EuroMillionsDetails struct {
	Stars    [2]int `json:"etoiles"`
	Sequence *int   `json:"numero_tirage,omitempty"`
}

// EuroDreamsDetails holds the dream number.
type EuroDreamsDetails struct {
	Dream int `json:"dream_number"`
}

// MarshalJSON renders the draw date as YYYY-MM-DD.
func (d Draw) MarshalJSON() ([]byte, error) {
	type alias Draw
	return json.Marshal(struct {
		alias
		Date string `json:"date_tirage"`
	}{alias(d), d.Date.Format(DateLayout)})
}

// Temperature buckets a number's occurrence count relative to the game mean.
// Values are the labels the dashboard filters on.
type Temperature string

const (
	Hot     Temperature = "chaud"
	Cold    Temperature = "froid"
	Neutral Temperature = "neutre"
)

// NumberStat is one row of lottery_stats.
type NumberStat struct {
	Game         Game        `json:"game_type"`
	Kind         string      `json:"stat_type"`
	Number       int         `json:"numero"`
	Occurrences  int         `json:"occurrences"`
	RecencyIndex int         `json:"derniere_sortie"`
	AverageGap   int         `json:"ecart_moyen"`
	Temperature  Temperature `json:"temperature"`
}

// Metadata summarizes a game's stored history.
type Metadata struct {
	Game       Game       `json:"game_type"`
	LatestDraw *time.Time `json:"last_tirage_date"`
	TotalDraws int        `json:"total_tirages"`
	UpdatedAt  time.Time  `json:"last_update"`
}
