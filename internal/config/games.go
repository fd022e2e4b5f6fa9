package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// --------------------------------------------------------------------------
// Game registry
// --------------------------------------------------------------------------

// GameConfig describes one lottery variant: where its draws live, where they
// come from, and the range of its main numbers. StarMax is zero for games
// without stars.
type GameConfig struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Table     string `json:"-"`
	Dataset   string `json:"dataset"`
	MaxNumber int    `json:"max_number"`
	MainCount int    `json:"main_count"`
	StarMax   int    `json:"star_max,omitempty"`
}

// GameIDs lists the supported games in display order.
var GameIDs = []string{"loto", "euromillions", "eurodreams", "crescendo"}

var GameRegistry = map[string]GameConfig{
	"loto":         {ID: "loto", Name: "Loto", Table: "loto_tirages", Dataset: "loto_201911", MaxNumber: 49, MainCount: 5},
	"euromillions": {ID: "euromillions", Name: "EuroMillions", Table: "euromillions_tirages", Dataset: "euromillions_201911", MaxNumber: 50, MainCount: 5, StarMax: 12},
	"eurodreams":   {ID: "eurodreams", Name: "EuroDreams", Table: "eurodreams_tirages", Dataset: "eurodreams", MaxNumber: 40, MainCount: 6},
	"crescendo":    {ID: "crescendo", Name: "Crescendo", Table: "crescendo_tirages", Dataset: "crescendo", MaxNumber: 39, MainCount: 5},
}

// Game returns the registry entry for id.
func Game(id string) (GameConfig, bool) {
	g, ok := GameRegistry[id]
	return g, ok
}

// --------------------------------------------------------------------------
// YAML overrides
// --------------------------------------------------------------------------

// GameOverride is one entry of the GAMES_FILE document. Only the upstream
// dataset and the display name can be changed; number ranges are fixed by
// the game rules and table names by the schema.
type GameOverride struct {
	Name    string `yaml:"name"`
	Dataset string `yaml:"dataset"`
}

type gamesFile struct {
	Games map[string]GameOverride `yaml:"games"`
}

// LoadGames reads a YAML file of per-game overrides and applies it to
// GameRegistry. Call once at startup, before any goroutine reads the registry.
func LoadGames(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	overrides, err := ParseGames(data)
	if err != nil {
		return err
	}
	registry, err := applyGameOverrides(GameRegistry, overrides)
	if err != nil {
		return err
	}
	GameRegistry = registry
	return nil
}

// ParseGames decodes a games YAML document.
//
//	games:
//	  loto:
//	    dataset: loto_201911
//	    name: Loto
func ParseGames(data []byte) (map[string]GameOverride, error) {
	var f gamesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse games yaml: %w", err)
	}
	return f.Games, nil
}

func applyGameOverrides(base map[string]GameConfig, overrides map[string]GameOverride) (map[string]GameConfig, error) {
	out := make(map[string]GameConfig, len(base))
	for id, g := range base {
		out[id] = g
	}
	for id, o := range overrides {
		g, ok := out[id]
		if !ok {
			return nil, fmt.Errorf("unknown game %q in games file", id)
		}
		if o.Name != "" {
			g.Name = o.Name
		}
		if o.Dataset != "" {
			g.Dataset = o.Dataset
		}
		out[id] = g
	}
	return out, nil
}
