package db

import (
	"strings"
	"testing"

	"github.com/albapepper/lottery-data/internal/config"
)

func TestSchemaCoversRegistry(t *testing.T) {
	schema := Schema()
	for _, id := range config.GameIDs {
		g, _ := config.Game(id)
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+g.Table+" (") {
			t.Errorf("schema has no table for %s (%s)", id, g.Table)
		}
	}
	for _, table := range []string{config.StatsTable, config.MetadataTable} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("schema has no %s table", table)
		}
	}
}

func TestSchemaUpsertKeys(t *testing.T) {
	schema := Schema()
	for _, want := range []string{
		"date_tirage           DATE NOT NULL UNIQUE",
		"UNIQUE (game_type, stat_type, numero)",
		"game_type        TEXT PRIMARY KEY",
	} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema missing %q", want)
		}
	}
}
