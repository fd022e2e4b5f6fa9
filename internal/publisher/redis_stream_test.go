package publisher

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEventValues(t *testing.T) {
	at := time.Date(2024, 3, 16, 21, 0, 0, 0, time.UTC)
	values, err := eventValues(SyncEvent{
		RunID: "run-1", Game: "loto", Inserted: 2, Total: 3,
		StatsUpdated: 49, LatestDraw: "2024-03-16", CompletedAt: at,
	})
	if err != nil {
		t.Fatal(err)
	}
	if values["game"] != "loto" {
		t.Errorf("game = %v", values["game"])
	}
	if values["timestamp"] != at.Unix() {
		t.Errorf("timestamp = %v, want %d", values["timestamp"], at.Unix())
	}

	var ev SyncEvent
	if err := json.Unmarshal([]byte(values["data"].(string)), &ev); err != nil {
		t.Fatalf("data is not a SyncEvent: %v", err)
	}
	if ev.ID == "" {
		t.Error("event id not assigned")
	}
	if ev.Inserted != 2 || ev.Total != 3 || ev.StatsUpdated != 49 || ev.LatestDraw != "2024-03-16" {
		t.Errorf("event = %+v", ev)
	}
}

func TestEventValuesDefaultsTime(t *testing.T) {
	before := time.Now().Unix()
	values, err := eventValues(SyncEvent{Game: "crescendo"})
	if err != nil {
		t.Fatal(err)
	}
	if ts := values["timestamp"].(int64); ts < before {
		t.Errorf("timestamp = %d, want >= %d", ts, before)
	}
}
