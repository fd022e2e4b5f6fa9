package notifications

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestBuildMessage(t *testing.T) {
	latest := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	msg := BuildMessage(Report{
		Game:         "loto",
		GameName:     "Loto",
		Inserted:     1,
		Total:        3,
		Skipped:      2,
		StatsUpdated: 49,
		LatestDraw:   &latest,
		Duration:     1500 * time.Millisecond,
	})

	for _, want := range []string{
		"Loto sync: 1 new draw out of 3 fetched",
		"Skipped 2, failed 0",
		"Stats updated for 49 numbers",
		"Latest draw: 2024-03-16",
		"Took 1.5s",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildMessageQuiet(t *testing.T) {
	msg := BuildMessage(Report{Game: "crescendo", Inserted: 0, Total: 10})
	if !strings.HasPrefix(msg, "crescendo sync: 0 new draws out of 10 fetched") {
		t.Errorf("unexpected header:\n%s", msg)
	}
	if strings.Contains(msg, "Skipped") || strings.Contains(msg, "Latest draw") || strings.Contains(msg, "Errors") {
		t.Errorf("message mentions absent details:\n%s", msg)
	}
}

func TestNilSenderIsNoop(t *testing.T) {
	s, err := NewTelegramSender("", 0, nil)
	if err != nil || s != nil {
		t.Fatalf("NewTelegramSender(unconfigured) = %v, %v; want nil, nil", s, err)
	}
	if err := s.Send(context.Background(), "hello"); err != nil {
		t.Errorf("nil sender Send = %v, want nil", err)
	}
}
