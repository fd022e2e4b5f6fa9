package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/albapepper/lottery-data/internal/provider"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// history builds draws most-recent-first: draws[0] is the newest.
func history(game provider.Game, numbers ...[]int) []provider.Draw {
	draws := make([]provider.Draw, len(numbers))
	for i, ns := range numbers {
		draws[i] = provider.Draw{Game: game, Date: day(len(numbers) - i), Numbers: ns}
	}
	return draws
}

func statFor(t *testing.T, stats []provider.NumberStat, n int) provider.NumberStat {
	t.Helper()
	for _, s := range stats {
		if s.Number == n {
			return s
		}
	}
	t.Fatalf("no stat for number %d", n)
	return provider.NumberStat{}
}

func TestComputeEmptyHistory(t *testing.T) {
	if got := Compute(provider.Loto, nil); got != nil {
		t.Errorf("Compute(no draws) = %d rows, want none", len(got))
	}
}

func TestComputeRowCount(t *testing.T) {
	tests := []struct {
		game provider.Game
		want int
	}{
		{provider.Loto, 49},
		{provider.EuroMillions, 50},
		{provider.EuroDreams, 40},
		{provider.Crescendo, 39},
	}
	for _, tt := range tests {
		got := Compute(tt.game, history(tt.game, []int{1, 2, 3, 4, 5}))
		if len(got) != tt.want {
			t.Errorf("Compute(%s) = %d rows, want %d", tt.game, len(got), tt.want)
		}
		for i, s := range got {
			if s.Number != i+1 || s.Kind != "numero" || s.Game != tt.game {
				t.Errorf("%s row %d = %+v", tt.game, i, s)
				break
			}
		}
	}
}

func TestComputeHotAndCold(t *testing.T) {
	// 10 crescendo draws of 5 numbers; 7 appears in 9 of them.
	// Total occurrences = 50 over 39 numbers, mean ≈ 1.28.
	var rows [][]int
	for i := 0; i < 10; i++ {
		if i == 3 {
			rows = append(rows, []int{1, 2, 3, 4, 5})
			continue
		}
		rows = append(rows, []int{7, 10 + i, 20 + i, 30, 31})
	}
	got := Compute(provider.Crescendo, history(provider.Crescendo, rows...))

	seven := statFor(t, got, 7)
	if seven.Occurrences != 9 {
		t.Errorf("occurrences(7) = %d, want 9", seven.Occurrences)
	}
	if seven.Temperature != provider.Hot {
		t.Errorf("temperature(7) = %s, want hot", seven.Temperature)
	}
	if seven.RecencyIndex != 0 {
		t.Errorf("recency(7) = %d, want 0", seven.RecencyIndex)
	}

	never := statFor(t, got, 39)
	if never.Occurrences != 0 || never.Temperature != provider.Cold {
		t.Errorf("never-drawn number = %+v, want 0 occurrences and cold", never)
	}
	if never.RecencyIndex != 10 {
		t.Errorf("recency(never) = %d, want 10", never.RecencyIndex)
	}
	if never.AverageGap != 10 {
		t.Errorf("averageGap(never) = %d, want 10", never.AverageGap)
	}

	one := statFor(t, got, 1)
	if one.RecencyIndex != 3 {
		t.Errorf("recency(1) = %d, want 3", one.RecencyIndex)
	}
}

func TestComputeMeanOfTwo(t *testing.T) {
	// Loto: 49 numbers; mean = 2 needs 98 occurrences. 7 appears 9 times.
	var rows [][]int
	// 9 draws containing 7, plus 4 other numbers cycling through 8..43.
	next := 8
	for i := 0; i < 9; i++ {
		row := []int{7}
		for len(row) < 5 {
			row = append(row, next)
			next++
			if next > 43 {
				next = 8
			}
		}
		rows = append(rows, row)
	}
	// 53 more occurrences with no 7 and no 2: 10 draws of 5 plus one of 3.
	for i := 0; i < 10; i++ {
		rows = append(rows, []int{44, 45, 46, 47, 48})
	}
	rows = append(rows, []int{49, 1, 3})

	got := Compute(provider.Loto, history(provider.Loto, rows...))
	sum := 0
	for _, s := range got {
		sum += s.Occurrences
	}
	if sum != 98 {
		t.Fatalf("total occurrences = %d, want 98 (mean 2)", sum)
	}
	if s := statFor(t, got, 7); s.Temperature != provider.Hot {
		t.Errorf("temperature(7) = %s, want hot", s.Temperature)
	}
	if s := statFor(t, got, 2); s.Occurrences != 0 || s.Temperature != provider.Cold {
		t.Errorf("number 2 = %+v, want cold", s)
	}
}

func TestComputeOrdersByDate(t *testing.T) {
	draws := []provider.Draw{
		{Game: provider.Crescendo, Date: day(1), Numbers: []int{1, 2, 3, 4, 5}},
		{Game: provider.Crescendo, Date: day(3), Numbers: []int{6, 7, 8, 9, 10}},
		{Game: provider.Crescendo, Date: day(2), Numbers: []int{1, 11, 12, 13, 14}},
	}
	got := Compute(provider.Crescendo, draws)

	if s := statFor(t, got, 6); s.RecencyIndex != 0 {
		t.Errorf("recency(6) = %d, want 0", s.RecencyIndex)
	}
	if s := statFor(t, got, 1); s.RecencyIndex != 1 || s.Occurrences != 2 {
		t.Errorf("number 1 = %+v, want recency 1 occurrences 2", s)
	}
}

func TestComputeEuroDreamsCountsSixthNumber(t *testing.T) {
	got := Compute(provider.EuroDreams, history(provider.EuroDreams, []int{1, 2, 3, 4, 5, 40}))
	if s := statFor(t, got, 40); s.Occurrences != 1 {
		t.Errorf("occurrences(40) = %d, want 1", s.Occurrences)
	}
}

func TestComputeIgnoresOutOfRange(t *testing.T) {
	got := Compute(provider.Crescendo, history(provider.Crescendo, []int{0, 1, 2, 3, 45}))
	sum := 0
	for _, s := range got {
		sum += s.Occurrences
	}
	if sum != 3 {
		t.Errorf("total occurrences = %d, want 3", sum)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		occ  int
		mean float64
		want provider.Temperature
	}{
		{11, 10, provider.Neutral}, // exactly 1.1×mean
		{9, 10, provider.Neutral},  // exactly 0.9×mean
		{12, 10, provider.Hot},
		{8, 10, provider.Cold},
		{10, 10, provider.Neutral},
		{0, 0, provider.Neutral},
	}
	for _, tt := range tests {
		if got := Classify(tt.occ, tt.mean); got != tt.want {
			t.Errorf("Classify(%d, %v) = %s, want %s", tt.occ, tt.mean, got, tt.want)
		}
	}
}

func TestAverageGap(t *testing.T) {
	tests := []struct {
		total, occ, want int
	}{
		{10, 0, 10},
		{10, 1, 10},
		{10, 3, 3},
		{10, 4, 3}, // 2.5 rounds up
		{7, 2, 4},  // 3.5 rounds up
		{100, 9, 11},
	}
	for _, tt := range tests {
		if got := AverageGap(tt.total, tt.occ); got != tt.want {
			t.Errorf("AverageGap(%d, %d) = %d, want %d", tt.total, tt.occ, got, tt.want)
		}
	}
}

type fakeStore struct {
	draws   []provider.Draw
	listErr error
	failOn  map[int]bool
	stats   map[int]provider.NumberStat
}

func (f *fakeStore) ListDraws(ctx context.Context, game provider.Game, limit int) ([]provider.Draw, error) {
	return f.draws, f.listErr
}

func (f *fakeStore) UpsertStat(ctx context.Context, s provider.NumberStat) error {
	if f.failOn[s.Number] {
		return errors.New("boom")
	}
	if f.stats == nil {
		f.stats = make(map[int]provider.NumberStat)
	}
	f.stats[s.Number] = s
	return nil
}

func TestRecomputeNoDraws(t *testing.T) {
	st := &fakeStore{}
	out, err := Recompute(context.Background(), st, provider.Loto, nil)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if !out.Skipped || out.Upserted != 0 || len(st.stats) != 0 {
		t.Errorf("Recompute(no draws) = %+v, stats %d", out, len(st.stats))
	}
}

func TestRecomputeContinuesPastFailures(t *testing.T) {
	st := &fakeStore{
		draws:  history(provider.Crescendo, []int{1, 2, 3, 4, 5}, []int{6, 7, 8, 9, 10}),
		failOn: map[int]bool{3: true, 20: true},
	}
	out, err := Recompute(context.Background(), st, provider.Crescendo, nil)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if out.Upserted != 37 || out.Failed != 2 {
		t.Errorf("upserted=%d failed=%d, want 37 and 2", out.Upserted, out.Failed)
	}
	if out.Draws != 2 || out.Latest == nil || !out.Latest.Equal(day(2)) {
		t.Errorf("outcome = %+v", out)
	}
	if _, ok := st.stats[39]; !ok {
		t.Error("rows after a failure were not written")
	}
}

func TestRecomputeListError(t *testing.T) {
	st := &fakeStore{listErr: errors.New("db down")}
	if _, err := Recompute(context.Background(), st, provider.Loto, nil); err == nil {
		t.Fatal("expected error")
	}
}
