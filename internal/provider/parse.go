package provider

import (
	"time"
)

// Date fields, primary first.
var dateFields = []string{"date_tirage", "date_de_tirage"}

// Secondary-field alternatives, tried in order.
var (
	bonusFields    = []string{"numero_complementaire", "boule_complementaire"}
	chanceFields   = []string{"numero_chance", "chance"}
	labelFields    = []string{"jour_de_tirage"}
	sequenceFields = []string{"numero_tirage"}
	dreamFields    = []string{"dream", "numero_dream", "dream_number"}
)

const (
	starCount    = 2
	defaultDream = 1
	defaultLabel = "standard"
)

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006",
	"20060102",
}

var frenchMonths = [12]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// ParseRecord normalizes one upstream record into a Draw for game.
// It returns ok=false when the record lacks a usable date or has fewer main
// (or star) numbers than the game requires; callers skip such records.
// ParseRecord is pure: the same input always yields the same Draw.
func ParseRecord(game Game, fields Fields) (Draw, bool) {
	cfg := game.Config()
	if cfg.MainCount == 0 {
		return Draw{}, false
	}

	raw, ok := firstString(fields, dateFields...)
	if !ok {
		return Draw{}, false
	}
	date, ok := ParseDate(raw)
	if !ok {
		return Draw{}, false
	}

	mains := ExtractNumbers(fields, MainPrefixes, 1, maxIndex)
	if len(mains) < cfg.MainCount {
		return Draw{}, false
	}
	mains = mains[:cfg.MainCount]
	for _, n := range mains {
		if n < 1 || n > cfg.MaxNumber {
			return Draw{}, false
		}
	}

	d := Draw{
		Game:    game,
		Date:    date,
		Year:    date.Year(),
		Numbers: mains,
	}

	switch game {
	case Loto:
		details := &LotoDetails{
			Day:   date.Day(),
			Month: MonthName(date.Month()),
			Label: defaultLabel,
		}
		if n, ok := firstInt(fields, bonusFields...); ok {
			details.Bonus = &n
		}
		if n, ok := firstInt(fields, chanceFields...); ok {
			details.Chance = &n
		}
		if s, ok := firstString(fields, labelFields...); ok {
			details.Label = s
		}
		d.Loto = details

	case EuroMillions:
		stars := ExtractNumbers(fields, StarPrefixes, 1, maxIndex)
		if len(stars) < starCount {
			return Draw{}, false
		}
		for _, n := range stars[:starCount] {
			if n < 1 || n > cfg.StarMax {
				return Draw{}, false
			}
		}
		details := &EuroMillionsDetails{Stars: [2]int{stars[0], stars[1]}}
		if n, ok := firstInt(fields, sequenceFields...); ok {
			details.Sequence = &n
		}
		d.EuroMillions = details

	case EuroDreams:
		dream, ok := firstInt(fields, dreamFields...)
		if !ok {
			dream = defaultDream
		}
		d.EuroDreams = &EuroDreamsDetails{Dream: dream}
	}

	return d, true
}

// ParseDate accepts the date formats seen in the FDJ datasets and returns the
// calendar day at UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// MonthName returns the French month name used in loto rows.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return frenchMonths[m-1]
}
