package provider

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Fields is one upstream record: field name → scalar value. Numbers may arrive
// as JSON numbers or as strings.
type Fields map[string]interface{}

// Field-name prefixes tried, in order, for each ball index.
var (
	MainPrefixes = []string{"boule_", "numero_", "n"}
	StarPrefixes = []string{"etoile_", "etoile", "star_"}
)

// maxIndex is the highest suffix ExtractNumbers tries.
const maxIndex = 10

// ExtractNumbers walks indices from..to and, for each index, takes the value
// of the first prefix+index field that holds a number. Indices with no match
// are skipped, so the result keeps index order but may be shorter than the
// range.
func ExtractNumbers(fields Fields, prefixes []string, from, to int) []int {
	var numbers []int
	for i := from; i <= to; i++ {
		suffix := strconv.Itoa(i)
		for _, prefix := range prefixes {
			if n, ok := ExtractInt(fields[prefix+suffix]); ok {
				numbers = append(numbers, n)
				break
			}
		}
	}
	return numbers
}

// ExtractInt normalizes a numeric value from the formats the open-data API
// uses: JSON numbers, json.Number, and numeric strings. Non-integral values
// are rejected.
//
// Returns ok=false if not extractable.
func ExtractInt(val interface{}) (int, bool) {
	if val == nil {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return boundedInt(int64(v))
	case int32:
		return int(v), true
	case int64:
		return boundedInt(v)
	case float64:
		return wholeFloat(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return boundedInt(n)
		}
		if f, err := v.Float64(); err == nil {
			return wholeFloat(f)
		}
		return 0, false
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return boundedInt(n)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return wholeFloat(f)
		}
		return 0, false
	default:
		return 0, false
	}
}

// wholeFloat and boundedInt accept only values within the int32 range.
func wholeFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func boundedInt(n int64) (int, bool) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}

// firstInt returns the first positive number among the named fields.
func firstInt(fields Fields, names ...string) (int, bool) {
	for _, name := range names {
		if n, ok := ExtractInt(fields[name]); ok && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// firstString returns the first non-empty string among the named fields.
func firstString(fields Fields, names ...string) (string, bool) {
	for _, name := range names {
		if s, ok := fields[name].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s, true
			}
		}
	}
	return "", false
}
