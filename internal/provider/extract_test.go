package provider

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestExtractNumbersFirstPrefixPerIndex(t *testing.T) {
	fields := Fields{"boule_1": 3, "numero_3": 7, "n2": 5}

	got := ExtractNumbers(fields, MainPrefixes, 1, 3)
	want := []int{3, 5, 7}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractNumbers = %v, want %v", got, want)
	}
}

func TestExtractNumbersPrefixPriority(t *testing.T) {
	fields := Fields{"boule_1": 10, "numero_1": 20, "n1": 30}

	got := ExtractNumbers(fields, MainPrefixes, 1, 1)
	if !reflect.DeepEqual(got, []int{10}) {
		t.Errorf("ExtractNumbers = %v, want [10]", got)
	}
}

func TestExtractNumbersGapsShortenResult(t *testing.T) {
	fields := Fields{"boule_1": 1, "boule_4": 4, "boule_10": 10}

	got := ExtractNumbers(fields, MainPrefixes, 1, 10)
	want := []int{1, 4, 10}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractNumbers = %v, want %v", got, want)
	}
}

func TestExtractNumbersSkipsNonNumeric(t *testing.T) {
	fields := Fields{"boule_1": "x", "numero_1": "12", "boule_2": nil, "n2": 8.0}

	got := ExtractNumbers(fields, MainPrefixes, 1, 2)
	want := []int{12, 8}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractNumbers = %v, want %v", got, want)
	}
}

func TestExtractInt(t *testing.T) {
	tests := []struct {
		input  interface{}
		want   int
		wantOK bool
	}{
		{nil, 0, false},
		{7, 7, true},
		{int64(9), 9, true},
		{12.0, 12, true},
		{12.5, 0, false},
		{json.Number("33"), 33, true},
		{json.Number("4.0"), 4, true},
		{"42", 42, true},
		{" 5 ", 5, true},
		{"3.0", 3, true},
		{"", 0, false},
		{"abc", 0, false},
		{true, 0, false},
		{1e20, 0, false},
		{-1e20, 0, false},
		{float64(math.MaxInt32), math.MaxInt32, true},
		{float64(math.MaxInt32) + 1, 0, false},
		{int64(math.MaxInt32) + 1, 0, false},
		{json.Number("1e20"), 0, false},
		{json.Number("99999999999"), 0, false},
		{"1e20", 0, false},
		{"99999999999", 0, false},
	}

	for _, tt := range tests {
		got, ok := ExtractInt(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ExtractInt(%#v) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}
