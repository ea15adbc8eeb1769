package coerce

import (
	"reflect"
	"testing"
)

func TestSafeNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float passthrough", 85.5, 85.5},
		{"int passthrough", 42, 42},
		{"plain string", "73", 73},
		{"decimal string", "12.5", 12.5},
		{"currency string", "$1,234.56", 1234.56},
		{"percent string", "85%", 85},
		{"negative string", "-5.25", -5.25},
		{"score suffix", "72/100", 72100}, // digits survive, separator does not
		{"not a number", "N/A", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"double dot keeps prefix", "12.5.3", 12.5},
		{"embedded minus keeps prefix", "1-2", 1},
		{"lone minus", "-", 0},
		{"map", map[string]any{"a": 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeNumber(tt.in); got != tt.want {
				t.Errorf("SafeNumber(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeArray(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"all strings", []any{"a", "b"}, []string{"a", "b"}},
		{"mixed drops non-strings", []any{"a", 1, nil, "b", true, map[string]any{}}, []string{"a", "b"}},
		{"typed strings copied", []string{"x"}, []string{"x"}},
		{"not a sequence", "a,b", []string{}},
		{"nil", nil, []string{}},
		{"number", 5.0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeArray(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SafeArray(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeArrayPreservesOrder(t *testing.T) {
	in := []any{"first", 2, "second", "third"}
	got := SafeArray(in)
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SafeArray order = %v, want %v", got, want)
	}
}
