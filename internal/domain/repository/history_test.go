package repository

import (
	"testing"
	"time"
)

func TestNormalizeHorizon(t *testing.T) {
	cases := []struct {
		in   string
		want Horizon
	}{
		{"", HorizonMedium},
		{"short", HorizonShort},
		{"medium", HorizonMedium},
		{"long", HorizonLong},
		{"weekly", HorizonMedium},
		{"SHORT", HorizonMedium},
	}
	for _, c := range cases {
		if got := NormalizeHorizon(c.in); got != c.want {
			t.Fatalf("NormalizeHorizon(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHorizonLookback(t *testing.T) {
	if got := HorizonShort.Lookback(); got != 7*24*time.Hour {
		t.Fatalf("short lookback = %v", got)
	}
	if got := HorizonMedium.Lookback(); got != 90*24*time.Hour {
		t.Fatalf("medium lookback = %v", got)
	}
	if got := HorizonLong.Lookback(); got != 365*24*time.Hour {
		t.Fatalf("long lookback = %v", got)
	}
	// Unknown horizons fall back to the medium window.
	if got := Horizon("x").Lookback(); got != 90*24*time.Hour {
		t.Fatalf("unknown lookback = %v", got)
	}
}

func TestIsValidHorizon(t *testing.T) {
	for _, h := range []Horizon{HorizonShort, HorizonMedium, HorizonLong} {
		if !IsValidHorizon(h) {
			t.Fatalf("%q should be valid", h)
		}
	}
	if IsValidHorizon(Horizon("daily")) {
		t.Fatalf("daily should be invalid")
	}
}
