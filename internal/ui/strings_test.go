package ui

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"  pizza  ", 10, "pizza"},
		{"margherita", 0, "margherita"},
		{"margherita", 3, "mar"},
		{"margherita", 7, "marg..."},
		{"crème brûlée", 8, "crème..."},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "-"},
		{-3, "-"},
		{45, "45m"},
		{60, "1h"},
		{75, "1h 15m"},
	}
	for _, tc := range cases {
		if got := formatMinutes(tc.in); got != tc.want {
			t.Fatalf("formatMinutes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatServings(t *testing.T) {
	one, four, zero := 1, 4, 0
	if got := formatServings(nil); got != "-" {
		t.Fatalf("formatServings(nil) = %q, want -", got)
	}
	if got := formatServings(&zero); got != "-" {
		t.Fatalf("formatServings(0) = %q, want -", got)
	}
	if got := formatServings(&one); got != "1 serving" {
		t.Fatalf("formatServings(1) = %q, want 1 serving", got)
	}
	if got := formatServings(&four); got != "4 servings" {
		t.Fatalf("formatServings(4) = %q, want 4 servings", got)
	}
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2025, 11, 13, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"fresh", now.Add(-2 * time.Second), "just now"},
		{"seconds", now.Add(-30 * time.Second), "30s ago"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatAge(tc.at, now); got != tc.want {
				t.Fatalf("formatAge = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q, want %q", got, "ab  ")
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("padRight long = %q, want unchanged", got)
	}
}
