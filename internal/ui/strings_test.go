package ui

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"fits", "Heat", 10, "Heat"},
		{"trims", "  Heat  ", 10, "Heat"},
		{"ellipsis", "The Godfather", 8, "The G..."},
		{"tiny_limit", "Alien", 2, "Al"},
		{"no_limit", "Alien", 0, "Alien"},
		{"runes", "Amélie Poulain", 7, "Amél..."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncate(tc.in, tc.limit); got != tc.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
			}
		})
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=5 = %q, want ab", got)
	}
	got := truncateMiddle("http://localhost:8000/api", 12)
	if got == "http://localhost:8000/api" {
		t.Fatalf("expected truncation")
	}
	if len([]rune(got)) > 12 {
		t.Fatalf("got %q (%d runes), want <=12", got, len([]rune(got)))
	}
}

func TestStarBar(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "☆☆☆☆☆"},
		{3, "★★★☆☆"},
		{3.5, "★★★½☆"},
		{3.3, "★★★½☆"},
		{5, "★★★★★"},
		{7, "★★★★★"},
		{-1, "☆☆☆☆☆"},
	}
	for _, tc := range cases {
		if got := starBar(tc.in); got != tc.want {
			t.Fatalf("starBar(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatRating(t *testing.T) {
	if got := formatRating(4); got != "4" {
		t.Fatalf("formatRating(4) = %q, want 4", got)
	}
	if got := formatRating(4.5); got != "4.5" {
		t.Fatalf("formatRating(4.5) = %q, want 4.5", got)
	}
}

func TestJoinNonEmpty(t *testing.T) {
	if got := joinNonEmpty(", ", " a ", "", "\t", "b"); got != "a, b" {
		t.Fatalf("joinNonEmpty = %q, want %q", got, "a, b")
	}
}
