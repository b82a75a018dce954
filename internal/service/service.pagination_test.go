package service

import (
	"math"
	"testing"
)

func TestLenientPagination(t *testing.T) {
	p := NewLenientPagination(60, 1000)

	pages := map[string]int{"": 1, "abc": 1, "0": 1, "-2": 1, "1.5": 1, "3": 3, " 7 ": 7}
	for raw, want := range pages {
		if got := p.Page(raw); got != want {
			t.Errorf("Page(%q) = %d, want %d", raw, got, want)
		}
	}

	limits := map[string]int{"": 60, "x": 60, "0": 60, "-1": 60, "25": 25, "1000": 1000, "5000": 1000}
	for raw, want := range limits {
		if got := p.Limit(raw); got != want {
			t.Errorf("Limit(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestNewLenientPaginationKeepsDefaultWithinMax(t *testing.T) {
	p := NewLenientPagination(500, 100)
	if p.DefaultLimit != 100 {
		t.Fatalf("expected default clamped to 100, got %d", p.DefaultLimit)
	}
	if NewLenientPagination(0, 0).DefaultLimit != DefaultPageLimit {
		t.Fatalf("expected fallback default")
	}
}

func TestPageMath(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{5, 2, 3},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.limit); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
	if Offset(1, 60) != 0 || Offset(3, 25) != 50 {
		t.Fatalf("offset mismatch")
	}
}

func TestOffsetSaturates(t *testing.T) {
	cases := []struct {
		page, limit int
		want        int
	}{
		{math.MaxInt/2 + 1, 4, math.MaxInt},
		{math.MaxInt, 1000, math.MaxInt},
		{math.MaxInt, 1, math.MaxInt - 1},
		{0, 10, 0},
	}
	for _, tc := range cases {
		if got := Offset(tc.page, tc.limit); got != tc.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", tc.page, tc.limit, got, tc.want)
		}
	}
}
