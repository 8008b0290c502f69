package pagination

import (
	"net/url"
	"testing"
)

func TestFromQueryDefaults(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		page     int
		pageSize int
	}{
		{"empty", "", 1, 10},
		{"explicit", "page=3&pageSize=25", 3, 25},
		{"non-numeric", "page=abc&pageSize=xyz", 1, 10},
		{"zero", "page=0&pageSize=0", 1, 10},
		{"negative", "page=-2&pageSize=-5", 1, 10},
		{"capped", "page=1&pageSize=500", 1, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tc.query)
			p := FromQuery(values)
			if p.Page != tc.page || p.PageSize != tc.pageSize {
				t.Fatalf("got page=%d size=%d, want page=%d size=%d", p.Page, p.PageSize, tc.page, tc.pageSize)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{5, 0, 0},
	}

	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.size); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, PageSize: 10}
	if p.Offset() != 20 {
		t.Fatalf("expected offset 20, got %d", p.Offset())
	}
}

func TestSliceClamped(t *testing.T) {
	p := Params{Page: 2, PageSize: 10}
	start, end := p.Slice(15)
	if start != 10 || end != 15 {
		t.Fatalf("expected [10,15), got [%d,%d)", start, end)
	}

	start, end = p.Slice(5)
	if start != 5 || end != 5 {
		t.Fatalf("expected empty page [5,5), got [%d,%d)", start, end)
	}
}
