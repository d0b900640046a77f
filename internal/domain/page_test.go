package domain

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       Page
		total      int
		totalPages int
		next, prev bool
	}{
		{"three items limit two", Page{Page: 1, Limit: 2}, 3, 2, true, false},
		{"last page", Page{Page: 2, Limit: 2}, 3, 2, false, true},
		{"exact fit", Page{Page: 1, Limit: 5}, 5, 1, false, false},
		{"empty", Page{Page: 1, Limit: 10}, 0, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.total)
			if p.TotalPages != tt.totalPages || p.HasNextPage != tt.next || p.HasPrevPage != tt.prev {
				t.Errorf("got %+v", p)
			}
		})
	}
}

func TestPageNormalize(t *testing.T) {
	p := Page{Page: 0, Limit: 1000}.Normalize()
	if p.Page != 1 || p.Limit != MaxPageLimit {
		t.Fatalf("Normalize = %+v", p)
	}
	if off := (Page{Page: 3, Limit: 10}).Offset(); off != 20 {
		t.Fatalf("Offset = %d", off)
	}
	if d := (Page{}).Normalize(); d.Limit != DefaultPageLimit {
		t.Fatalf("default limit = %d", d.Limit)
	}
}
