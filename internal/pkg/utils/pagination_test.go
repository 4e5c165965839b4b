package utils

import (
	"mime"
	"net/http/httptest"
	"testing"
)

func TestParsePaginationParams(t *testing.T) {
	tests := []struct {
		query        string
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"", 1, DefaultPageSize, 0},
		{"?page=3&page_size=10", 3, 10, 20},
		{"?page=-1&page_size=1000", 1, MaxPageSize, 0},
		{"?page=abc", 1, DefaultPageSize, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/audits"+tt.query, nil)
			p := ParsePaginationParams(r)
			if p.Page != tt.wantPage || p.PageSize != tt.wantPageSize || p.Offset != tt.wantOffset {
				t.Errorf("got %+v, want page=%d size=%d offset=%d", p, tt.wantPage, tt.wantPageSize, tt.wantOffset)
			}
		})
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]int{1, 2}, 1, 20, 41)
	if resp.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", resp.TotalPages)
	}
}

func TestWriteAttachment(t *testing.T) {
	w := httptest.NewRecorder()
	if err := WriteAttachment(w, XLSXContentType, "CIS_Checklist_debian-12_1.0.0.xlsx", []byte("PK")); err != nil {
		t.Fatal(err)
	}
	if got := w.Header().Get("Content-Type"); got != XLSXContentType {
		t.Errorf("Content-Type = %s", got)
	}

	tests := []string{
		"CIS_Checklist_debian-12_1.0.0.xlsx",
		"CIS_Audit_web 01_20240101.xlsx",
		"CIS_Audit_serveur-é_20240101.xlsx",
	}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			if err := WriteAttachment(w, XLSXContentType, name, []byte("PK")); err != nil {
				t.Fatal(err)
			}
			disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
			if err != nil {
				t.Fatal(err)
			}
			if disposition != "attachment" || params["filename"] != name {
				t.Errorf("got %s %v, want filename %q", disposition, params, name)
			}
			if w.Header().Get("Content-Length") != "2" {
				t.Errorf("Content-Length = %s", w.Header().Get("Content-Length"))
			}
		})
	}
}
