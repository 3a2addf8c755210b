package models

import "testing"

func strPtr(s string) *string { return &s }

func TestTechnologyLinks(t *testing.T) {
	tests := []struct {
		name string
		tech Technology
		want []Link
	}{
		{
			name: "no links",
			tech: Technology{},
			want: nil,
		},
		{
			name: "single link with title",
			tech: Technology{Link1: strPtr("https://example.com"), Link1Title: strPtr("Docs")},
			want: []Link{{URL: "https://example.com", Title: "Docs"}},
		},
		{
			name: "title falls back to url",
			tech: Technology{Link1: strPtr("https://example.com")},
			want: []Link{{URL: "https://example.com", Title: "https://example.com"}},
		},
		{
			name: "empty slot skipped",
			tech: Technology{
				Link1: strPtr(""),
				Link2: strPtr("https://b.example"), Link2Title: strPtr("B"),
				Link3: strPtr("https://c.example"), Link3Title: strPtr(""),
			},
			want: []Link{
				{URL: "https://b.example", Title: "B"},
				{URL: "https://c.example", Title: "https://c.example"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tech.Links()
			if len(got) != len(tt.want) {
				t.Fatalf("got %d links, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("link %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
