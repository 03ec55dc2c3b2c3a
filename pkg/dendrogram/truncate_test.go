package dendrogram

import "testing"

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		max      int
		ellipsis string
		want     string
	}{
		{"short", "Ajax", 12, "…", "Ajax"},
		{"exact", "Feyenoord", 9, "…", "Feyenoord"},
		{"long", "Manchester United", 10, "…", "Manchester…"},
		{"trailing space trimmed", "Real Madrid", 5, "…", "Real…"},
		{"custom ellipsis", "Internazionale", 5, "...", "Inter..."},
		{"no ellipsis", "Internazionale", 5, "", "Inter"},
		{"disabled", "Borussia Mönchengladbach", 0, "…", "Borussia Mönchengladbach"},
		{"accented precomposed", "Atlético", 8, "…", "Atlético"},
		{"accented combining", "Atlético", 8, "…", "Atlético"},
		{"flag kept whole", "🇧🇷 Brasil", 1, "…", "🇧🇷…"},
		{"empty", "", 3, "…", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateLabel(tt.in, tt.max, tt.ellipsis); got != tt.want {
				t.Errorf("TruncateLabel(%q, %d, %q) = %q, want %q", tt.in, tt.max, tt.ellipsis, got, tt.want)
			}
		})
	}
}
