package services

import (
	"strings"
	"testing"
)

func TestBuildMatrixRows_SortsByTotalAcrossIndications(t *testing.T) {
	indications := []string{"NSCLC", "Breast Cancer"}
	trials := map[cellKey]trialCell{
		{"EGFR", "NSCLC"}:          {total: 40, recruiting: 10, phase3: 5},
		{"EGFR", "Breast Cancer"}:  {total: 3},
		{"PD-L1", "NSCLC"}:         {total: 90, recruiting: 30, phase3: 12},
		{"NTRK", "Breast Cancer"}:  {total: 2, recruiting: 1},
	}
	scores := map[cellKey]scoreCell{
		{"EGFR", "NSCLC"}: {otScore: 0.8, hasApprovedDrug: true, drugCount: 12},
	}
	cdx := map[string]bool{"PD-L1": true}

	rows := buildMatrixRows([]string{"EGFR", "NTRK", "PD-L1"}, indications, trials, scores, cdx)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Biomarker != "PD-L1" || rows[1].Biomarker != "EGFR" || rows[2].Biomarker != "NTRK" {
		t.Fatalf("unexpected row order: %s, %s, %s", rows[0].Biomarker, rows[1].Biomarker, rows[2].Biomarker)
	}
	if rows[0].TotalAcrossIndications != 90 || rows[1].TotalAcrossIndications != 43 {
		t.Fatalf("unexpected totals: %d, %d", rows[0].TotalAcrossIndications, rows[1].TotalAcrossIndications)
	}

	// Every row carries one cell per indication, absent data as zeros.
	for _, row := range rows {
		if len(row.Cells) != len(indications) {
			t.Fatalf("%s: expected %d cells, got %d", row.Biomarker, len(indications), len(row.Cells))
		}
	}
	egfrBreast := rows[1].Cells[1]
	if egfrBreast.TotalTrials != 3 || egfrBreast.OTScore != 0 || egfrBreast.HasApprovedDrug {
		t.Fatalf("expected zero enrichment for EGFR/Breast, got %+v", egfrBreast)
	}
	if !rows[0].Cells[0].HasFDACDx || rows[1].Cells[0].HasFDACDx {
		t.Fatalf("CDx flag mapped to wrong biomarker")
	}
}

func TestFindOpportunities_ThresholdsAreStrict(t *testing.T) {
	row := func(bm string, total int, score float64) MatrixRow {
		return MatrixRow{
			Biomarker: bm,
			Cells:     []MatrixCell{{Indication: "NSCLC", TotalTrials: total, OTScore: score}},
		}
	}

	tests := []struct {
		name   string
		matrix []MatrixRow
		want   int
	}{
		{"qualifying cell", []MatrixRow{row("A", 14, 0.31)}, 1},
		{"trials at limit", []MatrixRow{row("A", 15, 0.9)}, 0},
		{"score at limit", []MatrixRow{row("A", 14, 0.3)}, 0},
		{"zero trials", []MatrixRow{row("A", 0, 0.9)}, 0},
		{"one trial high score", []MatrixRow{row("A", 1, 0.95)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findOpportunities(tt.matrix)
			if len(got) != tt.want {
				t.Fatalf("expected %d opportunities, got %d", tt.want, len(got))
			}
		})
	}
}

func TestFindOpportunities_SortedByScoreAndCapped(t *testing.T) {
	matrix := []MatrixRow{}
	for i := 0; i < 20; i++ {
		matrix = append(matrix, MatrixRow{
			Biomarker: "BM",
			Cells: []MatrixCell{{
				Indication:  "NSCLC",
				TotalTrials: 5,
				OTScore:     0.31 + float64(i)*0.01,
			}},
		})
	}

	out := findOpportunities(matrix)
	if len(out) != 15 {
		t.Fatalf("expected cap at 15, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].OTScore < out[i].OTScore {
			t.Fatalf("not sorted by score at %d: %v < %v", i, out[i-1].OTScore, out[i].OTScore)
		}
	}
}

func TestFindOpportunities_RationaleNamesScoreAndTrials(t *testing.T) {
	matrix := []MatrixRow{{
		Biomarker: "RET",
		Cells:     []MatrixCell{{Indication: "Breast Cancer", TotalTrials: 4, OTScore: 0.52}},
	}}
	out := findOpportunities(matrix)
	if len(out) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(out))
	}
	if !strings.Contains(out[0].Rationale, "0.52") || !strings.Contains(out[0].Rationale, "4 trials") {
		t.Fatalf("unexpected rationale: %q", out[0].Rationale)
	}
}
