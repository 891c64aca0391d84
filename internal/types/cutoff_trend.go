package types

import "time"

// CutoffTrend is a derived per-year cutoff aggregate recomputed from
// trial biomarker rows by the aggregation job (delete-all then reinsert).
type CutoffTrend struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BiomarkerName string    `gorm:"column:biomarker_name;size:100;not null;uniqueIndex:uq_cutoff_trend" json:"biomarker_name"`
	TumorType     string    `gorm:"column:tumor_type;size:100;not null;uniqueIndex:uq_cutoff_trend" json:"tumor_type"`
	Year          int       `gorm:"column:year;not null;uniqueIndex:uq_cutoff_trend" json:"year"`
	CutoffValue   float64   `gorm:"column:cutoff_value" json:"cutoff_value"`
	CutoffUnit    string    `gorm:"column:cutoff_unit;size:100;uniqueIndex:uq_cutoff_trend" json:"cutoff_unit"`
	TrialCount    int       `gorm:"column:trial_count;default:0" json:"trial_count"`
	DominantAssay string    `gorm:"column:dominant_assay;size:200" json:"dominant_assay"`
	ComputedAt    time.Time `gorm:"autoCreateTime" json:"computed_at"`
}

func (CutoffTrend) TableName() string { return "cutoff_trends" }
