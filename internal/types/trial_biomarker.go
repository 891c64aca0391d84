package types

import "time"

// TrialBiomarker is one biomarker mention extracted from a trial's
// eligibility criteria, with any cutoff, assay, and variant detail the
// extractor recovered. CutoffValue stays a raw string; enrichment text is
// frequently non-numeric and the aggregation jobs parse it defensively.
type TrialBiomarker struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TrialID            int64     `gorm:"column:trial_id;not null;index;uniqueIndex:uq_trial_biomarker_cutoff" json:"trial_id"`
	BiomarkerID        int64     `gorm:"column:biomarker_id;not null;index;uniqueIndex:uq_trial_biomarker_cutoff" json:"biomarker_id"`
	BiomarkerName      string    `gorm:"column:biomarker_name;size:100;not null;index" json:"biomarker_name"`
	CutoffValue        string    `gorm:"column:cutoff_value;size:100;uniqueIndex:uq_trial_biomarker_cutoff" json:"cutoff_value"`
	CutoffUnit         string    `gorm:"column:cutoff_unit;size:100;uniqueIndex:uq_trial_biomarker_cutoff" json:"cutoff_unit"`
	CutoffOperator     string    `gorm:"column:cutoff_operator;size:20" json:"cutoff_operator"`
	AssayName          string    `gorm:"column:assay_name;size:200;index" json:"assay_name"`
	AssayManufacturer  string    `gorm:"column:assay_manufacturer;size:200" json:"assay_manufacturer"`
	BiomarkerRole      string    `gorm:"column:biomarker_role;size:50;index" json:"biomarker_role"`
	TumorType          string    `gorm:"column:tumor_type;size:100;index" json:"tumor_type"`
	TherapeuticSetting string    `gorm:"column:therapeutic_setting;size:50;index" json:"therapeutic_setting"`
	VariantName        string    `gorm:"column:variant_name;size:100;index" json:"variant_name"`
	ExtractionSource   string    `gorm:"column:extraction_source;size:50" json:"extraction_source"`
	ExtractedAt        time.Time `gorm:"autoCreateTime" json:"extracted_at"`
}

func (TrialBiomarker) TableName() string { return "trial_biomarkers" }
