package types

import "time"

// TargetAssociation is one gene x indication druggability row from the
// target-druggability source. A multi-gene biomarker contributes one row per
// sub-gene; the services layer combines them (max scores, OR flags, summed
// counts). The whole table is replaced on every enrichment run.
type TargetAssociation struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BiomarkerSymbol string    `gorm:"column:biomarker_symbol;size:50;not null;index" json:"biomarker_symbol"`
	EnsemblID       string    `gorm:"column:ensembl_id;size:50;not null;uniqueIndex:uq_assoc_target_disease" json:"ensembl_id"`
	IndicationName  string    `gorm:"column:indication_name;size:100;not null;index" json:"indication_name"`
	EFOID           string    `gorm:"column:efo_id;size:50;not null;uniqueIndex:uq_assoc_target_disease" json:"efo_id"`
	OverallScore    float64   `gorm:"column:overall_score;not null" json:"overall_score"`
	DrugScore       float64   `gorm:"column:drug_score;default:0" json:"drug_score"`
	CancerBiomarkerScore   float64 `gorm:"column:cancer_biomarker_score;default:0" json:"cancer_biomarker_score"`
	CancerGeneCensusScore  float64 `gorm:"column:cancer_gene_census_score;default:0" json:"cancer_gene_census_score"`
	IntogenScore    float64   `gorm:"column:intogen_score;default:0" json:"intogen_score"`
	LiteratureScore float64   `gorm:"column:literature_score;default:0" json:"literature_score"`
	SMTractable     bool      `gorm:"column:sm_tractable;default:false" json:"sm_tractable"`
	SMHasApprovedDrug bool    `gorm:"column:sm_has_approved_drug;default:false" json:"sm_has_approved_drug"`
	ABTractable     bool      `gorm:"column:ab_tractable;default:false" json:"ab_tractable"`
	ABHasApprovedDrug bool    `gorm:"column:ab_has_approved_drug;default:false" json:"ab_has_approved_drug"`
	PROTACTractable bool      `gorm:"column:protac_tractable;default:false" json:"protac_tractable"`
	UniqueDrugs     int       `gorm:"column:unique_drugs;default:0" json:"unique_drugs"`
	ApprovedDrugCount int     `gorm:"column:approved_drug_count;default:0" json:"approved_drug_count"`
	FetchedAt       time.Time `gorm:"autoCreateTime" json:"fetched_at"`
}

func (TargetAssociation) TableName() string { return "target_associations" }
