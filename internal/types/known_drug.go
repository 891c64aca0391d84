package types

import "time"

// KnownDrug is one drug x target x disease row from the drug-approval and
// druggability sources. The same drug name can appear under several disease
// contexts; read-side dedup keeps only the highest-phase row per name.
// Replaced wholesale on each enrichment run.
type KnownDrug struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BiomarkerSymbol   string    `gorm:"column:biomarker_symbol;size:50;not null;index" json:"biomarker_symbol"`
	EnsemblID         string    `gorm:"column:ensembl_id;size:50;not null;uniqueIndex:uq_drug_target_disease_ind" json:"ensembl_id"`
	DrugName          string    `gorm:"column:drug_name;size:300;not null" json:"drug_name"`
	DrugChemblID      string    `gorm:"column:drug_chembl_id;size:50;uniqueIndex:uq_drug_target_disease_ind" json:"drug_chembl_id"`
	DrugType          string    `gorm:"column:drug_type;size:100" json:"drug_type"`
	MaxPhase          *float64  `gorm:"column:max_phase" json:"max_phase,omitempty"`
	IsApproved        bool      `gorm:"column:is_approved;default:false" json:"is_approved"`
	YearApproved      *int      `gorm:"column:year_approved" json:"year_approved,omitempty"`
	MechanismOfAction string    `gorm:"column:mechanism_of_action" json:"mechanism_of_action"`
	DiseaseName       string    `gorm:"column:disease_name;size:300" json:"disease_name"`
	DiseaseEFOID      string    `gorm:"column:disease_efo_id;size:50;uniqueIndex:uq_drug_target_disease_ind" json:"disease_efo_id"`
	IndicationName    string    `gorm:"column:indication_name;size:100;not null;index;uniqueIndex:uq_drug_target_disease_ind" json:"indication_name"`
	TargetVariant     string    `gorm:"column:target_variant;size:100" json:"target_variant"`
	FetchedAt         time.Time `gorm:"autoCreateTime" json:"fetched_at"`
}

func (KnownDrug) TableName() string { return "known_drugs" }
