package types

import "time"

// FDAApproval is one biomarker-linked approval from the drug-approval
// registry, optionally carrying its companion diagnostic. Conflict-ignore
// upsert on application+supplement+variant.
type FDAApproval struct {
	ID                int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	DrugName          string     `gorm:"column:drug_name;size:300;not null" json:"drug_name"`
	GenericName       string     `gorm:"column:generic_name;size:300" json:"generic_name"`
	ApplicationNumber string     `gorm:"column:application_number;size:50;not null;index;uniqueIndex:uq_fda_app_supp_variant" json:"application_number"`
	ApprovalDate      *time.Time `gorm:"column:approval_date" json:"approval_date,omitempty"`
	SupplementNumber  string     `gorm:"column:supplement_number;size:20;uniqueIndex:uq_fda_app_supp_variant" json:"supplement_number"`
	BiomarkerGene     string     `gorm:"column:biomarker_gene;size:50;index" json:"biomarker_gene"`
	BiomarkerVariant  string     `gorm:"column:biomarker_variant;size:100;uniqueIndex:uq_fda_app_supp_variant" json:"biomarker_variant"`
	IndicationText    string     `gorm:"column:indication_text" json:"indication_text"`
	IndicationName    string     `gorm:"column:indication_name;size:100;index" json:"indication_name"`
	CompanionDxName   string     `gorm:"column:companion_dx_name;size:300" json:"companion_dx_name"`
	CompanionDxPMA    string     `gorm:"column:companion_dx_pma;size:50" json:"companion_dx_pma"`
	SourceURL         string     `gorm:"column:source_url" json:"source_url"`
	FetchedAt         time.Time  `gorm:"autoCreateTime" json:"fetched_at"`
}

func (FDAApproval) TableName() string { return "fda_approvals" }
