package types

import "time"

// GWASAssociation is one germline association from the GWAS catalog,
// unique per rsID+trait.
type GWASAssociation struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RsID        string    `gorm:"column:rs_id;size:30;not null;uniqueIndex:uq_gwas_rs_trait" json:"rs_id"`
	Gene        string    `gorm:"column:gene;size:100;index" json:"gene"`
	TraitName   string    `gorm:"column:trait_name;size:300;uniqueIndex:uq_gwas_rs_trait" json:"trait_name"`
	PValue      float64   `gorm:"column:p_value" json:"p_value"`
	OddsRatio   *float64  `gorm:"column:odds_ratio" json:"odds_ratio,omitempty"`
	RiskAllele  string    `gorm:"column:risk_allele;size:50" json:"risk_allele"`
	Population  string    `gorm:"column:population;size:100" json:"population"`
	PubmedID    string    `gorm:"column:pubmed_id;size:20" json:"pubmed_id"`
	StudyTitle  string    `gorm:"column:study_title" json:"study_title"`
	FetchedAt   time.Time `gorm:"autoCreateTime" json:"fetched_at"`
}

func (GWASAssociation) TableName() string { return "gwas_associations" }
