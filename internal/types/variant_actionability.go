package types

import (
	"time"

	"gorm.io/datatypes"
)

// VariantActionability is one clinical-actionability row from the
// variant-actionability source (level, associated drugs, citations).
// Conflict-ignore upsert on gene+variant+cancer type.
type VariantActionability struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Gene           string         `gorm:"column:gene;size:50;not null;index;uniqueIndex:uq_action_gene_var_cancer" json:"gene"`
	VariantName    string         `gorm:"column:variant_name;size:100;not null;index;uniqueIndex:uq_action_gene_var_cancer" json:"variant_name"`
	CancerType     string         `gorm:"column:cancer_type;size:200;not null;uniqueIndex:uq_action_gene_var_cancer" json:"cancer_type"`
	IndicationName string         `gorm:"column:indication_name;size:100;index" json:"indication_name"`
	Level          string         `gorm:"column:level;size:20;not null" json:"level"`
	Drugs          datatypes.JSON `gorm:"column:drugs" json:"drugs"`
	Description    string         `gorm:"column:description" json:"description"`
	Citations      datatypes.JSON `gorm:"column:citations" json:"citations"`
	SourceURL      string         `gorm:"column:source_url" json:"source_url"`
	FetchedAt      time.Time      `gorm:"autoCreateTime" json:"fetched_at"`
}

func (VariantActionability) TableName() string { return "variant_actionability" }
