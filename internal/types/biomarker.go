package types

import (
	"time"

	"gorm.io/datatypes"
)

// Biomarker is a named molecular marker used to select patients or therapies.
// The gene mapping used by the engine lives in genemap; the row here carries
// display metadata and search configuration for ingestion.
type Biomarker struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"column:name;size:100;uniqueIndex;not null" json:"name"`
	Aliases     datatypes.JSON `gorm:"column:aliases" json:"aliases"`
	Category    string         `gorm:"column:category;size:50;not null" json:"category"`
	Description string         `gorm:"column:description" json:"description"`
	GeneSymbol  string         `gorm:"column:gene_symbol;size:50" json:"gene_symbol"`
	EnsemblID   string         `gorm:"column:ensembl_id;size:50" json:"ensembl_id"`
	UniprotID   string         `gorm:"column:uniprot_id;size:20" json:"uniprot_id"`
	SearchTerms datatypes.JSON `gorm:"column:search_terms" json:"search_terms"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Biomarker) TableName() string { return "biomarkers" }
