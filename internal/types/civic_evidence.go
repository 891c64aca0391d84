package types

import (
	"time"

	"gorm.io/datatypes"
)

// CivicEvidence is one variant-evidence row from the community variant
// database. CivicID is the source's stable id and the upsert key.
type CivicEvidence struct {
	ID                int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CivicID           int64          `gorm:"column:civic_id;uniqueIndex;not null" json:"civic_id"`
	GeneName          string         `gorm:"column:gene_name;size:100;index" json:"gene_name"`
	VariantName       string         `gorm:"column:variant_name;size:200;index" json:"variant_name"`
	DiseaseName       string         `gorm:"column:disease_name;size:200" json:"disease_name"`
	EvidenceType      string         `gorm:"column:evidence_type;size:50" json:"evidence_type"`
	EvidenceLevel     string         `gorm:"column:evidence_level;size:10" json:"evidence_level"`
	EvidenceDirection string         `gorm:"column:evidence_direction;size:50" json:"evidence_direction"`
	Significance      string         `gorm:"column:significance;size:100" json:"significance"`
	Drugs             datatypes.JSON `gorm:"column:drugs" json:"drugs"`
	SourcePMID        string         `gorm:"column:source_pmid;size:20" json:"source_pmid"`
	FetchedAt         time.Time      `gorm:"autoCreateTime" json:"fetched_at"`
}

func (CivicEvidence) TableName() string { return "civic_evidence" }
