package types

import "time"

// BiomarkerEvidence is one clinical/cancer-biomarker evidence row. Confidence
// is stored as the source's free text; ordering over it is imposed only at
// read time by the evidence ranker. Replaced wholesale on each run.
type BiomarkerEvidence struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BiomarkerSymbol   string    `gorm:"column:biomarker_symbol;size:50;not null;index" json:"biomarker_symbol"`
	EnsemblID         string    `gorm:"column:ensembl_id;size:50;not null" json:"ensembl_id"`
	DrugName          string    `gorm:"column:drug_name;size:300" json:"drug_name"`
	Confidence        string    `gorm:"column:confidence;size:100" json:"confidence"`
	DiseaseFromSource string    `gorm:"column:disease_from_source;size:300" json:"disease_from_source"`
	IndicationName    string    `gorm:"column:indication_name;size:100;not null;index" json:"indication_name"`
	EFOID             string    `gorm:"column:efo_id;size:50" json:"efo_id"`
	FetchedAt         time.Time `gorm:"autoCreateTime" json:"fetched_at"`
}

func (BiomarkerEvidence) TableName() string { return "biomarker_evidence" }
