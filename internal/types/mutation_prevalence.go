package types

import (
	"time"

	"gorm.io/datatypes"
)

// MutationPrevalence is one gene-variant frequency observation from the
// mutation-prevalence source. Frequency must equal SampleCount/TotalProfiled
// within rounding. Upserted with conflict-ignore on the natural key so
// re-running the same batch never duplicates rows.
type MutationPrevalence struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Gene           string         `gorm:"column:gene;size:50;not null;index;uniqueIndex:uq_prev_gene_var_cancer_ds" json:"gene"`
	VariantName    string         `gorm:"column:variant_name;size:100;not null;index;uniqueIndex:uq_prev_gene_var_cancer_ds" json:"variant_name"`
	HGVSp          string         `gorm:"column:hgvs_p;size:200" json:"hgvs_p"`
	CancerType     string         `gorm:"column:cancer_type;size:200;not null;uniqueIndex:uq_prev_gene_var_cancer_ds" json:"cancer_type"`
	IndicationName string         `gorm:"column:indication_name;size:100;index" json:"indication_name"`
	SampleCount    int            `gorm:"column:sample_count;not null" json:"sample_count"`
	TotalProfiled  int            `gorm:"column:total_profiled;not null" json:"total_profiled"`
	Frequency      float64        `gorm:"column:frequency;not null" json:"frequency"`
	Dataset        string         `gorm:"column:dataset;size:100;not null;uniqueIndex:uq_prev_gene_var_cancer_ds" json:"dataset"`
	CoMutations    datatypes.JSON `gorm:"column:co_mutations" json:"co_mutations"`
	SourceURL      string         `gorm:"column:source_url" json:"source_url"`
	FetchedAt      time.Time      `gorm:"autoCreateTime" json:"fetched_at"`
}

func (MutationPrevalence) TableName() string { return "mutation_prevalence" }
