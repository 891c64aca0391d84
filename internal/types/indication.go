package types

import (
	"time"

	"gorm.io/datatypes"
)

// Indication is a cancer type. EFOID is required to join against the
// druggability tables; an indication without one simply yields empty
// druggability data.
type Indication struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"column:name;size:100;uniqueIndex;not null" json:"name"`
	DisplayName string         `gorm:"column:display_name;size:200;not null" json:"display_name"`
	CTGovTerms  datatypes.JSON `gorm:"column:ct_gov_terms" json:"ct_gov_terms"`
	EFOID       string         `gorm:"column:efo_id;size:50" json:"efo_id"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Indication) TableName() string { return "indications" }
