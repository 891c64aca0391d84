package types

import (
	"time"

	"gorm.io/datatypes"
)

// Assay is a diagnostic test. BiomarkerNames and CompanionDxFor are JSON
// string arrays; membership checks happen in the services layer.
type Assay struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string         `gorm:"column:name;size:200;uniqueIndex;not null" json:"name"`
	Manufacturer   string         `gorm:"column:manufacturer;size:200" json:"manufacturer"`
	Platform       string         `gorm:"column:platform;size:100" json:"platform"`
	FDAApproved    bool           `gorm:"column:fda_approved;default:false" json:"fda_approved"`
	CompanionDxFor datatypes.JSON `gorm:"column:companion_dx_for" json:"companion_dx_for"`
	BiomarkerNames datatypes.JSON `gorm:"column:biomarker_names" json:"biomarker_names"`
	Source         string         `gorm:"column:source;size:50" json:"source"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (Assay) TableName() string { return "assays" }
