package types

import "time"

// DataProvenance records where an entity row came from. Append-only: rows are
// added per enrichment run and never mutated.
type DataProvenance struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityType string    `gorm:"column:entity_type;size:50;not null;index:ix_provenance_entity" json:"entity_type"`
	EntityID   int64     `gorm:"column:entity_id;not null;index:ix_provenance_entity" json:"entity_id"`
	SourceName string    `gorm:"column:source_name;size:100;not null" json:"source_name"`
	SourceID   string    `gorm:"column:source_id;size:200" json:"source_id"`
	SourceURL  string    `gorm:"column:source_url" json:"source_url"`
	AccessDate time.Time `gorm:"column:access_date;not null" json:"access_date"`
	VersionTag string    `gorm:"column:version_tag;size:50" json:"version_tag"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DataProvenance) TableName() string { return "data_provenance" }
