package types

import (
	"time"

	"gorm.io/datatypes"
)

// PubMedArticle is one literature-index record with the biomarker and
// indication mentions the enrichment pass tagged onto it.
type PubMedArticle struct {
	ID                 int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	PMID               string         `gorm:"column:pmid;size:20;uniqueIndex;not null" json:"pmid"`
	Title              string         `gorm:"column:title;not null" json:"title"`
	Abstract           string         `gorm:"column:abstract" json:"abstract"`
	Authors            datatypes.JSON `gorm:"column:authors" json:"authors"`
	Journal            string         `gorm:"column:journal;size:300" json:"journal"`
	PubDate            *time.Time     `gorm:"column:pub_date" json:"pub_date,omitempty"`
	DOI                string         `gorm:"column:doi;size:200" json:"doi"`
	BiomarkerMentions  datatypes.JSON `gorm:"column:biomarker_mentions" json:"biomarker_mentions"`
	IndicationMentions datatypes.JSON `gorm:"column:indication_mentions" json:"indication_mentions"`
	FetchedAt          time.Time      `gorm:"autoCreateTime" json:"fetched_at"`
}

func (PubMedArticle) TableName() string { return "pubmed_articles" }
