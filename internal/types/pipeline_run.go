package types

import (
	"time"

	"gorm.io/datatypes"
)

// PipelineRun tracks one offline enrichment/aggregation invocation.
type PipelineRun struct {
	ID               int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	PipelineName     string         `gorm:"column:pipeline_name;size:100;not null" json:"pipeline_name"`
	Indication       string         `gorm:"column:indication;size:100" json:"indication"`
	Status           string         `gorm:"column:status;size:20;not null" json:"status"`
	StartedAt        time.Time      `gorm:"column:started_at;autoCreateTime" json:"started_at"`
	CompletedAt      *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	RecordsProcessed int            `gorm:"column:records_processed;default:0" json:"records_processed"`
	RecordsCreated   int            `gorm:"column:records_created;default:0" json:"records_created"`
	ErrorMessage     string         `gorm:"column:error_message" json:"error_message"`
	Metadata         datatypes.JSON `gorm:"column:metadata" json:"metadata"`
}

func (PipelineRun) TableName() string { return "pipeline_runs" }
