package types

import (
	"time"

	"gorm.io/datatypes"
)

type Trial struct {
	ID              int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	NCTID           string         `gorm:"column:nct_id;size:20;uniqueIndex;not null" json:"nct_id"`
	BriefTitle      string         `gorm:"column:brief_title;not null" json:"brief_title"`
	OfficialTitle   string         `gorm:"column:official_title" json:"official_title"`
	OverallStatus   string         `gorm:"column:overall_status;size:50;not null;index" json:"overall_status"`
	Phase           string         `gorm:"column:phase;size:30;index" json:"phase"`
	StudyType       string         `gorm:"column:study_type;size:50" json:"study_type"`
	LeadSponsorName string         `gorm:"column:lead_sponsor_name;size:300;index" json:"lead_sponsor_name"`
	LeadSponsorType string         `gorm:"column:lead_sponsor_class;size:50" json:"lead_sponsor_class"`
	StartDate       *time.Time     `gorm:"column:start_date" json:"start_date,omitempty"`
	StartYear       *int           `gorm:"column:start_year;index" json:"start_year,omitempty"`
	CompletionDate  *time.Time     `gorm:"column:completion_date" json:"completion_date,omitempty"`
	EnrollmentCount *int           `gorm:"column:enrollment_count" json:"enrollment_count,omitempty"`
	BriefSummary    string         `gorm:"column:brief_summary" json:"brief_summary"`
	Conditions      datatypes.JSON `gorm:"column:conditions" json:"conditions"`
	Interventions   datatypes.JSON `gorm:"column:interventions" json:"interventions"`
	IngestedAt      time.Time      `gorm:"autoCreateTime" json:"ingested_at"`
}

func (Trial) TableName() string { return "trials" }

// TrialIndication links a trial to a detected indication.
type TrialIndication struct {
	TrialID      int64 `gorm:"column:trial_id;primaryKey" json:"trial_id"`
	IndicationID int64 `gorm:"column:indication_id;primaryKey" json:"indication_id"`
	Confidence   int   `gorm:"column:confidence;default:1" json:"confidence"`
}

func (TrialIndication) TableName() string { return "trial_indications" }
