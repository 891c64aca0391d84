package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/repos"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

// AllIndications selects the unscoped dashboard.
const AllIndications = "All"

type YearTrials struct {
	Year   int `json:"year"`
	Trials int `json:"trials"`
}

type DashboardStats struct {
	TotalTrials         int          `json:"totalTrials"`
	TotalBiomarkers     int          `json:"totalBiomarkers"`
	TotalAssays         int          `json:"totalAssays"`
	FDAApprovedAssays   int          `json:"fdaApprovedAssays"`
	RecruitingCount     int          `json:"recruitingCount"`
	BiomarkerCounts     []NamedCount `json:"biomarkerCounts"`
	SettingDistribution []NamedCount `json:"settingDistribution"`
	YearDistribution    []YearTrials `json:"yearDistribution"`
	SponsorDistribution []NamedCount `json:"sponsorDistribution"`
	PhaseCounts         []NamedCount `json:"phaseCounts"`
	Indication          string       `json:"indication"`
}

type DashboardService interface {
	// Stats aggregates trial and assay counts, scoped to an indication or
	// global when indication is empty or AllIndications.
	Stats(ctx context.Context, indication string) (DashboardStats, error)
}

type dashboardService struct {
	db               *gorm.DB
	indications      repos.IndicationRepo
	trials           repos.TrialRepo
	trialBiomarkers  repos.TrialBiomarkerRepo
	trialIndications repos.TrialIndicationRepo
	assays           repos.AssayRepo
	log              *logger.Logger
}

func NewDashboardService(
	db *gorm.DB,
	indications repos.IndicationRepo,
	trials repos.TrialRepo,
	trialBiomarkers repos.TrialBiomarkerRepo,
	trialIndications repos.TrialIndicationRepo,
	assays repos.AssayRepo,
	baseLog *logger.Logger,
) DashboardService {
	return &dashboardService{
		db:               db,
		indications:      indications,
		trials:           trials,
		trialBiomarkers:  trialBiomarkers,
		trialIndications: trialIndications,
		assays:           assays,
		log:              baseLog.With("service", "DashboardService"),
	}
}

func (s *dashboardService) Stats(ctx context.Context, indication string) (DashboardStats, error) {
	scoped := indication != "" && indication != AllIndications
	if indication == "" {
		indication = AllIndications
	}
	out := DashboardStats{
		BiomarkerCounts:     []NamedCount{},
		SettingDistribution: []NamedCount{},
		YearDistribution:    []YearTrials{},
		SponsorDistribution: []NamedCount{},
		PhaseCounts:         []NamedCount{},
		Indication:          indication,
	}

	allTrials, err := s.trials.GetAll(ctx, nil)
	if err != nil {
		return out, err
	}
	mentions, err := s.trialBiomarkers.GetAll(ctx, nil)
	if err != nil {
		return out, err
	}

	// Scoped views restrict trial totals through the indication link table
	// and mention aggregates through the extractor's tumor-type tag.
	if scoped {
		joiner := &trialJoiner{
			indications:      s.indications,
			trials:           s.trials,
			trialBiomarkers:  s.trialBiomarkers,
			trialIndications: s.trialIndications,
		}
		trialSet, err := joiner.trialIDSet(ctx, nil, indication)
		if err != nil {
			return out, err
		}
		scopedTrials := []*types.Trial{}
		for _, t := range allTrials {
			if trialSet[t.ID] {
				scopedTrials = append(scopedTrials, t)
			}
		}
		allTrials = scopedTrials

		scopedMentions := []*types.TrialBiomarker{}
		for _, m := range mentions {
			if m.TumorType == indication {
				scopedMentions = append(scopedMentions, m)
			}
		}
		mentions = scopedMentions
	}
	out.TotalTrials = len(allTrials)

	biomarkerCounts := map[string]int{}
	settingCounts := map[string]int{}
	mentionedTrialIDs := map[int64]bool{}
	for _, m := range mentions {
		biomarkerCounts[m.BiomarkerName]++
		setting := m.TherapeuticSetting
		if setting == "" {
			setting = "Unknown"
		}
		settingCounts[setting]++
		mentionedTrialIDs[m.TrialID] = true
	}
	out.BiomarkerCounts = sortedCountsDesc(biomarkerCounts)
	out.SettingDistribution = sortedCountsDesc(settingCounts)
	out.TotalBiomarkers = len(out.BiomarkerCounts)

	trialByID := map[int64]*types.Trial{}
	for _, t := range allTrials {
		trialByID[t.ID] = t
	}
	mentionedTrials := []*types.Trial{}
	for id := range mentionedTrialIDs {
		if t, ok := trialByID[id]; ok {
			mentionedTrials = append(mentionedTrials, t)
		}
	}

	for _, yc := range countByYear(mentionedTrials) {
		out.YearDistribution = append(out.YearDistribution, YearTrials{Year: yc.Year, Trials: yc.Count})
	}
	out.SponsorDistribution = countBySponsor(mentionedTrials, 15)

	phaseCounts := map[string]int{}
	for _, t := range mentionedTrials {
		phase := t.Phase
		if phase == "" {
			phase = "Unknown"
		}
		phaseCounts[phase]++
	}
	out.PhaseCounts = sortedCountsDesc(phaseCounts)
	out.RecruitingCount = countRecruiting(mentionedTrials)

	assayRows, err := s.assays.GetAll(ctx, nil)
	if err != nil {
		return out, err
	}
	out.TotalAssays = len(assayRows)
	for _, a := range assayRows {
		if a.FDAApproved {
			out.FDAApprovedAssays++
		}
	}
	return out, nil
}
