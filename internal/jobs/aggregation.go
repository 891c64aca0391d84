package jobs

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/cache"
	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/repos"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

// CutoffAggregator recomputes the cutoff_trends table from the extracted
// trial biomarker rows: per biomarker, tumor type, start year, and unit, the
// mean numeric cutoff, trial count, and most-used assay.
type CutoffAggregator struct {
	db              *gorm.DB
	trials          repos.TrialRepo
	trialBiomarkers repos.TrialBiomarkerRepo
	cutoffTrends    repos.CutoffTrendRepo
	pipelineRuns    repos.PipelineRunRepo
	snapshots       *cache.SnapshotCache
	log             *logger.Logger
}

func NewCutoffAggregator(
	db *gorm.DB,
	trials repos.TrialRepo,
	trialBiomarkers repos.TrialBiomarkerRepo,
	cutoffTrends repos.CutoffTrendRepo,
	pipelineRuns repos.PipelineRunRepo,
	snapshots *cache.SnapshotCache,
	baseLog *logger.Logger,
) *CutoffAggregator {
	return &CutoffAggregator{
		db:              db,
		trials:          trials,
		trialBiomarkers: trialBiomarkers,
		cutoffTrends:    cutoffTrends,
		pipelineRuns:    pipelineRuns,
		snapshots:       snapshots,
		log:             baseLog.With("job", "CutoffAggregator"),
	}
}

func (a *CutoffAggregator) Run(ctx context.Context) error {
	run := &types.PipelineRun{PipelineName: "cutoff-aggregation", Status: "running"}
	if err := a.pipelineRuns.Create(ctx, nil, run); err != nil {
		return fmt.Errorf("create pipeline run: %w", err)
	}

	count, err := a.aggregate(ctx)
	now := time.Now().UTC()
	run.CompletedAt = &now
	if err != nil {
		run.Status = "failed"
		run.ErrorMessage = err.Error()
		if updateErr := a.pipelineRuns.Update(ctx, nil, run); updateErr != nil {
			a.log.Error("pipeline run update failed", "error", updateErr)
		}
		return err
	}

	run.Status = "completed"
	run.RecordsCreated = count
	if err := a.pipelineRuns.Update(ctx, nil, run); err != nil {
		a.log.Error("pipeline run update failed", "error", err)
	}

	a.snapshots.Invalidate(ctx)
	a.log.Info("cutoff trends recomputed", "entries", count)
	return nil
}

func (a *CutoffAggregator) aggregate(ctx context.Context) (int, error) {
	var count int
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		trials, err := a.trials.GetAll(ctx, tx)
		if err != nil {
			return err
		}
		mentions, err := a.trialBiomarkers.GetAll(ctx, tx)
		if err != nil {
			return err
		}

		trends := ComputeCutoffTrends(trials, mentions)
		count = len(trends)
		return a.cutoffTrends.ReplaceAll(ctx, tx, trends)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

type trendKey struct {
	biomarker string
	tumorType string
	year      int
	unit      string
}

type trendAccum struct {
	cutoffSum   float64
	cutoffCount int
	trialCount  int
	assayCounts map[string]int
}

// ComputeCutoffTrends groups trial biomarker rows by biomarker, tumor type,
// trial start year, and cutoff unit. Rows without a start year or tumor
// type are skipped, as is the catch-all "Solid Tumor" tag. Non-numeric
// cutoff strings contribute to the trial count but not the mean.
func ComputeCutoffTrends(trials []*types.Trial, mentions []*types.TrialBiomarker) []*types.CutoffTrend {
	yearByTrial := map[int64]int{}
	for _, t := range trials {
		if t.StartYear != nil {
			yearByTrial[t.ID] = *t.StartYear
		}
	}

	groups := map[trendKey]*trendAccum{}
	for _, m := range mentions {
		year, ok := yearByTrial[m.TrialID]
		if !ok {
			continue
		}
		if m.BiomarkerName == "" || m.TumorType == "" || m.TumorType == "Solid Tumor" {
			continue
		}

		key := trendKey{m.BiomarkerName, m.TumorType, year, m.CutoffUnit}
		acc := groups[key]
		if acc == nil {
			acc = &trendAccum{assayCounts: map[string]int{}}
			groups[key] = acc
		}
		acc.trialCount++
		if v, ok := parseCutoff(m.CutoffValue); ok {
			acc.cutoffSum += v
			acc.cutoffCount++
		}
		if m.AssayName != "" {
			acc.assayCounts[m.AssayName]++
		}
	}

	out := make([]*types.CutoffTrend, 0, len(groups))
	for key, acc := range groups {
		trend := &types.CutoffTrend{
			BiomarkerName: key.biomarker,
			TumorType:     key.tumorType,
			Year:          key.year,
			CutoffUnit:    key.unit,
			TrialCount:    acc.trialCount,
			DominantAssay: dominantAssay(acc.assayCounts),
		}
		if acc.cutoffCount > 0 {
			trend.CutoffValue = acc.cutoffSum / float64(acc.cutoffCount)
		}
		out = append(out, trend)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.BiomarkerName != b.BiomarkerName {
			return a.BiomarkerName < b.BiomarkerName
		}
		if a.TumorType != b.TumorType {
			return a.TumorType < b.TumorType
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.CutoffUnit < b.CutoffUnit
	})
	return out
}

// parseCutoff reads a numeric cutoff from the extractor's raw string.
// Anything non-numeric ("positive", ">=1%", "high") is treated as absent.
func parseCutoff(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// dominantAssay is the modal assay name, smallest name on ties so the
// result is stable.
func dominantAssay(counts map[string]int) string {
	best := ""
	bestCount := 0
	for name, c := range counts {
		if c > bestCount || (c == bestCount && (best == "" || name < best)) {
			best = name
			bestCount = c
		}
	}
	return best
}
