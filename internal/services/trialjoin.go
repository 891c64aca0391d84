package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/repos"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

const statusRecruiting = "Recruiting"

// trialJoiner resolves the trial_biomarkers -> trials -> trial_indications ->
// indications join in memory. Biomarker membership lives in JSON columns and
// link rows, so the reduction happens here rather than in SQL.
type trialJoiner struct {
	indications      repos.IndicationRepo
	trials           repos.TrialRepo
	trialBiomarkers  repos.TrialBiomarkerRepo
	trialIndications repos.TrialIndicationRepo
}

// trialIDSet returns the ids of trials linked to the named indication. An
// unknown indication yields an empty set.
func (j *trialJoiner) trialIDSet(ctx context.Context, tx *gorm.DB, indication string) (map[int64]bool, error) {
	set := map[int64]bool{}
	if indication == "" {
		return set, nil
	}

	rows, err := j.indications.GetByNames(ctx, tx, []string{indication})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return set, nil
	}

	links, err := j.trialIndications.GetByIndicationIDs(ctx, tx, []int64{rows[0].ID})
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		set[l.TrialID] = true
	}
	return set, nil
}

// trialsForBiomarker returns the distinct trials mentioning the biomarker,
// restricted to the indication's trial set when one is given.
func (j *trialJoiner) trialsForBiomarker(ctx context.Context, tx *gorm.DB, biomarker, indication string) ([]*types.Trial, error) {
	mentions, err := j.trialBiomarkers.GetByBiomarkerNames(ctx, tx, []string{biomarker})
	if err != nil {
		return nil, err
	}
	return j.collectTrials(ctx, tx, mentions, indication, "")
}

// trialsForVariant narrows the biomarker's trials to those whose extraction
// row names the variant, either exactly or as a substring of the raw cutoff
// text (extractors frequently stash variant spellings there).
func (j *trialJoiner) trialsForVariant(ctx context.Context, tx *gorm.DB, gene, variant, indication string) ([]*types.Trial, error) {
	mentions, err := j.trialBiomarkers.GetByBiomarkerNames(ctx, tx, []string{gene})
	if err != nil {
		return nil, err
	}
	return j.collectTrials(ctx, tx, mentions, indication, variant)
}

func (j *trialJoiner) collectTrials(ctx context.Context, tx *gorm.DB, mentions []*types.TrialBiomarker, indication, variant string) ([]*types.Trial, error) {
	var indicationSet map[int64]bool
	if indication != "" {
		set, err := j.trialIDSet(ctx, tx, indication)
		if err != nil {
			return nil, err
		}
		indicationSet = set
	}

	seen := map[int64]bool{}
	ids := []int64{}
	for _, m := range mentions {
		if variant != "" && !mentionMatchesVariant(m, variant) {
			continue
		}
		if indicationSet != nil && !indicationSet[m.TrialID] {
			continue
		}
		if !seen[m.TrialID] {
			seen[m.TrialID] = true
			ids = append(ids, m.TrialID)
		}
	}
	return j.trials.GetByIDs(ctx, tx, ids)
}

func mentionMatchesVariant(m *types.TrialBiomarker, variant string) bool {
	if m.VariantName == variant {
		return true
	}
	return strings.Contains(strings.ToLower(m.CutoffValue), strings.ToLower(variant))
}

// NamedCount is a (label, count) aggregation cell.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// YearCount is a (year, count) trend point.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// countByPhase aggregates distinct trials per phase, busiest phase first.
// Trials without a phase are skipped.
func countByPhase(trials []*types.Trial) []NamedCount {
	counts := map[string]int{}
	for _, t := range trials {
		if t.Phase == "" {
			continue
		}
		counts[t.Phase]++
	}
	return sortedCountsDesc(counts)
}

// countBySponsor aggregates distinct trials per lead sponsor, keeping the
// top limit sponsors.
func countBySponsor(trials []*types.Trial, limit int) []NamedCount {
	counts := map[string]int{}
	for _, t := range trials {
		if t.LeadSponsorName == "" {
			continue
		}
		counts[t.LeadSponsorName]++
	}
	out := sortedCountsDesc(counts)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// countByYear aggregates distinct trials per start year, earliest first.
func countByYear(trials []*types.Trial) []YearCount {
	counts := map[int]int{}
	for _, t := range trials {
		if t.StartYear == nil {
			continue
		}
		counts[*t.StartYear]++
	}
	out := make([]YearCount, 0, len(counts))
	for y, c := range counts {
		out = append(out, YearCount{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func countRecruiting(trials []*types.Trial) int {
	n := 0
	for _, t := range trials {
		if t.OverallStatus == statusRecruiting {
			n++
		}
	}
	return n
}

func sortedCountsDesc(counts map[string]int) []NamedCount {
	out := make([]NamedCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, NamedCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// decodeStrings unpacks a JSON string-array column. Null, empty, or
// malformed payloads decode to an empty slice.
func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
