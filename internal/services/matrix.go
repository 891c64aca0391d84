package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/repos"
)

// CoreIndications are the tumor types the opportunity matrix spans.
var CoreIndications = []string{"NSCLC", "Breast Cancer", "Colorectal Cancer"}

const (
	// A cell is an emerging opportunity when the association score clears
	// opportunityMinScore while fewer than opportunityMaxTrials trials are
	// running. Both comparisons are strict; a cell with zero trials never
	// qualifies.
	opportunityMaxTrials = 15
	opportunityMinScore  = 0.3
	opportunityLimit     = 15
)

type MatrixCell struct {
	Indication       string  `json:"indication"`
	TotalTrials      int     `json:"totalTrials"`
	RecruitingTrials int     `json:"recruitingTrials"`
	Phase3Trials     int     `json:"phase3Trials"`
	HasApprovedDrug  bool    `json:"hasApprovedDrug"`
	HasFDACDx        bool    `json:"hasFdaCdx"`
	OTScore          float64 `json:"otScore"`
	DrugCount        int     `json:"drugCount"`
}

type MatrixRow struct {
	Biomarker              string       `json:"biomarker"`
	TotalAcrossIndications int          `json:"totalAcrossIndications"`
	Cells                  []MatrixCell `json:"cells"`
}

type Opportunity struct {
	Biomarker       string  `json:"biomarker"`
	Indication      string  `json:"indication"`
	TotalTrials     int     `json:"totalTrials"`
	OTScore         float64 `json:"otScore"`
	HasApprovedDrug bool    `json:"hasApprovedDrug"`
	Rationale       string  `json:"rationale"`
}

type OpportunityMatrix struct {
	Indications   []string      `json:"indications"`
	Biomarkers    []string      `json:"biomarkers"`
	Matrix        []MatrixRow   `json:"matrix"`
	Opportunities []Opportunity `json:"opportunities"`
	GeneratedAt   time.Time     `json:"generatedAt"`
}

type OpportunityService interface {
	Matrix(ctx context.Context) (OpportunityMatrix, error)
}

type opportunityService struct {
	db               *gorm.DB
	indications      repos.IndicationRepo
	trials           repos.TrialRepo
	trialBiomarkers  repos.TrialBiomarkerRepo
	trialIndications repos.TrialIndicationRepo
	associations     repos.TargetAssociationRepo
	assays           repos.AssayRepo
	log              *logger.Logger
}

func NewOpportunityService(
	db *gorm.DB,
	indications repos.IndicationRepo,
	trials repos.TrialRepo,
	trialBiomarkers repos.TrialBiomarkerRepo,
	trialIndications repos.TrialIndicationRepo,
	associations repos.TargetAssociationRepo,
	assays repos.AssayRepo,
	baseLog *logger.Logger,
) OpportunityService {
	return &opportunityService{
		db:               db,
		indications:      indications,
		trials:           trials,
		trialBiomarkers:  trialBiomarkers,
		trialIndications: trialIndications,
		associations:     associations,
		assays:           assays,
		log:              baseLog.With("service", "OpportunityService"),
	}
}

type cellKey struct {
	biomarker  string
	indication string
}

type trialCell struct {
	total      int
	recruiting int
	phase3     int
}

type scoreCell struct {
	otScore         float64
	hasApprovedDrug bool
	drugCount       int
}

func (s *opportunityService) Matrix(ctx context.Context) (OpportunityMatrix, error) {
	biomarkers, err := s.trialBiomarkers.DistinctBiomarkerNames(ctx, nil)
	if err != nil {
		return OpportunityMatrix{}, err
	}

	trialCells, err := s.trialCells(ctx)
	if err != nil {
		return OpportunityMatrix{}, err
	}
	scoreCells, err := s.scoreCells(ctx)
	if err != nil {
		return OpportunityMatrix{}, err
	}
	cdx, err := s.cdxBiomarkers(ctx)
	if err != nil {
		return OpportunityMatrix{}, err
	}

	matrix := buildMatrixRows(biomarkers, CoreIndications, trialCells, scoreCells, cdx)
	out := OpportunityMatrix{
		Indications:   CoreIndications,
		Biomarkers:    make([]string, 0, len(matrix)),
		Matrix:        matrix,
		Opportunities: findOpportunities(matrix),
		GeneratedAt:   time.Now().UTC(),
	}
	for _, row := range matrix {
		out.Biomarkers = append(out.Biomarkers, row.Biomarker)
	}
	return out, nil
}

// trialCells aggregates distinct trial counts per biomarker x core
// indication, done in memory over the trial link tables.
func (s *opportunityService) trialCells(ctx context.Context) (map[cellKey]trialCell, error) {
	indicationRows, err := s.indications.GetByNames(ctx, nil, CoreIndications)
	if err != nil {
		return nil, err
	}
	indicationNameByID := map[int64]string{}
	ids := make([]int64, 0, len(indicationRows))
	for _, row := range indicationRows {
		indicationNameByID[row.ID] = row.Name
		ids = append(ids, row.ID)
	}

	links, err := s.trialIndications.GetByIndicationIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	indicationsByTrial := map[int64][]string{}
	for _, l := range links {
		indicationsByTrial[l.TrialID] = append(indicationsByTrial[l.TrialID], indicationNameByID[l.IndicationID])
	}

	trialRows, err := s.trials.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	type trialInfo struct {
		recruiting bool
		phase3     bool
	}
	infoByTrial := map[int64]trialInfo{}
	for _, t := range trialRows {
		infoByTrial[t.ID] = trialInfo{
			recruiting: t.OverallStatus == statusRecruiting,
			phase3:     strings.Contains(t.Phase, "3"),
		}
	}

	mentions, err := s.trialBiomarkers.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	counted := map[cellKey]map[int64]bool{}
	cells := map[cellKey]trialCell{}
	for _, m := range mentions {
		for _, ind := range indicationsByTrial[m.TrialID] {
			key := cellKey{m.BiomarkerName, ind}
			if counted[key] == nil {
				counted[key] = map[int64]bool{}
			}
			if counted[key][m.TrialID] {
				continue
			}
			counted[key][m.TrialID] = true

			cell := cells[key]
			cell.total++
			info := infoByTrial[m.TrialID]
			if info.recruiting {
				cell.recruiting++
			}
			if info.phase3 {
				cell.phase3++
			}
			cells[key] = cell
		}
	}
	return cells, nil
}

func (s *opportunityService) scoreCells(ctx context.Context) (map[cellKey]scoreCell, error) {
	rows, err := s.associations.GetByIndicationNames(ctx, nil, CoreIndications)
	if err != nil {
		return nil, err
	}
	cells := map[cellKey]scoreCell{}
	for _, r := range rows {
		key := cellKey{r.BiomarkerSymbol, r.IndicationName}
		cell := cells[key]
		cell.otScore = maxFloat(cell.otScore, r.OverallScore)
		cell.hasApprovedDrug = cell.hasApprovedDrug || r.SMHasApprovedDrug || r.ABHasApprovedDrug
		cell.drugCount += r.UniqueDrugs
		cells[key] = cell
	}
	return cells, nil
}

func (s *opportunityService) cdxBiomarkers(ctx context.Context) (map[string]bool, error) {
	rows, err := s.assays.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := map[string]bool{}
	for _, a := range rows {
		if !a.FDAApproved {
			continue
		}
		for _, bm := range decodeStrings(a.BiomarkerNames) {
			out[bm] = true
		}
	}
	return out, nil
}

func buildMatrixRows(
	biomarkers, indications []string,
	trialCells map[cellKey]trialCell,
	scoreCells map[cellKey]scoreCell,
	cdx map[string]bool,
) []MatrixRow {
	rows := make([]MatrixRow, 0, len(biomarkers))
	for _, bm := range biomarkers {
		row := MatrixRow{Biomarker: bm, Cells: make([]MatrixCell, 0, len(indications))}
		for _, ind := range indications {
			key := cellKey{bm, ind}
			trials := trialCells[key]
			scores := scoreCells[key]
			row.TotalAcrossIndications += trials.total
			row.Cells = append(row.Cells, MatrixCell{
				Indication:       ind,
				TotalTrials:      trials.total,
				RecruitingTrials: trials.recruiting,
				Phase3Trials:     trials.phase3,
				HasApprovedDrug:  scores.hasApprovedDrug,
				HasFDACDx:        cdx[bm],
				OTScore:          scores.otScore,
				DrugCount:        scores.drugCount,
			})
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalAcrossIndications > rows[j].TotalAcrossIndications
	})
	return rows
}

// findOpportunities scans the matrix for active but under-trialed cells with
// a meaningful association score, strongest score first, capped at
// opportunityLimit.
func findOpportunities(matrix []MatrixRow) []Opportunity {
	out := []Opportunity{}
	for _, row := range matrix {
		for _, cell := range row.Cells {
			if cell.OTScore <= opportunityMinScore {
				continue
			}
			if cell.TotalTrials <= 0 || cell.TotalTrials >= opportunityMaxTrials {
				continue
			}
			out = append(out, Opportunity{
				Biomarker:       row.Biomarker,
				Indication:      cell.Indication,
				TotalTrials:     cell.TotalTrials,
				OTScore:         cell.OTScore,
				HasApprovedDrug: cell.HasApprovedDrug,
				Rationale: fmt.Sprintf(
					"OT association score %.2f suggests biological relevance, but only %d trials running.",
					cell.OTScore, cell.TotalTrials),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OTScore > out[j].OTScore })
	if len(out) > opportunityLimit {
		out = out[:opportunityLimit]
	}
	return out
}
