package services

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/repos"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

// CombinedAssociation is one biomarker's druggability aggregated across its
// sub-gene association rows.
type CombinedAssociation struct {
	BiomarkerSymbol       string       `json:"biomarkerSymbol"`
	Genes                 []GeneScore  `json:"genes"`
	OverallScore          float64      `json:"overallScore"`
	DrugScore             float64      `json:"drugScore"`
	CancerBiomarkerScore  float64      `json:"cancerBiomarkerScore"`
	CancerGeneCensusScore float64      `json:"cancerGeneCensusScore"`
	IntogenScore          float64      `json:"intogenScore"`
	LiteratureScore       float64      `json:"literatureScore"`
	SMTractable           bool         `json:"smTractable"`
	SMHasApprovedDrug     bool         `json:"smHasApprovedDrug"`
	ABTractable           bool         `json:"abTractable"`
	ABHasApprovedDrug     bool         `json:"abHasApprovedDrug"`
	PROTACTractable       bool         `json:"protacTractable"`
	UniqueDrugs           int          `json:"uniqueDrugs"`
	ApprovedDrugCount     int          `json:"approvedDrugCount"`
}

type GeneScore struct {
	GeneSymbol string  `json:"geneSymbol"`
	EnsemblID  string  `json:"ensemblId"`
	Score      float64 `json:"score"`
}

// CombineAssociations reduces the association rows of one biomarker and
// indication (one row per sub-gene) to a single record. A biomarker is as
// druggable as its best sub-gene, so score fields take the max; drugs
// targeting different sub-genes are distinct, so counts sum; tractability
// flags combine with OR. An empty input yields the zero record.
func CombineAssociations(rows []*types.TargetAssociation) CombinedAssociation {
	combined := CombinedAssociation{Genes: []GeneScore{}}
	for _, r := range rows {
		if combined.BiomarkerSymbol == "" {
			combined.BiomarkerSymbol = r.BiomarkerSymbol
		}
		combined.Genes = append(combined.Genes, GeneScore{
			GeneSymbol: r.BiomarkerSymbol,
			EnsemblID:  r.EnsemblID,
			Score:      r.OverallScore,
		})
		combined.OverallScore = maxFloat(combined.OverallScore, r.OverallScore)
		combined.DrugScore = maxFloat(combined.DrugScore, r.DrugScore)
		combined.CancerBiomarkerScore = maxFloat(combined.CancerBiomarkerScore, r.CancerBiomarkerScore)
		combined.CancerGeneCensusScore = maxFloat(combined.CancerGeneCensusScore, r.CancerGeneCensusScore)
		combined.IntogenScore = maxFloat(combined.IntogenScore, r.IntogenScore)
		combined.LiteratureScore = maxFloat(combined.LiteratureScore, r.LiteratureScore)
		combined.SMTractable = combined.SMTractable || r.SMTractable
		combined.SMHasApprovedDrug = combined.SMHasApprovedDrug || r.SMHasApprovedDrug
		combined.ABTractable = combined.ABTractable || r.ABTractable
		combined.ABHasApprovedDrug = combined.ABHasApprovedDrug || r.ABHasApprovedDrug
		combined.PROTACTractable = combined.PROTACTractable || r.PROTACTractable
		combined.UniqueDrugs += r.UniqueDrugs
		combined.ApprovedDrugCount += r.ApprovedDrugCount
	}
	return combined
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// DrugRecord is one deduplicated drug row.
type DrugRecord struct {
	DrugName          string   `json:"drugName"`
	DrugChemblID      string   `json:"drugChemblId"`
	DrugType          string   `json:"drugType"`
	MaxPhase          *float64 `json:"maxPhase"`
	IsApproved        bool     `json:"isApproved"`
	YearApproved      *int     `json:"yearApproved"`
	MechanismOfAction string   `json:"mechanismOfAction"`
	DiseaseName       string   `json:"diseaseName"`
	DiseaseEFOID      string   `json:"diseaseEfoId"`
}

// DedupDrugs collapses raw drug rows to one record per case-sensitive drug
// name, keeping the highest-phase row (null phase counts as lowest). Output
// ordering: approved before non-approved, then phase descending, then name
// ascending for stability.
func DedupDrugs(rows []*types.KnownDrug) []DrugRecord {
	best := map[string]*types.KnownDrug{}
	for _, r := range rows {
		cur, ok := best[r.DrugName]
		if !ok || phaseOrZero(r.MaxPhase) > phaseOrZero(cur.MaxPhase) {
			best[r.DrugName] = r
		}
	}

	out := make([]DrugRecord, 0, len(best))
	for _, r := range best {
		out = append(out, DrugRecord{
			DrugName:          r.DrugName,
			DrugChemblID:      r.DrugChemblID,
			DrugType:          r.DrugType,
			MaxPhase:          r.MaxPhase,
			IsApproved:        r.IsApproved,
			YearApproved:      r.YearApproved,
			MechanismOfAction: r.MechanismOfAction,
			DiseaseName:       r.DiseaseName,
			DiseaseEFOID:      r.DiseaseEFOID,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsApproved != out[j].IsApproved {
			return out[i].IsApproved
		}
		pi, pj := phaseOrZero(out[i].MaxPhase), phaseOrZero(out[j].MaxPhase)
		if pi != pj {
			return pi > pj
		}
		return out[i].DrugName < out[j].DrugName
	})
	return out
}

func phaseOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// EvidenceRecord is one ranked evidence row.
type EvidenceRecord struct {
	BiomarkerSymbol   string `json:"biomarkerSymbol"`
	DrugName          string `json:"drugName"`
	Confidence        string `json:"confidence"`
	DiseaseFromSource string `json:"diseaseFromSource"`
}

type DruggabilityService interface {
	// Combined returns the single aggregate druggability record for one
	// biomarker+indication pair.
	Combined(ctx context.Context, indication, biomarker string) (CombinedAssociation, error)
	// Matrix returns one combined record per biomarker for an indication,
	// strongest overall score first.
	Matrix(ctx context.Context, indication string) ([]CombinedAssociation, error)
	// Drugs returns the deduplicated drug list for a biomarker+indication.
	Drugs(ctx context.Context, indication, biomarker string) ([]DrugRecord, error)
	// RankedEvidence returns all evidence rows for an indication in fixed
	// confidence order.
	RankedEvidence(ctx context.Context, indication string) ([]EvidenceRecord, error)
}

type druggabilityService struct {
	db           *gorm.DB
	associations repos.TargetAssociationRepo
	drugs        repos.KnownDrugRepo
	evidence     repos.BiomarkerEvidenceRepo
	log          *logger.Logger
}

func NewDruggabilityService(
	db *gorm.DB,
	associations repos.TargetAssociationRepo,
	drugs repos.KnownDrugRepo,
	evidence repos.BiomarkerEvidenceRepo,
	baseLog *logger.Logger,
) DruggabilityService {
	return &druggabilityService{
		db:           db,
		associations: associations,
		drugs:        drugs,
		evidence:     evidence,
		log:          baseLog.With("service", "DruggabilityService"),
	}
}

func (s *druggabilityService) Combined(ctx context.Context, indication, biomarker string) (CombinedAssociation, error) {
	rows, err := s.associations.GetByBiomarkerAndIndication(ctx, nil, biomarker, indication)
	if err != nil {
		return CombinedAssociation{Genes: []GeneScore{}}, err
	}
	return CombineAssociations(rows), nil
}

func (s *druggabilityService) Matrix(ctx context.Context, indication string) ([]CombinedAssociation, error) {
	rows, err := s.associations.GetByIndicationNames(ctx, nil, []string{indication})
	if err != nil {
		return nil, err
	}

	byBiomarker := map[string][]*types.TargetAssociation{}
	order := []string{}
	for _, r := range rows {
		if _, seen := byBiomarker[r.BiomarkerSymbol]; !seen {
			order = append(order, r.BiomarkerSymbol)
		}
		byBiomarker[r.BiomarkerSymbol] = append(byBiomarker[r.BiomarkerSymbol], r)
	}

	out := make([]CombinedAssociation, 0, len(order))
	for _, bm := range order {
		out = append(out, CombineAssociations(byBiomarker[bm]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OverallScore > out[j].OverallScore
	})
	return out, nil
}

func (s *druggabilityService) Drugs(ctx context.Context, indication, biomarker string) ([]DrugRecord, error) {
	rows, err := s.drugs.GetByBiomarkerAndIndication(ctx, nil, biomarker, indication)
	if err != nil {
		return nil, err
	}
	return DedupDrugs(rows), nil
}

func (s *druggabilityService) RankedEvidence(ctx context.Context, indication string) ([]EvidenceRecord, error) {
	rows, err := s.evidence.GetByIndicationName(ctx, nil, indication)
	if err != nil {
		return nil, err
	}
	ranked := RankEvidence(rows)
	out := make([]EvidenceRecord, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, EvidenceRecord{
			BiomarkerSymbol:   r.BiomarkerSymbol,
			DrugName:          r.DrugName,
			Confidence:        r.Confidence,
			DiseaseFromSource: r.DiseaseFromSource,
		})
	}
	return out, nil
}
