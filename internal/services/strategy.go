package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/genemap"
	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/repos"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

// StrategyBrief is the cross-source intelligence payload for one
// biomarker-indication pair. Every section key is always present; a section
// whose source fails renders as its zero value.
type StrategyBrief struct {
	Biomarker       string              `json:"biomarker"`
	Indication      string              `json:"indication"`
	GeneratedAt     time.Time           `json:"generatedAt"`
	TrialSummary    TrialSummary        `json:"trialSummary"`
	CutoffLandscape CutoffLandscape     `json:"cutoffLandscape"`
	Druggability    DruggabilitySection `json:"druggability"`
	Evidence        EvidenceSection     `json:"evidence"`
	AssayLandscape  AssayLandscape      `json:"assayLandscape"`
	GeneticContext  GeneticContext      `json:"geneticContext"`
	Publications    []Publication       `json:"publications"`
}

type TrialSummary struct {
	Total           int          `json:"total"`
	Recruiting      int          `json:"recruiting"`
	ByPhase         []NamedCount `json:"byPhase"`
	TopSponsors     []NamedCount `json:"topSponsors"`
	YearTrend       []YearCount  `json:"yearTrend"`
	FirstTrialYear  *int         `json:"firstTrialYear"`
	LatestTrialYear *int         `json:"latestTrialYear"`
}

type CutoffUsage struct {
	Value    string `json:"value"`
	Unit     string `json:"unit"`
	Operator string `json:"operator"`
	Count    int    `json:"count"`
}

type CutoffTrendPoint struct {
	Year          int     `json:"year"`
	CutoffValue   float64 `json:"cutoffValue"`
	CutoffUnit    string  `json:"cutoffUnit"`
	TrialCount    int     `json:"trialCount"`
	DominantAssay string  `json:"dominantAssay"`
}

type CutoffLandscape struct {
	DominantCutoffs      []CutoffUsage      `json:"dominantCutoffs"`
	AssaysUsed           []NamedCount       `json:"assaysUsed"`
	CompanionDiagnostics []string           `json:"companionDiagnostics"`
	CutoffTrends         []CutoffTrendPoint `json:"cutoffTrends"`
}

type BriefDrug struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	YearApproved *int     `json:"yearApproved"`
	MOA          string   `json:"moa"`
	Phase        *float64 `json:"phase"`
}

type DruggabilitySection struct {
	OverallScore          float64     `json:"overallScore"`
	DrugScore             float64     `json:"drugScore"`
	CancerBiomarkerScore  float64     `json:"cancerBiomarkerScore"`
	CancerGeneCensusScore float64     `json:"cancerGeneCensusScore"`
	LiteratureScore       float64     `json:"literatureScore"`
	SMTractable           bool        `json:"smTractable"`
	SMHasApprovedDrug     bool        `json:"smHasApprovedDrug"`
	ABTractable           bool        `json:"abTractable"`
	ABHasApprovedDrug     bool        `json:"abHasApprovedDrug"`
	PROTACTractable       bool        `json:"protacTractable"`
	TotalDrugCandidates   int         `json:"totalDrugCandidates"`
	TotalApproved         int         `json:"totalApproved"`
	ApprovedDrugs         []BriefDrug `json:"approvedDrugs"`
	PipelineDrugs         []BriefDrug `json:"pipelineDrugs"`
}

type EvidenceItem struct {
	Biomarker string `json:"biomarker"`
	Drug      string `json:"drug"`
	Disease   string `json:"disease"`
}

type EvidenceSection struct {
	Total   int                       `json:"total"`
	ByLevel map[string][]EvidenceItem `json:"byLevel"`
}

type AssayDetail struct {
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Platform     string   `json:"platform"`
	CDxFor       []string `json:"cdxFor,omitempty"`
}

type AssayLandscape struct {
	FDAApproved []AssayDetail `json:"fdaApproved"`
	ResearchUse []AssayDetail `json:"researchUse"`
}

type GWASVariant struct {
	RsID       string   `json:"rsId"`
	Gene       string   `json:"gene"`
	Trait      string   `json:"trait"`
	PValue     float64  `json:"pValue"`
	OddsRatio  *float64 `json:"oddsRatio"`
	RiskAllele string   `json:"riskAllele"`
	Population string   `json:"population"`
	PubmedID   string   `json:"pubmedId"`
}

type GeneticContext struct {
	GWASVariants []GWASVariant `json:"gwasVariants"`
	GeneSymbols  []string      `json:"geneSymbols"`
}

type Publication struct {
	PMID    string     `json:"pmid"`
	Title   string     `json:"title"`
	Journal string     `json:"journal"`
	PubDate *time.Time `json:"pubDate"`
	Authors []string   `json:"authors"`
}

type StrategyService interface {
	Brief(ctx context.Context, indication, biomarker string) (StrategyBrief, error)
}

type strategyService struct {
	db              *gorm.DB
	joiner          *trialJoiner
	trialBiomarkers repos.TrialBiomarkerRepo
	assays          repos.AssayRepo
	associations    repos.TargetAssociationRepo
	drugs           repos.KnownDrugRepo
	evidence        repos.BiomarkerEvidenceRepo
	gwas            repos.GWASAssociationRepo
	pubmed          repos.PubMedArticleRepo
	cutoffTrends    repos.CutoffTrendRepo
	log             *logger.Logger
}

func NewStrategyService(
	db *gorm.DB,
	indications repos.IndicationRepo,
	trials repos.TrialRepo,
	trialBiomarkers repos.TrialBiomarkerRepo,
	trialIndications repos.TrialIndicationRepo,
	assays repos.AssayRepo,
	associations repos.TargetAssociationRepo,
	drugs repos.KnownDrugRepo,
	evidence repos.BiomarkerEvidenceRepo,
	gwas repos.GWASAssociationRepo,
	pubmed repos.PubMedArticleRepo,
	cutoffTrends repos.CutoffTrendRepo,
	baseLog *logger.Logger,
) StrategyService {
	return &strategyService{
		db: db,
		joiner: &trialJoiner{
			indications:      indications,
			trials:           trials,
			trialBiomarkers:  trialBiomarkers,
			trialIndications: trialIndications,
		},
		trialBiomarkers: trialBiomarkers,
		assays:          assays,
		associations:    associations,
		drugs:           drugs,
		evidence:        evidence,
		gwas:            gwas,
		pubmed:          pubmed,
		cutoffTrends:    cutoffTrends,
		log:             baseLog.With("service", "StrategyService"),
	}
}

// Brief assembles all seven sections concurrently. Sections are isolated:
// one failing source logs a warning and leaves its zero value in place, so a
// partial brief still renders with every key.
func (s *strategyService) Brief(ctx context.Context, indication, biomarker string) (StrategyBrief, error) {
	brief := StrategyBrief{
		Biomarker:    biomarker,
		Indication:   indication,
		GeneratedAt:  time.Now().UTC(),
		Evidence:     EvidenceSection{ByLevel: map[string][]EvidenceItem{}},
		Publications: []Publication{},
	}

	g, gctx := errgroup.WithContext(ctx)
	section := func(name string, fetch func(context.Context) error) {
		g.Go(func() error {
			if err := fetch(gctx); err != nil {
				s.log.Warn("strategy brief section failed",
					"section", name, "biomarker", biomarker, "indication", indication, "error", err)
			}
			return nil
		})
	}

	section("trialSummary", func(ctx context.Context) error {
		out, err := s.trialSummary(ctx, indication, biomarker)
		if err != nil {
			return err
		}
		brief.TrialSummary = out
		return nil
	})
	section("cutoffLandscape", func(ctx context.Context) error {
		out, err := s.cutoffLandscape(ctx, indication, biomarker)
		if err != nil {
			return err
		}
		brief.CutoffLandscape = out
		return nil
	})
	section("druggability", func(ctx context.Context) error {
		out, err := s.druggability(ctx, indication, biomarker)
		if err != nil {
			return err
		}
		brief.Druggability = out
		return nil
	})
	section("evidence", func(ctx context.Context) error {
		out, err := s.evidenceSection(ctx, indication, biomarker)
		if err != nil {
			return err
		}
		brief.Evidence = out
		return nil
	})
	section("assayLandscape", func(ctx context.Context) error {
		out, err := s.assayLandscape(ctx, biomarker)
		if err != nil {
			return err
		}
		brief.AssayLandscape = out
		return nil
	})
	section("geneticContext", func(ctx context.Context) error {
		out, err := s.geneticContext(ctx, biomarker)
		if err != nil {
			return err
		}
		brief.GeneticContext = out
		return nil
	})
	section("publications", func(ctx context.Context) error {
		out, err := s.publications(ctx, indication, biomarker)
		if err != nil {
			return err
		}
		brief.Publications = out
		return nil
	})

	if err := g.Wait(); err != nil {
		return brief, err
	}
	return brief, nil
}

func (s *strategyService) trialSummary(ctx context.Context, indication, biomarker string) (TrialSummary, error) {
	trials, err := s.joiner.trialsForBiomarker(ctx, nil, biomarker, indication)
	if err != nil {
		return TrialSummary{}, err
	}

	out := TrialSummary{
		Total:       len(trials),
		Recruiting:  countRecruiting(trials),
		ByPhase:     countByPhase(trials),
		TopSponsors: countBySponsor(trials, 10),
		YearTrend:   countByYear(trials),
	}
	for _, t := range trials {
		if t.StartYear == nil {
			continue
		}
		if out.FirstTrialYear == nil || *t.StartYear < *out.FirstTrialYear {
			y := *t.StartYear
			out.FirstTrialYear = &y
		}
		if out.LatestTrialYear == nil || *t.StartYear > *out.LatestTrialYear {
			y := *t.StartYear
			out.LatestTrialYear = &y
		}
	}
	return out, nil
}

func (s *strategyService) cutoffLandscape(ctx context.Context, indication, biomarker string) (CutoffLandscape, error) {
	out := CutoffLandscape{
		DominantCutoffs:      []CutoffUsage{},
		AssaysUsed:           []NamedCount{},
		CompanionDiagnostics: []string{},
		CutoffTrends:         []CutoffTrendPoint{},
	}

	trialSet, err := s.joiner.trialIDSet(ctx, nil, indication)
	if err != nil {
		return out, err
	}
	mentions, err := s.trialBiomarkers.GetByBiomarkerNames(ctx, nil, []string{biomarker})
	if err != nil {
		return out, err
	}

	type cutoffKey struct{ value, unit, operator string }
	cutoffCounts := map[cutoffKey]int{}
	assayCounts := map[string]int{}
	for _, m := range mentions {
		if !trialSet[m.TrialID] {
			continue
		}
		if m.CutoffValue != "" {
			cutoffCounts[cutoffKey{m.CutoffValue, m.CutoffUnit, m.CutoffOperator}]++
		}
		if m.AssayName != "" && m.AssayName != "Not specified" {
			assayCounts[m.AssayName]++
		}
	}

	for k, c := range cutoffCounts {
		out.DominantCutoffs = append(out.DominantCutoffs, CutoffUsage{
			Value: k.value, Unit: k.unit, Operator: k.operator, Count: c,
		})
	}
	sort.Slice(out.DominantCutoffs, func(i, j int) bool {
		if out.DominantCutoffs[i].Count != out.DominantCutoffs[j].Count {
			return out.DominantCutoffs[i].Count > out.DominantCutoffs[j].Count
		}
		return out.DominantCutoffs[i].Value < out.DominantCutoffs[j].Value
	})
	if len(out.DominantCutoffs) > 10 {
		out.DominantCutoffs = out.DominantCutoffs[:10]
	}

	out.AssaysUsed = sortedCountsDesc(assayCounts)
	if len(out.AssaysUsed) > 10 {
		out.AssaysUsed = out.AssaysUsed[:10]
	}

	allAssays, err := s.assays.GetAll(ctx, nil)
	if err != nil {
		return out, err
	}
	for _, a := range allAssays {
		if a.FDAApproved && containsString(decodeStrings(a.BiomarkerNames), biomarker) {
			out.CompanionDiagnostics = append(out.CompanionDiagnostics, a.Name)
		}
	}
	sort.Strings(out.CompanionDiagnostics)

	trends, err := s.cutoffTrends.GetByBiomarkerAndTumorType(ctx, nil, biomarker, indication)
	if err != nil {
		return out, err
	}
	for _, tr := range trends {
		out.CutoffTrends = append(out.CutoffTrends, CutoffTrendPoint{
			Year:          tr.Year,
			CutoffValue:   tr.CutoffValue,
			CutoffUnit:    tr.CutoffUnit,
			TrialCount:    tr.TrialCount,
			DominantAssay: tr.DominantAssay,
		})
	}
	return out, nil
}

func (s *strategyService) druggability(ctx context.Context, indication, biomarker string) (DruggabilitySection, error) {
	out := DruggabilitySection{ApprovedDrugs: []BriefDrug{}, PipelineDrugs: []BriefDrug{}}

	assocRows, err := s.associations.GetByBiomarkerAndIndication(ctx, nil, biomarker, indication)
	if err != nil {
		return out, err
	}
	combined := CombineAssociations(assocRows)
	out.OverallScore = combined.OverallScore
	out.DrugScore = combined.DrugScore
	out.CancerBiomarkerScore = combined.CancerBiomarkerScore
	out.CancerGeneCensusScore = combined.CancerGeneCensusScore
	out.LiteratureScore = combined.LiteratureScore
	out.SMTractable = combined.SMTractable
	out.SMHasApprovedDrug = combined.SMHasApprovedDrug
	out.ABTractable = combined.ABTractable
	out.ABHasApprovedDrug = combined.ABHasApprovedDrug
	out.PROTACTractable = combined.PROTACTractable
	out.TotalDrugCandidates = combined.UniqueDrugs
	out.TotalApproved = combined.ApprovedDrugCount

	drugRows, err := s.drugs.GetByBiomarkerAndIndication(ctx, nil, biomarker, indication)
	if err != nil {
		return out, err
	}
	var approved, pipeline []*types.KnownDrug
	for _, d := range drugRows {
		switch {
		case d.IsApproved:
			approved = append(approved, d)
		case phaseOrZero(d.MaxPhase) >= 2:
			pipeline = append(pipeline, d)
		}
	}
	for _, d := range DedupDrugs(approved) {
		out.ApprovedDrugs = append(out.ApprovedDrugs, BriefDrug{
			Name: d.DrugName, Type: d.DrugType, YearApproved: d.YearApproved,
			MOA: d.MechanismOfAction, Phase: d.MaxPhase,
		})
	}
	for _, d := range DedupDrugs(pipeline) {
		out.PipelineDrugs = append(out.PipelineDrugs, BriefDrug{
			Name: d.DrugName, Type: d.DrugType,
			MOA: d.MechanismOfAction, Phase: d.MaxPhase,
		})
	}
	return out, nil
}

func (s *strategyService) evidenceSection(ctx context.Context, indication, biomarker string) (EvidenceSection, error) {
	out := EvidenceSection{ByLevel: map[string][]EvidenceItem{}}

	rows, err := s.evidence.GetByBiomarkerAndIndication(ctx, nil, biomarker, indication)
	if err != nil {
		return out, err
	}
	ranked := RankEvidence(rows)
	out.Total = len(ranked)
	for _, r := range ranked {
		level := r.Confidence
		if level == "" {
			level = "Unknown"
		}
		out.ByLevel[level] = append(out.ByLevel[level], EvidenceItem{
			Biomarker: r.BiomarkerSymbol,
			Drug:      r.DrugName,
			Disease:   r.DiseaseFromSource,
		})
	}
	return out, nil
}

func (s *strategyService) assayLandscape(ctx context.Context, biomarker string) (AssayLandscape, error) {
	out := AssayLandscape{FDAApproved: []AssayDetail{}, ResearchUse: []AssayDetail{}}

	rows, err := s.assays.GetAll(ctx, nil)
	if err != nil {
		return out, err
	}
	matched := []*types.Assay{}
	for _, a := range rows {
		if containsString(decodeStrings(a.BiomarkerNames), biomarker) {
			matched = append(matched, a)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].FDAApproved != matched[j].FDAApproved {
			return matched[i].FDAApproved
		}
		return matched[i].Name < matched[j].Name
	})
	for _, a := range matched {
		if a.FDAApproved {
			out.FDAApproved = append(out.FDAApproved, AssayDetail{
				Name: a.Name, Manufacturer: a.Manufacturer, Platform: a.Platform,
				CDxFor: decodeStrings(a.CompanionDxFor),
			})
		} else {
			out.ResearchUse = append(out.ResearchUse, AssayDetail{
				Name: a.Name, Manufacturer: a.Manufacturer, Platform: a.Platform,
			})
		}
	}
	return out, nil
}

func (s *strategyService) geneticContext(ctx context.Context, biomarker string) (GeneticContext, error) {
	symbols := genemap.Symbols(biomarker)
	out := GeneticContext{GWASVariants: []GWASVariant{}, GeneSymbols: symbols}
	if len(symbols) == 0 {
		return out, nil
	}

	rows, err := s.gwas.GetTopByGenes(ctx, nil, symbols, 10)
	if err != nil {
		return out, err
	}
	for _, r := range rows {
		out.GWASVariants = append(out.GWASVariants, GWASVariant{
			RsID:       r.RsID,
			Gene:       r.Gene,
			Trait:      r.TraitName,
			PValue:     r.PValue,
			OddsRatio:  r.OddsRatio,
			RiskAllele: r.RiskAllele,
			Population: r.Population,
			PubmedID:   r.PubmedID,
		})
	}
	return out, nil
}

func (s *strategyService) publications(ctx context.Context, indication, biomarker string) ([]Publication, error) {
	rows, err := s.pubmed.GetRecent(ctx, nil, 0)
	if err != nil {
		return []Publication{}, err
	}

	out := []Publication{}
	for _, r := range rows {
		if !containsString(decodeStrings(r.BiomarkerMentions), biomarker) {
			continue
		}
		if !containsString(decodeStrings(r.IndicationMentions), indication) {
			continue
		}
		authors := decodeStrings(r.Authors)
		if len(authors) > 3 {
			authors = authors[:3]
		}
		out = append(out, Publication{
			PMID:    r.PMID,
			Title:   r.Title,
			Journal: r.Journal,
			PubDate: r.PubDate,
			Authors: authors,
		})
		if len(out) == 10 {
			break
		}
	}
	return out, nil
}
