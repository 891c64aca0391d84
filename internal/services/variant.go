package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/repos"
)

// VariantPrevalence is the per-indication prevalence entry of a variant card.
type VariantPrevalence struct {
	CancerType    string  `json:"cancerType"`
	Frequency     float64 `json:"frequency"`
	SampleCount   int     `json:"sampleCount"`
	TotalProfiled int     `json:"totalProfiled"`
	Dataset       string  `json:"dataset"`
	SourceURL     string  `json:"sourceUrl"`
}

type VariantActionability struct {
	CancerType  string   `json:"cancerType"`
	Level       string   `json:"level"`
	Drugs       []string `json:"drugs"`
	Description string   `json:"description"`
	Citations   []string `json:"citations"`
	SourceURL   string   `json:"sourceUrl"`
}

type VariantFDAApproval struct {
	DrugName          string     `json:"drugName"`
	GenericName       string     `json:"genericName"`
	ApplicationNumber string     `json:"applicationNumber"`
	ApprovalDate      *time.Time `json:"approvalDate"`
	Variant           string     `json:"variant"`
	Indication        string     `json:"indication"`
	CompanionDxName   string     `json:"companionDxName"`
	CompanionDxPMA    string     `json:"companionDxPma"`
	SourceURL         string     `json:"sourceUrl"`
}

type VariantTrials struct {
	Total       int          `json:"total"`
	Recruiting  int          `json:"recruiting"`
	ByPhase     []NamedCount `json:"byPhase"`
	TopSponsors []NamedCount `json:"topSponsors"`
}

type CivicItem struct {
	Level        string   `json:"level"`
	Direction    string   `json:"direction"`
	Significance string   `json:"significance"`
	Drugs        []string `json:"drugs"`
	Disease      string   `json:"disease"`
	PMID         string   `json:"pmid"`
	Type         string   `json:"type"`
}

type ProvenanceItem struct {
	Source   string     `json:"source"`
	Version  string     `json:"version"`
	Accessed *time.Time `json:"accessed"`
}

// VariantCard joins every source's view of one gene variant. Map keys are
// indication names where the source resolved one, raw cancer-type strings
// otherwise.
type VariantCard struct {
	Gene          string                          `json:"gene"`
	Variant       string                          `json:"variant"`
	Prevalence    map[string]VariantPrevalence    `json:"prevalence"`
	Actionability map[string]VariantActionability `json:"actionability"`
	FDAApprovals  []VariantFDAApproval            `json:"fdaApprovals"`
	Trials        VariantTrials                   `json:"trials"`
	CoMutations   []string                        `json:"coMutations"`
	CivicEvidence []CivicItem                     `json:"civicEvidence"`
	Provenance    []ProvenanceItem                `json:"provenance"`
}

type ActionabilityCell struct {
	Level string   `json:"level"`
	Drugs []string `json:"drugs"`
}

// VariantLandscape is the variant x indication heatmap for one gene.
type VariantLandscape struct {
	Gene              string                                  `json:"gene"`
	Variants          []string                                `json:"variants"`
	Indications       []string                                `json:"indications"`
	PrevalenceHeatmap map[string]map[string]float64           `json:"prevalenceHeatmap"`
	ActionabilityMap  map[string]map[string]ActionabilityCell `json:"actionabilityMap"`
}

type VariantService interface {
	Card(ctx context.Context, gene, variant string) (VariantCard, error)
	Landscape(ctx context.Context, gene string) (VariantLandscape, error)
}

type variantService struct {
	db            *gorm.DB
	prevalence    repos.MutationPrevalenceRepo
	actionability repos.VariantActionabilityRepo
	fdaApprovals  repos.FDAApprovalRepo
	civic         repos.CivicEvidenceRepo
	provenance    repos.DataProvenanceRepo
	joiner        *trialJoiner
	log           *logger.Logger
}

func NewVariantService(
	db *gorm.DB,
	prevalence repos.MutationPrevalenceRepo,
	actionability repos.VariantActionabilityRepo,
	fdaApprovals repos.FDAApprovalRepo,
	civic repos.CivicEvidenceRepo,
	provenance repos.DataProvenanceRepo,
	indications repos.IndicationRepo,
	trials repos.TrialRepo,
	trialBiomarkers repos.TrialBiomarkerRepo,
	trialIndications repos.TrialIndicationRepo,
	baseLog *logger.Logger,
) VariantService {
	return &variantService{
		db:            db,
		prevalence:    prevalence,
		actionability: actionability,
		fdaApprovals:  fdaApprovals,
		civic:         civic,
		provenance:    provenance,
		joiner: &trialJoiner{
			indications:      indications,
			trials:           trials,
			trialBiomarkers:  trialBiomarkers,
			trialIndications: trialIndications,
		},
		log: baseLog.With("service", "VariantService"),
	}
}

func (s *variantService) Card(ctx context.Context, gene, variant string) (VariantCard, error) {
	card := VariantCard{
		Gene:          gene,
		Variant:       variant,
		Prevalence:    map[string]VariantPrevalence{},
		Actionability: map[string]VariantActionability{},
		FDAApprovals:  []VariantFDAApproval{},
		Trials:        VariantTrials{ByPhase: []NamedCount{}, TopSponsors: []NamedCount{}},
		CoMutations:   []string{},
		CivicEvidence: []CivicItem{},
		Provenance:    []ProvenanceItem{},
	}

	// Prevalence rows arrive frequency-desc; the first row per indication
	// wins, and the first co-mutation list found becomes the card's.
	prevRows, err := s.prevalence.GetByGeneAndVariant(ctx, nil, gene, variant)
	if err != nil {
		return card, err
	}
	prevalenceIDs := make([]int64, 0, len(prevRows))
	for _, r := range prevRows {
		prevalenceIDs = append(prevalenceIDs, r.ID)
		key := r.IndicationName
		if key == "" {
			key = r.CancerType
		}
		if _, seen := card.Prevalence[key]; !seen {
			card.Prevalence[key] = VariantPrevalence{
				CancerType:    r.CancerType,
				Frequency:     r.Frequency,
				SampleCount:   r.SampleCount,
				TotalProfiled: r.TotalProfiled,
				Dataset:       r.Dataset,
				SourceURL:     r.SourceURL,
			}
		}
		if len(card.CoMutations) == 0 {
			card.CoMutations = decodeStrings(r.CoMutations)
		}
	}

	actRows, err := s.actionability.GetByGeneAndVariant(ctx, nil, gene, variant)
	if err != nil {
		return card, err
	}
	actionabilityIDs := make([]int64, 0, len(actRows))
	for _, r := range actRows {
		actionabilityIDs = append(actionabilityIDs, r.ID)
		key := r.IndicationName
		if key == "" {
			key = r.CancerType
		}
		card.Actionability[key] = VariantActionability{
			CancerType:  r.CancerType,
			Level:       r.Level,
			Drugs:       decodeStrings(r.Drugs),
			Description: r.Description,
			Citations:   decodeStrings(r.Citations),
			SourceURL:   r.SourceURL,
		}
	}

	fdaRows, err := s.fdaApprovals.GetByGene(ctx, nil, gene)
	if err != nil {
		return card, err
	}
	fdaIDs := []int64{}
	for _, r := range fdaRows {
		if !variantMatches(r.BiomarkerVariant, variant) {
			continue
		}
		fdaIDs = append(fdaIDs, r.ID)
		card.FDAApprovals = append(card.FDAApprovals, VariantFDAApproval{
			DrugName:          r.DrugName,
			GenericName:       r.GenericName,
			ApplicationNumber: r.ApplicationNumber,
			ApprovalDate:      r.ApprovalDate,
			Variant:           r.BiomarkerVariant,
			Indication:        r.IndicationName,
			CompanionDxName:   r.CompanionDxName,
			CompanionDxPMA:    r.CompanionDxPMA,
			SourceURL:         r.SourceURL,
		})
	}
	sort.SliceStable(card.FDAApprovals, func(i, j int) bool {
		a, b := card.FDAApprovals[i].ApprovalDate, card.FDAApprovals[j].ApprovalDate
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.Before(*b)
	})

	trials, err := s.joiner.trialsForVariant(ctx, nil, gene, variant, "")
	if err != nil {
		return card, err
	}
	card.Trials = VariantTrials{
		Total:       len(trials),
		Recruiting:  countRecruiting(trials),
		ByPhase:     countByPhase(trials),
		TopSponsors: countBySponsor(trials, 10),
	}

	civicRows, err := s.civic.GetByGeneAndVariant(ctx, nil, gene, variant)
	if err != nil {
		return card, err
	}
	for _, r := range civicRows {
		card.CivicEvidence = append(card.CivicEvidence, CivicItem{
			Level:        r.EvidenceLevel,
			Direction:    r.EvidenceDirection,
			Significance: r.Significance,
			Drugs:        decodeStrings(r.Drugs),
			Disease:      r.DiseaseName,
			PMID:         r.SourcePMID,
			Type:         r.EvidenceType,
		})
	}

	provenance, err := s.collectProvenance(ctx, prevalenceIDs, actionabilityIDs, fdaIDs)
	if err != nil {
		return card, err
	}
	card.Provenance = provenance
	return card, nil
}

// collectProvenance gathers the distinct (source, version, accessed) triples
// behind the card's prevalence, actionability, and approval rows, newest
// access first.
func (s *variantService) collectProvenance(ctx context.Context, prevalenceIDs, actionabilityIDs, fdaIDs []int64) ([]ProvenanceItem, error) {
	out := []ProvenanceItem{}
	type provKey struct {
		source  string
		version string
		access  time.Time
	}
	seen := map[provKey]bool{}

	collect := func(entityType string, ids []int64) error {
		rows, err := s.provenance.GetByEntities(ctx, nil, entityType, ids)
		if err != nil {
			return err
		}
		for _, r := range rows {
			key := provKey{r.SourceName, r.VersionTag, r.AccessDate}
			if seen[key] {
				continue
			}
			seen[key] = true
			accessed := r.AccessDate
			out = append(out, ProvenanceItem{
				Source:   r.SourceName,
				Version:  r.VersionTag,
				Accessed: &accessed,
			})
		}
		return nil
	}

	if err := collect("prevalence", prevalenceIDs); err != nil {
		return out, err
	}
	if err := collect("actionability", actionabilityIDs); err != nil {
		return out, err
	}
	if err := collect("fda_approval", fdaIDs); err != nil {
		return out, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Accessed.After(*out[j].Accessed)
	})
	return out, nil
}

func variantMatches(stored, wanted string) bool {
	if stored == wanted {
		return true
	}
	return strings.Contains(strings.ToLower(stored), strings.ToLower(wanted))
}

func (s *variantService) Landscape(ctx context.Context, gene string) (VariantLandscape, error) {
	out := VariantLandscape{
		Gene:              gene,
		Variants:          []string{},
		Indications:       []string{},
		PrevalenceHeatmap: map[string]map[string]float64{},
		ActionabilityMap:  map[string]map[string]ActionabilityCell{},
	}

	prevRows, err := s.prevalence.GetByGene(ctx, nil, gene)
	if err != nil {
		return out, err
	}
	variantSet := map[string]bool{}
	indicationSet := map[string]bool{}
	for _, r := range prevRows {
		if r.IndicationName == "" {
			continue
		}
		variantSet[r.VariantName] = true
		indicationSet[r.IndicationName] = true
		if out.PrevalenceHeatmap[r.VariantName] == nil {
			out.PrevalenceHeatmap[r.VariantName] = map[string]float64{}
		}
		if _, seen := out.PrevalenceHeatmap[r.VariantName][r.IndicationName]; !seen {
			out.PrevalenceHeatmap[r.VariantName][r.IndicationName] = r.Frequency
		}
	}

	actRows, err := s.actionability.GetByGene(ctx, nil, gene)
	if err != nil {
		return out, err
	}
	for _, r := range actRows {
		if r.IndicationName == "" {
			continue
		}
		variantSet[r.VariantName] = true
		indicationSet[r.IndicationName] = true
		if out.ActionabilityMap[r.VariantName] == nil {
			out.ActionabilityMap[r.VariantName] = map[string]ActionabilityCell{}
		}
		out.ActionabilityMap[r.VariantName][r.IndicationName] = ActionabilityCell{
			Level: r.Level,
			Drugs: decodeStrings(r.Drugs),
		}
	}

	// Variants ordered by summed frequency across indications, busiest first.
	totals := map[string]float64{}
	for v := range variantSet {
		for _, f := range out.PrevalenceHeatmap[v] {
			totals[v] += f
		}
		out.Variants = append(out.Variants, v)
	}
	sort.SliceStable(out.Variants, func(i, j int) bool {
		ti, tj := totals[out.Variants[i]], totals[out.Variants[j]]
		if ti != tj {
			return ti > tj
		}
		return out.Variants[i] < out.Variants[j]
	})

	for ind := range indicationSet {
		out.Indications = append(out.Indications, ind)
	}
	sort.Strings(out.Indications)
	return out, nil
}
