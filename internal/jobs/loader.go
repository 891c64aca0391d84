package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/oncoscope/oncoscope-backend/internal/cache"
	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/repos"
	"github.com/oncoscope/oncoscope-backend/internal/types"
)

// Bundle is one normalized enrichment row-set file. Fetchers write these
// offline; the loader only applies them, so a bundle is replayable against
// any database.
type Bundle struct {
	Source string `json:"source"`

	Biomarkers           []*types.Biomarker            `json:"biomarkers,omitempty"`
	Indications          []*types.Indication           `json:"indications,omitempty"`
	Trials               []*types.Trial                `json:"trials,omitempty"`
	TrialIndications     []*types.TrialIndication      `json:"trialIndications,omitempty"`
	TrialBiomarkers      []*types.TrialBiomarker       `json:"trialBiomarkers,omitempty"`
	Assays               []*types.Assay                `json:"assays,omitempty"`
	TargetAssociations   []*types.TargetAssociation    `json:"targetAssociations,omitempty"`
	KnownDrugs           []*types.KnownDrug            `json:"knownDrugs,omitempty"`
	BiomarkerEvidence    []*types.BiomarkerEvidence    `json:"biomarkerEvidence,omitempty"`
	MutationPrevalence   []*types.MutationPrevalence   `json:"mutationPrevalence,omitempty"`
	VariantActionability []*types.VariantActionability `json:"variantActionability,omitempty"`
	FDAApprovals         []*types.FDAApproval          `json:"fdaApprovals,omitempty"`
	CivicEvidence        []*types.CivicEvidence        `json:"civicEvidence,omitempty"`
	GWASAssociations     []*types.GWASAssociation      `json:"gwasAssociations,omitempty"`
	PubMedArticles       []*types.PubMedArticle        `json:"pubmedArticles,omitempty"`
	Provenance           []*types.DataProvenance       `json:"provenance,omitempty"`
}

// Loader applies enrichment bundles with each table's write semantics:
// replace-wholesale for the association tables, conflict-ignore upsert for
// the keyed external tables, append-only for provenance.
type Loader struct {
	db *gorm.DB

	biomarkers       repos.BiomarkerRepo
	indications      repos.IndicationRepo
	trials           repos.TrialRepo
	trialIndications repos.TrialIndicationRepo
	trialBiomarkers  repos.TrialBiomarkerRepo
	assays           repos.AssayRepo
	associations     repos.TargetAssociationRepo
	drugs            repos.KnownDrugRepo
	evidence         repos.BiomarkerEvidenceRepo
	prevalence       repos.MutationPrevalenceRepo
	actionability    repos.VariantActionabilityRepo
	fdaApprovals     repos.FDAApprovalRepo
	civic            repos.CivicEvidenceRepo
	gwas             repos.GWASAssociationRepo
	pubmed           repos.PubMedArticleRepo
	provenance       repos.DataProvenanceRepo
	pipelineRuns     repos.PipelineRunRepo

	snapshots *cache.SnapshotCache
	log       *logger.Logger

	// indicationByEFO memoizes EFO id -> indication name for the current
	// run; it is rebuilt per Run, never shared across runs.
	indicationByEFO map[string]string
}

func NewLoader(
	db *gorm.DB,
	biomarkers repos.BiomarkerRepo,
	indications repos.IndicationRepo,
	trials repos.TrialRepo,
	trialIndications repos.TrialIndicationRepo,
	trialBiomarkers repos.TrialBiomarkerRepo,
	assays repos.AssayRepo,
	associations repos.TargetAssociationRepo,
	drugs repos.KnownDrugRepo,
	evidence repos.BiomarkerEvidenceRepo,
	prevalence repos.MutationPrevalenceRepo,
	actionability repos.VariantActionabilityRepo,
	fdaApprovals repos.FDAApprovalRepo,
	civic repos.CivicEvidenceRepo,
	gwas repos.GWASAssociationRepo,
	pubmed repos.PubMedArticleRepo,
	provenance repos.DataProvenanceRepo,
	pipelineRuns repos.PipelineRunRepo,
	snapshots *cache.SnapshotCache,
	baseLog *logger.Logger,
) *Loader {
	return &Loader{
		db:               db,
		biomarkers:       biomarkers,
		indications:      indications,
		trials:           trials,
		trialIndications: trialIndications,
		trialBiomarkers:  trialBiomarkers,
		assays:           assays,
		associations:     associations,
		drugs:            drugs,
		evidence:         evidence,
		prevalence:       prevalence,
		actionability:    actionability,
		fdaApprovals:     fdaApprovals,
		civic:            civic,
		gwas:             gwas,
		pubmed:           pubmed,
		provenance:       provenance,
		pipelineRuns:     pipelineRuns,
		snapshots:        snapshots,
		log:              baseLog.With("job", "Loader"),
	}
}

// Run loads one bundle file inside a single transaction and records a
// PipelineRun for it. On success the snapshot cache is invalidated so the
// read API reflects the new data.
func (l *Loader) Run(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}
	var bundle Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return fmt.Errorf("decode bundle: %w", err)
	}

	run := &types.PipelineRun{
		PipelineName: "enrichment-load",
		Status:       "running",
	}
	if bundle.Source != "" {
		run.PipelineName = "enrichment-load:" + bundle.Source
	}
	if err := l.pipelineRuns.Create(ctx, nil, run); err != nil {
		return fmt.Errorf("create pipeline run: %w", err)
	}

	l.indicationByEFO = nil
	processed, err := l.apply(ctx, &bundle)
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.RecordsProcessed = processed
	if err != nil {
		run.Status = "failed"
		run.ErrorMessage = err.Error()
		if updateErr := l.pipelineRuns.Update(ctx, nil, run); updateErr != nil {
			l.log.Error("pipeline run update failed", "error", updateErr)
		}
		return fmt.Errorf("apply bundle %s: %w", path, err)
	}

	run.Status = "completed"
	run.RecordsCreated = processed
	if err := l.pipelineRuns.Update(ctx, nil, run); err != nil {
		l.log.Error("pipeline run update failed", "error", err)
	}

	l.snapshots.Invalidate(ctx)
	l.log.Info("bundle loaded", "path", path, "source", bundle.Source, "records", processed)
	return nil
}

func (l *Loader) apply(ctx context.Context, bundle *Bundle) (int, error) {
	processed := 0
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := l.resolveIndicationNames(ctx, tx, bundle); err != nil {
			return err
		}

		steps := []struct {
			name  string
			count int
			write func() error
		}{
			{"biomarkers", len(bundle.Biomarkers), func() error {
				return l.biomarkers.UpsertBatch(ctx, tx, bundle.Biomarkers)
			}},
			{"indications", len(bundle.Indications), func() error {
				return l.indications.UpsertBatch(ctx, tx, bundle.Indications)
			}},
			{"trials", len(bundle.Trials), func() error {
				return l.trials.UpsertBatch(ctx, tx, bundle.Trials)
			}},
			{"trial_indications", len(bundle.TrialIndications), func() error {
				return l.trialIndications.UpsertIgnoreBatch(ctx, tx, bundle.TrialIndications)
			}},
			{"trial_biomarkers", len(bundle.TrialBiomarkers), func() error {
				return l.trialBiomarkers.UpsertIgnoreBatch(ctx, tx, bundle.TrialBiomarkers)
			}},
			{"assays", len(bundle.Assays), func() error {
				return l.assays.UpsertBatch(ctx, tx, bundle.Assays)
			}},
			{"target_associations", len(bundle.TargetAssociations), func() error {
				if bundle.TargetAssociations == nil {
					return nil
				}
				return l.associations.ReplaceAll(ctx, tx, bundle.TargetAssociations)
			}},
			{"known_drugs", len(bundle.KnownDrugs), func() error {
				if bundle.KnownDrugs == nil {
					return nil
				}
				return l.drugs.ReplaceAll(ctx, tx, bundle.KnownDrugs)
			}},
			{"biomarker_evidence", len(bundle.BiomarkerEvidence), func() error {
				if bundle.BiomarkerEvidence == nil {
					return nil
				}
				return l.evidence.ReplaceAll(ctx, tx, bundle.BiomarkerEvidence)
			}},
			{"mutation_prevalence", len(bundle.MutationPrevalence), func() error {
				return l.prevalence.UpsertIgnoreBatch(ctx, tx, bundle.MutationPrevalence)
			}},
			{"variant_actionability", len(bundle.VariantActionability), func() error {
				return l.actionability.UpsertIgnoreBatch(ctx, tx, bundle.VariantActionability)
			}},
			{"fda_approvals", len(bundle.FDAApprovals), func() error {
				return l.fdaApprovals.UpsertIgnoreBatch(ctx, tx, bundle.FDAApprovals)
			}},
			{"civic_evidence", len(bundle.CivicEvidence), func() error {
				return l.civic.UpsertIgnoreBatch(ctx, tx, bundle.CivicEvidence)
			}},
			{"gwas_associations", len(bundle.GWASAssociations), func() error {
				return l.gwas.UpsertIgnoreBatch(ctx, tx, bundle.GWASAssociations)
			}},
			{"pubmed_articles", len(bundle.PubMedArticles), func() error {
				return l.pubmed.UpsertIgnoreBatch(ctx, tx, bundle.PubMedArticles)
			}},
			{"provenance", len(bundle.Provenance), func() error {
				return l.provenance.AppendBatch(ctx, tx, bundle.Provenance)
			}},
		}
		for _, step := range steps {
			if err := step.write(); err != nil {
				return fmt.Errorf("%s: %w", step.name, err)
			}
			processed += step.count
		}
		return nil
	})
	return processed, err
}

// resolveIndicationNames fills blank indication names on enrichment rows
// from their EFO ids. Lookups hit the memo first so each EFO id costs at
// most one query per run.
func (l *Loader) resolveIndicationNames(ctx context.Context, tx *gorm.DB, bundle *Bundle) error {
	resolve := func(efoID, current string) (string, error) {
		if current != "" || efoID == "" {
			return current, nil
		}
		name, err := l.lookupIndication(ctx, tx, efoID)
		if err != nil {
			return current, err
		}
		return name, nil
	}

	for _, r := range bundle.TargetAssociations {
		name, err := resolve(r.EFOID, r.IndicationName)
		if err != nil {
			return err
		}
		r.IndicationName = name
	}
	for _, r := range bundle.KnownDrugs {
		name, err := resolve(r.DiseaseEFOID, r.IndicationName)
		if err != nil {
			return err
		}
		r.IndicationName = name
	}
	for _, r := range bundle.BiomarkerEvidence {
		name, err := resolve(r.EFOID, r.IndicationName)
		if err != nil {
			return err
		}
		r.IndicationName = name
	}
	return nil
}

func (l *Loader) lookupIndication(ctx context.Context, tx *gorm.DB, efoID string) (string, error) {
	if name, ok := l.indicationByEFO[efoID]; ok {
		return name, nil
	}
	if l.indicationByEFO == nil {
		l.indicationByEFO = map[string]string{}

		// One scan covers every EFO id in the bundle; the table is small.
		rows, err := l.indications.GetAll(ctx, tx)
		if err != nil {
			return "", err
		}
		for _, row := range rows {
			if row.EFOID != "" {
				l.indicationByEFO[row.EFOID] = row.Name
			}
		}
	}
	return l.indicationByEFO[efoID], nil
}
