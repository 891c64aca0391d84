package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oncoscope/oncoscope-backend/internal/cache"
	"github.com/oncoscope/oncoscope-backend/internal/db"
	"github.com/oncoscope/oncoscope-backend/internal/jobs"
	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/repos"
	"github.com/oncoscope/oncoscope-backend/internal/utils"
)

// Offline enrichment runner: loads normalized bundle files and recomputes
// the cutoff trend aggregates.
//
//	enrich -aggregate bundles/opentargets.json bundles/cbioportal.json
func main() {
	aggregate := flag.Bool("aggregate", false, "recompute cutoff trends after loading")
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	bundles := flag.Args()
	if len(bundles) == 0 && !*aggregate {
		log.Fatal("Nothing to do: pass bundle files and/or -aggregate")
	}

	snapshotTTL := utils.GetEnvAsInt("SNAPSHOT_TTL_SECONDS", 300, log)

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	snapshots, err := cache.NewSnapshotCache(log, time.Duration(snapshotTTL)*time.Second)
	if err != nil {
		log.Error("Could not init SnapshotCache", "error", err)
		os.Exit(1)
	}
	defer snapshots.Close()

	biomarkerRepo := repos.NewBiomarkerRepo(thePG, log)
	indicationRepo := repos.NewIndicationRepo(thePG, log)
	trialRepo := repos.NewTrialRepo(thePG, log)
	trialIndicationRepo := repos.NewTrialIndicationRepo(thePG, log)
	trialBiomarkerRepo := repos.NewTrialBiomarkerRepo(thePG, log)
	assayRepo := repos.NewAssayRepo(thePG, log)
	targetAssociationRepo := repos.NewTargetAssociationRepo(thePG, log)
	knownDrugRepo := repos.NewKnownDrugRepo(thePG, log)
	biomarkerEvidenceRepo := repos.NewBiomarkerEvidenceRepo(thePG, log)
	mutationPrevalenceRepo := repos.NewMutationPrevalenceRepo(thePG, log)
	variantActionabilityRepo := repos.NewVariantActionabilityRepo(thePG, log)
	fdaApprovalRepo := repos.NewFDAApprovalRepo(thePG, log)
	civicEvidenceRepo := repos.NewCivicEvidenceRepo(thePG, log)
	gwasAssociationRepo := repos.NewGWASAssociationRepo(thePG, log)
	pubmedArticleRepo := repos.NewPubMedArticleRepo(thePG, log)
	dataProvenanceRepo := repos.NewDataProvenanceRepo(thePG, log)
	cutoffTrendRepo := repos.NewCutoffTrendRepo(thePG, log)
	pipelineRunRepo := repos.NewPipelineRunRepo(thePG, log)

	loader := jobs.NewLoader(
		thePG,
		biomarkerRepo,
		indicationRepo,
		trialRepo,
		trialIndicationRepo,
		trialBiomarkerRepo,
		assayRepo,
		targetAssociationRepo,
		knownDrugRepo,
		biomarkerEvidenceRepo,
		mutationPrevalenceRepo,
		variantActionabilityRepo,
		fdaApprovalRepo,
		civicEvidenceRepo,
		gwasAssociationRepo,
		pubmedArticleRepo,
		dataProvenanceRepo,
		pipelineRunRepo,
		snapshots,
		log,
	)

	ctx := context.Background()
	for _, path := range bundles {
		if err := loader.Run(ctx, path); err != nil {
			log.Error("Bundle load failed", "path", path, "error", err)
			os.Exit(1)
		}
	}

	if *aggregate {
		aggregator := jobs.NewCutoffAggregator(
			thePG,
			trialRepo,
			trialBiomarkerRepo,
			cutoffTrendRepo,
			pipelineRunRepo,
			snapshots,
			log,
		)
		if err := aggregator.Run(ctx); err != nil {
			log.Error("Cutoff aggregation failed", "error", err)
			os.Exit(1)
		}
	}
}
