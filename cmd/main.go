package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oncoscope/oncoscope-backend/internal/cache"
	"github.com/oncoscope/oncoscope-backend/internal/db"
	"github.com/oncoscope/oncoscope-backend/internal/handlers"
	"github.com/oncoscope/oncoscope-backend/internal/logger"
	"github.com/oncoscope/oncoscope-backend/internal/refdata"
	"github.com/oncoscope/oncoscope-backend/internal/repos"
	"github.com/oncoscope/oncoscope-backend/internal/server"
	"github.com/oncoscope/oncoscope-backend/internal/services"
	"github.com/oncoscope/oncoscope-backend/internal/utils"
)

func main() {
	// Logger
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

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8000", log)
	snapshotTTL := utils.GetEnvAsInt("SNAPSHOT_TTL_SECONDS", 300, log)
	refdataPath := utils.GetEnv("REFDATA_PATH", "", log)
	allowedOrigins := utils.GetEnv("ALLOWED_ORIGINS", "", log)

	// Reference tables
	tables := refdata.Defaults()
	if refdataPath != "" {
		tables, err = refdata.Load(refdataPath)
		if err != nil {
			log.Error("Could not load reference tables", "path", refdataPath, "error", err)
			os.Exit(1)
		}
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	indicationRepo := repos.NewIndicationRepo(thePG, log)
	trialRepo := repos.NewTrialRepo(thePG, log)
	trialBiomarkerRepo := repos.NewTrialBiomarkerRepo(thePG, log)
	trialIndicationRepo := repos.NewTrialIndicationRepo(thePG, log)
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

	// Snapshot cache
	snapshots, err := cache.NewSnapshotCache(log, time.Duration(snapshotTTL)*time.Second)
	if err != nil {
		log.Error("Could not init SnapshotCache", "error", err)
		os.Exit(1)
	}
	defer snapshots.Close()

	// Services
	log.Info("Setting up Services from main...")
	strategyService := services.NewStrategyService(
		thePG,
		indicationRepo,
		trialRepo,
		trialBiomarkerRepo,
		trialIndicationRepo,
		assayRepo,
		targetAssociationRepo,
		knownDrugRepo,
		biomarkerEvidenceRepo,
		gwasAssociationRepo,
		pubmedArticleRepo,
		cutoffTrendRepo,
		log,
	)
	opportunityService := services.NewOpportunityService(
		thePG,
		indicationRepo,
		trialRepo,
		trialBiomarkerRepo,
		trialIndicationRepo,
		targetAssociationRepo,
		assayRepo,
		log,
	)
	druggabilityService := services.NewDruggabilityService(
		thePG,
		targetAssociationRepo,
		knownDrugRepo,
		biomarkerEvidenceRepo,
		log,
	)
	variantService := services.NewVariantService(
		thePG,
		mutationPrevalenceRepo,
		variantActionabilityRepo,
		fdaApprovalRepo,
		civicEvidenceRepo,
		dataProvenanceRepo,
		indicationRepo,
		trialRepo,
		trialBiomarkerRepo,
		trialIndicationRepo,
		log,
	)
	funnelService := services.NewFunnelService(
		thePG,
		tables,
		mutationPrevalenceRepo,
		indicationRepo,
		trialRepo,
		trialBiomarkerRepo,
		trialIndicationRepo,
		log,
	)
	dashboardService := services.NewDashboardService(
		thePG,
		indicationRepo,
		trialRepo,
		trialBiomarkerRepo,
		trialIndicationRepo,
		assayRepo,
		log,
	)

	// Handlers
	log.Info("Setting up Handlers from main...")
	strategyHandler := handlers.NewStrategyHandler(log, strategyService, opportunityService, snapshots)
	druggabilityHandler := handlers.NewDruggabilityHandler(log, druggabilityService)
	variantHandler := handlers.NewVariantHandler(log, variantService, funnelService)
	dashboardHandler := handlers.NewDashboardHandler(log, dashboardService, snapshots)

	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		StrategyHandler:     strategyHandler,
		DruggabilityHandler: druggabilityHandler,
		VariantHandler:      variantHandler,
		DashboardHandler:    dashboardHandler,
		AllowedOrigins:      origins,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
