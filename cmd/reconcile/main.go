package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/Mani19492/darkctf-arena/src/app"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Recomputes team point totals for one event from the submission audit
// trail and repairs any drift, e.g. after a points award failed once
// its submission had committed.
func main() {
	eventIDFlag := flag.String("event", "", "event id to reconcile (required)")
	flag.Parse()

	if *eventIDFlag == "" {
		log.Fatal("usage: reconcile -event <event-uuid>")
	}

	eventID, err := uuid.Parse(*eventIDFlag)
	if err != nil {
		log.Fatalf("invalid event id: %v", err)
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Overload(".env"); err != nil {
			log.Fatalf("Error loading .env file: %v", err)
		}
	}

	config := app.NewAppConfig()
	logger := app.InitLogger(*config.LogLevel)

	rootCtx := logger.WithContext(context.Background())

	application := app.NewApplication(rootCtx, *config)
	if application == nil {
		logger.Fatal().Msg("Failed to initialize application")
	}
	defer application.Shutdown(rootCtx)

	report, err := application.ScoreboardService.Reconcile(rootCtx, eventID)
	if err != nil {
		logger.Fatal().Err(err).Msg("reconciliation failed")
	}

	logger.Info().
		Int("teams_checked", report.TeamsChecked).
		Int("teams_repaired", report.TeamsRepaired).
		Msg("done")
}
