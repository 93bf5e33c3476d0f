// Command backfill_preferences re-applies survey answers exported from the
// legacy survey endpoint. It reads a yaml file of per-user selections and
// rebuilds each user's primary weight maps with the legacy selection
// weight, leaving engagement profiles untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kotekapu/kotekapu-backend/internal/catalog"
	"github.com/kotekapu/kotekapu-backend/internal/db"
	"github.com/kotekapu/kotekapu-backend/internal/logger"
	"github.com/kotekapu/kotekapu-backend/internal/repos"
	"github.com/kotekapu/kotekapu-backend/internal/services"
)

type selectionFile struct {
	Users []userSelection `yaml:"users"`
}

type userSelection struct {
	Email      string   `yaml:"email"`
	Interests  []string `yaml:"interests"`
	Formats    []string `yaml:"formats"`
	EventTypes []string `yaml:"event_types"`
}

func main() {
	filePath := flag.String("file", "", "yaml file with exported survey selections")
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

	if *filePath == "" {
		log.Fatal("missing -file argument")
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal("Failed to read selection file", "error", err)
	}
	var selections selectionFile
	if err := yaml.Unmarshal(raw, &selections); err != nil {
		log.Fatal("Failed to parse selection file", "error", err)
	}

	cat, err := catalog.FromEnv()
	if err != nil {
		log.Fatal("Failed to load tag catalog", "error", err)
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	thePG := postgresService.DB()

	userRepo := repos.NewUserRepo(thePG, log)
	postRepo := repos.NewPostRepo(thePG, log)
	achievementRepo := repos.NewAchievementRepo(thePG, log)
	preferenceService := services.NewPreferenceService(thePG, log, cat, userRepo, postRepo, achievementRepo)

	ctx := context.Background()
	applied := 0
	for _, sel := range selections.Users {
		user, err := userRepo.GetByEmail(ctx, nil, sel.Email)
		if err != nil {
			log.Warn("Skipping selection, user lookup failed", "email", sel.Email, "error", err)
			continue
		}
		if err := preferenceService.ImportLegacyPreferences(ctx, user.ID, sel.Interests, sel.Formats, sel.EventTypes); err != nil {
			log.Warn("Failed to import preferences", "email", sel.Email, "error", err)
			continue
		}
		applied++
	}
	log.Info("Backfill finished", "applied", applied, "total", len(selections.Users))
}
