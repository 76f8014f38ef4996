package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/mclarke-dev/momentum-sim/internal/models"
	"github.com/mclarke-dev/momentum-sim/pkg/config"
	"github.com/mclarke-dev/momentum-sim/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(database.Options{
		Driver:      cfg.DBDriver,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
	}, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(
		&models.Scenario{},
		&models.Comparison{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_scenarios_created_at ON scenarios(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_scenarios_formation_a ON scenarios(formation_a)",
		"CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"comparisons",
		"scenarios",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func seedData(db *database.DB) error {
	tags := func(values ...string) datatypes.JSON {
		data, _ := json.Marshal(values)
		return datatypes.JSON(data)
	}

	scenarios := []models.Scenario{
		{
			ID:          "a1b2c3d4",
			Name:        "Baseline 4-3-3 balanced",
			Description: "Reference run every sweep is compared against.",
			FormationA:  "4-3-3",
			FormationB:  "4-3-3",
			TacticA:     "balanced",
			TacticB:     "balanced",
			Iterations:  500,
			CrowdNoise:  75,
			Tags:        tags("baseline"),
		},
		{
			ID:          "b2c3d4e5",
			Name:        "High press derby",
			Description: "Aggressive 4-4-2 against a possession 4-3-3 under a loud home crowd.",
			FormationA:  "4-4-2",
			FormationB:  "4-3-3",
			TacticA:     "aggressive",
			TacticB:     "possession",
			Iterations:  500,
			CrowdNoise:  105,
			Tags:        tags("derby", "high-press"),
		},
		{
			ID:          "c3d4e5f6",
			Name:        "Park the bus",
			Description: "Defensive 5-3-2 protecting a lead from the 60th minute.",
			FormationA:  "5-3-2",
			FormationB:  "4-3-3",
			TacticA:     "defensive",
			TacticB:     "aggressive",
			Iterations:  500,
			CrowdNoise:  85,
			Tags:        tags("late-game", "defensive"),
		},
	}

	for _, s := range scenarios {
		if err := db.Create(&s).Error; err != nil {
			logrus.Warnf("Failed to seed scenario %s (may already exist): %v", s.ID, err)
		}
	}

	logrus.Infof("Seeded %d scenarios", len(scenarios))
	return nil
}
