package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cognicursos/backend-go/internal/config"
	"github.com/cognicursos/backend-go/internal/database"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	var action = flag.String("action", "up", "Migration action: up, down, version, goto, force")
	var version = flag.Int("version", 0, "Target version for goto/force")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Database.Driver != database.DriverPostgres {
		log.Fatalf("SQL migrations target PostgreSQL, got driver %q (sqlite uses automatic migration)", cfg.Database.Driver)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	factory := database.NewMigrationManagerFactory(cfg.Database.MigrationsPath, logger)
	migrationManager, err := factory.Connect(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to create migration manager: %v", err)
	}
	defer migrationManager.Close()

	switch *action {
	case "up":
		if err := migrationManager.Up(); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}

	case "down":
		if err := migrationManager.Down(); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}

	case "version":
		current, dirty, err := migrationManager.Version()
		if err != nil {
			log.Fatalf("Failed to get version: %v", err)
		}
		fmt.Printf("Current version: %d", current)
		if dirty {
			fmt.Printf(" (dirty - manual intervention required)")
		}
		fmt.Println()

	case "goto":
		if *version <= 0 {
			log.Fatal("Version must be specified for goto action")
		}
		if err := migrationManager.MigrateTo(uint(*version)); err != nil {
			log.Fatalf("Migration to version %d failed: %v", *version, err)
		}

	case "force":
		if err := migrationManager.ForceVersion(*version); err != nil {
			log.Fatalf("Force version failed: %v", err)
		}

	default:
		fmt.Printf("Unknown action: %s\n", *action)
		fmt.Println("Available actions: up, down, version, goto, force")
		os.Exit(1)
	}
}
