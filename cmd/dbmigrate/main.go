package main

import (
	"flag"
	"fmt"
	"log"

	"gorm.io/gorm"

	"tg-keyword-alert/internal/config"
	"tg-keyword-alert/internal/models"
	"tg-keyword-alert/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	action := flag.String("action", "migrate", "Action to perform (migrate, reset, status)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := storage.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	switch *action {
	case "migrate":
		if err := migrateDatabase(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
	case "reset":
		if err := resetDatabase(db); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
		log.Println("Database reset completed successfully")
	case "status":
		if err := checkStatus(db); err != nil {
			log.Fatalf("Status check failed: %v", err)
		}
	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}

// migrateDatabase creates or updates all tables
func migrateDatabase(db *gorm.DB) error {
	fmt.Println("Migrating database...")
	return storage.EnsureSchema(db)
}

// resetDatabase drops tables and recreates them
func resetDatabase(db *gorm.DB) error {
	fmt.Println("Resetting database...")

	// Confirm reset operation
	fmt.Print("WARNING: This will delete all data! Are you sure? (y/N): ")
	var confirmation string
	fmt.Scanln(&confirmation)

	if confirmation != "y" && confirmation != "Y" {
		return fmt.Errorf("operation cancelled by user")
	}

	if err := db.Migrator().DropTable(&models.Subscription{}, &models.User{}, &models.StateEntry{}); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	return migrateDatabase(db)
}

// checkStatus reports which tables exist and how many rows they hold
func checkStatus(db *gorm.DB) error {
	fmt.Println("Checking database status...")

	tables := []struct {
		name  string
		model interface{}
	}{
		{"User", &models.User{}},
		{"Subscription", &models.Subscription{}},
		{"StateEntry", &models.StateEntry{}},
	}

	for _, table := range tables {
		if db.Migrator().HasTable(table.model) {
			fmt.Printf("✅ %s table exists\n", table.name)

			var count int64
			db.Model(table.model).Count(&count)
			fmt.Printf("   - Contains %d records\n", count)
		} else {
			fmt.Printf("❌ %s table does not exist\n", table.name)
		}
	}

	return nil
}
