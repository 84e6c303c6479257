// Command migrate applies the database schema explicitly. Production
// deployments run this before rolling out a new server build; outside
// production the server migrates on startup by itself.
package main

import (
	"fmt"
	"log"

	"ripple/internal/config"
	"ripple/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Println("schema migrations applied")
	return nil
}
