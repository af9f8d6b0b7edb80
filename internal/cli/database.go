package cli

import (
	"fmt"

	"github.com/hayatfoundation/site/internal/config"
	"github.com/hayatfoundation/site/internal/database"
)

// openDatabase loads the environment configuration and opens the database.
// A non-empty dbPath overrides DATABASE_PATH for sqlite.
func openDatabase(dbPath string) (*database.Database, *config.Config, error) {
	cfg := config.NewConfig()
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, cfg, nil
}
