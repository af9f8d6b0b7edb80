// Package database provides the data access layer for the foundation site.
//
// # Architecture
//
// The database layer is organized into sub-packages:
//
//	database/
//	├── database.go      # Connection setup (SQLite or PostgreSQL), migrations, profile seeding
//	├── content/         # Generic repository shared by every content entity
//	├── newsletter/      # Idempotent subscription handling
//	├── stats/           # Aggregate counts for the public stats endpoint
//	├── users/           # CMS user accounts
//	└── audit/           # CMS write trail
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(cfg.Database)
//
//	news := content.NewRepository[entities.News](db.DB, content.Options{
//		SearchColumns: []string{"title_en", "title_ar"},
//		CounterColumn: "page_views",
//	})
//	item, err := news.FindBySlug(ctx, "water-wells", true)
//
// Repositories return content.ErrNotFound (or the sub-package's own sentinel)
// when nothing matches; callers check it with errors.Is.
//
// # Adding a New Entity
//
//  1. Define the struct in internal/entities, embedding entities.Model
//  2. Add it to entities.All so it is migrated
//  3. Register a content.Repository for it in the HTTP resource registry
package database
