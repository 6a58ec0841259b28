// Command seed populates the database with fake users, posts and engagement.
package main

import (
	"context"
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/observability"
	"inkwell/internal/seed"
)

func main() {
	planPath := flag.String("plan", "", "YAML seed plan (defaults are used when empty)")
	numUsers := flag.Int("users", 0, "Override the number of generated users")
	shouldClean := flag.Bool("clean", false, "Delete existing data before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	logger := middleware.NewLogger(cfg.Env)
	middleware.Logger = logger
	// Per-row repository logs drown out the progress lines.
	observability.Config.EnableRepoLogging = false

	plan := seed.DefaultPlan()
	if *planPath != "" {
		if plan, err = seed.LoadPlan(*planPath); err != nil {
			log.Fatalf("Failed to load seed plan: %v", err)
		}
	}
	if *numUsers > 0 {
		plan.Users = *numUsers
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, logger)
	if *shouldClean {
		if err := s.Clear(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	sum, err := s.Run(ctx, plan)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	logger.Info("seeding complete",
		"users", sum.Users, "posts", sum.Posts, "comments", sum.Comments,
		"likes", sum.Likes, "follows", sum.Follows, "bookmarks", sum.Bookmarks,
		"password", plan.Password)
}
