// Command seed imports, generates or destroys DevCamper demo data.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"devcamper/internal/config"
	"devcamper/internal/database"
	"devcamper/internal/middleware"
	"devcamper/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	importData := flag.Bool("i", false, "Import the bundled fixtures")
	destroyData := flag.Bool("d", false, "Delete all users, bootcamps, courses and reviews")
	fake := flag.Int("fake", 0, "Generate N fake bootcamps with courses and reviews")
	fakeSeed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for -fake")
	flag.Parse()

	if !*importData && !*destroyData && *fake <= 0 {
		log.Fatal("usage: seed [-d] [-i] [-fake N [-seed S]]")
	}

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := middleware.ConfigureLogger(cfg.Env, slog.LevelInfo)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s, err := seed.NewSeeder(db, seed.Options{Logger: logger})
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	ctx := context.Background()
	if *destroyData {
		sum, err := s.Destroy(ctx)
		if err != nil {
			log.Fatalf("Destroy failed: %v", err)
		}
		log.Printf("Data destroyed: %s", sum)
	}
	if *importData {
		sum, err := s.Import(ctx)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		log.Printf("Data imported: %s", sum)
	}
	if *fake > 0 {
		sum, err := s.Fake(ctx, *fake, *fakeSeed)
		if err != nil {
			log.Fatalf("Fake data failed: %v", err)
		}
		log.Printf("Fake data generated: %s (seed %d, password %q)", sum, *fakeSeed, "password123")
	}
}
