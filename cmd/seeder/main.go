package main

import (
	"context"
	"flag"
	"time"

	"github.com/ahmadnadir/gasnadir/internal/adapters/config"
	"github.com/ahmadnadir/gasnadir/internal/adapters/postgres"
	pgrepo "github.com/ahmadnadir/gasnadir/internal/repository/postgres"
	"github.com/ahmadnadir/gasnadir/internal/seeds"
	"github.com/ahmadnadir/gasnadir/pkg/logger"
)

func main() {
	seed := flag.Uint64("seed", 2025, "Random seed for generated volumes")
	migrate := flag.Bool("migrate", true, "Apply the schema before seeding")
	dryRun := flag.Bool("dry-run", false, "Generate records without writing them")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	now := time.Now()

	log.Infow("Starting seeder",
		"seed", *seed,
		"dry_run", *dryRun,
		"database", cfg.Postgres.Database,
	)

	if *dryRun {
		records := seeds.GenerateVolumes(seeds.Roster(), now, seeds.NewRand(*seed))
		log.Infow("✅ Dry-run mode: volumes generated", "customers", len(seeds.Roster()), "records", len(records))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := postgres.NewClient(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer client.Close()

	if *migrate {
		if err := pgrepo.Migrate(ctx, client.DB()); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
		log.Info("Schema applied")
	}

	seeder := seeds.New(pgrepo.NewCustomerRepository(client.DB()), pgrepo.NewVolumeRepository(client.DB()))
	res, err := seeder.Run(ctx, now, *seed)
	if err != nil {
		log.Fatalf("Seeding failed after %d records: %v", res.Records, err)
	}

	log.Infow("✅ All seeds applied successfully", "customers", res.Customers, "records", res.Records)
}
