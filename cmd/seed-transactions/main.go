package main

import (
	"context"
	"encoding/json"
	"flag"
	"math/rand/v2"
	"time"

	"transaction_dashboard_backend/internal/recordstore/migrations"
	"transaction_dashboard_backend/internal/recordstore/repository"
	"transaction_dashboard_backend/internal/transactions/seed"
	"transaction_dashboard_backend/internal/transactions/transport"
	"transaction_dashboard_backend/platform/config"
	"transaction_dashboard_backend/platform/db"
	"transaction_dashboard_backend/platform/logger"
)

// Generated ids are short, so a round can lose a few rows to collisions.
const maxRounds = 5

func main() {
	target := flag.Int("count", 500, "number of transactions the collection should hold")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if cfg.GetDatabaseURL() == "" {
		panic("DATABASE_URL is required")
	}

	log := logger.New(cfg.Env)
	collection := cfg.GetRecordStoreCollection()
	log.Info("starting transaction seed", "collection", collection, "target", *target)

	ctx := context.Background()
	if err := db.RunMigrations(ctx, cfg, migrations.FS, "."); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	repo := repository.New(pool, log)
	gen := seed.NewGenerator(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())))

	for round := 1; round <= maxRounds; round++ {
		existing, err := repo.Count(ctx, collection)
		if err != nil {
			log.Error("failed to count transactions", "error", err)
			return
		}
		needed := *target - existing
		if needed <= 0 {
			log.Info("transaction seed complete", "total", existing)
			return
		}
		log.Info("generating transactions", "existing", existing, "generating", needed, "round", round)

		docs, err := toDocuments(gen.Transactions(needed))
		if err != nil {
			log.Error("failed to encode transactions", "error", err)
			return
		}
		written, err := repo.InsertMany(ctx, collection, docs)
		if err != nil {
			log.Error("failed to insert transactions", "error", err)
			return
		}
		log.Info("transactions inserted", "written", written, "skipped", len(docs)-written)
	}
	log.Warn("transaction seed stopped before reaching target", "rounds", maxRounds)
}

func toDocuments(txns []transport.Transaction) ([]repository.Document, error) {
	raw, err := json.Marshal(txns)
	if err != nil {
		return nil, err
	}
	var docs []repository.Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
