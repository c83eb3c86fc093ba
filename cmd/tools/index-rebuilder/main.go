// cmd/tools/index-rebuilder/main.go
// Rebuilds the Elasticsearch records index from the database. Run
// after enabling search on an existing installation or after an index
// mapping change.
package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"lawdesk-api/internal/common/config"
	"lawdesk-api/internal/common/database"
	"lawdesk-api/internal/common/logger"
	"lawdesk-api/internal/search"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "overall rebuild timeout")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}
	if !cfg.Database.Elasticsearch.Enabled {
		zapLog.Fatal("elasticsearch is disabled in configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres failed", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		zapLog.Fatal("postgres ping failed", zap.Error(err))
	}

	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		zapLog.Fatal("elasticsearch failed", zap.Error(err))
	}
	if err := esClient.Ping(); err != nil {
		zapLog.Fatal("elasticsearch ping failed", zap.Error(err))
	}

	indexer := search.NewIndexer(esClient, pg.DB, log)
	count, err := indexer.Rebuild(ctx)
	if err != nil {
		zapLog.Fatal("rebuild failed", zap.Error(err))
	}

	zapLog.Info("rebuild finished",
		zap.String("index", cfg.Database.Elasticsearch.Index),
		zap.Int("documents", count),
	)
}
