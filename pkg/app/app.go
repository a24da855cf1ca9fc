package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ytanne/goipwatch/pkg/config"
	"github.com/ytanne/goipwatch/pkg/fetcher"
	"github.com/ytanne/goipwatch/pkg/models"
	repo "github.com/ytanne/goipwatch/pkg/repo/csv"
	"github.com/ytanne/goipwatch/pkg/tracker"
)

type Fetcher interface {
	Fetch(ctx context.Context) ([]models.Observation, error)
}

type Repo interface {
	Load() (map[string]models.Record, error)
	Save(records map[string]models.Record) error
}

type app struct {
	config  config.Config
	fetcher Fetcher
	repo    Repo
	now     func() time.Time
}

func NewApp(config config.Config) app {
	return app{
		config:  config,
		fetcher: fetcher.NewFetcher(config.SourceURL, config.ArchiveEntry),
		repo:    repo.NewCSVRepo(config.OutputFile),
		now:     time.Now,
	}
}

// Run executes one fetch-merge-persist pass. Every step blocks and
// any failure aborts the run.
func (a *app) Run(ctx context.Context) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}

	defer logger.Sync()

	logger.Info("Fetching server bundle", zap.String("url", a.config.SourceURL))

	observations, err := a.fetcher.Fetch(ctx)
	if err != nil {
		logger.Error("Failed to fetch server bundle", zap.Error(err))

		return err
	}

	records, err := a.repo.Load()
	if err != nil {
		logger.Error("Failed to load existing records", zap.Error(err))

		return err
	}

	added, updated := tracker.Merge(records, observations, a.now())

	if err := a.repo.Save(records); err != nil {
		logger.Error("Failed to save records", zap.Error(err))

		return err
	}

	logger.Info("Run finished",
		zap.String("output", a.config.OutputFile),
		zap.Int("observations", len(observations)),
		zap.Int("added", added),
		zap.Int("updated", updated),
		zap.Int("total", len(records)),
	)

	return nil
}
