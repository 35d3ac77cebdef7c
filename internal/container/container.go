// Package container assembles the application graph. Every component receives
// its dependencies through its constructor; nothing reaches for globals.
package container

import (
	"fmt"

	"golang.org/x/time/rate"

	"ledgerflow/ingest/internal/bankformat"
	"ledgerflow/ingest/internal/categorizer"
	"ledgerflow/ingest/internal/config"
	"ledgerflow/ingest/internal/duplicate"
	"ledgerflow/ingest/internal/enricher"
	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/normalizer"
	"ledgerflow/ingest/internal/pipeline"
	"ledgerflow/ingest/internal/store"
)

// Container holds the wired application components.
type Container struct {
	Config       *config.Config
	Logger       logging.Logger
	Registry     *bankformat.Registry
	Normalizer   *normalizer.Normalizer
	Transactions *store.MemoryTransactionStore
	Detector     *duplicate.Detector
	Scanner      *duplicate.Scanner
	Enricher     *enricher.Enricher
	Engine       *categorizer.Engine
	Feedback     *store.FeedbackLog
	Pipeline     *pipeline.Pipeline
}

// New builds the full graph from configuration. Reference data (categories,
// rules, merchants, extra formats) loads from the YAML assets on the config
// search path; missing asset files degrade to empty data rather than failing
// startup.
func New(cfg *config.Config, logger logging.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	c.Registry = bankformat.NewRegistry(logger)
	assets := store.NewAssetStore(logger)
	if err := assets.LoadFormats(c.Registry); err != nil {
		logger.WithError(err).Debug("No extra bank formats loaded")
	}

	c.Normalizer = normalizer.New(c.Registry, logger)
	c.Transactions = store.NewMemoryTransactionStore()
	c.Detector = duplicate.NewDetector(c.Transactions, logger)
	c.Scanner = duplicate.NewScanner(c.Transactions, logger)

	merchants, err := assets.LoadMerchants()
	if err != nil {
		logger.WithError(err).Debug("No merchant dictionary loaded")
		merchants = nil
	}
	var limiter *rate.Limiter
	if cfg.Enricher.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Enricher.RatePerSecond), 1)
	}
	c.Enricher = enricher.New(merchants, limiter, logger)
	c.Enricher.SetMinConfidence(cfg.Enricher.MinConfidence)

	categories, err := assets.LoadCategories()
	if err != nil {
		logger.WithError(err).Warn("No categories loaded, categorization will be keyword-less")
		categories = nil
	}
	rules, err := assets.LoadRules()
	if err != nil {
		logger.WithError(err).Debug("No custom rules loaded")
		rules = nil
	}

	if cfg.FeedbackPath != "" {
		c.Feedback, err = store.NewFeedbackLogFile(cfg.FeedbackPath)
		if err != nil {
			return nil, fmt.Errorf("open feedback log: %w", err)
		}
	} else {
		c.Feedback = store.NewFeedbackLog()
	}

	historyStrategy := categorizer.NewHistoryStrategy(c.Transactions, logger)
	historyStrategy.SetLimit(cfg.Categorizer.HistoryLimit)
	keywordStrategy := categorizer.NewKeywordStrategy(categories, logger)
	c.Engine = categorizer.NewEngine([]categorizer.Strategy{
		categorizer.NewRuleStrategy(categorizer.NewStaticRuleSource(rules), logger),
		keywordStrategy,
		historyStrategy,
	}, c.Feedback, logger)

	// The enricher's category hints reuse the engine's keyword scoring.
	c.Enricher.SetCategoryHinter(keywordStrategy)

	c.Pipeline = pipeline.New(
		c.Normalizer,
		c.Detector,
		c.Enricher,
		c.Engine,
		c.Transactions,
		cfg.DuplicateOptions(),
		logger,
	)
	return c, nil
}
