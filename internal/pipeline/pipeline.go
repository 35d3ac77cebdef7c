// Package pipeline wires the ingestion stages together: normalize, validate,
// duplicate-check, enrich, categorize, store. One Result per input record;
// only exact duplicates and structural normalization failures stop a record.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"ledgerflow/ingest/internal/categorizer"
	"ledgerflow/ingest/internal/duplicate"
	"ledgerflow/ingest/internal/enricher"
	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
	"ledgerflow/ingest/internal/normalizer"
)

// Status classifies what happened to one record.
type Status string

const (
	StatusStored    Status = "stored"
	StatusDuplicate Status = "duplicate"
	StatusFailed    Status = "failed"
)

// Result is the full outcome for one input record.
type Result struct {
	Status      Status
	Transaction *models.Transaction
	Validation  normalizer.ValidationResult
	Duplicates  models.DetectionResult
	Enrichment  models.EnrichmentResult
	Category    models.CategorizationResult
	Err         error
}

// TransactionSink persists processed transactions.
type TransactionSink interface {
	Save(ctx context.Context, tx *models.Transaction) error
}

// Pipeline runs one record through every stage.
type Pipeline struct {
	normalizer *normalizer.Normalizer
	detector   *duplicate.Detector
	enricher   *enricher.Enricher
	engine     *categorizer.Engine
	sink       TransactionSink
	dupOpts    duplicate.Options
	logger     logging.Logger

	accountLocks sync.Map // accountID -> *sync.Mutex
}

// New assembles a Pipeline from its stages.
func New(
	n *normalizer.Normalizer,
	d *duplicate.Detector,
	e *enricher.Enricher,
	c *categorizer.Engine,
	sink TransactionSink,
	dupOpts duplicate.Options,
	logger logging.Logger,
) *Pipeline {
	return &Pipeline{
		normalizer: n,
		detector:   d,
		enricher:   e,
		engine:     c,
		sink:       sink,
		dupOpts:    dupOpts,
		logger:     logger,
	}
}

// Process runs one raw record through the full pipeline. An exact duplicate
// stops the record before storage; fuzzy matches are attached to the result
// and the record proceeds. Enrichment and categorization failures degrade to
// empty results, never fail the record.
func (p *Pipeline) Process(ctx context.Context, raw models.RawRecord, formatCode, accountID, userID string) Result {
	tx, err := p.normalizer.Normalize(raw, formatCode)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("normalize: %w", err)}
	}
	tx.AccountID = accountID
	tx.UserID = userID

	result := Result{Transaction: tx}
	result.Validation = p.normalizer.Validate(tx)
	if !result.Validation.Valid {
		result.Status = StatusFailed
		result.Err = fmt.Errorf("validation failed: %v", result.Validation.Errors)
		return result
	}

	// Records for the same account serialize from the duplicate gate through
	// the store write. Without this, two in-flight copies of the same
	// transaction could each pass the gate before either is stored.
	unlock := p.lockAccount(accountID)
	defer unlock()

	detection, err := p.detector.Detect(ctx, tx, p.dupOpts)
	if err != nil {
		result.Status = StatusFailed
		result.Err = fmt.Errorf("duplicate detection: %w", err)
		return result
	}
	result.Duplicates = detection
	if detection.BestMatch != nil && detection.BestMatch.Exact {
		result.Status = StatusDuplicate
		p.logger.Info("Exact duplicate skipped",
			logging.Field{Key: "account", Value: accountID},
			logging.Field{Key: "existing", Value: detection.BestMatch.TransactionID})
		return result
	}

	if enrichment, err := p.enricher.Enrich(ctx, tx); err != nil {
		p.logger.WithError(err).Warn("Enrichment failed, continuing without metadata")
	} else {
		result.Enrichment = enrichment
		if enrichment.Merchant != nil && tx.Merchant == "" {
			tx.Merchant = enrichment.Merchant.DisplayName
		}
	}

	if category, err := p.engine.Categorize(ctx, tx); err != nil {
		p.logger.WithError(err).Warn("Categorization failed, storing uncategorized")
	} else {
		result.Category = category
		tx.CategoryID = category.CategoryID
	}

	if err := p.sink.Save(ctx, tx); err != nil {
		result.Status = StatusFailed
		result.Err = fmt.Errorf("store transaction: %w", err)
		return result
	}
	result.Status = StatusStored
	return result
}

// lockAccount takes the account's mutex, creating it on first use, and
// returns the unlock function.
func (p *Pipeline) lockAccount(accountID string) func() {
	v, _ := p.accountLocks.LoadOrStore(accountID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
