// Package categorizer assigns categories to transactions through a cascade of
// strategies ordered by trustworthiness: user rules, then keyword matching,
// then the user's own categorization history. The first strategy confident
// enough wins; the rest only contribute suggestions.
package categorizer

import (
	"context"

	"ledgerflow/ingest/internal/models"
)

// Outcome is what one strategy produces for one transaction. A zero
// confidence means the strategy had nothing to say.
type Outcome struct {
	CategoryID  string
	Confidence  float64
	Rule        string // rule or pattern that fired, for explainability
	Suggestions []models.Suggestion
}

// Strategy is one stage of the categorization cascade.
type Strategy interface {
	// Name identifies the strategy in results and logs.
	Name() string

	// Threshold is the minimum confidence at which this strategy's answer is
	// accepted and the cascade stops.
	Threshold() float64

	// Evaluate scores the transaction. A nil error with zero confidence
	// means "no opinion"; errors are reserved for infrastructure failures.
	Evaluate(ctx context.Context, tx *models.Transaction) (Outcome, error)
}
