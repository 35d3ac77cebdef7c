package categorizer

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
	"ledgerflow/ingest/internal/pipeerror"
)

// maxSuggestions caps the alternatives carried on a result.
const maxSuggestions = 5

// FeedbackSink records user category corrections.
type FeedbackSink interface {
	Append(ctx context.Context, record models.FeedbackRecord) error
}

// Engine runs the strategy cascade. Strategies are evaluated in the order
// given; the first whose confidence clears its own threshold decides the
// category, and every strategy's suggestions are merged into the result.
type Engine struct {
	strategies []Strategy
	feedback   FeedbackSink
	logger     logging.Logger
}

// NewEngine creates an Engine over the given cascade. The feedback sink may
// be nil when corrections are not recorded.
func NewEngine(strategies []Strategy, feedback FeedbackSink, logger logging.Logger) *Engine {
	return &Engine{strategies: strategies, feedback: feedback, logger: logger}
}

// Categorize runs the cascade for one transaction. When no strategy clears
// its own threshold, the strongest suggestion still decides the result, at
// its low confidence. An empty CategoryID means no strategy produced any
// candidate at all.
func (e *Engine) Categorize(ctx context.Context, tx *models.Transaction) (models.CategorizationResult, error) {
	result := models.CategorizationResult{Strategy: "none"}
	var suggestions []models.Suggestion

	for _, strategy := range e.strategies {
		outcome, err := strategy.Evaluate(ctx, tx)
		if err != nil {
			// One broken strategy must not take categorization down; log and
			// continue the cascade.
			e.logger.WithError(&pipeerror.CategorizationError{Strategy: strategy.Name(), Err: err}).
				Warn("Categorization strategy failed", logging.Field{Key: "strategy", Value: strategy.Name()})
			continue
		}
		suggestions = append(suggestions, outcome.Suggestions...)

		if outcome.CategoryID != "" && outcome.Confidence > strategy.Threshold() {
			result.CategoryID = outcome.CategoryID
			result.Confidence = outcome.Confidence
			result.Strategy = strategy.Name()
			result.Rule = outcome.Rule
			break
		}
	}

	result.Suggestions = rankSuggestions(suggestions)
	if result.CategoryID == "" && len(result.Suggestions) > 0 {
		// Nothing was confident; the best weak candidate is still a better
		// answer than nothing, and the low confidence tells the caller so.
		top := result.Suggestions[0]
		result.CategoryID = top.CategoryID
		result.Confidence = top.Confidence
		result.Strategy = top.Source
	}
	if result.CategoryID != "" {
		e.logger.Debug("Transaction categorized",
			logging.Field{Key: "category", Value: result.CategoryID},
			logging.Field{Key: "strategy", Value: result.Strategy},
			logging.Field{Key: "confidence", Value: result.Confidence})
	}
	return result, nil
}

// LearnFromCorrection records that the user replaced an assigned category.
// The correction feeds the history strategy indirectly, through the stored
// transaction's updated category; the feedback log itself is audit data.
func (e *Engine) LearnFromCorrection(ctx context.Context, tx *models.Transaction, oldCategoryID, newCategoryID string) error {
	if e.feedback == nil {
		return nil
	}
	record := models.FeedbackRecord{
		ID:            uuid.New().String(),
		UserID:        tx.UserID,
		TransactionID: tx.ID,
		Description:   tx.Description,
		Merchant:      tx.Merchant,
		Amount:        tx.Amount,
		OldCategoryID: oldCategoryID,
		NewCategoryID: newCategoryID,
		CreatedAt:     time.Now().UTC(),
	}
	return e.feedback.Append(ctx, record)
}

// rankSuggestions deduplicates by category (keeping the highest confidence),
// sorts descending and caps the list.
func rankSuggestions(all []models.Suggestion) []models.Suggestion {
	if len(all) == 0 {
		return nil
	}
	best := make(map[string]models.Suggestion, len(all))
	for _, s := range all {
		if existing, ok := best[s.CategoryID]; !ok || s.Confidence > existing.Confidence {
			best[s.CategoryID] = s
		}
	}
	out := make([]models.Suggestion, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
