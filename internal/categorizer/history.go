package categorizer

import (
	"context"
	"fmt"
	"sort"

	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
	"ledgerflow/ingest/internal/textutils"
)

// historyThreshold is deliberately the lowest bar in the cascade: history
// evidence is circumstantial, so it only decides when nothing better fired.
const historyThreshold = 0.5

// defaultHistoryLimit caps how much history one evaluation reads.
const defaultHistoryLimit = 100

// amountSimilarityGate: amounts only count as evidence when nearly equal.
const amountSimilarityGate = 0.8

// HistorySource provides previously categorized transactions for a user.
type HistorySource interface {
	ListRecentCategorized(ctx context.Context, userID string, txType models.TransactionType, limit int) ([]models.Transaction, error)
}

// HistoryStrategy categorizes by analogy with the user's own past
// transactions. Similar past transactions vote for their category; the
// category with the strongest average similarity wins.
type HistoryStrategy struct {
	source HistorySource
	logger logging.Logger
	limit  int
}

// NewHistoryStrategy creates a HistoryStrategy over the given source.
func NewHistoryStrategy(source HistorySource, logger logging.Logger) *HistoryStrategy {
	return &HistoryStrategy{source: source, logger: logger, limit: defaultHistoryLimit}
}

// SetLimit overrides how many historical transactions one evaluation reads.
func (s *HistoryStrategy) SetLimit(limit int) {
	if limit > 0 {
		s.limit = limit
	}
}

func (s *HistoryStrategy) Name() string       { return "history" }
func (s *HistoryStrategy) Threshold() float64 { return historyThreshold }

// Evaluate votes past transactions into category buckets weighted by
// similarity, then averages each bucket.
func (s *HistoryStrategy) Evaluate(ctx context.Context, tx *models.Transaction) (Outcome, error) {
	history, err := s.source.ListRecentCategorized(ctx, tx.UserID, tx.Type, s.limit)
	if err != nil {
		return Outcome{}, fmt.Errorf("load history for user %s: %w", tx.UserID, err)
	}
	if len(history) == 0 {
		return Outcome{}, nil
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range history {
		sim := transactionSimilarity(tx, &history[i])
		if sim <= 0 {
			continue
		}
		sums[history[i].CategoryID] += sim
		counts[history[i].CategoryID]++
	}
	if len(sums) == 0 {
		return Outcome{}, nil
	}

	type bucket struct {
		categoryID string
		avg        float64
	}
	buckets := make([]bucket, 0, len(sums))
	for id, sum := range sums {
		buckets = append(buckets, bucket{categoryID: id, avg: sum / float64(counts[id])})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].avg != buckets[j].avg {
			return buckets[i].avg > buckets[j].avg
		}
		return buckets[i].categoryID < buckets[j].categoryID
	})

	out := Outcome{
		CategoryID: buckets[0].categoryID,
		Confidence: models.Clamp01(buckets[0].avg),
	}
	for _, b := range buckets {
		out.Suggestions = append(out.Suggestions, models.Suggestion{
			CategoryID: b.categoryID,
			Confidence: models.Clamp01(b.avg),
			Source:     s.Name(),
		})
	}
	return out, nil
}

// transactionSimilarity blends description word overlap, merchant equality
// and amount proximity into a single 0..1 analogy score.
func transactionSimilarity(a, b *models.Transaction) float64 {
	score := 0.6 * textutils.WordOverlap(a.Description, b.Description)

	if a.Merchant != "" && b.Merchant != "" &&
		textutils.Similarity(a.Merchant, b.Merchant) == 1.0 {
		score += 0.3
	}

	if sim := amountSimilarity(a, b); sim > amountSimilarityGate {
		score += 0.1 * sim
	}
	return models.Clamp01(score)
}

// amountSimilarity is the ratio of the smaller amount to the larger, 1.0 for
// equal amounts. Zero or mismatched signs score zero.
func amountSimilarity(a, b *models.Transaction) float64 {
	if a.Amount.IsZero() || b.Amount.IsZero() {
		return 0
	}
	small, large := a.Amount, b.Amount
	if small.GreaterThan(large) {
		small, large = large, small
	}
	ratio, _ := small.Div(large).Float64()
	return ratio
}
