package categorizer

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
	"ledgerflow/ingest/internal/textutils"
)

// Keyword-match confidences. A whole-word hit is a much stronger signal than
// a substring hit ("CAR" inside "CARPET" must not categorize as transport).
const (
	keywordThreshold      = 0.6
	wordMatchConfidence   = 0.9
	substrMatchConfidence = 0.7
)

// KeywordStrategy matches category keywords against the transaction's
// description and merchant. It also applies weak amount heuristics that can
// nudge a suggestion but never clear the acceptance threshold on their own.
type KeywordStrategy struct {
	categories []models.Category
	logger     logging.Logger
}

// NewKeywordStrategy creates a KeywordStrategy over the given category set.
func NewKeywordStrategy(categories []models.Category, logger logging.Logger) *KeywordStrategy {
	return &KeywordStrategy{categories: categories, logger: logger}
}

func (s *KeywordStrategy) Name() string       { return "keywords" }
func (s *KeywordStrategy) Threshold() float64 { return keywordThreshold }

// Evaluate scores every category and returns the best, with the rest as
// suggestions.
func (s *KeywordStrategy) Evaluate(ctx context.Context, tx *models.Transaction) (Outcome, error) {
	haystack := strings.ToLower(tx.Description)
	if tx.Merchant != "" {
		haystack += " " + strings.ToLower(tx.Merchant)
	}
	words := textutils.Tokenize(haystack)
	wordSet := make(map[string]bool, len(words))
	for _, w := range words {
		wordSet[w] = true
	}

	type scored struct {
		categoryID string
		confidence float64
		keyword    string
	}
	var candidates []scored
	for _, cat := range s.categories {
		if cat.Type != "" && tx.Type != "" && cat.Type != tx.Type {
			continue
		}
		best := scored{categoryID: cat.ID}
		for _, kw := range cat.Keywords {
			kwLower := strings.ToLower(kw)
			confidence := 0.0
			switch {
			case wordSet[kwLower]:
				confidence = wordMatchConfidence
			case strings.Contains(haystack, kwLower):
				confidence = substrMatchConfidence
			}
			if confidence > best.confidence {
				best.confidence = confidence
				best.keyword = kw
			}
		}
		best.confidence += amountHeuristic(cat.ID, tx)
		if best.confidence > 0 {
			best.confidence = models.Clamp01(best.confidence)
			candidates = append(candidates, best)
		}
	}

	if len(candidates) == 0 {
		return Outcome{}, nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	out := Outcome{
		CategoryID: candidates[0].categoryID,
		Confidence: candidates[0].confidence,
		Rule:       candidates[0].keyword,
	}
	for _, c := range candidates {
		out.Suggestions = append(out.Suggestions, models.Suggestion{
			CategoryID: c.categoryID,
			Confidence: c.confidence,
			Source:     s.Name(),
		})
	}
	return out, nil
}

// amountHeuristic returns a small bonus when the transaction amount fits the
// typical range for a category. Weak by construction: a bonus alone stays
// well below the acceptance threshold.
func amountHeuristic(categoryID string, tx *models.Transaction) float64 {
	if tx.Type != models.TypeExpense {
		return 0
	}
	switch categoryID {
	case "dining":
		if tx.Amount.LessThan(decimal.NewFromInt(10)) {
			return 0.1
		}
	case "groceries":
		if tx.Amount.GreaterThanOrEqual(decimal.NewFromInt(15)) && tx.Amount.LessThan(decimal.NewFromInt(200)) {
			return 0.05
		}
	case "rent":
		if tx.Amount.GreaterThan(decimal.NewFromInt(400)) {
			return 0.1
		}
	}
	return 0
}
