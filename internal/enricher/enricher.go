// Package enricher augments transactions with merchant, location and
// payment-method metadata from local reference data. Enrichment is best
// effort and never blocks ingestion: failure to recognize anything yields an
// empty result, not an error.
package enricher

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/time/rate"

	"ledgerflow/ingest/internal/categorizer"
	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
	"ledgerflow/ingest/internal/textutils"
)

// Merchant recognition confidences, ordered by signal strength: a dictionary
// substring hit, a fuzzy token match, and a bare pattern extraction.
const (
	directMatchConfidence  = 0.9
	fuzzyMatchConfidence   = 0.6
	patternMatchConfidence = 0.4
)

// fuzzyTokenGate is the per-token similarity needed for a fuzzy dictionary hit.
const fuzzyTokenGate = 0.85

// DefaultMinConfidence is the default bar for marking a result Enriched.
const DefaultMinConfidence = 0.3

// CategoryHinter proposes a category from description and amount signals.
// The keyword categorization strategy satisfies it, so the enricher's hints
// and the engine's keyword scoring stay one implementation.
type CategoryHinter interface {
	Evaluate(ctx context.Context, tx *models.Transaction) (categorizer.Outcome, error)
}

// Enricher looks up transactions against the merchant dictionary and infers
// location and payment metadata. The rate limiter exists for deployments that
// back the dictionary with a remote service; a nil limiter means no waiting.
type Enricher struct {
	merchants     map[string]models.MerchantInfo
	merchantKeys  []string // sorted, for deterministic iteration
	limiter       *rate.Limiter
	logger        logging.Logger
	minConfidence float64
	hinter        CategoryHinter
}

// New creates an Enricher over the given merchant dictionary. Keys are
// normalized to lowercase.
func New(merchants map[string]models.MerchantInfo, limiter *rate.Limiter, logger logging.Logger) *Enricher {
	normalized := make(map[string]models.MerchantInfo, len(merchants))
	keys := make([]string, 0, len(merchants))
	for k, v := range merchants {
		lower := strings.ToLower(strings.TrimSpace(k))
		if lower == "" {
			continue
		}
		normalized[lower] = v
		keys = append(keys, lower)
	}
	sort.Strings(keys)
	return &Enricher{
		merchants:     normalized,
		merchantKeys:  keys,
		limiter:       limiter,
		logger:        logger,
		minConfidence: DefaultMinConfidence,
	}
}

// SetMinConfidence overrides the Enriched threshold.
func (e *Enricher) SetMinConfidence(min float64) {
	e.minConfidence = min
}

// SetCategoryHinter installs the fallback category hinter used when the
// merchant dictionary carries no category.
func (e *Enricher) SetCategoryHinter(hinter CategoryHinter) {
	e.hinter = hinter
}

// Enrich inspects one transaction and returns whatever metadata could be
// inferred. The only error path is rate-limiter cancellation.
func (e *Enricher) Enrich(ctx context.Context, tx *models.Transaction) (models.EnrichmentResult, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return models.EnrichmentResult{}, fmt.Errorf("enrichment rate limit: %w", err)
		}
	}

	result := models.EnrichmentResult{Payment: models.PaymentInfo{Method: models.PaymentUnknown}}

	merchant, confidence, source := e.recognizeMerchant(tx)
	if merchant != nil {
		result.Merchant = merchant
		result.CategoryHint = merchant.Category
		result.Confidence += confidence
		result.Sources = append(result.Sources, source)
	}

	if loc := InferLocation(tx.Location, tx.Description); loc != nil {
		result.Location = loc
		result.Confidence += 0.2
		result.Sources = append(result.Sources, "location")
	}

	if payment := InferPayment(tx.Description); payment.Method != models.PaymentUnknown {
		result.Payment = payment
		result.Confidence += 0.1
		result.Sources = append(result.Sources, "payment")
	}

	// No category from the dictionary: fall back to the keyword scoring the
	// categorization engine uses, so description and amount signals still
	// produce a hint.
	if result.CategoryHint == "" && e.hinter != nil {
		if outcome, err := e.hinter.Evaluate(ctx, tx); err != nil {
			e.logger.WithError(err).Debug("Category hint evaluation failed")
		} else if outcome.CategoryID != "" {
			result.CategoryHint = outcome.CategoryID
			result.Sources = append(result.Sources, "category_keywords")
		}
	}

	result.Confidence = models.Clamp01(result.Confidence)
	result.Enriched = result.Confidence > e.minConfidence
	if result.Enriched {
		e.logger.Debug("Transaction enriched",
			logging.Field{Key: "confidence", Value: result.Confidence},
			logging.Field{Key: "sources", Value: strings.Join(result.Sources, ",")})
	}
	return result, nil
}

// recognizeMerchant tries the dictionary directly, then fuzzily, then falls
// back to bare pattern extraction from the description.
func (e *Enricher) recognizeMerchant(tx *models.Transaction) (*models.MerchantInfo, float64, string) {
	haystack := strings.ToLower(tx.Description)
	if tx.Merchant != "" {
		haystack += " " + strings.ToLower(tx.Merchant)
	}

	// Direct: a dictionary key appearing verbatim in the text. Keys are
	// iterated in sorted order so ties resolve deterministically.
	for _, key := range e.merchantKeys {
		if strings.Contains(haystack, key) {
			info := e.merchants[key]
			return &info, directMatchConfidence, "merchant_direct"
		}
	}

	// Fuzzy: any text token close to a dictionary key.
	tokens := textutils.Tokenize(haystack)
	for _, key := range e.merchantKeys {
		for _, token := range tokens {
			if textutils.Similarity(key, token) >= fuzzyTokenGate {
				info := e.merchants[key]
				return &info, fuzzyMatchConfidence, "merchant_fuzzy"
			}
		}
	}

	// Pattern extraction: no dictionary hit, but the description carries a
	// merchant-shaped fragment worth surfacing.
	if raw := textutils.ExtractMerchant(tx.Description); raw != "" {
		info := models.MerchantInfo{DisplayName: textutils.TitleCase(raw)}
		return &info, patternMatchConfidence, "merchant_pattern"
	}
	return nil, 0, ""
}
