// Package duplicate decides whether an incoming transaction already exists
// in an account's history. Detection is two-tier: an authoritative
// external-id lookup that short-circuits everything, and a weighted fuzzy
// score over candidates inside a date window. Search is always scoped to a
// single account.
package duplicate

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"ledgerflow/ingest/internal/dateutils"
	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
	"ledgerflow/ingest/internal/textutils"
)

// TransactionStore is the read-only view of existing transactions the
// detector needs. The detector never writes; resolution is the caller's job.
type TransactionStore interface {
	// FindByExternalID returns the transaction in the account carrying the
	// exact external id, or nil when there is none.
	FindByExternalID(ctx context.Context, accountID, externalID string) (*models.Transaction, error)

	// FindInDateRange returns the account's transactions dated within
	// [from, to], inclusive.
	FindInDateRange(ctx context.Context, accountID string, from, to time.Time) ([]models.Transaction, error)
}

// Weights are the per-signal contributions to a fuzzy match score. They
// deliberately sum past 1.0 (the total is capped) so that strong partial
// agreement can still clear the threshold. The defaults are uncalibrated
// constants and are configurable for exactly that reason.
type Weights struct {
	Amount      float64 `mapstructure:"amount" yaml:"amount"`
	Date        float64 `mapstructure:"date" yaml:"date"`
	Description float64 `mapstructure:"description" yaml:"description"`
	Merchant    float64 `mapstructure:"merchant" yaml:"merchant"`
	ExternalID  float64 `mapstructure:"external_id" yaml:"external_id"`
}

// DefaultWeights returns the default signal weights.
func DefaultWeights() Weights {
	return Weights{
		Amount:      0.60,
		Date:        0.30,
		Description: 0.25,
		Merchant:    0.15,
		ExternalID:  0.10,
	}
}

// Similarity gates: a signal contributes only above its gate.
const (
	descriptionGate = 0.7
	merchantGate    = 0.8
	externalIDGate  = 0.6
)

// Options tune one detection call.
type Options struct {
	WindowDays int     // candidate window: plus/minus N days around the incoming date
	Threshold  float64 // minimum score to report a match
	Weights    Weights
	MaxMatches int // cap on reported matches
}

// DefaultOptions returns the standard 3-day window, 0.8 threshold, top-5
// matches configuration.
func DefaultOptions() Options {
	return Options{
		WindowDays: 3,
		Threshold:  0.8,
		Weights:    DefaultWeights(),
		MaxMatches: 5,
	}
}

// Detector scores incoming transactions against an account's history.
type Detector struct {
	store  TransactionStore
	logger logging.Logger
}

// NewDetector creates a Detector over the given store.
func NewDetector(store TransactionStore, logger logging.Logger) *Detector {
	return &Detector{store: store, logger: logger}
}

// Detect runs both tiers for one incoming transaction.
func (d *Detector) Detect(ctx context.Context, tx *models.Transaction, opts Options) (models.DetectionResult, error) {
	if opts.WindowDays <= 0 {
		opts.WindowDays = 3
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 0.8
	}
	if opts.MaxMatches <= 0 {
		opts.MaxMatches = 5
	}

	// Tier 1: the external id is authoritative. A hit ends the algorithm;
	// no other field matters once the bank says it is the same transaction.
	if tx.HasExternalID() {
		existing, err := d.store.FindByExternalID(ctx, tx.AccountID, tx.ExternalID)
		if err != nil {
			return models.DetectionResult{}, fmt.Errorf("external id lookup: %w", err)
		}
		if existing != nil {
			match := models.DuplicateMatch{
				TransactionID: existing.ID,
				Score:         1.0,
				Reasons:       []string{"identical external id"},
				MatchedFields: []string{"external_id"},
				Exact:         true,
			}
			return models.DetectionResult{
				IsDuplicate: true,
				Matches:     []models.DuplicateMatch{match},
				BestMatch:   &match,
				Confidence:  1.0,
			}, nil
		}
	}

	// Tier 2: fuzzy scoring over the date window.
	from := tx.Date.AddDate(0, 0, -opts.WindowDays)
	to := tx.Date.AddDate(0, 0, opts.WindowDays)
	candidates, err := d.store.FindInDateRange(ctx, tx.AccountID, from, to)
	if err != nil {
		return models.DetectionResult{}, fmt.Errorf("candidate window query: %w", err)
	}

	var matches []models.DuplicateMatch
	for i := range candidates {
		candidate := &candidates[i]
		if candidate.ID != "" && candidate.ID == tx.ID {
			continue
		}
		match := scoreCandidate(tx, candidate, opts)
		if match.Score >= opts.Threshold {
			matches = append(matches, match)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > opts.MaxMatches {
		matches = matches[:opts.MaxMatches]
	}

	result := models.DetectionResult{Matches: matches}
	if len(matches) > 0 {
		result.IsDuplicate = true
		result.BestMatch = &matches[0]
		result.Confidence = matches[0].Score
		d.logger.Debug("Duplicate candidates found",
			logging.Field{Key: "account", Value: tx.AccountID},
			logging.Field{Key: "matches", Value: len(matches)},
			logging.Field{Key: "best_score", Value: matches[0].Score})
	}
	return result, nil
}

// scoreCandidate computes the weighted sum of independent signals for one
// candidate, capped at 1.0.
func scoreCandidate(tx, candidate *models.Transaction, opts Options) models.DuplicateMatch {
	w := opts.Weights
	match := models.DuplicateMatch{TransactionID: candidate.ID}
	score := 0.0

	if tx.Amount.Equal(candidate.Amount) {
		score += w.Amount
		match.Reasons = append(match.Reasons, "exact amount match")
		match.MatchedFields = append(match.MatchedFields, "amount")
	}

	days := dateutils.DaysApart(tx.Date, candidate.Date)
	if days <= opts.WindowDays {
		// Linear decay: full weight on the same day, zero at the window edge.
		proximity := float64(opts.WindowDays-days) / float64(opts.WindowDays)
		if proximity > 0 {
			score += w.Date * proximity
			match.Reasons = append(match.Reasons, fmt.Sprintf("dates %d day(s) apart", days))
			match.MatchedFields = append(match.MatchedFields, "date")
		}
	}

	if sim := textutils.Similarity(tx.Description, candidate.Description); sim > descriptionGate {
		score += w.Description * sim
		match.Reasons = append(match.Reasons, fmt.Sprintf("description similarity %.2f", sim))
		match.MatchedFields = append(match.MatchedFields, "description")
	}

	if tx.Merchant != "" && candidate.Merchant != "" {
		if sim := textutils.Similarity(tx.Merchant, candidate.Merchant); sim > merchantGate {
			score += w.Merchant * sim
			match.Reasons = append(match.Reasons, fmt.Sprintf("merchant similarity %.2f", sim))
			match.MatchedFields = append(match.MatchedFields, "merchant")
		}
	}

	if tx.HasExternalID() && candidate.HasExternalID() {
		if tx.ExternalID == candidate.ExternalID {
			score += w.ExternalID
			match.Reasons = append(match.Reasons, "identical external id")
			match.MatchedFields = append(match.MatchedFields, "external_id")
		} else if sim := textutils.Similarity(tx.ExternalID, candidate.ExternalID); sim > externalIDGate {
			// Similar-but-not-identical ids happen when banks re-key an
			// export; worth a small bonus, never conclusive on its own.
			score += w.ExternalID * sim
			match.Reasons = append(match.Reasons, fmt.Sprintf("similar external id %.2f", sim))
			match.MatchedFields = append(match.MatchedFields, "external_id")
		}
	}

	// Round before comparing against thresholds so accumulated float error
	// cannot push a score just under a boundary.
	match.Score = models.Clamp01(math.Round(score*1e6) / 1e6)
	match.Exact = match.Score >= models.ExactDuplicateScore
	return match
}
