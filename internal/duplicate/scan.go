package duplicate

import (
	"context"
	"fmt"
	"sort"

	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
)

// AccountLister extends the store with a whole-account listing, needed only
// for offline scans.
type AccountLister interface {
	TransactionStore
	ListAccount(ctx context.Context, accountID string) ([]models.Transaction, error)
}

// ScanReport summarizes an offline duplicate scan over one account.
type ScanReport struct {
	AccountID string
	Scanned   int
	Pairs     []models.DuplicatePair
	Exact     int
	Review    int
}

// Scanner runs offline duplicate sweeps over an account's full history,
// pairing up transactions the online detector would have flagged.
type Scanner struct {
	store  AccountLister
	logger logging.Logger
}

// NewScanner creates a Scanner over the given store.
func NewScanner(store AccountLister, logger logging.Logger) *Scanner {
	return &Scanner{store: store, logger: logger}
}

// ScanAccount scores every ordered pair of transactions in the account and
// reports those at or above the threshold. Each pair appears once, keyed by
// the earlier transaction as the keeper.
func (s *Scanner) ScanAccount(ctx context.Context, accountID string, opts Options) (ScanReport, error) {
	if opts.WindowDays <= 0 {
		opts.WindowDays = 3
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 0.8
	}

	txs, err := s.store.ListAccount(ctx, accountID)
	if err != nil {
		return ScanReport{}, fmt.Errorf("list account %s: %w", accountID, err)
	}

	// Oldest first, so the keeper in every pair is the earlier record.
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})

	report := ScanReport{AccountID: accountID, Scanned: len(txs)}
	seen := make(map[string]bool)
	for i := range txs {
		for j := i + 1; j < len(txs); j++ {
			if txs[i].HasExternalID() && txs[i].ExternalID == txs[j].ExternalID {
				pairKey := txs[i].ID + "/" + txs[j].ID
				if seen[pairKey] {
					continue
				}
				seen[pairKey] = true
				report.Pairs = append(report.Pairs, models.DuplicatePair{
					KeepID:   txs[i].ID,
					RemoveID: txs[j].ID,
					Match: models.DuplicateMatch{
						TransactionID: txs[j].ID,
						Score:         1.0,
						Reasons:       []string{"identical external id"},
						MatchedFields: []string{"external_id"},
						Exact:         true,
					},
				})
				report.Exact++
				continue
			}

			match := scoreCandidate(&txs[i], &txs[j], opts)
			if match.Score < opts.Threshold {
				continue
			}
			pairKey := txs[i].ID + "/" + txs[j].ID
			if seen[pairKey] {
				continue
			}
			seen[pairKey] = true
			report.Pairs = append(report.Pairs, models.DuplicatePair{
				KeepID:   txs[i].ID,
				RemoveID: txs[j].ID,
				Match:    match,
			})
			if match.Exact {
				report.Exact++
			} else {
				report.Review++
			}
		}
	}

	s.logger.Info("Account duplicate scan completed",
		logging.Field{Key: "account", Value: accountID},
		logging.Field{Key: "scanned", Value: report.Scanned},
		logging.Field{Key: "exact", Value: report.Exact},
		logging.Field{Key: "review", Value: report.Review})
	return report, nil
}

// ExactPairs filters a report down to pairs safe to auto-resolve. Fuzzy
// matches stay out: those need a human decision.
func (r ScanReport) ExactPairs() []models.DuplicatePair {
	var out []models.DuplicatePair
	for _, p := range r.Pairs {
		if p.Match.Exact {
			out = append(out, p)
		}
	}
	return out
}
