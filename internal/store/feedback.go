package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"ledgerflow/ingest/internal/models"
)

// FeedbackLog is an append-only record of user category corrections, kept in
// memory and optionally mirrored to a YAML file. It feeds offline analysis of
// categorization quality.
type FeedbackLog struct {
	mu      sync.RWMutex
	records []models.FeedbackRecord
	path    string // empty means in-memory only
}

// feedbackRow is the YAML projection of a FeedbackRecord. Amounts are stored
// as strings; decimal.Decimal has no YAML representation of its own.
type feedbackRow struct {
	ID            string    `yaml:"id"`
	UserID        string    `yaml:"user_id"`
	TransactionID string    `yaml:"transaction_id,omitempty"`
	Description   string    `yaml:"description"`
	Merchant      string    `yaml:"merchant,omitempty"`
	Amount        string    `yaml:"amount"`
	OldCategoryID string    `yaml:"old_category_id,omitempty"`
	NewCategoryID string    `yaml:"new_category_id"`
	CreatedAt     time.Time `yaml:"created_at"`
}

type feedbackDoc struct {
	Feedback []feedbackRow `yaml:"feedback"`
}

func toRow(r models.FeedbackRecord) feedbackRow {
	return feedbackRow{
		ID:            r.ID,
		UserID:        r.UserID,
		TransactionID: r.TransactionID,
		Description:   r.Description,
		Merchant:      r.Merchant,
		Amount:        r.Amount.String(),
		OldCategoryID: r.OldCategoryID,
		NewCategoryID: r.NewCategoryID,
		CreatedAt:     r.CreatedAt,
	}
}

func fromRow(row feedbackRow) (models.FeedbackRecord, error) {
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return models.FeedbackRecord{}, fmt.Errorf("feedback record %s: bad amount %q: %w", row.ID, row.Amount, err)
	}
	return models.FeedbackRecord{
		ID:            row.ID,
		UserID:        row.UserID,
		TransactionID: row.TransactionID,
		Description:   row.Description,
		Merchant:      row.Merchant,
		Amount:        amount,
		OldCategoryID: row.OldCategoryID,
		NewCategoryID: row.NewCategoryID,
		CreatedAt:     row.CreatedAt,
	}, nil
}

// NewFeedbackLog creates an in-memory feedback log.
func NewFeedbackLog() *FeedbackLog {
	return &FeedbackLog{}
}

// NewFeedbackLogFile creates a feedback log persisted to the given YAML file,
// loading any existing records.
func NewFeedbackLogFile(path string) (*FeedbackLog, error) {
	log := &FeedbackLog{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return log, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read feedback log %s: %w", path, err)
	}
	var doc feedbackDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse feedback log %s: %w", path, err)
	}
	for _, row := range doc.Feedback {
		record, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		log.records = append(log.records, record)
	}
	return log, nil
}

// Append records one correction. Existing records are never modified.
func (l *FeedbackLog) Append(ctx context.Context, record models.FeedbackRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	if l.path == "" {
		return nil
	}
	return l.flushLocked()
}

// ForUser returns the user's corrections, oldest first.
func (l *FeedbackLog) ForUser(ctx context.Context, userID string) ([]models.FeedbackRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []models.FeedbackRecord
	for _, r := range l.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Len returns the total number of recorded corrections.
func (l *FeedbackLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

func (l *FeedbackLog) flushLocked() error {
	doc := feedbackDoc{Feedback: make([]feedbackRow, 0, len(l.records))}
	for _, r := range l.records {
		doc.Feedback = append(doc.Feedback, toRow(r))
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal feedback log: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o600); err != nil {
		return fmt.Errorf("write feedback log %s: %w", l.path, err)
	}
	return nil
}
