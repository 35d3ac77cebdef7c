package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ledgerflow/ingest/internal/models"
)

// MemoryTransactionStore keeps transactions in memory, indexed by account.
// It backs the CLI runs and the tests; a database-backed implementation can
// replace it behind the same method set.
type MemoryTransactionStore struct {
	mu           sync.RWMutex
	byID         map[string]*models.Transaction
	byAccount    map[string][]string
	byExternalID map[string]string // accountID + "\x00" + externalID -> txID
}

// NewMemoryTransactionStore creates an empty store.
func NewMemoryTransactionStore() *MemoryTransactionStore {
	return &MemoryTransactionStore{
		byID:         make(map[string]*models.Transaction),
		byAccount:    make(map[string][]string),
		byExternalID: make(map[string]string),
	}
}

func externalKey(accountID, externalID string) string {
	return accountID + "\x00" + externalID
}

// Save stores a transaction, assigning an ID when it has none. A second
// transaction with the same account and external id is rejected.
func (s *MemoryTransactionStore) Save(ctx context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if tx.HasExternalID() {
		key := externalKey(tx.AccountID, tx.ExternalID)
		if existing, ok := s.byExternalID[key]; ok && existing != tx.ID {
			return fmt.Errorf("external id %q already stored as %s", tx.ExternalID, existing)
		}
		s.byExternalID[key] = tx.ID
	}

	stored := *tx
	if _, ok := s.byID[tx.ID]; !ok {
		s.byAccount[tx.AccountID] = append(s.byAccount[tx.AccountID], tx.ID)
	}
	s.byID[tx.ID] = &stored
	return nil
}

// Get returns a copy of the transaction with the given ID, or nil.
func (s *MemoryTransactionStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	out := *tx
	return &out, nil
}

// Delete removes a transaction and its indexes. Deleting an unknown ID is a
// no-op.
func (s *MemoryTransactionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.byID[id]
	if !ok {
		return nil
	}
	delete(s.byID, id)
	if tx.HasExternalID() {
		delete(s.byExternalID, externalKey(tx.AccountID, tx.ExternalID))
	}
	ids := s.byAccount[tx.AccountID]
	for i, candidate := range ids {
		if candidate == id {
			s.byAccount[tx.AccountID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// FindByExternalID returns the account's transaction with the exact external
// id, or nil when none exists.
func (s *MemoryTransactionStore) FindByExternalID(ctx context.Context, accountID, externalID string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byExternalID[externalKey(accountID, externalID)]
	if !ok {
		return nil, nil
	}
	out := *s.byID[id]
	return &out, nil
}

// FindInDateRange returns the account's transactions dated within [from, to],
// inclusive, sorted by date ascending.
func (s *MemoryTransactionStore) FindInDateRange(ctx context.Context, accountID string, from, to time.Time) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transaction
	for _, id := range s.byAccount[accountID] {
		tx := s.byID[id]
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		out = append(out, *tx)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ListAccount returns every transaction in the account, sorted by date
// ascending.
func (s *MemoryTransactionStore) ListAccount(ctx context.Context, accountID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0, len(s.byAccount[accountID]))
	for _, id := range s.byAccount[accountID] {
		out = append(out, *s.byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ListRecentCategorized returns the user's most recent categorized
// transactions of the given type, newest first, capped at limit.
func (s *MemoryTransactionStore) ListRecentCategorized(ctx context.Context, userID string, txType models.TransactionType, limit int) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range s.byID {
		if tx.UserID != userID || tx.CategoryID == "" {
			continue
		}
		if txType != "" && tx.Type != txType {
			continue
		}
		out = append(out, *tx)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
