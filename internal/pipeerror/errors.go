// Package pipeerror defines the typed errors the ingestion pipeline reports.
// Per-record failures are non-fatal to a batch; these types carry enough
// context (index, field, raw value) for the caller to retry or flag a record
// for manual review.
package pipeerror

import "fmt"

// NormalizeError reports a record that could not be converted to the
// canonical transaction shape.
type NormalizeError struct {
	Format string
	Field  string
	Value  string
	Err    error
}

func (e *NormalizeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: failed to normalize %s=%q: %v", e.Format, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: failed to normalize record: %v", e.Format, e.Err)
}

func (e *NormalizeError) Unwrap() error {
	return e.Err
}

// BatchItemError ties a failure back to the record's original position in
// the input batch.
type BatchItemError struct {
	Index int
	Err   error
}

func (e *BatchItemError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *BatchItemError) Unwrap() error {
	return e.Err
}

// CategorizationError reports a strategy failure. The engine logs these and
// moves on; categorization never aborts a record.
type CategorizationError struct {
	Strategy string
	Err      error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("categorization strategy %s: %v", e.Strategy, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}
