package normalizer

import (
	"ledgerflow/ingest/internal/bankformat"
	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
	"ledgerflow/ingest/internal/pipeerror"
)

// BatchError pairs a failed record with its original batch index and input,
// so the caller can inspect or re-submit exactly what failed.
type BatchError struct {
	Index  int
	Record models.RawRecord
	Err    error
}

// BatchResult is the outcome of NormalizeBatch. Failures never abort the
// batch; they are collected here alongside the successes.
type BatchResult struct {
	Normalized []*models.Transaction
	Errors     []BatchError
	FormatUsed string
}

// NormalizeBatch processes every record independently. When formatCode is
// empty the format is auto-detected from the first record's headers and that
// single choice applies to the whole batch.
func (n *Normalizer) NormalizeBatch(records []models.RawRecord, formatCode string) BatchResult {
	result := BatchResult{FormatUsed: formatCode}
	if len(records) == 0 {
		if formatCode == "" {
			result.FormatUsed = bankformat.GenericCode
		}
		return result
	}

	if formatCode == "" {
		result.FormatUsed = n.registry.Detect(records[0].Headers(), records[0])
		n.logger.Info("Auto-detected bank format for batch",
			logging.Field{Key: "format", Value: result.FormatUsed},
			logging.Field{Key: "records", Value: len(records)})
	}

	for i, raw := range records {
		tx, err := n.Normalize(raw, result.FormatUsed)
		if err != nil {
			result.Errors = append(result.Errors, BatchError{
				Index:  i,
				Record: raw,
				Err:    &pipeerror.BatchItemError{Index: i, Err: err},
			})
			continue
		}
		result.Normalized = append(result.Normalized, tx)
	}

	if len(result.Errors) > 0 {
		n.logger.Warn("Batch normalization completed with failures",
			logging.Field{Key: "ok", Value: len(result.Normalized)},
			logging.Field{Key: "failed", Value: len(result.Errors)})
	}
	return result
}
