package pipeline

import (
	"context"
	"sync"

	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
)

// DefaultWorkers is the default size of the batch worker pool.
const DefaultWorkers = 4

// BatchSummary aggregates per-record outcomes of one batch run.
type BatchSummary struct {
	Total      int
	Stored     int
	Duplicates int
	Failed     int
	Results    []Result // indexed like the input records
}

// ProcessBatch runs the records through a bounded worker pool. Results are
// returned in input order regardless of completion order; a failing record
// never stops the others.
func (p *Pipeline) ProcessBatch(ctx context.Context, records []models.RawRecord, formatCode, accountID, userID string, workers int) BatchSummary {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(records) {
		workers = len(records)
	}

	summary := BatchSummary{
		Total:   len(records),
		Results: make([]Result, len(records)),
	}
	if len(records) == 0 {
		return summary
	}

	// One detection for the whole batch: a single export file never mixes
	// bank formats.
	if formatCode == "" {
		formatCode = p.normalizer.DetectFormat(records[0])
		p.logger.Info("Auto-detected bank format for batch",
			logging.Field{Key: "format", Value: formatCode},
			logging.Field{Key: "records", Value: len(records)})
	}

	type job struct {
		index  int
		record models.RawRecord
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				summary.Results[j.index] = p.Process(ctx, j.record, formatCode, accountID, userID)
			}
		}()
	}

	for i, record := range records {
		jobs <- job{index: i, record: record}
	}
	close(jobs)
	wg.Wait()

	for _, r := range summary.Results {
		switch r.Status {
		case StatusStored:
			summary.Stored++
		case StatusDuplicate:
			summary.Duplicates++
		default:
			summary.Failed++
		}
	}

	p.logger.Info("Batch ingestion completed",
		logging.Field{Key: "total", Value: summary.Total},
		logging.Field{Key: "stored", Value: summary.Stored},
		logging.Field{Key: "duplicates", Value: summary.Duplicates},
		logging.Field{Key: "failed", Value: summary.Failed})
	return summary
}
