package importer

import (
	"context"
	"runtime"
	"sync"

	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"
)

// concurrentThreshold is the row count from which the worker pool is used.
const concurrentThreshold = 100

// rowOutcome is the result of transforming one data row.
type rowOutcome struct {
	tx  models.Transaction
	err error
	// done is false for rows skipped after cancellation.
	done bool
}

// ConcurrentProcessor maps rows in parallel when the batch is large enough
// to benefit, keeping outcomes in input order.
type ConcurrentProcessor struct {
	logger      logging.Logger
	workerCount int
}

// NewConcurrentProcessor creates a processor. workers <= 0 means one worker
// per CPU.
func NewConcurrentProcessor(workers int, logger logging.Logger) *ConcurrentProcessor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ConcurrentProcessor{
		logger:      logger,
		workerCount: workers,
	}
}

// Process applies fn to every record. outcomes[i] always belongs to
// records[i] whatever the scheduling.
func (cp *ConcurrentProcessor) Process(ctx context.Context, records [][]string, fn func(int, []string) (models.Transaction, error)) []rowOutcome {
	if len(records) < concurrentThreshold || cp.workerCount == 1 {
		return cp.processSequential(ctx, records, fn)
	}
	return cp.processConcurrent(ctx, records, fn)
}

func (cp *ConcurrentProcessor) processSequential(ctx context.Context, records [][]string, fn func(int, []string) (models.Transaction, error)) []rowOutcome {
	outcomes := make([]rowOutcome, len(records))
	for i, rec := range records {
		if ctx.Err() != nil {
			break
		}
		tx, err := fn(i, rec)
		outcomes[i] = rowOutcome{tx: tx, err: err, done: true}
	}
	return outcomes
}

// indexedOutcome preserves the original position of a row.
type indexedOutcome struct {
	index   int
	outcome rowOutcome
}

func (cp *ConcurrentProcessor) processConcurrent(ctx context.Context, records [][]string, fn func(int, []string) (models.Transaction, error)) []rowOutcome {
	indexChan := make(chan int, cp.workerCount)
	resultChan := make(chan indexedOutcome, len(records))

	var wg sync.WaitGroup
	for i := 0; i < cp.workerCount; i++ {
		wg.Add(1)
		go cp.worker(ctx, &wg, records, indexChan, resultChan, fn)
	}

	go func() {
		defer close(indexChan)
		for i := range records {
			select {
			case indexChan <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	outcomes := make([]rowOutcome, len(records))
	for result := range resultChan {
		outcomes[result.index] = result.outcome
	}

	cp.logger.Debug("Concurrent processing completed",
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: "workers", Value: cp.workerCount})

	return outcomes
}

func (cp *ConcurrentProcessor) worker(ctx context.Context, wg *sync.WaitGroup, records [][]string, indexChan <-chan int, resultChan chan<- indexedOutcome, fn func(int, []string) (models.Transaction, error)) {
	defer wg.Done()

	for {
		select {
		case i, ok := <-indexChan:
			if !ok {
				return
			}
			tx, err := fn(i, records[i])
			// resultChan is buffered for every record, so this never blocks.
			resultChan <- indexedOutcome{index: i, outcome: rowOutcome{tx: tx, err: err, done: true}}
		case <-ctx.Done():
			return
		}
	}
}
