package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/okian/prizeboard/internal/adapters/mq/queue"
	"github.com/okian/prizeboard/internal/adapters/mq/worker"
	"github.com/okian/prizeboard/internal/domain/query"
	"github.com/okian/prizeboard/pkg/logger"
)

// BatchResult is the answer to one filter of a batch.
type BatchResult struct {
	Filter query.Filter       `json:"filter"`
	Table  *query.PlayerTable `json:"table,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// Batch runs Query for every filter on the worker pool. Results are in
// filter order; identical filters are computed once and share a table.
// The whole batch reads one dataset even if a reload lands meanwhile.
func (s *Service) Batch(ctx context.Context, filters []query.Filter) ([]BatchResult, error) {
	defer observe("batch", time.Now())

	s.mu.Lock()
	q, started := s.queue, s.started
	s.mu.Unlock()
	if !started {
		return nil, ErrNotStarted
	}
	if len(filters) > s.queueSize {
		return nil, fmt.Errorf("%w: %d filters, limit %d", ErrBatchTooLarge, len(filters), s.queueSize)
	}
	d := s.dataset.Load()

	slot := make([]int, len(filters))
	first := make(map[string]int, len(filters))
	tasks := make([]queue.Task, 0, len(filters))
	for i, f := range filters {
		key := f.Key()
		if j, ok := first[key]; ok {
			slot[i] = j
			continue
		}
		first[key] = len(tasks)
		slot[i] = len(tasks)
		f := f
		tasks = append(tasks, func(context.Context) (any, error) {
			return d.Facade.Query(f), nil
		})
	}

	batchID := uuid.NewString()
	s.logger.Debug(ctx, "running batch",
		logger.String("batch_id", batchID),
		logger.Int("filters", len(filters)),
		logger.Int("distinct", len(tasks)),
	)

	results, err := worker.RunBatch(ctx, q, batchID, tasks)
	if err != nil {
		return nil, fmt.Errorf("batch %s: %w", batchID, err)
	}

	out := make([]BatchResult, len(filters))
	for i, f := range filters {
		res := results[slot[i]]
		out[i] = BatchResult{Filter: f}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
			continue
		}
		table := res.Value.(query.PlayerTable)
		out[i].Table = &table
	}
	return out, nil
}
