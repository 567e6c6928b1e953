package worker

import (
	"context"
	"fmt"

	"github.com/okian/prizeboard/internal/adapters/mq/queue"
)

// Enqueuer accepts jobs for the pool.
type Enqueuer interface {
	Enqueue(ctx context.Context, j queue.Job) bool
}

// RunBatch enqueues one job per task and waits for all of them. Results
// are returned in task order. If the queue rejects a job the jobs already
// accepted still run; their results are discarded.
func RunBatch(ctx context.Context, q Enqueuer, batchID string, tasks []queue.Task) ([]queue.Result, error) {
	if len(tasks) == 0 {
		return []queue.Result{}, nil
	}

	done := make(chan queue.Result, len(tasks))
	for i, task := range tasks {
		ok := q.Enqueue(ctx, queue.Job{BatchID: batchID, Index: i, Run: task, Done: done})
		if !ok {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("batch %s job %d: %w", batchID, i, queue.ErrFull)
		}
	}

	results := make([]queue.Result, len(tasks))
	for range tasks {
		select {
		case res := <-done:
			results[res.Index] = res
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return results, nil
}
