package reconcile

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultGroupSize is the number of orders reconciled concurrently.
const DefaultGroupSize = 5

// BatchProcessor runs a Processor over orders in fixed-size groups.
// Orders inside a group run concurrently; a group starts only after every
// order of the previous group has reached a terminal state.
type BatchProcessor struct {
	processor Processor
	groupSize int
	logger    *zap.Logger
}

// NewBatchProcessor creates a batch processor. A non-positive groupSize
// falls back to DefaultGroupSize.
func NewBatchProcessor(processor Processor, groupSize int, logger *zap.Logger) *BatchProcessor {
	if groupSize <= 0 {
		groupSize = DefaultGroupSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		processor: processor,
		groupSize: groupSize,
		logger:    logger,
	}
}

// GroupSize returns the configured group size.
func (b *BatchProcessor) GroupSize() int {
	return b.groupSize
}

// Run processes every order and returns the results in input order.
func (b *BatchProcessor) Run(ctx context.Context, orders []SourceOrder) []Result {
	results := make([]Result, len(orders))
	groups := Chunk(orders, b.groupSize)

	for i, group := range groups {
		offset := i * b.groupSize

		// Workers never fail the group; errgroup is only the barrier.
		var g errgroup.Group
		for j, order := range group {
			g.Go(func() error {
				results[offset+j] = b.processor.Process(ctx, order)
				return nil
			})
		}
		_ = g.Wait()

		b.logger.Debug("Group completed",
			zap.Int("group", i+1),
			zap.Int("groups", len(groups)),
			zap.Int("size", len(group)),
		)
	}

	return results
}

// Chunk splits items into consecutive groups of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultGroupSize
	}
	groups := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		groups = append(groups, items[start:end])
	}
	return groups
}
