package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
	"github.com/goodnatureofminers/alkanes-txkit/pkg/batcher"
	"go.uber.org/zap"
)

const (
	journalFlushTimeout = 10 * time.Second
	journalRPS          = 10
)

// Journal buffers broadcast records and writes them to ClickHouse in batches.
type Journal struct {
	batcher *batcher.Batcher[model.BroadcastRecord]
}

func NewJournal(repo *Repository, logger *zap.Logger, flushSize int, flushInterval time.Duration) *Journal {
	logger = logger.Named("journal")
	return &Journal{
		batcher: batcher.New(
			logger,
			repo.InsertBroadcasts,
			flushSize,
			flushInterval,
			journalRPS,
			batcher.WithErrorHandler(func(records []model.BroadcastRecord, err error) {
				for _, rec := range records {
					logger.Warn("broadcast record dropped",
						zap.String("txid", rec.TxID),
						zap.String("operation", rec.Operation),
						zap.Error(err),
					)
				}
			}),
			batcher.WithFlushTimeout[model.BroadcastRecord](journalFlushTimeout),
		),
	}
}

func (j *Journal) Start(ctx context.Context) {
	j.batcher.Start(ctx)
}

// Stop writes out every queued record.
func (j *Journal) Stop() {
	j.batcher.Stop()
}

// Record queues rec for the next batch.
func (j *Journal) Record(ctx context.Context, rec model.BroadcastRecord) error {
	return j.batcher.Add(ctx, rec)
}
