package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// InsertBroadcasts stores journal rows in ClickHouse.
func (r *Repository) InsertBroadcasts(ctx context.Context, records []model.BroadcastRecord) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_broadcasts", firstNetwork(records), err, start)
	}()

	if len(records) == 0 {
		return nil
	}

	const query = `
INSERT INTO alkanes_broadcasts (
	network,
	txid,
	operation,
	protostones,
	requirements,
	fee,
	vsize,
	fee_rate,
	input_count,
	output_count,
	sender,
	broadcast_at
) VALUES`

	batch, err := r.conn.PrepareBatch(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare broadcasts batch: %w", err)
	}

	for _, rec := range records {
		if err = batch.Append(
			string(rec.Network),
			rec.TxID,
			rec.Operation,
			rec.Protostones,
			rec.Requirements,
			rec.Fee,
			rec.VSize,
			rec.FeeRate,
			rec.InputCount,
			rec.OutputCount,
			rec.Sender,
			rec.BroadcastAt,
		); err != nil {
			return fmt.Errorf("append broadcast: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert broadcasts: %w", err)
	}
	return nil
}

func firstNetwork(records []model.BroadcastRecord) model.Network {
	if len(records) == 0 {
		return ""
	}
	return records[0].Network
}
