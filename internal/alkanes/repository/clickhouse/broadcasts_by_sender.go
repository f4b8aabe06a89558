package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

// BroadcastsBySender returns the latest journal rows of sender, newest first.
func (r *Repository) BroadcastsBySender(
	ctx context.Context,
	network model.Network,
	sender string,
	limit uint64,
) (records []model.BroadcastRecord, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("broadcasts_by_sender", network, err, start)
	}()

	if limit == 0 {
		return nil, nil
	}

	const query = `
SELECT
	txid,
	operation,
	protostones,
	requirements,
	fee,
	vsize,
	fee_rate,
	input_count,
	output_count,
	broadcast_at
FROM alkanes_broadcasts FINAL
WHERE network = ? AND sender = ?
ORDER BY broadcast_at DESC, txid
LIMIT ?`

	rows, err := r.conn.Query(ctx, query, string(network), sender, limit)
	if err != nil {
		return nil, fmt.Errorf("query broadcasts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close broadcasts rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		rec := model.BroadcastRecord{Network: network, Sender: sender}
		if err = rows.Scan(
			&rec.TxID,
			&rec.Operation,
			&rec.Protostones,
			&rec.Requirements,
			&rec.Fee,
			&rec.VSize,
			&rec.FeeRate,
			&rec.InputCount,
			&rec.OutputCount,
			&rec.BroadcastAt,
		); err != nil {
			return nil, fmt.Errorf("scan broadcast: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate broadcasts: %w", err)
	}
	return records, nil
}
