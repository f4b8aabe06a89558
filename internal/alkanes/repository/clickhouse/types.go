package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE
//go:generate mockgen -destination=driver_mocks_test.go -package=$GOPACKAGE github.com/ClickHouse/clickhouse-go/v2/lib/driver Batch,Rows

type (
	Metrics interface {
		Observe(operation string, network model.Network, err error, started time.Time)
	}
	// Conn is the part of the ClickHouse connection the repository uses.
	Conn interface {
		PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
		Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
		Close() error
	}
)
