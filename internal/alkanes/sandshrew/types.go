package sandshrew

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)
