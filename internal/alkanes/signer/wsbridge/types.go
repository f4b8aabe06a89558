package wsbridge

import "time"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// BridgeMetrics records metrics for bridged wallet calls.
	BridgeMetrics interface {
		Observe(provider, method string, err error, started time.Time)
		SetConnected(connected bool)
	}
)
