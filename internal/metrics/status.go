// Package metrics holds the prometheus collectors shared by the binaries.
package metrics

import "github.com/goodnatureofminers/alkanes-txkit/internal/alkanes/model"

const (
	namespace = "alkanes_txkit"
	unknown   = "unknown"
)

// status buckets an outcome: timeouts and transient network failures are told apart from other
// errors because only they are worth retrying.
func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case model.IsTimeout(err):
		return "timeout"
	case model.IsTransient(err):
		return "transient"
	default:
		return "error"
	}
}

func orUnknown(v string) string {
	if v == "" {
		return unknown
	}
	return v
}
