package extension

import "context"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Bridge invokes provider[method](params...) inside the browser that hosts the wallet and
	// decodes the JSON result into result.
	Bridge interface {
		Call(ctx context.Context, provider, method string, params []any, result any) error
	}
)
