// Package correlation carries the id that ties an HTTP request to the events
// it publishes.
package correlation

import (
	"context"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type key struct{}

// WithID stores id on ctx, overriding the chi request id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, key{}, id)
}

// ID returns the id set by WithID, else chi's request id, else "".
func ID(ctx context.Context) string {
	if id, ok := ctx.Value(key{}).(string); ok && id != "" {
		return id
	}
	return chimiddleware.GetReqID(ctx)
}
