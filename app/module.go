package app

import (
	"context"
	"sync"
)

// Module is a unit of the application with a background lifecycle.
type Module interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
	Close() error
}
