package contracts

import (
	"context"

	"github.com/julienschmidt/httprouter"
)

type Handler interface {
	RegisterRoutes(*httprouter.Router)
}

// ShutdownHook releases a resource once the HTTP server has drained.
type ShutdownHook func(ctx context.Context) error
