package servers

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"blautech-admin/pkg/resources"
)

// baseServer holds the process open and releases shared resources on stop.
type baseServer struct {
	name      string
	done      chan struct{}
	stopOnce  sync.Once
	closables []resources.Closable
}

func NewBaseServer(name string, closables ...resources.Closable) Server {
	return &baseServer{
		name:      name,
		done:      make(chan struct{}),
		closables: closables,
	}
}

func (server *baseServer) Name() string {
	return server.name
}

func (server *baseServer) Run(ctx context.Context) error {
	log.Ctx(ctx).Info().Str("stage", "startup").Str("component", server.name).Msg("starting up")

	select {
	case <-server.done:
	case <-ctx.Done():
	}

	return nil
}

func (server *baseServer) Stop(ctx context.Context) error {
	server.stopOnce.Do(func() {
		log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", server.name).Msg("stopping")
		defer log.Ctx(ctx).Info().Str("stage", "shut down").Str("component", server.name).Msg("stopped")

		for _, closable := range server.closables {
			closable.Close()
		}

		close(server.done)
	})

	return nil
}
