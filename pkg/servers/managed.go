package servers

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"blautech-admin/pkg/resources"
)

// Manage runs server in the background, reporting a failed run on errChan, and
// returns the function that stops it.
func Manage(ctx context.Context, server Server, errChan chan<- error) resources.StopFn {
	go func() {
		err := server.Run(ctx)
		if err != nil {
			select {
			case errChan <- err:
			default:
				log.Ctx(ctx).Error().Err(err).Str("component", server.Name()).Msg("error channel full, dropping error")
			}
		}
	}()

	return func(ctx context.Context, timeout time.Duration) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		err := server.Stop(ctx)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("stage", "shut down").Str("component", server.Name()).Msg("unable to stop server")
		}
	}
}
