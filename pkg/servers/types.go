package servers

import (
	"github.com/qmdx00/lifecycle"
)

var (
	_ Server = (*httpServer)(nil)
	_ Server = (*baseServer)(nil)
)

// Server is a named lifecycle.Server.
type Server interface {
	lifecycle.Server
	Name() string
}
