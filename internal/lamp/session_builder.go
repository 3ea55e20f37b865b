package lamp

import (
	"github.com/domx3d/hello-lamp/engine/logging"
)

// SessionOption is a functional option for configuring a Session.
type SessionOption func(*Session)

// WithLogger sets the logger shared by the session's handlers.
func WithLogger(l logging.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
	}
}

// WithSessionSurface sets the viewport size source before a window is bound.
func WithSessionSurface(surface SurfaceSize) SessionOption {
	return func(s *Session) {
		s.surface = surface
	}
}
