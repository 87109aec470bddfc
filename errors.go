package xform

import "errors"

var (
	// ErrNoContext is returned by entry points and binders that cannot
	// acquire a rendering context. It is fatal to the session.
	ErrNoContext = errors.New("xform: rendering context unavailable")

	// ErrSurfaceUnavailable is returned by a Surface that cannot report its
	// size. The Driver skips the frame; it is not fatal.
	ErrSurfaceUnavailable = errors.New("xform: surface unavailable")

	// ErrProgram is wrapped by binders whose shader program could not be
	// built. It is fatal to the session.
	ErrProgram = errors.New("xform: shader program unavailable")
)
