package xform

import "log/slog"

// DriverOption configures a Driver during creation.
//
// Example:
//
//	d := xform.NewDriver(surface, binder, xform.DefaultState(),
//	    xform.WithBackground(xform.RGB(1, 1, 1)))
type DriverOption func(*driverOptions)

// driverOptions holds optional configuration for Driver creation.
type driverOptions struct {
	background RGBA
	logger     *slog.Logger
	onFrame    func(Frame)
}

// defaultDriverOptions returns the default driver options.
func defaultDriverOptions() driverOptions {
	return driverOptions{
		background: Transparent,
		logger:     nil, // resolved to Logger() at log time
	}
}

// WithBackground sets the color each frame is cleared to.
// The default is fully transparent black.
func WithBackground(c RGBA) DriverOption {
	return func(o *driverOptions) {
		o.background = c
	}
}

// WithLogger sets a logger for this driver only, overriding the package
// logger configured with SetLogger.
func WithLogger(l *slog.Logger) DriverOption {
	return func(o *driverOptions) {
		o.logger = l
	}
}

// WithFrameHook registers fn to be called after every completed draw.
// fn runs while the driver is still Drawing and must not call back into it.
func WithFrameHook(fn func(Frame)) DriverOption {
	return func(o *driverOptions) {
		o.onFrame = fn
	}
}
