package xform

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Viewport is the drawable area in device pixels.
type Viewport struct {
	Width, Height int
}

// Valid reports whether the viewport has a positive area.
func (v Viewport) Valid() bool { return v.Width > 0 && v.Height > 0 }

// Surface is the display the driver renders to. The driver only queries its
// size; it never owns or resizes it.
type Surface interface {
	// Size returns the current size in device pixels. A surface that is not
	// available returns an error (typically ErrSurfaceUnavailable).
	Size() (width, height int, err error)
}

// Binder owns the shape geometry and the rendering program. The driver
// hands it a viewport and a composed matrix; everything else is opaque.
type Binder interface {
	// Clear sets the viewport and clears the frame to c.
	Clear(vp Viewport, c RGBA) error

	// Draw uploads m to the active program and draws the bound shape.
	Draw(m Matrix) error
}

// DriverState is the state of the redraw state machine.
type DriverState int32

const (
	// Idle waits for the next trigger.
	Idle DriverState = iota
	// Drawing is executing one synchronous redraw.
	Drawing
)

func (s DriverState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	}
	return fmt.Sprintf("DriverState(%d)", int32(s))
}

// Frame describes a completed draw.
type Frame struct {
	Seq      uint64
	Viewport Viewport
	State    State
	Matrix   Matrix
}

// Stats counts redraw outcomes.
type Stats struct {
	Drawn   uint64
	Skipped uint64
}

// Driver owns a State and redraws it through a Binder every time the state
// changes. Triggers are handled synchronously: each one runs a full redraw
// to completion before the next is accepted. Concurrent triggers from
// different goroutines are serialized; there is no queue and no coalescing.
type Driver struct {
	mu      sync.Mutex
	surface Surface
	binder  Binder
	opts    driverOptions

	// Guarded by mu.
	state  State
	matrix Matrix
	stats  Stats

	phase atomic.Int32
}

// NewDriver creates a driver rendering state to surface through binder.
// It does not draw; call Redraw for the initial frame.
func NewDriver(surface Surface, binder Binder, state State, opts ...DriverOption) *Driver {
	o := defaultDriverOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Driver{
		surface: surface,
		binder:  binder,
		opts:    o,
		state:   state,
		matrix:  Identity(),
	}
}

// State returns the current state of the redraw state machine.
func (d *Driver) State() DriverState {
	return DriverState(d.phase.Load())
}

// Snapshot returns a copy of the current transform state.
func (d *Driver) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Matrix returns the matrix used by the last completed draw, or the
// identity before the first one.
func (d *Driver) Matrix() Matrix {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.matrix
}

// Stats returns the number of drawn and skipped frames.
func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Redraw renders the current state. A surface that cannot report a usable
// size aborts the redraw without producing a frame; this is not an error.
// Binder failures are returned and should end the session.
func (d *Driver) Redraw() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.redrawLocked()
}

// Update writes one field and redraws.
func (d *Driver) Update(field Field, value float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Set(field, value)
	if field == FieldAngle {
		d.logger().Debug("xform: angle updated", "control", value, "radians", d.state.Angle)
	}
	return d.redrawLocked()
}

// Apply writes every update in order, later writes to the same field
// winning, then redraws once.
func (d *Driver) Apply(updates ...Update) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range updates {
		d.state.Set(u.Field, u.Value)
	}
	return d.redrawLocked()
}

// Reset replaces the whole state and redraws.
func (d *Driver) Reset(s State) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = s
	return d.redrawLocked()
}

func (d *Driver) redrawLocked() error {
	d.phase.Store(int32(Drawing))
	defer d.phase.Store(int32(Idle))

	log := d.logger()

	w, h, err := d.surface.Size()
	vp := Viewport{Width: w, Height: h}
	if err != nil || !vp.Valid() {
		d.stats.Skipped++
		if err == nil {
			err = ErrSurfaceUnavailable
		}
		log.Warn("xform: redraw skipped", "width", w, "height", h, "err", err)
		return nil
	}

	if err := d.binder.Clear(vp, d.opts.background); err != nil {
		return fmt.Errorf("xform: clear: %w", err)
	}

	m := Compose(vp, d.state)

	if err := d.binder.Draw(m); err != nil {
		return fmt.Errorf("xform: draw: %w", err)
	}

	d.matrix = m
	d.stats.Drawn++
	log.Debug("xform: frame drawn",
		"seq", d.stats.Drawn,
		"width", w, "height", h,
		"tx", d.state.Translation.X, "ty", d.state.Translation.Y,
		"angle", d.state.Angle,
		"sx", d.state.Scale.X, "sy", d.state.Scale.Y)

	if d.opts.onFrame != nil {
		d.opts.onFrame(Frame{Seq: d.stats.Drawn, Viewport: vp, State: d.state, Matrix: m})
	}
	return nil
}

func (d *Driver) logger() *slog.Logger {
	if d.opts.logger != nil {
		return d.opts.logger
	}
	return Logger()
}

// StaticSurface is a Surface with a fixed size, for offscreen rendering.
// A zero-sized StaticSurface reports ErrSurfaceUnavailable.
type StaticSurface struct {
	Width, Height int
}

// Size implements Surface.
func (s StaticSurface) Size() (int, int, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return 0, 0, ErrSurfaceUnavailable
	}
	return s.Width, s.Height, nil
}

// IsFatal reports whether err ends a rendering session. Surface
// unavailability is the only recoverable condition.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrSurfaceUnavailable)
}
