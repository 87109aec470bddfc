// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config loads the scene description used by the xform commands
// from TOML.
//
// A complete file looks like:
//
//	[viewport]
//	width = 400
//	height = 300
//
//	[state]
//	translation = [200.0, 150.0]
//	angle = 0.0          # control degrees, 0..360
//	scale = [1.0, 1.0]
//
//	[shape]
//	kind = "triangle"    # triangle | quad | rectangle
//	seed = 1             # quad colors
//	color = "#ff8000"
//	rect = [0.0, 0.0, 120.0, 80.0]
//
//	[render]
//	backend = "auto"     # auto | software | gpu
//	background = "#00000000"
//
// Every key is optional; missing keys keep their Default values. Unknown
// keys are rejected so typos do not go unnoticed.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/xform"
)

// Shape kinds.
const (
	KindTriangle  = "triangle"
	KindQuad      = "quad"
	KindRectangle = "rectangle"
)

// BackendAuto selects the highest priority available backend.
const BackendAuto = "auto"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Config is the scene description.
type Config struct {
	Viewport Viewport `toml:"viewport"`
	State    State    `toml:"state"`
	Shape    Shape    `toml:"shape"`
	Render   Render   `toml:"render"`
}

// Viewport is the initial surface size in pixels.
type Viewport struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// State is the initial transform. Angle is in control degrees.
type State struct {
	Translation [2]float64 `toml:"translation"`
	Angle       float64    `toml:"angle"`
	Scale       [2]float64 `toml:"scale"`
}

// Shape selects the mesh to draw.
type Shape struct {
	Kind  string     `toml:"kind"`
	Seed  uint64     `toml:"seed"`
	Color string     `toml:"color"`
	Rect  [4]float64 `toml:"rect"`
}

// Render selects the backend and frame background.
type Render struct {
	Backend    string `toml:"backend"`
	Background string `toml:"background"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	s := xform.DefaultState()
	return Config{
		Viewport: Viewport{Width: 400, Height: 300},
		State: State{
			Translation: [2]float64{s.Translation.X, s.Translation.Y},
			Angle:       xform.AngleToControl(s.Angle),
			Scale:       [2]float64{s.Scale.X, s.Scale.Y},
		},
		Shape: Shape{
			Kind:  KindTriangle,
			Seed:  1,
			Color: "#ff8000",
			Rect:  [4]float64{0, 0, 120, 80},
		},
		Render: Render{
			Backend:    BackendAuto,
			Background: "#00000000",
		},
	}
}

// Load reads and validates the file at path on top of Default.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads and validates TOML from r on top of Default.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks sizes, names and colors.
func (c Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalid, c.Viewport.Width, c.Viewport.Height)
	}
	switch c.Shape.Kind {
	case KindTriangle, KindQuad:
	case KindRectangle:
		if c.Shape.Rect[2] == 0 || c.Shape.Rect[3] == 0 {
			return fmt.Errorf("%w: rectangle has zero size", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: shape kind %q", ErrInvalid, c.Shape.Kind)
	}
	if _, err := xform.ParseHex(c.Shape.Color); err != nil {
		return fmt.Errorf("%w: shape color: %w", ErrInvalid, err)
	}
	if _, err := xform.ParseHex(c.Render.Background); err != nil {
		return fmt.Errorf("%w: background: %w", ErrInvalid, err)
	}
	switch c.Render.Backend {
	case "", BackendAuto, "software", "gpu":
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalid, c.Render.Backend)
	}
	return nil
}

// ViewportSize returns the configured viewport.
func (c Config) ViewportSize() xform.Viewport {
	return xform.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

// InitialState converts the [state] section, mapping the control angle to
// radians.
func (c Config) InitialState() xform.State {
	var s xform.State
	s.SetTranslationX(c.State.Translation[0])
	s.SetTranslationY(c.State.Translation[1])
	s.SetAngleDegrees(c.State.Angle)
	s.SetScaleX(c.State.Scale[0])
	s.SetScaleY(c.State.Scale[1])
	return s
}

// Mesh builds the configured shape.
func (c Config) Mesh() (xform.Mesh, error) {
	col, err := xform.ParseHex(c.Shape.Color)
	if err != nil {
		return xform.Mesh{}, fmt.Errorf("%w: shape color: %w", ErrInvalid, err)
	}
	switch c.Shape.Kind {
	case KindTriangle:
		return xform.TriangleMesh(col), nil
	case KindQuad:
		return xform.RandomQuadMesh(c.Shape.Seed), nil
	case KindRectangle:
		r := c.Shape.Rect
		return xform.RectangleMesh(r[0], r[1], r[2], r[3], col), nil
	}
	return xform.Mesh{}, fmt.Errorf("%w: shape kind %q", ErrInvalid, c.Shape.Kind)
}

// Background returns the parsed frame background.
func (c Config) Background() (xform.RGBA, error) {
	return xform.ParseHex(c.Render.Background)
}

// BackendName returns the configured backend, or "" for automatic
// selection.
func (c Config) BackendName() string {
	if c.Render.Backend == BackendAuto {
		return ""
	}
	return c.Render.Backend
}
