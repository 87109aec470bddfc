package xform

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field identifies one independently settable component of a State.
type Field int

// Settable fields.
const (
	FieldTranslationX Field = iota
	FieldTranslationY
	FieldAngle
	FieldScaleX
	FieldScaleY
)

var fieldNames = [...]string{
	FieldTranslationX: "x",
	FieldTranslationY: "y",
	FieldAngle:        "angle",
	FieldScaleX:       "scaleX",
	FieldScaleY:       "scaleY",
}

// Fields lists every settable field in control order.
func Fields() []Field {
	return []Field{FieldTranslationX, FieldTranslationY, FieldAngle, FieldScaleX, FieldScaleY}
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField returns the field named s. Matching is case-insensitive.
func ParseField(s string) (Field, error) {
	for i, name := range fieldNames {
		if strings.EqualFold(name, s) {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("xform: unknown field %q", s)
}

// State is the transform applied to the shape: a translation in device
// pixels, a rotation in radians and a per-axis scale. Angle is not wrapped
// and scale may be negative or zero.
type State struct {
	Translation Point
	Angle       float64
	Scale       Point
}

// DefaultState returns the startup transform: translated to (200, 150),
// unrotated, unit scale.
func DefaultState() State {
	return State{
		Translation: Pt(200, 150),
		Angle:       0,
		Scale:       Pt(1, 1),
	}
}

// AngleFromControl converts an angle control value in degrees [0, 360] into
// the stored rotation in radians. The control direction is inverted:
// 90 becomes 3π/2.
func AngleFromControl(degrees float64) float64 {
	return (360 - degrees) * math.Pi / 180
}

// AngleToControl is the inverse of AngleFromControl.
func AngleToControl(radians float64) float64 {
	return 360 - radians*180/math.Pi
}

// SetTranslationX sets the horizontal translation in pixels.
func (s *State) SetTranslationX(v float64) { s.Translation.X = v }

// SetTranslationY sets the vertical translation in pixels.
func (s *State) SetTranslationY(v float64) { s.Translation.Y = v }

// SetAngleDegrees sets the rotation from an angle control value in degrees.
// See AngleFromControl.
func (s *State) SetAngleDegrees(control float64) { s.Angle = AngleFromControl(control) }

// SetAngle sets the rotation directly in radians.
func (s *State) SetAngle(radians float64) { s.Angle = radians }

// SetScaleX sets the horizontal scale factor.
func (s *State) SetScaleX(v float64) { s.Scale.X = v }

// SetScaleY sets the vertical scale factor.
func (s *State) SetScaleY(v float64) { s.Scale.Y = v }

// Set writes value into the given field. Angle values are control degrees.
// Unknown fields are ignored.
func (s *State) Set(field Field, value float64) {
	switch field {
	case FieldTranslationX:
		s.SetTranslationX(value)
	case FieldTranslationY:
		s.SetTranslationY(value)
	case FieldAngle:
		s.SetAngleDegrees(value)
	case FieldScaleX:
		s.SetScaleX(value)
	case FieldScaleY:
		s.SetScaleY(value)
	}
}

// Get returns the current value of field in control units.
func (s State) Get(field Field) float64 {
	switch field {
	case FieldTranslationX:
		return s.Translation.X
	case FieldTranslationY:
		return s.Translation.Y
	case FieldAngle:
		return AngleToControl(s.Angle)
	case FieldScaleX:
		return s.Scale.X
	case FieldScaleY:
		return s.Scale.Y
	}
	return 0
}

// Update is a single field write, as delivered by an input control.
type Update struct {
	Field Field
	Value float64
}

// ParseUpdate parses "field=value", e.g. "angle=90".
func ParseUpdate(s string) (Update, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return Update{}, fmt.Errorf("xform: update %q: want field=value", s)
	}
	f, err := ParseField(strings.TrimSpace(name))
	if err != nil {
		return Update{}, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return Update{}, fmt.Errorf("xform: update %q: %w", s, err)
	}
	return Update{Field: f, Value: v}, nil
}
