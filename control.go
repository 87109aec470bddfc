package xform

import "math"

// Control describes an input control (typically a slider) bound to one
// State field. Values delivered by the control are clamped to [Min, Max].
type Control struct {
	Field     Field
	Label     string
	Min, Max  float64
	Step      float64
	Precision int
}

// DefaultControls returns the slider set for a viewport: translation within
// the viewport, angle in degrees and scale in [-5, 5].
func DefaultControls(vp Viewport) []Control {
	return []Control{
		{Field: FieldTranslationX, Label: "x", Min: 0, Max: float64(vp.Width), Step: 1},
		{Field: FieldTranslationY, Label: "y", Min: 0, Max: float64(vp.Height), Step: 1},
		{Field: FieldAngle, Label: "angle", Min: 0, Max: 360, Step: 1},
		{Field: FieldScaleX, Label: "scaleX", Min: -5, Max: 5, Step: 0.01, Precision: 2},
		{Field: FieldScaleY, Label: "scaleY", Min: -5, Max: 5, Step: 0.01, Precision: 2},
	}
}

// Clamp limits v to the control's range.
func (c Control) Clamp(v float64) float64 {
	return math.Max(c.Min, math.Min(c.Max, v))
}

// Nudge moves v by n steps and clamps the result.
func (c Control) Nudge(v float64, n int) float64 {
	return c.Clamp(v + float64(n)*c.Step)
}

// ControlFor returns the control bound to field.
func ControlFor(controls []Control, field Field) (Control, bool) {
	for _, c := range controls {
		if c.Field == field {
			return c, true
		}
	}
	return Control{}, false
}
