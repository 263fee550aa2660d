package motionpath

// Axis identifies one of the three translation or rotation channels.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// TangentEnd identifies one side of a key's tangent pair.
type TangentEnd int

const (
	TangentIn TangentEnd = iota
	TangentOut
)

// Curve is a single-channel animation curve owned by the host. The
// tracked object's six transform channels are read and edited through
// this interface; the library never stores curve data itself, so host
// undo systems see every mutation.
//
// Key indices are positional and shift on insert and removal, exactly
// as in the hosts this models. Callers that cache indices must rebuild
// after any mutation.
//
// Tangents exist in two representations. Non-weighted curves expose an
// angle/weight pair ([Curve.Tangent]); weighted curves expose a raw
// x/y vector ([Curve.TangentXY]). [Curve.Weighted] reports which
// representation is authoritative.
type Curve interface {
	KeyCount() int
	TimeAt(index int) float64
	ValueAt(index int) float64

	// Evaluate returns the interpolated channel value at t.
	Evaluate(t float64) float64

	// Find returns the index of the key at exactly time t.
	Find(t float64) (index int, ok bool)

	// AddKey inserts a key and returns its index.
	AddKey(t, value float64) int
	RemoveKey(index int)
	SetValueAt(index int, value float64)

	Weighted() bool

	TangentsLocked(index int) bool
	SetTangentsLocked(index int, locked bool)
	WeightsLocked(index int) bool
	SetWeightsLocked(index int, locked bool)

	// Tangent returns the angle/weight form of a tangent.
	Tangent(index int, end TangentEnd) (angle, weight float64, err error)
	SetTangent(index int, end TangentEnd, angle, weight float64)

	// TangentXY returns the x/y vector form of a tangent.
	TangentXY(index int, end TangentEnd) (x, y float64, err error)
	SetTangentXY(index int, end TangentEnd, x, y float64)
}

// CurveSet groups the six transform channels of one tracked object.
// Any channel may be nil when the host has no curve for it.
type CurveSet struct {
	TranslateX, TranslateY, TranslateZ Curve
	RotateX, RotateY, RotateZ          Curve
}

// Translate returns the translation curve for an axis.
func (c *CurveSet) Translate(axis Axis) Curve {
	switch axis {
	case AxisX:
		return c.TranslateX
	case AxisY:
		return c.TranslateY
	case AxisZ:
		return c.TranslateZ
	}
	return nil
}

// Rotate returns the rotation curve for an axis.
func (c *CurveSet) Rotate(axis Axis) Curve {
	switch axis {
	case AxisX:
		return c.RotateX
	case AxisY:
		return c.RotateY
	case AxisZ:
		return c.RotateZ
	}
	return nil
}

// translateCurves returns the translation channels in axis order.
func (c *CurveSet) translateCurves() [3]Curve {
	return [3]Curve{c.TranslateX, c.TranslateY, c.TranslateZ}
}

// rotateCurves returns the rotation channels in axis order.
func (c *CurveSet) rotateCurves() [3]Curve {
	return [3]Curve{c.RotateX, c.RotateY, c.RotateZ}
}

// Weighted reports whether any translation channel carries weighted
// tangents. Mixed curve sets are treated as weighted as a whole.
func (c *CurveSet) Weighted() bool {
	for _, curve := range c.translateCurves() {
		if curve != nil && curve.Weighted() {
			return true
		}
	}
	return false
}

// evaluatePosition samples the local position at t, falling back to
// fallback components for channels with no curve.
func (c *CurveSet) evaluatePosition(t float64, fallback Vec3) Vec3 {
	pos := fallback
	if c.TranslateX != nil {
		pos.X = c.TranslateX.Evaluate(t)
	}
	if c.TranslateY != nil {
		pos.Y = c.TranslateY.Evaluate(t)
	}
	if c.TranslateZ != nil {
		pos.Z = c.TranslateZ.Evaluate(t)
	}
	return pos
}
