package motionpath

import "math"

// tangentTimeDelta is the resample offset used to orient non-weighted
// tangent handles along the actual path.
const tangentTimeDelta = 0.01

// noKey marks an axis with no key at a composite keyframe's time.
const noKey = -1

// Keyframe is one composite record of the keyframe cache: every axis
// curve that has a key at the same time contributes to it. A record
// can be rotation-only; it then carries no translation tangents but
// still draws as a key on the path.
type Keyframe struct {
	// ID is the record's sequential index in time order, reassigned on
	// every cache rebuild.
	ID   int
	Time float64

	// Position is the local position at Time; WorldPosition is
	// Position through the parent matrix, and in camera-relative
	// display additionally through the camera matrices.
	Position      Vec3
	WorldPosition Vec3

	// InTangent and OutTangent hold the per-axis local tangent values
	// read from the curves.
	InTangent  Vec3
	OutTangent Vec3

	// InTangentWorld and OutTangentWorld are the raw tangent endpoints
	// through the parent matrix. InHandleWorld and OutHandleWorld are
	// the handle positions actually displayed: identical to the raw
	// endpoints on weighted curves, resampled from the path on
	// non-weighted ones.
	InTangentWorld  Vec3
	OutTangentWorld Vec3
	InHandleWorld   Vec3
	OutHandleWorld  Vec3

	// KeyID and RotKeyID are per-axis curve key indices, noKey where
	// the axis has no key at Time.
	KeyID    [3]int
	RotKeyID [3]int

	// TangentsLocked is the AND of the contributing axes' lock flags.
	TangentsLocked bool

	ShowInTangent  bool
	ShowOutTangent bool
	Selected       bool
}

func newKeyframe(t float64) *Keyframe {
	return &Keyframe{
		ID:             noKey,
		Time:           t,
		KeyID:          [3]int{noKey, noKey, noKey},
		RotKeyID:       [3]int{noKey, noKey, noKey},
		TangentsLocked: true,
		ShowInTangent:  true,
		ShowOutTangent: true,
	}
}

// HasTranslationXYZ reports whether all three translation axes are
// keyed at this time.
func (k *Keyframe) HasTranslationXYZ() bool {
	return k.KeyID[AxisX] != noKey && k.KeyID[AxisY] != noKey && k.KeyID[AxisZ] != noKey
}

// HasRotationXYZ reports whether all three rotation axes are keyed at
// this time.
func (k *Keyframe) HasRotationXYZ() bool {
	return k.RotKeyID[AxisX] != noKey && k.RotKeyID[AxisY] != noKey && k.RotKeyID[AxisZ] != noKey
}

// TranslateAxes returns the translation axes keyed at this time.
func (k *Keyframe) TranslateAxes() []Axis {
	var axes []Axis
	for _, axis := range [...]Axis{AxisX, AxisY, AxisZ} {
		if k.KeyID[axis] != noKey {
			axes = append(axes, axis)
		}
	}
	return axes
}

// RotateAxes returns the rotation axes keyed at this time.
func (k *Keyframe) RotateAxes() []Axis {
	var axes []Axis
	for _, axis := range [...]Axis{AxisX, AxisY, AxisZ} {
		if k.RotKeyID[axis] != noKey {
			axes = append(axes, axis)
		}
	}
	return axes
}

func (k *Keyframe) setTangentComponent(axis Axis, end TangentEnd, value float64) {
	v := &k.InTangent
	if end == TangentOut {
		v = &k.OutTangent
	}
	switch axis {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	case AxisZ:
		v.Z = value
	}
}

// tangentValue reads one tangent from a curve in the cache's scalar
// form. Non-weighted tangents are an angle/weight pair and convert as
// tan(angle)*weight; weighted tangents are an x/y vector whose y spans
// a third of the bezier segment, so the scalar is y/3.
func tangentValue(c Curve, index int, end TangentEnd) (float64, error) {
	if !c.Weighted() {
		angle, weight, err := c.Tangent(index, end)
		if err != nil {
			return 0, err
		}
		return math.Tan(angle) * weight, nil
	}
	_, y, err := c.TangentXY(index, end)
	if err != nil {
		return 0, err
	}
	return y / 3.0, nil
}

// writeTangentValue stores a scalar tangent back onto the curve key at
// time t, inverting the conversion of [tangentValue]. In-tangent
// scalars are negated first: the cache stores the in tangent pointing
// backward along the path, the curve stores it pointing forward.
func writeTangentValue(c Curve, t float64, end TangentEnd, value float64) {
	if c == nil || c.KeyCount() <= 1 {
		return
	}
	index, ok := c.Find(t)
	if !ok {
		return
	}

	if end == TangentIn {
		value = -value
	}

	if !c.Weighted() {
		_, weight, err := c.Tangent(index, end)
		if err != nil {
			return
		}
		angle := 0.0
		if weight != 0 {
			angle = math.Atan(value / weight)
		}
		c.SetTangent(index, end, angle, weight)
		return
	}

	x, _, err := c.TangentXY(index, end)
	if err != nil {
		return
	}
	c.SetTangentXY(index, end, x, value*3.0)
}
