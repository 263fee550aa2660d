package motionpath

import "math"

// keyCopyAxis holds the per-axis curve state captured with a copied
// key: whether the axis was keyed, its lock flags, and the tangent
// weights and x components needed to rebuild tangents on paste.
type keyCopyAxis struct {
	HasKey         bool
	TangentsLocked bool
	WeightsLocked  bool

	// InX and OutX are the weighted-form tangent x components.
	InX, OutX float64
	// InWeight and OutWeight are the angle-form tangent weights.
	InWeight, OutWeight float64
}

// KeyCopy is one copied composite keyframe. Positions and tangents are
// stored in world space so a paste onto a different parent or a moved
// parent still lands where the path was.
type KeyCopy struct {
	// DeltaTime is the key's offset from the first copied key.
	DeltaTime float64

	WorldPosition Vec3

	// InWorldTangent and OutWorldTangent are the displayed handle
	// positions; InWeightedWorldTangent and OutWeightedWorldTangent
	// the raw tangent endpoints. Paste picks per target curve.
	InWorldTangent          Vec3
	OutWorldTangent         Vec3
	InWeightedWorldTangent  Vec3
	OutWeightedWorldTangent Vec3

	Axes [3]keyCopyAxis
}

// Clipboard holds copied keys for pasting onto the same or another
// track. It is an explicit value; callers that want a shared clipboard
// keep one on their tool state.
type Clipboard struct {
	keys []KeyCopy
}

// Empty reports whether nothing has been copied.
func (cb *Clipboard) Empty() bool { return len(cb.keys) == 0 }

// Len returns the number of copied keys.
func (cb *Clipboard) Len() int { return len(cb.keys) }

// Copy captures the track's selected composite keys. A copy with no
// selection clears the clipboard.
func (cb *Clipboard) Copy(tr *Track) {
	cb.keys = cb.keys[:0]

	selected := tr.SelectedKeys()
	if len(selected) == 0 {
		return
	}
	first := selected[0].Time

	translate := tr.curves.translateCurves()
	for _, k := range selected {
		kc := KeyCopy{
			DeltaTime:               k.Time - first,
			WorldPosition:           k.WorldPosition,
			InWorldTangent:          k.InHandleWorld,
			OutWorldTangent:         k.OutHandleWorld,
			InWeightedWorldTangent:  k.InTangentWorld,
			OutWeightedWorldTangent: k.OutTangentWorld,
		}

		for axis := 0; axis < 3; axis++ {
			c := translate[axis]
			index := k.KeyID[axis]
			if c == nil || index == noKey {
				continue
			}
			a := &kc.Axes[axis]
			a.HasKey = true
			a.TangentsLocked = c.TangentsLocked(index)
			a.WeightsLocked = c.WeightsLocked(index)
			a.InX, _, _ = c.TangentXY(index, TangentIn)
			a.OutX, _, _ = c.TangentXY(index, TangentOut)
			_, a.InWeight, _ = c.Tangent(index, TangentIn)
			_, a.OutWeight, _ = c.Tangent(index, TangentOut)
		}

		cb.keys = append(cb.keys, kc)
	}
}

// Paste re-keys the copied keys onto tr starting at pasteTime. With
// offset set, the whole block is shifted so the first key lands on the
// track's current world position at pasteTime; without it the keys
// keep their absolute world positions.
//
// Keys already in the covered time range are removed first. The first
// and last pasted keys are treated as boundaries: they key all three
// axes to anchor the pasted segment, and their outward-facing tangents
// are left for the surrounding path to define.
func (cb *Clipboard) Paste(tr *Track, pasteTime float64, offset bool) error {
	if len(cb.keys) == 0 {
		return nil
	}

	var shift Vec3
	if offset {
		current, err := tr.WorldPositionAt(pasteTime)
		if err != nil {
			return err
		}
		shift = current.Sub(cb.keys[0].WorldPosition)
	}

	lastDelta := cb.keys[len(cb.keys)-1].DeltaTime
	for _, c := range tr.curves.translateCurves() {
		deleteKeysInClosedRange(c, pasteTime, pasteTime+lastDelta)
	}

	translate := tr.curves.translateCurves()
	for i := range cb.keys {
		kc := &cb.keys[i]
		t := pasteTime + kc.DeltaTime
		isBoundary := i == 0 || i == len(cb.keys)-1

		parent, err := tr.parentCache.EnsureAt(t)
		if err != nil {
			return err
		}
		parentInverse := parent.Inverse()

		world := kc.WorldPosition.Add(shift)
		local := parentInverse.MulPoint(world)
		values := [3]float64{local.X, local.Y, local.Z}

		// Key the axes first so tangent writes have keys to land on.
		for axis := 0; axis < 3; axis++ {
			c := translate[axis]
			if c == nil || (!kc.Axes[axis].HasKey && !isBoundary) {
				continue
			}
			index, ok := c.Find(t)
			if !ok {
				index = c.AddKey(t, values[axis])
			} else {
				c.SetValueAt(index, values[axis])
			}
			c.SetTangentsLocked(index, false)
			c.SetWeightsLocked(index, false)
		}

		in := parentInverse.MulVector(kc.InWorldTangent.Add(shift).Sub(world))
		out := parentInverse.MulVector(kc.OutWorldTangent.Add(shift).Sub(world))
		inWeighted := parentInverse.MulVector(kc.InWeightedWorldTangent.Add(shift).Sub(world))
		outWeighted := parentInverse.MulVector(kc.OutWeightedWorldTangent.Add(shift).Sub(world))

		modifyIn := i != 0
		modifyOut := i != len(cb.keys)-1

		for axis := 0; axis < 3; axis++ {
			c := translate[axis]
			if c == nil || (!kc.Axes[axis].HasKey && !isBoundary) {
				continue
			}
			index, ok := c.Find(t)
			if !ok {
				continue
			}

			a := kc.Axes[axis]
			inVal, outVal := axisComponent(in, axis), axisComponent(out, axis)
			if c.Weighted() {
				inVal, outVal = axisComponent(inWeighted, axis), axisComponent(outWeighted, axis)
			}

			if modifyIn {
				writeClipTangent(c, index, TangentIn, -inVal, a.InWeight, a.InX)
			}
			if modifyOut {
				writeClipTangent(c, index, TangentOut, outVal, a.OutWeight, a.OutX)
			}

			c.SetTangentsLocked(index, a.TangentsLocked)
			c.SetWeightsLocked(index, a.WeightsLocked)
		}
	}
	return nil
}

// deleteKeysInClosedRange removes keys in [start, end].
func deleteKeysInClosedRange(c Curve, start, end float64) {
	if c == nil {
		return
	}
	for i := c.KeyCount() - 1; i >= 0; i-- {
		t := c.TimeAt(i)
		if t >= start && t <= end {
			c.RemoveKey(i)
		}
	}
}

func axisComponent(v Vec3, axis int) float64 {
	switch Axis(axis) {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	}
	return v.Z
}

// writeClipTangent stores a copied scalar tangent on a pasted key,
// rebuilding the curve's native form from the captured weight or x
// component.
func writeClipTangent(c Curve, index int, end TangentEnd, value, weight, x float64) {
	if !c.Weighted() {
		angle := 0.0
		if weight != 0 {
			angle = math.Atan(value / weight)
		}
		c.SetTangent(index, end, angle, weight)
		return
	}
	c.SetTangentXY(index, end, x, value*3.0)
}
