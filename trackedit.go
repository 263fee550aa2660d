package motionpath

// Curve edits. Every mutation goes straight to the host's curves; the
// keyframe cache is stale afterwards and callers rebuild it before the
// next read, the same way the display refresh already does.

// deleteKeysAfter removes all keys strictly after t.
func deleteKeysAfter(c Curve, t float64) {
	if c == nil {
		return
	}
	for i := c.KeyCount() - 1; i >= 0; i-- {
		if c.TimeAt(i) > t {
			c.RemoveKey(i)
		}
	}
}

// deleteKeysBetween removes all keys in (start, end].
func deleteKeysBetween(c Curve, start, end float64) {
	if c == nil {
		return
	}
	for i := c.KeyCount() - 1; i >= 0; i-- {
		t := c.TimeAt(i)
		if t > start && t <= end {
			c.RemoveKey(i)
		}
	}
}

// DeleteAllKeysAfter removes translation and rotation keys strictly
// after t.
func (tr *Track) DeleteAllKeysAfter(t float64) {
	for _, c := range tr.curves.translateCurves() {
		deleteKeysAfter(c, t)
	}
	for _, c := range tr.curves.rotateCurves() {
		deleteKeysAfter(c, t)
	}
}

// DeleteAllKeysInRange removes translation and rotation keys in
// (start, end].
func (tr *Track) DeleteAllKeysInRange(start, end float64) {
	for _, c := range tr.curves.translateCurves() {
		deleteKeysBetween(c, start, end)
	}
	for _, c := range tr.curves.rotateCurves() {
		deleteKeysBetween(c, start, end)
	}
}

// DeleteKeyWithID removes the curve keys behind the cached composite
// keyframe with the given sequential id.
func (tr *Track) DeleteKeyWithID(id int) {
	for _, k := range tr.keyframes {
		if k.ID != id {
			continue
		}
		tr.removeCachedKey(k)
		return
	}
}

// DeleteKeyAtTime removes the curve keys at t. With useCache the
// cached composite record supplies the key indices; without it each
// curve is searched by time, which also works right after a mutation
// left the cache stale.
func (tr *Track) DeleteKeyAtTime(t float64, useCache bool) {
	if useCache {
		if k, ok := tr.keyframes[KeyForTime(t)]; ok {
			tr.removeCachedKey(k)
		}
		return
	}
	for _, c := range tr.curves.translateCurves() {
		removeKeyAt(c, t)
	}
	for _, c := range tr.curves.rotateCurves() {
		removeKeyAt(c, t)
	}
}

func removeKeyAt(c Curve, t float64) {
	if c == nil {
		return
	}
	if i, ok := c.Find(t); ok {
		c.RemoveKey(i)
	}
}

func (tr *Track) removeCachedKey(k *Keyframe) {
	translate := tr.curves.translateCurves()
	rotate := tr.curves.rotateCurves()
	// Axis order matters only within one curve; indices in other
	// curves are unaffected.
	for axis := 0; axis < 3; axis++ {
		if k.KeyID[axis] != noKey && translate[axis] != nil {
			translate[axis].RemoveKey(k.KeyID[axis])
		}
		if k.RotKeyID[axis] != noKey && rotate[axis] != nil {
			rotate[axis].RemoveKey(k.RotKeyID[axis])
		}
	}
}

// AddKeyAtTime keys the three translation channels at t. With a
// worldPos the key lands on that world position, mapped into local
// space through the inverse parent matrix; without one it keeps the
// evaluated position. With useCache an existing composite record is
// updated in place per axis instead of inserting duplicate keys.
func (tr *Track) AddKeyAtTime(t float64, worldPos *Vec3, useCache bool) error {
	var pos Vec3
	if worldPos == nil {
		pos = tr.localPositionAt(t)
	} else {
		parent, err := tr.parentCache.EnsureAt(t)
		if err != nil {
			return err
		}
		pos = parent.Inverse().MulPoint(*worldPos)
	}

	values := [3]float64{pos.X, pos.Y, pos.Z}
	translate := tr.curves.translateCurves()

	k, ok := tr.keyframes[KeyForTime(t)]
	if !ok || !useCache {
		for axis, c := range translate {
			if c != nil {
				c.AddKey(t, values[axis])
			}
		}
		return nil
	}

	for axis, c := range translate {
		if c == nil {
			continue
		}
		if k.KeyID[axis] != noKey {
			c.SetValueAt(k.KeyID[axis], values[axis])
		} else {
			c.AddKey(t, values[axis])
		}
	}
	return nil
}

// SetKeyWorldPosition moves the keyed position at t to a world
// position, updating only the axes that carry a key there.
func (tr *Track) SetKeyWorldPosition(pos Vec3, t float64) error {
	k, ok := tr.keyframes[KeyForTime(t)]
	if !ok {
		return nil
	}

	parent, err := tr.parentCache.EnsureAt(t)
	if err != nil {
		return err
	}
	local := parent.Inverse().MulPoint(pos)

	values := [3]float64{local.X, local.Y, local.Z}
	for axis, c := range tr.curves.translateCurves() {
		if c != nil && k.KeyID[axis] != noKey {
			c.SetValueAt(k.KeyID[axis], values[axis])
		}
	}
	return nil
}

// OffsetKeyWorldPosition shifts the keyed position at t by a world
// offset. The offset is carried into local space through the inverse
// parent matrix before it is added to the curve values.
func (tr *Track) OffsetKeyWorldPosition(offset Vec3, t float64) error {
	k, ok := tr.keyframes[KeyForTime(t)]
	if !ok {
		return nil
	}

	parent, err := tr.parentCache.EnsureAt(t)
	if err != nil {
		return err
	}
	local := parent.Inverse().MulVector(offset)

	deltas := [3]float64{local.X, local.Y, local.Z}
	for axis, c := range tr.curves.translateCurves() {
		if c != nil && k.KeyID[axis] != noKey {
			c.SetValueAt(k.KeyID[axis], c.Evaluate(t)+deltas[axis])
		}
	}
	return nil
}

// MoveKey re-keys the composite keyframe at from onto the time to,
// preserving each axis key's tangents and lock state. cachedPosition
// is the local position the moved key keeps, typically the cached
// position captured when the drag started.
func (tr *Track) MoveKey(from, to float64, cachedPosition Vec3) {
	k, ok := tr.keyframes[KeyForTime(from)]
	if !ok {
		return
	}

	values := [3]float64{cachedPosition.X, cachedPosition.Y, cachedPosition.Z}
	for axis, c := range tr.curves.translateCurves() {
		if c != nil && k.KeyID[axis] != noKey {
			moveKeyOnCurve(c, k.KeyID[axis], values[axis], to)
		}
	}
}

// moveKeyOnCurve removes one key and re-adds it at a new time with the
// same tangents and lock flags. The out tangent is only restored on
// broken tangents; locked ones follow the in tangent by themselves.
func moveKeyOnCurve(c Curve, index int, value, t float64) {
	weighted := c.Weighted()

	var inAngle, inWeight, outAngle, outWeight float64
	var inX, inY, outX, outY float64
	var inErr, outErr error
	if weighted {
		inX, inY, inErr = c.TangentXY(index, TangentIn)
		outX, outY, outErr = c.TangentXY(index, TangentOut)
	} else {
		inAngle, inWeight, inErr = c.Tangent(index, TangentIn)
		outAngle, outWeight, outErr = c.Tangent(index, TangentOut)
	}

	tangentsLocked := c.TangentsLocked(index)
	weightsLocked := c.WeightsLocked(index)

	c.RemoveKey(index)
	newIndex := c.AddKey(t, value)

	c.SetTangentsLocked(newIndex, tangentsLocked)
	c.SetWeightsLocked(newIndex, weightsLocked)

	if weighted {
		if inErr == nil {
			c.SetTangentXY(newIndex, TangentIn, inX, inY)
		}
		if !tangentsLocked && outErr == nil {
			c.SetTangentXY(newIndex, TangentOut, outX, outY)
		}
	} else {
		if inErr == nil {
			c.SetTangent(newIndex, TangentIn, inAngle, inWeight)
		}
		if !tangentsLocked && outErr == nil {
			c.SetTangent(newIndex, TangentOut, outAngle, outWeight)
		}
	}
}

// SetTangentWorldPosition drags one tangent handle of the key at t to
// a new world position.
//
// On weighted curves the handle position is meaningful in itself: the
// new tangent is the handle offset mapped into local space. On
// non-weighted curves only the handle direction is editable, so the
// stored tangent is rotated by the arc carrying the old handle
// direction onto the new one and scaled by the handle length ratio.
//
// toWorldMatrix carries displayed positions back to world space; it is
// the identity in world display and the current camera matrix in
// camera-relative display.
func (tr *Track) SetTangentWorldPosition(pos Vec3, t float64, end TangentEnd, toWorldMatrix Mat4) error {
	k, ok := tr.keyframes[KeyForTime(t)]
	if !ok {
		return nil
	}

	parent, err := tr.parentCache.EnsureAt(t)
	if err != nil {
		return err
	}
	parentInverse := parent.Inverse()

	var local Vec3
	if tr.curves.Weighted() {
		local = parentInverse.MulVector(pos.Sub(k.WorldPosition))
	} else {
		handle := k.InHandleWorld
		tangentWorld := k.InTangentWorld
		if end == TangentOut {
			handle = k.OutHandleWorld
			tangentWorld = k.OutTangentWorld
		}

		v1 := pos.Sub(k.WorldPosition)
		v2 := handle.Sub(k.WorldPosition)
		if v2.LengthSq() == 0 {
			return nil
		}
		lenMultiplier := v1.Length() / v2.Length()

		rotation := RotationBetween(v2, v1)
		tangentVector := tangentWorld.Sub(toWorldMatrix.MulPoint(k.WorldPosition))
		local = parentInverse.MulVector(rotation.Rotate(tangentVector)).Scale(lenMultiplier)
	}

	values := [3]float64{local.X, local.Y, local.Z}
	for axis, c := range tr.curves.translateCurves() {
		if c != nil && k.KeyID[axis] != noKey {
			writeTangentValue(c, t, end, values[axis])
		}
	}
	return nil
}
