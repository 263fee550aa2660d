package motionpath

import "math"

// keyframeFor returns the composite record at t, creating it when a
// curve key first lands on that time during expansion.
func (tr *Track) keyframeFor(t float64) *Keyframe {
	key := KeyForTime(t)
	if k, ok := tr.keyframes[key]; ok {
		return k
	}
	k := newKeyframe(t)
	tr.keyframes[key] = k
	return k
}

// expandKeyframes folds one axis curve's keys into the composite
// cache. Translation keys contribute tangents, key ids, and the
// tangent lock flag; rotation keys only mark their axis, which is
// enough to create a rotation-only record.
func (tr *Track) expandKeyframes(c Curve, axis Axis, isTranslate bool, endTime float64) {
	n := c.KeyCount()
	for i := 0; i < n; i++ {
		t := c.TimeAt(i)
		if t < tr.displayStart {
			continue
		}
		if t > endTime {
			break
		}

		k := tr.keyframeFor(t)
		if isTranslate {
			for _, end := range [...]TangentEnd{TangentIn, TangentOut} {
				v, err := tangentValue(c, i, end)
				if err != nil {
					tr.log.Warn("tangent read failed", "time", t, "axis", int(axis), "error", err)
					v = 0
				}
				k.setTangentComponent(axis, end, v)
			}
			k.KeyID[axis] = i
			if k.TangentsLocked {
				k.TangentsLocked = c.TangentsLocked(i)
			}
		} else {
			k.RotKeyID[axis] = i
		}
	}
}

// firstKeyTime and lastKeyTime return NaN for a missing or keyless
// curve, so time comparisons against them are always false.
func firstKeyTime(c Curve) float64 {
	if c == nil || c.KeyCount() == 0 {
		return math.NaN()
	}
	return c.TimeAt(0)
}

func lastKeyTime(c Curve) float64 {
	if c == nil || c.KeyCount() == 0 {
		return math.NaN()
	}
	return c.TimeAt(c.KeyCount() - 1)
}

// showTangent decides whether a boundary key's tangent handle is
// drawn. It is hidden when the key is a path endpoint on every axis:
// either both other axes are keyless at this time, or this time is
// both other axes' boundary time as well.
func showTangent(time float64, firstID int, firstTime float64, secondID int, secondTime float64) bool {
	return !((firstID == noKey && secondID == noKey) || (time == firstTime && time == secondTime))
}

// setShowInOutTangents hides the in tangent at each axis's earliest
// key and the out tangent at each axis's latest key when the key sits
// on the path boundary for all axes.
func (tr *Track) setShowInOutTangents() {
	cx := tr.curves.TranslateX
	cy := tr.curves.TranslateY
	cz := tr.curves.TranslateZ

	minX, maxX := firstKeyTime(cx), lastKeyTime(cx)
	minY, maxY := firstKeyTime(cy), lastKeyTime(cy)
	minZ, maxZ := firstKeyTime(cz), lastKeyTime(cz)

	if math.IsNaN(minX) && math.IsNaN(minY) && math.IsNaN(minZ) {
		return
	}

	inWindow := func(t float64) bool {
		return !math.IsNaN(t) && t >= tr.displayStart && t <= tr.displayEnd
	}

	if inWindow(minX) {
		k := tr.keyframeFor(minX)
		k.ShowInTangent = showTangent(minX, k.KeyID[AxisY], minY, k.KeyID[AxisZ], minZ)
	}
	if inWindow(minY) {
		k := tr.keyframeFor(minY)
		k.ShowInTangent = showTangent(minY, k.KeyID[AxisX], minX, k.KeyID[AxisZ], minZ)
	}
	if inWindow(minZ) {
		k := tr.keyframeFor(minZ)
		k.ShowInTangent = showTangent(minZ, k.KeyID[AxisX], minX, k.KeyID[AxisY], minY)
	}

	if inWindow(maxX) {
		k := tr.keyframeFor(maxX)
		k.ShowOutTangent = showTangent(maxX, k.KeyID[AxisY], maxY, k.KeyID[AxisZ], maxZ)
	}
	if inWindow(maxY) {
		k := tr.keyframeFor(maxY)
		k.ShowOutTangent = showTangent(maxY, k.KeyID[AxisX], maxX, k.KeyID[AxisZ], maxZ)
	}
	if inWindow(maxZ) {
		k := tr.keyframeFor(maxZ)
		k.ShowOutTangent = showTangent(maxZ, k.KeyID[AxisX], maxX, k.KeyID[AxisY], maxY)
	}
}

// RebuildKeyframes rebuilds the composite keyframe cache for the
// current display window. now is the current frame; cam must be the
// viewport's camera cache in camera-relative display and may be nil
// otherwise.
func (tr *Track) RebuildKeyframes(now float64, cam *CameraCache) error {
	tr.weighted = tr.curves.Weighted()

	boundaryEnd := tr.displayEnd
	if tr.drawing {
		boundaryEnd = tr.endDrawingTime
	}

	tr.cachePositions(tr.displayStart, math.Max(tr.displayEnd, boundaryEnd))
	if err := tr.parentCache.CacheRange(tr.displayStart, tr.displayEnd); err != nil {
		return err
	}

	clear(tr.keyframes)

	for axis, c := range tr.curves.translateCurves() {
		if c != nil {
			tr.expandKeyframes(c, Axis(axis), true, boundaryEnd)
		}
	}
	if tr.settings.ShowRotationKeyFrames {
		for axis, c := range tr.curves.rotateCurves() {
			if c != nil {
				tr.expandKeyframes(c, Axis(axis), false, boundaryEnd)
			}
		}
	}

	tr.setShowInOutTangents()

	// Without a viewport the camera remap is skipped and keys keep
	// their parent-space world positions; ids, selection, and tangents
	// are still assigned.
	cameraSpace := tr.settings.PathSpace == CameraSpace && cam != nil
	var currentCameraInverse Mat4
	if cameraSpace {
		var err error
		currentCameraInverse, err = cam.CurrentCameraInverse(now)
		if err != nil {
			return err
		}
	}

	for i, k := range tr.Keyframes() {
		k.ID = i
		if _, sel := tr.selectedTimes[KeyForTime(k.Time)]; sel {
			k.Selected = true
		}
		if tr.drawing {
			k.ShowInTangent = false
			k.ShowOutTangent = false
		}

		parent, err := tr.parentCache.EnsureAt(k.Time)
		if err != nil {
			return err
		}

		k.Position = tr.cachedPosition(k.Time)
		k.WorldPosition = parent.MulPoint(k.Position)
		if cameraSpace {
			view, err := cam.EnsureAt(k.Time)
			if err != nil {
				return err
			}
			k.WorldPosition = currentCameraInverse.MulPoint(view.MulPoint(k.WorldPosition))
		}

		k.InTangentWorld = parent.MulPoint(k.Position.Sub(k.InTangent))
		k.OutTangentWorld = parent.MulPoint(k.Position.Add(k.OutTangent))

		if k.ShowInTangent {
			if err := tr.placeTangentHandle(k, TangentIn, cam, currentCameraInverse); err != nil {
				return err
			}
		}
		if k.ShowOutTangent {
			if err := tr.placeTangentHandle(k, TangentOut, cam, currentCameraInverse); err != nil {
				return err
			}
		}
	}
	return nil
}

// placeTangentHandle computes the displayed handle position for one
// tangent. Weighted tangents display at their true endpoint.
// Non-weighted tangent endpoints have no geometric meaning, so the
// handle is aimed along the path by resampling the position a fraction
// of a frame away and keeps the tangent's length.
func (tr *Track) placeTangentHandle(k *Keyframe, end TangentEnd, cam *CameraCache, currentCameraInverse Mat4) error {
	if tr.weighted {
		if end == TangentIn {
			k.InHandleWorld = k.InTangentWorld
		} else {
			k.OutHandleWorld = k.OutTangentWorld
		}
		return nil
	}

	sampleTime := k.Time - tangentTimeDelta
	tangent := k.InTangent
	if end == TangentOut {
		sampleTime = k.Time + tangentTimeDelta
		tangent = k.OutTangent
	}

	parent, err := tr.parentCache.EnsureAt(sampleTime)
	if err != nil {
		return err
	}
	sample := parent.MulPoint(tr.cachedPosition(sampleTime))
	if tr.settings.PathSpace == CameraSpace && cam != nil {
		view, err := cam.EnsureAt(sampleTime)
		if err != nil {
			return err
		}
		sample = currentCameraInverse.MulPoint(view.MulPoint(sample))
	}

	dir := sample.Sub(k.WorldPosition).Normalized()
	handle := dir.Scale(tangent.Length()).Add(k.WorldPosition)
	if end == TangentIn {
		k.InHandleWorld = handle
	} else {
		k.OutHandleWorld = handle
	}
	return nil
}
