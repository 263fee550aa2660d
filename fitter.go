package motionpath

// maxSkippedKeys bounds how many consecutive keys may project further
// from the stroke end than their predecessor before the candidate walk
// gives up. Skipped keys are kept in a side buffer and promoted if a
// later key comes closer again, so a path that loops back over itself
// still refits as one run.
const maxSkippedKeys = 50

// strokeCandidate is one key picked up by the candidate walk.
type strokeCandidate struct {
	originalScreen Vec2
	screen         Vec2
	originalWorld  Vec3
	time           float64
}

// StrokeFit applies a recorded stroke to a track's keys: the grabbed
// key and its neighbors along the stroke direction are re-keyed onto
// the stroke polyline. Camera may be nil in world display; Now is the
// current frame, used for camera-relative display only.
type StrokeFit struct {
	Track    *Track
	Viewport Viewport
	Camera   *CameraCache
	Stroke   *Stroke
	Settings *Settings
	Now      float64
}

// keyScreenPosition projects the cached key at time t into the
// viewport.
func (f *StrokeFit) keyScreenPosition(t float64) Vec2 {
	pos, _ := f.Track.KeyWorldPosition(t)
	return f.Viewport.WorldToScreen(pos)
}

// strokeDirection decides which way the candidate walk moves through
// the key list: -1 toward earlier keys, +1 toward later keys, 0 when
// the stroke direction is perpendicular to one neighbor and opposed to
// the other, which makes the gesture ambiguous.
func (f *StrokeFit) strokeDirection(direction Vec2, keys []float64, selectedIndex int) int {
	pos := f.keyScreenPosition(keys[selectedIndex])

	var pp, ap Vec2
	if selectedIndex > 0 {
		pp = f.keyScreenPosition(keys[selectedIndex-1]).Sub(pos)
	}
	if selectedIndex < len(keys)-1 {
		ap = f.keyScreenPosition(keys[selectedIndex+1]).Sub(pos)
	}
	pp = pp.Normalized()
	ap = ap.Normalized()

	dot1 := pp.Dot(direction)
	dot2 := ap.Dot(direction)

	if dot1 == 0 && dot2 < 0 {
		return 0
	}
	if dot2 == 0 && dot1 < 0 {
		return 0
	}
	if dot1 > dot2 {
		return -1
	}
	return 1
}

// collectCandidates walks outward from the selected key in the stroke
// direction, picking up keys whose screen distance to the stroke's
// last sample keeps shrinking. Keys that move away are buffered and
// only promoted when a later key comes closer again; the walk always
// stops at the first or last key.
func (f *StrokeFit) collectCandidates(keys []float64, selectedIndex, direction int) []strokeCandidate {
	var cache, tempCache []strokeCandidate

	candidateAt := func(i int, screen Vec2) strokeCandidate {
		world, _ := f.Track.KeyWorldPosition(keys[i])
		return strokeCandidate{
			originalScreen: screen,
			originalWorld:  world,
			time:           keys[i],
		}
	}

	lastStrokePos := f.Stroke.Last()
	distance := lastStrokePos.Sub(f.keyScreenPosition(keys[selectedIndex])).Length()
	skipped := 0

	for i := selectedIndex + direction; i >= 0 && i < len(keys); i += direction {
		pos := f.keyScreenPosition(keys[i])
		thisDistance := lastStrokePos.Sub(pos).Length()

		if thisDistance > distance {
			skipped++
			if skipped > maxSkippedKeys {
				break
			}
			if i == 0 || i == len(keys)-1 {
				break
			}
			tempCache = append(tempCache, candidateAt(i, pos))
			continue
		}

		skipped = 0
		if len(tempCache) > 0 {
			cache = append(cache, tempCache...)
			tempCache = tempCache[:0]
		}

		distance = thisDistance
		cache = append(cache, candidateAt(i, pos))

		if i == 0 || i == len(keys)-1 {
			break
		}
	}
	return cache
}

// Apply refits the keys around the grabbed key at selectedTime onto
// the stroke. The candidate keys are deleted first so the re-added
// keys get freshly computed tangents, then re-keyed at the world
// positions their stroke targets unproject to.
func (f *StrokeFit) Apply(selectedTime float64) error {
	strokeNum := f.Stroke.Len() - 1
	if strokeNum <= 1 {
		return nil
	}

	direction := f.Stroke.Direction()

	keys := f.Track.Keys()
	selectedIndex := 0
	for ; selectedIndex < len(keys); selectedIndex++ {
		if KeyForTime(keys[selectedIndex]) == KeyForTime(selectedTime) {
			break
		}
	}
	if selectedIndex == len(keys) {
		return nil
	}

	walk := f.strokeDirection(direction, keys, selectedIndex)
	if walk == 0 {
		return nil
	}

	cache := f.collectCandidates(keys, selectedIndex, walk)
	if len(cache) == 0 {
		return nil
	}

	// Delete before re-adding so tangents recompute from scratch.
	for i := len(cache) - 1; i >= 0; i-- {
		f.Track.DeleteKeyAtTime(cache[i].time, false)
	}

	lengths, total := f.Stroke.segmentLengths()

	for i := range cache {
		if f.Settings.StrokeMode == StrokeClosest {
			cache[i].screen = f.Stroke.ClosestPoint(cache[i].originalScreen)
		} else {
			cache[i].screen = f.Stroke.SpreadPoint(i, len(cache), total, lengths)
		}

		newPos := f.Viewport.MoveWorldPoint(cache[i].originalWorld, cache[i].originalScreen, cache[i].screen)

		if f.Settings.PathSpace == CameraSpace {
			if f.Camera == nil {
				continue
			}
			var err error
			newPos, err = f.Camera.WorldFromCameraRelative(newPos, cache[i].time, f.Now)
			if err != nil {
				continue
			}
		}

		if err := f.Track.AddKeyAtTime(cache[i].time, &newPos, false); err != nil {
			return err
		}
	}
	return nil
}

// ApplyDraw turns the stroke into freshly sketched keys: count keys at
// interval-frame spacing after the grabbed key at anchorTime, sampled
// evenly along the stroke. Existing keys in the covered range are
// replaced. anchorWorld is the grabbed key's world position when the
// gesture started.
func (f *StrokeFit) ApplyDraw(anchorTime float64, anchorWorld Vec3) error {
	if f.Stroke.Len() < 2 {
		return nil
	}

	count := f.Settings.DrawKeyframeCount
	interval := f.Settings.DrawFrameInterval
	if interval <= 0 {
		f.Track.log.Warn("invalid draw frame interval, using 1", "interval", interval)
		interval = 1
	}

	totalPoints := f.Stroke.Len()
	rangeEnd := anchorTime + float64(count*interval)

	f.Track.DeleteAllKeysInRange(anchorTime, rangeEnd)

	anchorScreen := f.Stroke.At(0)
	for i := 0; i < count; i++ {
		pointIndex := int(float64(i+1) * float64(totalPoints-1) / float64(count+1))
		if pointIndex >= totalPoints {
			pointIndex = totalPoints - 1
		}
		if pointIndex < 1 {
			pointIndex = 1
		}

		screenPos := f.Stroke.At(pointIndex)
		keyTime := anchorTime + float64((i+1)*interval)

		worldPos := f.Viewport.MoveWorldPoint(anchorWorld, anchorScreen, screenPos)

		if f.Settings.PathSpace == CameraSpace {
			if f.Camera == nil {
				continue
			}
			var err error
			worldPos, err = f.Camera.WorldFromCameraRelative(worldPos, keyTime, f.Now)
			if err != nil {
				continue
			}
		}

		if err := f.Track.AddKeyAtTime(keyTime, &worldPos, false); err != nil {
			return err
		}
	}

	f.Track.SetEndDrawingTime(rangeEnd)
	return nil
}
