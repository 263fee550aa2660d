package motionpath

import (
	"log/slog"
	"math"
	"sort"
)

// Track follows one animated object: it owns the parent matrix cache
// and the composite keyframe cache for that object and applies every
// edit back to the host's curves. Tracks are created and destroyed by
// a [Manager].
type Track struct {
	name     string
	scene    SceneAccessor
	curves   *CurveSet
	settings *Settings
	log      *slog.Logger

	sampler     *TransformSampler
	parentCache *ParentMatrixCache

	keyframes     map[TimeKey]*Keyframe
	selectedTimes map[TimeKey]struct{}

	// positions caches whole-frame local positions for the duration of
	// one rebuild, so tangent handles and frame dots don't re-query the
	// host per sample.
	positions map[TimeKey]Vec3

	displayStart float64
	displayEnd   float64

	// drawing marks a live sketch gesture; the keyframe cache then
	// expands up to endDrawingTime instead of the display end and
	// suppresses tangent handles.
	drawing        bool
	endDrawingTime float64

	// weighted mirrors the curve set's tangent mode for the duration
	// of a rebuild.
	weighted bool
}

// NewTrack creates a track for one object. The curve set and scene
// accessor stay owned by the caller; settings are shared with the
// owning manager.
func NewTrack(scene SceneAccessor, curves *CurveSet, settings *Settings) *Track {
	sampler := NewTransformSampler(scene, settings)
	return &Track{
		scene:         scene,
		curves:        curves,
		settings:      settings,
		log:           slog.Default(),
		sampler:       sampler,
		parentCache:   NewParentMatrixCache(sampler),
		keyframes:     make(map[TimeKey]*Keyframe),
		selectedTimes: make(map[TimeKey]struct{}),
		positions:     make(map[TimeKey]Vec3),
		displayStart:  settings.StartTime,
		displayEnd:    settings.EndTime,
	}
}

// Name returns the name of the followed object, set by the owning
// [Manager].
func (tr *Track) Name() string { return tr.name }

// SetLogger replaces the track's logger. The default is [slog.Default].
func (tr *Track) SetLogger(log *slog.Logger) { tr.log = log }

// Curves returns the track's curve set.
func (tr *Track) Curves() *CurveSet { return tr.curves }

// ParentCache returns the track's parent matrix cache.
func (tr *Track) ParentCache() *ParentMatrixCache { return tr.parentCache }

// Sampler returns the track's transform sampler.
func (tr *Track) Sampler() *TransformSampler { return tr.sampler }

// SetDrawing toggles live sketch mode. While set, cache rebuilds stop
// expanding at the end-drawing time and hide tangent handles.
func (tr *Track) SetDrawing(drawing bool) { tr.drawing = drawing }

// Drawing reports whether a sketch gesture is in progress.
func (tr *Track) Drawing() bool { return tr.drawing }

// SetEndDrawingTime sets the sketch gesture's live end time.
func (tr *Track) SetEndDrawingTime(t float64) { tr.endDrawingTime = t }

// EndDrawingTime returns the sketch gesture's live end time.
func (tr *Track) EndDrawingTime() float64 { return tr.endDrawingTime }

// CacheParentRangeAround fills the parent matrix cache for the frames
// displayed around now: FramesBack behind to FramesFront ahead,
// clamped to the animation range.
func (tr *Track) CacheParentRangeAround(now float64) error {
	start := now - tr.settings.FramesBack
	end := now + tr.settings.FramesFront
	if start < tr.settings.StartTime {
		start = tr.settings.StartTime
	}
	if end > tr.settings.EndTime {
		end = tr.settings.EndTime
	}
	return tr.parentCache.CacheRange(start, end)
}

// InvalidateParentCache clears the parent matrix cache. Called when an
// ancestor transform changes.
func (tr *Track) InvalidateParentCache() { tr.parentCache.Clear() }

// --- Display window ---

// minKeyTime returns the earliest translation key time, valid only
// when all three translation channels exist and are keyed.
func (tr *Track) minKeyTime() (float64, bool) {
	t := math.Inf(1)
	for _, c := range tr.curves.translateCurves() {
		if c == nil || c.KeyCount() == 0 {
			return 0, false
		}
		t = math.Min(t, c.TimeAt(0))
	}
	return t, true
}

// maxKeyTime returns the latest translation key time, valid only when
// all three translation channels exist and are keyed.
func (tr *Track) maxKeyTime() (float64, bool) {
	t := math.Inf(-1)
	for _, c := range tr.curves.translateCurves() {
		if c == nil || c.KeyCount() == 0 {
			return 0, false
		}
		t = math.Max(t, c.TimeAt(c.KeyCount()-1))
	}
	return t, true
}

// SetDisplayWindow sets the time range the keyframe cache covers. The
// request is clamped to the keyed range when the object is fully
// keyed, otherwise to the animation range, and reordered if reversed.
func (tr *Track) SetDisplayWindow(start, end float64) {
	actualMin := tr.settings.StartTime
	actualMax := tr.settings.EndTime
	if minT, ok := tr.minKeyTime(); ok {
		actualMin = minT
	}
	if maxT, ok := tr.maxKeyTime(); ok {
		actualMax = maxT
	}

	if start > actualMax {
		start = actualMax
	}
	if end < actualMin {
		end = actualMin
	}
	if start > end {
		start, end = end, start
	}

	tr.displayStart = math.Max(start, actualMin)
	tr.displayEnd = math.Min(end, actualMax)
}

// DisplayWindow returns the current display time range.
func (tr *Track) DisplayWindow() (start, end float64) {
	return tr.displayStart, tr.displayEnd
}

// --- Selection ---

// SelectKeyAtTime marks the key at t as selected by the tool.
func (tr *Track) SelectKeyAtTime(t float64) {
	tr.selectedTimes[KeyForTime(t)] = struct{}{}
	if k, ok := tr.keyframes[KeyForTime(t)]; ok {
		k.Selected = true
	}
}

// DeselectAllKeys clears the tool selection.
func (tr *Track) DeselectAllKeys() {
	tr.selectedTimes = make(map[TimeKey]struct{})
	for _, k := range tr.keyframes {
		k.Selected = false
	}
}

// InvertSelection selects every cached key that was unselected and
// deselects the rest.
func (tr *Track) InvertSelection() {
	for key, k := range tr.keyframes {
		if k.Selected {
			delete(tr.selectedTimes, key)
		} else {
			tr.selectedTimes[key] = struct{}{}
		}
		k.Selected = !k.Selected
	}
}

// SelectedKeys returns the selected cached keyframes in time order.
func (tr *Track) SelectedKeys() []*Keyframe {
	var keys []*Keyframe
	for _, k := range tr.Keyframes() {
		if k.Selected {
			keys = append(keys, k)
		}
	}
	return keys
}

// --- Cache queries ---

// Keys returns the cached composite key times in ascending order.
func (tr *Track) Keys() []float64 {
	times := make([]float64, 0, len(tr.keyframes))
	for _, k := range tr.keyframes {
		times = append(times, k.Time)
	}
	sort.Float64s(times)
	return times
}

// Keyframes returns the cached composite keyframes in time order.
func (tr *Track) Keyframes() []*Keyframe {
	keys := make([]*Keyframe, 0, len(tr.keyframes))
	for _, k := range tr.keyframes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time })
	return keys
}

// KeyframeAt returns the cached composite keyframe at t.
func (tr *Track) KeyframeAt(t float64) (*Keyframe, bool) {
	k, ok := tr.keyframes[KeyForTime(t)]
	return k, ok
}

// KeyframeCount returns the number of cached composite keyframes.
func (tr *Track) KeyframeCount() int { return len(tr.keyframes) }

// TimeAtKeyID returns the time of the cached keyframe with the given
// sequential id, or 0 when no such key exists.
func (tr *Track) TimeAtKeyID(id int) float64 {
	for _, k := range tr.keyframes {
		if k.ID == id {
			return k.Time
		}
	}
	return 0
}

// KeyWorldPosition returns the cached world position of the key at t.
func (tr *Track) KeyWorldPosition(t float64) (Vec3, bool) {
	k, ok := tr.keyframes[KeyForTime(t)]
	if !ok {
		return Vec3{}, false
	}
	return k.WorldPosition, true
}

// TangentHandleWorldPosition returns the displayed handle position of
// one tangent of the key at t.
func (tr *Track) TangentHandleWorldPosition(t float64, end TangentEnd) (Vec3, bool) {
	k, ok := tr.keyframes[KeyForTime(t)]
	if !ok {
		return Vec3{}, false
	}
	if end == TangentIn {
		return k.InHandleWorld, true
	}
	return k.OutHandleWorld, true
}

// BoundariesForTime returns the nearest cached key times strictly
// before and after t. Each side is reported found only when such a key
// exists.
func (tr *Track) BoundariesForTime(t float64) (before, after float64, beforeOK, afterOK bool) {
	qt := KeyForTime(t)
	for key, k := range tr.keyframes {
		if key == qt {
			continue
		}
		if t-k.Time > 0 && (!beforeOK || k.Time > before) {
			before = k.Time
			beforeOK = true
		}
		if k.Time-t > 0 && (!afterOK || k.Time < after) {
			after = k.Time
			afterOK = true
		}
	}
	return before, after, beforeOK, afterOK
}

// --- Positions ---

// localPositionAt returns the object's local position at t, zero for
// constrained objects.
func (tr *Track) localPositionAt(t float64) Vec3 {
	if tr.scene.Constrained() {
		return Vec3{}
	}
	pos, err := tr.scene.LocalPositionAt(t)
	if err != nil {
		tr.log.Warn("local position evaluation failed", "time", t, "error", err)
		return Vec3{}
	}
	return pos
}

// cachePositions pre-queries whole-frame local positions for one
// rebuild pass.
func (tr *Track) cachePositions(start, end float64) {
	if tr.scene.Constrained() {
		return
	}
	clear(tr.positions)
	for t := start; t <= end; t++ {
		tr.positions[KeyForTime(t)] = tr.localPositionAt(t)
	}
}

// cachedPosition returns a pre-queried local position, falling back to
// a live query for off-frame times such as tangent resamples.
func (tr *Track) cachedPosition(t float64) Vec3 {
	if pos, ok := tr.positions[KeyForTime(t)]; ok {
		return pos
	}
	return tr.localPositionAt(t)
}

// WorldPositionAt returns the object's world position at t through the
// parent matrix cache.
func (tr *Track) WorldPositionAt(t float64) (Vec3, error) {
	m, err := tr.parentCache.EnsureAt(t)
	if err != nil {
		return Vec3{}, err
	}
	return m.MulPoint(tr.localPositionAt(t)), nil
}

// FramePositions returns the displayed world position of every whole
// frame in [start, end]: the data an external renderer draws the path
// from. In camera-relative display cam must be the viewport's camera
// cache and now the current frame.
func (tr *Track) FramePositions(start, end, now float64, cam *CameraCache) ([]Vec3, error) {
	var currentCameraInverse Mat4
	if tr.settings.PathSpace == CameraSpace {
		if cam == nil {
			return nil, nil
		}
		var err error
		currentCameraInverse, err = cam.CurrentCameraInverse(now)
		if err != nil {
			return nil, err
		}
	}

	positions := make([]Vec3, 0, int(end-start)+1)
	for t := start; t <= end; t++ {
		pos, err := tr.WorldPositionAt(t)
		if err != nil {
			return nil, err
		}
		if tr.settings.PathSpace == CameraSpace {
			view, err := cam.EnsureAt(t)
			if err != nil {
				return nil, err
			}
			pos = currentCameraInverse.MulPoint(view.MulPoint(pos))
		}
		positions = append(positions, pos)
	}
	return positions, nil
}
