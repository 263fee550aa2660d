package motionpath

import (
	"math"
	"sort"
)

// BufferPath is a frozen snapshot of a track's world-space path, the
// ghost an animator compares new timing against. It stores one world
// position per whole frame plus the world position of every key, and
// never changes after creation.
type BufferPath struct {
	// Name identifies the snapshotted object in the host UI.
	Name string

	// Selected toggles the ghost's highlight in the renderer.
	Selected bool

	minTime   float64
	frames    []Vec3
	keyframes map[TimeKey]Vec3
}

// CreateBufferPath snapshots the track's current path. Constrained
// objects have no translation curves to sample, so their snapshot
// records the parent matrix translation over the animation range
// instead; keyed objects sample from the earliest key to the latest,
// extended to cover at least the animation range.
func (tr *Track) CreateBufferPath(name string) (*BufferPath, error) {
	bp := &BufferPath{
		Name:      name,
		keyframes: make(map[TimeKey]Vec3),
	}

	if tr.scene.Constrained() {
		bp.minTime = tr.settings.StartTime
		for t := tr.settings.StartTime; t <= tr.settings.EndTime; t++ {
			m, err := tr.parentCache.EnsureAt(t)
			if err != nil {
				return nil, err
			}
			bp.frames = append(bp.frames, m.Translation())
		}
		return bp, nil
	}

	minTime := tr.settings.StartTime
	maxTime := tr.settings.EndTime
	if t, ok := tr.minKeyTime(); ok {
		minTime = math.Min(math.Trunc(t), minTime)
	}
	if t, ok := tr.maxKeyTime(); ok {
		maxTime = math.Max(math.Trunc(t), maxTime)
	}

	bp.minTime = minTime
	for t := minTime; t <= maxTime; t++ {
		pos, err := tr.WorldPositionAt(t)
		if err != nil {
			return nil, err
		}
		bp.frames = append(bp.frames, pos)
	}

	for _, c := range tr.curves.translateCurves() {
		if c == nil {
			continue
		}
		for i := 0; i < c.KeyCount(); i++ {
			bp.keyframes[KeyForTime(c.TimeAt(i))] = Vec3{}
		}
	}
	for key := range bp.keyframes {
		pos, err := tr.WorldPositionAt(key.Time())
		if err != nil {
			return nil, err
		}
		bp.keyframes[key] = pos
	}

	return bp, nil
}

// MinTime returns the time of the snapshot's first frame.
func (bp *BufferPath) MinTime() float64 { return bp.minTime }

// FrameCount returns the number of snapshotted frames.
func (bp *BufferPath) FrameCount() int { return len(bp.frames) }

// PositionAtTime returns the snapshotted world position for the frame
// at t, if the snapshot covers it.
func (bp *BufferPath) PositionAtTime(t float64) (Vec3, bool) {
	index := int(t) - int(bp.minTime)
	if index < 0 || index >= len(bp.frames) {
		return Vec3{}, false
	}
	return bp.frames[index], true
}

// KeyframeTimes returns the snapshotted key times in ascending order.
func (bp *BufferPath) KeyframeTimes() []float64 {
	times := make([]float64, 0, len(bp.keyframes))
	for key := range bp.keyframes {
		times = append(times, key.Time())
	}
	sort.Float64s(times)
	return times
}

// KeyframePosition returns the snapshotted world position of the key
// at t.
func (bp *BufferPath) KeyframePosition(t float64) (Vec3, bool) {
	pos, ok := bp.keyframes[KeyForTime(t)]
	return pos, ok
}

// DisplayPositions returns the ghost's positions for whole frames in
// [start, end], mapped into camera-relative display when space is
// [CameraSpace]. Frames outside the snapshot are skipped.
func (bp *BufferPath) DisplayPositions(start, end, now float64, cam *CameraCache, space PathSpace) ([]Vec3, error) {
	var currentCameraInverse Mat4
	if space == CameraSpace {
		if cam == nil {
			return nil, nil
		}
		var err error
		currentCameraInverse, err = cam.CurrentCameraInverse(now)
		if err != nil {
			return nil, err
		}
	}

	var positions []Vec3
	for t := start; t <= end; t++ {
		pos, ok := bp.PositionAtTime(t)
		if !ok {
			continue
		}
		if space == CameraSpace {
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
