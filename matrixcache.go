package motionpath

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelRebuildMin is the frame count above which a full cache
// rebuild fans the pivot composition out to worker goroutines. Below
// it the goroutine overhead outweighs the arithmetic.
const parallelRebuildMin = 50

// ParentMatrixCache caches a track's effective parent matrix per
// frame. Host evaluation dominates everything else this library does,
// so the cache only ever grows between invalidations: a range request
// covered by earlier requests costs zero host evaluations, and a
// partially covered one evaluates only the missing leading and
// trailing frames.
type ParentMatrixCache struct {
	sampler *TransformSampler

	entries    map[TimeKey]Mat4
	rangeStart float64
	rangeEnd   float64
	valid      bool
}

// NewParentMatrixCache creates an empty cache over sampler.
func NewParentMatrixCache(sampler *TransformSampler) *ParentMatrixCache {
	return &ParentMatrixCache{
		sampler: sampler,
		entries: make(map[TimeKey]Mat4),
	}
}

// At returns the cached matrix for t, if present.
func (c *ParentMatrixCache) At(t float64) (Mat4, bool) {
	m, ok := c.entries[KeyForTime(t)]
	return m, ok
}

// EnsureAt returns the matrix for t, computing and caching it on a
// miss. A hit never reaches the host, so repeated calls are
// bit-identical.
func (c *ParentMatrixCache) EnsureAt(t float64) (Mat4, error) {
	key := KeyForTime(t)
	if m, ok := c.entries[key]; ok {
		return m, nil
	}
	m, err := c.sampler.ParentMatrixAt(t)
	if err != nil {
		return Mat4{}, err
	}
	c.entries[key] = m
	return m, nil
}

// CacheRange fills the cache for whole frames in [start, end].
//
// A request covered by the currently valid range returns immediately.
// A request overlapping it fills only the missing frames on either
// side. Anything else rebuilds the range from scratch, using the
// three-phase gather/compose/writeback pipeline when the range is
// large: host data is gathered on the calling goroutine, the pure
// matrix arithmetic is composed on workers, and results are written
// back on the calling goroutine again.
func (c *ParentMatrixCache) CacheRange(start, end float64) error {
	if c.valid && c.rangeStart <= start && c.rangeEnd >= end && len(c.entries) > 0 {
		return nil
	}

	if c.valid && len(c.entries) > 0 {
		for t := start; t < c.rangeStart && t <= end; t++ {
			if _, err := c.EnsureAt(t); err != nil {
				return err
			}
		}
		for t := c.rangeEnd + 1; t <= end; t++ {
			if _, err := c.EnsureAt(t); err != nil {
				return err
			}
		}
		if start < c.rangeStart {
			c.rangeStart = start
		}
		if end > c.rangeEnd {
			c.rangeEnd = end
		}
		return nil
	}

	numFrames := int(end-start) + 1
	if numFrames > parallelRebuildMin {
		if err := c.rebuildParallel(start, numFrames); err != nil {
			return err
		}
	} else {
		for t := start; t <= end; t++ {
			if _, err := c.EnsureAt(t); err != nil {
				return err
			}
		}
	}

	c.rangeStart = start
	c.rangeEnd = end
	c.valid = true
	return nil
}

func (c *ParentMatrixCache) rebuildParallel(start float64, numFrames int) error {
	frames := make([]float64, numFrames)
	parents := make([]Mat4, numFrames)
	rps := make([]Vec3, numFrames)
	rpts := make([]Vec3, numFrames)

	// Phase 1: gather host data sequentially. SceneAccessor
	// implementations are not required to be goroutine safe.
	for idx := range frames {
		frames[idx] = start + float64(idx)
		parent, rp, rpt, err := c.sampler.rawAt(frames[idx])
		if err != nil {
			return err
		}
		parents[idx] = parent
		rps[idx] = rp
		rpts[idx] = rpt
	}

	// Phase 2: compose in parallel. Pure arithmetic only.
	usePivots := c.sampler.settings.UsePivots
	final := make([]Mat4, numFrames)

	workers := runtime.GOMAXPROCS(0)
	if workers > numFrames {
		workers = numFrames
	}
	chunk := (numFrames + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, numFrames)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for idx := lo; idx < hi; idx++ {
				m := parents[idx]
				if usePivots {
					m = composePivots(m, rps[idx], rpts[idx])
				}
				final[idx] = m
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Phase 3: write back sequentially.
	for idx := range frames {
		c.entries[KeyForTime(frames[idx])] = final[idx]
	}
	return nil
}

// CachedRange returns the currently valid frame range. ok is false
// before the first CacheRange call and after Clear.
func (c *ParentMatrixCache) CachedRange() (start, end float64, ok bool) {
	if !c.valid {
		return 0, 0, false
	}
	return c.rangeStart, c.rangeEnd, true
}

// Len returns the number of cached entries.
func (c *ParentMatrixCache) Len() int { return len(c.entries) }

// Clear drops all entries and invalidates the cached range. The next
// range request rebuilds from the host.
func (c *ParentMatrixCache) Clear() {
	c.entries = make(map[TimeKey]Mat4)
	c.rangeStart = 0
	c.rangeEnd = 0
	c.valid = false
}
