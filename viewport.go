package motionpath

// Viewport is the host's view of one 3D panel: projection to and from
// screen coordinates plus access to the panel's camera. Stroke editing
// and camera-relative display run entirely through this interface, so
// hosts and tests can supply whatever projection they have.
type Viewport interface {
	// WorldToScreen projects a world position to pixel coordinates.
	WorldToScreen(p Vec3) Vec2

	// MoveWorldPoint returns the world position a dragged point lands
	// on: anchor was at screen position from, the cursor is now at to,
	// and the returned point keeps the anchor's viewing depth.
	MoveWorldPoint(anchor Vec3, from, to Vec2) Vec3

	// CameraPosition returns the camera's current world position.
	CameraPosition() Vec3

	// CameraMatrixAt returns the camera's world matrix at time t.
	CameraMatrixAt(t float64) (Mat4, error)
}

// CameraCache caches a viewport camera's inverse world matrix (the
// view matrix) per frame. One cache is shared by every track drawn in
// that viewport; camera-relative display multiplies each cached world
// position by the view matrix of its own frame and the camera matrix
// of the current frame.
type CameraCache struct {
	viewport Viewport
	entries  map[TimeKey]Mat4
}

// NewCameraCache creates an empty cache over viewport.
func NewCameraCache(viewport Viewport) *CameraCache {
	return &CameraCache{
		viewport: viewport,
		entries:  make(map[TimeKey]Mat4),
	}
}

// EnsureAt returns the view matrix for t, computing and caching it on
// a miss.
func (c *CameraCache) EnsureAt(t float64) (Mat4, error) {
	key := KeyForTime(t)
	if m, ok := c.entries[key]; ok {
		return m, nil
	}
	cam, err := c.viewport.CameraMatrixAt(t)
	if err != nil {
		return Mat4{}, err
	}
	m := cam.Inverse()
	c.entries[key] = m
	return m, nil
}

// At returns the cached view matrix for t, if present.
func (c *CameraCache) At(t float64) (Mat4, bool) {
	m, ok := c.entries[KeyForTime(t)]
	return m, ok
}

// EnsureRange fills the cache for whole frames in [start, end].
func (c *CameraCache) EnsureRange(start, end float64) error {
	for t := start; t <= end; t++ {
		if _, err := c.EnsureAt(t); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of cached entries.
func (c *CameraCache) Len() int { return len(c.entries) }

// Clear drops all entries.
func (c *CameraCache) Clear() {
	c.entries = make(map[TimeKey]Mat4)
}

// WorldFromCameraRelative maps a camera-relative display position for
// frame t back to true world space. Display positions are world
// positions through the view matrix at t and the camera matrix at the
// current frame, so the mapping applies the view matrix at now and the
// camera matrix at t.
func (c *CameraCache) WorldFromCameraRelative(p Vec3, t, now float64) (Vec3, error) {
	viewNow, err := c.EnsureAt(now)
	if err != nil {
		return Vec3{}, err
	}
	viewT, err := c.EnsureAt(t)
	if err != nil {
		return Vec3{}, err
	}
	return viewT.Inverse().MulPoint(viewNow.MulPoint(p)), nil
}

// CurrentCameraInverse returns the matrix that carries camera-relative
// display positions for the current frame back toward world space: the
// inverse of the view matrix at now.
func (c *CameraCache) CurrentCameraInverse(now float64) (Mat4, error) {
	view, err := c.EnsureAt(now)
	if err != nil {
		return Mat4{}, err
	}
	return view.Inverse(), nil
}
