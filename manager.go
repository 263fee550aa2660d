package motionpath

import "log/slog"

// UndoRecorder brackets curve mutations so the host can fold them into
// its own undo system. Begin is called before the first mutation of a
// gesture, End after the last.
type UndoRecorder interface {
	Begin()
	End()
}

// Manager owns the session state: one [Track] per followed object, one
// [CameraCache] per viewport, the buffer path ghosts, and the shared
// [Settings]. Hosts keep a single Manager alive for the lifetime of
// the tool.
type Manager struct {
	settings *Settings
	log      *slog.Logger
	undo     UndoRecorder

	tracks  []*Track
	names   map[string]*Track
	cameras map[Viewport]*CameraCache

	bufferPaths []*BufferPath
}

// NewManager creates a manager around settings. A nil settings uses
// [DefaultSettings].
func NewManager(settings *Settings) *Manager {
	if settings == nil {
		settings = DefaultSettings()
	}
	return &Manager{
		settings: settings,
		log:      slog.Default(),
		names:    make(map[string]*Track),
		cameras:  make(map[Viewport]*CameraCache),
	}
}

// Settings returns the shared settings value.
func (m *Manager) Settings() *Settings { return m.settings }

// SetLogger replaces the manager's logger and that of every current
// and future track.
func (m *Manager) SetLogger(log *slog.Logger) {
	m.log = log
	for _, tr := range m.tracks {
		tr.SetLogger(log)
	}
}

// SetUndoRecorder installs the host's undo hook. May be nil.
func (m *Manager) SetUndoRecorder(undo UndoRecorder) { m.undo = undo }

// BeginUndo starts an undo bracket if a recorder is installed.
func (m *Manager) BeginUndo() {
	if m.undo != nil {
		m.undo.Begin()
	}
}

// EndUndo closes an undo bracket if a recorder is installed.
func (m *Manager) EndUndo() {
	if m.undo != nil {
		m.undo.End()
	}
}

// --- Tracks ---

// AddObject starts following an object and returns its track. Adding a
// name that is already followed returns the existing track.
func (m *Manager) AddObject(name string, scene SceneAccessor, curves *CurveSet) *Track {
	if tr, ok := m.names[name]; ok {
		return tr
	}
	tr := NewTrack(scene, curves, m.settings)
	tr.name = name
	tr.SetLogger(m.log)
	m.tracks = append(m.tracks, tr)
	m.names[name] = tr
	return tr
}

// RemoveObject stops following an object.
func (m *Manager) RemoveObject(name string) {
	tr, ok := m.names[name]
	if !ok {
		return
	}
	delete(m.names, name)
	for i, t := range m.tracks {
		if t == tr {
			m.tracks = append(m.tracks[:i], m.tracks[i+1:]...)
			break
		}
	}
}

// TrackFor returns the track following the named object.
func (m *Manager) TrackFor(name string) (*Track, bool) {
	tr, ok := m.names[name]
	return tr, ok
}

// Tracks returns the followed tracks in the order they were added.
func (m *Manager) Tracks() []*Track { return m.tracks }

// --- Cameras ---

// CameraCacheFor returns the camera cache for a viewport, creating it
// on first use. All tracks drawn in that viewport share the cache.
func (m *Manager) CameraCacheFor(v Viewport) *CameraCache {
	if cam, ok := m.cameras[v]; ok {
		return cam
	}
	cam := NewCameraCache(v)
	m.cameras[v] = cam
	return cam
}

// InvalidateCameraCaches clears every viewport's camera cache. Called
// when a camera is animated or cut.
func (m *Manager) InvalidateCameraCaches() {
	for _, cam := range m.cameras {
		cam.Clear()
	}
}

// --- Display refresh ---

// SetDisplayWindow applies a display time range to every track, each
// clamping it to its own keyed range.
func (m *Manager) SetDisplayWindow(start, end float64) {
	for _, tr := range m.tracks {
		tr.SetDisplayWindow(start, end)
	}
}

// Refresh rebuilds every track's caches for the current frame. v may
// be nil when no viewport is active; camera-relative display then
// skips its remap.
func (m *Manager) Refresh(now float64, v Viewport) error {
	var cam *CameraCache
	if v != nil {
		cam = m.CameraCacheFor(v)
	}
	for _, tr := range m.tracks {
		if err := tr.CacheParentRangeAround(now); err != nil {
			return err
		}
		if err := tr.RebuildKeyframes(now, cam); err != nil {
			return err
		}
	}
	return nil
}

// --- Buffer paths ---

// CreateBufferPaths snapshots every followed track into a new buffer
// path ghost, in the order the objects were added.
func (m *Manager) CreateBufferPaths() error {
	for _, tr := range m.tracks {
		bp, err := tr.CreateBufferPath(tr.name)
		if err != nil {
			return err
		}
		m.bufferPaths = append(m.bufferPaths, bp)
	}
	return nil
}

// BufferPaths returns the current ghosts.
func (m *Manager) BufferPaths() []*BufferPath { return m.bufferPaths }

// RemoveSelectedBufferPaths drops all ghosts marked selected.
func (m *Manager) RemoveSelectedBufferPaths() {
	kept := m.bufferPaths[:0]
	for _, bp := range m.bufferPaths {
		if !bp.Selected {
			kept = append(kept, bp)
		}
	}
	m.bufferPaths = kept
}

// ClearBufferPaths drops every ghost.
func (m *Manager) ClearBufferPaths() { m.bufferPaths = nil }
