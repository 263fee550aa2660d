package motionpath

import (
	"io"
	"log/slog"
	"testing"
)

type countingUndo struct {
	begins, ends int
}

func (u *countingUndo) Begin() { u.begins++ }
func (u *countingUndo) End()   { u.ends++ }

func managerWithTrack(t *testing.T) (*Manager, *Track) {
	t.Helper()
	m := NewManager(nil)
	curves := keyedCurveSet([]float64{1, 10, 20}, linearPos)
	scene := &fakeScene{
		localAt: func(tm float64) Vec3 { return curves.evaluatePosition(tm, Vec3{}) },
	}
	tr := m.AddObject("ball", scene, curves)
	return m, tr
}

func TestManagerAddRemoveObject(t *testing.T) {
	m, tr := managerWithTrack(t)

	if got := m.AddObject("ball", nil, nil); got != tr {
		t.Error("re-adding a name created a second track")
	}
	if len(m.Tracks()) != 1 {
		t.Fatalf("Tracks = %d, want 1", len(m.Tracks()))
	}

	got, ok := m.TrackFor("ball")
	if !ok || got != tr {
		t.Error("TrackFor lookup failed")
	}

	m.RemoveObject("ball")
	if len(m.Tracks()) != 0 {
		t.Error("track not removed")
	}
	if _, ok := m.TrackFor("ball"); ok {
		t.Error("removed track still resolvable")
	}
	m.RemoveObject("ball") // removing twice is fine
}

func TestManagerDefaultSettings(t *testing.T) {
	m := NewManager(nil)
	if m.Settings() == nil {
		t.Fatal("nil settings")
	}
	assertNear(t, "EndTime", m.Settings().EndTime, 120)

	custom := DefaultSettings()
	custom.EndTime = 48
	if got := NewManager(custom).Settings(); got != custom {
		t.Error("custom settings not kept")
	}
}

func TestManagerCameraCacheSharedPerViewport(t *testing.T) {
	m := NewManager(nil)
	v1 := &fakeViewport{}
	v2 := &fakeViewport{}

	c1 := m.CameraCacheFor(v1)
	if m.CameraCacheFor(v1) != c1 {
		t.Error("same viewport produced a second cache")
	}
	if m.CameraCacheFor(v2) == c1 {
		t.Error("distinct viewports share a cache")
	}

	if _, err := c1.EnsureAt(5); err != nil {
		t.Fatal(err)
	}
	m.InvalidateCameraCaches()
	if c1.Len() != 0 {
		t.Error("camera cache not invalidated")
	}
}

func TestManagerRefreshBuildsCaches(t *testing.T) {
	m, tr := managerWithTrack(t)

	if err := m.Refresh(10, &fakeViewport{}); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if tr.KeyframeCount() != 3 {
		t.Errorf("KeyframeCount = %d, want 3", tr.KeyframeCount())
	}
	if _, _, ok := tr.ParentCache().CachedRange(); !ok {
		t.Error("parent cache not filled")
	}
}

func TestManagerSetDisplayWindow(t *testing.T) {
	m, tr := managerWithTrack(t)
	m.SetDisplayWindow(5, 15)

	start, end := tr.DisplayWindow()
	assertNear(t, "start", start, 5)
	assertNear(t, "end", end, 15)
}

func TestManagerUndoBrackets(t *testing.T) {
	m := NewManager(nil)
	undo := &countingUndo{}
	m.SetUndoRecorder(undo)

	m.BeginUndo()
	m.EndUndo()
	if undo.begins != 1 || undo.ends != 1 {
		t.Errorf("undo brackets = %d/%d, want 1/1", undo.begins, undo.ends)
	}

	m.SetUndoRecorder(nil)
	m.BeginUndo() // must not panic
	m.EndUndo()
}

func TestManagerBufferPaths(t *testing.T) {
	m, _ := managerWithTrack(t)

	if err := m.CreateBufferPaths(); err != nil {
		t.Fatalf("CreateBufferPaths: %v", err)
	}
	if err := m.CreateBufferPaths(); err != nil {
		t.Fatal(err)
	}
	if len(m.BufferPaths()) != 2 {
		t.Fatalf("BufferPaths = %d, want 2", len(m.BufferPaths()))
	}

	m.BufferPaths()[0].Selected = true
	m.RemoveSelectedBufferPaths()
	if len(m.BufferPaths()) != 1 {
		t.Errorf("BufferPaths = %d after removal, want 1", len(m.BufferPaths()))
	}
	if m.BufferPaths()[0].Selected {
		t.Error("selected ghost survived removal")
	}

	m.ClearBufferPaths()
	if len(m.BufferPaths()) != 0 {
		t.Error("ghosts not cleared")
	}
}

func TestManagerBufferPathsKeepAdditionOrder(t *testing.T) {
	m := NewManager(nil)
	names := []string{"ball", "cube", "cone", "torus", "plane"}
	for _, name := range names {
		curves := keyedCurveSet([]float64{1, 10}, linearPos)
		scene := &fakeScene{
			localAt: func(tm float64) Vec3 { return curves.evaluatePosition(tm, Vec3{}) },
		}
		tr := m.AddObject(name, scene, curves)
		if tr.Name() != name {
			t.Fatalf("Name = %q, want %q", tr.Name(), name)
		}
	}

	if err := m.CreateBufferPaths(); err != nil {
		t.Fatalf("CreateBufferPaths: %v", err)
	}
	for i, bp := range m.BufferPaths() {
		if bp.Name != names[i] {
			t.Errorf("ghost %d: Name = %q, want %q", i, bp.Name, names[i])
		}
	}
}

func TestManagerSetLoggerPropagates(t *testing.T) {
	m, tr := managerWithTrack(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m.SetLogger(log)
	if tr.log != log {
		t.Error("logger not propagated to existing track")
	}
	if m.AddObject("cube", &fakeScene{}, &CurveSet{}).log != log {
		t.Error("logger not applied to new track")
	}
}
