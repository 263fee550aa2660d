package motionpath

import "testing"

func TestCreateBufferPathKeyedTrack(t *testing.T) {
	curves := keyedCurveSet([]float64{5, 10, 15}, linearPos)
	settings := DefaultSettings()
	settings.StartTime = 1
	settings.EndTime = 20
	tr, _ := newTestTrack(curves, settings)

	bp, err := tr.CreateBufferPath("ball")
	if err != nil {
		t.Fatalf("CreateBufferPath: %v", err)
	}

	if bp.Name != "ball" {
		t.Errorf("Name = %q", bp.Name)
	}
	// Keys sit inside the animation range, so the snapshot covers the
	// full range.
	assertNear(t, "MinTime", bp.MinTime(), 1)
	if bp.FrameCount() != 20 {
		t.Errorf("FrameCount = %d, want 20", bp.FrameCount())
	}

	pos, ok := bp.PositionAtTime(7)
	if !ok {
		t.Fatal("frame 7 missing")
	}
	want, _ := tr.WorldPositionAt(7)
	assertVec3(t, "frame position", pos, want)

	if _, ok := bp.PositionAtTime(25); ok {
		t.Error("position past the snapshot reported present")
	}

	times := bp.KeyframeTimes()
	if len(times) != 3 {
		t.Fatalf("KeyframeTimes = %v", times)
	}
	assertNear(t, "key time", times[1], 10)

	kp, ok := bp.KeyframePosition(10)
	if !ok {
		t.Fatal("keyframe 10 missing")
	}
	assertVec3(t, "keyframe position", kp, linearPos(10))
}

func TestCreateBufferPathExtendsToKeyedRange(t *testing.T) {
	// Keys past the animation range widen the snapshot.
	curves := keyedCurveSet([]float64{5, 30}, linearPos)
	settings := DefaultSettings()
	settings.StartTime = 1
	settings.EndTime = 20
	tr, _ := newTestTrack(curves, settings)

	bp, err := tr.CreateBufferPath("ball")
	if err != nil {
		t.Fatal(err)
	}
	assertNear(t, "MinTime", bp.MinTime(), 1)
	if bp.FrameCount() != 30 {
		t.Errorf("FrameCount = %d, want 30", bp.FrameCount())
	}
}

func TestCreateBufferPathConstrained(t *testing.T) {
	curves := &CurveSet{}
	settings := DefaultSettings()
	settings.StartTime = 1
	settings.EndTime = 10

	scene := &fakeScene{
		constrained: true,
		parentAt:    func(t float64) Mat4 { return TranslationMat4(Vec3{t, 0, 0}) },
	}
	tr := NewTrack(scene, curves, settings)

	bp, err := tr.CreateBufferPath("driven")
	if err != nil {
		t.Fatal(err)
	}

	// Constrained snapshots record the parent translation and have no
	// keyframes.
	assertNear(t, "MinTime", bp.MinTime(), 1)
	if bp.FrameCount() != 10 {
		t.Errorf("FrameCount = %d, want 10", bp.FrameCount())
	}
	pos, _ := bp.PositionAtTime(4)
	assertVec3(t, "frame position", pos, Vec3{4, 0, 0})
	if len(bp.KeyframeTimes()) != 0 {
		t.Error("constrained snapshot has keyframes")
	}
}

func TestBufferPathDisplayPositions(t *testing.T) {
	curves := keyedCurveSet([]float64{1, 10}, linearPos)
	settings := DefaultSettings()
	settings.StartTime = 1
	settings.EndTime = 10
	tr, _ := newTestTrack(curves, settings)

	bp, err := tr.CreateBufferPath("ball")
	if err != nil {
		t.Fatal(err)
	}

	positions, err := bp.DisplayPositions(3, 6, 3, nil, WorldSpace)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 4 {
		t.Fatalf("len = %d, want 4", len(positions))
	}
	assertVec3(t, "first", positions[0], linearPos(3))

	// Camera display with a static camera equals world display.
	cam := NewCameraCache(&fakeViewport{
		cameraAt: func(t float64) Mat4 { return TranslationMat4(Vec3{0, 0, 8}) },
	})
	camPositions, err := bp.DisplayPositions(3, 6, 3, cam, CameraSpace)
	if err != nil {
		t.Fatal(err)
	}
	for i := range camPositions {
		assertVec3(t, "static camera", camPositions[i], positions[i])
	}

	// Camera display with no cache yields nothing.
	none, err := bp.DisplayPositions(3, 6, 3, nil, CameraSpace)
	if err != nil || none != nil {
		t.Errorf("positions without camera = %v, %v", none, err)
	}
}
