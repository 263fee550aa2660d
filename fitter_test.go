package motionpath

import "testing"

// fitTrack builds a track keyed every 10 frames along world X with its
// keyframe cache built, plus the fit around it.
func fitTrack(t *testing.T, mode StrokeMode) (*StrokeFit, *CurveSet) {
	t.Helper()
	curves := keyedCurveSet([]float64{1, 2, 3, 4, 5}, func(tm float64) Vec3 {
		return Vec3{tm * 10, 0, 0}
	})
	settings := DefaultSettings()
	settings.StrokeMode = mode
	tr, _ := newTestTrack(curves, settings)
	if err := tr.RebuildKeyframes(1, nil); err != nil {
		t.Fatal(err)
	}
	return &StrokeFit{
		Track:    tr,
		Viewport: &fakeViewport{},
		Stroke:   &Stroke{},
		Settings: settings,
		Now:      1,
	}, curves
}

func TestStrokeDirectionPicksWalkSide(t *testing.T) {
	f, _ := fitTrack(t, StrokeClosest)
	keys := f.Track.Keys()

	// Keys sit at screen X = 10..50; from the middle key a rightward
	// stroke walks to later keys, a leftward one to earlier keys.
	if got := f.strokeDirection(Vec2{1, 0}, keys, 2); got != 1 {
		t.Errorf("rightward direction = %d, want 1", got)
	}
	if got := f.strokeDirection(Vec2{-1, 0}, keys, 2); got != -1 {
		t.Errorf("leftward direction = %d, want -1", got)
	}
}

func TestStrokeDirectionAmbiguous(t *testing.T) {
	f, _ := fitTrack(t, StrokeClosest)
	keys := f.Track.Keys()

	// From the first key there is no earlier neighbor; a stroke moving
	// away from the later one has no walkable side.
	if got := f.strokeDirection(Vec2{-1, 0}, keys, 0); got != 0 {
		t.Errorf("ambiguous direction = %d, want 0", got)
	}
}

func TestCollectCandidatesWalksWhileDistanceShrinks(t *testing.T) {
	f, _ := fitTrack(t, StrokeClosest)
	f.Stroke.points = []Vec2{{10, 5}, {30, 5}, {50, 5}}

	keys := f.Track.Keys()
	cache := f.collectCandidates(keys, 2, 1)

	if len(cache) != 2 {
		t.Fatalf("candidates = %d, want 2", len(cache))
	}
	assertNear(t, "candidate 0 time", cache[0].time, 4)
	assertNear(t, "candidate 1 time", cache[1].time, 5)
	assertVec2(t, "candidate screen", cache[0].originalScreen, Vec2{40, 0})
	assertVec3(t, "candidate world", cache[0].originalWorld, Vec3{40, 0, 0})
}

func TestCollectCandidatesBuffersNonImproving(t *testing.T) {
	// World path doubles back: screen X runs 10,20,30,25,40. Walking
	// right from the middle key, the key at 25 moves away from the
	// stroke end at (50,5) but the next one improves again, so the
	// buffered key is promoted.
	curves := keyedCurveSet([]float64{1, 2, 3, 4, 5}, func(tm float64) Vec3 {
		xs := map[float64]float64{1: 10, 2: 20, 3: 30, 4: 25, 5: 40}
		return Vec3{xs[tm], 0, 0}
	})
	tr, _ := newTestTrack(curves, DefaultSettings())
	if err := tr.RebuildKeyframes(1, nil); err != nil {
		t.Fatal(err)
	}
	f := &StrokeFit{
		Track:    tr,
		Viewport: &fakeViewport{},
		Stroke:   strokeFromPoints(Vec2{10, 5}, Vec2{30, 5}, Vec2{50, 5}),
		Settings: DefaultSettings(),
	}

	cache := f.collectCandidates(tr.Keys(), 2, 1)
	if len(cache) != 2 {
		t.Fatalf("candidates = %d, want 2", len(cache))
	}
	// The buffered key at time 4 is flushed in walk order before the
	// improving key at time 5.
	assertNear(t, "buffered candidate", cache[0].time, 4)
	assertNear(t, "improving candidate", cache[1].time, 5)
}

func TestApplyClosestRefitsKeys(t *testing.T) {
	f, curves := fitTrack(t, StrokeClosest)
	// Stroke hovers 5px above the path, spanning the later keys.
	f.Stroke.points = []Vec2{{10, 5}, {30, 5}, {50, 5}}

	if err := f.Apply(3); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	cy := curves.TranslateY.(*fakeCurve)
	for _, tm := range []float64{4, 5} {
		i, ok := cy.Find(tm)
		if !ok {
			t.Fatalf("no Y key at %v after refit", tm)
		}
		assertNear(t, "Y lifted onto stroke", cy.ValueAt(i), 5)
	}
	// X positions project straight down onto the stroke, so they keep
	// their values.
	cx := curves.TranslateX.(*fakeCurve)
	i, _ := cx.Find(4)
	assertNear(t, "X kept", cx.ValueAt(i), 40)

	// Keys outside the walk are untouched.
	i, _ = cy.Find(1)
	assertNear(t, "untouched key", cy.ValueAt(i), 0)
}

func TestApplyAmbiguousStrokeIsNoOp(t *testing.T) {
	f, curves := fitTrack(t, StrokeClosest)
	// Leftward stroke grabbed at the first key: nothing to walk.
	f.Stroke.points = []Vec2{{10, 0}, {-10, 0}, {-30, 0}}

	if err := f.Apply(1); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	cy := curves.TranslateY.(*fakeCurve)
	for i := 0; i < cy.KeyCount(); i++ {
		assertNear(t, "Y untouched", cy.ValueAt(i), 0)
	}
}

func TestApplyShortStrokeIsNoOp(t *testing.T) {
	f, curves := fitTrack(t, StrokeClosest)
	f.Stroke.points = []Vec2{{10, 5}, {30, 5}}

	if err := f.Apply(3); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := curves.TranslateX.KeyCount(); got != 5 {
		t.Errorf("KeyCount = %d, want 5 (stroke too short to refit)", got)
	}
}

func TestApplyDrawSketchesKeys(t *testing.T) {
	curves := keyedCurveSet([]float64{0}, func(tm float64) Vec3 { return Vec3{} })
	settings := DefaultSettings()
	settings.DrawKeyframeCount = 4
	settings.DrawFrameInterval = 5
	tr, _ := newTestTrack(curves, settings)
	if err := tr.RebuildKeyframes(0, nil); err != nil {
		t.Fatal(err)
	}

	// Pre-seed a key the sketch range must replace.
	if err := tr.AddKeyAtTime(10, nil, false); err != nil {
		t.Fatal(err)
	}

	stroke := strokeFromPoints(
		Vec2{0, 0}, Vec2{10, 0}, Vec2{20, 0}, Vec2{30, 0}, Vec2{40, 0},
		Vec2{50, 0}, Vec2{60, 0}, Vec2{70, 0}, Vec2{80, 0}, Vec2{90, 0},
		Vec2{100, 0},
	)
	f := &StrokeFit{
		Track:    tr,
		Viewport: &fakeViewport{},
		Stroke:   stroke,
		Settings: settings,
		Now:      0,
	}

	if err := f.ApplyDraw(0, Vec3{}); err != nil {
		t.Fatalf("ApplyDraw: %v", err)
	}

	cx := curves.TranslateX.(*fakeCurve)
	if cx.KeyCount() != 5 {
		t.Fatalf("KeyCount = %d, want anchor + 4 sketched keys", cx.KeyCount())
	}

	// Keys every 5 frames, sampled evenly along the stroke.
	wantTimes := []float64{5, 10, 15, 20}
	wantX := []float64{20, 40, 60, 80}
	for i, tm := range wantTimes {
		idx, ok := cx.Find(tm)
		if !ok {
			t.Fatalf("no key at %v", tm)
		}
		assertNear(t, "sketched X", cx.ValueAt(idx), wantX[i])
	}
	assertNear(t, "end drawing time", tr.EndDrawingTime(), 20)
}

func TestApplyDrawInvalidInterval(t *testing.T) {
	curves := keyedCurveSet([]float64{0}, func(tm float64) Vec3 { return Vec3{} })
	settings := DefaultSettings()
	settings.DrawKeyframeCount = 2
	settings.DrawFrameInterval = 0
	tr, _ := newTestTrack(curves, settings)
	if err := tr.RebuildKeyframes(0, nil); err != nil {
		t.Fatal(err)
	}

	f := &StrokeFit{
		Track:    tr,
		Viewport: &fakeViewport{},
		Stroke:   strokeFromPoints(Vec2{0, 0}, Vec2{30, 0}, Vec2{60, 0}),
		Settings: settings,
	}
	if err := f.ApplyDraw(0, Vec3{}); err != nil {
		t.Fatalf("ApplyDraw: %v", err)
	}

	// Interval falls back to one frame.
	cx := curves.TranslateX.(*fakeCurve)
	if _, ok := cx.Find(1); !ok {
		t.Error("no key at frame 1")
	}
	if _, ok := cx.Find(2); !ok {
		t.Error("no key at frame 2")
	}
}
