package motionpath

import (
	"math"
	"os"
	"sort"
	"testing"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertNearTol(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (tolerance %v)", name, got, want, tol)
	}
}

func assertVec2(t *testing.T, name string, got, want Vec2) {
	t.Helper()
	if math.Abs(got.X-want.X) > epsilon || math.Abs(got.Y-want.Y) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec3(t *testing.T, name string, got, want Vec3) {
	t.Helper()
	if math.Abs(got.X-want.X) > epsilon || math.Abs(got.Y-want.Y) > epsilon || math.Abs(got.Z-want.Z) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// fakeTangent stores both tangent representations; tests read whichever
// side of [Curve] they exercise.
type fakeTangent struct {
	angle, weight float64
	x, y          float64
}

type fakeKey struct {
	time, value    float64
	in, out        fakeTangent
	tangentsLocked bool
	weightsLocked  bool
}

// fakeCurve is an in-memory [Curve] with sorted keys and linear
// interpolation, enough to stand in for a host animation curve.
type fakeCurve struct {
	keys        []fakeKey
	weighted    bool
	failTangent bool
}

func (c *fakeCurve) KeyCount() int             { return len(c.keys) }
func (c *fakeCurve) TimeAt(index int) float64  { return c.keys[index].time }
func (c *fakeCurve) ValueAt(index int) float64 { return c.keys[index].value }

func (c *fakeCurve) Evaluate(t float64) float64 {
	if len(c.keys) == 0 {
		return 0
	}
	if t <= c.keys[0].time {
		return c.keys[0].value
	}
	last := c.keys[len(c.keys)-1]
	if t >= last.time {
		return last.value
	}
	for i := 1; i < len(c.keys); i++ {
		if t <= c.keys[i].time {
			a, b := c.keys[i-1], c.keys[i]
			f := (t - a.time) / (b.time - a.time)
			return a.value + (b.value-a.value)*f
		}
	}
	return last.value
}

func (c *fakeCurve) Find(t float64) (int, bool) {
	for i := range c.keys {
		if KeyForTime(c.keys[i].time) == KeyForTime(t) {
			return i, true
		}
	}
	return 0, false
}

func (c *fakeCurve) AddKey(t, value float64) int {
	k := fakeKey{
		time:  t,
		value: value,
		in:    fakeTangent{weight: 1, x: 1},
		out:   fakeTangent{weight: 1, x: 1},
	}
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].time > t })
	c.keys = append(c.keys, fakeKey{})
	copy(c.keys[i+1:], c.keys[i:])
	c.keys[i] = k
	return i
}

func (c *fakeCurve) RemoveKey(index int) {
	c.keys = append(c.keys[:index], c.keys[index+1:]...)
}

func (c *fakeCurve) SetValueAt(index int, value float64) { c.keys[index].value = value }

func (c *fakeCurve) Weighted() bool { return c.weighted }

func (c *fakeCurve) TangentsLocked(index int) bool { return c.keys[index].tangentsLocked }
func (c *fakeCurve) SetTangentsLocked(index int, locked bool) {
	c.keys[index].tangentsLocked = locked
}
func (c *fakeCurve) WeightsLocked(index int) bool { return c.keys[index].weightsLocked }
func (c *fakeCurve) SetWeightsLocked(index int, locked bool) {
	c.keys[index].weightsLocked = locked
}

func (c *fakeCurve) tangent(index int, end TangentEnd) *fakeTangent {
	if end == TangentIn {
		return &c.keys[index].in
	}
	return &c.keys[index].out
}

func (c *fakeCurve) Tangent(index int, end TangentEnd) (float64, float64, error) {
	if c.failTangent {
		return 0, 0, errTangentUnavailable
	}
	tan := c.tangent(index, end)
	return tan.angle, tan.weight, nil
}

func (c *fakeCurve) SetTangent(index int, end TangentEnd, angle, weight float64) {
	tan := c.tangent(index, end)
	tan.angle, tan.weight = angle, weight
}

func (c *fakeCurve) TangentXY(index int, end TangentEnd) (float64, float64, error) {
	if c.failTangent {
		return 0, 0, errTangentUnavailable
	}
	tan := c.tangent(index, end)
	return tan.x, tan.y, nil
}

func (c *fakeCurve) SetTangentXY(index int, end TangentEnd, x, y float64) {
	tan := c.tangent(index, end)
	tan.x, tan.y = x, y
}

var errTangentUnavailable = errFake("tangent unavailable")

type errFake string

func (e errFake) Error() string { return string(e) }

// curveWithKeys builds a fakeCurve keyed at times with values[i].
func curveWithKeys(times, values []float64) *fakeCurve {
	c := &fakeCurve{}
	for i, t := range times {
		c.AddKey(t, values[i])
	}
	return c
}

// keyedCurveSet builds three translation curves keyed at times, taking
// per-axis values from pos.
func keyedCurveSet(times []float64, pos func(t float64) Vec3) *CurveSet {
	cx, cy, cz := &fakeCurve{}, &fakeCurve{}, &fakeCurve{}
	for _, t := range times {
		p := pos(t)
		cx.AddKey(t, p.X)
		cy.AddKey(t, p.Y)
		cz.AddKey(t, p.Z)
	}
	return &CurveSet{TranslateX: cx, TranslateY: cy, TranslateZ: cz}
}

// fakeScene is an in-memory [SceneAccessor]. Nil funcs fall back to the
// identity parent and zero local position.
type fakeScene struct {
	parentAt    func(t float64) Mat4
	localAt     func(t float64) Vec3
	rp, rpt     Vec3
	constrained bool
	parentErr   error
}

func (s *fakeScene) ParentMatrixAt(t float64) (Mat4, error) {
	if s.parentErr != nil {
		return Mat4{}, s.parentErr
	}
	if s.parentAt != nil {
		return s.parentAt(t), nil
	}
	return Mat4Identity(), nil
}

func (s *fakeScene) RotatePivotAt(t float64) (Vec3, error)            { return s.rp, nil }
func (s *fakeScene) RotatePivotTranslationAt(t float64) (Vec3, error) { return s.rpt, nil }

func (s *fakeScene) LocalPositionAt(t float64) (Vec3, error) {
	if s.localAt != nil {
		return s.localAt(t), nil
	}
	return Vec3{}, nil
}

func (s *fakeScene) Constrained() bool { return s.constrained }

// newTestTrack wires a track whose local position is evaluated from its
// own curves, the way a host transform node behaves.
func newTestTrack(curves *CurveSet, settings *Settings) (*Track, *fakeScene) {
	scene := &fakeScene{
		localAt: func(t float64) Vec3 { return curves.evaluatePosition(t, Vec3{}) },
	}
	return NewTrack(scene, curves, settings), scene
}

// fakeViewport projects world X/Y straight to screen pixels and drags
// points by the screen delta. Good enough for stroke geometry tests.
type fakeViewport struct {
	cameraAt func(t float64) Mat4
}

func (v *fakeViewport) WorldToScreen(p Vec3) Vec2 { return Vec2{p.X, p.Y} }

func (v *fakeViewport) MoveWorldPoint(anchor Vec3, from, to Vec2) Vec3 {
	d := to.Sub(from)
	return Vec3{anchor.X + d.X, anchor.Y + d.Y, anchor.Z}
}

func (v *fakeViewport) CameraPosition() Vec3 { return Vec3{0, 0, 10} }

func (v *fakeViewport) CameraMatrixAt(t float64) (Mat4, error) {
	if v.cameraAt != nil {
		return v.cameraAt(t), nil
	}
	return Mat4Identity(), nil
}
