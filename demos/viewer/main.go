// Viewer animates a small object through 3D space and draws its motion
// path, keyframes, and tangent handles live. Drag near a key to sketch
// a stroke; releasing the mouse refits the surrounding keys onto it.
//
// Keys: space pauses the playhead, S switches the stroke between
// closest-point and spread refitting, R restores the original keys.
package main

import (
	"image/color"
	"log"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/quillon/motionpath"
)

const (
	windowTitle = "Motion Path — Viewer"
	screenW     = 1280
	screenH     = 720

	focalLength = 900.0
	cameraDist  = 18.0
	nearClip    = 0.1

	playDuration = 8.0 // seconds for one start-to-end sweep
	grabRadius   = 30.0
)

var (
	pathColor   = color.RGBA{90, 170, 255, 255}
	keyColor    = color.RGBA{255, 210, 80, 255}
	handleColor = color.RGBA{120, 255, 160, 255}
	strokeColor = color.RGBA{255, 90, 120, 255}
	headColor   = color.RGBA{255, 255, 255, 255}
)

// demoCurve is a minimal in-memory animation curve: sorted keys,
// linear interpolation, tangents stored in the angle/weight form.
type demoCurve struct {
	keys []demoKey
}

type demoKey struct {
	time, value         float64
	inAngle, inWeight   float64
	outAngle, outWeight float64
	tangentsLocked      bool
	weightsLocked       bool
}

func (c *demoCurve) KeyCount() int             { return len(c.keys) }
func (c *demoCurve) TimeAt(index int) float64  { return c.keys[index].time }
func (c *demoCurve) ValueAt(index int) float64 { return c.keys[index].value }

func (c *demoCurve) Evaluate(t float64) float64 {
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
			// Smoothstep keeps the demo path from looking segmented.
			f = f * f * (3 - 2*f)
			return a.value + (b.value-a.value)*f
		}
	}
	return last.value
}

func (c *demoCurve) Find(t float64) (int, bool) {
	for i := range c.keys {
		if motionpath.KeyForTime(c.keys[i].time) == motionpath.KeyForTime(t) {
			return i, true
		}
	}
	return 0, false
}

func (c *demoCurve) AddKey(t, value float64) int {
	k := demoKey{time: t, value: value, inWeight: 1, outWeight: 1}
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].time > t })
	c.keys = append(c.keys, demoKey{})
	copy(c.keys[i+1:], c.keys[i:])
	c.keys[i] = k
	return i
}

func (c *demoCurve) RemoveKey(index int) {
	c.keys = append(c.keys[:index], c.keys[index+1:]...)
}

func (c *demoCurve) SetValueAt(index int, value float64) { c.keys[index].value = value }

func (c *demoCurve) Weighted() bool { return false }

func (c *demoCurve) TangentsLocked(index int) bool { return c.keys[index].tangentsLocked }
func (c *demoCurve) SetTangentsLocked(index int, locked bool) {
	c.keys[index].tangentsLocked = locked
}
func (c *demoCurve) WeightsLocked(index int) bool { return c.keys[index].weightsLocked }
func (c *demoCurve) SetWeightsLocked(index int, locked bool) {
	c.keys[index].weightsLocked = locked
}

func (c *demoCurve) Tangent(index int, end motionpath.TangentEnd) (float64, float64, error) {
	k := &c.keys[index]
	if end == motionpath.TangentIn {
		return k.inAngle, k.inWeight, nil
	}
	return k.outAngle, k.outWeight, nil
}

func (c *demoCurve) SetTangent(index int, end motionpath.TangentEnd, angle, weight float64) {
	k := &c.keys[index]
	if end == motionpath.TangentIn {
		k.inAngle, k.inWeight = angle, weight
	} else {
		k.outAngle, k.outWeight = angle, weight
	}
}

func (c *demoCurve) TangentXY(index int, end motionpath.TangentEnd) (float64, float64, error) {
	angle, weight, _ := c.Tangent(index, end)
	return weight, math.Tan(angle) * weight * 3, nil
}

func (c *demoCurve) SetTangentXY(index int, end motionpath.TangentEnd, x, y float64) {
	c.SetTangent(index, end, math.Atan2(y, x), x)
}

// demoScene is the scene accessor for the viewer's one object: no
// parent animation, local position straight from the curves.
type demoScene struct {
	curves *motionpath.CurveSet
}

func (s *demoScene) ParentMatrixAt(t float64) (motionpath.Mat4, error) {
	return motionpath.Mat4Identity(), nil
}
func (s *demoScene) RotatePivotAt(t float64) (motionpath.Vec3, error) {
	return motionpath.Vec3{}, nil
}
func (s *demoScene) RotatePivotTranslationAt(t float64) (motionpath.Vec3, error) {
	return motionpath.Vec3{}, nil
}
func (s *demoScene) LocalPositionAt(t float64) (motionpath.Vec3, error) {
	return motionpath.Vec3{
		X: s.curves.TranslateX.Evaluate(t),
		Y: s.curves.TranslateY.Evaluate(t),
		Z: s.curves.TranslateZ.Evaluate(t),
	}, nil
}
func (s *demoScene) Constrained() bool { return false }

// orbitViewport projects through a camera slowly orbiting the origin.
type orbitViewport struct {
	now float64
}

func (v *orbitViewport) cameraAt(t float64) motionpath.Mat4 {
	angle := 0.004 * t
	eye := motionpath.Vec3{
		X: cameraDist * math.Sin(angle),
		Y: 6,
		Z: -cameraDist * math.Cos(angle),
	}
	return lookAt(eye, motionpath.Vec3{}, motionpath.Vec3{Y: 1})
}

func (v *orbitViewport) CameraMatrixAt(t float64) (motionpath.Mat4, error) {
	return v.cameraAt(t), nil
}

func (v *orbitViewport) CameraPosition() motionpath.Vec3 {
	return v.cameraAt(v.now).Translation()
}

func (v *orbitViewport) WorldToScreen(p motionpath.Vec3) motionpath.Vec2 {
	view := v.cameraAt(v.now).Inverse()
	q := view.MulPoint(p)
	z := math.Max(q.Z, nearClip)
	return motionpath.Vec2{
		X: screenW/2 + focalLength*q.X/z,
		Y: screenH/2 - focalLength*q.Y/z,
	}
}

func (v *orbitViewport) MoveWorldPoint(anchor motionpath.Vec3, from, to motionpath.Vec2) motionpath.Vec3 {
	cam := v.cameraAt(v.now)
	a := cam.Inverse().MulPoint(anchor)
	z := math.Max(a.Z, nearClip)
	return cam.MulPoint(motionpath.Vec3{
		X: (to.X - screenW/2) / focalLength * z,
		Y: -(to.Y - screenH/2) / focalLength * z,
		Z: a.Z,
	})
}

// lookAt builds a camera world matrix with basis rows aimed at target.
func lookAt(eye, target, up motionpath.Vec3) motionpath.Mat4 {
	f := target.Sub(eye).Normalized()
	r := up.Cross(f).Normalized()
	u := f.Cross(r)

	m := motionpath.Mat4Identity()
	m[0][0], m[0][1], m[0][2] = r.X, r.Y, r.Z
	m[1][0], m[1][1], m[1][2] = u.X, u.Y, u.Z
	m[2][0], m[2][1], m[2][2] = f.X, f.Y, f.Z
	m[3][0], m[3][1], m[3][2] = eye.X, eye.Y, eye.Z
	return m
}

type game struct {
	mgr    *motionpath.Manager
	track  *motionpath.Track
	vp     *orbitViewport
	stroke motionpath.Stroke

	playhead *gween.Tween
	now      float64
	paused   bool

	dragging bool
	grabTime float64
}

func buildCurves() *motionpath.CurveSet {
	type waypoint struct {
		t float64
		p motionpath.Vec3
	}
	waypoints := []waypoint{
		{1, motionpath.Vec3{X: -7, Y: -2, Z: 0}},
		{20, motionpath.Vec3{X: -4, Y: 3, Z: 2}},
		{40, motionpath.Vec3{X: 0, Y: -1, Z: -2}},
		{60, motionpath.Vec3{X: 3, Y: 4, Z: 1}},
		{80, motionpath.Vec3{X: 6, Y: 0, Z: -1}},
		{100, motionpath.Vec3{X: 8, Y: 2, Z: 2}},
		{120, motionpath.Vec3{X: 10, Y: -2, Z: 0}},
	}

	cx, cy, cz := &demoCurve{}, &demoCurve{}, &demoCurve{}
	for _, w := range waypoints {
		cx.AddKey(w.t, w.p.X)
		cy.AddKey(w.t, w.p.Y)
		cz.AddKey(w.t, w.p.Z)
	}
	return &motionpath.CurveSet{TranslateX: cx, TranslateY: cy, TranslateZ: cz}
}

func newGame() *game {
	settings := motionpath.DefaultSettings()
	settings.FramesBack = 120
	settings.FramesFront = 120

	mgr := motionpath.NewManager(settings)
	curves := buildCurves()
	track := mgr.AddObject("orb", &demoScene{curves: curves}, curves)

	g := &game{
		mgr:      mgr,
		track:    track,
		vp:       &orbitViewport{now: settings.StartTime},
		playhead: gween.New(float32(settings.StartTime), float32(settings.EndTime), playDuration, ease.InOutSine),
		now:      settings.StartTime,
	}
	return g
}

func (g *game) Update() error {
	settings := g.mgr.Settings()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if settings.StrokeMode == motionpath.StrokeClosest {
			settings.StrokeMode = motionpath.StrokeSpread
		} else {
			settings.StrokeMode = motionpath.StrokeClosest
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		curves := buildCurves()
		*g.track.Curves() = *curves
		g.track.InvalidateParentCache()
	}

	if !g.paused {
		value, done := g.playhead.Update(float32(1.0 / float64(ebiten.TPS())))
		g.now = float64(value)
		if done {
			g.playhead = gween.New(float32(settings.StartTime), float32(settings.EndTime), playDuration, ease.InOutSine)
		}
	}
	g.vp.now = g.now

	g.handleStroke()

	if err := g.mgr.Refresh(g.now, g.vp); err != nil {
		return err
	}
	return nil
}

func (g *game) handleStroke() {
	mx, my := ebiten.CursorPosition()
	cursor := motionpath.Vec2{X: float64(mx), Y: float64(my)}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if t, ok := g.nearestKeyTime(cursor); ok {
			g.dragging = true
			g.grabTime = t
			g.stroke.Reset()
			g.stroke.Add(cursor)
		}
		return
	}

	if g.dragging && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.stroke.Add(cursor)
		return
	}

	if g.dragging {
		g.dragging = false
		fit := &motionpath.StrokeFit{
			Track:    g.track,
			Viewport: g.vp,
			Stroke:   &g.stroke,
			Settings: g.mgr.Settings(),
			Now:      g.now,
		}
		if err := fit.Apply(g.grabTime); err != nil {
			log.Printf("stroke refit failed: %v", err)
		}
		g.stroke.Reset()
	}
}

func (g *game) nearestKeyTime(cursor motionpath.Vec2) (float64, bool) {
	best := math.Inf(1)
	bestTime := 0.0
	for _, k := range g.track.Keyframes() {
		d := g.vp.WorldToScreen(k.WorldPosition).Sub(cursor).Length()
		if d < best {
			best = d
			bestTime = k.Time
		}
	}
	return bestTime, best <= grabRadius
}

func (g *game) Draw(screen *ebiten.Image) {
	settings := g.mgr.Settings()

	positions, err := g.track.FramePositions(settings.StartTime, settings.EndTime, g.now, nil)
	if err != nil {
		return
	}

	if settings.ShowPath {
		var prev motionpath.Vec2
		for i, pos := range positions {
			p := g.vp.WorldToScreen(pos)
			if i > 0 {
				vector.StrokeLine(screen, float32(prev.X), float32(prev.Y), float32(p.X), float32(p.Y), 2, pathColor, true)
			}
			prev = p
		}
	}

	for _, k := range g.track.Keyframes() {
		p := g.vp.WorldToScreen(k.WorldPosition)

		if settings.ShowTangents {
			if k.ShowInTangent {
				h := g.vp.WorldToScreen(k.InHandleWorld)
				vector.StrokeLine(screen, float32(p.X), float32(p.Y), float32(h.X), float32(h.Y), 1, handleColor, true)
				vector.DrawFilledCircle(screen, float32(h.X), float32(h.Y), 3, handleColor, true)
			}
			if k.ShowOutTangent {
				h := g.vp.WorldToScreen(k.OutHandleWorld)
				vector.StrokeLine(screen, float32(p.X), float32(p.Y), float32(h.X), float32(h.Y), 1, handleColor, true)
				vector.DrawFilledCircle(screen, float32(h.X), float32(h.Y), 3, handleColor, true)
			}
		}

		r := float32(5)
		if k.Selected {
			r = 7
		}
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), r, keyColor, true)
	}

	if pos, err := g.track.WorldPositionAt(g.now); err == nil {
		p := g.vp.WorldToScreen(pos)
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), 8, headColor, true)
	}

	points := g.stroke.Points()
	for i := 1; i < len(points); i++ {
		vector.StrokeLine(screen,
			float32(points[i-1].X), float32(points[i-1].Y),
			float32(points[i].X), float32(points[i].Y), 3, strokeColor, true)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle(windowTitle)
	if err := ebiten.RunGame(newGame()); err != nil {
		log.Fatal(err)
	}
}
