package motionpath

// SceneAccessor provides time-dependent scene data for one tracked
// object. The host implements it on top of whatever evaluation engine
// it has; the library treats every call as expensive and caches
// aggressively on its side.
type SceneAccessor interface {
	// ParentMatrixAt returns the object's ancestor world matrix at t,
	// without pivot contributions.
	ParentMatrixAt(t float64) (Mat4, error)

	// RotatePivotAt and RotatePivotTranslationAt return the pivot
	// vectors at t. Only called when [Settings.UsePivots] is set.
	RotatePivotAt(t float64) (Vec3, error)
	RotatePivotTranslationAt(t float64) (Vec3, error)

	// LocalPositionAt returns the object's local translation at t.
	// Constrained objects report zero here and expose their motion
	// through the parent matrix instead.
	LocalPositionAt(t float64) (Vec3, error)

	// Constrained reports whether the object's position is driven by a
	// constraint rather than its own translation channels.
	Constrained() bool
}

// TransformSampler evaluates parent matrices through a [SceneAccessor]
// and counts how many evaluations reach the host. The count is how
// cache behavior is verified: a covered CacheRange call must add zero.
type TransformSampler struct {
	scene    SceneAccessor
	settings *Settings

	evals int // external parent-matrix evaluations, single-threaded
}

// NewTransformSampler wraps a scene accessor.
func NewTransformSampler(scene SceneAccessor, settings *Settings) *TransformSampler {
	return &TransformSampler{scene: scene, settings: settings}
}

// ParentMatrixAt returns the effective parent matrix at t, with pivot
// vectors folded in when enabled.
func (s *TransformSampler) ParentMatrixAt(t float64) (Mat4, error) {
	parent, rp, rpt, err := s.rawAt(t)
	if err != nil {
		return Mat4{}, err
	}
	if !s.settings.UsePivots {
		return parent, nil
	}
	return composePivots(parent, rp, rpt), nil
}

// rawAt gathers the uncomposed inputs for one frame. The three-phase
// range rebuild calls this on the caller's goroutine and defers the
// pivot composition to workers.
func (s *TransformSampler) rawAt(t float64) (parent Mat4, rp, rpt Vec3, err error) {
	s.evals++
	parent, err = s.scene.ParentMatrixAt(t)
	if err != nil {
		return Mat4{}, Vec3{}, Vec3{}, err
	}
	if s.settings.UsePivots {
		rp, err = s.scene.RotatePivotAt(t)
		if err != nil {
			return Mat4{}, Vec3{}, Vec3{}, err
		}
		rpt, err = s.scene.RotatePivotTranslationAt(t)
		if err != nil {
			return Mat4{}, Vec3{}, Vec3{}, err
		}
	}
	return parent, rp, rpt, nil
}

// LocalPositionAt returns the tracked object's local position at t.
func (s *TransformSampler) LocalPositionAt(t float64) (Vec3, error) {
	return s.scene.LocalPositionAt(t)
}

// Constrained reports whether the tracked object is constraint-driven.
func (s *TransformSampler) Constrained() bool {
	return s.scene.Constrained()
}

// EvalCount returns the number of parent-matrix evaluations issued to
// the host since construction or the last [TransformSampler.ResetEvalCount].
func (s *TransformSampler) EvalCount() int { return s.evals }

// ResetEvalCount zeroes the evaluation counter.
func (s *TransformSampler) ResetEvalCount() { s.evals = 0 }

// composePivots folds the pivot translations into a parent matrix.
// The rotate-pivot translates first, then the rotate-pivot-translate,
// then the parent.
func composePivots(parent Mat4, rp, rpt Vec3) Mat4 {
	return TranslationMat4(rpt).Mul(TranslationMat4(rp).Mul(parent))
}
