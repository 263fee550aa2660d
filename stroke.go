package motionpath

// strokeMinDistance is the minimum screen distance between recorded
// stroke samples. Finer mouse moves add nothing but segments.
const strokeMinDistance = 8.0

// Stroke is a freehand screen-space polyline recorded during a drag
// gesture. Points are in viewport pixel coordinates.
type Stroke struct {
	points []Vec2
}

// Reset drops all samples.
func (s *Stroke) Reset() { s.points = s.points[:0] }

// Add appends a sample unless it is within [strokeMinDistance] pixels
// of the previous one. The first sample is always kept.
func (s *Stroke) Add(p Vec2) {
	if len(s.points) > 0 {
		if p.Sub(s.points[len(s.points)-1]).Length() <= strokeMinDistance {
			return
		}
	}
	s.points = append(s.points, p)
}

// Len returns the number of recorded samples.
func (s *Stroke) Len() int { return len(s.points) }

// Points returns the recorded samples. The slice is owned by the
// stroke and valid until the next Add or Reset.
func (s *Stroke) Points() []Vec2 { return s.points }

// At returns sample i, or the zero value when i is out of range.
func (s *Stroke) At(i int) Vec2 {
	if i < 0 || i >= len(s.points) {
		return Vec2{}
	}
	return s.points[i]
}

// Last returns the most recent sample, or the zero value for an empty
// stroke.
func (s *Stroke) Last() Vec2 {
	if len(s.points) == 0 {
		return Vec2{}
	}
	return s.points[len(s.points)-1]
}

// Direction returns the stroke's net direction: the normalized average
// of every sample's offset from the first sample.
func (s *Stroke) Direction() Vec2 {
	if len(s.points) < 2 {
		return Vec2{}
	}
	var dir Vec2
	for i := 1; i < len(s.points); i++ {
		dir = dir.Add(s.points[i].Sub(s.points[0]))
	}
	dir = dir.Scale(1 / float64(len(s.points)-1))
	return dir.Normalized()
}

// ClosestPoint returns the point on the stroke polyline closest to q.
// Zero-length segments are skipped and projections behind a segment's
// start are ignored; when no segment yields a valid projection the
// first sample is returned.
func (s *Stroke) ClosestPoint(q Vec2) Vec2 {
	if len(s.points) == 0 {
		return Vec2{}
	}

	finalT := 0.0
	index := 0

	b := s.points[0]
	dbq := b.Sub(q)
	dist := dbq.LengthSq()
	for i := 1; i < len(s.points); i++ {
		daq := dbq

		a := b
		b = s.points[i]
		dbq = b.Sub(q)

		dab := a.Sub(b)
		sqrlen := dab.LengthSq()
		if sqrlen < 1e-10 {
			continue
		}
		invSqrlen := 1.0 / sqrlen
		t := dab.Dot(daq) * invSqrlen
		if t < 0 {
			continue
		}

		var currentDist float64
		if t <= 1 {
			perp := dab.X*dbq.Y - dab.Y*dbq.X
			currentDist = perp * perp * invSqrlen
		} else {
			currentDist = dbq.LengthSq()
		}

		if currentDist < dist {
			dist = currentDist
			finalT = min(t, 1)
			index = i
		}
	}

	if finalT == 0 && index == 0 {
		return s.points[0]
	}
	return s.points[index].Scale(finalT).Add(s.points[index-1].Scale(1 - finalT))
}

// segmentLengths returns the per-segment lengths and the total arc
// length of the polyline, used by spread placement.
func (s *Stroke) segmentLengths() (lengths []float64, total float64) {
	if len(s.points) < 2 {
		return nil, 0
	}
	lengths = make([]float64, len(s.points)-1)
	for i := 1; i < len(s.points); i++ {
		lengths[i-1] = s.points[i].Sub(s.points[i-1]).Length()
		total += lengths[i-1]
	}
	return lengths, total
}

// SpreadPoint returns the position of item i of pointSize items spread
// evenly along the stroke's arc length. Item i sits at arc length
// (i+1)/pointSize of the total; the first sample is never used as a
// target and the last item snaps to the final sample.
func (s *Stroke) SpreadPoint(i, pointSize int, total float64, lengths []float64) Vec2 {
	if i == pointSize-1 {
		if len(s.points) == 0 {
			return Vec2{}
		}
		return s.points[len(s.points)-1]
	}

	tl := (float64(i+1) / float64(pointSize)) * total

	segment := 0
	walked := 0.0
	found := false
	for j := 0; j < len(s.points)-1; j++ {
		// Inclusive bounds: a target landing exactly on a vertex
		// belongs to the segment ending there.
		if tl >= walked && tl <= walked+lengths[j] {
			segment = j
			found = true
			break
		}
		walked += lengths[j]
	}
	if !found && len(s.points) >= 2 {
		segment = len(s.points) - 2
		walked = total - lengths[segment]
	}

	if lengths[segment] < 1e-6 {
		return s.points[segment]
	}

	t := min(max((tl-walked)/lengths[segment], 0), 1)
	return s.points[segment+1].Scale(t).Add(s.points[segment].Scale(1 - t))
}
