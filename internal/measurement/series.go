package measurement

// Point is a single voltage/current sample. Immutable once recorded.
type Point struct {
	VoltageVolt     float64 `json:"voltage_v"`
	CurrentMilliAmp float64 `json:"current_ma"`
}

// Series is an ordered, append-only sequence of points. Insertion order is
// arrival order; points are never reordered or removed.
type Series struct {
	points []Point
}

// AddPoint appends a point unconditionally. No validation, no bounds.
func (s *Series) AddPoint(voltageVolt, currentMilliAmp float64) {
	s.points = append(s.points, Point{VoltageVolt: voltageVolt, CurrentMilliAmp: currentMilliAmp})
}

// Points returns the full ordered sequence. The returned slice is a view;
// callers must not mutate it.
func (s *Series) Points() []Point {
	return s.points
}

// Size returns the number of recorded points.
func (s *Series) Size() int {
	return len(s.points)
}

// Empty reports whether the series has no points.
func (s *Series) Empty() bool {
	return len(s.points) == 0
}
