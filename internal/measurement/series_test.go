package measurement

import "testing"

func TestSeries_AppendOnly(t *testing.T) {
	var s Series
	if !s.Empty() || s.Size() != 0 {
		t.Fatalf("fresh series must be empty")
	}

	s.AddPoint(1.25, 0.75)
	s.AddPoint(1.25, 0.75) // duplicates are allowed
	s.AddPoint(-0.5, 3.0)  // no validation, no bounds

	if s.Empty() || s.Size() != 3 {
		t.Fatalf("Size=%d, want 3", s.Size())
	}

	pts := s.Points()
	if pts[0] != (Point{1.25, 0.75}) || pts[1] != (Point{1.25, 0.75}) || pts[2] != (Point{-0.5, 3.0}) {
		t.Fatalf("points out of order or altered: %+v", pts)
	}
}
