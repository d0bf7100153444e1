// Package measurement reconstructs measurement series from the instrument's
// line protocol. The instrument opens a series with a bare "*" line, streams
// "<voltage> <current>" sample lines, and closes the series with a bare "#".
// Lines starting with "*" but carrying extra text (e.g. "* AVCC = 5.0") are
// metadata and are ignored. Bytes are consumed one at a time so the parser is
// insensitive to how the serial layer chunks its reads.
//
// The manager is single-owner: it does no locking of its own. Callers that
// feed bytes and query from different goroutines must serialize access
// externally (see service.CollectorService).
package measurement

import (
	"errors"
	"strconv"
	"strings"
)

// Result is the signal returned for every consumed byte.
type Result int

const (
	// Nothing means the byte did not complete a series.
	Nothing Result = iota
	// SeriesCompleted means the byte finished a "#" line that closed a
	// non-empty in-progress series.
	SeriesCompleted
)

// State of the line protocol parser.
type State int

const (
	// StateIdle: no series is being received; data lines are ignored.
	StateIdle State = iota
	// StateReceiving: a "*" sentinel opened a series; data lines append.
	StateReceiving
)

// ErrSeriesIndex is returned by Manager.Series for an out-of-range index.
var ErrSeriesIndex = errors.New("series index out of range")

// Manager owns the completed series collection, the single in-progress
// series, and the line-assembly state machine.
type Manager struct {
	completed []*Series
	current   *Series // non-nil only in StateReceiving
	lineBuf   []byte
	state     State
}

func NewManager() *Manager {
	return &Manager{}
}

// ProcessByte consumes exactly one byte from the instrument. A line feed
// completes the accumulated line, a carriage return is dropped, any other
// byte is buffered. Returns SeriesCompleted only when the byte closed a
// non-empty series.
func (m *Manager) ProcessByte(b byte) Result {
	switch b {
	case '\n':
		line := string(m.lineBuf)
		m.lineBuf = m.lineBuf[:0]
		return m.handleLine(line)
	case '\r':
		// CRLF- or LF-terminated protocol: CR never carries meaning.
	default:
		m.lineBuf = append(m.lineBuf, b)
	}
	return Nothing
}

// handleLine classifies one fully assembled line and drives the state machine.
func (m *Manager) handleLine(raw string) Result {
	line := strings.TrimSpace(raw)
	if line == "" {
		return Nothing
	}

	// Bare "*" opens a fresh series, discarding any incomplete one.
	if line == "*" {
		m.current = &Series{}
		m.state = StateReceiving
		return Nothing
	}

	// Metadata lines such as "* AVCC = 5.0" must not be confused with the
	// open sentinel.
	if line[0] == '*' {
		return Nothing
	}

	// Bare "#" closes the in-progress series, but only a non-empty one.
	if line == "#" {
		if m.state == StateReceiving && !m.current.Empty() {
			m.completed = append(m.completed, m.current)
			m.current = nil
			m.state = StateIdle
			return SeriesCompleted
		}
		return Nothing
	}

	if m.state == StateReceiving {
		m.appendDataLine(line)
	}
	return Nothing
}

// appendDataLine parses "<voltage> <current>" and appends the point.
// Malformed lines are skipped: acquisition from a live device must tolerate
// transient garbage without aborting the session.
func (m *Manager) appendDataLine(line string) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return
	}
	c, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return
	}
	m.current.AddPoint(v, c)
}

// SeriesCount returns the number of completed series.
func (m *Manager) SeriesCount() int {
	return len(m.completed)
}

// AllSeries returns the completed series in completion order. The returned
// slice is a view; callers must not mutate it.
func (m *Manager) AllSeries() []*Series {
	return m.completed
}

// Series returns the completed series at index, or ErrSeriesIndex when the
// index is out of range. Indexes are only stable until the next removal.
func (m *Manager) Series(index int) (*Series, error) {
	if index < 0 || index >= len(m.completed) {
		return nil, ErrSeriesIndex
	}
	return m.completed[index], nil
}

// RemoveLastSeries drops the most recently completed series. No-op when
// nothing has completed yet.
func (m *Manager) RemoveLastSeries() {
	if len(m.completed) > 0 {
		m.completed = m.completed[:len(m.completed)-1]
	}
}

// RemoveAllSeries clears the completed collection. The in-progress series,
// if any, keeps receiving.
func (m *Manager) RemoveAllSeries() {
	m.completed = nil
}

// State returns the current parser state.
func (m *Manager) State() State {
	return m.state
}

// TempSeriesSize returns the point count of the in-progress series, 0 when
// idle. Used for "receiving... N points" progress feedback.
func (m *Manager) TempSeriesSize() int {
	if m.current == nil {
		return 0
	}
	return m.current.Size()
}

// MaxVoltage returns the maximum voltage over every completed series and the
// in-progress series, 0.0 when no points exist anywhere.
func (m *Manager) MaxVoltage() float64 {
	maxV := 0.0
	for _, s := range m.completed {
		for _, p := range s.Points() {
			if p.VoltageVolt > maxV {
				maxV = p.VoltageVolt
			}
		}
	}
	if m.current != nil {
		for _, p := range m.current.Points() {
			if p.VoltageVolt > maxV {
				maxV = p.VoltageVolt
			}
		}
	}
	return maxV
}

// MaxCurrent returns the maximum current over every completed series and the
// in-progress series, 0.0 when no points exist anywhere.
func (m *Manager) MaxCurrent() float64 {
	maxI := 0.0
	for _, s := range m.completed {
		for _, p := range s.Points() {
			if p.CurrentMilliAmp > maxI {
				maxI = p.CurrentMilliAmp
			}
		}
	}
	if m.current != nil {
		for _, p := range m.current.Points() {
			if p.CurrentMilliAmp > maxI {
				maxI = p.CurrentMilliAmp
			}
		}
	}
	return maxI
}
