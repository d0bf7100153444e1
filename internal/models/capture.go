package models

import "time"

// Snapshot is the collector's aggregate view, polled by the UI for progress
// feedback and axis scaling.
type Snapshot struct {
	SeriesCount  int     `json:"series_count"`
	Receiving    bool    `json:"receiving"`
	TempPoints   int     `json:"temp_points"`
	MaxVoltageV  float64 `json:"max_voltage_v"`
	MaxCurrentMA float64 `json:"max_current_ma"`
}

// PointPayload is one voltage/current sample as served over the API.
type PointPayload struct {
	VoltageV  float64 `json:"voltage_v"`
	CurrentMA float64 `json:"current_ma"`
}

// SeriesPayload is one completed series as served over the API. Index is the
// position in the completed collection and is only stable until the next
// removal.
type SeriesPayload struct {
	Index      int            `json:"index"`
	PointCount int            `json:"point_count"`
	Points     []PointPayload `json:"points"`
}

// SeriesCompleted is pushed to WebSocket subscribers whenever a closing
// sentinel finishes a series.
type SeriesCompleted struct {
	Index      int            `json:"index"`
	PointCount int            `json:"point_count"`
	Points     []PointPayload `json:"points"`
}

// CaptureRun is the archived record of one completed series.
type CaptureRun struct {
	RunID        string       `json:"run_id"`
	CompletedAt  time.Time    `json:"completed_at"`
	PointCount   int          `json:"point_count"`
	MaxVoltageV  float64      `json:"max_voltage_v"`
	MaxCurrentMA float64      `json:"max_current_ma"`
	Points       [][2]float64 `json:"points"` // [voltage_v, current_ma] pairs
}
