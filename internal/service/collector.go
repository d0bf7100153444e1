package service

import (
	"context"
	"sync"
	"time"

	"measurement_collector/internal/logger"
	"measurement_collector/internal/measurement"
	"measurement_collector/internal/models"
	"measurement_collector/internal/repository"
)

const (
	// archiveTimeout bounds the write-behind insert so a stuck database
	// cannot stall acquisition indefinitely.
	archiveTimeout = 5 * time.Second
	// subscriberBuffer is the per-subscriber event queue; slow consumers
	// drop events instead of blocking the acquisition path.
	subscriberBuffer = 8
)

// CollectorService owns the measurement.Manager behind a mutex. The manager
// itself is single-owner by design; this is the boundary where serial bytes
// and HTTP queries meet, so the whole store is guarded here.
type CollectorService struct {
	mu  sync.Mutex
	mgr *measurement.Manager

	archive repository.SeriesArchive
	log     *logger.Logger

	subMu   sync.Mutex
	subs    map[int]chan models.SeriesCompleted
	nextSub int
}

func NewCollectorService(archive repository.SeriesArchive, log *logger.Logger) *CollectorService {
	return &CollectorService{
		mgr:     measurement.NewManager(),
		archive: archive,
		log:     log,
		subs:    make(map[int]chan models.SeriesCompleted),
	}
}

// Feed pushes one byte from the instrument into the store. When the byte
// closes a series, subscribers are notified and the run is archived; archive
// failures are logged and never fail ingestion.
func (s *CollectorService) Feed(b byte) measurement.Result {
	s.mu.Lock()
	res := s.mgr.ProcessByte(b)
	var (
		event models.SeriesCompleted
		run   models.CaptureRun
	)
	if res == measurement.SeriesCompleted {
		event, run = s.completedLocked()
	}
	s.mu.Unlock()

	if res == measurement.SeriesCompleted {
		if s.log != nil {
			s.log.Infow("series completed", "index", event.Index, "points", event.PointCount)
		}
		s.archiveRun(run)
		s.notify(event)
	}
	return res
}

// completedLocked builds the notification and archive payloads for the most
// recently completed series. Caller holds mu.
func (s *CollectorService) completedLocked() (models.SeriesCompleted, models.CaptureRun) {
	index := s.mgr.SeriesCount() - 1
	series, _ := s.mgr.Series(index)
	points := series.Points()

	event := models.SeriesCompleted{
		Index:      index,
		PointCount: len(points),
		Points:     toPayload(points),
	}

	run := models.CaptureRun{
		CompletedAt: time.Now().UTC(),
		PointCount:  len(points),
		Points:      make([][2]float64, 0, len(points)),
	}
	for _, p := range points {
		if p.VoltageVolt > run.MaxVoltageV {
			run.MaxVoltageV = p.VoltageVolt
		}
		if p.CurrentMilliAmp > run.MaxCurrentMA {
			run.MaxCurrentMA = p.CurrentMilliAmp
		}
		run.Points = append(run.Points, [2]float64{p.VoltageVolt, p.CurrentMilliAmp})
	}
	return event, run
}

func (s *CollectorService) archiveRun(run models.CaptureRun) {
	if s.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	if err := s.archive.Append(ctx, run); err != nil && s.log != nil {
		s.log.Errorw("archive_append_failed", "err", err, "points", run.PointCount)
	}
}

// Snapshot returns the aggregate view used for progress display and axis
// scaling.
func (s *CollectorService) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Snapshot{
		SeriesCount:  s.mgr.SeriesCount(),
		Receiving:    s.mgr.State() == measurement.StateReceiving,
		TempPoints:   s.mgr.TempSeriesSize(),
		MaxVoltageV:  s.mgr.MaxVoltage(),
		MaxCurrentMA: s.mgr.MaxCurrent(),
	}
}

// ListSeries returns every completed series in completion order.
func (s *CollectorService) ListSeries() []models.SeriesPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.mgr.AllSeries()
	out := make([]models.SeriesPayload, 0, len(all))
	for i, series := range all {
		out = append(out, models.SeriesPayload{
			Index:      i,
			PointCount: series.Size(),
			Points:     toPayload(series.Points()),
		})
	}
	return out
}

// GetSeries returns one completed series. The measurement.ErrSeriesIndex
// error passes through for the handler to map to a 404.
func (s *CollectorService) GetSeries(index int) (models.SeriesPayload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	series, err := s.mgr.Series(index)
	if err != nil {
		return models.SeriesPayload{}, err
	}
	return models.SeriesPayload{
		Index:      index,
		PointCount: series.Size(),
		Points:     toPayload(series.Points()),
	}, nil
}

func (s *CollectorService) RemoveLastSeries() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mgr.RemoveLastSeries()
}

func (s *CollectorService) RemoveAllSeries() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mgr.RemoveAllSeries()
}

// WithCompleted runs fn over the completed series under the store lock. The
// exporter uses this to render a consistent view; fn must not retain the
// slice.
func (s *CollectorService) WithCompleted(fn func(series []*measurement.Series) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.mgr.AllSeries())
}

// Subscribe registers a completed-series listener. The returned cancel
// function must be called to release the subscription.
func (s *CollectorService) Subscribe() (<-chan models.SeriesCompleted, func()) {
	ch := make(chan models.SeriesCompleted, subscriberBuffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

func (s *CollectorService) notify(event models.SeriesCompleted) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
			// subscriber is not keeping up; drop rather than stall ingestion
		}
	}
}

func toPayload(points []measurement.Point) []models.PointPayload {
	out := make([]models.PointPayload, 0, len(points))
	for _, p := range points {
		out = append(out, models.PointPayload{VoltageV: p.VoltageVolt, CurrentMA: p.CurrentMilliAmp})
	}
	return out
}
