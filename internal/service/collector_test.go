package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"measurement_collector/internal/measurement"
	"measurement_collector/internal/models"
)

// recordingArchive captures Append calls in place of the SQLite repo.
type recordingArchive struct {
	mu   sync.Mutex
	runs []models.CaptureRun
	err  error
}

func (a *recordingArchive) Append(ctx context.Context, run models.CaptureRun) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runs = append(a.runs, run)
	return a.err
}

func (a *recordingArchive) List(ctx context.Context, from, to time.Time) ([]models.CaptureRun, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.runs, nil
}

func (a *recordingArchive) appended() []models.CaptureRun {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.CaptureRun(nil), a.runs...)
}

func feedString(c *CollectorService, s string) int {
	completed := 0
	for i := 0; i < len(s); i++ {
		if c.Feed(s[i]) == measurement.SeriesCompleted {
			completed++
		}
	}
	return completed
}

func TestCollector_FeedCompletesAndArchives(t *testing.T) {
	archive := &recordingArchive{}
	c := NewCollectorService(archive, nil)

	completed := feedString(c, "*\n1.0 0.5\n2.0 1.0\n#\n")
	if completed != 1 {
		t.Fatalf("expected one completion, got %d", completed)
	}

	snap := c.Snapshot()
	if snap.SeriesCount != 1 || snap.Receiving || snap.TempPoints != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.MaxVoltageV != 2.0 || snap.MaxCurrentMA != 1.0 {
		t.Fatalf("unexpected maxima: %+v", snap)
	}

	runs := archive.appended()
	if len(runs) != 1 {
		t.Fatalf("expected one archived run, got %d", len(runs))
	}
	run := runs[0]
	if run.PointCount != 2 || run.MaxVoltageV != 2.0 || run.MaxCurrentMA != 1.0 {
		t.Fatalf("unexpected archived run: %+v", run)
	}
	if run.Points[0] != [2]float64{1.0, 0.5} || run.Points[1] != [2]float64{2.0, 1.0} {
		t.Fatalf("archived points mismatch: %+v", run.Points)
	}
	if run.CompletedAt.IsZero() {
		t.Fatalf("archived run must carry a completion time")
	}
}

func TestCollector_SnapshotWhileReceiving(t *testing.T) {
	c := NewCollectorService(nil, nil)
	feedString(c, "*\n5.0 0.25\n")

	snap := c.Snapshot()
	if !snap.Receiving || snap.TempPoints != 1 || snap.SeriesCount != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.MaxVoltageV != 5.0 || snap.MaxCurrentMA != 0.25 {
		t.Fatalf("in-progress points must count toward maxima: %+v", snap)
	}
}

func TestCollector_ListAndGetSeries(t *testing.T) {
	c := NewCollectorService(nil, nil)
	feedString(c, "*\n1 1\n#\n*\n2 2\n3 3\n#\n")

	list := c.ListSeries()
	if len(list) != 2 || list[0].PointCount != 1 || list[1].PointCount != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list[1].Points[1] != (models.PointPayload{VoltageV: 3, CurrentMA: 3}) {
		t.Fatalf("unexpected point payload: %+v", list[1].Points)
	}

	got, err := c.GetSeries(1)
	if err != nil {
		t.Fatalf("GetSeries(1): %v", err)
	}
	if got.Index != 1 || got.PointCount != 2 {
		t.Fatalf("unexpected series: %+v", got)
	}

	if _, err := c.GetSeries(2); err != measurement.ErrSeriesIndex {
		t.Fatalf("expected ErrSeriesIndex, got %v", err)
	}
}

func TestCollector_RemoveOperations(t *testing.T) {
	c := NewCollectorService(nil, nil)

	// No-ops when empty.
	c.RemoveLastSeries()
	c.RemoveAllSeries()

	feedString(c, "*\n1 1\n#\n*\n2 2\n#\n")
	c.RemoveLastSeries()
	if snap := c.Snapshot(); snap.SeriesCount != 1 {
		t.Fatalf("SeriesCount=%d after RemoveLast, want 1", snap.SeriesCount)
	}
	c.RemoveAllSeries()
	if snap := c.Snapshot(); snap.SeriesCount != 0 {
		t.Fatalf("SeriesCount=%d after RemoveAll, want 0", snap.SeriesCount)
	}
}

func TestCollector_SubscribeReceivesCompletions(t *testing.T) {
	c := NewCollectorService(nil, nil)

	ch, cancel := c.Subscribe()
	defer cancel()

	feedString(c, "*\n1.0 0.5\n#\n")

	select {
	case ev := <-ch:
		if ev.Index != 0 || ev.PointCount != 1 {
			t.Fatalf("unexpected event: %+v", ev)
		}
		if ev.Points[0] != (models.PointPayload{VoltageV: 1.0, CurrentMA: 0.5}) {
			t.Fatalf("unexpected event points: %+v", ev.Points)
		}
	case <-time.After(time.Second):
		t.Fatalf("no completion event received")
	}
}

func TestCollector_UnsubscribedChannelIsClosed(t *testing.T) {
	c := NewCollectorService(nil, nil)
	ch, cancel := c.Subscribe()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after cancel")
	}
	// Completing a series after cancel must not panic or block.
	feedString(c, "*\n1 1\n#\n")
}

func TestCollector_ArchiveFailureDoesNotFailIngestion(t *testing.T) {
	archive := &recordingArchive{err: context.DeadlineExceeded}
	c := NewCollectorService(archive, nil)

	if completed := feedString(c, "*\n1 1\n#\n"); completed != 1 {
		t.Fatalf("ingestion must succeed despite archive failure")
	}
	if snap := c.Snapshot(); snap.SeriesCount != 1 {
		t.Fatalf("series must be kept in memory despite archive failure")
	}
}
