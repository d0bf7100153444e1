package service

import (
	"context"
	"errors"
	"time"

	"measurement_collector/internal/models"
	"measurement_collector/internal/repository"
)

type ArchiveService struct {
	archive repository.SeriesArchive
}

func NewArchiveService(archive repository.SeriesArchive) *ArchiveService {
	return &ArchiveService{archive: archive}
}

var errInvalidTimeRange = errors.New("invalid time range: from must be <= to")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// List returns archived runs in [from, to]; zero bounds are open.
func (s *ArchiveService) List(ctx context.Context, from, to time.Time) ([]models.CaptureRun, error) {
	from = normalizeToUTC(from)
	to = normalizeToUTC(to)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, errInvalidTimeRange
	}
	return s.archive.List(ctx, from, to)
}
