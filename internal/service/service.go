package service

import (
	"context"
	"io"
	"time"

	"golang.org/x/text/language"

	"measurement_collector/internal/logger"
	"measurement_collector/internal/measurement"
	"measurement_collector/internal/models"
	"measurement_collector/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Collector is the synchronized front of the in-memory measurement store.
// Feed is called from the acquisition goroutine; everything else from HTTP
// handlers.
type Collector interface {
	Feed(b byte) measurement.Result
	Snapshot() models.Snapshot
	ListSeries() []models.SeriesPayload
	GetSeries(index int) (models.SeriesPayload, error)
	RemoveLastSeries()
	RemoveAllSeries()
	Subscribe() (<-chan models.SeriesCompleted, func())
}

// Exporter writes the completed series to the two supported file formats.
type Exporter interface {
	ExportTabular(filename string) (string, error)
	ExportScript(filename string) (string, error)
}

// Acquisition runs the byte-pump from the instrument's byte source into the
// collector. Stop via context cancellation in main() for graceful shutdown.
type Acquisition interface {
	Run(ctx context.Context, src io.Reader)
}

// Archive exposes the persisted record of completed runs.
type Archive interface {
	List(ctx context.Context, from, to time.Time) ([]models.CaptureRun, error)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Collector
	Exporter
	Acquisition
	Archive
	Authorization
}

// Options carries the config-derived knobs the sub-services need.
type Options struct {
	SigningKey   string
	TokenTTL     time.Duration
	ExportDir    string
	ExportLocale language.Tag
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, log *logger.Logger, opts Options) *Service {
	collector := NewCollectorService(repos.Archive, log)
	return &Service{
		Collector:     collector,
		Exporter:      NewExportService(collector, opts.ExportDir, opts.ExportLocale),
		Acquisition:   NewAcquisitionService(collector, log),
		Archive:       NewArchiveService(repos.Archive),
		Authorization: NewAuthService(repos.Users, opts.SigningKey, opts.TokenTTL),
	}
}
