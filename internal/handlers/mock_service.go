package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"measurement_collector/internal/measurement"
	"measurement_collector/internal/models"
	"measurement_collector/internal/service"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastParseToken string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockCollector struct {
	snapshot models.Snapshot
	series   []models.SeriesPayload
	events   chan models.SeriesCompleted

	removeLastCalls int
	removeAllCalls  int
	fed             []byte
}

func (m *mockCollector) Feed(b byte) measurement.Result {
	m.fed = append(m.fed, b)
	return measurement.Nothing
}
func (m *mockCollector) Snapshot() models.Snapshot          { return m.snapshot }
func (m *mockCollector) ListSeries() []models.SeriesPayload { return m.series }
func (m *mockCollector) GetSeries(index int) (models.SeriesPayload, error) {
	if index < 0 || index >= len(m.series) {
		return models.SeriesPayload{}, measurement.ErrSeriesIndex
	}
	return m.series[index], nil
}
func (m *mockCollector) RemoveLastSeries() { m.removeLastCalls++ }
func (m *mockCollector) RemoveAllSeries()  { m.removeAllCalls++ }
func (m *mockCollector) Subscribe() (<-chan models.SeriesCompleted, func()) {
	if m.events == nil {
		m.events = make(chan models.SeriesCompleted, 8)
	}
	return m.events, func() {}
}

type mockExporter struct {
	path string
	err  error

	lastFilename string
	tabularCalls int
	scriptCalls  int
}

func (m *mockExporter) ExportTabular(filename string) (string, error) {
	m.tabularCalls++
	m.lastFilename = filename
	return m.path, m.err
}
func (m *mockExporter) ExportScript(filename string) (string, error) {
	m.scriptCalls++
	m.lastFilename = filename
	return m.path, m.err
}

type mockArchive struct {
	runs []models.CaptureRun
	err  error

	lastFrom time.Time
	lastTo   time.Time
}

func (m *mockArchive) List(ctx context.Context, from, to time.Time) ([]models.CaptureRun, error) {
	m.lastFrom, m.lastTo = from, to
	return m.runs, m.err
}

type mockAcquisition struct{}

func (m *mockAcquisition) Run(ctx context.Context, src io.Reader) {}

// ---- Test helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	return header
}
