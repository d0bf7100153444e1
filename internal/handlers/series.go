package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"measurement_collector/internal/measurement"
	"measurement_collector/internal/service"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK       = "ok"
	statusRemoved  = "removed"
	statusCleared  = "cleared"
	statusExported = "exported"

	errListArchive  = "failed to load archive"
	errExportFailed = "export failed"
	errBadIndex     = "index must be a non-negative integer"
	errNoSuchSeries = "no series at that index"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// ExportRequest is the payload for both export endpoints.
type ExportRequest struct {
	// Filename inside the configured export directory
	Filename string `json:"filename" binding:"required" example:"run.csv"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Collector state
// @Description  Aggregate view: series count, receiving flag, in-progress point count, maxima for axis scaling.
// @Tags         series
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Collector.Snapshot())
}

// @Summary      List completed series
// @Tags         series
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, series"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/series [get]
// @Security     BearerAuth
func (h *Handler) listSeries(c *gin.Context) {
	series := h.services.Collector.ListSeries()
	c.JSON(http.StatusOK, gin.H{
		"count":  len(series),
		"series": series,
	})
}

// @Summary      Get one series
// @Tags         series
// @Produce      json
// @Param        index  path  int  true  "Series index (0-based, completion order)"
// @Success      200  {object}  models.SeriesPayload
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/series/{index} [get]
// @Security     BearerAuth
func (h *Handler) getSeries(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadIndex})
		return
	}
	series, err := h.services.Collector.GetSeries(index)
	if err != nil {
		if errors.Is(err, measurement.ErrSeriesIndex) {
			c.JSON(http.StatusNotFound, gin.H{"error": errNoSuchSeries})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load series", "series_get_failed", err, "index", index)
		return
	}
	c.JSON(http.StatusOK, series)
}

// @Summary      Remove last series
// @Description  Drops the most recently completed series. No-op when the store is empty.
// @Tags         series
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/series/last [delete]
// @Security     BearerAuth
func (h *Handler) removeLastSeries(c *gin.Context) {
	h.services.Collector.RemoveLastSeries()
	c.JSON(http.StatusOK, gin.H{
		"status": statusRemoved,
		"state":  h.services.Collector.Snapshot(),
	})
}

// @Summary      Remove all series
// @Description  Clears the completed collection. An in-progress acquisition keeps receiving.
// @Tags         series
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/series [delete]
// @Security     BearerAuth
func (h *Handler) removeAllSeries(c *gin.Context) {
	h.services.Collector.RemoveAllSeries()
	c.JSON(http.StatusOK, gin.H{
		"status": statusCleared,
		"state":  h.services.Collector.Snapshot(),
	})
}

// @Summary      Export tabular file
// @Description  Writes all completed series as "Series N" blocks with locale-formatted numbers.
// @Tags         export
// @Accept       json
// @Produce      json
// @Param        body  body  ExportRequest  true  "Export payload"
// @Success      200  {object}  map[string]string  "status, path"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/export/tabular [post]
// @Security     BearerAuth
func (h *Handler) exportTabular(c *gin.Context) {
	h.runExport(c, h.services.Exporter.ExportTabular)
}

// @Summary      Export plotting script
// @Description  Writes a runnable matplotlib script; numeric literals always use "." decimals.
// @Tags         export
// @Accept       json
// @Produce      json
// @Param        body  body  ExportRequest  true  "Export payload"
// @Success      200  {object}  map[string]string  "status, path"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/export/script [post]
// @Security     BearerAuth
func (h *Handler) exportScript(c *gin.Context) {
	h.runExport(c, h.services.Exporter.ExportScript)
}

func (h *Handler) runExport(c *gin.Context, doExport func(filename string) (string, error)) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: " + err.Error()})
		return
	}
	path, err := doExport(req.Filename)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilename) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errExportFailed, "export_failed", err, "filename", req.Filename)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": statusExported,
		"path":   path,
	})
}

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List archived runs
// @Description  Archived completed series, filtered by completion time. If 'to' is date-only, it is treated as end-of-day inclusive.
// @Tags         archive
// @Produce      json
// @Param        from  query  string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2026-08-01)
// @Param        to    query  string  false  "End of range; date-only treated as end of day"  example(2026-08-31)
// @Success      200  {object}  map[string]interface{}  "count, runs"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/archive [get]
// @Security     BearerAuth
func (h *Handler) getArchive(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from time.Time
		to   time.Time
		err  error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' time; use RFC3339 or YYYY-MM-DD"})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' time; use RFC3339 or YYYY-MM-DD"})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}

	runs, err := h.services.Archive.List(ctx, from, to)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListArchive, "archive_list_failed", err, "from", from, "to", to)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unsupported time format")
}
