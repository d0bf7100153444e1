package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"measurement_collector/internal/models"
)

type ArchiveSQLite struct {
	db *sql.DB
}

func NewArchiveSQLite(db *sql.DB) *ArchiveSQLite { return &ArchiveSQLite{db: db} }

var _ SeriesArchive = (*ArchiveSQLite)(nil)

const (
	insertCaptureRunSQL = `
		INSERT INTO capture_runs (id, completed_at, point_count, max_voltage_v, max_current_ma, points)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectCaptureRunsSQL = `SELECT id, completed_at, point_count, max_voltage_v, max_current_ma, points FROM capture_runs`
)

// Append inserts one archived run. RunID and CompletedAt are filled in when
// the caller left them empty.
func (r *ArchiveSQLite) Append(ctx context.Context, run models.CaptureRun) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.CompletedAt.IsZero() {
		run.CompletedAt = time.Now().UTC()
	} else {
		run.CompletedAt = run.CompletedAt.UTC()
	}

	pointsJSON, err := json.Marshal(run.Points)
	if err != nil {
		return fmt.Errorf("marshal points for run %q: %w", run.RunID, err)
	}

	_, err = r.db.ExecContext(ctx, insertCaptureRunSQL,
		run.RunID,
		run.CompletedAt,
		run.PointCount,
		run.MaxVoltageV,
		run.MaxCurrentMA,
		string(pointsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert capture run %q: %w", run.RunID, err)
	}
	return nil
}

// List returns archived runs within [from, to] (inclusive, zero means
// unbounded), ordered by completion time ascending.
func (r *ArchiveSQLite) List(ctx context.Context, from, to time.Time) ([]models.CaptureRun, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "completed_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "completed_at <= ?")
		args = append(args, to.UTC())
	}

	q := selectCaptureRunsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY completed_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.CaptureRun, 0, 16)
	for rows.Next() {
		var run models.CaptureRun
		var pointsJSON string
		if err := rows.Scan(
			&run.RunID,
			&run.CompletedAt,
			&run.PointCount,
			&run.MaxVoltageV,
			&run.MaxCurrentMA,
			&pointsJSON,
		); err != nil {
			return nil, err
		}
		run.CompletedAt = run.CompletedAt.UTC()
		if pointsJSON != "" {
			if err := json.Unmarshal([]byte(pointsJSON), &run.Points); err != nil {
				return nil, fmt.Errorf("unmarshal points for run %q: %w", run.RunID, err)
			}
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
