package repository

import (
	"context"
	"database/sql"
	"time"

	"measurement_collector/internal/models"
)

// SeriesArchive records completed series for audit. It is write-behind: the
// live in-memory store never reads it back.
type SeriesArchive interface {
	Append(ctx context.Context, run models.CaptureRun) error
	List(ctx context.Context, from, to time.Time) ([]models.CaptureRun, error)
}

// Users stores account credentials for API access.
type Users interface {
	Create(username, passwordHash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type Repository struct {
	Archive SeriesArchive
	Users   Users
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Archive: NewArchiveSQLite(db),
		Users:   NewUserSQLite(db),
	}
}
