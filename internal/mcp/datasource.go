package mcp

import (
	"context"
	"time"

	"github.com/claude/pulsecoach/internal/models"
	"github.com/claude/pulsecoach/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	InsertProfile(ctx context.Context, p models.Profile) (bool, error)
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, p models.Profile) error
	InsertSession(ctx context.Context, s models.WorkoutSession) (bool, error)
	QuerySessions(ctx context.Context, userID string, start, end time.Time) ([]models.WorkoutSession, error)
	LatestReading(ctx context.Context, userID string) (*models.HeartRateReading, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
