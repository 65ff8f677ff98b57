package jobs

import (
	"context"
	"time"

	"gabber/annotator/internal/db/repositories"
	"gabber/annotator/internal/metrics"

	"github.com/jmoiron/sqlx"
)

// InitializeJobs starts all background jobs; they stop when ctx is cancelled
func InitializeJobs(ctx context.Context, db *sqlx.DB, m *metrics.MetricsRegistry) *ConsentLedgerJob {
	ledgerJob := NewConsentLedgerJob(repositories.NewStatsRepository(db), m)

	// Refresh the consent gauge every five minutes
	go ledgerJob.RunScheduled(ctx, 5*time.Minute)

	return ledgerJob
}
