package jobs

import (
	"context"
	"time"

	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db/repositories"
	"gabber/annotator/internal/logging"
	"gabber/annotator/internal/metrics"
)

// ConsentLedgerJob publishes the size of the consent ledger as a gauge
type ConsentLedgerJob struct {
	stats   *repositories.StatsRepository
	metrics *metrics.MetricsRegistry
}

func NewConsentLedgerJob(stats *repositories.StatsRepository, m *metrics.MetricsRegistry) *ConsentLedgerJob {
	return &ConsentLedgerJob{stats: stats, metrics: m}
}

// Run counts consents once. Types with no rows are reported as zero.
func (j *ConsentLedgerJob) Run(ctx context.Context) error {
	counts, err := j.stats.ConsentTotals(ctx)
	if err != nil {
		return err
	}

	totals := map[string]float64{
		string(constants.ConsentNone):    0,
		string(constants.ConsentPrivate): 0,
		string(constants.ConsentPublic):  0,
	}
	for _, c := range counts {
		totals[c.ConsentType] = float64(c.Total)
	}
	for consentType, n := range totals {
		j.metrics.ConsentLedger.WithLabelValues(consentType).Set(n)
	}
	return nil
}

// RunScheduled runs immediately and then on every tick until ctx is done
func (j *ConsentLedgerJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := j.Run(ctx); err != nil {
		logging.Error("Consent ledger job failed on initial run", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				logging.Error("Consent ledger job failed", "error", err)
			}
		case <-ctx.Done():
			logging.Info("Consent ledger job shutting down")
			return
		}
	}
}
