package repositories

import (
	"context"
	"fmt"

	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// StatsRepository runs read-only aggregate queries through sqlx
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db}
}

// ProjectStats counts sessions, live annotations and comments, members by role
// and consents by type
func (r *StatsRepository) ProjectStats(ctx context.Context, projectID uint) (*entities.ProjectStats, error) {
	stats := &entities.ProjectStats{
		ProjectID: projectID,
		Members:   map[string]int64{},
		Consents:  map[string]int64{},
	}

	if err := r.db.GetContext(ctx, &stats.Sessions, r.db.Rebind(constants.CountProjectSessions), projectID); err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	if err := r.db.GetContext(ctx, &stats.Annotations, r.db.Rebind(constants.CountProjectAnnotations), projectID, true); err != nil {
		return nil, fmt.Errorf("failed to count annotations: %w", err)
	}
	if err := r.db.GetContext(ctx, &stats.Comments, r.db.Rebind(constants.CountProjectComments), projectID, true); err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	var roles []entities.RoleCount
	if err := r.db.SelectContext(ctx, &roles, r.db.Rebind(constants.CountProjectMembersByRole), projectID, false, true); err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	for _, rc := range roles {
		stats.Members[rc.Role] = rc.Total
	}

	var consents []entities.ConsentCount
	if err := r.db.SelectContext(ctx, &consents, r.db.Rebind(constants.CountSessionConsentsByType), projectID); err != nil {
		return nil, fmt.Errorf("failed to count consents: %w", err)
	}
	for _, cc := range consents {
		stats.Consents[cc.ConsentType] = cc.Total
	}

	return stats, nil
}

// ConsentTotals counts every recorded consent by type across projects
func (r *StatsRepository) ConsentTotals(ctx context.Context) ([]entities.ConsentCount, error) {
	var counts []entities.ConsentCount
	if err := r.db.SelectContext(ctx, &counts, r.db.Rebind(constants.CountConsentsByType)); err != nil {
		return nil, fmt.Errorf("failed to count consents: %w", err)
	}
	return counts, nil
}
