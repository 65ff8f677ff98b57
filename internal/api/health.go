package api

import (
	"context"
	"net/http"
	"time"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/models/dtos/responses"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// healthProbeTimeout bounds each dependency check
const healthProbeTimeout = 2 * time.Second

type probe struct {
	name string
	ping func(ctx context.Context) error
}

// HealthCheckHandler handles GET /healthCheck. Redis is only probed when
// configured; any failed probe turns the response into a 503.
//
// @Summary Health check
// @Tags Misc
// @Success 200 {object} responses.HealthResponse
// @Failure 503 {object} responses.HealthResponse
// @Router /healthCheck [get]
func HealthCheckHandler(db *sqlx.DB, rdb *redis.Client, upSince time.Time) http.HandlerFunc {
	probes := []probe{{name: "postgres", ping: db.PingContext}}
	if rdb != nil {
		probes = append(probes, probe{name: "redis", ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := responses.HealthResponse{
			Status:       responses.StatusOK,
			Dependencies: make(map[string]responses.DependencyStatus, len(probes)),
			UpSince:      upSince,
			Uptime:       time.Since(upSince).Round(time.Second).String(),
		}

		for _, p := range probes {
			ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
			err := p.ping(ctx)
			cancel()

			if err != nil {
				resp.Status = responses.StatusDown
				resp.Dependencies[p.name] = responses.DependencyStatus{Status: responses.StatusDown, Details: err.Error()}
				continue
			}
			resp.Dependencies[p.name] = responses.DependencyStatus{Status: responses.StatusOK, Details: "connected"}
		}

		code := http.StatusOK
		if resp.Status != responses.StatusOK {
			code = http.StatusServiceUnavailable
		}
		common.RespondSuccess(w, resp, code)
	}
}
