package responses

import "time"

const (
	StatusOK   = "ok"
	StatusDown = "down"
)

// DependencyStatus reports one backing service
type DependencyStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
	UpSince      time.Time                   `json:"up_since"`
	Uptime       string                      `json:"uptime"`
}
