package entities

// RoleCount and ConsentCount are rows scanned by sqlx from grouped queries
type RoleCount struct {
	Role  string `db:"role"`
	Total int64  `db:"total"`
}

type ConsentCount struct {
	ConsentType string `db:"consent_type"`
	Total       int64  `db:"total"`
}

// ProjectStats summarizes a project for its admins and staff
type ProjectStats struct {
	ProjectID   uint             `json:"project_id"`
	Sessions    int64            `json:"sessions"`
	Annotations int64            `json:"annotations"`
	Comments    int64            `json:"comments"`
	Members     map[string]int64 `json:"members"`
	Consents    map[string]int64 `json:"consents"`
}
