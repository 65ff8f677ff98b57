package constants

// Aggregate queries run through sqlx; written with ? binds and rebound per driver.
const (
	CountProjectSessions = `
	SELECT COUNT(*) FROM interview_sessions WHERE project_id = ?
	`

	CountProjectAnnotations = `
	SELECT COUNT(*) FROM annotations a
	JOIN interview_sessions s ON s.id = a.session_id
	WHERE s.project_id = ? AND a.is_active = ?
	`

	CountProjectComments = `
	SELECT COUNT(*) FROM comments c
	JOIN annotations a ON a.id = c.annotation_id
	JOIN interview_sessions s ON s.id = a.session_id
	WHERE s.project_id = ? AND c.is_active = ?
	`

	CountProjectMembersByRole = `
	SELECT role, COUNT(*) AS total FROM memberships
	WHERE project_id = ? AND deactivated = ? AND confirmed = ?
	GROUP BY role
	`

	CountSessionConsentsByType = `
	SELECT c.type AS consent_type, COUNT(*) AS total FROM consents c
	JOIN interview_sessions s ON s.id = c.session_id
	WHERE s.project_id = ?
	GROUP BY c.type
	`
)

// CountConsentsByType sizes the whole consent ledger for the gauge job
const CountConsentsByType = `
	SELECT type AS consent_type, COUNT(*) AS total FROM consents
	GROUP BY type
	`
