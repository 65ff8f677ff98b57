package gorm

import "fmt"

// RecordingPath builds "{projectId}/{sessionId}"
func RecordingPath(projectID uint, sessionID string) string {
	return fmt.Sprintf("%d/%s", projectID, sessionID)
}

// AllModels lists every table in migration order
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Project{},
		&Prompt{},
		&Code{},
		&Membership{},
		&InterviewSession{},
		&Participant{},
		&StructuralPrompt{},
		&Consent{},
		&Annotation{},
		&Comment{},
		&Playlist{},
		&PlaylistAnnotation{},
	}
}
