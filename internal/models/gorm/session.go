package gorm

import (
	"time"

	"gabber/annotator/internal/constants"
)

// InterviewSession is keyed by a client-generated id so uploads can be retried
// before the recording is fully transferred.
type InterviewSession struct {
	ID        string    `gorm:"column:id;primaryKey;size:64"`
	ProjectID uint      `gorm:"column:project_id;not null;index"`
	CreatorID uint      `gorm:"column:creator_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	Creator           User               `gorm:"foreignKey:CreatorID"`
	Participants      []Participant      `gorm:"foreignKey:SessionID"`
	StructuralPrompts []StructuralPrompt `gorm:"foreignKey:SessionID"`
	Consents          []Consent          `gorm:"foreignKey:SessionID"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// RecordingPath is the object storage key of the session audio
func (s *InterviewSession) RecordingPath() string {
	return RecordingPath(s.ProjectID, s.ID)
}

type Participant struct {
	ID          uint   `gorm:"column:id;primaryKey"`
	SessionID   string `gorm:"column:session_id;size:64;not null;index"`
	UserID      uint   `gorm:"column:user_id;not null"`
	Interviewer bool   `gorm:"column:interviewer;default:false"`

	User User `gorm:"foreignKey:UserID"`
}

func (Participant) TableName() string {
	return "participants"
}

// StructuralPrompt records when a prompt was discussed during a session
type StructuralPrompt struct {
	ID        uint   `gorm:"column:id;primaryKey"`
	SessionID string `gorm:"column:session_id;size:64;not null;index"`
	PromptID  uint   `gorm:"column:prompt_id;not null"`
	Start     int    `gorm:"column:start_interval;not null"`
	End       int    `gorm:"column:end_interval;not null"`

	Prompt Prompt `gorm:"foreignKey:PromptID"`
}

func (StructuralPrompt) TableName() string {
	return "structural_prompts"
}

// Consent is one participant's decision for one session
type Consent struct {
	ID        uint                  `gorm:"column:id;primaryKey"`
	SessionID string                `gorm:"column:session_id;size:64;not null;uniqueIndex:idx_consent_participant"`
	UserID    uint                  `gorm:"column:user_id;not null;uniqueIndex:idx_consent_participant"`
	ProjectID uint                  `gorm:"column:project_id;not null"`
	Type      constants.ConsentType `gorm:"column:type;size:16;not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Consent) TableName() string {
	return "consents"
}
