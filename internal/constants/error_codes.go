package constants

// Error codes returned in the envelope's meta.errors list.
// Format is SCOPE_REASON, grouped by the failure category.

// General
const (
	ErrGeneralUnknown     = "GENERAL_UNKNOWN"
	ErrGeneralInvalidJSON = "GENERAL_INVALID_JSON"
	ErrGeneralInvalidID   = "GENERAL_INVALID_ID"
	ErrGeneralRateLimited = "GENERAL_RATE_LIMITED"
	ErrStorageUpload      = "STORAGE_UPLOAD_FAILED"
)

// Validation
const (
	ErrFullnameRequired    = "FULLNAME_REQUIRED"
	ErrEmailRequired       = "EMAIL_REQUIRED"
	ErrEmailInvalid        = "EMAIL_INVALID"
	ErrPasswordRequired    = "PASSWORD_REQUIRED"
	ErrPasswordTooShort    = "PASSWORD_TOO_SHORT"
	ErrPasswordTooLong     = "PASSWORD_TOO_LONG"
	ErrTitleRequired       = "TITLE_REQUIRED"
	ErrTitleTooLong        = "TITLE_TOO_LONG"
	ErrDescriptionTooLong  = "DESCRIPTION_TOO_LONG"
	ErrPrivacyInvalid      = "PRIVACY_INVALID"
	ErrPromptRequired      = "PROMPT_REQUIRED"
	ErrPromptUnknown       = "PROMPT_UNKNOWN"
	ErrCodeNameRequired    = "CODE_NAME_REQUIRED"
	ErrCodeUnknown         = "CODE_UNKNOWN"
	ErrContentRequired     = "CONTENT_REQUIRED"
	ErrContentTooLong      = "CONTENT_TOO_LONG"
	ErrStartInvalid        = "START_INVALID"
	ErrEndInvalid          = "END_INVALID"
	ErrStartBeforeEnd      = "START_BEFORE_END"
	ErrSessionIDRequired   = "SESSION_ID_REQUIRED"
	ErrParticipantsMissing = "PARTICIPANTS_REQUIRED"
	ErrRecordingRequired   = "RECORDING_REQUIRED"
	ErrNameRequired        = "NAME_REQUIRED"
	ErrRoleInvalid         = "ROLE_INVALID"
	ErrConsentInvalidType  = "CONSENT_INVALID_TYPE"
	ErrDeviceTokenRequired = "DEVICE_TOKEN_REQUIRED"
	ErrParentMismatch      = "PARENT_MISMATCH"
)

// Authentication
const (
	ErrAuthRequired    = "AUTH_REQUIRED"
	ErrUserUnknown     = "USER_UNKNOWN"
	ErrInvalidPassword = "INVALID_PASSWORD"
	ErrTokenInvalid    = "TOKEN_INVALID"
	ErrTokenExpired    = "TOKEN_EXPIRED"
	ErrTokenUsed       = "TOKEN_USED"
	ErrUserRegistered  = "USER_ALREADY_REGISTERED"
)

// Authorization
const (
	ErrProjectNotMember     = "PROJECT_NOT_MEMBER"
	ErrRoleInsufficient     = "ROLE_INSUFFICIENT"
	ErrNotAnnotationCreator = "NOT_ANNOTATION_CREATOR"
	ErrNotCommentCreator    = "NOT_COMMENT_CREATOR"
	ErrNotPlaylistOwner     = "NOT_PLAYLIST_OWNER"
	ErrNotInvitee           = "NOT_INVITEE"
	ErrProjectNotPublic     = "PROJECT_NOT_PUBLIC"
	ErrSessionHidden        = "SESSION_NOT_VISIBLE"
)

// Not found / integrity
const (
	ErrProjectUnknown         = "PROJECT_UNKNOWN"
	ErrSessionUnknown         = "SESSION_UNKNOWN"
	ErrAnnotationUnknown      = "ANNOTATION_UNKNOWN"
	ErrCommentUnknown         = "COMMENT_UNKNOWN"
	ErrMembershipUnknown      = "MEMBERSHIP_UNKNOWN"
	ErrPlaylistUnknown        = "PLAYLIST_UNKNOWN"
	ErrConsentUnknown         = "CONSENT_UNKNOWN"
	ErrSessionNotInProject    = "SESSION_NOT_IN_PROJECT"
	ErrAnnotationNotInSession = "ANNOTATION_NOT_IN_SESSION"
	ErrCommentNotInAnnotation = "COMMENT_NOT_IN_ANNOTATION"
	ErrMembershipNotInProject = "MEMBERSHIP_NOT_IN_PROJECT"
)

// Conflict
const (
	ErrUserExists        = "USER_EXISTS"
	ErrTitleExists       = "TITLE_EXISTS"
	ErrSessionExists     = "SESSION_EXISTS"
	ErrMembershipExists  = "MEMBERSHIP_EXISTS"
	ErrMembershipRemoved = "MEMBERSHIP_REMOVED"
	ErrNotAMember        = "MEMBERSHIP_NOT_MEMBER"
	ErrLastAdmin         = "MEMBERSHIP_LAST_ADMIN"
)
