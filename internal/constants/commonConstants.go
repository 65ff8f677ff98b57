package constants

type (
	TokenPurpose string
	KeyPrefix    string
)

const (
	TokenPurposeAccess  TokenPurpose = "access"
	TokenPurposeRefresh TokenPurpose = "refresh"
	TokenPurposeConsent TokenPurpose = "consent"
	TokenPurposeInvite  TokenPurpose = "invite"
	TokenPurposeReset   TokenPurpose = "reset"
	TokenPurposeVerify  TokenPurpose = "verify"

	KeyPrefixRevokedToken KeyPrefix = "gabber:revoked:"
	KeyPrefixUsedToken    KeyPrefix = "gabber:used:"
)

// Field limits shared by validation and the gorm column sizes
const (
	MaxContentLength     = 1024
	MaxTitleLength       = 256
	MaxDescriptionLength = 4096
	MinPasswordLength    = 8
	MaxPasswordLength    = 72 // bcrypt input limit in bytes

	DeletedCommentPlaceholder    = "[deleted]"
	RemovedAnnotationPlaceholder = "[removed]"
)
