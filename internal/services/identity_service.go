package services

import (
	"context"
	"errors"
	"fmt"

	"gabber/annotator/internal/common"
	"gabber/annotator/internal/config"
	"gabber/annotator/internal/constants"
	"gabber/annotator/internal/db/repositories"
	"gabber/annotator/internal/logging"
	"gabber/annotator/internal/models/dtos/requests"
	gormModels "gabber/annotator/internal/models/gorm"
	"gabber/annotator/internal/providers"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenPair is returned by login and refresh
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	User         *gormModels.User
}

// IdentityService owns users, credentials and the account token flows
type IdentityService struct {
	db          *gorm.DB
	users       *repositories.UserRepositoryGORM
	memberships *repositories.MembershipRepository
	signer      *common.TokenSigner
	tokens      *common.TokenStore
	dispatcher  *Dispatcher
	cfg         *config.Config
}

func NewIdentityService(db *gorm.DB, signer *common.TokenSigner, tokens *common.TokenStore, dispatcher *Dispatcher, cfg *config.Config) *IdentityService {
	return &IdentityService{
		db:          db,
		users:       repositories.NewUserRepositoryGORM(db),
		memberships: repositories.NewMembershipRepository(db),
		signer:      signer,
		tokens:      tokens,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

func (s *IdentityService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", common.BadRequest(constants.ErrPasswordTooLong)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Register creates a registered account and sends a verification link
func (s *IdentityService) Register(ctx context.Context, req requests.RegisterRequest) (*gormModels.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, common.Conflict(constants.ErrUserExists)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &gormModels.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Fullname:     req.Fullname,
		Registered:   true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, common.Conflict(constants.ErrUserExists)
		}
		return nil, err
	}

	logging.Info("User registered", "user_id", user.ID)
	s.sendVerification(user)
	return user, nil
}

// Authenticate compares the password with the stored hash
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*gormModels.User, error) {
	user, err := s.users.GetByEmail(ctx, common.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.Unauthorized(constants.ErrUserUnknown)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.Unauthorized(constants.ErrInvalidPassword)
	}
	return user, nil
}

// CreateUnregistered returns the existing user for the email or creates a
// placeholder account with an unusable credential
func (s *IdentityService) CreateUnregistered(ctx context.Context, fullname, email string) (*gormModels.User, error) {
	return s.createUnregistered(ctx, s.users, fullname, email)
}

func (s *IdentityService) createUnregistered(ctx context.Context, users *repositories.UserRepositoryGORM, fullname, email string) (*gormModels.User, error) {
	email = common.NormalizeEmail(email)

	user, err := users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	secret, err := common.RandomSecret(32)
	if err != nil {
		return nil, err
	}
	hashed, err := s.hash(secret)
	if err != nil {
		return nil, err
	}

	user = &gormModels.User{
		Email:        email,
		PasswordHash: hashed,
		Fullname:     fullname,
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return users.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates and issues an access and refresh token
func (s *IdentityService) Login(ctx context.Context, req requests.LoginRequest) (*TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *IdentityService) issue(user *gormModels.User) (*TokenPair, error) {
	access, err := s.signer.Sign(common.TokenClaims{Purpose: constants.TokenPurposeAccess, UserID: user.ID}, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signer.Sign(common.TokenClaims{Purpose: constants.TokenPurposeRefresh, UserID: user.ID}, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh rotates the refresh token; the presented one is revoked
func (s *IdentityService) Refresh(ctx context.Context, req requests.RefreshRequest) (*TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	claims, err := s.parse(constants.TokenPurposeRefresh, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, common.Unauthorized(constants.ErrTokenInvalid)
	}

	user, err := s.Resolve(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Logout revokes the refresh token
func (s *IdentityService) Logout(ctx context.Context, req requests.RefreshRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	claims, err := s.parse(constants.TokenPurposeRefresh, req.RefreshToken)
	if err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Authorize turns a bearer access token into the caller
func (s *IdentityService) Authorize(ctx context.Context, token string) (*gormModels.User, error) {
	claims, err := s.parse(constants.TokenPurposeAccess, token)
	if err != nil {
		return nil, err
	}
	return s.Resolve(ctx, claims.UserID)
}

// Resolve loads the caller behind a token
func (s *IdentityService) Resolve(ctx context.Context, userID uint) (*gormModels.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.Unauthorized(constants.ErrUserUnknown)
		}
		return nil, err
	}
	return user, nil
}

// ForgotPassword emails a reset link. Unknown addresses are accepted silently
// so the endpoint cannot be used to enumerate accounts.
func (s *IdentityService) ForgotPassword(ctx context.Context, req requests.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := s.signer.Sign(common.TokenClaims{Purpose: constants.TokenPurposeReset, UserID: user.ID}, s.cfg.ResetTokenTTL)
	if err != nil {
		return err
	}
	s.dispatcher.Email(user.Email, providers.ActionEmail{
		Subject:     "Reset your password",
		Name:        user.Fullname,
		TopBody:     "Someone asked to reset the password of your account.",
		ButtonURL:   fmt.Sprintf("%s/reset/%s", s.cfg.WebClientURL, token),
		ButtonLabel: "Reset password",
		BottomBody:  "If this was not you, you can ignore this email.",
	})
	return nil
}

// ResetPassword consumes a single-use reset token
func (s *IdentityService) ResetPassword(ctx context.Context, token string, req requests.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	claims, err := s.parse(constants.TokenPurposeReset, token)
	if err != nil {
		return err
	}
	user, err := s.Resolve(ctx, claims.UserID)
	if err != nil {
		return err
	}
	fresh, err := s.tokens.MarkUsed(ctx, claims.ID, claims.ExpiresAt.Time)
	if err != nil {
		return err
	}
	if !fresh {
		return common.Unauthorized(constants.ErrTokenUsed)
	}

	if user.PasswordHash, err = s.hash(req.Password); err != nil {
		return err
	}
	return s.users.Update(ctx, user)
}

// VerifyEmail marks the address as confirmed
func (s *IdentityService) VerifyEmail(ctx context.Context, token string) (*gormModels.User, error) {
	claims, err := s.parse(constants.TokenPurposeVerify, token)
	if err != nil {
		return nil, err
	}
	user, err := s.Resolve(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.Verified {
		return user, nil
	}
	user.Verified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterInvited lets the holder of a placeholder account set a name and
// password. Pending memberships of that account become confirmed.
func (s *IdentityService) RegisterInvited(ctx context.Context, token string, req requests.RegisterInvitedRequest) (*TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	claims, err := s.parse(constants.TokenPurposeInvite, token)
	if err != nil {
		return nil, err
	}
	user, err := s.Resolve(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.Registered {
		return nil, common.Conflict(constants.ErrUserRegistered)
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user.Fullname = req.Fullname
		user.PasswordHash = hashed
		user.Registered = true
		user.Verified = true
		if err := s.users.WithTx(tx).Update(ctx, user); err != nil {
			return err
		}
		return s.memberships.WithTx(tx).ConfirmAllForUser(ctx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	logging.Info("Invited user registered", "user_id", user.ID)
	return s.issue(user)
}

// SetDeviceToken registers the push target of the caller
func (s *IdentityService) SetDeviceToken(ctx context.Context, user *gormModels.User, req requests.DeviceTokenRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	user.DeviceToken = &req.DeviceToken
	return s.users.Update(ctx, user)
}

// RegistrationLink builds the link an unregistered user follows to claim the account
func (s *IdentityService) RegistrationLink(user *gormModels.User) (string, error) {
	token, err := s.signer.Sign(common.TokenClaims{Purpose: constants.TokenPurposeInvite, UserID: user.ID}, s.cfg.InviteTokenTTL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/register/%s", s.cfg.WebClientURL, token), nil
}

func (s *IdentityService) sendVerification(user *gormModels.User) {
	token, err := s.signer.Sign(common.TokenClaims{Purpose: constants.TokenPurposeVerify, UserID: user.ID}, s.cfg.InviteTokenTTL)
	if err != nil {
		logging.Warn("Could not sign verification token", "user_id", user.ID, "error", err)
		return
	}
	s.dispatcher.Email(user.Email, providers.ActionEmail{
		Subject:     "Verify your email",
		Name:        user.Fullname,
		TopBody:     "Thanks for joining. Please confirm this is your email address.",
		ButtonURL:   fmt.Sprintf("%s/verify/%s", s.cfg.WebClientURL, token),
		ButtonLabel: "Verify email",
	})
}

func (s *IdentityService) parse(purpose constants.TokenPurpose, token string) (*common.TokenClaims, error) {
	claims, err := s.signer.Parse(purpose, token)
	if err != nil {
		return nil, tokenError(err)
	}
	return claims, nil
}

// tokenError maps signer failures to reason codes
func tokenError(err error) error {
	if errors.Is(err, common.ErrTokenExpired) {
		return common.Unauthorized(constants.ErrTokenExpired)
	}
	return common.Unauthorized(constants.ErrTokenInvalid)
}

