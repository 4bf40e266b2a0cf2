// file: service/auth_service.go

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"med-transcribe-api/logger"
	"med-transcribe-api/model"
	"med-transcribe-api/repository"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidCredentials never distinguishes "no such account" from
	// "wrong password"; the two must stay indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
)

// ClientInfo carries request metadata into the audit trail.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// AuthService composes the password, token and lockout services into the
// login, refresh, change-password and registration flows.
type AuthService struct {
	userRepo  repository.IUserRepository
	passwords *PasswordService
	tokens    *TokenService
	lockout   *LockoutService
	audit     *AuditService
}

func NewAuthService(userRepo repository.IUserRepository, passwords *PasswordService, tokens *TokenService, lockout *LockoutService, audit *AuditService) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		passwords: passwords,
		tokens:    tokens,
		lockout:   lockout,
		audit:     audit,
	}
}

func normalizeIdentity(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// Login authenticates an identity and returns an access/refresh token
// pair. Lockout is checked before anything else, so a locked account is
// rejected even when the password is correct.
func (s *AuthService) Login(ctx context.Context, identity, password string, client ClientInfo) (*model.TokenResponse, error) {
	identity = normalizeIdentity(identity)

	if locked, remaining := s.lockout.CheckLockout(ctx, identity); locked {
		return nil, &AccountLockedError{RetrySeconds: remaining}
	}

	user, err := s.userRepo.GetUserByEmail(identity)
	if err != nil {
		if err == sql.ErrNoRows {
			// Unknown identities count as failures too.
			s.lockout.RecordFailure(ctx, identity)
			logger.Log.WithField("identity", identity).Warn("Login attempt for unknown identity")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("could not look up account: %w", err)
	}

	if !user.IsActive {
		logger.Log.WithField("identity", identity).Warn("Login attempt for inactive account")
		return nil, ErrInvalidCredentials
	}

	if !s.passwords.VerifyPassword(password, user.HashedPassword) {
		s.lockout.RecordFailure(ctx, identity)
		logger.Log.WithField("identity", identity).Warn("Failed login attempt")
		return nil, ErrInvalidCredentials
	}

	s.lockout.RecordSuccess(ctx, identity)

	if err := s.userRepo.RecordLogin(user.ID); err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Could not record last login time")
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(user.ID, "user", user.ID, "login", "User login", client.IP, client.UserAgent)

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*model.TokenResponse, error) {
	claims, err := s.tokens.VerifyToken(refreshToken, model.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByUsername(claims.Subject)
	if err != nil {
		if err == sql.ErrNoRows {
			logger.Log.WithField("subject", claims.Subject).Warn("Refresh token for deleted account")
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("could not look up account: %w", err)
	}

	if !user.IsActive {
		logger.Log.WithField("subject", claims.Subject).Warn("Refresh token for inactive account")
		return nil, ErrInvalidToken
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(user.ID, "user", user.ID, "token_refresh", "Token refresh", client.IP, client.UserAgent)

	return &model.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// ChangePassword replaces the user's password after re-verifying the
// current one. A wrong current password counts as a failed-login event
// against the lockout tracker.
func (s *AuthService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string, client ClientInfo) error {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("could not look up account: %w", err)
	}

	if !s.passwords.VerifyPassword(currentPassword, user.HashedPassword) {
		s.lockout.RecordFailure(ctx, user.Email)
		logger.Log.WithField("username", username).Warn("Failed password change attempt")
		return ErrInvalidCredentials
	}

	s.lockout.RecordSuccess(ctx, user.Email)

	digest, err := s.passwords.SetPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(user.ID, digest); err != nil {
		return fmt.Errorf("could not update password: %w", err)
	}

	s.audit.Record(user.ID, "user", user.ID, "password_change", "User changed their password", client.IP, client.UserAgent)

	return nil
}

// Register creates a new account after checking identity uniqueness and
// the password complexity policy.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, client ClientInfo) (*model.User, error) {
	email := normalizeIdentity(req.Email)

	if _, err := s.userRepo.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("could not check email: %w", err)
	}

	if _, err := s.userRepo.GetUserByUsername(req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("could not check username: %w", err)
	}

	digest, err := s.passwords.SetPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       req.Username,
		Email:          email,
		HashedPassword: digest,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("could not create user: %w", err)
	}

	s.audit.Record(user.ID, "user", user.ID, "create",
		fmt.Sprintf("User self-registration with username: %s", req.Username), client.IP, client.UserAgent)

	logger.Log.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("New user registered")

	return user, nil
}

// GetProfile returns the user behind an authenticated username and audits
// the access.
func (s *AuthService) GetProfile(ctx context.Context, username string, client ClientInfo) (*model.User, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}

	s.audit.Record(user.ID, "user", user.ID, "view", "User viewed their profile", client.IP, client.UserAgent)
	return user, nil
}
