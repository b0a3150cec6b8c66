package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/audit-chat-service/internal/auth"
	"github.com/spec-kit/audit-chat-service/internal/config"
	"github.com/spec-kit/audit-chat-service/internal/domain"
	"github.com/spec-kit/audit-chat-service/internal/events"
	"github.com/spec-kit/audit-chat-service/internal/repository"
	apperrors "github.com/spec-kit/audit-chat-service/pkg/util"
)

// AuthStatus is the payload returned by IsAuth.
type AuthStatus struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// AuthService coordinates login, registration and authentication liveness
// checks.
type AuthService struct {
	users      repository.UserRepository
	codec      *auth.TokenCodec
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		codec:      auth.NewTokenCodec(cfg.JWTSecret, cfg.Issuer, cfg.ExpirationHours),
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.BcryptCost,
	}
}

// Login authenticates a user by email and password and returns a fresh
// token. An unknown email and a wrong password produce the identical error,
// so account existence is not observable from the response.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			s.logger.Warn("user not found for email", zap.String("email", email))
			s.publish(ctx, events.New(events.EventLoginFailed, uuid.Nil, map[string]string{"email": email}))
			return "", apperrors.NewNotFound("Invalid credentials")
		}
		return "", err
	}

	if !auth.PasswordMatches(password, user.PasswordHash) {
		s.logger.Warn("invalid password attempt", zap.String("email", email))
		s.publish(ctx, events.New(events.EventLoginFailed, user.ID, nil))
		return "", apperrors.NewNotFound("Invalid credentials")
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", err
	}

	s.publish(ctx, events.New(events.EventUserLogin, user.ID, nil))
	s.logger.Info("login successful", zap.String("email", email))
	return token, nil
}

// Register creates a new account with a freshly hashed password and issues
// a token for the storage-assigned id. If persistence fails no token is
// issued.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", apperrors.NewInternalError("Internal error occurred while hashing password", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Save(ctx, user); err != nil {
		return "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", err
	}

	s.publish(ctx, events.New(events.EventUserRegistered, user.ID, map[string]string{"email": email}))
	s.logger.Info("registration successful", zap.String("email", email))
	return token, nil
}

// IsAuth verifies that the subject still refers to a live account. It
// trusts the caller already resolved a valid subject upstream.
func (s *AuthService) IsAuth(ctx context.Context, subjectID uuid.UUID) (*AuthStatus, error) {
	user, err := s.users.FindByID(ctx, subjectID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			s.logger.Warn("user not found or not authenticated", zap.String("user_id", subjectID.String()))
			return nil, apperrors.NewUnauthorized("User not authenticated")
		}
		return nil, err
	}

	return &AuthStatus{
		Message:  "User is authenticated",
		Username: user.Name,
	}, nil
}

// TokenCodec exposes the underlying codec for middleware usage.
func (s *AuthService) TokenCodec() *auth.TokenCodec {
	return s.codec
}

func (s *AuthService) issueToken(subjectID uuid.UUID) (string, error) {
	token, err := s.codec.Issue(subjectID)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", apperrors.NewInternalError("Invalid token", nil)
	}
	return token, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
