package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/events"
	"github.com/spec-kit/store-service/internal/repository"
	apperrors "github.com/spec-kit/store-service/pkg/util/errorutil"
)

const (
	msgEmailTaken         = "User Already Exist. Please Login"
	msgUsernameTaken      = "Username Already Exist"
	msgInvalidCredentials = "invalid credentials"
)

// RegisterInput is the data needed to open an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     *int
}

// Session is the result of a successful register or login.
type Session struct {
	User   *domain.User
	Token  string
	Claims auth.Claims
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	TokenManager *auth.TokenManager
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(bcryptCost int, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   deps.TokenManager,
		bcryptCost: bcryptCost,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// RegisterUser creates a new account and issues its first token.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*Session, error) {
	role := domain.DefaultRole
	if in.Role != nil {
		parsed, err := domain.ParseRole(*in.Role)
		if err != nil {
			return nil, apperrors.NewValidationError("role must be 1 (admin) or 2 (member)", map[string]any{"role": *in.Role})
		}
		role = parsed
	}
	email := normalizeEmail(in.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict(msgEmailTaken)
	} else if !apperrors.IsNoRows(err) {
		return nil, apperrors.NewStorageError(err)
	}
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, apperrors.NewConflict(msgUsernameTaken)
	} else if !apperrors.IsNoRows(err) {
		return nil, apperrors.NewStorageError(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict(msgEmailTaken)
		}
		return nil, apperrors.NewStorageError(err)
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	event := events.NewEvent(events.EventUserRegistered, user.ID, user.ID, events.UserRegisteredPayload{
		Username: user.Username,
		Role:     user.Role,
	})
	publish(ctx, s.dispatcher, s.logger, event)
	return session, nil
}

// LoginUser authenticates by email and password.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
		}
		return nil, apperrors.NewStorageError(err)
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, claims, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, Token: token, Claims: claims}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
