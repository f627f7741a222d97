package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/band-site/internal/auth"
	"github.com/spec-kit/band-site/internal/config"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/events"
	"github.com/spec-kit/band-site/internal/repository"
	"github.com/spec-kit/band-site/internal/sanitize"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

// Public auth messages.
const (
	MsgEmailTaken         = "Un compte avec cet email existe déjà"
	MsgInvalidCredentials = "Identifiants invalides"
	MsgUserNotFound       = "Utilisateur introuvable"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo     repository.UserRepository
	TokenManager *auth.TokenManager
	Dispatcher   events.Dispatcher
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service. A token manager is derived from cfg
// when deps does not carry one.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	tm := deps.TokenManager
	if tm == nil {
		tm = auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes)
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   tm,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the token codec for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a USER account and signs a token for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict(MsgEmailTaken)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         sanitize.Text(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict(MsgEmailTaken)
		}
		return nil, err
	}

	result, err := s.sign(user)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:      events.EventUserRegistered,
		SubjectID: user.ID,
		Actor:     events.Actor{UserID: user.ID, Role: user.Role},
	})
	return result, nil
}

// Login authenticates by email and password. Unknown email and wrong password
// are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized(MsgInvalidCredentials)
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(MsgInvalidCredentials)
	}
	return s.sign(user)
}

// Me loads the account behind a verified identity.
func (s *AuthService) Me(ctx context.Context, id *domain.Identity) (*domain.User, error) {
	if id == nil {
		return nil, apperrors.NewUnauthorized(apperrors.MsgUnauthenticated)
	}
	user, err := s.users.GetByID(ctx, id.ID)
	if err != nil {
		return nil, notFound(err, MsgUserNotFound)
	}
	return user, nil
}

func (s *AuthService) sign(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.Issue(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
