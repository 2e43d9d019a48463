package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pay4skill/server/internal/auth"
	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	appErr "github.com/pay4skill/server/pkg/errors"
	"github.com/pay4skill/server/pkg/logger"
	"github.com/pay4skill/server/pkg/metrics"
)

type AuthService interface {
	Register(ctx context.Context, input *RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	VerifySession(ctx context.Context, token string) (*Actor, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type authService struct {
	userRepo   repository.UserRepository
	tokens     *auth.Issuer
	bcryptCost int
	deps       Deps
	now        func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens *auth.Issuer, bcryptCost int, deps Deps) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens, bcryptCost: bcryptCost, deps: deps, now: time.Now}
}

var _ AuthService = (*authService)(nil)

func (s *authService) Register(ctx context.Context, input *RegisterInput) (*AuthResult, error) {
	email := models.NormalizeEmail(input.Email)
	logger.L().Info("register called", zap.String("email", email), zap.String("role", string(input.Role)))

	role := input.Role
	if role == "" {
		role = models.RoleStudent
	}
	// admins are created by other admins only
	if !role.Valid() || role == models.RoleAdmin {
		return nil, observe(models.ErrInvalidRole)
	}

	var existing models.User
	err := s.userRepo.GetByEmail(ctx, email, &existing)
	if err == nil {
		return nil, observe(models.ErrEmailInUse)
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	user := &models.User{Name: input.Name, Email: email, Role: role, IsActive: true}
	if err := user.SetPassword(input.Password, s.bcryptCost); err != nil {
		return nil, passwordError(err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, observe(err)
	}

	token, err := s.tokens.IssueSession(user.ID, string(user.Role))
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "issue session token failed")
	}

	metrics.IncEvent(metrics.EventRegistered)
	logger.L().Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// Login answers ErrInvalidCredentials for an unknown email, a wrong password and an inactive account alike.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = models.NormalizeEmail(email)
	logger.L().Info("login called", zap.String("email", email))

	var user models.User
	if err := s.userRepo.GetByEmail(ctx, email, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	at := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, at); err != nil {
		return nil, err
	}
	user.LastLogin = &at

	token, err := s.tokens.IssueSession(user.ID, string(user.Role))
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "issue session token failed")
	}

	logger.L().Info("user logged in", zap.String("user_id", user.ID.String()))
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// VerifySession checks the token and resolves the caller against the current user row.
func (s *authService) VerifySession(ctx context.Context, token string) (*Actor, error) {
	claims, err := s.tokens.Verify(token, auth.PurposeSession)
	if err != nil {
		return nil, ErrInvalidToken
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	// role and is_active come from the stored row, not the token
	var user models.User
	if err := s.userRepo.GetByID(ctx, id, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}
	return &Actor{ID: user.ID, Role: user.Role}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	logger.L().Info("current user", zap.String("user_id", userID.String()))
	var user models.User
	if err := s.userRepo.GetByID(ctx, userID, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ForgotPassword never reveals whether the email belongs to an account.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)
	logger.L().Info("forgot password called", zap.String("email", email))

	var user models.User
	if err := s.userRepo.GetByEmail(ctx, email, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	token, err := s.tokens.IssueReset(user.ID)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "issue reset token failed")
	}
	if s.deps.Jobs == nil {
		logger.L().Warn("job queue not configured, reset mail not sent", zap.String("user_id", user.ID.String()))
		return nil
	}
	if err := s.deps.Jobs.EnqueuePasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
		logger.L().Error("enqueue reset mail failed", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil
	}
	logger.L().Info("password reset requested", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.Verify(token, auth.PurposePasswordReset)
	if err != nil {
		return ErrInvalidToken
	}
	id, err := claims.UserID()
	if err != nil {
		return ErrInvalidToken
	}

	var user models.User
	if err := s.userRepo.GetByID(ctx, id, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if err := user.SetPassword(newPassword, s.bcryptCost); err != nil {
		return passwordError(err)
	}
	if err := s.userRepo.Update(ctx, &user); err != nil {
		return err
	}
	logger.L().Info("password reset", zap.String("user_id", user.ID.String()))
	return nil
}

func passwordError(err error) error {
	if errors.Is(err, auth.ErrPasswordTooShort) {
		return ErrPasswordTooShort
	}
	return appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
}
