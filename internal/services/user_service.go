package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/pay4skill/server/internal/models"
	"github.com/pay4skill/server/internal/repository"
	appErr "github.com/pay4skill/server/pkg/errors"
	"github.com/pay4skill/server/pkg/logger"
)

type UserService interface {
	ListUsers(ctx context.Context, filter repository.UserFilter, page repository.Page) ([]models.User, int64, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, actor Actor, input *CreateUserInput) (*models.User, error)
	UpdateUser(ctx context.Context, actor Actor, userID uuid.UUID, input *UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, actor Actor, userID uuid.UUID) error
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	Profile  *models.Profile
}

type UpdateUserInput struct {
	Name    *string
	Profile *models.Profile
}

type userService struct {
	userRepo   repository.UserRepository
	bcryptCost int
}

func NewUserService(userRepo repository.UserRepository, bcryptCost int) UserService {
	return &userService{userRepo: userRepo, bcryptCost: bcryptCost}
}

var _ UserService = (*userService)(nil)

func (s *userService) ListUsers(ctx context.Context, filter repository.UserFilter, page repository.Page) ([]models.User, int64, error) {
	logger.L().Info("list users", zap.String("role", string(filter.Role)), zap.String("skill", filter.Skill))
	return s.userRepo.List(ctx, filter, page)
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	logger.L().Info("get user", zap.String("user_id", userID.String()))
	var u models.User
	if err := s.userRepo.GetByID(ctx, userID, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser lets an admin create an account with any role, including admin.
func (s *userService) CreateUser(ctx context.Context, actor Actor, input *CreateUserInput) (*models.User, error) {
	logger.L().Info("create user called", zap.String("actor_id", actor.ID.String()), zap.String("role", string(input.Role)))
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	u := &models.User{Name: input.Name, Email: input.Email, Role: input.Role, IsActive: true}
	if input.Profile != nil {
		u.Profile = datatypes.NewJSONType(*input.Profile)
	}
	if err := u.SetPassword(input.Password, s.bcryptCost); err != nil {
		return nil, passwordError(err)
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, observe(err)
	}

	logger.L().Info("user created", zap.String("user_id", u.ID.String()), zap.String("actor_id", actor.ID.String()))
	return u, nil
}

// UpdateUser changes the display name and profile. Email, role and password have their own flows.
func (s *userService) UpdateUser(ctx context.Context, actor Actor, userID uuid.UUID, input *UpdateUserInput) (*models.User, error) {
	logger.L().Info("update user", zap.String("user_id", userID.String()), zap.String("actor_id", actor.ID.String()))
	if !actor.Owns(userID) {
		return nil, ErrForbidden
	}

	var u models.User
	if err := s.userRepo.GetByID(ctx, userID, &u); err != nil {
		return nil, err
	}
	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Profile != nil {
		u.Profile = datatypes.NewJSONType(*input.Profile)
	}
	if err := s.userRepo.Update(ctx, &u); err != nil {
		return nil, observe(err)
	}

	logger.L().Info("user updated", zap.String("user_id", userID.String()))
	return &u, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor Actor, userID uuid.UUID) error {
	logger.L().Info("delete user", zap.String("user_id", userID.String()), zap.String("actor_id", actor.ID.String()))
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	if actor.ID == userID {
		return appErr.New(appErr.CodeInvalid, "admins cannot delete their own account")
	}
	if err := s.userRepo.Deactivate(ctx, userID); err != nil {
		return err
	}
	logger.L().Info("user deactivated", zap.String("user_id", userID.String()))
	return nil
}
