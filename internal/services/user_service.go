package services

import (
	"context"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	List(ctx context.Context, filter interfaces.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, request *UpdateUserRequest, actor *Actor) (*models.User, error)
	Remove(ctx context.Context, id primitive.ObjectID, actor *Actor) error
}

type UpdateUserRequest struct {
	Name   *string            `json:"name" validate:"omitempty,min=2,max=100"`
	Phone  *string            `json:"phone" validate:"omitempty,phone_number"`
	Role   *string            `json:"role" validate:"omitempty,slug"`
	Status *models.UserStatus `json:"status" validate:"omitempty,oneof=active suspended"`
}

type userService struct {
	userRepo interfaces.UserRepository
	roleRepo interfaces.RoleRepository
	logger   *logger.Logger
}

func NewUserService(userRepo interfaces.UserRepository, roleRepo interfaces.RoleRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

func (s *userService) List(ctx context.Context, filter interfaces.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error) {
	users, total, err := s.userRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, repoError(err, "user")
	}
	return users, total, nil
}

func (s *userService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "user")
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id primitive.ObjectID, request *UpdateUserRequest, actor *Actor) (*models.User, error) {
	updates := map[string]interface{}{}
	setIf(updates, "name", request.Name)
	setIf(updates, "phone", request.Phone)
	setIf(updates, "role", request.Role)
	setIf(updates, "status", request.Status)
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	if actor != nil && actor.UserID == id {
		if request.Role != nil && *request.Role != actor.Role {
			return nil, utils.NewForbiddenError("you cannot change your own role")
		}
		if request.Status != nil && *request.Status == models.UserStatusSuspended {
			return nil, utils.NewForbiddenError("you cannot suspend your own account")
		}
	}

	if request.Role != nil {
		if _, err := s.roleRepo.GetByName(ctx, *request.Role); err != nil {
			if isNotFound(err) {
				return nil, utils.NewValidationError(utils.ErrValidationFailed, map[string]string{"role": "role does not exist"})
			}
			return nil, repoError(err, "role")
		}
	}

	user, err := s.userRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "user")
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": id.Hex(),
		"fields":  len(updates),
	}).Info("User updated")
	return user, nil
}

func (s *userService) Remove(ctx context.Context, id primitive.ObjectID, actor *Actor) error {
	if actor != nil && actor.UserID == id {
		return utils.NewForbiddenError("you cannot remove your own account")
	}
	return repoError(s.userRepo.Retire(ctx, id), "user")
}
