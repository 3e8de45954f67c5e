package services

import (
	"context"
	"strings"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RoleService interface {
	Create(ctx context.Context, request *CreateRoleRequest) (*models.Role, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Role, error)
	Update(ctx context.Context, id primitive.ObjectID, request *UpdateRoleRequest) (*models.Role, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Role, int64, error)
}

type CreateRoleRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=50,slug"`
	Description string   `json:"description" validate:"max=200"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,min=1,max=100"`
}

type UpdateRoleRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=2,max=50,slug"`
	Description *string   `json:"description" validate:"omitempty,max=200"`
	Permissions *[]string `json:"permissions" validate:"omitempty,dive,min=1,max=100"`
}

type roleService struct {
	roleRepo interfaces.RoleRepository
	userRepo interfaces.UserRepository
	logger   *logger.Logger
}

func NewRoleService(roleRepo interfaces.RoleRepository, userRepo interfaces.UserRepository, logger *logger.Logger) RoleService {
	return &roleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *roleService) Create(ctx context.Context, request *CreateRoleRequest) (*models.Role, error) {
	name := strings.ToLower(request.Name)
	permissions := request.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	existing, err := s.roleRepo.FindAnyByName(ctx, name)
	if err != nil && !isNotFound(err) {
		return nil, repoError(err, "role")
	}
	if existing != nil {
		if existing.IsActive() {
			return nil, utils.NewConflictError("role already exists")
		}
		role, err := s.roleRepo.Restore(ctx, existing.ID, map[string]interface{}{
			"description": request.Description,
			"permissions": permissions,
		})
		if err != nil {
			return nil, repoError(err, "role")
		}
		s.logger.WithField("role", name).Info("Role restored")
		return role, nil
	}

	role := &models.Role{
		Name:        name,
		Description: request.Description,
		Permissions: permissions,
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, repoError(err, "role")
	}

	s.logger.WithField("role", name).Info("Role created")
	return role, nil
}

func (s *roleService) Get(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "role")
	}
	return role, nil
}

func (s *roleService) Update(ctx context.Context, id primitive.ObjectID, request *UpdateRoleRequest) (*models.Role, error) {
	updates := map[string]interface{}{}
	setIf(updates, "description", request.Description)
	setIf(updates, "permissions", request.Permissions)
	if request.Name != nil {
		updates["name"] = strings.ToLower(*request.Name)
	}
	if len(updates) == 0 {
		return nil, errNothingToUpdate()
	}

	current, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "role")
	}
	if name, ok := updates["name"].(string); ok && name != current.Name {
		if current.BuiltIn {
			return nil, utils.NewForbiddenError("built-in roles cannot be renamed")
		}
		if _, err := s.roleRepo.GetByName(ctx, name); err == nil {
			return nil, utils.NewConflictError("role already exists")
		} else if !isNotFound(err) {
			return nil, repoError(err, "role")
		}
	}

	role, err := s.roleRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, repoError(err, "role")
	}
	return role, nil
}

func (s *roleService) Remove(ctx context.Context, id primitive.ObjectID) error {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "role")
	}
	if role.BuiltIn {
		return utils.NewForbiddenError("built-in roles cannot be removed")
	}

	assigned, err := s.userRepo.CountByRole(ctx, role.Name)
	if err != nil {
		return repoError(err, "user")
	}
	if assigned > 0 {
		return utils.NewConflictError("role is still assigned to users")
	}

	if err := s.roleRepo.Retire(ctx, id); err != nil {
		return repoError(err, "role")
	}

	s.logger.WithField("role", role.Name).Info("Role removed")
	return nil
}

func (s *roleService) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Role, int64, error) {
	roles, total, err := s.roleRepo.List(ctx, params)
	if err != nil {
		return nil, 0, repoError(err, "role")
	}
	return roles, total, nil
}
