package interfaces

import (
	"context"
	"time"

	"marketly/internal/models"
	"marketly/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserFilter struct {
	Role   string
	Status models.UserStatus
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindAnyByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error)
	Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	CountByRole(ctx context.Context, role string) (int64, error)
	List(ctx context.Context, filter UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error)
}

type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	FindAnyByName(ctx context.Context, name string) (*models.Role, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Role, error)
	Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Role, error)
	Retire(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Role, int64, error)
}
