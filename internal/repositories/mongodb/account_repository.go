package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	store[models.User]
}

func NewUserRepository(db *mongo.Database) interfaces.UserRepository {
	return &userRepository{newStore[models.User](db, "users", "user", "name", "email")}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(user.Email)
	user.Stamp(time.Now())
	return r.insert(ctx, user)
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.getByID(ctx, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, active(bson.M{"email": strings.ToLower(email)}))
}

func (r *userRepository) FindAnyByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findAny(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error) {
	return r.update(ctx, id, updates)
}

func (r *userRepository) Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error) {
	return r.restore(ctx, id, updates)
}

func (r *userRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login_at": at}})
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, active(bson.M{"role": role}))
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *userRepository) List(ctx context.Context, filter interfaces.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return r.paginate(ctx, query, params)
}

type roleRepository struct {
	store[models.Role]
}

func NewRoleRepository(db *mongo.Database) interfaces.RoleRepository {
	return &roleRepository{newStore[models.Role](db, "roles", "role", "name", "description")}
}

func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	role.ID = primitive.NewObjectID()
	role.Stamp(time.Now())
	return r.insert(ctx, role)
}

func (r *roleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Role, error) {
	return r.getByID(ctx, id)
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	return r.findOne(ctx, active(bson.M{"name": name}))
}

func (r *roleRepository) FindAnyByName(ctx context.Context, name string) (*models.Role, error) {
	return r.findAny(ctx, bson.M{"name": name})
}

func (r *roleRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Role, error) {
	return r.update(ctx, id, updates)
}

func (r *roleRepository) Restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Role, error) {
	return r.restore(ctx, id, updates)
}

func (r *roleRepository) Retire(ctx context.Context, id primitive.ObjectID) error {
	return r.retire(ctx, id)
}

func (r *roleRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Role, int64, error) {
	return r.paginate(ctx, bson.M{}, params)
}
