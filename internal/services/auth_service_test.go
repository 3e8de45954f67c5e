package services

import (
	"context"
	"testing"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	interfaces.UserRepository
	items map[primitive.ObjectID]*models.User
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.Stamp(time.Now())
	m.items[user.ID] = user
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if user, ok := m.items[id]; ok && user.IsActive() {
		return user, nil
	}
	return nil, interfaces.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, err := m.FindAnyByEmail(context.Background(), email)
	if err != nil || !user.IsActive() {
		return nil, interfaces.ErrNotFound
	}
	return user, nil
}

func (m *memUsers) FindAnyByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range m.items {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (m *memUsers) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error) {
	user := m.items[id]
	if hash, ok := updates["password_hash"].(string); ok {
		user.PasswordHash = hash
	}
	return user, nil
}

func (m *memUsers) Restore(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error) {
	user := m.items[id]
	user.State = models.StateActive
	user.RetiredAt = nil
	user.Role = updates["role"].(string)
	user.PasswordHash = updates["password_hash"].(string)
	return user, nil
}

func (m *memUsers) UpdateLastLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	m.items[id].LastLoginAt = &at
	return nil
}

func newAuthFixture() (AuthService, *memUsers, *utils.JWTManager) {
	users := &memUsers{items: map[primitive.ObjectID]*models.User{}}
	jwtManager := utils.NewJWTManager("auth-test-secret", time.Hour, 24*time.Hour)
	service := NewAuthService(users, jwtManager, logger.NewNop())
	service.(*authService).bcryptCost = bcrypt.MinCost
	return service, users, jwtManager
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	service, users, jwtManager := newAuthFixture()
	ctx := context.Background()

	registered, err := service.Register(ctx, &RegisterRequest{Name: "Asha", Email: " Asha@Example.com ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.True(t, registered.IsNewUser)
	assert.Equal(t, "asha@example.com", registered.User.Email)
	assert.Equal(t, utils.RoleCustomer, registered.User.Role)
	assert.NotEqual(t, "s3cret-pass", users.items[registered.User.ID].PasswordHash)

	claims, err := jwtManager.ValidateToken(registered.AccessToken, utils.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	_, err = service.Register(ctx, &RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "another-pass"})
	assert.Equal(t, utils.CodeConflict, utils.AsAppError(err).Code)

	loggedIn, err := service.Login(ctx, &LoginRequest{Email: "ASHA@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotNil(t, loggedIn.User.LastLoginAt)
	assert.False(t, loggedIn.IsNewUser)

	_, err = service.Login(ctx, &LoginRequest{Email: "asha@example.com", Password: "wrong"})
	assert.Equal(t, utils.ErrInvalidCredentials, utils.AsAppError(err).Message)

	_, err = service.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "s3cret-pass"})
	assert.Equal(t, utils.ErrInvalidCredentials, utils.AsAppError(err).Message)
}

func TestAuthService_SuspendedUserCannotLogin(t *testing.T) {
	service, users, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := service.Register(ctx, &RegisterRequest{Name: "Ravi", Email: "ravi@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	users.items[registered.User.ID].Status = models.UserStatusSuspended

	_, err = service.Login(ctx, &LoginRequest{Email: "ravi@example.com", Password: "s3cret-pass"})
	assert.Equal(t, utils.CodeForbidden, utils.AsAppError(err).Code)

	_, err = service.RefreshToken(ctx, registered.RefreshToken)
	assert.Equal(t, utils.CodeForbidden, utils.AsAppError(err).Code)
}

func TestAuthService_RefreshReadsCurrentRole(t *testing.T) {
	service, users, jwtManager := newAuthFixture()
	ctx := context.Background()

	registered, err := service.Register(ctx, &RegisterRequest{Name: "Meera", Email: "meera@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	users.items[registered.User.ID].Role = utils.RoleVendor

	refreshed, err := service.RefreshToken(ctx, registered.RefreshToken)
	require.NoError(t, err)
	claims, err := jwtManager.ValidateToken(refreshed.AccessToken, utils.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, utils.RoleVendor, claims.Role)

	_, err = service.RefreshToken(ctx, registered.AccessToken)
	assert.Equal(t, utils.CodeUnauthorized, utils.AsAppError(err).Code)
}

func TestAuthService_RegisterRestoresRetiredAccount(t *testing.T) {
	service, users, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := service.Register(ctx, &RegisterRequest{Name: "Kiran", Email: "kiran@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	retired := users.items[registered.User.ID]
	retired.Role = utils.RoleAdmin
	retired.State = models.StateRetired

	again, err := service.Register(ctx, &RegisterRequest{Name: "Kiran", Email: "kiran@example.com", Password: "new-pass-123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, again.User.ID)
	assert.Equal(t, utils.RoleCustomer, again.User.Role)
	assert.True(t, again.User.IsActive())
}

func TestAuthService_ChangePassword(t *testing.T) {
	service, _, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := service.Register(ctx, &RegisterRequest{Name: "Dev", Email: "dev@example.com", Password: "old-pass-123"})
	require.NoError(t, err)
	userID := registered.User.ID

	err = service.ChangePassword(ctx, userID, &ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "new-pass-123"})
	assert.Equal(t, utils.CodeUnauthorized, utils.AsAppError(err).Code)

	require.NoError(t, service.ChangePassword(ctx, userID, &ChangePasswordRequest{CurrentPassword: "old-pass-123", NewPassword: "new-pass-123"}))

	_, err = service.Login(ctx, &LoginRequest{Email: "dev@example.com", Password: "old-pass-123"})
	assert.Error(t, err)
	_, err = service.Login(ctx, &LoginRequest{Email: "dev@example.com", Password: "new-pass-123"})
	assert.NoError(t, err)
}
