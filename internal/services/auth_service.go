package services

import (
	"context"
	"strings"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	// Authentication
	Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)

	// Account
	Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error
}

type authService struct {
	userRepo   interfaces.UserRepository
	jwt        *utils.JWTManager
	bcryptCost int
	logger     *logger.Logger
	now        func() time.Time
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,phone_number"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128,nefield=CurrentPassword"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	IsNewUser    bool         `json:"is_new_user,omitempty"`
}

func NewAuthService(userRepo interfaces.UserRepository, jwtManager *utils.JWTManager, logger *logger.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwt:        jwtManager,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *authService) Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	existing, err := s.userRepo.FindAnyByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		return nil, repoError(err, "user")
	}
	if existing != nil && existing.IsActive() {
		return nil, utils.NewConflictError("user with this email already exists")
	}

	hashedPassword, err := s.hashPassword(request.Password)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	var user *models.User
	if existing != nil {
		// a retired account comes back as a fresh customer under the same id
		user, err = s.userRepo.Restore(ctx, existing.ID, map[string]interface{}{
			"name":          request.Name,
			"phone":         request.Phone,
			"password_hash": hashedPassword,
			"role":          utils.RoleCustomer,
			"status":        models.UserStatusActive,
		})
		if err != nil {
			return nil, repoError(err, "user")
		}
	} else {
		user = &models.User{
			Name:         request.Name,
			Email:        email,
			Phone:        request.Phone,
			PasswordHash: hashedPassword,
			Role:         utils.RoleCustomer,
			Status:       models.UserStatusActive,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			s.logger.WithError(err).Error("Failed to create user")
			return nil, repoError(err, "user")
		}
	}

	response, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	response.IsNewUser = true

	s.logger.WithField("user_id", user.ID.Hex()).WithField("role", user.Role).Info("User registered successfully")
	return response, nil
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(request.Email)))
	if err != nil {
		if isNotFound(err) {
			s.logger.WithField("email", request.Email).Warn("Login attempt with invalid credentials")
			return nil, utils.NewUnauthorizedError(utils.ErrInvalidCredentials)
		}
		return nil, repoError(err, "user")
	}

	if !s.checkPassword(request.Password, user.PasswordHash) {
		s.logger.WithField("user_id", user.ID.Hex()).Warn("Login attempt with invalid credentials")
		return nil, utils.NewUnauthorizedError(utils.ErrInvalidCredentials)
	}

	if user.Status == models.UserStatusSuspended {
		return nil, utils.NewForbiddenError("account is suspended")
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID.Hex()).Warn("Failed to record last login")
	} else {
		user.LastLoginAt = &now
	}

	s.logger.WithField("user_id", user.ID.Hex()).Info("User logged in")
	return s.issueTokens(user)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwt.ValidateToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return nil, utils.NewUnauthorizedError(utils.ErrInvalidToken)
	}

	// role and status are re-read so revoked access does not survive a refresh
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, utils.NewUnauthorizedError(utils.ErrInvalidToken)
		}
		return nil, repoError(err, "user")
	}
	if user.Status == models.UserStatusSuspended {
		return nil, utils.NewForbiddenError("account is suspended")
	}

	return s.issueTokens(user)
}

func (s *authService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, repoError(err, "user")
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return repoError(err, "user")
	}
	if !s.checkPassword(request.CurrentPassword, user.PasswordHash) {
		return utils.NewUnauthorizedError(utils.ErrInvalidCredentials)
	}

	hashedPassword, err := s.hashPassword(request.NewPassword)
	if err != nil {
		return utils.NewInternalError(err)
	}
	if _, err := s.userRepo.Update(ctx, userID, map[string]interface{}{"password_hash": hashedPassword}); err != nil {
		return repoError(err, "user")
	}

	s.logger.WithField("user_id", userID.Hex()).Info("Password changed")
	return nil
}

func (s *authService) issueTokens(user *models.User) (*AuthResponse, error) {
	pair, err := s.jwt.GenerateTokenPair(user.ID, user.Role, user.Email)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func (s *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
