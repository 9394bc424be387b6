package service

import (
	"errors"
	"time"

	"github.com/wearlab/tryon-backend/internal/apperrors"
	"github.com/wearlab/tryon-backend/internal/models"
	"github.com/wearlab/tryon-backend/internal/repository"
	"github.com/wearlab/tryon-backend/internal/utils"
	"github.com/wearlab/tryon-backend/pkg/logger"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo      *repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// SignUp registers a new user. The very first account ever created is
// promoted to administrator; everyone after that is a regular user.
func (s *AuthService) SignUp(name, username, password string) (*models.User, string, error) {
	logger.Log.Debug("Processing sign-up",
		zap.String("username", username),
	)

	existing, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to check username existence",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}
	if existing != nil {
		return nil, "", apperrors.New(apperrors.KindDuplicateUsername,
			"User already present, you need to use a different username or try to login")
	}

	count, err := s.userRepo.CountUsers()
	if err != nil {
		logger.Log.Error("Failed to count users", zap.Error(err))
		return nil, "", err
	}

	role := models.RoleUser
	if count == 0 {
		role = models.RoleAdmin
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, "", err
	}

	user := &models.User{
		Name:         name,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		// The unique index is the real guard; the lookup above only makes
		// the common case friendlier.
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, "", apperrors.New(apperrors.KindDuplicateUsername,
				"User already present, you need to use a different username or try to login")
		}
		logger.Log.Error("Failed to create user",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("username", username),
		zap.Int("role", user.Role),
	)

	return user, token, nil
}

func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to get user by username",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found",
			zap.String("username", username),
		)
		return nil, "", apperrors.New(apperrors.KindUnauthorized, "No user found, please sign up")
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("username", username),
			zap.Uint("user_id", user.ID),
		)
		return nil, "", apperrors.New(apperrors.KindUnauthorized,
			"Invalid password, please try again with the correct password")
	}

	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User logged in",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return user, token, nil
}

// GetProfile resolves a user's public profile by username.
func (s *AuthService) GetProfile(username string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.New(apperrors.KindUnknownUser, "No user found for "+username)
	}
	return user, nil
}

// GetAllUsers returns every account (admin surface).
func (s *AuthService) GetAllUsers() ([]*models.User, error) {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		logger.Log.Error("Failed to fetch all users", zap.Error(err))
		return nil, err
	}
	return users, nil
}
