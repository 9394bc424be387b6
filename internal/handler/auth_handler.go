package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wearlab/tryon-backend/internal/apperrors"
	"github.com/wearlab/tryon-backend/internal/service"
	"github.com/wearlab/tryon-backend/pkg/logger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUp handles POST /api/signUp.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Sign-up request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.Error(apperrors.New(apperrors.KindInvalidInput, "Invalid request body"))
		return
	}

	logger.Log.Info("Sign-up attempt",
		zap.String("username", req.Username),
		zap.String("ip", c.ClientIP()),
	)

	_, token, err := h.authService.SignUp(req.Name, req.Username, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Okay",
		"detail": "Sign up successful, you can login now",
		"token":  token,
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Login request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.Error(apperrors.New(apperrors.KindInvalidInput, "Invalid request body"))
		return
	}

	user, token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Okay",
		"detail": "Login successful",
		"userId": user.ID,
		"token":  token,
	})
}

// Me handles GET /api/me?username=.
func (h *AuthHandler) Me(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.Error(apperrors.New(apperrors.KindInvalidInput, "username query parameter is required"))
		return
	}

	user, err := h.authService.GetProfile(username)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}
