package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wearlab/tryon-backend/internal/service"
	"github.com/wearlab/tryon-backend/pkg/logger"
	"go.uber.org/zap"
)

type AdminHandler struct {
	authService *service.AuthService
}

func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{
		authService: authService,
	}
}

// GetAllUsers returns every registered user.
// GET /api/admin/users
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	logger.Log.Info("Admin fetching all users",
		zap.String("admin", c.GetString("username")),
	)

	users, err := h.authService.GetAllUsers()
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
	})
}
