package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wearlab/tryon-backend/internal/apperrors"
	"github.com/wearlab/tryon-backend/internal/service"
)

type GalleryHandler struct {
	galleryService *service.GalleryService
}

func NewGalleryHandler(galleryService *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
	}
}

// Gallery handles GET /api/gallery?username=.
func (h *GalleryHandler) Gallery(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.Error(apperrors.New(apperrors.KindUnauthorized, "You are not logged in, please login"))
		return
	}

	gallery, err := h.galleryService.ListGallery(username)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "Okay",
		"detail":  "Here is your gallery",
		"gallery": gallery,
	})
}
