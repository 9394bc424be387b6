package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wearlab/tryon-backend/internal/apperrors"
	"github.com/wearlab/tryon-backend/internal/service"
	"github.com/wearlab/tryon-backend/pkg/logger"
	"go.uber.org/zap"
)

type TryOnHandler struct {
	tryonService *service.TryOnService
}

func NewTryOnHandler(tryonService *service.TryOnService) *TryOnHandler {
	return &TryOnHandler{
		tryonService: tryonService,
	}
}

// TryOn handles POST /api/try-on (multipart form).
func (h *TryOnHandler) TryOn(c *gin.Context) {
	person, err := readUpload(c, "person_image")
	if err != nil {
		c.Error(err)
		return
	}

	cloth, err := readUpload(c, "cloth_image")
	if err != nil {
		c.Error(err)
		return
	}

	input := service.TryOnInput{
		Username:     c.PostForm("username"),
		PersonImage:  person,
		ClothImage:   cloth,
		Instructions: c.PostForm("instructions"),
		ModelType:    c.PostForm("model_type"),
		Gender:       c.PostForm("gender"),
		GarmentType:  c.PostForm("garment_type"),
		Style:        c.PostForm("style"),
	}

	logger.Log.Info("Try-on request received",
		zap.String("username", input.Username),
		zap.String("model_type", input.ModelType),
		zap.String("ip", c.ClientIP()),
	)

	result, err := h.tryonService.Process(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// readUpload reads one uploaded file into memory along with its declared
// MIME type. Size and type checks belong to the orchestrator, not here.
func readUpload(c *gin.Context, field string) (service.UploadedImage, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return service.UploadedImage{}, apperrors.New(apperrors.KindInvalidInput, field+" is required")
	}

	data, err := readFileHeader(fileHeader)
	if err != nil {
		return service.UploadedImage{}, apperrors.Wrap(apperrors.KindInvalidInput,
			"failed to read "+field, err)
	}

	return service.UploadedImage{
		Data:     data,
		MIMEType: fileHeader.Header.Get("Content-Type"),
	}, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
