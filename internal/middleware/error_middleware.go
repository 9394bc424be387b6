package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wearlab/tryon-backend/internal/apperrors"
	"github.com/wearlab/tryon-backend/pkg/logger"
	"go.uber.org/zap"
)

// ErrorMapper is the single place where application errors become HTTP
// responses. Handlers attach errors with c.Error and return; this
// middleware picks the status from the error kind and writes a JSON body
// with a user-safe detail. Full error text is logged server-side only.
func ErrorMapper() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		kind := apperrors.KindOf(err)
		status := kind.HTTPStatus()

		var appErr *apperrors.Error
		if !errors.As(err, &appErr) || status >= http.StatusInternalServerError {
			logger.Log.Error("Request failed",
				zap.String("path", c.FullPath()),
				zap.Int("status", status),
				zap.Error(err),
			)
		} else {
			logger.Log.Warn("Request rejected",
				zap.String("path", c.FullPath()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		c.JSON(status, gin.H{
			"detail": apperrors.PublicDetail(err),
		})
	}
}
