package response

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/friend-graph/pkg/apperrors"
	"github.com/d60-Lab/friend-graph/pkg/logger"
)

// ErrorResponse 错误响应体
type ErrorResponse struct {
	Error string `json:"error" example:"user not found"`
}

// MessageResponse 纯消息响应体
type MessageResponse struct {
	Message string `json:"message" example:"User deleted successfully"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageResponse{Message: msg})
}

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: msg})
}

// Error maps a classified error to its status code. Unclassified errors are
// treated as internal.
func Error(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.Validation:
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: apperrors.MessageOf(err)})
	case apperrors.NotFound:
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: apperrors.MessageOf(err)})
	case apperrors.Conflict:
		c.AbortWithStatusJSON(http.StatusConflict, ErrorResponse{Error: apperrors.MessageOf(err)})
	default:
		InternalError(c, err)
	}
}

// InternalError 记录日志并上报 Sentry，对外只返回通用信息
func InternalError(c *gin.Context, err error) {
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: apperrors.MessageOf(err)})
}
