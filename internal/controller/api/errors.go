package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/editor"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

var errNoSession = errors.New("no open editor session")

// statusFor переводит ошибку в HTTP статус
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNoSession), errors.Is(err, editor.ErrClosed):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrLoading), errors.Is(err, editor.ErrGestureActive):
		return http.StatusConflict
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict), errors.Is(err, model.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, model.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError пишет ошибку в ответ; внутренние детали 5xx не раскрываются
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()

	switch status {
	case http.StatusServiceUnavailable:
		h.logger.Error("Storage failure", zap.String("path", c.FullPath()), zap.Error(err))
		msg = "storage temporarily unavailable"
	case http.StatusInternalServerError:
		h.logger.Error("Unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		msg = "internal error"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
