package httpapi

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/pitch_booking/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusOf HTTP-код для ошибки сервиса
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSlotTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail отвечает ошибкой. Внутренние ошибки только логируются, клиент видит общий текст.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
