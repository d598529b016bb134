package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/metrics"
	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"

	requesterKey = "requester"
	requestIDKey = "request_id"
)

// RequestID проставляет X-Request-ID, если его не передал шлюз
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AccessLog пишет запрос в лог и в метрики
func AccessLog(logger *zap.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.IncRequest("http", route, strconv.Itoa(status))

		logger.Info("HTTP request",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(started)),
		)
	}
}

// Identity читает пользователя из заголовков, которые выставляет шлюз
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.GetHeader(HeaderUserID), 10, 64)
		if err != nil || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid " + HeaderUserID})
			return
		}

		c.Set(requesterKey, service.Requester{
			UserID: userID,
			Role:   model.ParseRole(c.GetHeader(HeaderUserRole)),
		})
		c.Next()
	}
}

// RequireStaff пропускает только admin/owner
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !requester(c).Role.IsPrivileged() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin or owner role required"})
			return
		}
		c.Next()
	}
}

func requester(c *gin.Context) service.Requester {
	v, _ := c.Get(requesterKey)
	req, _ := v.(service.Requester)
	return req
}
