package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter собирает gin-роутер с API броней, /metrics и /healthz
func NewRouter(bookings Bookings, gatherer prometheus.Gatherer, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(logger, m))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	h := NewHandler(bookings, logger)

	v1 := r.Group("/v1")
	v1.GET("/price", h.Price)
	v1.GET("/fields/:id/bookings", h.FieldDay)

	secured := v1.Group("")
	secured.Use(Identity())
	{
		secured.POST("/bookings", h.CreateBooking)
		secured.GET("/bookings/:id", h.GetBooking)
		secured.PUT("/bookings/:id", h.UpdateBooking)
		secured.DELETE("/bookings/:id", h.CancelBooking)
		secured.POST("/bookings/:id/payments", h.SubmitPayment)

		staff := secured.Group("")
		staff.Use(RequireStaff())
		staff.POST("/bookings/:id/paid", h.MarkPaid)
		staff.POST("/bookings/:id/confirm", h.ConfirmPayment)
		staff.POST("/bookings/:id/reject", h.RejectPayment)
		staff.POST("/admin/recalculate", h.Recalculate)
	}

	return r
}

// Server HTTP-сервер с корректной остановкой
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewServer(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Run слушает адрес до отмены ctx, затем ждёт завершения запросов
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP API")
	return s.srv.Shutdown(shutdownCtx)
}
