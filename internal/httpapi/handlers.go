package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/pitch_booking/internal/model"
	"github.com/Freeeeeet/pitch_booking/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Bookings операции движка, которые публикует HTTP API
type Bookings interface {
	Location() *time.Location
	CreateBooking(ctx context.Context, req service.Requester, in service.BookingInput) (*model.Booking, error)
	GetBooking(ctx context.Context, req service.Requester, id int64) (*model.Booking, error)
	UpdateBooking(ctx context.Context, req service.Requester, id int64, in service.BookingInput) (*model.Booking, error)
	CancelBooking(ctx context.Context, req service.Requester, id int64) error
	SubmitPaymentProof(ctx context.Context, req service.Requester, id int64, in service.PaymentInput) (*model.Booking, error)
	MarkPaid(ctx context.Context, req service.Requester, id int64, in service.PaymentInput) (*model.Booking, error)
	ConfirmPayment(ctx context.Context, req service.Requester, id int64) (*model.Booking, error)
	RejectPayment(ctx context.Context, req service.Requester, id int64) (*model.Booking, error)
	ListFieldDay(ctx context.Context, fieldID int64, date time.Time) ([]*model.Booking, error)
	ComputeAmount(ctx context.Context, fieldID int64, start, end time.Time) (int64, error)
	RecalculateTotals(ctx context.Context, req service.Requester) (int, error)
}

type Handler struct {
	bookings Bookings
	logger   *zap.Logger
}

func NewHandler(bookings Bookings, logger *zap.Logger) *Handler {
	return &Handler{bookings: bookings, logger: logger}
}

type bookingRequest struct {
	FieldID int64                `json:"field_id"`
	UserID  int64                `json:"user_id"`
	Start   time.Time            `json:"start"` // RFC3339
	End     time.Time            `json:"end"`   // RFC3339
	Amount  *int64               `json:"amount"`
	Status  *model.BookingStatus `json:"status"`
}

func (r bookingRequest) input() service.BookingInput {
	return service.BookingInput{
		FieldID: r.FieldID,
		UserID:  r.UserID,
		Start:   r.Start,
		End:     r.End,
		Amount:  r.Amount,
		Status:  r.Status,
	}
}

type paymentRequest struct {
	Type     model.PaymentType   `json:"type" binding:"omitempty,oneof=deposit full"`
	Method   model.PaymentMethod `json:"method" binding:"omitempty,oneof=cash transfer"`
	ProofURL string              `json:"proof_url"`
	Amount   int64               `json:"amount" binding:"gte=0"`
}

func (r paymentRequest) input() service.PaymentInput {
	return service.PaymentInput{
		Type:     r.Type,
		Method:   r.Method,
		ProofURL: r.ProofURL,
		Amount:   r.Amount,
	}
}

// POST /v1/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var in bookingRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	if in.Status != nil {
		badRequest(c, "status cannot be set on create")
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), requester(c), in.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GET /v1/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), requester(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// PUT /v1/bookings/:id
func (h *Handler) UpdateBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in bookingRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	booking, err := h.bookings.UpdateBooking(c.Request.Context(), requester(c), id, in.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DELETE /v1/bookings/:id
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.bookings.CancelBooking(c.Request.Context(), requester(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /v1/bookings/:id/payments
func (h *Handler) SubmitPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in paymentRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	booking, err := h.bookings.SubmitPaymentProof(c.Request.Context(), requester(c), id, in.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// POST /v1/bookings/:id/paid (OWNER/ADMIN)
func (h *Handler) MarkPaid(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in paymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	booking, err := h.bookings.MarkPaid(c.Request.Context(), requester(c), id, in.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// POST /v1/bookings/:id/confirm (OWNER/ADMIN)
func (h *Handler) ConfirmPayment(c *gin.Context) {
	h.review(c, h.bookings.ConfirmPayment)
}

// POST /v1/bookings/:id/reject (OWNER/ADMIN)
func (h *Handler) RejectPayment(c *gin.Context) {
	h.review(c, h.bookings.RejectPayment)
}

func (h *Handler) review(c *gin.Context, op func(context.Context, service.Requester, int64) (*model.Booking, error)) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	booking, err := op(c.Request.Context(), requester(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GET /v1/fields/:id/bookings?date=YYYY-MM-DD
func (h *Handler) FieldDay(c *gin.Context) {
	fieldID, ok := idParam(c)
	if !ok {
		return
	}

	date := time.Now().In(h.bookings.Location())
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, h.bookings.Location())
		if err != nil {
			badRequest(c, "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}

	bookings, err := h.bookings.ListFieldDay(c.Request.Context(), fieldID, date)
	if err != nil {
		h.fail(c, err)
		return
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{
		"field_id": fieldID,
		"date":     date.Format(time.DateOnly),
		"bookings": bookings,
	})
}

// GET /v1/price?field_id=&start=&end=
func (h *Handler) Price(c *gin.Context) {
	fieldID, err := strconv.ParseInt(c.Query("field_id"), 10, 64)
	if err != nil {
		badRequest(c, "field_id must be an integer")
		return
	}
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		badRequest(c, "start must be RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		badRequest(c, "end must be RFC3339")
		return
	}

	amount, err := h.bookings.ComputeAmount(c.Request.Context(), fieldID, start, end)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"field_id": fieldID,
		"start":    start.In(h.bookings.Location()),
		"end":      end.In(h.bookings.Location()),
		"amount":   amount,
	})
}

// POST /v1/admin/recalculate (OWNER/ADMIN)
func (h *Handler) Recalculate(c *gin.Context) {
	changed, err := h.bookings.RecalculateTotals(c.Request.Context(), requester(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
