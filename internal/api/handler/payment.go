package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/payment"
)

type PaymentHandler struct {
	service PaymentServiceInterface
}

func NewPaymentHandler(s PaymentServiceInterface) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type ProcessPaymentRequest struct {
	ReservationID int64 `json:"reservationId" validate:"required" example:"999"`
}

type PaymentResponse struct {
	PaymentID     int64   `json:"paymentId" example:"1"`
	ReservationID int64   `json:"reservationId" example:"999"`
	GuestName     string  `json:"guestName" example:"Ram"`
	Amount        float64 `json:"amount" example:"450"`
	Status        string  `json:"status" example:"SUCCESS"`
	Message       string  `json:"message" example:"Payment processed by MANAGER manager@hotel.com"`
	CreatedAt     string  `json:"createdAt"`
}

func toPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.ID,
		ReservationID: p.ReservationID,
		GuestName:     p.GuestName,
		Amount:        p.Amount,
		Status:        string(p.Status),
		Message:       fmt.Sprintf("Payment processed by %s", p.ProcessedBy),
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

// Process godoc
// @Summary 決済を実行
// @Description 予約を照合したうえで決済を記録します。成功済みの予約に対しては409を返します
// @Tags payments
// @Accept json
// @Produce json
// @Param X-User-Email header string true "スタッフのメールアドレス"
// @Param X-User-Role header string true "スタッフのロール"
// @Param request body ProcessPaymentRequest true "決済情報"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "予約が存在しない"
// @Failure 409 {object} map[string]string "決済済み"
// @Failure 502 {object} map[string]string "予約サービスへの照会失敗"
// @Router /payment/process [post]
func (h *PaymentHandler) Process(c echo.Context) error {
	var req ProcessPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity := payment.Identity{
		Role:          c.Request().Header.Get("X-User-Role"),
		Email:         c.Request().Header.Get("X-User-Email"),
		Authorization: c.Request().Header.Get("Authorization"),
	}

	p, err := h.service.ProcessPayment(c.Request().Context(), req.ReservationID, identity)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrReservationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, payment.ErrPaymentAlreadyProcessed):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, payment.ErrVerificationFailed):
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// GetByID godoc
// @Summary 決済を取得
// @Description 指定IDの決済記録を取得します
// @Tags payments
// @Produce json
// @Param id path int true "決済ID"
// @Success 200 {object} PaymentResponse
// @Failure 404 {object} map[string]string
// @Router /payment/{id} [get]
func (h *PaymentHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "決済IDが不正です")
	}
	p, err := h.service.GetPayment(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// List godoc
// @Summary 決済一覧を取得
// @Description 全決済記録の一覧を取得します
// @Tags payments
// @Produce json
// @Success 200 {array} PaymentResponse
// @Router /payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	payments, err := h.service.ListPayments(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toPaymentResponse(p)
	}
	return c.JSON(http.StatusOK, resp)
}
