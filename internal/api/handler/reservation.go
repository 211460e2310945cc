package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudhanshukawade1/Hotel-management/internal/application"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/reservation"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/room"
)

// 日付はチェックイン・チェックアウトともに日単位で扱う
const dateLayout = "2006-01-02"

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type BookReservationRequest struct {
	RoomID     int64  `json:"roomId" validate:"required" example:"1"`
	GuestName  string `json:"guestName" validate:"required" example:"Ram"`
	GuestEmail string `json:"guestEmail" validate:"required,email" example:"ram@example.com"`
	CheckIn    string `json:"checkInDate" validate:"required" example:"2025-01-05"`
	CheckOut   string `json:"checkOutDate" validate:"required" example:"2025-01-08"`
}

type UpdateReservationRequest struct {
	RoomID     int64  `json:"roomId" validate:"required" example:"1"`
	GuestName  string `json:"guestName" validate:"required" example:"Ram"`
	GuestEmail string `json:"guestEmail" validate:"required,email" example:"ram@example.com"`
	CheckIn    string `json:"checkInDate" validate:"required" example:"2025-01-05"`
	CheckOut   string `json:"checkOutDate" validate:"required" example:"2025-01-08"`
}

type ReservationResponse struct {
	ID         int64  `json:"id" example:"1"`
	GuestName  string `json:"guestName" example:"Ram"`
	GuestEmail string `json:"guestEmail" example:"ram@example.com"`
	RoomID     int64  `json:"roomId" example:"1"`
	CheckIn    string `json:"checkInDate" example:"2025-01-05"`
	CheckOut   string `json:"checkOutDate" example:"2025-01-08"`
	Status     string `json:"status" example:"CONFIRMED"`
	CreatedAt  string `json:"createdAt"`
}

type BookingResponse struct {
	ReservationResponse
	RoomNumber string  `json:"roomNumber" example:"101"`
	TotalPrice float64 `json:"totalPrice" example:"450"`
	Message    string  `json:"message" example:"Room booked by MANAGER manager@hotel.com"`
}

// ReservationDetailsResponse は決済サービス向けの予約詳細
// price には宿泊数を掛けた合計金額を単一フィールドで返す
type ReservationDetailsResponse struct {
	GuestName  string  `json:"guestName" example:"Ram"`
	RoomNumber string  `json:"roomNumber" example:"101"`
	Price      float64 `json:"price" example:"450"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:         r.ID,
		GuestName:  r.GuestName,
		GuestEmail: r.GuestEmail,
		RoomID:     r.RoomID,
		CheckIn:    r.Stay.CheckIn.Format(dateLayout),
		CheckOut:   r.Stay.CheckOut.Format(dateLayout),
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

// FindAvailable godoc
// @Summary 空室を検索
// @Description 指定期間に予約が重ならない客室の一覧を返します
// @Tags reservations
// @Produce json
// @Param checkInDate query string true "チェックイン日" example("2025-01-05")
// @Param checkOutDate query string true "チェックアウト日" example("2025-01-08")
// @Success 200 {array} RoomResponse
// @Failure 400 {object} map[string]string
// @Router /public/rooms/available [get]
func (h *ReservationHandler) FindAvailable(c echo.Context) error {
	checkIn, err := time.Parse(dateLayout, c.QueryParam("checkInDate"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "チェックイン日の形式が不正です")
	}
	checkOut, err := time.Parse(dateLayout, c.QueryParam("checkOutDate"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "チェックアウト日の形式が不正です")
	}

	stay := reservation.NewStayRange(checkIn, checkOut)
	rooms, err := h.service.FindAvailableRooms(c.Request().Context(), stay)
	if err != nil {
		if errors.Is(err, reservation.ErrInvalidStayRange) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]*RoomResponse, len(rooms))
	for i, rm := range rooms {
		resp[i] = toRoomResponse(rm)
	}
	return c.JSON(http.StatusOK, resp)
}

// Book godoc
// @Summary 予約を作成
// @Description 客室を予約します。期間が重なる予約が既にある場合は409を返します
// @Tags reservations
// @Accept json
// @Produce json
// @Param X-User-Email header string true "スタッフのメールアドレス"
// @Param X-User-Role header string true "スタッフのロール"
// @Param request body BookReservationRequest true "予約情報"
// @Success 201 {object} BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "期間が重なる予約が存在"
// @Router /reservation/book [post]
func (h *ReservationHandler) Book(c echo.Context) error {
	var req BookReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "チェックイン日の形式が不正です")
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "チェックアウト日の形式が不正です")
	}

	staffEmail := c.Request().Header.Get("X-User-Email")
	staffRole := c.Request().Header.Get("X-User-Role")

	result, err := h.service.CreateBooking(c.Request().Context(), application.CreateBookingInput{
		RoomID:     req.RoomID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		StaffEmail: staffEmail,
		StaffRole:  staffRole,
	})
	if err != nil {
		switch {
		case errors.Is(err, room.ErrRoomNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, reservation.ErrRoomAlreadyBooked):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, reservation.ErrInvalidStayRange),
			errors.Is(err, reservation.ErrGuestNameRequired),
			errors.Is(err, reservation.ErrGuestEmailRequired),
			errors.Is(err, reservation.ErrRoomIDRequired):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, BookingResponse{
		ReservationResponse: toReservationResponse(result.Reservation),
		RoomNumber:          result.Room.RoomNumber,
		TotalPrice:          result.TotalPrice,
		Message:             fmt.Sprintf("Room booked by %s %s", staffRole, staffEmail),
	})
}

// GetByID godoc
// @Summary 予約を取得
// @Description 指定IDの予約を取得します
// @Tags reservations
// @Produce json
// @Param id path int true "予約ID"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} map[string]string
// @Router /reservation/{id} [get]
func (h *ReservationHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "予約IDが不正です")
	}
	r, err := h.service.GetReservation(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// GetDetails godoc
// @Summary 予約詳細を取得
// @Description 決済サービス向けに宿泊者名・部屋番号・合計金額を返します
// @Tags reservations
// @Produce json
// @Param id path int true "予約ID"
// @Success 200 {object} ReservationDetailsResponse
// @Failure 404 {object} map[string]string
// @Router /reservation/details/{id} [get]
func (h *ReservationHandler) GetDetails(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "予約IDが不正です")
	}
	r, rm, err := h.service.GetReservationWithRoom(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ReservationDetailsResponse{
		GuestName:  r.GuestName,
		RoomNumber: rm.RoomNumber,
		Price:      r.TotalPrice(rm.PricePerNight),
	})
}

// List godoc
// @Summary 予約一覧を取得
// @Description 全予約の一覧を取得します
// @Tags reservations
// @Produce json
// @Success 200 {array} ReservationResponse
// @Router /reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	reservations, err := h.service.ListReservations(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]ReservationResponse, len(reservations))
	for i, r := range reservations {
		resp[i] = toReservationResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary 予約を更新
// @Description 指定IDの予約を更新します。期間が重なる場合は409を返します
// @Tags reservations
// @Accept json
// @Produce json
// @Param id path int true "予約ID"
// @Param request body UpdateReservationRequest true "予約情報"
// @Success 200 {object} ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reservation/{id} [put]
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "予約IDが不正です")
	}
	var req UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "チェックイン日の形式が不正です")
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "チェックアウト日の形式が不正です")
	}

	r, err := h.service.UpdateReservation(c.Request().Context(), application.UpdateReservationInput{
		ID:         id,
		RoomID:     req.RoomID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	})
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrReservationNotFound), errors.Is(err, room.ErrRoomNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, reservation.ErrRoomAlreadyBooked):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// Cancel godoc
// @Summary 予約をキャンセル
// @Description 予約を削除し、客室の空室フラグを戻します
// @Tags reservations
// @Param id path int true "予約ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /reservation/{id} [delete]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "予約IDが不正です")
	}
	if err := h.service.CancelReservation(c.Request().Context(), id); err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
