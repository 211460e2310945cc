package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudhanshukawade1/Hotel-management/internal/application"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/room"
)

type RoomHandler struct {
	roomService RoomServiceInterface
}

func NewRoomHandler(roomService RoomServiceInterface) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

type CreateRoomRequest struct {
	RoomNumber    string  `json:"roomNumber" validate:"required" example:"101"`
	Type          string  `json:"type" validate:"required" example:"DELUXE"`
	PricePerNight float64 `json:"pricePerNight" validate:"required,gt=0" example:"150"`
}

type UpdateRoomRequest struct {
	RoomNumber    string  `json:"roomNumber" validate:"required" example:"101"`
	Type          string  `json:"type" validate:"required" example:"DELUXE"`
	PricePerNight float64 `json:"pricePerNight" validate:"required,gt=0" example:"150"`
	IsAvailable   bool    `json:"isAvailable" example:"true"`
}

type RoomResponse struct {
	ID            int64   `json:"id" example:"1"`
	RoomNumber    string  `json:"roomNumber" example:"101"`
	Type          string  `json:"type" example:"DELUXE"`
	PricePerNight float64 `json:"pricePerNight" example:"150"`
	IsAvailable   bool    `json:"isAvailable" example:"true"`
	CreatedAt     string  `json:"createdAt" example:"2025-01-05T10:00:00+09:00"`
	UpdatedAt     string  `json:"updatedAt" example:"2025-01-05T10:00:00+09:00"`
}

func toRoomResponse(r *room.Room) *RoomResponse {
	return &RoomResponse{
		ID:            r.ID,
		RoomNumber:    r.RoomNumber,
		Type:          r.Type,
		PricePerNight: r.PricePerNight,
		IsAvailable:   r.IsAvailable,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
}

// Create godoc
// @Summary 客室を登録
// @Description 新しい客室を登録します
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body CreateRoomRequest true "客室情報"
// @Success 201 {object} RoomResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "部屋番号が重複"
// @Router /owner/rooms [post]
func (h *RoomHandler) Create(c echo.Context) error {
	var req CreateRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rm, err := h.roomService.CreateRoom(c.Request().Context(), application.CreateRoomInput{
		RoomNumber:    req.RoomNumber,
		Type:          req.Type,
		PricePerNight: req.PricePerNight,
	})
	if err != nil {
		if errors.Is(err, room.ErrDuplicateRoomNumber) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, toRoomResponse(rm))
}

// GetByID godoc
// @Summary 客室を取得
// @Description 指定IDの客室を取得します
// @Tags rooms
// @Produce json
// @Param id path int true "客室ID"
// @Success 200 {object} RoomResponse
// @Failure 404 {object} map[string]string
// @Router /public/rooms/{id} [get]
func (h *RoomHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "客室IDが不正です")
	}
	rm, err := h.roomService.GetRoom(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, toRoomResponse(rm))
}

// List godoc
// @Summary 客室一覧を取得
// @Description 全客室の一覧を取得します
// @Tags rooms
// @Produce json
// @Success 200 {array} RoomResponse
// @Router /public/rooms [get]
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.roomService.ListRooms(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := make([]*RoomResponse, len(rooms))
	for i, rm := range rooms {
		resp[i] = toRoomResponse(rm)
	}
	return c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary 客室を更新
// @Description 指定IDの客室を更新します
// @Tags rooms
// @Accept json
// @Produce json
// @Param id path int true "客室ID"
// @Param request body UpdateRoomRequest true "客室情報"
// @Success 200 {object} RoomResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /owner/rooms/{id} [put]
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "客室IDが不正です")
	}
	var req UpdateRoomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rm, err := h.roomService.UpdateRoom(c.Request().Context(), application.UpdateRoomInput{
		ID:            id,
		RoomNumber:    req.RoomNumber,
		Type:          req.Type,
		PricePerNight: req.PricePerNight,
		IsAvailable:   req.IsAvailable,
	})
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		if errors.Is(err, room.ErrDuplicateRoomNumber) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, toRoomResponse(rm))
}

// Delete godoc
// @Summary 客室を削除
// @Description 指定IDの客室を削除します（予約が残っている場合は拒否）
// @Tags rooms
// @Param id path int true "客室ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "予約が存在する"
// @Router /owner/rooms/{id} [delete]
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "客室IDが不正です")
	}
	if err := h.roomService.DeleteRoom(c.Request().Context(), id); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		if errors.Is(err, room.ErrRoomHasReservations) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
