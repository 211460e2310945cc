package handler

import (
	"context"

	"github.com/sudhanshukawade1/Hotel-management/internal/application"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/payment"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/reservation"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/room"
)

// RoomServiceInterface は客室サービスのインターフェース
type RoomServiceInterface interface {
	CreateRoom(ctx context.Context, input application.CreateRoomInput) (*room.Room, error)
	GetRoom(ctx context.Context, id int64) (*room.Room, error)
	ListRooms(ctx context.Context) ([]*room.Room, error)
	UpdateRoom(ctx context.Context, input application.UpdateRoomInput) (*room.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
}

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	FindAvailableRooms(ctx context.Context, stay reservation.StayRange) ([]*room.Room, error)
	CreateBooking(ctx context.Context, input application.CreateBookingInput) (*application.BookingResult, error)
	GetReservation(ctx context.Context, id int64) (*reservation.Reservation, error)
	GetReservationWithRoom(ctx context.Context, id int64) (*reservation.Reservation, *room.Room, error)
	ListReservations(ctx context.Context) ([]*reservation.Reservation, error)
	UpdateReservation(ctx context.Context, input application.UpdateReservationInput) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, id int64) error
}

// PaymentServiceInterface は決済サービスのインターフェース
type PaymentServiceInterface interface {
	ProcessPayment(ctx context.Context, reservationID int64, identity payment.Identity) (*payment.Payment, error)
	GetPayment(ctx context.Context, id int64) (*payment.Payment, error)
	ListPayments(ctx context.Context) ([]*payment.Payment, error)
}
