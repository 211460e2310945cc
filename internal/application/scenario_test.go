//go:build integration
// +build integration

package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/reservation"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/room"
)

// TestScenario_FullBookingFlow は予約業務の完全なフローをテストします
// 客室作成 → 空室検索 → 予約 → 変更 → キャンセル → 空室フラグ確認
func TestScenario_FullBookingFlow(t *testing.T) {
	reservationService, roomService, cleanup := setupTestEnv(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("完全な予約フロー", func(t *testing.T) {
		// 1. 客室を2部屋作成
		deluxe, err := roomService.CreateRoom(ctx, CreateRoomInput{
			RoomNumber: "SC-101", Type: "DELUXE", PricePerNight: 150,
		})
		require.NoError(t, err)

		suite, err := roomService.CreateRoom(ctx, CreateRoomInput{
			RoomNumber: "SC-201", Type: "SUITE", PricePerNight: 300,
		})
		require.NoError(t, err)

		checkIn := time.Now().AddDate(0, 3, 0).Truncate(24 * time.Hour)
		checkOut := checkIn.AddDate(0, 0, 3)

		// 2. 両方の部屋が空室検索に出る
		stay := reservation.NewStayRange(checkIn, checkOut)
		available, err := reservationService.FindAvailableRooms(ctx, stay)
		require.NoError(t, err)
		assert.Len(t, available, 2)

		// 3. デラックスを予約
		result, err := reservationService.CreateBooking(ctx, CreateBookingInput{
			RoomID:     deluxe.ID,
			GuestName:  "Ram",
			GuestEmail: "ram@example.com",
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			StaffEmail: "manager@hotel.com",
			StaffRole:  "MANAGER",
		})
		require.NoError(t, err)
		assert.Equal(t, float64(450), result.TotalPrice)
		assert.Equal(t, reservation.StatusConfirmed, result.Reservation.Status)

		// 4. 予約済みの部屋は空室検索から消える
		available, err = reservationService.FindAvailableRooms(ctx, stay)
		require.NoError(t, err)
		require.Len(t, available, 1)
		assert.Equal(t, suite.ID, available[0].ID)

		// 5. 宿泊者がスイートへの変更を希望
		updated, err := reservationService.UpdateReservation(ctx, UpdateReservationInput{
			ID:         result.Reservation.ID,
			RoomID:     suite.ID,
			GuestName:  "Ram",
			GuestEmail: "ram@example.com",
			CheckIn:    checkIn,
			CheckOut:   checkOut,
		})
		require.NoError(t, err)
		assert.Equal(t, suite.ID, updated.RoomID)

		// 6. 空室フラグが新旧両方の部屋で付け替わっている
		deluxeAfter, err := roomService.GetRoom(ctx, deluxe.ID)
		require.NoError(t, err)
		assert.True(t, deluxeAfter.IsAvailable)

		suiteAfter, err := roomService.GetRoom(ctx, suite.ID)
		require.NoError(t, err)
		assert.False(t, suiteAfter.IsAvailable)

		// 7. 予約詳細を取得（決済サービスが参照する形）
		r, rm, err := reservationService.GetReservationWithRoom(ctx, updated.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ram", r.GuestName)
		assert.Equal(t, "SC-201", rm.RoomNumber)
		assert.Equal(t, float64(900), r.TotalPrice(rm.PricePerNight)) // 3泊 × 300

		// 8. キャンセルで部屋が解放される
		require.NoError(t, reservationService.CancelReservation(ctx, updated.ID))

		_, err = reservationService.GetReservation(ctx, updated.ID)
		assert.True(t, errors.Is(err, reservation.ErrReservationNotFound))

		available, err = reservationService.FindAvailableRooms(ctx, stay)
		require.NoError(t, err)
		assert.Len(t, available, 2)
	})

	t.Run("アクティブな予約がある部屋は削除できない", func(t *testing.T) {
		rm, err := roomService.CreateRoom(ctx, CreateRoomInput{
			RoomNumber: "SC-301", Type: "STANDARD", PricePerNight: 100,
		})
		require.NoError(t, err)

		checkIn := time.Now().AddDate(0, 4, 0).Truncate(24 * time.Hour)
		_, err = reservationService.CreateBooking(ctx, CreateBookingInput{
			RoomID:     rm.ID,
			GuestName:  "Shyam",
			GuestEmail: "shyam@example.com",
			CheckIn:    checkIn,
			CheckOut:   checkIn.AddDate(0, 0, 2),
		})
		require.NoError(t, err)

		err = roomService.DeleteRoom(ctx, rm.ID)
		assert.True(t, errors.Is(err, room.ErrRoomHasReservations))
	})
}
