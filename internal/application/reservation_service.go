package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/reservation"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/room"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/transaction"
	redisinfra "github.com/sudhanshukawade1/Hotel-management/internal/infrastructure/redis"
	"github.com/sudhanshukawade1/Hotel-management/internal/pkg/logger"
	"github.com/sudhanshukawade1/Hotel-management/internal/pkg/metrics"
)

const (
	availabilityCacheTTL = 60 * time.Second
)

type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	roomRepo        room.Repository
	cache           *redisinfra.AvailabilityCache
	metrics         *metrics.Metrics
	sf              singleflight.Group
}

func NewReservationService(tm transaction.Manager, rr reservation.Repository, roomr room.Repository, cache *redisinfra.AvailabilityCache, m *metrics.Metrics) *ReservationService {
	return &ReservationService{
		txManager:       tm,
		reservationRepo: rr,
		roomRepo:        roomr,
		cache:           cache,
		metrics:         m,
	}
}

// FindAvailableRooms は指定期間に空いている客室を返す
// 重なり判定は半開区間 [checkIn, checkOut) の厳密な比較。泊数ゼロの期間は何も占有しない
// 保存されている全予約を占有扱いにする（状態によるフィルタリングは行わない）
func (s *ReservationService) FindAvailableRooms(ctx context.Context, stay reservation.StayRange) ([]*room.Room, error) {
	if s.cache != nil {
		if rooms, err := s.cache.Get(ctx, stay); err == nil {
			return rooms, nil
		}
	}

	// 同一期間の再計算が殺到してもDBへの問い合わせは1回にまとめる
	key := fmt.Sprintf("%s/%s", stay.CheckIn.Format("2006-01-02"), stay.CheckOut.Format("2006-01-02"))
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.computeAvailableRooms(ctx, stay)
	})
	if err != nil {
		return nil, err
	}
	rooms := v.([]*room.Room)

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, stay, rooms, availabilityCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}
	return rooms, nil
}

func (s *ReservationService) computeAvailableRooms(ctx context.Context, stay reservation.StayRange) ([]*room.Room, error) {
	overlapping, err := s.reservationRepo.FindOverlapping(ctx, stay)
	if err != nil {
		return nil, fmt.Errorf("重複予約検索に失敗: %w", err)
	}
	bookedRoomIDs := make(map[int64]struct{}, len(overlapping))
	for _, res := range overlapping {
		bookedRoomIDs[res.RoomID] = struct{}{}
	}

	allRooms, err := s.roomRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("客室取得に失敗: %w", err)
	}

	available := make([]*room.Room, 0, len(allRooms))
	for _, rm := range allRooms {
		if _, booked := bookedRoomIDs[rm.ID]; !booked {
			available = append(available, rm)
		}
	}
	return available, nil
}

type CreateBookingInput struct {
	RoomID     int64
	GuestName  string
	GuestEmail string
	CheckIn    time.Time
	CheckOut   time.Time
	StaffEmail string
	StaffRole  string
}

// BookingResult は予約作成の結果
type BookingResult struct {
	Reservation *reservation.Reservation
	Room        *room.Room
	TotalPrice  float64
}

// CreateBooking は予約を作成し、同一トランザクションで空室フラグを落とす
// 事前の重複チェックは高速パスに過ぎず、同時リクエストの競合は
// reservations_no_overlap 排他制約が確実に検出する
func (s *ReservationService) CreateBooking(ctx context.Context, input CreateBookingInput) (*BookingResult, error) {
	rm, err := s.roomRepo.GetByID(ctx, input.RoomID)
	if err != nil {
		s.countBooking("error")
		return nil, err
	}

	stay := reservation.NewStayRange(input.CheckIn, input.CheckOut)
	res := reservation.NewReservation(input.GuestName, input.GuestEmail, input.RoomID, stay)
	if err := res.Validate(); err != nil {
		s.countBooking("invalid")
		return nil, err
	}

	overlapping, err := s.reservationRepo.FindOverlapping(ctx, stay)
	if err != nil {
		s.countBooking("error")
		return nil, err
	}
	for _, existing := range overlapping {
		if existing.RoomID == input.RoomID {
			s.countBooking("conflict")
			return nil, reservation.ErrRoomAlreadyBooked
		}
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		s.countBooking("error")
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
		if errors.Is(err, reservation.ErrRoomAlreadyBooked) {
			s.countBooking("conflict")
		} else {
			s.countBooking("error")
		}
		return nil, err
	}
	if err := s.roomRepo.SetAvailability(ctx, tx, input.RoomID, false); err != nil {
		s.countBooking("error")
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		s.countBooking("error")
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCache(ctx)
	s.countBooking("success")
	logger.Info("予約を作成しました",
		zap.Int64("reservation_id", res.ID),
		zap.Int64("room_id", input.RoomID),
		zap.String("booked_by", input.StaffRole+" "+input.StaffEmail),
	)

	return &BookingResult{
		Reservation: res,
		Room:        rm,
		TotalPrice:  res.TotalPrice(rm.PricePerNight),
	}, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id int64) (*reservation.Reservation, error) {
	return s.reservationRepo.GetByID(ctx, id)
}

// GetReservationWithRoom は予約と参照先の客室をまとめて取得する
// 決済サービス向けの予約詳細ルックアップで使用する
func (s *ReservationService) GetReservationWithRoom(ctx context.Context, id int64) (*reservation.Reservation, *room.Room, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rm, err := s.roomRepo.GetByID(ctx, res.RoomID)
	if err != nil {
		return nil, nil, err
	}
	return res, rm, nil
}

func (s *ReservationService) ListReservations(ctx context.Context) ([]*reservation.Reservation, error) {
	return s.reservationRepo.GetAll(ctx)
}

type UpdateReservationInput struct {
	ID         int64
	RoomID     int64
	GuestName  string
	GuestEmail string
	CheckIn    time.Time
	CheckOut   time.Time
}

// UpdateReservation は予約内容を更新する
// 部屋または期間が変わる場合のみ重複を再確認し、部屋が変わる場合は
// 新旧両方の空室フラグを同一トランザクションで付け替える
func (s *ReservationService) UpdateReservation(ctx context.Context, input UpdateReservationInput) (*reservation.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if _, err := s.roomRepo.GetByID(ctx, input.RoomID); err != nil {
		return nil, err
	}

	stay := reservation.NewStayRange(input.CheckIn, input.CheckOut)
	roomChanged := res.RoomID != input.RoomID
	stayChanged := !res.Stay.CheckIn.Equal(stay.CheckIn) || !res.Stay.CheckOut.Equal(stay.CheckOut)

	if roomChanged || stayChanged {
		overlapping, err := s.reservationRepo.FindOverlapping(ctx, stay)
		if err != nil {
			return nil, err
		}
		for _, existing := range overlapping {
			if existing.RoomID == input.RoomID && existing.ID != input.ID {
				return nil, reservation.ErrRoomAlreadyBooked
			}
		}
	}

	oldRoomID := res.RoomID
	res.GuestName = input.GuestName
	res.GuestEmail = input.GuestEmail
	res.RoomID = input.RoomID
	res.Stay = stay
	if err := res.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Update(ctx, tx, res); err != nil {
		return nil, err
	}
	if roomChanged {
		if err := s.roomRepo.SetAvailability(ctx, tx, oldRoomID, true); err != nil {
			return nil, err
		}
		if err := s.roomRepo.SetAvailability(ctx, tx, input.RoomID, false); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCache(ctx)
	logger.Info("予約を更新しました", zap.Int64("reservation_id", res.ID))
	return res, nil
}

// CancelReservation は予約を削除し、空室フラグを同一トランザクションで戻す
func (s *ReservationService) CancelReservation(ctx context.Context, id int64) error {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.reservationRepo.Delete(ctx, tx, id); err != nil {
		return err
	}
	if err := s.roomRepo.SetAvailability(ctx, tx, res.RoomID, true); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateCache(ctx)
	logger.Info("予約をキャンセルしました",
		zap.Int64("reservation_id", id),
		zap.Int64("room_id", res.RoomID),
	)
	return nil
}

// ReconcileAvailability は空室フラグを現存する予約から再計算する
// フラグは手続き的に維持される補助情報であり、予約の整合性は排他制約が保証する
// 予約の作成・キャンセルと同じ基準（滞在中・将来の予約が部屋を占有する）で
// 判定する。ずれたフラグの数を返す
func (s *ReservationService) ReconcileAvailability(ctx context.Context) (int, error) {
	occupied, err := s.reservationRepo.FindEndingAfter(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("滞在中・将来予約の検索に失敗: %w", err)
	}
	occupiedRoomIDs := make(map[int64]struct{}, len(occupied))
	for _, res := range occupied {
		occupiedRoomIDs[res.RoomID] = struct{}{}
	}

	rooms, err := s.roomRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("客室取得に失敗: %w", err)
	}

	fixed := 0
	for _, rm := range rooms {
		_, isOccupied := occupiedRoomIDs[rm.ID]
		shouldBeAvailable := !isOccupied
		if rm.IsAvailable == shouldBeAvailable {
			continue
		}

		tx, err := s.txManager.Begin(ctx)
		if err != nil {
			return fixed, fmt.Errorf("トランザクション開始に失敗: %w", err)
		}
		if err := s.roomRepo.SetAvailability(ctx, tx, rm.ID, shouldBeAvailable); err != nil {
			tx.Rollback()
			return fixed, err
		}
		if err := tx.Commit(); err != nil {
			return fixed, fmt.Errorf("コミットに失敗: %w", err)
		}
		fixed++
	}

	if fixed > 0 {
		s.invalidateCache(ctx)
	}
	return fixed, nil
}

func (s *ReservationService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}

func (s *ReservationService) countBooking(status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.BookingsTotal.WithLabelValues(status).Inc()
}
