package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/reservation"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/room"
	redisinfra "github.com/sudhanshukawade1/Hotel-management/internal/infrastructure/redis"
	"github.com/sudhanshukawade1/Hotel-management/internal/pkg/logger"
)

type RoomService struct {
	roomRepo        room.Repository
	reservationRepo reservation.Repository
	cache           *redisinfra.AvailabilityCache
}

func NewRoomService(rr room.Repository, resr reservation.Repository, cache *redisinfra.AvailabilityCache) *RoomService {
	return &RoomService{roomRepo: rr, reservationRepo: resr, cache: cache}
}

type CreateRoomInput struct {
	RoomNumber    string
	Type          string
	PricePerNight float64
}

func (s *RoomService) CreateRoom(ctx context.Context, input CreateRoomInput) (*room.Room, error) {
	rm := room.NewRoom(input.RoomNumber, input.Type, input.PricePerNight)
	if err := rm.Validate(); err != nil {
		return nil, err
	}

	// 先行チェックは高速パス。本当の防波堤は一意制約
	exists, err := s.roomRepo.ExistsByRoomNumber(ctx, input.RoomNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, room.ErrDuplicateRoomNumber
	}

	if err := s.roomRepo.Create(ctx, rm); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	logger.Info("客室を作成しました",
		zap.Int64("room_id", rm.ID),
		zap.String("room_number", rm.RoomNumber),
	)
	return rm, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id int64) (*room.Room, error) {
	return s.roomRepo.GetByID(ctx, id)
}

func (s *RoomService) ListRooms(ctx context.Context) ([]*room.Room, error) {
	return s.roomRepo.GetAll(ctx)
}

type UpdateRoomInput struct {
	ID            int64
	RoomNumber    string
	Type          string
	PricePerNight float64
	IsAvailable   bool
}

func (s *RoomService) UpdateRoom(ctx context.Context, input UpdateRoomInput) (*room.Room, error) {
	rm, err := s.roomRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	// 部屋番号を変更する場合のみ重複を確認する（自分自身は除外）
	if rm.RoomNumber != input.RoomNumber {
		exists, err := s.roomRepo.ExistsByRoomNumber(ctx, input.RoomNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, room.ErrDuplicateRoomNumber
		}
	}

	rm.RoomNumber = input.RoomNumber
	rm.Type = input.Type
	rm.PricePerNight = input.PricePerNight
	rm.IsAvailable = input.IsAvailable
	if err := rm.Validate(); err != nil {
		return nil, err
	}

	if err := s.roomRepo.Update(ctx, rm); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	logger.Info("客室を更新しました", zap.Int64("room_id", rm.ID))
	return rm, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, id int64) error {
	if _, err := s.roomRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.reservationRepo.CountByRoomID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return room.ErrRoomHasReservations
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	logger.Info("客室を削除しました", zap.Int64("room_id", id))
	return nil
}

func (s *RoomService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}
