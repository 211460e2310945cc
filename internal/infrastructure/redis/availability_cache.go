package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/reservation"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/room"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// AvailabilityCache は期間ごとの空室一覧キャッシュを管理する
// 空室の真実は常にデータベース側の予約集合であり、このキャッシュは読み取りの最適化に過ぎない
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// Get は指定期間の空室一覧をキャッシュから取得する
func (c *AvailabilityCache) Get(ctx context.Context, stay reservation.StayRange) ([]*room.Room, error) {
	data, err := c.client.Get(ctx, c.key(stay)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var rooms []*room.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, fmt.Errorf("キャッシュ復元に失敗: %w", err)
	}
	return rooms, nil
}

// Set は指定期間の空室一覧をキャッシュに保存する
func (c *AvailabilityCache) Set(ctx context.Context, stay reservation.StayRange, rooms []*room.Room, ttl time.Duration) error {
	data, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("キャッシュ変換に失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.key(stay), data, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// InvalidateAll は全期間の空室キャッシュを無効化する
// 予約や客室の変更はどの期間の結果にも影響しうるため一括で破棄する
func (c *AvailabilityCache) InvalidateAll(ctx context.Context) error {
	keys, err := c.client.Keys(ctx, "rooms:available:*").Result()
	if err != nil {
		return fmt.Errorf("キャッシュキー取得に失敗: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) key(stay reservation.StayRange) string {
	return fmt.Sprintf("rooms:available:%s:%s",
		stay.CheckIn.Format("2006-01-02"), stay.CheckOut.Format("2006-01-02"))
}
