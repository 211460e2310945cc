package room

import "time"

// Room は客室エンティティを表す
// IsAvailable は「重なり期間のアクティブな予約が存在しない」の派生キャッシュであり、
// 予約の作成・更新・削除フローが同一トランザクション内で更新する
type Room struct {
	ID            int64
	RoomNumber    string
	Type          string
	PricePerNight float64
	IsAvailable   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewRoom は新しい客室を作成する（作成直後は空室）
func NewRoom(roomNumber, roomType string, pricePerNight float64) *Room {
	now := time.Now()
	return &Room{
		RoomNumber:    roomNumber,
		Type:          roomType,
		PricePerNight: pricePerNight,
		IsAvailable:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate は客室の検証を行う
func (r *Room) Validate() error {
	if r.RoomNumber == "" {
		return ErrRoomNumberRequired
	}
	if r.Type == "" {
		return ErrRoomTypeRequired
	}
	if r.PricePerNight <= 0 {
		return ErrInvalidPrice
	}
	return nil
}
