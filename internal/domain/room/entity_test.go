package room

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoom(t *testing.T) {
	r := NewRoom("101", "DELUXE", 100)

	assert.Equal(t, "101", r.RoomNumber)
	assert.Equal(t, "DELUXE", r.Type)
	assert.Equal(t, 100.0, r.PricePerNight)
	assert.True(t, r.IsAvailable, "作成直後は空室")
	require.NoError(t, r.Validate())
}

func TestRoom_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Room)
		wantErr error
	}{
		{"部屋番号なし", func(r *Room) { r.RoomNumber = "" }, ErrRoomNumberRequired},
		{"タイプなし", func(r *Room) { r.Type = "" }, ErrRoomTypeRequired},
		{"料金ゼロ", func(r *Room) { r.PricePerNight = 0 }, ErrInvalidPrice},
		{"料金が負", func(r *Room) { r.PricePerNight = -10 }, ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRoom("101", "DELUXE", 100)
			tt.mutate(r)
			assert.ErrorIs(t, r.Validate(), tt.wantErr)
		})
	}
}
