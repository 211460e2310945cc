package room

import (
	"context"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/transaction"
)

// Repository は客室リポジトリのインターフェース
type Repository interface {
	// Create は新しい客室を作成する
	Create(ctx context.Context, r *Room) error

	// GetByID はIDから客室を取得する
	GetByID(ctx context.Context, id int64) (*Room, error)

	// GetAll は全客室を取得する
	GetAll(ctx context.Context) ([]*Room, error)

	// ExistsByRoomNumber は部屋番号の重複を確認する
	ExistsByRoomNumber(ctx context.Context, roomNumber string) (bool, error)

	// Update は客室を更新する
	Update(ctx context.Context, r *Room) error

	// Delete は客室を削除する
	Delete(ctx context.Context, id int64) error

	// SetAvailability は空室フラグを更新する（予約変更と同一トランザクション必須）
	SetAvailability(ctx context.Context, tx transaction.Tx, roomID int64, available bool) error
}
