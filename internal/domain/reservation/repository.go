package reservation

import (
	"context"
	"time"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	// 期間重複は排他制約で検出され ErrRoomAlreadyBooked が返る
	Create(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id int64) (*Reservation, error)

	// GetAll は全予約を取得する
	GetAll(ctx context.Context) ([]*Reservation, error)

	// FindOverlapping は指定期間と重なる予約を取得する
	FindOverlapping(ctx context.Context, stay StayRange) ([]*Reservation, error)

	// FindEndingAfter はチェックアウト日が指定日より後の予約を取得する
	// 滞在中および将来の予約、つまり部屋をまだ占有している予約の集合
	FindEndingAfter(ctx context.Context, date time.Time) ([]*Reservation, error)

	// CountByRoomID は部屋を参照する予約数を返す
	CountByRoomID(ctx context.Context, roomID int64) (int, error)

	// Update は予約を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// Delete は予約を削除する（トランザクション必須）
	Delete(ctx context.Context, tx transaction.Tx, id int64) error
}
