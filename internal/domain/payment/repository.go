package payment

import "context"

// Repository は決済リポジトリのインターフェース
type Repository interface {
	// Create は決済行を作成する
	// 同一予約の SUCCESS 行が既に存在する場合は ErrPaymentAlreadyProcessed が返る
	// （部分一意インデックスによる検出。事前チェックはあくまで最適化）
	Create(ctx context.Context, p *Payment) error

	// GetByID はIDから決済を取得する
	GetByID(ctx context.Context, id int64) (*Payment, error)

	// GetAll は全決済を取得する
	GetAll(ctx context.Context) ([]*Payment, error)

	// FindSuccessByReservationID は予約IDの成功済み決済を取得する
	FindSuccessByReservationID(ctx context.Context, reservationID int64) (*Payment, error)
}
