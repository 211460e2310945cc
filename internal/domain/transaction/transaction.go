package transaction

import "context"

// Tx はトランザクションを表すインターフェース
// 予約の挿入・削除と空室フラグの更新は常に同じトランザクションで行う。
// ドメイン層がインフラ層（sqlx等）に依存しないための抽象化
type Tx interface {
	// Commit はトランザクションをコミットする
	Commit() error
	// Rollback はトランザクションをロールバックする
	Rollback() error
}

// Manager はトランザクションを開始するインターフェース
type Manager interface {
	Begin(ctx context.Context) (Tx, error)
}
