package payment

import "errors"

// Payment ドメインのエラー定義
var (
	ErrPaymentNotFound         = errors.New("決済が見つかりません")
	ErrPaymentAlreadyProcessed = errors.New("この予約の決済は既に処理されています")
	ErrReservationNotFound     = errors.New("予約が見つかりません。決済を処理できません")
	ErrVerificationFailed      = errors.New("予約を確認できませんでした")
)
