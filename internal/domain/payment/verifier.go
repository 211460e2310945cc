package payment

import "context"

// Identity はゲートウェイから伝搬された操作者の情報
// 資格情報の検証は外部（認証サービス）の責務であり、ここでは信頼して引き回すだけ
type Identity struct {
	Role          string
	Email         string
	Authorization string
}

// Attribution は決済記録に残す操作者表記を返す（例: "RECEPTIONIST tempo@gmail.com"）
func (i Identity) Attribution() string {
	return i.Role + " " + i.Email
}

// ReservationDetails は予約サービスから取得する非正規化スナップショット
// price は唯一の正規フィールドであり、別名や入れ子を消費側で探索してはならない
type ReservationDetails struct {
	GuestName  string
	RoomNumber string
	Price      float64
}

// ReservationVerifier はプロセス境界を越えた予約の読み取り専用ビュー
// リトライ方針を後から差し込めるようインターフェースとして切り出している
type ReservationVerifier interface {
	// GetDetails は予約IDから詳細を取得する
	// 不在は ErrReservationNotFound、通信・形式エラーは ErrVerificationFailed にラップされる
	GetDetails(ctx context.Context, reservationID int64, identity Identity) (*ReservationDetails, error)
}
