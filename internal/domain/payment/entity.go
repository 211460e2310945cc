package payment

import "time"

// Status は決済の状態を表す
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Payment は決済エンティティを表す
// 行は作成後に更新されない。失敗した試行と後続の成功はそれぞれ別の行として残る
type Payment struct {
	ID            int64
	ReservationID int64
	GuestName     string
	Amount        float64
	Status        Status
	ProcessedBy   string
	CreatedAt     time.Time
}

// NewSuccess は成功した決済を作成する
func NewSuccess(reservationID int64, guestName string, amount float64, processedBy string) *Payment {
	return &Payment{
		ReservationID: reservationID,
		GuestName:     guestName,
		Amount:        amount,
		Status:        StatusSuccess,
		ProcessedBy:   processedBy,
		CreatedAt:     time.Now(),
	}
}

// NewFailed は失敗した試行の記録を作成する
// 金額ゼロ・宿泊者名 "Unknown" の監査用レコードになる
func NewFailed(reservationID int64, processedBy string) *Payment {
	return &Payment{
		ReservationID: reservationID,
		GuestName:     "Unknown",
		Amount:        0,
		Status:        StatusFailed,
		ProcessedBy:   processedBy,
		CreatedAt:     time.Now(),
	}
}
