package reservation

import "time"

// Status は予約の状態を表す
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
)

// StayRange は半開区間 [CheckIn, CheckOut) の宿泊期間を表す
type StayRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStayRange は宿泊期間を作成する（時刻成分は日付に切り捨て）
func NewStayRange(checkIn, checkOut time.Time) StayRange {
	return StayRange{
		CheckIn:  truncateToDate(checkIn),
		CheckOut: truncateToDate(checkOut),
	}
}

// IsEmpty は泊数ゼロの期間かを返す
func (s StayRange) IsEmpty() bool {
	return !s.CheckIn.Before(s.CheckOut)
}

// Overlaps は2つの半開区間が重なるかを判定する
// チェックアウト日とチェックイン日が同日の場合は重ならない
// 空の区間は何とも重ならない
func (s StayRange) Overlaps(other StayRange) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return false
	}
	return s.CheckIn.Before(other.CheckOut) && s.CheckOut.After(other.CheckIn)
}

// Nights は泊数を返す
func (s StayRange) Nights() int {
	if s.IsEmpty() {
		return 0
	}
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / 24)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Reservation は予約エンティティを表す
type Reservation struct {
	ID         int64
	GuestName  string
	GuestEmail string
	RoomID     int64
	Stay       StayRange
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewReservation は新しい予約を作成する（状態は CONFIRMED）
func NewReservation(guestName, guestEmail string, roomID int64, stay StayRange) *Reservation {
	now := time.Now()
	return &Reservation{
		GuestName:  guestName,
		GuestEmail: guestEmail,
		RoomID:     roomID,
		Stay:       stay,
		Status:     StatusConfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TotalPrice は泊数×単価の合計金額を返す
func (r *Reservation) TotalPrice(pricePerNight float64) float64 {
	return float64(r.Stay.Nights()) * pricePerNight
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.GuestName == "" {
		return ErrGuestNameRequired
	}
	if r.GuestEmail == "" {
		return ErrGuestEmailRequired
	}
	if r.RoomID == 0 {
		return ErrRoomIDRequired
	}
	if r.Stay.IsEmpty() {
		return ErrInvalidStayRange
	}
	return nil
}
