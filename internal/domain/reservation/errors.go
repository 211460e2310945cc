package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound = errors.New("予約が見つかりません")
	ErrRoomAlreadyBooked   = errors.New("指定期間にその部屋は既に予約されています")
	ErrGuestNameRequired   = errors.New("宿泊者名は必須です")
	ErrGuestEmailRequired  = errors.New("宿泊者メールアドレスは必須です")
	ErrRoomIDRequired      = errors.New("部屋IDは必須です")
	ErrInvalidStayRange    = errors.New("チェックアウト日はチェックイン日より後である必要があります")
)
