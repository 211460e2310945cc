package room

import "errors"

// Room ドメインのエラー定義
var (
	ErrRoomNotFound        = errors.New("部屋が見つかりません")
	ErrDuplicateRoomNumber = errors.New("同じ部屋番号が既に存在します")
	ErrRoomHasReservations = errors.New("アクティブな予約がある部屋は削除できません")
	ErrRoomNumberRequired  = errors.New("部屋番号は必須です")
	ErrRoomTypeRequired    = errors.New("部屋タイプは必須です")
	ErrInvalidPrice        = errors.New("1泊あたりの料金は正の値である必要があります")
)
