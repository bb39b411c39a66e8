package reservation

import "errors"

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound         = errors.New("予約が見つかりません")
	ErrInvalidDateFormat           = errors.New("日付の形式が不正です（YYYY-MM-DD が必要です）")
	ErrCheckOutNotAfterCheckIn     = errors.New("チェックアウト日はチェックイン日より後である必要があります")
	ErrCheckInInPast               = errors.New("チェックイン日を過去にすることはできません")
	ErrStayTooShort                = errors.New("最低1泊の宿泊が必要です")
	ErrDatesNotAvailable           = errors.New("指定期間は予約できません")
	ErrReservationNotPending       = errors.New("保留中の予約のみ確定できます")
	ErrReservationAlreadyCancelled = errors.New("予約は既にキャンセルされています")
	ErrReservationCompleted        = errors.New("完了した予約はキャンセルできません")
	ErrReservationNotConfirmed     = errors.New("確定済みの予約のみ完了にできます")
	ErrStayNotFinished             = errors.New("チェックアウト日をまだ過ぎていません")
	ErrCancellationTooLate         = errors.New("キャンセルはチェックインの24時間前までに行う必要があります")
	ErrStatusConflict              = errors.New("予約状態が並行して変更されました")
	ErrBookingConflict             = errors.New("並行する予約に先を越されました")
	ErrNotReservationGuest         = errors.New("自分の予約のみキャンセルできます")
	ErrGuestIDRequired             = errors.New("ゲストIDは必須です")
	ErrPropertyIDRequired          = errors.New("物件IDは必須です")
	ErrCheckInRequired             = errors.New("チェックイン日は必須です")
	ErrCheckOutRequired            = errors.New("チェックアウト日は必須です")
	ErrNegativePrice               = errors.New("料金を負の値にすることはできません")
)
