package property

import "errors"

// Property ドメインのエラー定義
var (
	ErrPropertyNotFound       = errors.New("物件が見つかりません")
	ErrOwnerIDRequired        = errors.New("オーナーIDは必須です")
	ErrTitleRequired          = errors.New("物件名は必須です")
	ErrInvalidNightlyRate     = errors.New("1泊料金は1以上である必要があります")
	ErrPropertyNotBookable    = errors.New("この物件は現在予約を受け付けていません")
	ErrNotPropertyOwner       = errors.New("物件のオーナーのみ実行できる操作です")
	ErrOptimisticLockConflict = errors.New("物件が並行して更新されました")
)
