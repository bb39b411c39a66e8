package user

import "errors"

// User ドメインのエラー定義
var (
	ErrUserNotFound     = errors.New("ユーザーが見つかりません")
	ErrUsernameRequired = errors.New("ユーザー名は必須です")
	ErrEmailRequired    = errors.New("メールアドレスは必須です")
	ErrInvalidEmail     = errors.New("メールアドレスの形式が不正です")
	ErrEmailTaken       = errors.New("このメールアドレスは既に登録されています")
)
