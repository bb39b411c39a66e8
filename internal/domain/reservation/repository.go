package reservation

import (
	"context"
	"time"

	"github.com/sanosuguru/go-stay-booking/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// InsertIfAvailable は空室判定と予約作成を単一の原子的操作として行う
	// 同一物件の有効な予約と期間が重なる場合は ErrDatesNotAvailable を返す
	InsertIfAvailable(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// UpdateStatus は状態が from のままである場合に限り to へ更新する
	// 並行する遷移が先に確定していた場合は ErrStatusConflict を返す
	UpdateStatus(ctx context.Context, tx transaction.Tx, id string, from, to Status, updatedAt time.Time) error

	// ListByGuest はゲストの予約一覧をチェックイン日降順で取得する
	ListByGuest(ctx context.Context, guestID string) ([]*Reservation, error)

	// ListByProperty は物件の予約一覧をチェックイン日降順で取得する
	ListByProperty(ctx context.Context, propertyID string) ([]*Reservation, error)

	// ListByPropertyAndStatuses は指定状態の予約一覧を取得する
	ListByPropertyAndStatuses(ctx context.Context, propertyID string, statuses []Status) ([]*Reservation, error)

	// IsAvailable は候補期間が有効な予約と重ならないかを判定する（事前チェック用）
	// 最終的な空室保証は InsertIfAvailable が担う
	IsAvailable(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (bool, error)

	// CompleteElapsed はチェックアウト日が today 以前の確定済み予約を完了にする
	CompleteElapsed(ctx context.Context, today time.Time) (int, error)
}
