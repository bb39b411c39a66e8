package property

import "context"

// Repository は物件リポジトリのインターフェース
type Repository interface {
	// Create は新しい物件を作成する
	Create(ctx context.Context, p *Property) error

	// GetByID はIDから物件を取得する
	GetByID(ctx context.Context, id string) (*Property, error)

	// List は物件一覧を作成日降順で取得する
	List(ctx context.Context, limit, offset int) ([]*Property, error)

	// ListByOwner はオーナーの物件一覧を取得する
	ListByOwner(ctx context.Context, ownerID string) ([]*Property, error)

	// Update は物件を楽観的ロック付きで更新する
	// バージョンが一致しない場合は ErrOptimisticLockConflict を返す
	Update(ctx context.Context, p *Property) error
}
