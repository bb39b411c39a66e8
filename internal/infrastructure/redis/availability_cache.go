package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// BookedRange は予約済みの滞在期間（半開区間）を表すキャッシュ項目
type BookedRange struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Status   string `json:"status"`
}

// AvailabilityCache は物件ごとの有効な予約期間のキャッシュを管理する
// 予約の作成・状態遷移のたびに無効化される（真実は常にDBの排他制約側）
type AvailabilityCache struct {
	client *redis.Client
}

// NewAvailabilityCache は新しいAvailabilityCacheインスタンスを作成する
func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	return &AvailabilityCache{client: client}
}

// GetActiveRanges は物件の有効な予約期間をキャッシュから取得する
func (c *AvailabilityCache) GetActiveRanges(ctx context.Context, propertyID string) ([]BookedRange, error) {
	val, err := c.client.Get(ctx, c.key(propertyID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var ranges []BookedRange
	if err := json.Unmarshal([]byte(val), &ranges); err != nil {
		return nil, fmt.Errorf("キャッシュのデコードに失敗: %w", err)
	}
	return ranges, nil
}

// SetActiveRanges は物件の有効な予約期間をキャッシュに保存する
func (c *AvailabilityCache) SetActiveRanges(ctx context.Context, propertyID string, ranges []BookedRange, ttl time.Duration) error {
	data, err := json.Marshal(ranges)
	if err != nil {
		return fmt.Errorf("キャッシュのエンコードに失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.key(propertyID), data, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は物件のキャッシュを削除する
func (c *AvailabilityCache) Invalidate(ctx context.Context, propertyID string) error {
	if err := c.client.Del(ctx, c.key(propertyID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ削除に失敗: %w", err)
	}
	return nil
}

func (c *AvailabilityCache) key(propertyID string) string {
	return "availability:" + propertyID
}
