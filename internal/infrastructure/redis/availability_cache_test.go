package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityCache(t *testing.T) {
	client, err := NewClient(&Config{Host: "localhost", Port: "6379"})
	if err != nil {
		t.Skip("Redis not available")
	}
	defer client.Close()

	ctx := context.Background()
	cache := NewAvailabilityCache(client)

	t.Run("未キャッシュの物件はキャッシュミス", func(t *testing.T) {
		_, err := cache.GetActiveRanges(ctx, "prop-cache-miss")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("保存した予約期間を取得できる", func(t *testing.T) {
		ranges := []BookedRange{
			{CheckIn: "2024-06-01", CheckOut: "2024-06-05", Status: "confirmed"},
			{CheckIn: "2024-06-10", CheckOut: "2024-06-12", Status: "pending"},
		}
		require.NoError(t, cache.SetActiveRanges(ctx, "prop-cache-1", ranges, time.Minute))

		got, err := cache.GetActiveRanges(ctx, "prop-cache-1")
		require.NoError(t, err)
		assert.Equal(t, ranges, got)
	})

	t.Run("空の期間リストもキャッシュできる", func(t *testing.T) {
		require.NoError(t, cache.SetActiveRanges(ctx, "prop-cache-2", []BookedRange{}, time.Minute))

		got, err := cache.GetActiveRanges(ctx, "prop-cache-2")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("無効化後はキャッシュミスになる", func(t *testing.T) {
		ranges := []BookedRange{{CheckIn: "2024-06-01", CheckOut: "2024-06-05", Status: "pending"}}
		require.NoError(t, cache.SetActiveRanges(ctx, "prop-cache-3", ranges, time.Minute))

		require.NoError(t, cache.Invalidate(ctx, "prop-cache-3"))

		_, err := cache.GetActiveRanges(ctx, "prop-cache-3")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
