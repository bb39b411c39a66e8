package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-stay-booking/internal/pkg/logger"
)

// StayCompleter はチェックアウト日を過ぎた確定済み予約を完了にするインターフェース
type StayCompleter interface {
	CompleteElapsedStays(ctx context.Context) (int, error)
}

// StayCompletionWorker は滞在完了処理を定期実行するワーカー
// 予約が completed へ遷移する唯一の経路
type StayCompletionWorker struct {
	reservationService StayCompleter
	interval           time.Duration
	stopCh             chan struct{}
	doneCh             chan struct{}
}

// NewStayCompletionWorker は新しいワーカーを作成
func NewStayCompletionWorker(rs StayCompleter, interval time.Duration) *StayCompletionWorker {
	return &StayCompletionWorker{
		reservationService: rs,
		interval:           interval,
		stopCh:             make(chan struct{}),
		doneCh:             make(chan struct{}),
	}
}

// Start はワーカーを開始
func (w *StayCompletionWorker) Start(ctx context.Context) {
	logger.Info("滞在完了ワーカー開始", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.doneCh)

	// 起動直後にも一度実行し、停止中に溜まった分を処理する
	w.complete(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("滞在完了ワーカー停止（コンテキストキャンセル）")
			return
		case <-w.stopCh:
			logger.Info("滞在完了ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			w.complete(ctx)
		}
	}
}

// Stop はワーカーを停止
func (w *StayCompletionWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

// complete はチェックアウト日を過ぎた確定済み予約を完了にする
func (w *StayCompletionWorker) complete(ctx context.Context) {
	log := logger.Get()
	log.Debug("滞在完了処理開始")

	count, err := w.reservationService.CompleteElapsedStays(ctx)
	if err != nil {
		log.Error("滞在完了処理に失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("滞在を完了に更新", zap.Int("count", count))
	} else {
		log.Debug("完了対象の滞在なし")
	}
}
