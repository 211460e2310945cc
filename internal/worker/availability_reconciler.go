package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sudhanshukawade1/Hotel-management/internal/pkg/logger"
)

// AvailabilityReconcilerService は空室フラグを再計算するインターフェース
type AvailabilityReconcilerService interface {
	ReconcileAvailability(ctx context.Context) (int, error)
}

// AvailabilityReconciler は空室フラグのずれを定期的に補正するワーカー
type AvailabilityReconciler struct {
	reservationService AvailabilityReconcilerService
	interval           time.Duration
	stopCh             chan struct{}
	doneCh             chan struct{}
}

// NewAvailabilityReconciler は新しいワーカーを作成
func NewAvailabilityReconciler(rs AvailabilityReconcilerService, interval time.Duration) *AvailabilityReconciler {
	return &AvailabilityReconciler{
		reservationService: rs,
		interval:           interval,
		stopCh:             make(chan struct{}),
		doneCh:             make(chan struct{}),
	}
}

// Start はワーカーを開始
func (r *AvailabilityReconciler) Start(ctx context.Context) {
	logger.Info("空室フラグ補正ワーカー開始",
		zap.Duration("interval", r.interval),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("空室フラグ補正ワーカー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("空室フラグ補正ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// Stop はワーカーを停止
func (r *AvailabilityReconciler) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

// reconcile は空室フラグを予約の実態に合わせる
func (r *AvailabilityReconciler) reconcile(ctx context.Context) {
	log := logger.Get()
	log.Debug("空室フラグの補正開始")

	count, err := r.reservationService.ReconcileAvailability(ctx)
	if err != nil {
		log.Error("空室フラグの補正失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("空室フラグを補正", zap.Int("count", count))
	} else {
		log.Debug("空室フラグのずれなし")
	}
}
