package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/payment"
	"github.com/sudhanshukawade1/Hotel-management/internal/pkg/logger"
	"github.com/sudhanshukawade1/Hotel-management/internal/pkg/metrics"
)

type PaymentService struct {
	paymentRepo payment.Repository
	verifier    payment.ReservationVerifier
	metrics     *metrics.Metrics
}

func NewPaymentService(pr payment.Repository, v payment.ReservationVerifier, m *metrics.Metrics) *PaymentService {
	return &PaymentService{paymentRepo: pr, verifier: v, metrics: m}
}

// ProcessPayment は予約に対する決済を処理する
//
// 冪等性は2段構えで保証する。事前の成功済みチェックは高速パスに過ぎず、
// 同時リクエストの競合は payments テーブルの部分一意インデックスが確実に検出する。
// 予約を確認できない限り決済には進まない。確認後の予期しない永続化失敗は
// FAILED 行として必ず記録し、試行を無言で失わせない
func (s *PaymentService) ProcessPayment(ctx context.Context, reservationID int64, identity payment.Identity) (*payment.Payment, error) {
	// 1. プロセス境界を越えて予約を確認する（リトライなしのフェイルファスト）
	details, err := s.verifier.GetDetails(ctx, reservationID, identity)
	if err != nil {
		s.countPayment("verification_failed")
		logger.Error("予約確認に失敗しました",
			zap.Int64("reservation_id", reservationID),
			zap.Error(err),
		)
		return nil, err
	}

	// 2. 成功済み決済の高速パスチェック
	if _, err := s.paymentRepo.FindSuccessByReservationID(ctx, reservationID); err == nil {
		s.countPayment("duplicate")
		return nil, payment.ErrPaymentAlreadyProcessed
	} else if !errors.Is(err, payment.ErrPaymentNotFound) {
		s.countPayment("error")
		return nil, fmt.Errorf("決済確認に失敗: %w", err)
	}

	// 3. 成功行を作成して永続化を試みる
	p := payment.NewSuccess(reservationID, details.GuestName, details.Price, identity.Attribution())
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		if errors.Is(err, payment.ErrPaymentAlreadyProcessed) {
			// 4. 一意インデックス違反＝高速パスをすり抜けた同時リクエスト
			s.countPayment("duplicate")
			logger.Warn("同時決済リクエストを検出しました", zap.Int64("reservation_id", reservationID))
			return nil, payment.ErrPaymentAlreadyProcessed
		}

		// 5. 重複以外の失敗は FAILED 行として記録する（試行ごとに必ず1行残す）
		logger.Error("決済処理エラー、失敗記録を残します",
			zap.Int64("reservation_id", reservationID),
			zap.Error(err),
		)
		failed := payment.NewFailed(reservationID, identity.Attribution())
		if recordErr := s.paymentRepo.Create(ctx, failed); recordErr != nil {
			s.countPayment("error")
			return nil, fmt.Errorf("失敗記録の保存に失敗: %w", recordErr)
		}
		s.countPayment("failed")
		return failed, nil
	}

	s.countPayment("success")
	logger.Info("決済を処理しました",
		zap.Int64("payment_id", p.ID),
		zap.Int64("reservation_id", reservationID),
		zap.Float64("amount", p.Amount),
		zap.String("processed_by", p.ProcessedBy),
	)
	return p, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id int64) (*payment.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

func (s *PaymentService) ListPayments(ctx context.Context) ([]*payment.Payment, error) {
	return s.paymentRepo.GetAll(ctx)
}

func (s *PaymentService) countPayment(status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.PaymentsTotal.WithLabelValues(status).Inc()
}
