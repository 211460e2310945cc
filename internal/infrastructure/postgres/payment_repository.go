package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/payment"
)

type paymentRow struct {
	ID            int64     `db:"id"`
	ReservationID int64     `db:"reservation_id"`
	GuestName     string    `db:"guest_name"`
	Amount        float64   `db:"amount"`
	Status        string    `db:"status"`
	ProcessedBy   string    `db:"processed_by"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r *paymentRow) toEntity() *payment.Payment {
	return &payment.Payment{
		ID: r.ID, ReservationID: r.ReservationID, GuestName: r.GuestName,
		Amount: r.Amount, Status: payment.Status(r.Status),
		ProcessedBy: r.ProcessedBy, CreatedAt: r.CreatedAt,
	}
}

type PaymentRepository struct{ db *sqlx.DB }

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `INSERT INTO payments (reservation_id, guest_name, amount, status, processed_by, created_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query,
		p.ReservationID, p.GuestName, p.Amount, string(p.Status), p.ProcessedBy, p.CreatedAt,
	).Scan(&p.ID); err != nil {
		// 部分一意インデックス違反＝別リクエストが先に SUCCESS を記録した
		// 一意制約違反以外の永続化エラーをここで変換してはならない
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == pqUniqueViolation {
			return payment.ErrPaymentAlreadyProcessed
		}
		return fmt.Errorf("決済記録の作成に失敗: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*payment.Payment, error) {
	var row paymentRow
	query := `SELECT id, reservation_id, guest_name, amount, status, processed_by, created_at FROM payments WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("決済取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *PaymentRepository) GetAll(ctx context.Context) ([]*payment.Payment, error) {
	var rows []paymentRow
	query := `SELECT id, reservation_id, guest_name, amount, status, processed_by, created_at FROM payments ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("決済一覧取得に失敗: %w", err)
	}
	result := make([]*payment.Payment, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

func (r *PaymentRepository) FindSuccessByReservationID(ctx context.Context, reservationID int64) (*payment.Payment, error) {
	var row paymentRow
	query := `SELECT id, reservation_id, guest_name, amount, status, processed_by, created_at FROM payments WHERE reservation_id = $1 AND status = 'SUCCESS'`
	if err := r.db.GetContext(ctx, &row, query, reservationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("決済検索に失敗: %w", err)
	}
	return row.toEntity(), nil
}

var _ payment.Repository = (*PaymentRepository)(nil)
