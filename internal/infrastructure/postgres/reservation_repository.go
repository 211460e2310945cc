package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/reservation"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/transaction"
)

// pqExclusionViolation はPostgreSQLの排他制約違反コード
// reservations_no_overlap 制約に違反した同時予約で発生する
const pqExclusionViolation = "23P01"

type reservationRow struct {
	ID         int64     `db:"id"`
	GuestName  string    `db:"guest_name"`
	GuestEmail string    `db:"guest_email"`
	RoomID     int64     `db:"room_id"`
	CheckIn    time.Time `db:"check_in"`
	CheckOut   time.Time `db:"check_out"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID: r.ID, GuestName: r.GuestName, GuestEmail: r.GuestEmail,
		RoomID: r.RoomID, Stay: reservation.NewStayRange(r.CheckIn, r.CheckOut),
		Status: reservation.Status(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const reservationColumns = `id, guest_name, guest_email, room_id, check_in, check_out, status, created_at, updated_at`

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	query := `INSERT INTO reservations (guest_name, guest_email, room_id, check_in, check_out, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		res.GuestName, res.GuestEmail, res.RoomID,
		res.Stay.CheckIn, res.Stay.CheckOut, string(res.Status),
		res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == pqExclusionViolation {
			return reservation.ErrRoomAlreadyBooked
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) GetAll(ctx context.Context) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

func (r *ReservationRepository) FindOverlapping(ctx context.Context, stay reservation.StayRange) ([]*reservation.Reservation, error) {
	// daterange は半開区間。泊数ゼロの問い合わせは空区間となり何とも重ならない
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE daterange(check_in, check_out) && daterange($1::date, $2::date)`
	if err := r.db.SelectContext(ctx, &rows, query, stay.CheckIn, stay.CheckOut); err != nil {
		return nil, fmt.Errorf("重複予約検索に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

func (r *ReservationRepository) FindEndingAfter(ctx context.Context, date time.Time) ([]*reservation.Reservation, error) {
	// check_out は半開区間の終端。指定日にチェックアウトする予約はもう部屋を占有していない
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE check_out > $1::date`
	if err := r.db.SelectContext(ctx, &rows, query, date); err != nil {
		return nil, fmt.Errorf("滞在中・将来予約の検索に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i, row := range rows {
		result[i] = row.toEntity()
	}
	return result, nil
}

func (r *ReservationRepository) CountByRoomID(ctx context.Context, roomID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reservations WHERE room_id = $1`, roomID); err != nil {
		return 0, fmt.Errorf("予約数取得に失敗: %w", err)
	}
	return count, nil
}

func (r *ReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	query := `UPDATE reservations SET guest_name = $1, guest_email = $2, room_id = $3, check_in = $4, check_out = $5, updated_at = NOW() WHERE id = $6`
	result, err := sqlxTx.ExecContext(ctx, query,
		res.GuestName, res.GuestEmail, res.RoomID,
		res.Stay.CheckIn, res.Stay.CheckOut, res.ID,
	)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == pqExclusionViolation {
			return reservation.ErrRoomAlreadyBooked
		}
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, tx transaction.Tx, id int64) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	result, err := sqlxTx.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("予約削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

var _ reservation.Repository = (*ReservationRepository)(nil)
