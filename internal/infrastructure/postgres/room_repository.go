package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sudhanshukawade1/Hotel-management/internal/domain/room"
	"github.com/sudhanshukawade1/Hotel-management/internal/domain/transaction"
)

// pqUniqueViolation はPostgreSQLの一意制約違反コード
const pqUniqueViolation = "23505"

type roomRow struct {
	ID            int64     `db:"id"`
	RoomNumber    string    `db:"room_number"`
	Type          string    `db:"type"`
	PricePerNight float64   `db:"price_per_night"`
	IsAvailable   bool      `db:"is_available"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r *roomRow) toEntity() *room.Room {
	return &room.Room{
		ID: r.ID, RoomNumber: r.RoomNumber, Type: r.Type,
		PricePerNight: r.PricePerNight, IsAvailable: r.IsAvailable,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type RoomRepository struct{ db *sqlx.DB }

func NewRoomRepository(db *sqlx.DB) *RoomRepository { return &RoomRepository{db: db} }

func (r *RoomRepository) Create(ctx context.Context, rm *room.Room) error {
	query := `INSERT INTO rooms (room_number, type, price_per_night, is_available, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, rm.RoomNumber, rm.Type, rm.PricePerNight, rm.IsAvailable, rm.CreatedAt, rm.UpdatedAt).Scan(&rm.ID); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == pqUniqueViolation {
			return room.ErrDuplicateRoomNumber
		}
		return fmt.Errorf("客室作成に失敗: %w", err)
	}
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*room.Room, error) {
	var row roomRow
	query := `SELECT id, room_number, type, price_per_night, is_available, created_at, updated_at FROM rooms WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, room.ErrRoomNotFound
		}
		return nil, fmt.Errorf("客室取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *RoomRepository) GetAll(ctx context.Context) ([]*room.Room, error) {
	var rows []roomRow
	query := `SELECT id, room_number, type, price_per_night, is_available, created_at, updated_at FROM rooms ORDER BY room_number`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("客室一覧取得に失敗: %w", err)
	}
	rooms := make([]*room.Room, len(rows))
	for i, row := range rows {
		rooms[i] = row.toEntity()
	}
	return rooms, nil
}

func (r *RoomRepository) ExistsByRoomNumber(ctx context.Context, roomNumber string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM rooms WHERE room_number = $1)`, roomNumber); err != nil {
		return false, fmt.Errorf("部屋番号確認に失敗: %w", err)
	}
	return exists, nil
}

func (r *RoomRepository) Update(ctx context.Context, rm *room.Room) error {
	query := `UPDATE rooms SET room_number = $1, type = $2, price_per_night = $3, is_available = $4, updated_at = NOW() WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query, rm.RoomNumber, rm.Type, rm.PricePerNight, rm.IsAvailable, rm.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == pqUniqueViolation {
			return room.ErrDuplicateRoomNumber
		}
		return fmt.Errorf("客室更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return room.ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("客室削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return room.ErrRoomNotFound
	}
	return nil
}

func (r *RoomRepository) SetAvailability(ctx context.Context, tx transaction.Tx, roomID int64, available bool) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	result, err := sqlxTx.ExecContext(ctx, `UPDATE rooms SET is_available = $1, updated_at = NOW() WHERE id = $2`, available, roomID)
	if err != nil {
		return fmt.Errorf("空室フラグ更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return room.ErrRoomNotFound
	}
	return nil
}

var _ room.Repository = (*RoomRepository)(nil)
