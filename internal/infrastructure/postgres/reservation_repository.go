package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-stay-booking/internal/domain/reservation"
	"github.com/sanosuguru/go-stay-booking/internal/domain/transaction"
)

// PostgreSQLのSQLSTATEコード
const (
	uniqueViolation    = "23505"
	exclusionViolation = "23P01"
)

type reservationRow struct {
	ID         string    `db:"id"`
	GuestID    string    `db:"guest_id"`
	PropertyID string    `db:"property_id"`
	CheckIn    time.Time `db:"check_in"`
	CheckOut   time.Time `db:"check_out"`
	TotalPrice int64     `db:"total_price"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

const reservationColumns = `id, guest_id, property_id, check_in, check_out, total_price, status, created_at, updated_at`

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// InsertIfAvailable は予約を作成する
// 空室保証はテーブルの排他制約（property_id × daterange(check_in, check_out)、
// 有効な状態のみ対象）が担い、制約違反は ErrDatesNotAvailable として返る
// 事前の空室チェックと分けて実行しても二重予約は構造的に起こらない
func (r *ReservationRepository) InsertIfAvailable(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	query := `INSERT INTO reservations (guest_id, property_id, check_in, check_out, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.execer(tx).QueryRowxContext(ctx, query,
		res.GuestID, res.PropertyID, res.CheckIn, res.CheckOut,
		res.TotalPrice, string(res.Status), res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && string(pgErr.Code) == exclusionViolation {
			return reservation.ErrDatesNotAvailable
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return toEntity(&row), nil
}

// UpdateStatus は状態が from のままの場合に限り to へ更新する（条件付き更新）
func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, id string, from, to reservation.Status, updatedAt time.Time) error {
	ex := r.execer(tx)
	query := `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := ex.ExecContext(ctx, query, string(to), updatedAt, id, string(from))
	if err != nil {
		return fmt.Errorf("予約状態の更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// 予約が存在しないのか、並行する遷移に負けたのかを区別する
		var exists bool
		if err := ex.QueryRowxContext(ctx, `SELECT EXISTS(SELECT 1 FROM reservations WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("予約存在確認に失敗: %w", err)
		}
		if !exists {
			return reservation.ErrReservationNotFound
		}
		return reservation.ErrStatusConflict
	}
	return nil
}

func (r *ReservationRepository) ListByGuest(ctx context.Context, guestID string) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE guest_id = $1 ORDER BY check_in DESC`
	if err := r.db.SelectContext(ctx, &rows, query, guestID); err != nil {
		return nil, fmt.Errorf("ゲストの予約一覧取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

func (r *ReservationRepository) ListByProperty(ctx context.Context, propertyID string) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE property_id = $1 ORDER BY check_in DESC`
	if err := r.db.SelectContext(ctx, &rows, query, propertyID); err != nil {
		return nil, fmt.Errorf("物件の予約一覧取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

func (r *ReservationRepository) ListByPropertyAndStatuses(ctx context.Context, propertyID string, statuses []reservation.Status) ([]*reservation.Reservation, error) {
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE property_id = $1 AND status = ANY($2) ORDER BY check_in ASC`
	if err := r.db.SelectContext(ctx, &rows, query, propertyID, pq.Array(ss)); err != nil {
		return nil, fmt.Errorf("状態別の予約一覧取得に失敗: %w", err)
	}
	return toEntities(rows), nil
}

// IsAvailable は候補期間と重なる有効な予約の有無を1クエリで判定する
// 半開区間 [a,b) と [c,d) の重なり条件: a < d かつ c < b
func (r *ReservationRepository) IsAvailable(ctx context.Context, propertyID string, checkIn, checkOut time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(
		SELECT 1 FROM reservations
		WHERE property_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND check_in < $3
		  AND check_out > $2
	)`
	if err := r.db.QueryRowxContext(ctx, query, propertyID, checkIn, checkOut).Scan(&exists); err != nil {
		return false, fmt.Errorf("空室確認に失敗: %w", err)
	}
	return !exists, nil
}

// CompleteElapsed はチェックアウト日が today 以前の確定済み予約を一括で完了にする
func (r *ReservationRepository) CompleteElapsed(ctx context.Context, today time.Time) (int, error) {
	query := `UPDATE reservations SET status = 'completed', updated_at = NOW()
		WHERE status = 'confirmed' AND check_out <= $1`
	result, err := r.db.ExecContext(ctx, query, today)
	if err != nil {
		return 0, fmt.Errorf("滞在完了処理に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

// execer はトランザクションが渡された場合はそれを、なければDB接続を返す
func (r *ReservationRepository) execer(tx transaction.Tx) sqlx.ExtContext {
	if sqlxTx := UnwrapTx(tx); sqlxTx != nil {
		return sqlxTx
	}
	return r.db
}

func toEntity(row *reservationRow) *reservation.Reservation {
	return &reservation.Reservation{
		ID:         row.ID,
		GuestID:    row.GuestID,
		PropertyID: row.PropertyID,
		CheckIn:    row.CheckIn,
		CheckOut:   row.CheckOut,
		TotalPrice: row.TotalPrice,
		Status:     reservation.Status(row.Status),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func toEntities(rows []reservationRow) []*reservation.Reservation {
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = toEntity(&rows[i])
	}
	return result
}

var _ reservation.Repository = (*ReservationRepository)(nil)
