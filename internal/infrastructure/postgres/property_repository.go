package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-stay-booking/internal/domain/property"
)

type propertyRow struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	NightlyRate int64     `db:"nightly_rate"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	Version     int       `db:"version"`
}

const propertyColumns = `id, owner_id, title, description, nightly_rate, active, created_at, updated_at, version`

type PropertyRepository struct{ db *sqlx.DB }

func NewPropertyRepository(db *sqlx.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p *property.Property) error {
	query := `INSERT INTO properties (owner_id, title, description, nightly_rate, active, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := r.db.QueryRowxContext(ctx, query,
		p.OwnerID, p.Title, p.Description, p.NightlyRate, p.Active, p.CreatedAt, p.UpdatedAt, p.Version,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("物件作成に失敗: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*property.Property, error) {
	var row propertyRow
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, property.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("物件取得に失敗: %w", err)
	}
	return r.toEntity(&row), nil
}

func (r *PropertyRepository) List(ctx context.Context, limit, offset int) ([]*property.Property, error) {
	var rows []propertyRow
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("物件一覧取得に失敗: %w", err)
	}
	return r.toEntities(rows), nil
}

func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]*property.Property, error) {
	var rows []propertyRow
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("オーナーの物件一覧取得に失敗: %w", err)
	}
	return r.toEntities(rows), nil
}

// Update は楽観的ロック付きで物件を更新する
func (r *PropertyRepository) Update(ctx context.Context, p *property.Property) error {
	query := `UPDATE properties
		SET title = $1, description = $2, nightly_rate = $3, active = $4, updated_at = $5, version = version + 1
		WHERE id = $6 AND version = $7`
	result, err := r.db.ExecContext(ctx, query,
		p.Title, p.Description, p.NightlyRate, p.Active, p.UpdatedAt, p.ID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("物件更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := r.db.QueryRowxContext(ctx, `SELECT EXISTS(SELECT 1 FROM properties WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
			return fmt.Errorf("物件存在確認に失敗: %w", err)
		}
		if !exists {
			return property.ErrPropertyNotFound
		}
		return property.ErrOptimisticLockConflict
	}
	p.Version++
	return nil
}

func (r *PropertyRepository) toEntity(row *propertyRow) *property.Property {
	return &property.Property{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Title:       row.Title,
		Description: row.Description,
		NightlyRate: row.NightlyRate,
		Active:      row.Active,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		Version:     row.Version,
	}
}

func (r *PropertyRepository) toEntities(rows []propertyRow) []*property.Property {
	result := make([]*property.Property, len(rows))
	for i := range rows {
		result[i] = r.toEntity(&rows[i])
	}
	return result
}

var _ property.Repository = (*PropertyRepository)(nil)
