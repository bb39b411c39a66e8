package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sanosuguru/go-stay-booking/internal/domain/property"
	"github.com/sanosuguru/go-stay-booking/internal/domain/user"
)

type PropertyService struct {
	propertyRepo property.Repository
	userRepo     user.Repository
}

func NewPropertyService(propertyRepo property.Repository, userRepo user.Repository) *PropertyService {
	return &PropertyService{propertyRepo: propertyRepo, userRepo: userRepo}
}

type CreatePropertyInput struct {
	OwnerID     string
	Title       string
	Description string
	NightlyRate int64
}

// CreateProperty は新しい物件を登録する
func (s *PropertyService) CreateProperty(ctx context.Context, input CreatePropertyInput) (*property.Property, error) {
	if _, err := s.userRepo.GetByID(ctx, input.OwnerID); err != nil {
		return nil, err
	}

	p := property.NewProperty(input.OwnerID, input.Title, input.Description, input.NightlyRate)
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.propertyRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProperty はIDから物件を取得する
func (s *PropertyService) GetProperty(ctx context.Context, id string) (*property.Property, error) {
	return s.propertyRepo.GetByID(ctx, id)
}

// ListProperties は物件一覧を取得する
func (s *PropertyService) ListProperties(ctx context.Context, limit, offset int) ([]*property.Property, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.propertyRepo.List(ctx, limit, offset)
}

type UpdatePropertyInput struct {
	ID          string
	HostID      string
	Title       string
	Description string
	NightlyRate int64
}

// UpdateProperty は物件情報を更新する（オーナーのみ）
func (s *PropertyService) UpdateProperty(ctx context.Context, input UpdatePropertyInput) (*property.Property, error) {
	p, err := s.propertyRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(input.HostID) {
		return nil, property.ErrNotPropertyOwner
	}

	p.Title = input.Title
	p.Description = input.Description
	p.NightlyRate = input.NightlyRate
	p.UpdatedAt = time.Now()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}

	if err := s.propertyRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeactivateProperty は物件の予約受付を停止する（オーナーのみ）
// 停止は新規予約を止めるだけで、既存の予約には影響しない
func (s *PropertyService) DeactivateProperty(ctx context.Context, id, hostID string) (*property.Property, error) {
	p, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(hostID) {
		return nil, property.ErrNotPropertyOwner
	}

	p.Deactivate()
	if err := s.propertyRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
