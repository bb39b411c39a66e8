package property

import (
	"strings"
	"time"
)

// Property は貸出物件エンティティを表す
type Property struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	NightlyRate int64 // 通貨最小単位（セント）
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int // 楽観的ロック用
}

// NewProperty は新しい物件を作成する（作成時は予約受付可能）
func NewProperty(ownerID, title, description string, nightlyRate int64) *Property {
	now := time.Now()
	return &Property{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		NightlyRate: nightlyRate,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     0,
	}
}

// IsBookable は物件が予約を受け付けられる状態かを返す
func (p *Property) IsBookable() bool {
	return p.Active
}

// IsOwnedBy は指定ユーザーが物件のオーナー（ホスト）かを返す
func (p *Property) IsOwnedBy(userID string) bool {
	return p.OwnerID == userID
}

// Deactivate は物件の予約受付を停止する
func (p *Property) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

// Validate は物件の検証を行う
func (p *Property) Validate() error {
	if p.OwnerID == "" {
		return ErrOwnerIDRequired
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	if p.NightlyRate <= 0 {
		return ErrInvalidNightlyRate
	}
	return nil
}
