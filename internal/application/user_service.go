package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sanosuguru/go-stay-booking/internal/domain/user"
)

type UserService struct {
	userRepo user.Repository
}

func NewUserService(userRepo user.Repository) *UserService {
	return &UserService{userRepo: userRepo}
}

type RegisterUserInput struct {
	Username string
	Email    string
}

// RegisterUser は新しいユーザーを登録する
func (s *UserService) RegisterUser(ctx context.Context, input RegisterUserInput) (*user.User, error) {
	u := user.NewUser(input.Username, input.Email)
	if err := u.Validate(); err != nil {
		return nil, err
	}

	// メールアドレスの重複チェック（最終的な一意性はDB制約が保証する）
	if _, err := s.userRepo.GetByEmail(ctx, u.Email); err == nil {
		return nil, user.ErrEmailTaken
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("重複チェックに失敗: %w", err)
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser はIDからユーザーを取得する
func (s *UserService) GetUser(ctx context.Context, id string) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
