package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		email       string
		errExpected error
	}{
		{name: "正常なユーザー", username: "taro", email: "taro@example.com"},
		{name: "ユーザー名未指定", username: " ", email: "taro@example.com", errExpected: ErrUsernameRequired},
		{name: "メールアドレス未指定", username: "taro", email: "", errExpected: ErrEmailRequired},
		{name: "メールアドレス形式不正", username: "taro", email: "not-an-email", errExpected: ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewUser(tt.username, tt.email).Validate()
			if tt.errExpected != nil {
				assert.ErrorIs(t, err, tt.errExpected)
				return
			}
			assert.NoError(t, err)
		})
	}
}
