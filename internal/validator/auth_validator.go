package validator

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"app/internal/usecase"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")

	// パスワードが一致しない
	ErrPasswordMismatch = errors.New("passwords do not match")
)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// 会員登録の入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, username, email, password, repeatPassword string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// 必須チェック
	if username == "" || email == "" || password == "" {
		return ErrInvalidInput
	}

	// email形式
	if !isEmailLike(email) {
		return ErrInvalidInput
	}

	// パスワード最低文字数（MVP: 8）
	if len(password) < 8 {
		return ErrInvalidInput
	}

	if password != repeatPassword {
		return ErrPasswordMismatch
	}

	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return ErrInvalidInput
	}
	return nil
}

// パスワード再設定の入力を検証
func (v *authValidator) ValidateNewPassword(password, repeatPassword string) error {
	if password == "" || len(password) < 8 {
		return ErrInvalidInput
	}
	if password != repeatPassword {
		return ErrPasswordMismatch
	}
	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	re := regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	return re.MatchString(s)
}
