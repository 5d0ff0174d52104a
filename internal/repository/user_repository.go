package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 一意制約違反を区別して返す
var (
	ErrUsernameTaken = errors.New("username already used")
	ErrEmailTaken    = errors.New("email already used")
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//パスワード再設定トークンからユーザーを引く
	FindByResetToken(ctx context.Context, token string) (*model.User, error)
	// ユーザー情報の更新=>アクティブかどうか・権限の変更・最後のログイン更新など
	Update(ctx context.Context, user *model.User) error
	//退会・管理者削除はis_active=falseにする
	Deactivate(ctx context.Context, userID int64) error

	List(ctx context.Context) ([]model.User, error)
}
