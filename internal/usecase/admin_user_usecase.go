package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/pagination"
	repo "app/internal/repository"
)

const usersPageSize = 10

// AdminUserUsecase は管理者によるユーザー管理です。
type AdminUserUsecase struct {
	userRepo repo.UserRepository
	tx       repo.TransactionManager
}

func NewAdminUserUsecase(userRepo repo.UserRepository, tx repo.TransactionManager) *AdminUserUsecase {
	return &AdminUserUsecase{userRepo: userRepo, tx: tx}
}

type UsersPage struct {
	Users      []UserView `json:"users"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
}

type AdminUpdateUserInput struct {
	Email    string
	DayBirth string
	IsActive bool
	IsStaff  bool
	IsAdmin  bool
}

func (u *AdminUserUsecase) ListUsers(ctx context.Context, page int) (UsersPage, error) {
	users, err := u.userRepo.List(ctx)
	if err != nil {
		return UsersPage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, toUserView(&users[i]))
	}

	paged, totalPages := pagination.Paginate(views, page, usersPageSize)
	return UsersPage{Users: paged, Page: page, TotalPages: totalPages}, nil
}

func (u *AdminUserUsecase) GetUser(ctx context.Context, userID int64) (UserView, error) {
	if userID <= 0 {
		return UserView{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return UserView{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return UserView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toUserView(user), nil
}

// フラグ類も含めた管理者更新。
func (u *AdminUserUsecase) UpdateUser(ctx context.Context, userID int64, in AdminUpdateUserInput) (UserView, error) {
	if userID <= 0 {
		return UserView{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	if in.Email == "" {
		return UserView{}, NewHTTPError(http.StatusBadRequest, "email must not be empty")
	}

	dayBirth, err := time.Parse("2006-01-02", in.DayBirth)
	if err != nil {
		return UserView{}, NewHTTPError(http.StatusBadRequest, "invalid day_birth")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return UserView{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return UserView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user.Email = in.Email
	user.DayBirth = dayBirth
	user.IsActive = in.IsActive
	user.IsStaff = in.IsStaff
	user.IsAdmin = in.IsAdmin

	if err := u.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return UserView{}, NewHTTPError(http.StatusConflict, "email already used")
		}
		return UserView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toUserView(user), nil
}

// ユーザー削除（ソフトデリート）。購入履歴があれば拒否し、
// force指定時だけ履歴ごと消してから無効化する。
func (u *AdminUserUsecase) DeleteUser(ctx context.Context, userID int64, force bool) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Users().FindByID(ctx, userID); err != nil {
			if errors.Is(err, repo.ErrUserNotFound) {
				return NewHTTPError(http.StatusNotFound, "user not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		hasPurchases, err := r.Purchases().ExistsByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if hasPurchases && !force {
			return NewHTTPError(http.StatusConflict, "delete blocked: purchases reference this user")
		}
		if hasPurchases {
			if err := r.Purchases().DeleteByUserID(ctx, userID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		if err := r.Users().Deactivate(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
