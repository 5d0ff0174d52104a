package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 入力検証はvalidatorパッケージに委譲する。
type AuthValidator interface {
	ValidateRegister(ctx context.Context, username, email, password, repeatPassword string) error
	ValidateLogin(ctx context.Context, username, password string) error
	ValidateNewPassword(password, repeatPassword string) error
}

// アクセストークンの発行。実装はcmd/api側。
type TokenIssuer interface {
	Issue(userID int64, isStaff bool, isAdmin bool, now time.Time) (string, time.Time, error)
}

type Clock interface {
	Now() time.Time
}

type AuthUsecase struct {
	userRepo  repo.UserRepository
	validator AuthValidator
	hasher    PasswordHasher
	verifier  PasswordVerifier
	issuer    TokenIssuer
	idGen     IDGenerator
	clock     Clock
}

func NewAuthUsecase(
	userRepo repo.UserRepository,
	validator AuthValidator,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	idGen IDGenerator,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		validator: validator,
		hasher:    hasher,
		verifier:  verifier,
		issuer:    issuer,
		idGen:     idGen,
		clock:     clock,
	}
}

type RegisterInput struct {
	Username       string
	Email          string
	DayBirth       string // "2006-01-02"
	Password       string
	RepeatPassword string
}

type LoginInput struct {
	Username string
	Password string
}

type UserView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	DayBirth string `json:"day_birth"`
	IsActive bool   `json:"is_active"`
	IsStaff  bool   `json:"is_staff"`
	IsAdmin  bool   `json:"is_admin"`
}

type LoginOutput struct {
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
	User      UserView  `json:"user"`
}

type RepairPasswordInput struct {
	Username string
	Email    string
}

type CreatePasswordInput struct {
	ResetToken     string
	Password       string
	RepeatPassword string
}

type UpdateProfileInput struct {
	Email    string
	DayBirth string
}

// 会員登録。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserView, error) {
	if err := u.validator.ValidateRegister(ctx, in.Username, in.Email, in.Password, in.RepeatPassword); err != nil {
		return UserView{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dayBirth, err := time.Parse("2006-01-02", in.DayBirth)
	if err != nil {
		return UserView{}, NewHTTPError(http.StatusBadRequest, "invalid day_birth")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return UserView{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		DayBirth:     dayBirth,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUsernameTaken) {
			return UserView{}, NewHTTPError(http.StatusConflict, "username already used")
		}
		if errors.Is(err, repo.ErrEmailTaken) {
			return UserView{}, NewHTTPError(http.StatusConflict, "email already used")
		}
		return UserView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserView(user), nil
}

// ログイン。成功時はcookieに積むトークンを返す。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	if err := u.validator.ValidateLogin(ctx, in.Username, in.Password); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := u.userRepo.FindByUsername(ctx, in.Username)
	if errors.Is(err, repo.ErrUserNotFound) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !user.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if err := u.verifier.Verify(user.PasswordHash, in.Password); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, user.IsStaff, user.IsAdmin, now)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user.LastLoginAt = &now
	if err := u.userRepo.Update(ctx, user); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return LoginOutput{Token: token, ExpiresAt: expiresAt, User: toUserView(user)}, nil
}

// パスワード再設定の申請。usernameとemailが一致したら再設定トークンを発行する。
// トークンの通知（メール等）は外部の仕事。
func (u *AuthUsecase) RepairPassword(ctx context.Context, in RepairPasswordInput) (string, error) {
	if in.Username == "" || in.Email == "" {
		return "", NewHTTPError(http.StatusBadRequest, "username and email are required")
	}

	user, err := u.userRepo.FindByUsername(ctx, in.Username)
	if errors.Is(err, repo.ErrUserNotFound) {
		return "", NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user.Email != in.Email {
		return "", NewHTTPError(http.StatusBadRequest, "email does not match")
	}

	user.ResetToken = u.idGen.NewID()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return user.ResetToken, nil
}

// 再設定トークンで新しいパスワードを設定する。トークンは使い切り。
func (u *AuthUsecase) CreatePassword(ctx context.Context, in CreatePasswordInput) error {
	if in.ResetToken == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid reset token")
	}
	if err := u.validator.ValidateNewPassword(in.Password, in.RepeatPassword); err != nil {
		return NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := u.userRepo.FindByResetToken(ctx, in.ResetToken)
	if errors.Is(err, repo.ErrUserNotFound) {
		return NewHTTPError(http.StatusBadRequest, "invalid reset token")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user.PasswordHash = hash
	user.ResetToken = ""
	if err := u.userRepo.Update(ctx, user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 自分のプロフィール更新。
func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (UserView, error) {
	if userID <= 0 {
		return UserView{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
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
	if err := u.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return UserView{}, NewHTTPError(http.StatusConflict, "email already used")
		}
		return UserView{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserView(user), nil
}

// 退会（ソフトデリート）。
func (u *AuthUsecase) DeactivateSelf(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	err := u.userRepo.Deactivate(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func toUserView(user *model.User) UserView {
	return UserView{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		DayBirth: user.DayBirth.Format("2006-01-02"),
		IsActive: user.IsActive,
		IsStaff:  user.IsStaff,
		IsAdmin:  user.IsAdmin,
	}
}
