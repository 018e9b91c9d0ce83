package app

import (
	"context"

	"PromiseRouter/internal/account/domain"
)

// UserRepo 找不到用户时返回 domain.ErrUserNotFound，用户名冲突时返回 domain.ErrUserExist。
type UserRepo interface {
	GetUserByUserName(ctx context.Context, username string) (*domain.User, error)
	GetUserByID(ctx context.Context, uid string) (*domain.User, error)
	Create(ctx context.Context, user domain.User) error
}

type LoginHistoryRepo interface {
	Save(ctx context.Context, history domain.LoginHistory) error
	// ListByUser 按时间倒序返回最近 limit 条
	ListByUser(ctx context.Context, uid string, limit int) ([]domain.LoginHistory, error)
}

type PasswordHasher interface {
	Hash(pwd string) (string, error)
	Verify(hash, pwd string) bool
}

type TokenIssuer interface {
	Award(uid string) (string, error)
}

type IDGen func() string
