// Package mysql 基于 gorm 的账号存储。
package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"PromiseRouter/internal/account/domain"
)

// Migrate 建表/补齐索引。
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&domain.User{}, &domain.LoginHistory{})
}

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

func (r *UserRepo) GetUserByUserName(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 技术错误 → 业务错误
		return nil, domain.ErrUserNotFound.WithData("username", username)
	}
	//  纯技术错误（连接超时等），是无法转换的技术错误，保持原样或包装返回给上级
	return nil, domain.ErrSystemUnavailable.WithData("username", username).WithCause(err)
}

func (r *UserRepo) GetUserByID(ctx context.Context, uid string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound.WithData("uid", uid)
	}
	return nil, domain.ErrSystemUnavailable.WithData("uid", uid).WithCause(err)
}

func (r *UserRepo) Create(ctx context.Context, user domain.User) error {
	err := r.db.WithContext(ctx).Create(&user).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrUserExist.WithData("username", user.Username).WithCause(err)
	default:
		return domain.ErrSystemUnavailable.WithData("username", user.Username).WithCause(err)
	}
}

type LoginHistoryRepo struct {
	db *gorm.DB
}

func NewLoginHistoryRepo(db *gorm.DB) *LoginHistoryRepo {
	return &LoginHistoryRepo{
		db: db,
	}
}

func (r *LoginHistoryRepo) Save(ctx context.Context, history domain.LoginHistory) error {
	err := r.db.WithContext(ctx).Create(&history).Error
	if err != nil {
		return domain.ErrSystemUnavailable.WithData("uid", history.UId).WithCause(err)
	}
	return nil
}

func (r *LoginHistoryRepo) ListByUser(ctx context.Context, uid string, limit int) ([]domain.LoginHistory, error) {
	var out []domain.LoginHistory
	q := r.db.WithContext(ctx).Where("uid = ?", uid).Order("ctime DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, domain.ErrSystemUnavailable.WithData("uid", uid).WithCause(err)
	}
	return out, nil
}
