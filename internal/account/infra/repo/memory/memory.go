// Package memory 提供进程内的账号存储，用于本地开发与测试。
package memory

import (
	"context"
	"sort"
	"sync"

	"PromiseRouter/internal/account/domain"
)

type UserRepo struct {
	mu     sync.RWMutex
	byID   map[string]domain.User
	byName map[string]string
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:   make(map[string]domain.User),
		byName: make(map[string]string),
	}
}

func (r *UserRepo) GetUserByUserName(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	uid, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound.WithData("username", username)
	}
	u := r.byID[uid]
	return &u, nil
}

func (r *UserRepo) GetUserByID(_ context.Context, uid string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[uid]
	if !ok {
		return nil, domain.ErrUserNotFound.WithData("uid", uid)
	}
	return &u, nil
}

func (r *UserRepo) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[user.Username]; ok {
		return domain.ErrUserExist.WithData("username", user.Username)
	}
	if _, ok := r.byID[user.UId]; ok {
		return domain.ErrUserExist.WithData("uid", user.UId)
	}
	r.byID[user.UId] = user
	r.byName[user.Username] = user.UId
	return nil
}

// SetStatus 修改账号状态（禁用/启用）。
func (r *UserRepo) SetStatus(_ context.Context, uid string, status int8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[uid]
	if !ok {
		return domain.ErrUserNotFound.WithData("uid", uid)
	}
	u.Status = status
	r.byID[uid] = u
	return nil
}

type LoginHistoryRepo struct {
	mu    sync.RWMutex
	byUID map[string][]domain.LoginHistory
}

func NewLoginHistoryRepo() *LoginHistoryRepo {
	return &LoginHistoryRepo{byUID: make(map[string][]domain.LoginHistory)}
}

func (r *LoginHistoryRepo) Save(_ context.Context, history domain.LoginHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUID[history.UId] = append(r.byUID[history.UId], history)
	return nil
}

func (r *LoginHistoryRepo) ListByUser(_ context.Context, uid string, limit int) ([]domain.LoginHistory, error) {
	r.mu.RLock()
	out := append([]domain.LoginHistory(nil), r.byUID[uid]...)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CTime.After(out[j].CTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
