package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"PromiseRouter/internal/account/app/model"
	"PromiseRouter/internal/account/domain"
	"PromiseRouter/modules/kit/errx"

	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]domain.User
	failGet error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (r *fakeUserRepo) GetUserByUserName(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet != nil {
		return nil, r.failGet
	}
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, uid string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet != nil {
		return nil, r.failGet
	}
	u, ok := r.users[uid]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return domain.ErrUserExist
		}
	}
	r.users[user.UId] = user
	return nil
}

type fakeHistoryRepo struct {
	mu       sync.Mutex
	list     []domain.LoginHistory
	failSave error
}

func (r *fakeHistoryRepo) Save(_ context.Context, h domain.LoginHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave != nil {
		return r.failSave
	}
	r.list = append(r.list, h)
	return nil
}

func (r *fakeHistoryRepo) ListByUser(_ context.Context, uid string, limit int) ([]domain.LoginHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.LoginHistory
	for _, h := range r.list {
		if h.UId == uid {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CTime.After(out[j].CTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type plainHasher struct{}

func (plainHasher) Hash(pwd string) (string, error) { return "h:" + pwd, nil }
func (plainHasher) Verify(hash, pwd string) bool   { return hash == "h:"+pwd }

type fakeTokens struct{ err error }

func (f fakeTokens) Award(uid string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + uid, nil
}

func newService(t *testing.T) (*UserService, *fakeUserRepo, *fakeHistoryRepo) {
	t.Helper()
	users := newFakeUserRepo()
	histories := &fakeHistoryRepo{}
	seq := 0
	svc := NewUserService(users, histories, plainHasher{}, fakeTokens{}, func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	})
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return svc, users, histories
}

func TestUserService_Register(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, model.RegisterReq{Username: "alice_01", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "alice_01", resp.Username)
	require.Equal(t, "h:secret1", users.users[resp.UId].Passwd)
	require.Equal(t, domain.UserNormal, users.users[resp.UId].Status)

	_, err = svc.Register(ctx, model.RegisterReq{Username: "alice_01", Password: "secret1"})
	require.ErrorIs(t, err, ErrUserExist)
	require.Equal(t, 409, errx.HTTPStatus(err))
}

func TestUserService_Register_参数校验(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterReq{Username: "ab", Password: "secret1"})
	require.ErrorIs(t, err, ErrReqParamERR)

	_, err = svc.Register(ctx, model.RegisterReq{Username: "bad name", Password: "secret1"})
	require.ErrorIs(t, err, ErrReqParamERR)

	_, err = svc.Register(ctx, model.RegisterReq{Username: "alice", Password: "123"})
	require.ErrorIs(t, err, ErrReqParamERR)
}

func TestUserService_Register_存储故障(t *testing.T) {
	svc, users, _ := newService(t)
	cause := errors.New("db down")
	users.failGet = cause

	_, err := svc.Register(context.Background(), model.RegisterReq{Username: "alice", Password: "secret1"})
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, cause)
	require.Equal(t, ReasonUserRepoUnavailable.ReasonCode(), err.(*Error).Reason())
}

func TestUserService_Login(t *testing.T) {
	svc, _, histories := newService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, model.RegisterReq{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, model.LoginReq{Username: "alice", Password: "secret1", Ip: "10.0.0.1", Hardware: "pc"})
	require.NoError(t, err)
	require.Equal(t, reg.UId, resp.UId)
	require.Equal(t, "token-"+reg.UId, resp.Session)

	require.Len(t, histories.list, 1)
	require.Equal(t, "10.0.0.1", histories.list[0].Ip)
	require.Equal(t, domain.LoginSuccess, histories.list[0].State)
}

func TestUserService_Login_失败场景(t *testing.T) {
	svc, users, histories := newService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, model.RegisterReq{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginReq{Username: "nobody", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, ReasonUserNotExist.ReasonCode(), err.(*Error).Reason())

	_, err = svc.Login(ctx, model.LoginReq{Username: "alice", Password: "wrong!"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, 401, errx.HTTPStatus(err))

	_, err = svc.Login(ctx, model.LoginReq{Username: "alice"})
	require.ErrorIs(t, err, ErrReqParamERR)

	u := users.users[reg.UId]
	u.Status = domain.UserDisabled
	users.users[reg.UId] = u
	_, err = svc.Login(ctx, model.LoginReq{Username: "alice", Password: "secret1"})
	require.ErrorIs(t, err, ErrUserDisabled)

	require.Empty(t, histories.list)
}

func TestUserService_Login_签发与记录失败(t *testing.T) {
	svc, _, histories := newService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, model.RegisterReq{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	svc.tokens = fakeTokens{err: errors.New("no key")}
	_, err = svc.Login(ctx, model.LoginReq{Username: "alice", Password: "secret1"})
	require.ErrorIs(t, err, ErrInternalServer)
	require.NotEmpty(t, err.(*Error).Stack())

	svc.tokens = fakeTokens{}
	histories.failSave = errors.New("disk full")
	_, err = svc.Login(ctx, model.LoginReq{Username: "alice", Password: "secret1"})
	require.ErrorIs(t, err, ErrUnavailable)
	require.Equal(t, ReasonLoginHistoryWriteFail.ReasonCode(), err.(*Error).Reason())
}

func TestUserService_Profile(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	reg, err := svc.Register(ctx, model.RegisterReq{Username: "alice", Password: "secret1", Hardware: "pc"})
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		_, err = svc.Login(ctx, model.LoginReq{Username: "alice", Password: "secret1", Ip: fmt.Sprintf("10.0.0.%d", i)})
		require.NoError(t, err)
	}

	p, err := svc.Profile(ctx, reg.UId)
	require.NoError(t, err)
	require.Equal(t, "alice", p.Username)
	require.Equal(t, "pc", p.Hardware)
	require.Len(t, p.RecentLogins, recentLoginLimit)
	require.Equal(t, "10.0.0.6", p.RecentLogins[0].Ip)

	_, err = svc.Profile(ctx, "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
	require.Equal(t, 404, errx.HTTPStatus(err))
}
