package app

import (
	"context"
	"errors"
	"regexp"
	"time"

	"PromiseRouter/internal/account/app/model"
	"PromiseRouter/internal/account/domain"
)

const recentLoginLimit = 5

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{4,20}$`)

type UserService struct {
	userRepo UserRepo
	lhRepo   LoginHistoryRepo
	hasher   PasswordHasher
	tokens   TokenIssuer
	newID    IDGen
	now      func() time.Time
}

func NewUserService(userRepo UserRepo, lhRepo LoginHistoryRepo, hasher PasswordHasher, tokens TokenIssuer, newID IDGen) *UserService {
	return &UserService{
		userRepo: userRepo,
		lhRepo:   lhRepo,
		hasher:   hasher,
		tokens:   tokens,
		newID:    newID,
		now:      time.Now,
	}
}

func (s *UserService) Register(ctx context.Context, req model.RegisterReq) (*model.RegisterResp, error) {
	if !usernamePattern.MatchString(req.Username) {
		return nil, ErrReqParamERR.WithMsg("用户名须为 4~20 位字母、数字或下划线")
	}
	if len(req.Password) < 6 {
		return nil, ErrReqParamERR.WithMsg("密码长度至少 6 位")
	}

	_, err := s.userRepo.GetUserByUserName(ctx, req.Username)
	switch {
	case err == nil:
		return nil, ErrUserExist.WithData("username", req.Username)
	case errors.Is(err, domain.ErrUserNotFound):
	default:
		return nil, ErrUnavailable.WithReason(ReasonUserRepoUnavailable).WithCause(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, ErrInternalServer.WithReason(ReasonPasswordHash).WithCause(err)
	}

	now := s.now()
	user := domain.User{
		UId:      s.newID(),
		Username: req.Username,
		Passwd:   hash,
		Hardware: req.Hardware,
		Status:   domain.UserNormal,
		Ctime:    now,
		Mtime:    now,
	}
	if err = s.userRepo.Create(ctx, user); err != nil {
		// 并发注册同名用户时由存储的唯一约束兜底
		if errors.Is(err, domain.ErrUserExist) {
			return nil, ErrUserExist.WithData("username", req.Username)
		}
		return nil, ErrUnavailable.WithReason(ReasonUserCreateFail).WithCause(err)
	}
	return &model.RegisterResp{UId: user.UId, Username: user.Username}, nil
}

// Login 处理登录流程
func (s *UserService) Login(ctx context.Context, req model.LoginReq) (*model.LoginResp, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrReqParamERR.WithMsg("用户名和密码不能为空")
	}
	user, err := s.userRepo.GetUserByUserName(ctx, req.Username)
	if err != nil {
		// 区分"用户不存在"（业务错误）和"存储挂了"（技术错误）
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return nil, ErrInvalidCredentials.WithReason(ReasonUserNotExist)
		default:
			return nil, ErrUnavailable.WithReason(ReasonUserRepoUnavailable).WithCause(err)
		}
	}
	if err = user.Authenticate(req.Password, s.hasher.Verify); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserDisabled):
			return nil, ErrUserDisabled.WithData("uid", user.UId)
		default:
			return nil, ErrInvalidCredentials.WithReason(ReasonPasswordInvalid)
		}
	}

	token, err := s.tokens.Award(user.UId)
	if err != nil {
		return nil, ErrInternalServer.WithReason(ReasonTokenIssue).WithData("uid", user.UId).WithCause(err)
	}

	lh := domain.LoginHistory{
		Id:       s.newID(),
		UId:      user.UId,
		CTime:    s.now(),
		Ip:       req.Ip,
		Hardware: req.Hardware,
		State:    domain.LoginSuccess,
	}
	if err = s.lhRepo.Save(ctx, lh); err != nil {
		return nil, ErrUnavailable.WithReason(ReasonLoginHistoryWriteFail).WithCause(err)
	}

	return &model.LoginResp{
		UId:      user.UId,
		Username: user.Username,
		Session:  token,
	}, nil
}

// Profile 查询用户资料与最近登录记录。
func (s *UserService) Profile(ctx context.Context, uid string) (*model.Profile, error) {
	user, err := s.userRepo.GetUserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrUserNotFound.WithData("uid", uid)
		}
		return nil, ErrUnavailable.WithReason(ReasonUserRepoUnavailable).WithCause(err)
	}

	histories, err := s.lhRepo.ListByUser(ctx, uid, recentLoginLimit)
	if err != nil {
		return nil, ErrUnavailable.WithReason(ReasonLoginHistoryReadFail).WithCause(err)
	}
	p := &model.Profile{
		UId:      user.UId,
		Username: user.Username,
		Hardware: user.Hardware,
		Ctime:    user.Ctime,
	}
	for _, h := range histories {
		p.RecentLogins = append(p.RecentLogins, model.LoginRecord{Ip: h.Ip, Hardware: h.Hardware, Time: h.CTime})
	}
	return p, nil
}
