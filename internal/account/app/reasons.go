package app

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{
		Code:    c,
		Message: m,
	}
}

var (
	// 业务拒绝 reason，记入日志，不对外暴露。
	ReasonUserNotExist    = NewReason("ACCOUNT_LOGIN_USER_NOT_EXIST", "用户不存在")
	ReasonPasswordInvalid = NewReason("ACCOUNT_LOGIN_PASSWORD_INVALID", "密码错误")
	ReasonTokenInvalid    = NewReason("ACCOUNT_TOKEN_INVALID", "令牌无效或已过期")
)

var (
	// 技术错误 reason，用于日志与排障。
	ReasonUserRepoUnavailable   = NewReason("USER_REPO_UNAVAILABLE", "用户存储库不可用")
	ReasonTokenIssue            = NewReason("TOKEN_ISSUE", "令牌签发失败")
	ReasonPasswordHash          = NewReason("PASSWORD_HASH_FAIL", "密码哈希失败")
	ReasonLoginHistoryWriteFail = NewReason("LOGIN_HISTORY_WRITE_FAIL", "登录历史写入失败")
	ReasonLoginHistoryReadFail  = NewReason("LOGIN_HISTORY_READ_FAIL", "登录历史读取失败")
	ReasonUserCreateFail        = NewReason("USER_CREATE_FAIL", "用户创建失败")
)
