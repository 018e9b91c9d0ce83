package app

import "PromiseRouter/modules/kit/errx"

// Code 表示应用层错误码（通常更贴近“业务语义/对外协议”）。
type Code = errx.Code

const (
	CodeInvalidCredentials Code = "AUTH_INVALID_CREDENTIAL"
	CodeUserExist          Code = "ACCOUNT_USER_EXIST"
	CodeUserNotFound       Code = "ACCOUNT_USER_NOT_FOUND"
	CodeUserDisabled       Code = "ACCOUNT_USER_DISABLED"
	// CodeInternalServer 复用 kit 的统一系统码（跨服务一致，便于告警/排障）。
	CodeInternalServer Code = errx.CodeInternal
	// CodeUnavailable 复用 kit 的统一系统码（跨服务一致，便于告警/排障）。
	CodeUnavailable Code = errx.CodeUnavailable
)

// Error 复用通用错误模型：对外语义(code/msg)、上下文(data)、溯源链(cause)、系统错误一次栈(stack)。
type Error = errx.Error

// 常用错误定义（哨兵错误）：禁止直接修改其 data/cause（通过 WithData/WithCause 派生新对象）。
var (
	ErrInvalidCredentials = errx.NewBiz(CodeInvalidCredentials, "用户名或密码错误").WithStatus(401)
	ErrUserExist          = errx.NewBiz(CodeUserExist, "用户已存在").WithStatus(409)
	ErrUserNotFound       = errx.NewBiz(CodeUserNotFound, "用户不存在").WithStatus(404)
	ErrUserDisabled       = errx.NewBiz(CodeUserDisabled, "账号已禁用").WithStatus(403)
	ErrReqParamERR        = errx.ErrReqParamERR
	ErrUnauthorized       = errx.ErrUnauthorized
	ErrInternalServer     = errx.ErrInternal
	ErrUnavailable        = errx.ErrUnavailable
)
