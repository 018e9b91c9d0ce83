package domain

import "PromiseRouter/modules/kit/errx"

// Code 领域错误码：领域层只表达“是什么错”以及业务上下文（data），对外语义由应用层决定。
type Code = errx.Code

const (
	CodeUserNotFound    Code = "ACCOUNT_USER_NOT_FOUND"
	CodeInvalidPassword Code = "ACCOUNT_INVALID_PASSWORD"
	CodeUserDisabled    Code = "ACCOUNT_USER_DISABLED"
	CodeUserExist       Code = "ACCOUNT_USER_EXIST"
)

type Error = errx.Error

// 仓储与实体返回的哨兵错误，通过 WithData/WithCause 派生。
var (
	ErrUserNotFound    = errx.NewBiz(CodeUserNotFound, "")
	ErrInvalidPassword = errx.NewBiz(CodeInvalidPassword, "")
	ErrUserDisabled    = errx.NewBiz(CodeUserDisabled, "")
	ErrUserExist       = errx.NewBiz(CodeUserExist, "")
	// ErrSystemUnavailable 存储不可用，复用 kit 的统一系统码。
	ErrSystemUnavailable = errx.ErrUnavailable
)
