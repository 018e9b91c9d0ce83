package domain

import (
	"errors"
	"fmt"
	"testing"

	"PromiseRouter/modules/kit/errx"
)

func TestError_Is_按错误码匹配(t *testing.T) {
	err := ErrUserNotFound.WithData("uid", "u1")
	wrapped := fmt.Errorf("wrap: %w", err)
	if !errors.Is(wrapped, ErrUserNotFound) {
		t.Fatalf("期望 errors.Is(wrapped, ErrUserNotFound) == true, wrapped=%v", wrapped)
	}
	if errors.Is(wrapped, ErrUserExist) {
		t.Fatalf("期望不同错误码不匹配, wrapped=%v", wrapped)
	}
}

func TestError_系统错误保留cause并捕获栈(t *testing.T) {
	cause := errors.New("db timeout")
	err := ErrSystemUnavailable.WithData("username", "alice").WithCause(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("期望 errors.Is(err, cause) == true, err=%v", err)
	}
	if errx.IsBiz(err) || len(err.Stack()) == 0 {
		t.Fatalf("期望存储不可用为系统错误并捕获栈, err=%v", err)
	}
}

func TestError_WithCause_业务错误不捕获栈(t *testing.T) {
	cause := errors.New("duplicate key")
	err := ErrUserExist.WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("期望业务类错误不捕获栈，got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链不丢，err=%v", err)
	}
	if ErrUserExist.Data() != nil {
		t.Fatalf("期望哨兵错误不被污染")
	}
}

func TestUser_CheckPassword(t *testing.T) {
	verify := func(hash, plaintext string) bool { return hash == "h:"+plaintext }
	u := User{Passwd: "h:pwd"}
	if !u.CheckPassword("pwd", verify) {
		t.Fatalf("期望密码校验通过")
	}
	if u.CheckPassword("", verify) || u.CheckPassword("bad", verify) {
		t.Fatalf("期望空密码/错误密码校验失败")
	}
	if (User{Status: UserDisabled}).Disabled() != true {
		t.Fatalf("期望 status=0 视为禁用")
	}
}

func TestUser_Authenticate(t *testing.T) {
	verify := func(hash, plaintext string) bool { return hash == "h:"+plaintext }
	u := User{UId: "u1", Passwd: "h:pwd", Status: UserNormal}
	if err := u.Authenticate("pwd", verify); err != nil {
		t.Fatalf("期望认证通过, err=%v", err)
	}
	if err := u.Authenticate("bad", verify); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("期望 ErrInvalidPassword, err=%v", err)
	}

	u.Status = UserDisabled
	if err := u.Authenticate("bad", verify); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("期望密码错误优先于禁用, err=%v", err)
	}
	err := u.Authenticate("pwd", verify)
	if !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("期望 ErrUserDisabled, err=%v", err)
	}
	if got := err.(*Error).Data()["uid"]; got != "u1" {
		t.Fatalf("期望 data.uid=u1, got=%v", got)
	}
}
