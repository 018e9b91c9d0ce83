package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAward_缺少secret应失败(t *testing.T) {
	if _, err := NewTokens("", time.Hour).Award("u1"); !errors.Is(err, ErrJWTSecretMissing) {
		t.Fatalf("期望 ErrJWTSecretMissing, got=%v", err)
	}
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	tokens := NewTokens("test-secret-123", time.Hour)

	token, err := tokens.Award("user-42")
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	claims, err := tokens.Parse(token)
	if err != nil {
		t.Fatalf("Parse err=%v", err)
	}
	if claims.Uid != "user-42" || claims.Subject != "user-42" {
		t.Fatalf("期望 claims.Uid==user-42, got=%+v", claims)
	}
}

func TestParse_过期与错误密钥(t *testing.T) {
	tokens := NewTokens("s1", time.Minute)
	token, err := tokens.Award("u")
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}

	if _, err = NewTokens("s2", time.Minute).Parse(token); !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Fatalf("期望签名错误, got=%v", err)
	}

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err = tokens.Parse(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("期望过期错误, got=%v", err)
	}
}
