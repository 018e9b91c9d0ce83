package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt 实现 app.PasswordHasher。
type Bcrypt struct {
	cost int
}

// NewBcrypt cost 超出 bcrypt 允许范围时回退到默认值。
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(pwd string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(pwd), b.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (b *Bcrypt) Verify(hash, pwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pwd))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false
	}
	return err == nil
}
