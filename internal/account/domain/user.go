package domain

import "time"

const (
	UserDisabled int8 = 0
	UserNormal   int8 = 1
)

type User struct {
	UId      string    `gorm:"column:uid;type:char(36);primaryKey;comment:用户ID" bson:"_id" json:"uid"`
	Username string    `gorm:"column:username;type:varchar(20);uniqueIndex;not null;comment:用户名" bson:"username" json:"username"`
	Passwd   string    `gorm:"column:passwd;type:varchar(255);comment:密码哈希" bson:"passwd" json:"-"`
	Hardware string    `gorm:"column:hardware;type:varchar(100);comment:硬件指纹" bson:"hardware" json:"hardware"`
	Status   int8      `gorm:"column:status;default:1;comment:状态 1正常 0禁用" bson:"status" json:"status"`
	Ctime    time.Time `gorm:"column:ctime;autoCreateTime;comment:创建时间" bson:"ctime" json:"ctime"`
	Mtime    time.Time `gorm:"column:mtime;autoUpdateTime;comment:更新时间" bson:"mtime" json:"mtime"`
}

func (User) TableName() string {
	return "user_info"
}

// CheckPassword verify 由调用方注入（bcrypt 等），领域层不关心哈希算法。
func (u User) CheckPassword(pwd string, verify func(hash, plaintext string) bool) bool {
	if pwd == "" || u.Passwd == "" {
		return false
	}
	return verify(u.Passwd, pwd)
}

func (u User) Disabled() bool {
	return u.Status == UserDisabled
}

// Authenticate 先校验密码再校验状态，密码错误时不暴露账号是否被禁用。
func (u User) Authenticate(pwd string, verify func(hash, plaintext string) bool) error {
	if !u.CheckPassword(pwd, verify) {
		return ErrInvalidPassword.WithData("uid", u.UId)
	}
	if u.Disabled() {
		return ErrUserDisabled.WithData("uid", u.UId)
	}
	return nil
}
