package domain

import "time"

const (
	LoginFail    int8 = 0
	LoginSuccess int8 = 1
)

type LoginHistory struct {
	Id       string    `gorm:"column:id;type:char(36);primaryKey;comment:主键ID" bson:"_id" json:"id"`
	UId      string    `gorm:"column:uid;type:char(36);index:idx_uid_time;not null;comment:用户ID" bson:"uid" json:"uid"`
	CTime    time.Time `gorm:"column:ctime;autoCreateTime;index:idx_uid_time;comment:登录时间" bson:"ctime" json:"ctime"`
	Ip       string    `gorm:"column:ip;type:varchar(50);comment:IP地址" bson:"ip" json:"ip"`
	State    int8      `gorm:"column:state;default:1;comment:登录状态 1成功 0失败" bson:"state" json:"state"`
	Hardware string    `gorm:"column:hardware;type:varchar(255);comment:硬件信息" bson:"hardware" json:"hardware"`
}

func (LoginHistory) TableName() string {
	return "login_history"
}
