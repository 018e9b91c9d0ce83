package dto

import "time"

type RegisterReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Hardware string `json:"hardware"`
}

type RegisterResp struct {
	UId      string `json:"uid"`
	Username string `json:"username"`
}

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Hardware string `json:"hardware"`
}

type LoginResp struct {
	UId      string `json:"uid"`
	Username string `json:"username"`
	Session  string `json:"session"` // token
}

type LoginRecord struct {
	Ip       string    `json:"ip"`
	Hardware string    `json:"hardware"`
	Time     time.Time `json:"time"`
}

type ProfileResp struct {
	UId          string        `json:"uid"`
	Username     string        `json:"username"`
	Hardware     string        `json:"hardware"`
	Ctime        time.Time     `json:"ctime"`
	RecentLogins []LoginRecord `json:"recent_logins,omitempty"`
}
