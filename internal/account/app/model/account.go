package model

import "time"

type RegisterReq struct {
	Username string
	Password string
	Hardware string
}

type RegisterResp struct {
	UId      string
	Username string
}

type LoginReq struct {
	Username string
	Password string
	Ip       string
	Hardware string
}

type LoginResp struct {
	UId      string
	Username string
	Session  string
}

type LoginRecord struct {
	Ip       string
	Hardware string
	Time     time.Time
}

type Profile struct {
	UId          string
	Username     string
	Hardware     string
	Ctime        time.Time
	RecentLogins []LoginRecord
}
