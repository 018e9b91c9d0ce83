package db

import (
	"testing"

	"PromiseRouter/internal/shared/serverconfig"
)

func TestDSN_默认字符集(t *testing.T) {
	got := DSN(serverconfig.MySQLConfig{Host: "127.0.0.1", Port: 3306, User: "u", Password: "p", DBName: "acc"})
	want := "u:p@tcp(127.0.0.1:3306)/acc?charset=utf8mb4&parseTime=True&loc=Local"
	if got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}
