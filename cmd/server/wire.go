package main

import (
	"context"
	"fmt"
	"time"

	"PromiseRouter/internal/account/app"
	"PromiseRouter/internal/account/infra/crypto"
	"PromiseRouter/internal/account/infra/repo/memory"
	accountmongo "PromiseRouter/internal/account/infra/repo/mongodb"
	accountmysql "PromiseRouter/internal/account/infra/repo/mysql"
	"PromiseRouter/internal/account/interfaces"
	"PromiseRouter/internal/account/interfaces/handler"
	"PromiseRouter/internal/shared/infrastructure/db"
	"PromiseRouter/internal/shared/infrastructure/mongo"
	"PromiseRouter/internal/shared/logs"
	"PromiseRouter/internal/shared/security"
	"PromiseRouter/internal/shared/serverconfig"
	transporthttp "PromiseRouter/internal/shared/transport/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// store 账号模块依赖的存储，close 释放底层连接。
type store struct {
	users     app.UserRepo
	histories app.LoginHistoryRepo
	close     func()
}

func openStore(ctx context.Context, conf *serverconfig.Config) (*store, error) {
	switch conf.Account.Store {
	case serverconfig.StoreMemory:
		return &store{
			users:     memory.NewUserRepo(),
			histories: memory.NewLoginHistoryRepo(),
			close:     func() {},
		}, nil

	case serverconfig.StoreMySQL:
		gormDB, err := db.Open(ctx, conf.MySQL)
		if err != nil {
			return nil, err
		}
		if err = accountmysql.Migrate(ctx, gormDB); err != nil {
			_ = db.Close(gormDB)
			return nil, fmt.Errorf("migrate account tables: %w", err)
		}
		return &store{
			users:     accountmysql.NewUserRepo(gormDB),
			histories: accountmysql.NewLoginHistoryRepo(gormDB),
			close: func() {
				if err := db.Close(gormDB); err != nil {
					logs.Warn("close mysql failed", zap.Error(err))
				}
			},
		}, nil

	case serverconfig.StoreMongoDB:
		client, database, err := mongo.Open(ctx, conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, err
		}
		if err = accountmongo.EnsureIndexes(ctx, database); err != nil {
			_ = mongo.Close(context.Background(), client)
			return nil, fmt.Errorf("ensure account indexes: %w", err)
		}
		return &store{
			users:     accountmongo.NewUserRepo(database),
			histories: accountmongo.NewLoginHistoryRepo(database),
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := mongo.Close(ctx, client); err != nil {
					logs.Warn("close mongodb failed", zap.Error(err))
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown account store %q", conf.Account.Store)
}

func newServer(conf *serverconfig.Config, st *store) *transporthttp.Server {
	tokens := security.NewTokens(conf.Account.JWTSecret, conf.Account.TokenTTL)
	userService := app.NewUserService(st.users, st.histories, crypto.NewBcrypt(conf.Account.BcryptCost), tokens, uuid.NewString)

	server := transporthttp.NewHttpServer(conf.HTTPServer.Addr(), transporthttp.Options{
		Router:       conf.Router,
		CorsOrigins:  conf.HTTPServer.CorsOrigins,
		ReadTimeout:  conf.HTTPServer.ReadTimeout,
		WriteTimeout: conf.HTTPServer.WriteTimeout,
	}, logs.Kit())
	server.Register(interfaces.New(handler.NewAccount(userService, tokens, logs.Kit())))
	return server
}
