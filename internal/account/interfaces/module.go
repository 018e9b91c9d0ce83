package interfaces

import (
	"PromiseRouter/internal/account/interfaces/handler"
	"PromiseRouter/modules/kit/routerx"
)

// Prefix 账号模块挂载的路径前缀。
const Prefix = "/account"

type Module struct {
	account *handler.Account
}

func New(account *handler.Account) *Module { return &Module{account: account} }

func (m *Module) Register(root *routerx.Router) {
	root.Use(Prefix, m.account.Router())
}
