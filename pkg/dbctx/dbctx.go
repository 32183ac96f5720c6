package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context 将请求上下文与可选的 GORM 事务绑定在一起，
// 在一次操作的各个步骤之间传递，保证它们提交或回滚在同一个事务里。
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func New(ctx context.Context) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return Context{Ctx: ctx}
}

func WithTx(ctx context.Context, tx *gorm.DB) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return Context{Ctx: ctx, Tx: tx}
}

// DB 返回本次调用应当使用的连接：有事务用事务，否则退回到 fallback
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	db := c.Tx
	if db == nil {
		db = fallback
	}
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return db.WithContext(ctx)
}

func (c Context) InTx() bool {
	return c.Tx != nil
}
