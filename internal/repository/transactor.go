package repository

import "context"

// Transactor 为一组存储操作提供事务边界。
// fn 收到的 ctx 携带事务, 同一 ctx 传给各个 Repository 即可参与该事务。
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
