package mocks

import "context"

// Transactor 直接在调用方的 ctx 上执行 fn, 供服务层单元测试使用。
type Transactor struct {
	Calls int
}

// WithinTransaction 执行 fn 并返回其错误
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}
