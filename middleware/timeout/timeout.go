// Package timeout 提供文档处理超时中间件。
//
// 为每个文档设置处理截止时间，超时后 context 取消。
// Handler 返回后根值即被释放，因此不支持 handler 超时后继续运行，
// 返回时总是 cancel。
//
//	cfg.Middleware = append(cfg.Middleware, timeout.New(5*time.Second))
package timeout

import (
	"context"
	"time"

	"github.com/uniyakcom/tjson/batch"
)

// New 创建超时中间件。
//
// 在文档 context 上设置 deadline，handler 可通过 d.Context().Done() 感知超时。
func New(d time.Duration) batch.Middleware {
	return func(h batch.Handler) batch.Handler {
		return func(doc *batch.Doc) error {
			parent := doc.Context()
			ctx, cancel := context.WithTimeout(parent, d)
			defer cancel()
			doc.SetContext(ctx)
			err := h(doc)
			doc.SetContext(parent)
			return err
		}
	}
}
