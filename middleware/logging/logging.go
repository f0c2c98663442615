// Package logging 提供文档处理日志中间件。
//
// 记录每个文档的处理耗时、输入大小和错误信息。使用 log/slog。
//
//	cfg.Middleware = append(cfg.Middleware, logging.New(slog.Default()))
package logging

import (
	"log/slog"
	"time"

	"github.com/uniyakcom/tjson/batch"
)

// New 创建日志中间件。
func New(logger *slog.Logger) batch.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(h batch.Handler) batch.Handler {
		return func(d *batch.Doc) error {
			start := time.Now()

			err := h(d)

			attrs := []any{
				"index", d.Index,
				"bytes", len(d.Src),
				"type", d.Root.Type().String(),
				"duration", time.Since(start),
			}

			if err != nil {
				logger.Error("doc handler failed", append(attrs, "error", err)...)
			} else {
				logger.Debug("doc processed", attrs...)
			}

			return err
		}
	}
}
