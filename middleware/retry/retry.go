// Package retry 提供文档处理失败重试中间件。
//
// 支持指数退避、最大重试次数、自定义判断函数。解析本身是确定性的，
// 重试只作用于 Handler（例如把解析结果写入外部存储）。
//
//	cfg.Middleware = append(cfg.Middleware, retry.New(retry.Config{
//	    MaxRetries:      3,
//	    InitialInterval: 100 * time.Millisecond,
//	}))
package retry

import (
	"time"

	"github.com/uniyakcom/tjson/batch"
)

// Config 重试配置
type Config struct {
	// MaxRetries 最大重试次数（不含首次执行）。默认 3。
	MaxRetries int

	// InitialInterval 首次重试间隔。默认 100ms。
	InitialInterval time.Duration

	// MaxInterval 最大重试间隔（指数退避上限）。默认 10s。
	MaxInterval time.Duration

	// Multiplier 退避乘数。默认 2.0。
	Multiplier float64

	// ShouldRetry 自定义是否重试判断。为 nil 时所有 error 都重试。
	ShouldRetry func(err error) bool
}

func (c *Config) defaults() {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = 100 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = 10 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
}

// New 创建重试中间件。
func New(cfg Config) batch.Middleware {
	cfg.defaults()

	return func(h batch.Handler) batch.Handler {
		return func(d *batch.Doc) error {
			interval := cfg.InitialInterval

			for attempt := 0; ; attempt++ {
				err := h(d)
				if err == nil {
					return nil
				}

				if attempt >= cfg.MaxRetries {
					return err
				}

				if cfg.ShouldRetry != nil && !cfg.ShouldRetry(err) {
					return err
				}

				// 等待期间 context 取消则放弃
				timer := time.NewTimer(interval)
				select {
				case <-d.Context().Done():
					timer.Stop()
					return d.Context().Err()
				case <-timer.C:
				}

				// 指数退避
				interval = time.Duration(float64(interval) * cfg.Multiplier)
				if interval > cfg.MaxInterval {
					interval = cfg.MaxInterval
				}
			}
		}
	}
}
