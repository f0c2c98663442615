// Package optimize factory工厂
package optimize

import (
	"log/slog"

	"github.com/uniyakcom/tjson/batch"
	"github.com/uniyakcom/tjson/json"
)

// BuildParser 根据推荐配置构建单文档 Parser
func BuildParser(advised *Advised) *json.Parser {
	cfg := advised.Parse
	if advised.Shared {
		cfg.Arena = json.DefaultArena()
	} else {
		cfg.Arena = json.NewArena(advised.Arena)
	}
	return json.NewParser(&cfg)
}

// BuildBatch 根据推荐配置构建批量解析器
func BuildBatch(advised *Advised, logger *slog.Logger, mws ...batch.Middleware) (*batch.Batch, error) {
	cfg := batch.DefaultConfig()
	if advised.Workers > 0 {
		cfg.Workers = advised.Workers
	}
	cfg.Parse = advised.Parse
	cfg.Arena = advised.Arena
	cfg.Middleware = mws
	cfg.Logger = logger
	return batch.New(cfg)
}
