// Package optimize advisor推荐引擎
package optimize

import (
	"github.com/uniyakcom/tjson/json"
)

// Advised 推荐配置
type Advised struct {
	Profile *Profile
	Parse   json.Config
	Arena   json.ArenaConfig
	Workers int
	Shared  bool // 单 goroutine 场景使用进程级默认 Arena
}

// Advisor 推荐引擎
type Advisor struct{}

// NewAdvisor 创建推荐引擎
func NewAdvisor() *Advisor {
	return &Advisor{}
}

// Advise 根据Profile推荐配置
func (a *Advisor) Advise(p *Profile) *Advised {
	advised := &Advised{
		Profile: p,
		Parse:   *json.DefaultConfig(),
		Arena:   json.DefaultArenaConfig(),
		Workers: p.Workers,
	}
	advised.Parse.StrictNumbers = p.Strict
	if p.MaxDepth > 0 {
		advised.Parse.MaxDepth = p.MaxDepth
	}

	switch p.Mem {
	case "min":
		advised.Arena = json.ArenaConfig{Increment: 1, MaxClass: 512}
	case "unlimited":
		advised.Arena.Increment = 4
	default:
		advised.Shared = advised.Workers == 0
	}

	if advised.Workers < 0 {
		advised.Workers = p.Cores
	}
	if advised.Workers > 4*p.Cores && p.Cores > 0 {
		advised.Workers = 4 * p.Cores
	}
	return advised
}
