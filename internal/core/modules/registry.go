// Package modules 管理已知模块，并基于模块接口动态推导请求数据的 Schema
//
// 注册表以整体替换的方式更新；Schema 按模块地址懒加载缓存，
// 编解码委托给 abicodec，不包含任何模块特定逻辑。
package modules

import (
	"bytes"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	logimpl "github.com/weisyn/prophet-sdk/internal/core/infrastructure/log"
	"github.com/weisyn/prophet-sdk/internal/core/infrastructure/metrics"
	"github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// Registry 已知模块注册表
type Registry struct {
	modules atomic.Pointer[map[common.Address]*Module]
	schemas sync.Map // common.Address -> *schemaEntry

	logger  log.Logger
	metrics *metrics.Metrics
}

// NewRegistry 创建注册表，modules 可为空
func NewRegistry(modules map[common.Address]*Module, logger log.Logger, m *metrics.Metrics) *Registry {
	r := &Registry{
		logger:  logimpl.NewModuleLogger(logger, "modules"),
		metrics: m,
	}
	r.SetKnownModules(modules)
	return r
}

// GetModule 按地址查找模块
func (r *Registry) GetModule(address common.Address) (*Module, error) {
	m, ok := (*r.modules.Load())[address]
	if !ok {
		return nil, &types.ModuleNotFoundError{Address: address}
	}
	return m, nil
}

// SetKnownModules 整体替换已知模块集合
//
// 调用方传入的 map 会被复制，之后的修改不影响注册表。
func (r *Registry) SetKnownModules(modules map[common.Address]*Module) {
	next := make(map[common.Address]*Module, len(modules))
	for addr, m := range modules {
		next[addr] = m
	}
	r.modules.Store(&next)
	r.logger.Debugf("known modules replaced: count=%d", len(next))
}

// KnownModules 返回已知模块地址（按字节序排序）
func (r *Registry) KnownModules() []common.Address {
	current := *r.modules.Load()
	out := make([]common.Address, 0, len(current))
	for addr := range current {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
