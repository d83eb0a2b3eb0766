package modules

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	sdkconfig "github.com/weisyn/prophet-sdk/internal/config/sdk"
)

// LoadModules 根据配置读取 ABI 文件并构造模块集合
func LoadModules(configs []sdkconfig.ModuleConfig, caller bind.ContractCaller) (map[common.Address]*Module, error) {
	out := make(map[common.Address]*Module, len(configs))
	for _, c := range configs {
		if !common.IsHexAddress(c.Address) {
			return nil, fmt.Errorf("invalid module address %q", c.Address)
		}
		//nolint:gosec // G304: ABI 路径来自配置
		data, err := os.ReadFile(c.ABIPath)
		if err != nil {
			return nil, fmt.Errorf("reading abi for %s: %w", c.Address, err)
		}
		addr := common.HexToAddress(c.Address)
		m, err := NewModule(addr, data, caller)
		if err != nil {
			return nil, err
		}
		out[addr] = m
	}
	return out, nil
}
