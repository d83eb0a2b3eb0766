package modules

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// schemaEntry 单个模块的 Schema 缓存
// module 记录推导时的模块实例，注册表替换为新实例后重新推导
type schemaEntry struct {
	module     *Module
	positional []types.SchemaNode
	named      []types.SchemaNode
}

// GetDecodeRequestReturnTypes 返回模块 decodeRequestData 输出的位置 Schema（不含字段名）
func (r *Registry) GetDecodeRequestReturnTypes(address common.Address) ([]types.SchemaNode, error) {
	entry, err := r.schemaFor(address)
	if err != nil {
		return nil, err
	}
	return entry.positional, nil
}

// GetNamedDecodeRequestReturnTypes 返回模块 decodeRequestData 输出的命名 Schema
func (r *Registry) GetNamedDecodeRequestReturnTypes(address common.Address) ([]types.SchemaNode, error) {
	entry, err := r.schemaFor(address)
	if err != nil {
		return nil, err
	}
	return entry.named, nil
}

// schemaFor 查找或推导 Schema
// 并发未命中时可能重复推导，推导是纯函数，后写入者覆盖结果相同
func (r *Registry) schemaFor(address common.Address) (*schemaEntry, error) {
	m, err := r.GetModule(address)
	if err != nil {
		return nil, err
	}

	if cached, ok := r.schemas.Load(address); ok {
		if entry := cached.(*schemaEntry); entry.module == m {
			r.metrics.SchemaCacheHit()
			return entry, nil
		}
	}
	r.metrics.SchemaCacheMiss()

	outputs, err := decodeRequestOutputs(m)
	if err != nil {
		return nil, err
	}

	entry := &schemaEntry{
		module:     m,
		positional: buildSchema(outputs, false),
		named:      buildSchema(outputs, true),
	}
	r.schemas.Store(address, entry)
	r.logger.Debugf("schema built: module=%s outputs=%d", address.Hex(), len(outputs))
	return entry, nil
}

// decodeRequestOutputs 在接口描述中查找 decodeRequestData 的输出列表
func decodeRequestOutputs(m *Module) ([]types.TypeDescriptor, error) {
	fn, ok := m.Interface.FindFunction(types.DecodeRequestDataFunction)
	if !ok {
		return nil, &types.DecodeFunctionMissingError{Address: m.Address}
	}
	return fn.Outputs, nil
}

// buildSchema 递归构造 Schema 树
// 空输出列表返回非 nil 的空切片
func buildSchema(descs []types.TypeDescriptor, named bool) []types.SchemaNode {
	out := make([]types.SchemaNode, 0, len(descs))
	for _, d := range descs {
		out = append(out, buildNode(d, named))
	}
	return out
}

func buildNode(d types.TypeDescriptor, named bool) types.SchemaNode {
	name := ""
	if named {
		name = d.Name
	}
	if types.IsTupleType(d.Type) {
		return types.Tuple(d.Type, name, buildSchema(d.Components, named)...)
	}
	return types.Leaf(d.Type, name)
}
