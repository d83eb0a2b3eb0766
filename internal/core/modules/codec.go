package modules

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/weisyn/prophet-sdk/internal/core/abicodec"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// EncodeRequestData 按模块的位置 Schema 编码请求数据
func (r *Registry) EncodeRequestData(address common.Address, values []any) ([]byte, error) {
	schema, err := r.GetDecodeRequestReturnTypes(address)
	if err != nil {
		return nil, err
	}
	data, err := abicodec.Encode(schema, values)
	if err != nil {
		var encErr *types.EncodingError
		if errors.As(err, &encErr) {
			encErr.Address = address
		}
		return nil, err
	}
	return data, nil
}

// DecodeRequestData 按模块的位置 Schema 解码请求数据
func (r *Registry) DecodeRequestData(address common.Address, data []byte) ([]any, error) {
	schema, err := r.GetDecodeRequestReturnTypes(address)
	if err != nil {
		return nil, err
	}
	values, err := abicodec.Decode(schema, data)
	if err != nil {
		var decErr *types.DecodingError
		if errors.As(err, &decErr) {
			decErr.Address = address
		}
		return nil, err
	}
	return values, nil
}

// EncodeRequestDataJSON 将 JSON 值数组按模块 Schema 转换后编码
func (r *Registry) EncodeRequestDataJSON(address common.Address, raw []byte) ([]byte, error) {
	schema, err := r.GetDecodeRequestReturnTypes(address)
	if err != nil {
		return nil, err
	}
	values, err := abicodec.ValuesFromJSON(schema, raw)
	if err != nil {
		var encErr *types.EncodingError
		if errors.As(err, &encErr) {
			encErr.Address = address
		}
		return nil, err
	}
	return r.EncodeRequestData(address, values)
}

// DecodeRequestDataJSON 解码请求数据并转换为可 JSON 序列化的值
func (r *Registry) DecodeRequestDataJSON(address common.Address, data []byte) ([]any, error) {
	values, err := r.DecodeRequestData(address, data)
	if err != nil {
		return nil, err
	}
	schema, err := r.GetDecodeRequestReturnTypes(address)
	if err != nil {
		return nil, err
	}
	return abicodec.ValuesToJSON(schema, values)
}
