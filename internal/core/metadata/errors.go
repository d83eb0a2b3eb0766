// Package metadata 处理请求元数据：CID 与 bytes32 互转、网关读取、Pinata 固定以及发布前校验
package metadata

import "errors"

var (
	// ErrInvalidCID CID 不是 sha2-256/32 字节的 IPFS CIDv0
	ErrInvalidCID = errors.New("invalid ipfs cid")

	// ErrAllGatewaysFailed 所有网关镜像都读取失败
	ErrAllGatewaysFailed = errors.New("all ipfs gateways failed")

	// ErrMalformedMetadata 网关返回的内容不是 JSON
	ErrMalformedMetadata = errors.New("malformed metadata")

	// ErrInvalidResponseType 响应类型不是 Solidity 基本类型或其动态数组
	ErrInvalidResponseType = errors.New("invalid response type")

	// ErrUnknownRequestModule 请求引用了未注册的模块
	ErrUnknownRequestModule = errors.New("unknown request module")
)
