// Package handlers 实现 HTTP 网关的只读端点
package handlers

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// Service 处理器依赖的 SDK 能力，由 client.Client 实现
type Service interface {
	Ping(ctx context.Context) error

	KnownModules() []common.Address
	GetDecodeRequestReturnTypes(address common.Address) ([]types.SchemaNode, error)
	GetNamedDecodeRequestReturnTypes(address common.Address) ([]types.SchemaNode, error)
	EncodeRequestDataJSON(address common.Address, raw []byte) ([]byte, error)
	DecodeRequestDataJSON(address common.Address, data []byte) ([]any, error)
	ModuleName(ctx context.Context, address common.Address) (string, error)

	BatchRequests(ctx context.Context, start, count uint64) ([]types.RequestRecord, error)
	BatchResponses(ctx context.Context, requestID common.Hash) ([]types.ResponseRecord, error)
	BatchDisputes(ctx context.Context, start, count uint64) ([]types.DisputeRecord, error)
	BatchRequestsForFinalize(ctx context.Context, start, count uint64) ([]types.RequestForFinalizeRecord, error)
	BatchModuleNames(ctx context.Context, addresses []common.Address) ([]types.ModuleNameRecord, error)

	GetMetadata(ctx context.Context, ipfsHash common.Hash) (*types.RequestMetadata, error)
}
