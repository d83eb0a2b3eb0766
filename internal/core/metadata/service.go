package metadata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// Service 按链上 bytes32 读取请求元数据
type Service struct {
	fetcher Fetcher
}

// NewService 创建元数据服务
func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// GetMetadata 读取并解析 ipfsHash 对应的元数据
func (s *Service) GetMetadata(ctx context.Context, ipfsHash common.Hash) (*types.RequestMetadata, error) {
	cid := Bytes32ToCid(ipfsHash)
	raw, err := s.fetcher.Fetch(ctx, cid)
	if err != nil {
		return nil, err
	}

	var md types.RequestMetadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", cid, err)
	}
	return &md, nil
}

// GetResponseType 返回请求的响应类型
func (s *Service) GetResponseType(ctx context.Context, ipfsHash common.Hash) (string, error) {
	md, err := s.GetMetadata(ctx, ipfsHash)
	if err != nil {
		return "", err
	}
	return md.ResponseType, nil
}

// GetReturnedTypes 返回各模块 decodeRequestData 的命名 Schema（键为模块地址）
func (s *Service) GetReturnedTypes(ctx context.Context, ipfsHash common.Hash) (map[string][]types.SchemaNode, error) {
	md, err := s.GetMetadata(ctx, ipfsHash)
	if err != nil {
		return nil, err
	}
	return md.ReturnedTypes, nil
}

// GetDescription 返回请求描述
func (s *Service) GetDescription(ctx context.Context, ipfsHash common.Hash) (string, error) {
	md, err := s.GetMetadata(ctx, ipfsHash)
	if err != nil {
		return "", err
	}
	return md.Description, nil
}
