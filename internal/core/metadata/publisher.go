package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	logimpl "github.com/weisyn/prophet-sdk/internal/core/infrastructure/log"
	"github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// SchemaSource 已知模块及其命名 Schema
type SchemaSource interface {
	KnownModules() []common.Address
	GetNamedDecodeRequestReturnTypes(address common.Address) ([]types.SchemaNode, error)
}

// Publisher 校验并上传请求元数据
type Publisher struct {
	modules SchemaSource
	pinner  Pinner
	logger  log.Logger
}

// NewPublisher 创建元数据发布器
func NewPublisher(modules SchemaSource, pinner Pinner, logger log.Logger) *Publisher {
	return &Publisher{
		modules: modules,
		pinner:  pinner,
		logger:  logimpl.NewModuleLogger(logger, "metadata"),
	}
}

// Publish 校验响应类型、填充 returnedTypes 后上传，返回 CID 摘要
//
// 缺少 decodeRequestData 的模块不写入 returnedTypes。
// 调用方传入的 ReturnedTypes 会被覆盖。
func (p *Publisher) Publish(ctx context.Context, md types.RequestMetadata) (common.Hash, error) {
	if !types.IsValidResponseType(md.ResponseType) {
		return common.Hash{}, fmt.Errorf("%w: %q", ErrInvalidResponseType, md.ResponseType)
	}
	if p.pinner == nil {
		return common.Hash{}, errors.New("no pinning service configured")
	}

	returned, err := p.returnedTypes()
	if err != nil {
		return common.Hash{}, err
	}
	md.ReturnedTypes = returned

	hash, err := p.pinner.Pin(ctx, md)
	if err != nil {
		return common.Hash{}, err
	}
	p.logger.Infof("元数据已发布: cid=%s modules=%d", Bytes32ToCid(hash), len(returned))
	return hash, nil
}

func (p *Publisher) returnedTypes() (map[string][]types.SchemaNode, error) {
	out := make(map[string][]types.SchemaNode)
	for _, addr := range p.modules.KnownModules() {
		schema, err := p.modules.GetNamedDecodeRequestReturnTypes(addr)
		if errors.Is(err, types.ErrDecodeFunctionMissing) {
			p.logger.Debugf("模块 %s 没有 decodeRequestData，跳过", addr.Hex())
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("returned types for %s: %w", addr.Hex(), err)
		}
		out[addr.Hex()] = schema
	}
	return out, nil
}

// CheckRequestModules 检查请求引用的非零模块都已注册
func (p *Publisher) CheckRequestModules(mods types.RequestModules) error {
	known := make(map[common.Address]struct{})
	for _, addr := range p.modules.KnownModules() {
		known[addr] = struct{}{}
	}
	for _, m := range mods.Named() {
		if m.Address == (common.Address{}) {
			continue
		}
		if _, ok := known[m.Address]; !ok {
			return fmt.Errorf("%w: %s: %s", ErrUnknownRequestModule, m.Name, m.Address.Hex())
		}
	}
	return nil
}
