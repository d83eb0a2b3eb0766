package batch

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/weisyn/prophet-sdk/client/core/transport"
	"github.com/weisyn/prophet-sdk/internal/core/abicodec"
	logimpl "github.com/weisyn/prophet-sdk/internal/core/infrastructure/log"
	"github.com/weisyn/prophet-sdk/internal/core/infrastructure/metrics"
	"github.com/weisyn/prophet-sdk/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// Retriever 批量读取器
type Retriever struct {
	caller    transport.Caller
	templates *Templates
	registry  common.Address

	logger  log.Logger
	metrics *metrics.Metrics
}

// NewRetriever 创建批量读取器
// registry 为注册表合约地址，作为范围查询与响应查询的第一个参数
func NewRetriever(caller transport.Caller, templates *Templates, registry common.Address, logger log.Logger, m *metrics.Metrics) *Retriever {
	return &Retriever{
		caller:    caller,
		templates: templates,
		registry:  registry,
		logger:    logimpl.NewModuleLogger(logger, "batch"),
		metrics:   m,
	}
}

// BatchRequests 读取 [start, start+count) 范围内的请求
func (r *Retriever) BatchRequests(ctx context.Context, start, count uint64) ([]types.RequestRecord, error) {
	query := rangeQuery(start, count)
	var out []types.RequestRecord
	err := r.run(ctx, KindRequests, query, func(decoded []any) (int, error) {
		list, err := asList(decoded[0])
		if err != nil {
			return 0, err
		}
		out, err = toRequestRecords(list)
		return len(out), err
	}, r.registry, new(big.Int).SetUint64(start), new(big.Int).SetUint64(count))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BatchResponses 读取指定请求的全部响应
func (r *Retriever) BatchResponses(ctx context.Context, requestID common.Hash) ([]types.ResponseRecord, error) {
	var out []types.ResponseRecord
	err := r.run(ctx, KindResponses, "requestId="+requestID.Hex(), func(decoded []any) (int, error) {
		list, err := asList(decoded[0])
		if err != nil {
			return 0, err
		}
		out, err = toResponseRecords(list)
		return len(out), err
	}, r.registry, [32]byte(requestID))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BatchDisputes 读取 [start, start+count) 范围内请求的争议
func (r *Retriever) BatchDisputes(ctx context.Context, start, count uint64) ([]types.DisputeRecord, error) {
	var out []types.DisputeRecord
	err := r.run(ctx, KindDisputes, rangeQuery(start, count), func(decoded []any) (int, error) {
		list, err := asList(decoded[0])
		if err != nil {
			return 0, err
		}
		out, err = toDisputeRecords(list)
		return len(out), err
	}, r.registry, new(big.Int).SetUint64(start), new(big.Int).SetUint64(count))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BatchRequestsForFinalize 读取 [start, start+count) 范围内请求的终结信息
func (r *Retriever) BatchRequestsForFinalize(ctx context.Context, start, count uint64) ([]types.RequestForFinalizeRecord, error) {
	var out []types.RequestForFinalizeRecord
	err := r.run(ctx, KindRequestsForFinalize, rangeQuery(start, count), func(decoded []any) (int, error) {
		list, err := asList(decoded[0])
		if err != nil {
			return 0, err
		}
		out, err = toRequestForFinalizeRecords(list)
		return len(out), err
	}, r.registry, new(big.Int).SetUint64(start), new(big.Int).SetUint64(count))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// BatchModuleNames 读取模块名称，顺序与 modules 一致
func (r *Retriever) BatchModuleNames(ctx context.Context, modules []common.Address) ([]types.ModuleNameRecord, error) {
	var out []types.ModuleNameRecord
	query := fmt.Sprintf("modules=%d", len(modules))
	err := r.run(ctx, KindModuleNames, query, func(decoded []any) (int, error) {
		var err error
		out, err = toModuleNameRecords(modules, decoded[0])
		return len(out), err
	}, append([]common.Address{}, modules...))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func rangeQuery(start, count uint64) string {
	return fmt.Sprintf("start=%d count=%d", start, count)
}

// run 批量调用骨架：构造调用数据 → 一次只读调用 → 按固定 Schema 解码 → 映射记录
// 任一步失败返回 BatchCallError，不返回部分结果
func (r *Retriever) run(ctx context.Context, kind Kind, query string, mapRecords func([]any) (int, error), args ...any) (err error) {
	started := time.Now()
	records := 0
	defer func() {
		r.metrics.ObserveBatch(string(kind), started, records, err)
		if err != nil {
			r.logger.Warnf("batch call failed: kind=%s %s err=%v", kind, query, err)
		}
	}()

	fail := func(cause error) error {
		return &types.BatchCallError{Kind: string(kind), Query: query, Err: cause}
	}

	template, err := r.templates.Template(kind)
	if err != nil {
		return fail(err)
	}
	payload, err := BuildPayload(template, kind.Arguments(), args...)
	if err != nil {
		return fail(err)
	}

	reply, err := r.caller.Call(ctx, payload)
	if err != nil {
		return fail(fmt.Errorf("call: %w", err))
	}

	decoded, err := abicodec.Decode(kind.ReplySchema(), reply)
	if err != nil {
		return fail(err)
	}
	if len(decoded) != 1 {
		return fail(fmt.Errorf("expected 1 decoded value, got %d", len(decoded)))
	}

	n, err := mapRecords(decoded)
	if err != nil {
		return fail(fmt.Errorf("map records: %w", err))
	}
	records = n

	r.logger.Debugf("batch call done: kind=%s %s payload=%dB reply=%dB records=%d elapsed=%s",
		kind, query, len(payload), len(reply), n, time.Since(started))
	return nil
}
