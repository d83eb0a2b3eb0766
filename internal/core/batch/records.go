package batch

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

// 解码结果按位置映射到记录结构体；字段顺序与 ReplySchema 一致

func toRequestRecords(list []any) ([]types.RequestRecord, error) {
	out := make([]types.RequestRecord, 0, len(list))
	for i, item := range list {
		f, err := fields(item, 4)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		var rec types.RequestRecord
		if rec.RequestID, err = asHash(f[0]); err != nil {
			return nil, fmt.Errorf("record %d requestId: %w", i, err)
		}
		responses, err := asList(f[1])
		if err != nil {
			return nil, fmt.Errorf("record %d responses: %w", i, err)
		}
		rec.Responses = make([]types.RequestResponse, 0, len(responses))
		for j, r := range responses {
			rf, err := fields(r, 3)
			if err != nil {
				return nil, fmt.Errorf("record %d response %d: %w", i, j, err)
			}
			var resp types.RequestResponse
			if resp.ResponseID, err = asHash(rf[0]); err != nil {
				return nil, fmt.Errorf("record %d response %d responseId: %w", i, j, err)
			}
			if resp.CreatedAt, err = asBig(rf[1]); err != nil {
				return nil, fmt.Errorf("record %d response %d createdAt: %w", i, j, err)
			}
			if resp.DisputeID, err = asHash(rf[2]); err != nil {
				return nil, fmt.Errorf("record %d response %d disputeId: %w", i, j, err)
			}
			rec.Responses = append(rec.Responses, resp)
		}
		if rec.FinalizedResponseID, err = asHash(f[2]); err != nil {
			return nil, fmt.Errorf("record %d finalizedResponseId: %w", i, err)
		}
		status, err := asUint8(f[3])
		if err != nil {
			return nil, fmt.Errorf("record %d disputeStatus: %w", i, err)
		}
		rec.DisputeStatus = types.DisputeStatus(status)
		out = append(out, rec)
	}
	return out, nil
}

func toResponseRecords(list []any) ([]types.ResponseRecord, error) {
	out := make([]types.ResponseRecord, 0, len(list))
	for i, item := range list {
		f, err := fields(item, 5)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		var rec types.ResponseRecord
		if rec.CreatedAt, err = asBig(f[0]); err != nil {
			return nil, fmt.Errorf("record %d createdAt: %w", i, err)
		}
		if rec.Proposer, err = asAddress(f[1]); err != nil {
			return nil, fmt.Errorf("record %d proposer: %w", i, err)
		}
		if rec.RequestID, err = asHash(f[2]); err != nil {
			return nil, fmt.Errorf("record %d requestId: %w", i, err)
		}
		if rec.DisputeID, err = asHash(f[3]); err != nil {
			return nil, fmt.Errorf("record %d disputeId: %w", i, err)
		}
		if rec.Response, err = asBytes(f[4]); err != nil {
			return nil, fmt.Errorf("record %d response: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func toDisputeRecords(list []any) ([]types.DisputeRecord, error) {
	out := make([]types.DisputeRecord, 0, len(list))
	for i, item := range list {
		f, err := fields(item, 4)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		var rec types.DisputeRecord
		if rec.RequestID, err = asHash(f[0]); err != nil {
			return nil, fmt.Errorf("record %d requestId: %w", i, err)
		}
		if rec.RequestCreatedAt, err = asBig(f[1]); err != nil {
			return nil, fmt.Errorf("record %d requestCreatedAt: %w", i, err)
		}
		if rec.IsFinalized, err = asBool(f[2]); err != nil {
			return nil, fmt.Errorf("record %d isFinalized: %w", i, err)
		}
		disputes, err := asList(f[3])
		if err != nil {
			return nil, fmt.Errorf("record %d disputes: %w", i, err)
		}
		rec.Disputes = make([]types.DisputeEntry, 0, len(disputes))
		for j, d := range disputes {
			df, err := fields(d, 5)
			if err != nil {
				return nil, fmt.Errorf("record %d dispute %d: %w", i, j, err)
			}
			var entry types.DisputeEntry
			if entry.DisputeID, err = asHash(df[0]); err != nil {
				return nil, fmt.Errorf("record %d dispute %d disputeId: %w", i, j, err)
			}
			if entry.ResponseID, err = asHash(df[1]); err != nil {
				return nil, fmt.Errorf("record %d dispute %d responseId: %w", i, j, err)
			}
			if entry.DisputeCreatedAt, err = asBig(df[2]); err != nil {
				return nil, fmt.Errorf("record %d dispute %d disputeCreatedAt: %w", i, j, err)
			}
			if entry.ResponseCreatedAt, err = asBig(df[3]); err != nil {
				return nil, fmt.Errorf("record %d dispute %d responseCreatedAt: %w", i, j, err)
			}
			status, err := asUint8(df[4])
			if err != nil {
				return nil, fmt.Errorf("record %d dispute %d status: %w", i, j, err)
			}
			entry.Status = types.DisputeStatus(status)
			rec.Disputes = append(rec.Disputes, entry)
		}
		out = append(out, rec)
	}
	return out, nil
}

func toRequestForFinalizeRecords(list []any) ([]types.RequestForFinalizeRecord, error) {
	out := make([]types.RequestForFinalizeRecord, 0, len(list))
	for i, item := range list {
		f, err := fields(item, 3)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		var rec types.RequestForFinalizeRecord
		if rec.RequestID, err = asHash(f[0]); err != nil {
			return nil, fmt.Errorf("record %d requestId: %w", i, err)
		}
		if rec.FinalizedAt, err = asBig(f[1]); err != nil {
			return nil, fmt.Errorf("record %d finalizedAt: %w", i, err)
		}
		responses, err := asList(f[2])
		if err != nil {
			return nil, fmt.Errorf("record %d responses: %w", i, err)
		}
		rec.Responses = make([]types.FinalizeResponse, 0, len(responses))
		for j, r := range responses {
			rf, err := fields(r, 2)
			if err != nil {
				return nil, fmt.Errorf("record %d response %d: %w", i, j, err)
			}
			var resp types.FinalizeResponse
			if resp.ResponseID, err = asHash(rf[0]); err != nil {
				return nil, fmt.Errorf("record %d response %d responseId: %w", i, j, err)
			}
			if resp.ResponseCreatedAt, err = asBig(rf[1]); err != nil {
				return nil, fmt.Errorf("record %d response %d responseCreatedAt: %w", i, j, err)
			}
			rec.Responses = append(rec.Responses, resp)
		}
		out = append(out, rec)
	}
	return out, nil
}

func toModuleNameRecords(modules []common.Address, value any) ([]types.ModuleNameRecord, error) {
	names, ok := value.([]string)
	if !ok {
		return nil, fmt.Errorf("expected string[], got %T", value)
	}
	if len(names) != len(modules) {
		return nil, fmt.Errorf("got %d names for %d modules", len(names), len(modules))
	}
	out := make([]types.ModuleNameRecord, len(names))
	for i, name := range names {
		out[i] = types.ModuleNameRecord{Module: modules[i], Name: name}
	}
	return out, nil
}

// ===== 值断言 =====

func asList(v any) ([]any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", v)
	}
	return list, nil
}

func fields(v any, n int) ([]any, error) {
	f, err := asList(v)
	if err != nil {
		return nil, err
	}
	if len(f) != n {
		return nil, fmt.Errorf("expected %d fields, got %d", n, len(f))
	}
	return f, nil
}

func asHash(v any) (common.Hash, error) {
	b, ok := v.([32]byte)
	if !ok {
		return common.Hash{}, fmt.Errorf("expected bytes32, got %T", v)
	}
	return common.Hash(b), nil
}

func asBig(v any) (*big.Int, error) {
	n, ok := v.(*big.Int)
	if !ok || n == nil {
		return nil, fmt.Errorf("expected uint256, got %T", v)
	}
	return n, nil
}

func asUint8(v any) (uint8, error) {
	n, ok := v.(uint8)
	if !ok {
		return 0, fmt.Errorf("expected uint8, got %T", v)
	}
	return n, nil
}

func asBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected bool, got %T", v)
	}
	return b, nil
}

func asAddress(v any) (common.Address, error) {
	a, ok := v.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("expected address, got %T", v)
	}
	return a, nil
}

func asBytes(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("expected bytes, got %T", v)
	}
	return b, nil
}
