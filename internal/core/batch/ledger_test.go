package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/weisyn/prophet-sdk/internal/core/abicodec"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

var testRegistry = common.HexToAddress("0x00000000000000000000000000000000000000f0")

func testTemplates(t *testing.T) *Templates {
	t.Helper()
	code := make(map[Kind][]byte, len(AllKinds))
	for i, k := range AllKinds {
		code[k] = []byte{0x60, 0x80, 0x60, 0x40, byte(i + 1)}
	}
	tmpl, err := NewTemplates("test", code)
	require.NoError(t, err)
	return tmpl
}

type ledgerResponse struct {
	id        common.Hash
	createdAt int64
	proposer  common.Address
	disputeID common.Hash
	body      []byte
}

type ledgerRequest struct {
	id          common.Hash
	createdAt   int64
	finalizedAt int64
	finalized   common.Hash
	status      uint8
	responses   []ledgerResponse
}

// fakeLedger 模拟批量模板在节点上执行：识别模板、解析参数并编码回执
type fakeLedger struct {
	t         *testing.T
	templates *Templates
	requests  []ledgerRequest
	names     map[common.Address]string

	err      error
	truncate bool
	calls    int
	payloads [][]byte
}

func newFakeLedger(t *testing.T, templates *Templates, n int) *fakeLedger {
	l := &fakeLedger{t: t, templates: templates, names: map[common.Address]string{}}
	for i := 0; i < n; i++ {
		req := ledgerRequest{
			id:        common.BigToHash(big.NewInt(int64(1000 + i))),
			createdAt: int64(100 + i),
			status:    uint8(i % 4),
		}
		if i%3 == 0 {
			resp := ledgerResponse{
				id:        common.BigToHash(big.NewInt(int64(5000 + i))),
				createdAt: int64(200 + i),
				proposer:  common.BigToAddress(big.NewInt(int64(0xa0 + i))),
				disputeID: common.BigToHash(big.NewInt(int64(9000 + i))),
				body:      []byte(fmt.Sprintf("answer-%d", i)),
			}
			req.responses = append(req.responses, resp)
			req.finalized = resp.id
			req.finalizedAt = int64(300 + i)
		}
		l.requests = append(l.requests, req)
	}
	return l
}

func (l *fakeLedger) Call(_ context.Context, payload []byte) ([]byte, error) {
	l.calls++
	l.payloads = append(l.payloads, payload)
	if l.err != nil {
		return nil, l.err
	}

	for _, k := range AllKinds {
		tmpl, err := l.templates.Template(k)
		require.NoError(l.t, err)
		if !bytes.HasPrefix(payload, tmpl) {
			continue
		}
		args, err := k.Arguments().Unpack(payload[len(tmpl):])
		require.NoError(l.t, err)

		reply, err := abicodec.Encode(k.ReplySchema(), []any{l.execute(k, args)})
		require.NoError(l.t, err)
		if l.truncate {
			reply = reply[:len(reply)/2]
		}
		return reply, nil
	}
	return nil, errors.New("execution reverted: unknown template")
}

func (l *fakeLedger) page(args []any) []ledgerRequest {
	require.Equal(l.t, testRegistry, args[0].(common.Address))
	start := args[1].(*big.Int).Uint64()
	count := args[2].(*big.Int).Uint64()
	if start >= uint64(len(l.requests)) {
		return nil
	}
	end := start + count
	if end > uint64(len(l.requests)) {
		end = uint64(len(l.requests))
	}
	return l.requests[start:end]
}

func (l *fakeLedger) execute(k Kind, args []any) any {
	switch k {
	case KindRequests:
		out := []any{}
		for _, req := range l.page(args) {
			responses := []any{}
			for _, r := range req.responses {
				responses = append(responses, []any{[32]byte(r.id), big.NewInt(r.createdAt), [32]byte(r.disputeID)})
			}
			out = append(out, []any{[32]byte(req.id), responses, [32]byte(req.finalized), req.status})
		}
		return out

	case KindResponses:
		require.Equal(l.t, testRegistry, args[0].(common.Address))
		id := common.Hash(args[1].([32]byte))
		out := []any{}
		for _, req := range l.requests {
			if req.id != id {
				continue
			}
			for _, r := range req.responses {
				out = append(out, []any{big.NewInt(r.createdAt), r.proposer, [32]byte(req.id), [32]byte(r.disputeID), r.body})
			}
		}
		return out

	case KindDisputes:
		out := []any{}
		for _, req := range l.page(args) {
			disputes := []any{}
			for _, r := range req.responses {
				disputes = append(disputes, []any{
					[32]byte(r.disputeID), [32]byte(r.id),
					big.NewInt(r.createdAt + 1), big.NewInt(r.createdAt),
					req.status,
				})
			}
			out = append(out, []any{[32]byte(req.id), big.NewInt(req.createdAt), req.finalizedAt > 0, disputes})
		}
		return out

	case KindRequestsForFinalize:
		out := []any{}
		for _, req := range l.page(args) {
			responses := []any{}
			for _, r := range req.responses {
				responses = append(responses, []any{[32]byte(r.id), big.NewInt(r.createdAt)})
			}
			out = append(out, []any{[32]byte(req.id), big.NewInt(req.finalizedAt), responses})
		}
		return out

	case KindModuleNames:
		modules := args[0].([]common.Address)
		names := make([]string, len(modules))
		for i, m := range modules {
			names[i] = l.names[m]
		}
		return names
	}
	l.t.Fatalf("unexpected kind %s", k)
	return nil
}

func requestIDs(records []types.RequestRecord) []common.Hash {
	out := make([]common.Hash, len(records))
	for i, r := range records {
		out[i] = r.RequestID
	}
	return out
}
