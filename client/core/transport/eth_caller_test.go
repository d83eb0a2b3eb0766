package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeNode 记录 eth_call 参数并返回固定输出
type fakeNode struct {
	mu     sync.Mutex
	calls  []map[string]interface{}
	blocks []string
	output []byte
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var result interface{}
	switch req.Method {
	case "eth_call":
		var msg map[string]interface{}
		_ = json.Unmarshal(req.Params[0], &msg)
		var block string
		_ = json.Unmarshal(req.Params[1], &block)
		n.mu.Lock()
		n.calls = append(n.calls, msg)
		n.blocks = append(n.blocks, block)
		n.mu.Unlock()
		result = hexutil.Encode(n.output)
	case "eth_blockNumber":
		result = "0x10"
	default:
		result = nil
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.ID,
		"result":  result,
	})
}

func (n *fakeNode) inputOf(i int) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if v, ok := n.calls[i]["input"].(string); ok {
		return v
	}
	v, _ := n.calls[i]["data"].(string)
	return v
}

func TestEthCallerCall(t *testing.T) {
	node := &fakeNode{output: []byte{0xca, 0xfe}}
	srv := httptest.NewServer(node)
	defer srv.Close()

	caller, err := DialEthCaller(context.Background(), srv.URL, nil, time.Second)
	require.NoError(t, err)
	defer caller.Close()

	out, err := caller.Call(context.Background(), []byte{0x60, 0x80})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xca, 0xfe}, out)

	require.Len(t, node.calls, 1)
	assert.Nil(t, node.calls[0]["to"])
	assert.Equal(t, "0x6080", node.inputOf(0))
	assert.Equal(t, "latest", node.blocks[0])
	assert.Equal(t, srv.URL, caller.Endpoint())
}

func TestEthCallerPinnedBlock(t *testing.T) {
	node := &fakeNode{output: []byte{0x01}}
	srv := httptest.NewServer(node)
	defer srv.Close()

	block := uint64(1200)
	caller, err := DialEthCaller(context.Background(), srv.URL, &block, 0)
	require.NoError(t, err)
	defer caller.Close()

	_, err = caller.Call(context.Background(), []byte{0x60})
	require.NoError(t, err)
	assert.Equal(t, "0x4b0", node.blocks[0])

	require.NoError(t, caller.Ping(context.Background()))
}
