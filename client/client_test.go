package client

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkconfig "github.com/weisyn/prophet-sdk/internal/config/sdk"
	"github.com/weisyn/prophet-sdk/internal/core/batch"
	"github.com/weisyn/prophet-sdk/internal/core/metadata"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

const httpModuleABI = `[
  {"type":"function","name":"decodeRequestData","stateMutability":"pure",
   "inputs":[{"name":"_data","type":"bytes"}],
   "outputs":[{"name":"_params","type":"tuple","components":[
     {"name":"url","type":"string"},
     {"name":"amount","type":"uint256"}]}]},
  {"type":"function","name":"moduleName","stateMutability":"pure",
   "inputs":[],"outputs":[{"name":"_moduleName","type":"string"}]}
]`

var httpModule = common.HexToAddress("0x00000000000000000000000000000000000000b1")

// fakeBackend 只响应 moduleName 调用
type fakeBackend struct {
	closed bool
}

func (f *fakeBackend) Call(context.Context, []byte) ([]byte, error) { return nil, nil }

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) CallContract(_ context.Context, _ ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	str, _ := abi.NewType("string", "", nil)
	return abi.Arguments{{Type: str}}.Pack("HttpRequestModule")
}

func (f *fakeBackend) Ping(context.Context) error { return nil }
func (f *fakeBackend) Close()                     { f.closed = true }

type fakePinner struct{ pinned []types.RequestMetadata }

func (p *fakePinner) Pin(_ context.Context, md types.RequestMetadata) (common.Hash, error) {
	p.pinned = append(p.pinned, md)
	return common.HexToHash("0x1234"), nil
}

func testConfig(t *testing.T) *sdkconfig.Config {
	t.Helper()
	dir := t.TempDir()
	abiPath := filepath.Join(dir, "HttpRequestModule.json")
	require.NoError(t, os.WriteFile(abiPath, []byte(httpModuleABI), 0o600))

	cfg := sdkconfig.DefaultConfig()
	cfg.Modules = []sdkconfig.ModuleConfig{{Address: httpModule.Hex(), ABIPath: abiPath}}
	return cfg
}

func newTestClient(t *testing.T, cfg *sdkconfig.Config, opts Options) *Client {
	t.Helper()
	if opts.Backend == nil {
		opts.Backend = &fakeBackend{}
	}
	c, err := New(context.Background(), cfg, opts)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestClientSchemaAndCodec(t *testing.T) {
	c := newTestClient(t, testConfig(t), Options{SkipTemplates: true})

	named, err := c.GetNamedDecodeRequestReturnTypes(httpModule)
	require.NoError(t, err)
	require.Len(t, named, 1)
	assert.Equal(t, "_params", named[0].Name)

	values := []any{[]any{"https://api.example.com/price", big.NewInt(42)}}
	data, err := c.EncodeRequestData(httpModule, values)
	require.NoError(t, err)

	decoded, err := c.DecodeRequestData(httpModule, data)
	require.NoError(t, err)
	assert.Equal(t, values, decoded)

	name, err := c.ModuleName(context.Background(), httpModule)
	require.NoError(t, err)
	assert.Equal(t, "HttpRequestModule", name)

	_, err = c.GetDecodeRequestReturnTypes(common.HexToAddress("0xdead"))
	assert.ErrorIs(t, err, types.ErrModuleNotFound)
}

func TestClientAddModule(t *testing.T) {
	c := newTestClient(t, testConfig(t), Options{SkipTemplates: true})
	other := common.HexToAddress("0x00000000000000000000000000000000000000b2")

	require.NoError(t, c.AddModule(other, []byte(httpModuleABI)))
	assert.ElementsMatch(t, []common.Address{httpModule, other}, c.Registry().KnownModules())

	assert.Error(t, c.AddModule(other, []byte("not json")))
}

func TestClientBatchUnavailable(t *testing.T) {
	c := newTestClient(t, testConfig(t), Options{SkipTemplates: true})

	_, err := c.BatchRequests(context.Background(), 0, 10)
	assert.ErrorIs(t, err, ErrBatchUnavailable)
	_, err = c.BatchModuleNames(context.Background(), []common.Address{httpModule})
	assert.ErrorIs(t, err, ErrBatchUnavailable)
}

func TestClientLoadsTemplates(t *testing.T) {
	cfg := testConfig(t)
	cfg.Templates.Dir = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Templates.Dir, cfg.Templates.Version), 0o700))
	for _, k := range batch.AllKinds {
		path := filepath.Join(cfg.Templates.Dir, cfg.Templates.Version, k.Artifact()+".json")
		require.NoError(t, os.WriteFile(path, []byte(`{"bytecode":"0x6080"}`), 0o600))
	}

	c := newTestClient(t, cfg, Options{})
	assert.NotNil(t, c.retriever)

	missing := testConfig(t)
	missing.Templates.Dir = t.TempDir()
	_, err := New(context.Background(), missing, Options{Backend: &fakeBackend{}})
	assert.Error(t, err)
}

func TestClientPublishMetadata(t *testing.T) {
	c := newTestClient(t, testConfig(t), Options{SkipTemplates: true})
	_, err := c.PublishMetadata(context.Background(), types.RequestModules{}, types.RequestMetadata{ResponseType: "bool"})
	assert.ErrorIs(t, err, ErrPinningUnavailable)

	pinner := &fakePinner{}
	c = newTestClient(t, testConfig(t), Options{SkipTemplates: true, Pinner: pinner})

	hash, err := c.PublishMetadata(context.Background(),
		types.RequestModules{RequestModule: httpModule},
		types.RequestMetadata{ResponseType: "uint256", Description: "price"})
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x1234"), hash)
	require.Len(t, pinner.pinned, 1)
	assert.Contains(t, pinner.pinned[0].ReturnedTypes, httpModule.Hex())

	_, err = c.PublishMetadata(context.Background(),
		types.RequestModules{FinalityModule: common.HexToAddress("0xdead")},
		types.RequestMetadata{ResponseType: "uint256"})
	assert.ErrorIs(t, err, metadata.ErrUnknownRequestModule)
	assert.Len(t, pinner.pinned, 1)
}

func TestClientGetMetadata(t *testing.T) {
	hash := common.HexToHash("0x892881a26552de5973645a16d74901c5cea44176ce1995d37afc4c15da6f8cf7")
	cid := metadata.Bytes32ToCid(hash)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ipfs/"+cid {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"responseType":"bool","description":"rain"}`))
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.IPFS.Gateways = []string{"http://127.0.0.1:1/ipfs"}
	c := newTestClient(t, cfg, Options{SkipTemplates: true})

	_, err := c.GetMetadata(context.Background(), hash)
	require.ErrorIs(t, err, metadata.ErrAllGatewaysFailed)

	c.AddAlternativeGateways([]string{srv.URL + "/ipfs"})
	md, err := c.GetMetadata(context.Background(), hash)
	require.NoError(t, err)
	assert.Equal(t, "rain", md.Description)
}

func TestClientCloseOnlyOwnedBackend(t *testing.T) {
	backend := &fakeBackend{}
	c, err := New(context.Background(), testConfig(t), Options{Backend: backend, SkipTemplates: true})
	require.NoError(t, err)
	c.Close()
	assert.False(t, backend.closed)
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := sdkconfig.DefaultConfig()
	cfg.RPCEndpoints = nil
	_, err := New(context.Background(), cfg, Options{Backend: &fakeBackend{}})
	assert.Error(t, err)
}
