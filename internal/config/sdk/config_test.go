package sdk

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.json"), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig().RPCEndpoints, cfg.RPCEndpoints)
	assert.Equal(t, 30*time.Second, cfg.GetRequestTimeout())
	assert.Equal(t, 30*time.Minute, cfg.GetCacheLifeWindow())
	require.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prophet.json", `{
		"rpc_endpoints": ["http://node-a:8545", "http://node-b:8545"],
		"registry_address": "0x1111111111111111111111111111111111111111",
		"block_number": 1200,
		"request_timeout": "5s",
		"ipfs": {"gateways": ["https://gw-1/ipfs", "https://gw-2/ipfs"]}
	}`)
	envFile := writeFile(t, dir, ".env",
		"PROPHET_REGISTRY=0x2222222222222222222222222222222222222222\nPINATA_API_KEY=from-file\n")

	t.Setenv(EnvPinataAPIKey, "from-process")

	cfg, err := Load(path, envFile)
	require.NoError(t, err)

	assert.Equal(t, []string{"http://node-a:8545", "http://node-b:8545"}, cfg.RPCEndpoints)
	assert.Equal(t, common.HexToAddress("0x2222222222222222222222222222222222222222"), cfg.Registry())
	require.NotNil(t, cfg.BlockNumber)
	assert.EqualValues(t, 1200, *cfg.BlockNumber)
	assert.Equal(t, 5*time.Second, cfg.GetRequestTimeout())
	assert.Equal(t, "from-process", cfg.IPFS.PinataAPIKey)
	assert.Equal(t, []string{"https://gw-1/ipfs", "https://gw-2/ipfs"}, cfg.IPFS.Gateways)
}

func TestLoadRPCURLOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvRPCURL, "http://override:8545")

	cfg, err := Load("", filepath.Join(dir, "none.env"))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://override:8545"}, cfg.RPCEndpoints)
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `{"rpc_endpoints": [`)

	_, err := Load(path, filepath.Join(dir, "none.env"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no endpoints", func(c *Config) { c.RPCEndpoints = nil }, true},
		{"bad registry", func(c *Config) { c.RegistryAddress = "0xDEAD" }, true},
		{"bad timeout", func(c *Config) { c.RequestTimeout = "soon" }, true},
		{"module without abi", func(c *Config) {
			c.Modules = []ModuleConfig{{Address: "0x3333333333333333333333333333333333333333"}}
		}, true},
		{"module ok", func(c *Config) {
			c.Modules = []ModuleConfig{{Address: "0x3333333333333333333333333333333333333333", ABIPath: "a.json"}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
