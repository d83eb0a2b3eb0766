package modules

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeString(t *testing.T, s string) []byte {
	t.Helper()
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	out, err := abi.Arguments{{Type: stringType}}.Pack(s)
	require.NoError(t, err)
	return out
}

func TestModuleName(t *testing.T) {
	caller := &fakeCaller{code: []byte{0x60}, result: encodeString(t, "HttpRequestModule")}
	m, err := NewModule(httpModuleAddr, []byte(httpModuleABI), caller)
	require.NoError(t, err)

	name, err := m.Name(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HttpRequestModule", name)

	require.Len(t, caller.calls, 1)
	require.NotNil(t, caller.calls[0].To)
	assert.Equal(t, httpModuleAddr, *caller.calls[0].To)
	assert.Equal(t, m.ABI.Methods["moduleName"].ID, caller.calls[0].Data)
}

func TestModuleNameErrors(t *testing.T) {
	offline := mustModule(t, httpModuleAddr, httpModuleABI)
	_, err := offline.Name(context.Background())
	assert.Error(t, err)

	caller := &fakeCaller{code: []byte{0x60}, err: errors.New("execution reverted")}
	m, err := NewModule(httpModuleAddr, []byte(httpModuleABI), caller)
	require.NoError(t, err)
	_, err = m.Name(context.Background())
	assert.ErrorContains(t, err, "execution reverted")

	noName, err := NewModule(emptyModuleAddr, []byte(emptyOutputsABI), caller)
	require.NoError(t, err)
	_, err = noName.Name(context.Background())
	assert.ErrorContains(t, err, "moduleName")
}

func TestNewModuleInvalidABI(t *testing.T) {
	_, err := NewModule(httpModuleAddr, []byte(`not json`), nil)
	assert.Error(t, err)

	_, err = NewModule(httpModuleAddr, []byte(`{"bytecode": "0x00"}`), nil)
	assert.Error(t, err)
}

const anonymousModuleABI = `[
	{
		"type": "function",
		"name": "decodeRequestData",
		"stateMutability": "view",
		"inputs": [{"name": "", "type": "bytes32"}],
		"outputs": [
			{
				"name": "",
				"type": "tuple[]",
				"components": [
					{
						"name": "",
						"type": "tuple",
						"components": [{"name": "", "type": "uint256"}]
					}
				]
			}
		]
	},
	{
		"type": "function",
		"name": "moduleName",
		"stateMutability": "pure",
		"inputs": [],
		"outputs": [{"name": "", "type": "string"}]
	}
]`

func TestNewModuleAnonymousTuples(t *testing.T) {
	addr := common.HexToAddress("0x00000000000000000000000000000000000000a5")
	caller := &fakeCaller{code: []byte{0x60}, result: encodeString(t, "AnonModule")}

	m, err := NewModule(addr, []byte(anonymousModuleABI), caller)
	require.NoError(t, err)
	assert.Nil(t, m.Binding)
	_, ok := m.Interface.FindFunction("decodeRequestData")
	assert.True(t, ok)

	_, err = m.Name(context.Background())
	assert.ErrorContains(t, err, "no contract binding")
	assert.Empty(t, caller.calls)

	r := NewRegistry(map[common.Address]*Module{addr: m}, nil, nil)

	positional, err := r.GetDecodeRequestReturnTypes(addr)
	require.NoError(t, err)
	require.Len(t, positional, 1)
	assert.Equal(t, "((uint256))[]", positional[0].String())

	named, err := r.GetNamedDecodeRequestReturnTypes(addr)
	require.NoError(t, err)
	assert.Equal(t, positional, named)

	values := []any{
		[]any{
			[]any{[]any{big.NewInt(7)}},
			[]any{[]any{big.NewInt(8)}},
		},
	}
	data, err := r.EncodeRequestData(addr, values)
	require.NoError(t, err)
	decoded, err := r.DecodeRequestData(addr, data)
	require.NoError(t, err)
	assert.Equal(t, values, decoded)
}
