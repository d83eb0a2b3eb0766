package modules

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weisyn/prophet-sdk/pkg/types"
)

func TestSchemaScenario(t *testing.T) {
	r := newTestRegistry(t)

	named, err := r.GetNamedDecodeRequestReturnTypes(httpModuleAddr)
	require.NoError(t, err)
	wantNamed := []types.SchemaNode{
		{Name: "url", Type: "string"},
		{Name: "amount", Type: "uint256"},
	}
	if diff := cmp.Diff(wantNamed, named); diff != "" {
		t.Fatalf("named schema mismatch (-want +got):\n%s", diff)
	}

	positional, err := r.GetDecodeRequestReturnTypes(httpModuleAddr)
	require.NoError(t, err)
	wantPositional := []types.SchemaNode{{Type: "string"}, {Type: "uint256"}}
	if diff := cmp.Diff(wantPositional, positional); diff != "" {
		t.Fatalf("positional schema mismatch (-want +got):\n%s", diff)
	}
}

func TestNamedAndPositionalEquivalent(t *testing.T) {
	r := newTestRegistry(t)

	for _, addr := range r.KnownModules() {
		if addr == noDecodeAddr {
			continue
		}
		named, err := r.GetNamedDecodeRequestReturnTypes(addr)
		require.NoError(t, err)
		positional, err := r.GetDecodeRequestReturnTypes(addr)
		require.NoError(t, err)

		if diff := cmp.Diff(positional, types.StripNames(named)); diff != "" {
			t.Errorf("module %s: stripped named schema differs (-positional +stripped):\n%s", addr.Hex(), diff)
		}
	}
}

func TestNestingDepth(t *testing.T) {
	r := newTestRegistry(t)

	schema, err := r.GetDecodeRequestReturnTypes(nestedModuleAddr)
	require.NoError(t, err)
	require.Len(t, schema, 1)

	root := schema[0]
	assert.Equal(t, 3, root.Depth())
	assert.Equal(t, "((((uint256))[]))", "("+root.String()+")")

	level1 := root
	require.Equal(t, types.TupleType, level1.Type)
	require.Len(t, level1.Components, 1)

	level2 := level1.Components[0]
	require.Equal(t, types.TupleArrayType, level2.Type)
	require.Len(t, level2.Components, 1)

	level3 := level2.Components[0]
	require.Equal(t, types.TupleType, level3.Type)
	require.Len(t, level3.Components, 1)

	leaf := level3.Components[0]
	assert.False(t, leaf.IsTuple())
	assert.Equal(t, "uint256", leaf.Type)
	assert.Nil(t, leaf.Components)

	named, err := r.GetNamedDecodeRequestReturnTypes(nestedModuleAddr)
	require.NoError(t, err)
	assert.Equal(t, "params", named[0].Name)
	assert.Equal(t, "rounds", named[0].Components[0].Name)
	assert.Equal(t, "amount", named[0].Components[0].Components[0].Components[0].Name)
}

func TestEmptyOutputs(t *testing.T) {
	r := newTestRegistry(t)

	schema, err := r.GetDecodeRequestReturnTypes(emptyModuleAddr)
	require.NoError(t, err)
	assert.NotNil(t, schema)
	assert.Empty(t, schema)
}

func TestDecodeFunctionMissing(t *testing.T) {
	r := newTestRegistry(t)

	for _, get := range []func() ([]types.SchemaNode, error){
		func() ([]types.SchemaNode, error) { return r.GetDecodeRequestReturnTypes(noDecodeAddr) },
		func() ([]types.SchemaNode, error) { return r.GetNamedDecodeRequestReturnTypes(noDecodeAddr) },
	} {
		_, err := get()
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrDecodeFunctionMissing))

		var missing *types.DecodeFunctionMissingError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, noDecodeAddr, missing.Address)
	}
}

func TestSchemaUnknownModule(t *testing.T) {
	r := NewRegistry(nil, nil, nil)
	_, err := r.GetNamedDecodeRequestReturnTypes(httpModuleAddr)
	assert.ErrorIs(t, err, types.ErrModuleNotFound)
}

func TestSchemaCachedPerModuleInstance(t *testing.T) {
	r := newTestRegistry(t)

	first, err := r.GetDecodeRequestReturnTypes(httpModuleAddr)
	require.NoError(t, err)
	second, err := r.GetDecodeRequestReturnTypes(httpModuleAddr)
	require.NoError(t, err)
	assert.Same(t, &first[0], &second[0])

	r.SetKnownModules(map[common.Address]*Module{
		httpModuleAddr: mustModule(t, httpModuleAddr, emptyOutputsABI),
	})
	third, err := r.GetDecodeRequestReturnTypes(httpModuleAddr)
	require.NoError(t, err)
	assert.Empty(t, third)
}
