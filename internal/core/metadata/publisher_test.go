package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/prophet-sdk/pkg/types"
)

var (
	moduleA = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	moduleB = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	moduleC = common.HexToAddress("0x00000000000000000000000000000000000000a3")
)

type fakeSchemas struct {
	schemas map[common.Address][]types.SchemaNode
	errs    map[common.Address]error
}

func (f *fakeSchemas) KnownModules() []common.Address {
	return []common.Address{moduleA, moduleB, moduleC}
}

func (f *fakeSchemas) GetNamedDecodeRequestReturnTypes(addr common.Address) ([]types.SchemaNode, error) {
	if err, ok := f.errs[addr]; ok {
		return nil, err
	}
	return f.schemas[addr], nil
}

type recordingPinner struct {
	pinned []types.RequestMetadata
	hash   common.Hash
	err    error
}

func (p *recordingPinner) Pin(_ context.Context, md types.RequestMetadata) (common.Hash, error) {
	p.pinned = append(p.pinned, md)
	return p.hash, p.err
}

func newFakeSchemas() *fakeSchemas {
	return &fakeSchemas{
		schemas: map[common.Address][]types.SchemaNode{
			moduleA: {types.Tuple(types.TupleType, "params", types.Leaf("string", "url"))},
			moduleB: {},
		},
		errs: map[common.Address]error{
			moduleC: &types.DecodeFunctionMissingError{Address: moduleC},
		},
	}
}

func TestPublishFillsReturnedTypes(t *testing.T) {
	pinner := &recordingPinner{hash: common.HexToHash("0xabc")}
	p := NewPublisher(newFakeSchemas(), pinner, nil)

	md := types.RequestMetadata{
		ResponseType:  "uint256[]",
		Description:   "prices",
		ReturnedTypes: map[string][]types.SchemaNode{"stale": nil},
	}
	hash, err := p.Publish(context.Background(), md)
	require.NoError(t, err)
	assert.Equal(t, pinner.hash, hash)

	require.Len(t, pinner.pinned, 1)
	returned := pinner.pinned[0].ReturnedTypes
	assert.Len(t, returned, 2)
	assert.Contains(t, returned, moduleA.Hex())
	assert.Contains(t, returned, moduleB.Hex())
	assert.NotContains(t, returned, moduleC.Hex())
	assert.NotContains(t, returned, "stale")
}

func TestPublishInvalidResponseType(t *testing.T) {
	pinner := &recordingPinner{}
	p := NewPublisher(newFakeSchemas(), pinner, nil)

	for _, rt := range []string{"", "uint7", "bytes33", "tuple", "uint256[][]", "mapping"} {
		_, err := p.Publish(context.Background(), types.RequestMetadata{ResponseType: rt})
		assert.ErrorIs(t, err, ErrInvalidResponseType, rt)
	}
	assert.Empty(t, pinner.pinned)
}

func TestPublishSchemaErrorAborts(t *testing.T) {
	schemas := newFakeSchemas()
	schemas.errs[moduleB] = errors.New("boom")
	pinner := &recordingPinner{}

	_, err := NewPublisher(schemas, pinner, nil).Publish(context.Background(), types.RequestMetadata{ResponseType: "bool"})
	assert.ErrorContains(t, err, "boom")
	assert.Empty(t, pinner.pinned)
}

func TestPublishPinError(t *testing.T) {
	pinner := &recordingPinner{err: errors.New("pinata down")}
	_, err := NewPublisher(newFakeSchemas(), pinner, nil).Publish(context.Background(), types.RequestMetadata{ResponseType: "address"})
	assert.ErrorContains(t, err, "pinata down")
}

func TestCheckRequestModules(t *testing.T) {
	p := NewPublisher(newFakeSchemas(), nil, nil)

	assert.NoError(t, p.CheckRequestModules(types.RequestModules{
		RequestModule:  moduleA,
		ResponseModule: moduleB,
	}))

	err := p.CheckRequestModules(types.RequestModules{
		RequestModule: moduleA,
		DisputeModule: common.HexToAddress("0xdead"),
	})
	require.ErrorIs(t, err, ErrUnknownRequestModule)
	assert.Contains(t, err.Error(), "disputeModule")
}
