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

// mapFetcher 以 map 代替网关
type mapFetcher map[string]string

func (m mapFetcher) Fetch(_ context.Context, cid string) ([]byte, error) {
	v, ok := m[cid]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(v), nil
}

func TestServiceGetters(t *testing.T) {
	hash := common.HexToHash("0x40b85527d4a2f0ad54e78f3ac3f22e752eaef17eb1ad8faa9d95acef423d1ccd")
	s := NewService(mapFetcher{
		Bytes32ToCid(hash): `{
			"responseType": "uint256",
			"description": "ETH/USD",
			"returnedTypes": {
				"0x00000000000000000000000000000000000000a1": [{"name":"url","type":"string"}]
			}
		}`,
	})
	ctx := context.Background()

	md, err := s.GetMetadata(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, "uint256", md.ResponseType)

	rt, err := s.GetResponseType(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, "uint256", rt)

	desc, err := s.GetDescription(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, "ETH/USD", desc)

	returned, err := s.GetReturnedTypes(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, []types.SchemaNode{{Name: "url", Type: "string"}},
		returned["0x00000000000000000000000000000000000000a1"])
}

func TestServiceErrors(t *testing.T) {
	bad := common.HexToHash("0x01")
	s := NewService(mapFetcher{Bytes32ToCid(bad): "{not json"})

	_, err := s.GetMetadata(context.Background(), bad)
	assert.ErrorContains(t, err, "parse metadata")

	_, err = s.GetDescription(context.Background(), common.HexToHash("0x02"))
	assert.ErrorContains(t, err, "not found")
}
