package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifacts(t *testing.T, dir string, skip Kind) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o700))
	for i, k := range AllKinds {
		if k == skip {
			continue
		}
		content := `{"contractName": "` + k.Artifact() + `", "bytecode": "0x6080604052` + string(rune('0'+i)) + `0"}`
		if k == KindModuleNames {
			content = `{"bytecode": {"object": "0x60806040524f"}}`
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, k.Artifact()+".json"), []byte(content), 0o600))
	}
}

func TestLoadTemplates(t *testing.T) {
	root := t.TempDir()
	writeArtifacts(t, filepath.Join(root, "v1"), "")

	tmpl, err := LoadTemplates(root, "v1")
	require.NoError(t, err)
	assert.Equal(t, "v1", tmpl.Version())

	code, err := tmpl.Template(KindRequests)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52, 0x00}, code)

	names, err := tmpl.Template(KindModuleNames)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52, 0x4f}, names)

	assert.Equal(t, crypto.Keccak256Hash(names), tmpl.Digest(KindModuleNames))
}

func TestLoadTemplatesWithoutVersionDir(t *testing.T) {
	root := t.TempDir()
	writeArtifacts(t, root, "")

	tmpl, err := LoadTemplates(root, "")
	require.NoError(t, err)
	assert.Empty(t, tmpl.Version())
}

func TestLoadTemplatesMissingArtifact(t *testing.T) {
	root := t.TempDir()
	writeArtifacts(t, root, KindDisputes)

	_, err := LoadTemplates(root, "")
	require.Error(t, err)
	assert.ErrorContains(t, err, string(KindDisputes))
}

func TestLoadTemplatesBadBytecode(t *testing.T) {
	root := t.TempDir()
	writeArtifacts(t, root, "")
	bad := filepath.Join(root, KindResponses.Artifact()+".json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"bytecode": "6080zz"}`), 0o600))

	_, err := LoadTemplates(root, "")
	assert.Error(t, err)
}

func TestTemplateIsCopied(t *testing.T) {
	tmpl := testTemplates(t)

	code, err := tmpl.Template(KindRequests)
	require.NoError(t, err)
	code[0] = 0xff

	again, err := tmpl.Template(KindRequests)
	require.NoError(t, err)
	assert.Equal(t, byte(0x60), again[0])
}

func TestNewTemplatesRequiresAllKinds(t *testing.T) {
	_, err := NewTemplates("v1", map[Kind][]byte{KindRequests: {0x60}})
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for _, k := range AllKinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.NotEmpty(t, k.Artifact())
		assert.NotEmpty(t, k.ReplySchema())
	}
	_, err := ParseKind("votes")
	assert.Error(t, err)
}
