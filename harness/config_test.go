package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upf-go/sdk"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "harness.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
address: 127.0.0.1:9000
executable: ./bin/up-server
problems_dir: ./problems
extension: upf
timeout: 90s
instances:
  - basic
  - matchcellar
`)

	fc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", fc.Address)
	assert.Equal(t, "./bin/up-server", fc.Executable)
	assert.Equal(t, []string{"basic", "matchcellar"}, fc.Instances)

	cfg, err := fc.Config()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, filepath.Join("./problems", "basic.upf"), cfg.Corpus.Path("basic"))
	assert.Equal(t, []string{"basic", "matchcellar"}, cfg.Corpus.Instances)
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
executable: ./bin/up-server
problems_dir: ./problems
execuutable: typo
`)

	_, err := LoadFile(path)
	require.Error(t, err)

	var sdkErr *sdk.Error
	require.ErrorAs(t, err, &sdkErr)
	assert.Equal(t, sdk.KindConfiguration, sdkErr.Kind)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestFileConfigDefaultsToReferenceCorpus(t *testing.T) {
	fc := FileConfig{Executable: "solver", ProblemsDir: "problems"}

	cfg, err := fc.Config()
	require.NoError(t, err)
	assert.Equal(t, DefaultInstances, cfg.Corpus.Instances)
	assert.Nil(t, cfg.Build)
}

func TestFileConfigRequiresProblemsDir(t *testing.T) {
	_, err := FileConfig{Executable: "solver"}.Config()
	require.Error(t, err)
	assert.ErrorIs(t, err, sdk.ErrInvalidConfig)
}

func TestFileConfigBuildNeedsArtifact(t *testing.T) {
	fc := FileConfig{
		ProblemsDir:  "problems",
		BuildCommand: []string{"cargo", "build"},
	}

	_, err := fc.Config()
	require.Error(t, err)
	assert.ErrorIs(t, err, sdk.ErrInvalidConfig)
}

func TestFileConfigBuildCommandWiresBuildStep(t *testing.T) {
	fc := FileConfig{
		ProblemsDir:   "problems",
		BuildCommand:  []string{"cargo", "build"},
		BuildArtifact: "target/debug/up-server",
	}

	cfg, err := fc.Config()
	require.NoError(t, err)
	assert.NotNil(t, cfg.Build)
}

func TestFileConfigMalformedTimeout(t *testing.T) {
	fc := FileConfig{
		Executable:  "solver",
		ProblemsDir: "problems",
		Timeout:     "ninety seconds",
	}

	_, err := fc.Config()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed timeout")
}
