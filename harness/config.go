package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/upf-go/sdk"
)

// FileConfig is the YAML form of a validation run, for driving the harness
// from a checked-in file instead of flags.
//
//	address: 0.0.0.0:2222
//	executable: ./bin/up-server
//	problems_dir: ./problems
//	instances:
//	  - basic
//	  - matchcellar
type FileConfig struct {
	// Address overrides the endpoint address. Optional.
	Address string `yaml:"address"`

	// Executable is the solver binary. Required unless a build command is
	// given.
	Executable string `yaml:"executable"`

	// ProblemsDir is the directory holding serialized problems (required).
	ProblemsDir string `yaml:"problems_dir"`

	// Extension overrides the problem file extension. Optional.
	Extension string `yaml:"extension"`

	// Instances overrides the default corpus. Optional.
	Instances []string `yaml:"instances"`

	// Timeout bounds each individual solve, as a Go duration string
	// ("90s", "5m"). Optional.
	Timeout string `yaml:"timeout"`

	// BuildCommand, when set, is run before any solve and BuildArtifact
	// becomes the executable.
	BuildCommand []string `yaml:"build_command"`

	// BuildArtifact is the executable the build command produces.
	// Required when BuildCommand is set.
	BuildArtifact string `yaml:"build_artifact"`
}

// LoadFile reads a YAML run configuration. Unknown keys are rejected so a
// typo fails the run up front instead of silently falling back to a default.
func LoadFile(path string) (FileConfig, error) {
	const op = "harness.LoadFile"

	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, sdk.NewConfigurationError(op, err).
			WithContext(map[string]any{"path": path})
	}

	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return FileConfig{}, sdk.NewConfigurationError(op, err).
			WithContext(map[string]any{"path": path})
	}
	return fc, nil
}

// Config converts the file form into a run configuration.
func (fc FileConfig) Config() (Config, error) {
	const op = "FileConfig.Config"

	if fc.ProblemsDir == "" {
		return Config{}, sdk.NewConfigurationError(op,
			fmt.Errorf("%w: problems_dir is required", sdk.ErrInvalidConfig))
	}
	if len(fc.BuildCommand) > 0 && fc.BuildArtifact == "" {
		return Config{}, sdk.NewConfigurationError(op,
			fmt.Errorf("%w: build_artifact is required with build_command", sdk.ErrInvalidConfig))
	}

	var timeout time.Duration
	if fc.Timeout != "" {
		var err error
		timeout, err = time.ParseDuration(fc.Timeout)
		if err != nil {
			return Config{}, sdk.NewConfigurationError(op,
				fmt.Errorf("malformed timeout: %w", err))
		}
	}

	corpus := DefaultCorpus(fc.ProblemsDir)
	corpus.Ext = fc.Extension
	if len(fc.Instances) > 0 {
		corpus.Instances = fc.Instances
	}

	cfg := Config{
		Address:    fc.Address,
		Corpus:     corpus,
		Executable: fc.Executable,
		Timeout:    timeout,
	}
	if len(fc.BuildCommand) > 0 {
		cfg.Build = BuildStep{
			Command:  fc.BuildCommand,
			Artifact: fc.BuildArtifact,
		}.Build
	}
	return cfg, nil
}
