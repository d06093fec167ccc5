package harness

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/upf-go/sdk"
)

// DefaultInstances is the reference validation corpus, in submission order.
var DefaultInstances = []string{
	"basic",
	"basic_without_negative_preconditions",
	"basic_nested_conjunctions",
	"hierarchical_blocks_world",
	"hierarchical_blocks_world_object_as_root",
	"hierarchical_blocks_world_with_object",
	"matchcellar",
}

// Corpus is an ordered list of named problem instances, each resolved to a
// file path under a common directory. The list is fixed input: the harness
// never reorders, filters, or retries it.
type Corpus struct {
	// Dir is the directory holding the serialized problem files.
	Dir string

	// Ext is the file extension of problem files, with or without the
	// leading dot. Empty means ".bin".
	Ext string

	// Instances are the instance names in submission order.
	Instances []string
}

// DefaultCorpus returns the reference corpus rooted at dir.
func DefaultCorpus(dir string) Corpus {
	return Corpus{
		Dir:       dir,
		Instances: slices.Clone(DefaultInstances),
	}
}

// Validate checks the corpus shape: at least one instance, no blank names.
func (c Corpus) Validate() error {
	const op = "Corpus.Validate"

	if len(c.Instances) == 0 {
		return sdk.NewConfigurationError(op,
			fmt.Errorf("%w: corpus has no instances", sdk.ErrInvalidConfig))
	}
	for i, name := range c.Instances {
		if strings.TrimSpace(name) == "" {
			return sdk.NewConfigurationError(op,
				fmt.Errorf("%w: blank instance name at position %d", sdk.ErrInvalidConfig, i))
		}
	}
	return nil
}

// Path resolves one instance name to its file path.
func (c Corpus) Path(name string) string {
	return filepath.Join(c.Dir, name+c.ext())
}

// Paths resolves every instance in order.
func (c Corpus) Paths() []string {
	out := make([]string, len(c.Instances))
	for i, name := range c.Instances {
		out[i] = c.Path(name)
	}
	return out
}

func (c Corpus) ext() string {
	if c.Ext == "" {
		return ".bin"
	}
	if strings.HasPrefix(c.Ext, ".") {
		return c.Ext
	}
	return "." + c.Ext
}
