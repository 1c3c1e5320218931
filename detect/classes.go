package detect

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultClassNames is used when no class-names file is configured. The
// service ships with a single-class bacteria model.
var DefaultClassNames = []string{"bacteria"}

// classFile mirrors the ultralytics data.yaml layout. The names key is
// either a plain list or an index-to-name map depending on the export tool.
type classFile struct {
	Names yaml.Node `yaml:"names"`
}

// LoadClassNames reads model class names from a data.yaml style file.
//
// Arguments:
//   - path: Path to the YAML file.
//
// Returns:
//   - []string: Class names ordered by model output index.
//   - error: An error if the file cannot be read or parsed.
func LoadClassNames(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading class names file")
	}

	var file classFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Wrap(err, "parsing class names file")
	}

	switch file.Names.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := file.Names.Decode(&names); err != nil {
			return nil, errors.Wrap(err, "decoding names list")
		}
		if len(names) == 0 {
			return nil, errors.New("names list is empty")
		}
		return names, nil

	case yaml.MappingNode:
		var indexed map[int]string
		if err := file.Names.Decode(&indexed); err != nil {
			return nil, errors.Wrap(err, "decoding names map")
		}
		if len(indexed) == 0 {
			return nil, errors.New("names map is empty")
		}
		indices := make([]int, 0, len(indexed))
		for idx := range indexed {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		names := make([]string, 0, len(indices))
		for _, idx := range indices {
			names = append(names, indexed[idx])
		}
		return names, nil

	default:
		return nil, errors.Errorf("unsupported names node in %s", path)
	}
}

// ClassName returns the label for a model class index, falling back to the
// first configured class for out-of-range indices (single-class models
// occasionally emit spurious indices through exported graphs).
func ClassName(names []string, index int) string {
	if index >= 0 && index < len(names) {
		return names[index]
	}
	if len(names) > 0 {
		return names[0]
	}
	return DefaultClassNames[0]
}
