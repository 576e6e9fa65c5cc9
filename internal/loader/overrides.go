package loader

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/hearthdata/affordability-cli/internal/model"
)

// defaultMetroOverrides maps dataset metro keys to the CBSA names exact-key
// matching cannot reach, where the dataset's shorthand differs from Census
// naming.
var defaultMetroOverrides = map[string]string{
	"dc_metro":   "Washington-Arlington-Alexandria, DC-VA-MD-WV",
	"boston, ma": "Boston-Cambridge-Newton, MA-NH",
}

// LoadOverrides returns the metro-name override map: built-in defaults,
// merged with entries from an optional YAML file (dataset key -> CBSA name)
// so data fixes don't require a rebuild. Keys are normalized on load.
func LoadOverrides(path string) (map[string]string, error) {
	out := make(map[string]string, len(defaultMetroOverrides))
	for k, v := range defaultMetroOverrides {
		out[model.NormalizeCityKey(k)] = v
	}
	if path == "" {
		return out, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataUnavailableError{Path: path, Err: err}
	}
	var file map[string]string
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &DataUnavailableError{Path: path, Err: eris.Wrap(err, "parse overrides yaml")}
	}
	for k, v := range file {
		out[model.NormalizeCityKey(k)] = v
	}
	return out, nil
}
