package classify

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultAliases maps Python import names to the package names pip knows
// them by, for the cases where the two differ.
var defaultAliases = map[string]string{
	"bs4":     "beautifulsoup4",
	"sklearn": "scikit-learn",
	"cv2":     "opencv-python",
	"PIL":     "Pillow",
	"yaml":    "PyYAML",
}

// LoadAliases reads extra module-to-package aliases from a YAML file of the
// form `module: package`. A missing file is not an error; it returns an
// empty map.
func LoadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read aliases file: %w", err)
	}

	aliases := make(map[string]string)
	if err := yaml.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("failed to parse aliases file %s: %w", path, err)
	}
	return aliases, nil
}
