package apptable

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes, for the dev-only packer stand-in (cmd/packer), which
// app binaries to pack into a test fixture image and in what order. It
// plays the role the real build's linker script + Makefile play for the
// original kernel (concatenating app ELFs behind the `_num_app` symbol);
// nothing in the kernel core reads a Manifest directly, only Table.
type Manifest struct {
	// Apps lists, in load order, the path to each app's raw binary image.
	Apps []ManifestApp `yaml:"apps"`
}

// ManifestApp is one packed app entry.
type ManifestApp struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// LoadManifest reads and parses a YAML app manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("apptable: reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("apptable: parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// Pack reads every app binary named in the manifest, in order, and returns
// a byte slice per app suitable for apptable.New.
func (m *Manifest) Pack() ([][]byte, error) {
	images := make([][]byte, 0, len(m.Apps))
	for _, app := range m.Apps {
		data, err := os.ReadFile(app.Path)
		if err != nil {
			return nil, fmt.Errorf("apptable: reading app %q: %w", app.Name, err)
		}
		images = append(images, data)
	}
	return images, nil
}
