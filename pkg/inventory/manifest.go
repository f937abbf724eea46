package inventory

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackinv/pkg/errors"
)

// Manifest is the decoded inventory file.
type Manifest struct {
	Name    string   `yaml:"name"`
	Domains []Domain `yaml:"domains"`
}

// Domain is a business domain owning components.
type Domain struct {
	ID         string      `yaml:"id"`
	Name       string      `yaml:"name"`
	Details    Details     `yaml:"details"`
	Components []Component `yaml:"components"`
}

// Component is a deployable unit, usually one repository.
type Component struct {
	ID            string    `yaml:"id"`
	Name          string    `yaml:"name"`
	Repository    string    `yaml:"repository"`
	Documentation string    `yaml:"documentation"`
	Language      string    `yaml:"language"`
	Frameworks    []string  `yaml:"frameworks"`
	Gateways      []Gateway `yaml:"gateways"`
	Details       Details   `yaml:"details"`
}

// Gateway exposes a component. Gateways with the same id (or name, when the
// id is omitted) are the same vertex.
type Gateway struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Routes []string `yaml:"routes"`
}

// key returns the gateway's identity within the manifest.
func (g Gateway) key() string {
	if g.ID != "" {
		return g.ID
	}
	return g.Name
}

// Load decodes a manifest. Unknown fields are rejected.
func Load(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if err == io.EOF {
			return &m, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode manifest")
	}
	return &m, nil
}

// Parse decodes a manifest held in memory.
func Parse(data []byte) (*Manifest, error) {
	return Load(bytes.NewReader(data))
}

// LoadFile reads and decodes the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open manifest %s", path)
	}
	defer f.Close()
	return Load(f)
}
