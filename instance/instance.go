package instance

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/zonealloc/model"
	"gopkg.in/yaml.v3"
)

var (
	// ErrFormat is returned for unreadable or malformed instance documents.
	ErrFormat = errors.New("instance: malformed document")

	// ErrNames is returned when name lists disagree with the cost matrix.
	ErrNames = errors.New("instance: name count mismatch")
)

// Instance is a named assignment problem.
type Instance struct {
	Name      string      `yaml:"name,omitempty" json:"name,omitempty"`
	Resources []string    `yaml:"resources,omitempty" json:"resources,omitempty"`
	Zones     []string    `yaml:"zones,omitempty" json:"zones,omitempty"`
	Capacity  []int       `yaml:"capacity" json:"capacity"`
	Cost      [][]float64 `yaml:"cost" json:"cost"`
}

// Validate checks name counts and the model invariants.
func (in *Instance) Validate() error {
	if len(in.Resources) != 0 && len(in.Resources) != len(in.Cost) {
		return fmt.Errorf("%w: %d resource names for %d cost rows", ErrNames, len(in.Resources), len(in.Cost))
	}
	if len(in.Zones) != 0 && len(in.Zones) != len(in.Capacity) {
		return fmt.Errorf("%w: %d zone names for %d capacities", ErrNames, len(in.Zones), len(in.Capacity))
	}
	_, err := in.Model()

	return err
}

// Model builds the validated model.
func (in *Instance) Model() (*model.Model, error) {
	return model.New(in.Cost, in.Capacity)
}

// ResourceName returns the name of resource i, or "R<i>" when unnamed.
func (in *Instance) ResourceName(i int) string {
	if i >= 0 && i < len(in.Resources) && in.Resources[i] != "" {
		return in.Resources[i]
	}

	return fmt.Sprintf("R%d", i)
}

// ZoneName returns the name of zone j, or "Z<j>" when unnamed.
func (in *Instance) ZoneName(j int) string {
	if j >= 0 && j < len(in.Zones) && in.Zones[j] != "" {
		return in.Zones[j]
	}

	return fmt.Sprintf("Z%d", j)
}

// Parse decodes a YAML (or JSON) document. Unknown fields are rejected.
func Parse(data []byte) (*Instance, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var in Instance
	if err := dec.Decode(&in); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrFormat)
		}

		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return &in, nil
}

// LoadYAML reads and parses a YAML file.
func LoadYAML(path string) (*Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	in, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if in.Name == "" {
		in.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return in, nil
}

// Load reads path as CSV when its extension is .csv and as YAML otherwise.
func Load(path string) (*Instance, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return LoadCSV(path)
	}

	return LoadYAML(path)
}

// WriteYAML encodes in as YAML.
func (in *Instance) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(in); err != nil {
		return err
	}

	return enc.Close()
}
