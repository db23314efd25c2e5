// Package country loads a country's explorer configuration and holds the
// shared state the explorer panes read from.
package country

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"policyexplorer/internal/controls"
	"policyexplorer/internal/params"
	"policyexplorer/internal/reform"

	"gopkg.in/yaml.v3"
)

// File is the on-disk country configuration.
type File struct {
	Name                          string               `yaml:"name"`
	APIURL                        string               `yaml:"api_url"`
	RootMarker                    string               `yaml:"root_marker,omitempty"`
	DefaultSelectedParameterGroup string               `yaml:"default_selected_parameter_group"`
	ParameterHierarchy            *params.Node         `yaml:"parameter_hierarchy"`
	Parameters                    map[string]Parameter `yaml:"parameters,omitempty"`
	ParameterComponentOverrides   controls.Registry    `yaml:"parameter_component_overrides,omitempty"`
}

// Parameter is display metadata for one adjustable parameter.
type Parameter struct {
	Label       string `yaml:"label"`
	Description string `yaml:"description,omitempty"`
	Unit        string `yaml:"unit,omitempty"`
	Kind        string `yaml:"kind,omitempty"`
	Default     any    `yaml:"default,omitempty"`
	// Path is the dotted OpenFisca parameter name, e.g. tax.income_tax.rates.uk[0].rate.
	Path string `yaml:"path,omitempty"`
}

// ValueKind returns the parameter's kind, defaulting to number.
func (p Parameter) ValueKind() string {
	if p.Kind == "" {
		return reform.KindNumber
	}
	return p.Kind
}

// Marker returns the root marker used in selected paths.
func (f *File) Marker() string {
	if f.RootMarker == "" {
		return params.DefaultRootMarker
	}
	return f.RootMarker
}

// Parse decodes and validates a country file.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse country file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile reads and parses the country file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read country file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate checks the fields the explorer depends on. A default group that
// does not resolve is allowed; it simply shows no parameters.
func (f *File) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("country name is required")
	}
	if f.APIURL != "" {
		u, err := url.Parse(f.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("api_url must be an http(s) URL, got %q", f.APIURL)
		}
	}
	if f.ParameterHierarchy == nil {
		return fmt.Errorf("parameter_hierarchy is required")
	}
	if strings.Contains(f.Marker(), "/") {
		return fmt.Errorf("root_marker must not contain '/'")
	}
	for id, p := range f.Parameters {
		if p.Path != "" {
			if _, err := reform.ParsePath(p.Path); err != nil {
				return fmt.Errorf("parameter %s: %w", id, err)
			}
		}
		switch p.ValueKind() {
		case reform.KindNumber, reform.KindPercent, reform.KindBool, reform.KindText:
		default:
			return fmt.Errorf("parameter %s: unknown kind %q", id, p.Kind)
		}
	}
	return nil
}
