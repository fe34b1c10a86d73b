package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a site import file. Every
// section is optional; a file may carry only process models.
type ImportSchema struct {
	Project   *ProjectImport  `json:"project,omitempty" toml:"project" yaml:"project,omitempty"`
	Defaults  *DefaultsImport `json:"defaults,omitempty" toml:"defaults" yaml:"defaults,omitempty"`
	Trades    []TradeImport   `json:"trades,omitempty" toml:"trades" yaml:"trades,omitempty"`
	Models    []ModelImport   `json:"models,omitempty" toml:"models" yaml:"models,omitempty"`
	Structure []NodeImport    `json:"structure,omitempty" toml:"structure" yaml:"structure,omitempty"`
}

// ProjectImport creates the project the structure section hangs off.
type ProjectImport struct {
	Name      string  `json:"name" toml:"name" yaml:"name"`
	StartDate *string `json:"start_date,omitempty" toml:"start_date" yaml:"start_date,omitempty"`
}

// DefaultsImport applies to every step that leaves the field unset.
type DefaultsImport struct {
	DurationDays *int  `json:"duration_days,omitempty" toml:"duration_days" yaml:"duration_days,omitempty"`
	Parallel     *bool `json:"parallel,omitempty" toml:"parallel" yaml:"parallel,omitempty"`
}

type TradeImport struct {
	Name  string `json:"name" toml:"name" yaml:"name"`
	Color string `json:"color,omitempty" toml:"color" yaml:"color,omitempty"`
}

type ModelImport struct {
	Name  string       `json:"name" toml:"name" yaml:"name"`
	Steps []StepImport `json:"steps" toml:"steps" yaml:"steps"`
}

type StepImport struct {
	Activity     string `json:"activity" toml:"activity" yaml:"activity"`
	Trade        string `json:"trade,omitempty" toml:"trade" yaml:"trade,omitempty"`
	DurationDays *int   `json:"duration_days,omitempty" toml:"duration_days" yaml:"duration_days,omitempty"`
	Order        *int   `json:"order,omitempty" toml:"order" yaml:"order,omitempty"`
	Parallel     *bool  `json:"parallel,omitempty" toml:"parallel" yaml:"parallel,omitempty"`
}

// NodeImport is one structural node. Parents must appear before their
// children; Model names a model of this file or one already stored.
type NodeImport struct {
	Ref          string  `json:"ref" toml:"ref" yaml:"ref"`
	ParentRef    *string `json:"parent_ref,omitempty" toml:"parent_ref" yaml:"parent_ref,omitempty"`
	Level        string  `json:"level" toml:"level" yaml:"level"`
	Name         string  `json:"name" toml:"name" yaml:"name"`
	PlannedStart *string `json:"planned_start,omitempty" toml:"planned_start" yaml:"planned_start,omitempty"`
	Model        *string `json:"model,omitempty" toml:"model" yaml:"model,omitempty"`
}

// Format identifies the encoding of an import file.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported import file extension %q (want .json, .toml, .yaml)", filepath.Ext(path))
	}
}

// LoadImportSchema reads and parses an import file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, format)
}

// ParseImportSchema decodes data in the given format. Unknown keys are
// rejected so that typos surface instead of being silently dropped.
func ParseImportSchema(data []byte, format Format) (*ImportSchema, error) {
	var schema ImportSchema
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &schema)
		if err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parsing import file: unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&schema); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
	return &schema, nil
}
