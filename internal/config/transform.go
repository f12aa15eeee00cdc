package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/putxform/internal/geometry"
	"github.com/banshee-data/putxform/internal/putfile"
	"github.com/banshee-data/putxform/internal/replicate"
	"github.com/banshee-data/putxform/internal/stations"
)

// Defaults applied when neither the config file nor a flag sets a value.
const (
	DefaultFile     = "put.dat"
	DefaultPlane    = "z"
	DefaultAxis     = "x"
	DefaultAngle    = 90.0
	DefaultStations = 0
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// TransformConfig is the root configuration for a transform run. Every field
// is optional; the Get* methods supply defaults for anything left nil. The
// same struct carries flag overrides, see Merge.
type TransformConfig struct {
	File    *string  `json:"file,omitempty" yaml:"file,omitempty"`
	Plane   *string  `json:"plane,omitempty" yaml:"plane,omitempty"`
	Revolve *bool    `json:"revolve,omitempty" yaml:"revolve,omitempty"`
	Axis    *string  `json:"axis,omitempty" yaml:"axis,omitempty"`
	Angle   *float64 `json:"angle,omitempty" yaml:"angle,omitempty"`
	Number  *int     `json:"number,omitempty" yaml:"number,omitempty"` // station count, 0 = one per degree

	// Companion file handling
	Companion       *bool   `json:"tne,omitempty" yaml:"tne,omitempty"`
	CompanionSuffix *string `json:"companion_suffix,omitempty" yaml:"companion_suffix,omitempty"`

	Preview *string `json:"preview,omitempty" yaml:"preview,omitempty"` // PNG path

	// Field tables. Nil keeps the built-in tables.
	Fields          []FieldEntry `json:"fields,omitempty" yaml:"fields,omitempty"`
	CompanionFields []FieldEntry `json:"companion_fields,omitempty" yaml:"companion_fields,omitempty"`
	PassThrough     []string     `json:"pass_through,omitempty" yaml:"pass_through,omitempty"`
}

// FieldEntry is one row of a field table in a config file.
type FieldEntry struct {
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"` // scalar | vector
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTransformConfig returns a TransformConfig with all fields set to nil.
func EmptyTransformConfig() *TransformConfig {
	return &TransformConfig{}
}

// DefaultTransformConfig returns a TransformConfig with every scalar field
// set to its default. The field tables stay nil.
func DefaultTransformConfig() *TransformConfig {
	return &TransformConfig{
		File:            ptrString(DefaultFile),
		Plane:           ptrString(DefaultPlane),
		Revolve:         ptrBool(false),
		Axis:            ptrString(DefaultAxis),
		Angle:           ptrFloat64(DefaultAngle),
		Number:          ptrInt(DefaultStations),
		Companion:       ptrBool(false),
		CompanionSuffix: ptrString(putfile.CompanionSuffix),
		Preview:         ptrString(""),
	}
}

// LoadTransformConfig loads a TransformConfig from a JSON or YAML file,
// chosen by extension. Fields omitted from the file retain their defaults.
func LoadTransformConfig(path string) (*TransformConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTransformConfig()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", cleanPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set. Plane is only checked for a
// mirror run and Axis only for a revolve run.
func (c *TransformConfig) Validate() error {
	if c.File != nil && *c.File == "" {
		return fmt.Errorf("file must not be empty")
	}
	if c.GetRevolve() {
		if _, err := geometry.ParseAxis(c.GetAxis()); err != nil {
			return err
		}
		if _, err := stations.Plan(c.GetAngle(), c.GetNumber()); err != nil {
			return err
		}
	} else if _, err := geometry.ParsePlane(c.GetPlane()); err != nil {
		return err
	}
	if c.CompanionSuffix != nil && *c.CompanionSuffix == "" {
		return fmt.Errorf("companion_suffix must not be empty")
	}
	if _, err := fieldSpecs(c.Fields); err != nil {
		return fmt.Errorf("fields: %w", err)
	}
	if _, err := fieldSpecs(c.CompanionFields); err != nil {
		return fmt.Errorf("companion_fields: %w", err)
	}
	for _, g := range c.PassThrough {
		if strings.TrimSpace(g) == "" {
			return fmt.Errorf("pass_through entries must not be empty")
		}
	}
	return nil
}

// Merge copies every field set in o over c.
func (c *TransformConfig) Merge(o *TransformConfig) {
	if o == nil {
		return
	}
	if o.File != nil {
		c.File = o.File
	}
	if o.Plane != nil {
		c.Plane = o.Plane
	}
	if o.Revolve != nil {
		c.Revolve = o.Revolve
	}
	if o.Axis != nil {
		c.Axis = o.Axis
	}
	if o.Angle != nil {
		c.Angle = o.Angle
	}
	if o.Number != nil {
		c.Number = o.Number
	}
	if o.Companion != nil {
		c.Companion = o.Companion
	}
	if o.CompanionSuffix != nil {
		c.CompanionSuffix = o.CompanionSuffix
	}
	if o.Preview != nil {
		c.Preview = o.Preview
	}
	if o.Fields != nil {
		c.Fields = o.Fields
	}
	if o.CompanionFields != nil {
		c.CompanionFields = o.CompanionFields
	}
	if o.PassThrough != nil {
		c.PassThrough = o.PassThrough
	}
}

// Options converts the configuration into run options.
func (c *TransformConfig) Options() (putfile.Options, error) {
	fields, err := fieldSpecs(c.Fields)
	if err != nil {
		return putfile.Options{}, fmt.Errorf("fields: %w", err)
	}
	companion, err := fieldSpecs(c.CompanionFields)
	if err != nil {
		return putfile.Options{}, fmt.Errorf("companion_fields: %w", err)
	}
	mode := replicate.Mirror
	if c.GetRevolve() {
		mode = replicate.Revolve
	}
	return putfile.Options{
		Source:          c.GetFile(),
		Mode:            mode,
		Plane:           c.GetPlane(),
		Axis:            c.GetAxis(),
		Angle:           c.GetAngle(),
		Stations:        c.GetNumber(),
		Companion:       c.GetCompanion(),
		CompanionSuffix: c.GetCompanionSuffix(),
		Fields:          fields,
		CompanionFields: companion,
		PassThrough:     c.PassThrough,
	}, nil
}

func fieldSpecs(entries []FieldEntry) ([]putfile.FieldSpec, error) {
	if entries == nil {
		return nil, nil
	}
	seen := make(map[string]bool, len(entries))
	specs := make([]putfile.FieldSpec, 0, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("entry %d has no name", i)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate field %q", e.Name)
		}
		seen[e.Name] = true
		kind, err := replicate.ParseKind(strings.ToLower(e.Kind))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", e.Name, err)
		}
		specs = append(specs, putfile.FieldSpec{Name: e.Name, Kind: kind, Required: e.Required})
	}
	return specs, nil
}

// GetFile returns the source file or the default.
func (c *TransformConfig) GetFile() string {
	if c.File == nil {
		return DefaultFile
	}
	return *c.File
}

// GetPlane returns the mirror plane or the default.
func (c *TransformConfig) GetPlane() string {
	if c.Plane == nil {
		return DefaultPlane
	}
	return *c.Plane
}

// GetRevolve reports whether revolve mode is selected.
func (c *TransformConfig) GetRevolve() bool {
	if c.Revolve == nil {
		return false // default: mirror
	}
	return *c.Revolve
}

// GetAxis returns the revolve axis or the default.
func (c *TransformConfig) GetAxis() string {
	if c.Axis == nil {
		return DefaultAxis
	}
	return *c.Axis
}

// GetAngle returns the sweep angle in degrees or the default.
func (c *TransformConfig) GetAngle() float64 {
	if c.Angle == nil {
		return DefaultAngle
	}
	return *c.Angle
}

// GetNumber returns the station count or the default.
func (c *TransformConfig) GetNumber() int {
	if c.Number == nil {
		return DefaultStations
	}
	return *c.Number
}

// GetCompanion reports whether the companion file is processed.
func (c *TransformConfig) GetCompanion() bool {
	if c.Companion == nil {
		return false
	}
	return *c.Companion
}

// GetCompanionSuffix returns the companion suffix or the default.
func (c *TransformConfig) GetCompanionSuffix() string {
	if c.CompanionSuffix == nil {
		return putfile.CompanionSuffix
	}
	return *c.CompanionSuffix
}

// GetPreview returns the preview PNG path, or "" for none.
func (c *TransformConfig) GetPreview() string {
	if c.Preview == nil {
		return ""
	}
	return *c.Preview
}
