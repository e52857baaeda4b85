package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// Plan describes a scan query and the conditions of its filter.
type Plan struct {
	// Name identifies the plan. It is also the default name when the
	// filter is saved.
	Name string `yaml:"name" json:"name"`

	// Description is free text.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// DataSource is the Druid data source the query reads.
	DataSource string `yaml:"data_source,omitempty" json:"data_source,omitempty"`

	// Intervals are the query intervals in any form interval.Normalize
	// accepts.
	Intervals []any `yaml:"intervals,omitempty" json:"intervals,omitempty"`

	Columns []string `yaml:"columns,omitempty" json:"columns,omitempty"`
	Limit   int      `yaml:"limit,omitempty" json:"limit,omitempty"`

	// Where lists the conditions, applied in order.
	Where []Step `yaml:"where" json:"where"`
}

// Step is one condition. Exactly one of the condition fields must be set:
// Dimension (a comparison), In, Between, Column, Interval, Expression,
// Flags, Spatial or Group.
type Step struct {
	// Or joins the step with OR instead of AND.
	Or bool `yaml:"or,omitempty" json:"or,omitempty"`

	// Not negates the step.
	Not bool `yaml:"not,omitempty" json:"not,omitempty"`

	Dimension string `yaml:"dimension,omitempty" json:"dimension,omitempty"`
	Operator  string `yaml:"operator,omitempty" json:"operator,omitempty"`
	Value     any    `yaml:"value,omitempty" json:"value,omitempty"`

	// Ordering and Extraction apply to comparison, in, between and
	// interval steps.
	Ordering   string           `yaml:"ordering,omitempty" json:"ordering,omitempty"`
	Extraction []ExtractionStep `yaml:"extraction,omitempty" json:"extraction,omitempty"`

	In         *InStep       `yaml:"in,omitempty" json:"in,omitempty"`
	Between    *BetweenStep  `yaml:"between,omitempty" json:"between,omitempty"`
	Column     *ColumnStep   `yaml:"column,omitempty" json:"column,omitempty"`
	Interval   *IntervalStep `yaml:"interval,omitempty" json:"interval,omitempty"`
	Expression string        `yaml:"expression,omitempty" json:"expression,omitempty"`
	Flags      *FlagsStep    `yaml:"flags,omitempty" json:"flags,omitempty"`
	Spatial    *SpatialStep  `yaml:"spatial,omitempty" json:"spatial,omitempty"`
	Group      []Step        `yaml:"group,omitempty" json:"group,omitempty"`
}

// ExtractionStep is one extraction function. Several steps cascade.
type ExtractionStep struct {
	// Type is one of javascript, substring, upper, lower, strlen, regex,
	// partial, timeFormat or lookup.
	Type string `yaml:"type" json:"type"`

	Function   string `yaml:"function,omitempty" json:"function,omitempty"`
	Index      int    `yaml:"index,omitempty" json:"index,omitempty"`
	Length     *int   `yaml:"length,omitempty" json:"length,omitempty"`
	Locale     string `yaml:"locale,omitempty" json:"locale,omitempty"`
	Expression string `yaml:"expression,omitempty" json:"expression,omitempty"`
	Format     string `yaml:"format,omitempty" json:"format,omitempty"`
	TimeZone   string `yaml:"time_zone,omitempty" json:"time_zone,omitempty"`
	Lookup     string `yaml:"lookup,omitempty" json:"lookup,omitempty"`
}

type InStep struct {
	Dimension string `yaml:"dimension" json:"dimension"`
	Values    []any  `yaml:"values" json:"values"`
}

type BetweenStep struct {
	Dimension string `yaml:"dimension" json:"dimension"`
	Min       any    `yaml:"min" json:"min"`
	Max       any    `yaml:"max" json:"max"`
}

// ColumnStep compares two dimensions.
type ColumnStep struct {
	Left  ColumnRef `yaml:"left" json:"left"`
	Right ColumnRef `yaml:"right" json:"right"`
}

// ColumnRef selects one side of a column comparison.
type ColumnRef struct {
	Dimension  string           `yaml:"dimension" json:"dimension"`
	As         string           `yaml:"as,omitempty" json:"as,omitempty"`
	OutputType string           `yaml:"output_type,omitempty" json:"output_type,omitempty"`
	Extraction []ExtractionStep `yaml:"extraction,omitempty" json:"extraction,omitempty"`
}

type IntervalStep struct {
	Dimension string `yaml:"dimension" json:"dimension"`
	Intervals []any  `yaml:"intervals" json:"intervals"`
}

type FlagsStep struct {
	Dimension  string `yaml:"dimension" json:"dimension"`
	Flags      int64  `yaml:"flags" json:"flags"`
	Javascript bool   `yaml:"javascript,omitempty" json:"javascript,omitempty"`
}

// SpatialStep holds exactly one of the spatial bounds. WKT is a POLYGON in
// well-known text; only its outer ring is used.
type SpatialStep struct {
	Dimension   string           `yaml:"dimension" json:"dimension"`
	Rectangular *RectangularArea `yaml:"rectangular,omitempty" json:"rectangular,omitempty"`
	Radius      *RadiusArea      `yaml:"radius,omitempty" json:"radius,omitempty"`
	Polygon     *PolygonArea     `yaml:"polygon,omitempty" json:"polygon,omitempty"`
	WKT         string           `yaml:"wkt,omitempty" json:"wkt,omitempty"`
}

type RectangularArea struct {
	Min []float64 `yaml:"min" json:"min"`
	Max []float64 `yaml:"max" json:"max"`
}

type RadiusArea struct {
	Coords []float64 `yaml:"coords" json:"coords"`
	Radius float64   `yaml:"radius" json:"radius"`
}

type PolygonArea struct {
	Abscissa []float64 `yaml:"abscissa" json:"abscissa"`
	Ordinate []float64 `yaml:"ordinate" json:"ordinate"`
}

// LoadFile reads a plan, choosing the format by extension: .yaml and .yml
// are YAML, .cue is CUE.
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(data)
	case ".cue":
		return LoadCUE(data, path)
	default:
		return nil, fmt.Errorf("unsupported plan file extension %q (want .yaml, .yml or .cue)", filepath.Ext(path))
	}
}

// LoadYAML parses a YAML plan. Unknown fields are rejected.
func LoadYAML(data []byte) (*Plan, error) {
	var plan Plan
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validatePlan(&plan); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	return &plan, nil
}

// LoadCUE parses a CUE plan. The plan is the top-level value, or the value
// of a top-level "plan" field when one exists. filename is used in error
// positions only.
func LoadCUE(data []byte, filename string) (*Plan, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}

	if nested := value.LookupPath(cue.ParsePath("plan")); nested.Exists() {
		value = nested
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("plan is not concrete: %w", err)
	}

	var plan Plan
	if err := value.Decode(&plan); err != nil {
		return nil, fmt.Errorf("decoding CUE plan: %w", err)
	}
	if err := validatePlan(&plan); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	return &plan, nil
}

// validatePlan checks required fields. Step contents are checked when the
// plan is applied.
func validatePlan(p *Plan) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(p.Where) == 0 {
		return fmt.Errorf("where list is required and must be non-empty")
	}
	if p.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	return nil
}
