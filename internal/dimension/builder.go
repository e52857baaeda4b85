package dimension

import (
	"fmt"
	"strings"

	"github.com/roach88/druidq/internal/extraction"
)

// Option adjusts a dimension being selected.
type Option func(*selection)

type selection struct {
	outputName string
	outputType string
	extraction extraction.Func
}

// As sets the output name.
func As(outputName string) Option {
	return func(s *selection) { s.outputName = outputName }
}

// OutputType sets the output type (string, long, float or double).
func OutputType(t string) Option {
	return func(s *selection) { s.outputType = t }
}

// WithExtraction transforms the dimension's values with the extraction
// built by fn.
func WithExtraction(fn extraction.Func) Option {
	return func(s *selection) { s.extraction = fn }
}

// Builder collects selected dimensions in call order.
type Builder struct {
	dims []Dimension
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Select adds the named dimension.
func (b *Builder) Select(name string, opts ...Option) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: empty dimension name", ErrInvalidDimension)
	}

	var s selection
	for _, opt := range opts {
		opt(&s)
	}

	outputType, err := normalizeOutputType(s.outputType)
	if err != nil {
		return fmt.Errorf("select %q: %w", name, err)
	}

	d := Dimension{
		Name:       name,
		OutputName: s.outputName,
		OutputType: outputType,
		Extraction: extraction.Resolve(s.extraction),
	}
	if d.OutputName == "" {
		d.OutputName = name
	}

	b.dims = append(b.dims, d)
	return nil
}

// Dimensions returns the selected dimensions.
func (b *Builder) Dimensions() []Dimension {
	out := make([]Dimension, len(b.dims))
	copy(out, b.dims)
	return out
}

// Len returns how many dimensions have been selected.
func (b *Builder) Len() int {
	return len(b.dims)
}
