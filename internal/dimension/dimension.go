// Package dimension describes selected Druid dimensions and the builder used
// to collect them.
package dimension

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/druidq/internal/extraction"
	"github.com/roach88/druidq/internal/ir"
)

// Output types accepted for a dimension.
const (
	TypeString = "string"
	TypeLong   = "long"
	TypeFloat  = "float"
	TypeDouble = "double"
)

// ErrInvalidDimension is wrapped by every error this package returns.
var ErrInvalidDimension = errors.New("invalid dimension")

// Dimension is a dimension spec: the source column, how it is named in the
// output and an optional extraction applied to its values.
type Dimension struct {
	Name       string
	OutputName string
	OutputType string
	Extraction extraction.Descriptor
}

// New returns a plain string dimension whose output name equals its name.
func New(name string) Dimension {
	return Dimension{Name: name, OutputName: name, OutputType: TypeString}
}

// Type returns "extraction" when an extraction is attached, "default" otherwise.
func (d Dimension) Type() string {
	if d.Extraction != nil {
		return "extraction"
	}
	return "default"
}

// ToIR returns the dimension spec JSON object.
func (d Dimension) ToIR() ir.IRObject {
	outputName := d.OutputName
	if outputName == "" {
		outputName = d.Name
	}
	outputType := d.OutputType
	if outputType == "" {
		outputType = TypeString
	}

	obj := ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString(d.Type())),
		ir.O("dimension", ir.IRString(d.Name)),
		ir.O("outputName", ir.IRString(outputName)),
		ir.O("outputType", ir.IRString(outputType)),
	)
	if d.Extraction != nil {
		obj["extractionFn"] = d.Extraction.ToIR()
	}
	return obj
}

// IsPlain reports whether the dimension reads the column unchanged.
func (d Dimension) IsPlain() bool {
	return d.Extraction == nil
}

func normalizeOutputType(t string) (string, error) {
	t = strings.ToLower(strings.TrimSpace(t))
	switch t {
	case "":
		return TypeString, nil
	case TypeString, TypeLong, TypeFloat, TypeDouble:
		return t, nil
	default:
		return "", fmt.Errorf("%w: incorrect output type %q, expected string, long, float or double", ErrInvalidDimension, t)
	}
}
