package filter

import (
	"fmt"

	"github.com/roach88/druidq/internal/extraction"
)

// ValidationResult lists constructs in a filter tree that Druid may reject
// or that are probably mistakes.
//
// Warnings never block serialization: a tree with warnings still marshals
// and may well run on a cluster configured for it (javascript enabled, for
// instance).
type ValidationResult struct {
	// Clean is true when there are no warnings.
	Clean bool

	// Warnings are human-readable, one per finding, in tree order.
	Warnings []string
}

// Validate walks n and reports:
//  1. javascript filters and javascript extraction functions
//  2. in and search filters without values
//  3. and/or composites with fewer than two children
//  4. spatial bounds whose coordinate lists differ in length
//  5. nil nodes
//
// Validate is a pure function with no side effects.
func Validate(n Node) ValidationResult {
	v := &validator{warnings: []string{}}
	v.validateNode(n, "filter")

	return ValidationResult{
		Clean:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateNode(n Node, path string) {
	if n == nil {
		v.addWarning("%s: nil filter", path)
		return
	}

	switch f := n.(type) {
	case Selector:
		v.validateExtraction(f.Extraction, path+".extractionFn")
	case Bound:
		v.validateExtraction(f.Extraction, path+".extractionFn")
	case Between:
		v.validateExtraction(f.Extraction, path+".extractionFn")
	case Like:
		v.validateExtraction(f.Extraction, path+".extractionFn")
	case Regex:
		v.validateExtraction(f.Extraction, path+".extractionFn")
	case Javascript:
		v.addWarning("%s: javascript filter on %q requires javascript to be enabled in Druid", path, f.Dimension)
		v.validateExtraction(f.Extraction, path+".extractionFn")
	case Search:
		if len(f.Values) == 0 {
			v.addWarning("%s: search filter on %q has no values", path, f.Dimension)
		}
		v.validateExtraction(f.Extraction, path+".extractionFn")
	case In:
		if len(f.Values) == 0 {
			v.addWarning("%s: in filter on %q has no values and matches nothing", path, f.Dimension)
		}
		v.validateExtraction(f.Extraction, path+".extractionFn")
	case Interval:
		if len(f.Intervals) == 0 {
			v.addWarning("%s: interval filter on %q has no intervals", path, f.Dimension)
		}
		v.validateExtraction(f.Extraction, path+".extractionFn")
	case SpatialRectangular:
		if len(f.MinCoords) != len(f.MaxCoords) {
			v.addWarning("%s: rectangular bound on %q has %d min and %d max coordinates",
				path, f.Dimension, len(f.MinCoords), len(f.MaxCoords))
		}
	case SpatialRadius:
		if len(f.Coords) == 0 {
			v.addWarning("%s: radius bound on %q has no coordinates", path, f.Dimension)
		}
	case SpatialPolygon:
		if len(f.Abscissa) != len(f.Ordinate) {
			v.addWarning("%s: polygon bound on %q has %d abscissa and %d ordinate values",
				path, f.Dimension, len(f.Abscissa), len(f.Ordinate))
		}
	case ColumnComparison:
		v.validateExtraction(f.DimensionA.Extraction, path+".dimensions[0].extractionFn")
		v.validateExtraction(f.DimensionB.Extraction, path+".dimensions[1].extractionFn")
	case Expression:
		if f.Expression == "" {
			v.addWarning("%s: empty expression", path)
		}
	case Not:
		v.validateNode(f.Field, path+".field")
	case *And:
		v.validateComposite(TypeAnd, f.Fields, path)
	case *Or:
		v.validateComposite(TypeOr, f.Fields, path)
	default:
		v.addWarning("%s: unknown filter type %T", path, n)
	}
}

func (v *validator) validateComposite(kind string, fields []Node, path string) {
	if len(fields) < 2 {
		v.addWarning("%s: %s filter with %d field(s)", path, kind, len(fields))
	}
	for i, child := range fields {
		v.validateNode(child, fmt.Sprintf("%s.fields[%d]", path, i))
	}
}

func (v *validator) validateExtraction(d extraction.Descriptor, path string) {
	switch fn := d.(type) {
	case nil:
	case extraction.Javascript:
		v.addWarning("%s: javascript extraction requires javascript to be enabled in Druid", path)
	case extraction.Cascade:
		for i, inner := range fn.Functions {
			v.validateExtraction(inner, fmt.Sprintf("%s.extractionFns[%d]", path, i))
		}
	}
}
