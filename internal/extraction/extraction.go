// Package extraction builds Druid extraction functions: value transformations
// applied to a dimension before a filter compares it.
package extraction

import (
	"github.com/roach88/druidq/internal/ir"
)

// Descriptor is a serializable extraction function.
type Descriptor interface {
	// Type returns the Druid extraction function type.
	Type() string

	// ToIR returns the extractionFn JSON object.
	ToIR() ir.IRObject
}

// Javascript transforms values with a JavaScript function.
// Requires JavaScript to be enabled on the Druid cluster.
type Javascript struct {
	Function  string
	Injective bool
}

func (Javascript) Type() string { return "javascript" }

func (e Javascript) ToIR() ir.IRObject {
	return ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString(e.Type())),
		ir.O("function", ir.IRString(e.Function)),
		ir.O("injective", ir.IRBool(e.Injective)),
	)
}

// Substring returns Length characters starting at Index.
// A nil Length keeps the rest of the value.
type Substring struct {
	Index  int
	Length *int
}

func (Substring) Type() string { return "substring" }

func (e Substring) ToIR() ir.IRObject {
	obj := ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString(e.Type())),
		ir.O("index", ir.IRInt(e.Index)),
	)
	if e.Length != nil {
		obj["length"] = ir.IRInt(*e.Length)
	}
	return obj
}

// Case upper- or lower-cases values, optionally for a locale.
type Case struct {
	Upper  bool
	Locale string
}

func (e Case) Type() string {
	if e.Upper {
		return "upper"
	}
	return "lower"
}

func (e Case) ToIR() ir.IRObject {
	obj := ir.NewIRObjectFromPairs(ir.O("type", ir.IRString(e.Type())))
	if e.Locale != "" {
		obj["locale"] = ir.IRString(e.Locale)
	}
	return obj
}

// Strlen replaces values with their length.
type Strlen struct{}

func (Strlen) Type() string { return "strlen" }

func (e Strlen) ToIR() ir.IRObject {
	return ir.NewIRObjectFromPairs(ir.O("type", ir.IRString(e.Type())))
}

// Regex returns the Index'th capture group of Expression.
type Regex struct {
	Expression          string
	Index               int
	ReplaceMissingValue bool
	ReplacementValue    string
}

func (Regex) Type() string { return "regex" }

func (e Regex) ToIR() ir.IRObject {
	obj := ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString(e.Type())),
		ir.O("expr", ir.IRString(e.Expression)),
		ir.O("index", ir.IRInt(e.Index)),
		ir.O("replaceMissingValue", ir.IRBool(e.ReplaceMissingValue)),
	)
	if e.ReplaceMissingValue {
		obj["replaceMissingValueWith"] = ir.IRString(e.ReplacementValue)
	}
	return obj
}

// Partial keeps values matching Expression and nulls the rest.
type Partial struct {
	Expression string
}

func (Partial) Type() string { return "partial" }

func (e Partial) ToIR() ir.IRObject {
	return ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString(e.Type())),
		ir.O("expr", ir.IRString(e.Expression)),
	)
}

// TimeFormat formats timestamp values with a Joda format string.
type TimeFormat struct {
	Format   string
	TimeZone string
	Locale   string
}

func (TimeFormat) Type() string { return "timeFormat" }

func (e TimeFormat) ToIR() ir.IRObject {
	obj := ir.NewIRObjectFromPairs(ir.O("type", ir.IRString(e.Type())))
	if e.Format != "" {
		obj["format"] = ir.IRString(e.Format)
	}
	if e.TimeZone != "" {
		obj["timeZone"] = ir.IRString(e.TimeZone)
	}
	if e.Locale != "" {
		obj["locale"] = ir.IRString(e.Locale)
	}
	return obj
}

// Lookup maps values through a registered lookup.
type Lookup struct {
	Name               string
	RetainMissingValue bool
	ReplaceMissingWith string
	Injective          bool
}

func (Lookup) Type() string { return "registeredLookup" }

func (e Lookup) ToIR() ir.IRObject {
	obj := ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString(e.Type())),
		ir.O("lookup", ir.IRString(e.Name)),
		ir.O("retainMissingValue", ir.IRBool(e.RetainMissingValue)),
		ir.O("injective", ir.IRBool(e.Injective)),
	)
	if !e.RetainMissingValue && e.ReplaceMissingWith != "" {
		obj["replaceMissingValueWith"] = ir.IRString(e.ReplaceMissingWith)
	}
	return obj
}

// Cascade applies several extraction functions in order.
type Cascade struct {
	Functions []Descriptor
}

func (Cascade) Type() string { return "cascade" }

func (e Cascade) ToIR() ir.IRObject {
	fns := make(ir.IRArray, len(e.Functions))
	for i, fn := range e.Functions {
		fns[i] = fn.ToIR()
	}
	return ir.NewIRObjectFromPairs(
		ir.O("type", ir.IRString(e.Type())),
		ir.O("extractionFns", fns),
	)
}
