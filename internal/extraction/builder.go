package extraction

// Func configures an extraction Builder.
type Func func(b *Builder)

// Builder accumulates extraction functions.
// One function yields that function; several yield a Cascade.
type Builder struct {
	fns []Descriptor
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Resolve drives fn against a fresh Builder and returns what it built.
// A nil fn yields nil, and so does a fn that adds nothing.
func Resolve(fn Func) Descriptor {
	if fn == nil {
		return nil
	}
	b := NewBuilder()
	fn(b)
	return b.Extraction()
}

// Extraction returns the accumulated extraction function, or nil.
func (b *Builder) Extraction() Descriptor {
	switch len(b.fns) {
	case 0:
		return nil
	case 1:
		return b.fns[0]
	default:
		fns := make([]Descriptor, len(b.fns))
		copy(fns, b.fns)
		return Cascade{Functions: fns}
	}
}

func (b *Builder) add(d Descriptor) *Builder {
	b.fns = append(b.fns, d)
	return b
}

// Javascript adds a JavaScript extraction function.
func (b *Builder) Javascript(function string) *Builder {
	return b.add(Javascript{Function: function})
}

// Substring keeps everything from index on.
func (b *Builder) Substring(index int) *Builder {
	return b.add(Substring{Index: index})
}

// SubstringN keeps length characters from index on.
func (b *Builder) SubstringN(index, length int) *Builder {
	return b.add(Substring{Index: index, Length: &length})
}

// Upper upper-cases values.
func (b *Builder) Upper(locale string) *Builder {
	return b.add(Case{Upper: true, Locale: locale})
}

// Lower lower-cases values.
func (b *Builder) Lower(locale string) *Builder {
	return b.add(Case{Locale: locale})
}

// Strlen replaces values with their length.
func (b *Builder) Strlen() *Builder {
	return b.add(Strlen{})
}

// Regex keeps the first capture group of expression, or the whole match
// when the expression has no groups.
func (b *Builder) Regex(expression string) *Builder {
	return b.add(Regex{Expression: expression, Index: 1})
}

// Partial keeps values matching expression.
func (b *Builder) Partial(expression string) *Builder {
	return b.add(Partial{Expression: expression})
}

// TimeFormat formats timestamps.
func (b *Builder) TimeFormat(format, timeZone, locale string) *Builder {
	return b.add(TimeFormat{Format: format, TimeZone: timeZone, Locale: locale})
}

// Lookup maps values through a registered lookup, keeping unknown values.
func (b *Builder) Lookup(name string) *Builder {
	return b.add(Lookup{Name: name, RetainMissingValue: true})
}

// Add appends an already built descriptor.
func (b *Builder) Add(d Descriptor) *Builder {
	if d == nil {
		return b
	}
	return b.add(d)
}
