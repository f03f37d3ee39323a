package sheet

import (
	"regexp"
	"strings"
)

// Resolver maps a logical field name to the raw cell value carrying it,
// despite unstable column naming. The same semantic column (say, supplier
// TIN) appears under different literal header names depending on which tool
// produced the sheet; the resolver is the single point of truth insulating
// the builder and validator from that.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// nameTemplates lists, in priority order, the header-naming conventions seen
// across historical export tools. The first template producing a key present
// in the row wins.
var nameTemplates = []func(field string) string{
	func(f string) string { return f },
	func(f string) string { return "__EMPTY_" + f },
	func(f string) string { return "_" + f },
	func(f string) string { return "EMPTY_" + f },
	func(f string) string { return "__" + f },
	func(f string) string { return "Column" + f },
	func(f string) string { return "Field" + f },
	func(f string) string { return "col" + f },
	func(f string) string { return "field" + f },
}

var positionalFieldRe = regexp.MustCompile(`^_(\d+)$`)

// Resolve returns the cell value for logicalField, or (nil, false) if no
// naming convention matches. Templates are tried case-sensitively first, then
// case-insensitively. A logicalField of the form "_N" is additionally retried
// against the bare numeral, since some exports index positionally without the
// underscore.
func (r *Resolver) Resolve(row Row, logicalField string) (interface{}, bool) {
	if v, ok := r.resolveExact(row, logicalField); ok {
		return v, true
	}
	if v, ok := r.resolveFold(row, logicalField); ok {
		return v, true
	}
	if m := positionalFieldRe.FindStringSubmatch(logicalField); m != nil {
		if v, ok := r.resolveExact(row, m[1]); ok {
			return v, true
		}
		if v, ok := r.resolveFold(row, m[1]); ok {
			return v, true
		}
	}
	return nil, false
}

// ResolveString resolves a field and renders it as a string; absent fields
// yield "".
func (r *Resolver) ResolveString(row Row, logicalField string) string {
	v, ok := r.Resolve(row, logicalField)
	if !ok {
		return ""
	}
	return AsString(v)
}

// ResolveFloat resolves a field as float64; absent or unparseable fields
// yield 0.
func (r *Resolver) ResolveFloat(row Row, logicalField string) float64 {
	v, ok := r.Resolve(row, logicalField)
	if !ok {
		return 0
	}
	return AsFloat(v)
}

func (r *Resolver) resolveExact(row Row, field string) (interface{}, bool) {
	for _, tmpl := range nameTemplates {
		if v, ok := row[tmpl(field)]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r *Resolver) resolveFold(row Row, field string) (interface{}, bool) {
	for _, tmpl := range nameTemplates {
		want := strings.ToLower(tmpl(field))
		for key, v := range row {
			if v == nil {
				continue
			}
			if strings.ToLower(key) == want {
				return v, true
			}
		}
	}
	return nil, false
}
