package calvin

import "fmt"

// ValueKind classifies what a DefaultRequiredValue holds.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueInt
	ValueFloat
	ValueText
	ValueDate
	ValueTime
	ValueDateTime
	ValueSingleControl
	ValueMultiControl
)

var valueKindNames = [...]string{
	ValueNone:          "",
	ValueInt:           "Int",
	ValueFloat:         "Float",
	ValueText:          "String",
	ValueDate:          "Date",
	ValueTime:          "Time",
	ValueDateTime:      "DateTime",
	ValueSingleControl: "SingleControl",
	ValueMultiControl:  "MultiControl",
}

func (k ValueKind) String() string {
	if k < 0 || int(k) >= len(valueKindNames) {
		return ""
	}
	return valueKindNames[k]
}

// ParseValueKind is the inverse of ValueKind.String. Unknown names map to
// ValueNone.
func ParseValueKind(s string) ValueKind {
	for i, name := range valueKindNames {
		if name == s && s != "" {
			return ValueKind(i)
		}
	}
	return ValueNone
}

// DefaultRequiredValue is a parameter template entry: a value together
// with an optional default, a required flag and a controlled vocabulary.
type DefaultRequiredValue struct {
	TaggedValue

	Kind                 ValueKind
	Required             bool
	ControlledVocabulary []string
	// MultiValues holds the selections of a ValueMultiControl parameter.
	MultiValues []string

	def    TaggedValue
	hasDef bool
}

// SetDefault records the default value. Only the type and payload of d are
// kept; the name follows the parameter.
func (p *DefaultRequiredValue) SetDefault(d TaggedValue) {
	p.def = d.Clone()
	p.def.Name = p.Name
	p.hasDef = true
}

// Default returns the default value, if one was set.
func (p *DefaultRequiredValue) Default() (TaggedValue, bool) {
	if !p.hasDef {
		return TaggedValue{}, false
	}
	d := p.def.Clone()
	d.Name = p.Name
	return d, true
}

// ClearDefault removes the default value.
func (p *DefaultRequiredValue) ClearDefault() {
	p.def = TaggedValue{}
	p.hasDef = false
}

// Allowed reports whether s is in the controlled vocabulary. An empty
// vocabulary allows anything.
func (p *DefaultRequiredValue) Allowed(s string) bool {
	if len(p.ControlledVocabulary) == 0 {
		return true
	}
	for _, v := range p.ControlledVocabulary {
		if v == s {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of p.
func (p DefaultRequiredValue) Clone() DefaultRequiredValue {
	p.TaggedValue = p.TaggedValue.Clone()
	p.def = p.def.Clone()
	p.ControlledVocabulary = append([]string(nil), p.ControlledVocabulary...)
	p.MultiValues = append([]string(nil), p.MultiValues...)
	return p
}

func (p *DefaultRequiredValue) valueType() (ParamType, bool) {
	if p.hasDef {
		return p.def.Type(), true
	}
	if len(p.payload) > 0 {
		return p.Type(), true
	}
	return ParamUnknown, false
}

// Check reports whether v is an acceptable value for p: it must have the
// type of p's value or default, and a string must be in the controlled
// vocabulary.
func (p *DefaultRequiredValue) Check(v TaggedValue) error {
	if want, ok := p.valueType(); ok && v.Type() != want {
		return fmt.Errorf("%w: parameter %q is %s, want %s", ErrSchemaMismatch, p.Name, v.Type(), want)
	}
	var s string
	var err error
	switch v.Type() {
	case ParamText:
		s, err = v.Text()
	case ParamASCII:
		s, err = v.ASCII()
	default:
		return nil
	}
	if err != nil {
		return err
	}
	if !p.Allowed(s) {
		return fmt.Errorf("parameter %q value %q: %w", p.Name, s, ErrNotInVocabulary)
	}
	return nil
}

// ApplyTemplate checks list against tmpl. A parameter missing from list is
// added with its default. A missing required parameter without a default
// returns ErrRequired. Parameters that are present must pass Check.
func ApplyTemplate(list *ParamList, tmpl []DefaultRequiredValue) error {
	for i := range tmpl {
		p := &tmpl[i]
		v, ok := list.Find(p.Name)
		if ok {
			if err := p.Check(v); err != nil {
				return err
			}
			continue
		}
		if d, ok := p.Default(); ok {
			list.Add(d)
		} else if p.Required {
			return fmt.Errorf("parameter %q: %w", p.Name, ErrRequired)
		}
	}
	return nil
}
