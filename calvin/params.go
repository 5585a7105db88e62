package calvin

// ParamList is an ordered list of parameters with unique names.
// The zero value is an empty list ready to use.
type ParamList struct {
	items []TaggedValue
	index map[string]int
}

func (l *ParamList) reindex() {
	l.index = make(map[string]int, len(l.items))
	for i, p := range l.items {
		l.index[p.Name] = i
	}
}

// Add appends tv, or replaces the parameter of the same name in place.
func (l *ParamList) Add(tv TaggedValue) {
	if l.index == nil {
		l.reindex()
	}
	tv = tv.Clone()
	if i, ok := l.index[tv.Name]; ok {
		l.items[i] = tv
		return
	}
	l.index[tv.Name] = len(l.items)
	l.items = append(l.items, tv)
}

// Find returns the parameter called name.
func (l *ParamList) Find(name string) (TaggedValue, bool) {
	if l.index == nil {
		l.reindex()
	}
	i, ok := l.index[name]
	if !ok {
		return TaggedValue{}, false
	}
	return l.items[i].Clone(), true
}

// Remove deletes the parameter called name and reports whether it existed.
func (l *ParamList) Remove(name string) bool {
	if l.index == nil {
		l.reindex()
	}
	i, ok := l.index[name]
	if !ok {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.reindex()
	return true
}

// Len returns the number of parameters.
func (l *ParamList) Len() int { return len(l.items) }

// All returns copies of the parameters in insertion order.
func (l *ParamList) All() []TaggedValue {
	out := make([]TaggedValue, len(l.items))
	for i, p := range l.items {
		out[i] = p.Clone()
	}
	return out
}

func (l *ParamList) clone() ParamList {
	return ParamList{items: l.All()}
}
