package domain

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Raw marks a parameter value that must be injected into source code verbatim,
// without quoting or literal translation.
type Raw string

// Parameters is an insertion-ordered mapping of parameter name to an already
// type-resolved value. Names are unique; setting an existing name updates its
// value in place without changing its position.
type Parameters struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewParameters creates an empty parameter set.
func NewParameters() *Parameters {
	return &Parameters{m: orderedmap.New[string, any]()}
}

// Set stores a value under name, preserving first-insertion order.
func (p *Parameters) Set(name string, value any) {
	p.m.Set(name, value)
}

// Get returns the value for name.
func (p *Parameters) Get(name string) (any, bool) {
	return p.m.Get(name)
}

// Len returns the number of parameters.
func (p *Parameters) Len() int {
	if p == nil || p.m == nil {
		return 0
	}
	return p.m.Len()
}

// Names returns parameter names in insertion order.
func (p *Parameters) Names() []string {
	names := make([]string, 0, p.Len())
	if p == nil || p.m == nil {
		return names
	}
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Range calls fn for each parameter in insertion order until fn returns false.
func (p *Parameters) Range(fn func(name string, value any) bool) {
	if p == nil || p.m == nil {
		return
	}
	for pair := p.m.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Merge copies every entry of other into p. Later sources override earlier
// ones, so other's values win on name collisions.
func (p *Parameters) Merge(other *Parameters) {
	other.Range(func(name string, value any) bool {
		p.Set(name, value)
		return true
	})
}

// ToMap flattens the set into a plain map, losing order. Used when recording
// the resolved parameters into notebook metadata.
func (p *Parameters) ToMap() map[string]any {
	out := make(map[string]any, p.Len())
	p.Range(func(name string, value any) bool {
		out[name] = value
		return true
	})
	return out
}
