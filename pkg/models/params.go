package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ParamsKind identifies which variant a Params value holds.
type ParamsKind int

const (
	// ParamsPositional binds values by position ($1, $2, ...).
	ParamsPositional ParamsKind = iota
	// ParamsNamed binds values by name (:origin, :dest, ...).
	ParamsNamed
)

func (k ParamsKind) String() string {
	if k == ParamsNamed {
		return "named"
	}
	return "positional"
}

// Param is a single named bind value.
type Param struct {
	Name  string
	Value any
}

// Params holds the bind values supplied with a statement. It is either an
// ordered list of positional values or an insertion-ordered mapping of named
// values. The zero value is an empty positional list.
type Params struct {
	kind       ParamsKind
	positional []any
	named      *orderedmap.OrderedMap[string, any]
}

// Positional builds a positional Params from values.
func Positional(values ...any) Params {
	return Params{kind: ParamsPositional, positional: append([]any(nil), values...)}
}

// Named builds a named Params. Insertion order follows the argument order;
// a repeated name keeps its first position and takes the last value.
func Named(pairs ...Param) Params {
	om := orderedmap.New[string, any]()
	for _, p := range pairs {
		om.Set(p.Name, p.Value)
	}
	return Params{kind: ParamsNamed, named: om}
}

// Kind reports which variant is held.
func (p Params) Kind() ParamsKind { return p.kind }

// IsNamed reports whether the params are a name → value mapping.
func (p Params) IsNamed() bool { return p.kind == ParamsNamed }

// Len returns the number of bind values.
func (p Params) Len() int {
	if p.kind == ParamsNamed {
		if p.named == nil {
			return 0
		}
		return p.named.Len()
	}
	return len(p.positional)
}

// Names returns the parameter names in insertion order. Positional params
// have no names.
func (p Params) Names() []string {
	if p.kind != ParamsNamed || p.named == nil {
		return nil
	}
	names := make([]string, 0, p.named.Len())
	for pair := p.named.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Get returns the value bound to name.
func (p Params) Get(name string) (any, bool) {
	if p.kind != ParamsNamed || p.named == nil {
		return nil, false
	}
	return p.named.Get(name)
}

// Values flattens the params into positional order. Named values are
// returned in insertion order.
func (p Params) Values() []any {
	if p.kind != ParamsNamed {
		return append([]any{}, p.positional...)
	}
	values := make([]any, 0, p.Len())
	if p.named != nil {
		for pair := p.named.Oldest(); pair != nil; pair = pair.Next() {
			values = append(values, pair.Value)
		}
	}
	return values
}

// Map returns named params as a plain map. Positional params yield nil.
func (p Params) Map() map[string]any {
	if p.kind != ParamsNamed || p.named == nil {
		return nil
	}
	m := make(map[string]any, p.named.Len())
	for pair := p.named.Oldest(); pair != nil; pair = pair.Next() {
		m[pair.Key] = pair.Value
	}
	return m
}

// Clone returns a copy that shares no mutable state with p.
func (p Params) Clone() Params {
	if p.kind != ParamsNamed {
		return Positional(p.positional...)
	}
	pairs := make([]Param, 0, p.Len())
	names := p.Names()
	values := p.Values()
	for i, name := range names {
		pairs = append(pairs, Param{Name: name, Value: values[i]})
	}
	return Named(pairs...)
}

// MarshalJSON encodes positional params as an array and named params as an
// object with keys in insertion order.
func (p Params) MarshalJSON() ([]byte, error) {
	if p.kind == ParamsNamed {
		if p.named == nil {
			return []byte("{}"), nil
		}
		return p.named.MarshalJSON()
	}
	if p.positional == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.positional)
}

// UnmarshalJSON accepts an array (positional), an object (named) or null.
func (p *Params) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = Params{}
		return nil
	}

	switch trimmed[0] {
	case '[':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var values []any
		if err := dec.Decode(&values); err != nil {
			return fmt.Errorf("decode positional params: %w", err)
		}
		for i := range values {
			values[i] = normalizeNumber(values[i])
		}
		*p = Params{kind: ParamsPositional, positional: values}
		return nil
	case '{':
		om := orderedmap.New[string, any]()
		if err := om.UnmarshalJSON(trimmed); err != nil {
			return fmt.Errorf("decode named params: %w", err)
		}
		for pair := om.Oldest(); pair != nil; pair = pair.Next() {
			pair.Value = normalizeNumber(pair.Value)
		}
		*p = Params{kind: ParamsNamed, named: om}
		return nil
	default:
		return fmt.Errorf("params must be an array or an object")
	}
}

// normalizeNumber turns JSON numbers into int64 when they are integral so
// they bind cleanly to integer columns and LIMIT/OFFSET.
func normalizeNumber(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}
		return n
	default:
		return v
	}
}
