// Package opt provides an optional value type.
package opt

import "fmt"

// Maybe holds either a value or nothing. The zero value is nothing.
type Maybe[V any] struct {
	defined bool
	value   V
}

// Some returns a Maybe holding value.
func Some[V any](value V) Maybe[V] {
	return Maybe[V]{defined: true, value: value}
}

// None returns an empty Maybe.
func None[V any]() Maybe[V] { return Maybe[V]{} }

// FromLookup adapts the common (value, ok) return convention, as in os.LookupEnv.
func FromLookup[V any](value V, ok bool) Maybe[V] {
	if ok {
		return Some(value)
	}
	return None[V]()
}

// IsDefined returns true if there is a value.
func (m Maybe[V]) IsDefined() bool { return m.defined }

// Value returns the value, or the zero value of V if there is none.
func (m Maybe[V]) Value() V { return m.value }

// Get returns the value and whether there was one.
func (m Maybe[V]) Get() (V, bool) { return m.value, m.defined }

// OrElse returns the value if there is one, or else valueIfUndefined.
func (m Maybe[V]) OrElse(valueIfUndefined V) V {
	if m.defined {
		return m.value
	}
	return valueIfUndefined
}

func (m Maybe[V]) String() string {
	if !m.defined {
		return "[none]"
	}
	var v interface{} = m.value
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", m.value)
}
