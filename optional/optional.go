// Package optional provides a type-safe Optional type for values that may
// or may not be present. The retry engine uses it to model limits that are
// either bounded or absent, like attempt counts and deadlines, without
// overloading zero values or nil pointers.
package optional

import (
	"fmt"
	"iter"
)

// Value represents a value of type T that may or may not be present.
// Use Some to create a present Value, None for an absent one.
type Value[T any] struct {
	value T
	isSet bool
}

// Some creates a Value containing the given value.
func Some[T any](value T) Value[T] {
	return Value[T]{value: value, isSet: true}
}

// None creates an empty Value.
func None[T any]() Value[T] {
	return Value[T]{isSet: false}
}

// Get returns the value and whether it is present. This is the safe way to
// extract a value.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.isSet
}

// GetOrElse returns the value if present, or the given default.
func (o Value[T]) GetOrElse(defaultValue T) T {
	if o.isSet {
		return o.value
	}

	return defaultValue
}

// NonEmpty returns true if the Value contains a value.
func (o Value[T]) NonEmpty() bool {
	return o.isSet
}

// Empty returns true if the Value does not contain a value.
func (o Value[T]) Empty() bool {
	return !o.isSet
}

// All returns an iterator yielding the value if present and nothing
// otherwise, for use in range loops.
func (o Value[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if o.isSet {
			yield(o.value)
		}
	}
}

// OrElseFunc returns this Value if present, or calls the given function for
// an alternative. Useful when computing the alternative is not free.
func (o Value[T]) OrElseFunc(alternativeFunc func() Value[T]) Value[T] {
	if o.isSet {
		return o
	}

	return alternativeFunc()
}

// String returns "Some(value)" or "None".
func (o Value[T]) String() string {
	if o.isSet {
		return fmt.Sprintf("Some(%v)", o.value)
	}

	return "None"
}

// Map transforms the value inside the Value with f, preserving absence.
func Map[T any, U any](o Value[T], f func(T) U) Value[U] {
	if o.isSet {
		return Some(f(o.value))
	}

	return None[U]()
}
