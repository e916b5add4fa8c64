// Package object implements the ordinary object protocol: the ten
// internal operations, property
// descriptors, key-list ordering, integrity levels, and the polymorphic
// specializations (proxy, module namespace, integer-indexed, arguments,
// primitive wrapper) that substitute for the ordinary implementation
// through the same interface.
package object

import "github.com/cwbudde/ratjs/internal/value"

// Present is a bitmap of which Descriptor fields were explicitly
// supplied.
type Present uint8

const (
	HasValue Present = 1 << iota
	HasWritable
	HasGet
	HasSet
	HasEnumerable
	HasConfigurable
)

// Descriptor is a property descriptor: data, accessor, or
// generic depending on which of Present's bits are set.
type Descriptor struct {
	Value        value.Value
	Get          value.Value
	Set          value.Value
	Writable     bool
	Enumerable   bool
	Configurable bool
	Present      Present
}

// DataDescriptor builds a fully-present data descriptor.
func DataDescriptor(v value.Value, writable, enumerable, configurable bool) Descriptor {
	return Descriptor{
		Value: v, Writable: writable, Enumerable: enumerable, Configurable: configurable,
		Present: HasValue | HasWritable | HasEnumerable | HasConfigurable,
	}
}

// AccessorDescriptor builds a fully-present accessor descriptor.
func AccessorDescriptor(get, set value.Value, enumerable, configurable bool) Descriptor {
	return Descriptor{
		Get: get, Set: set, Enumerable: enumerable, Configurable: configurable,
		Present: HasGet | HasSet | HasEnumerable | HasConfigurable,
	}
}

// IsDataDescriptor reports whether d describes (or could describe) a data
// property: it has a [[Value]] or [[Writable]] field present.
func (d Descriptor) IsDataDescriptor() bool {
	return d.Present&(HasValue|HasWritable) != 0
}

// IsAccessorDescriptor reports whether d has a [[Get]] or [[Set]] field.
func (d Descriptor) IsAccessorDescriptor() bool {
	return d.Present&(HasGet|HasSet) != 0
}

// IsGenericDescriptor reports whether d is neither data- nor
// accessor-shaped.
func (d Descriptor) IsGenericDescriptor() bool {
	return !d.IsDataDescriptor() && !d.IsAccessorDescriptor()
}

// IsEmpty reports whether no fields are present at all.
func (d Descriptor) IsEmpty() bool { return d.Present == 0 }

// CompletePropertyDescriptor fills in ECMAScript defaults for any field
// not already present: undefined value/get/set, false for the booleans.
func CompletePropertyDescriptor(d Descriptor) Descriptor {
	if d.IsGenericDescriptor() || d.IsDataDescriptor() {
		if d.Present&HasValue == 0 {
			d.Value = value.Undefined
			d.Present |= HasValue
		}
		if d.Present&HasWritable == 0 {
			d.Writable = false
			d.Present |= HasWritable
		}
	} else {
		if d.Present&HasGet == 0 {
			d.Get = value.Undefined
			d.Present |= HasGet
		}
		if d.Present&HasSet == 0 {
			d.Set = value.Undefined
			d.Present |= HasSet
		}
	}
	if d.Present&HasEnumerable == 0 {
		d.Enumerable = false
		d.Present |= HasEnumerable
	}
	if d.Present&HasConfigurable == 0 {
		d.Configurable = false
		d.Present |= HasConfigurable
	}
	return d
}

// IsCompatiblePropertyDescriptor implements ValidateAndApplyPropertyDescriptor's
// compatibility check (a present-missing attribute matches any;
// configurable-false is contagious), without
// performing the mutation — callers apply desc onto current themselves
// once this returns true.
func IsCompatiblePropertyDescriptor(extensible bool, desc, current Descriptor) bool {
	if current.IsEmpty() {
		return extensible
	}
	if desc.IsEmpty() {
		return true
	}
	if !current.Configurable {
		if desc.Present&HasConfigurable != 0 && desc.Configurable {
			return false
		}
		if desc.Present&HasEnumerable != 0 && desc.Enumerable != current.Enumerable {
			return false
		}
		if desc.IsGenericDescriptor() {
			return true
		}
		if desc.IsDataDescriptor() != current.IsDataDescriptor() {
			return false
		}
		if current.IsDataDescriptor() {
			if !current.Writable {
				if desc.Present&HasWritable != 0 && desc.Writable {
					return false
				}
				if desc.Present&HasValue != 0 && !value.Equal(desc.Value, current.Value) {
					return false
				}
			}
		} else {
			if desc.Present&HasGet != 0 && !value.Equal(desc.Get, current.Get) {
				return false
			}
			if desc.Present&HasSet != 0 && !value.Equal(desc.Set, current.Set) {
				return false
			}
		}
	}
	return true
}

// ApplyPropertyDescriptor merges desc onto current, producing the new
// stored descriptor (the second half of ValidateAndApplyPropertyDescriptor,
// after compatibility has been checked). Switching from data to accessor
// shape or back discards the fields that no longer apply, per ECMAScript.
func ApplyPropertyDescriptor(current, desc Descriptor) Descriptor {
	if current.IsEmpty() {
		if desc.IsGenericDescriptor() || desc.IsDataDescriptor() {
			return CompletePropertyDescriptor(desc)
		}
		return CompletePropertyDescriptor(desc)
	}
	if desc.IsGenericDescriptor() {
		merged := current
		if desc.Present&HasEnumerable != 0 {
			merged.Enumerable = desc.Enumerable
		}
		if desc.Present&HasConfigurable != 0 {
			merged.Configurable = desc.Configurable
		}
		return merged
	}
	if desc.IsDataDescriptor() != current.IsDataDescriptor() {
		// Shape change: convert, keeping enumerable/configurable unless
		// overridden, dropping the fields of the old shape.
		merged := Descriptor{
			Enumerable:   current.Enumerable,
			Configurable: current.Configurable,
			Present:      HasEnumerable | HasConfigurable,
		}
		if desc.Present&HasEnumerable != 0 {
			merged.Enumerable = desc.Enumerable
		}
		if desc.Present&HasConfigurable != 0 {
			merged.Configurable = desc.Configurable
		}
		if desc.IsDataDescriptor() {
			merged.Present |= HasValue | HasWritable
			merged.Value = value.Undefined
			merged.Writable = false
		} else {
			merged.Present |= HasGet | HasSet
			merged.Get = value.Undefined
			merged.Set = value.Undefined
		}
		return ApplyPropertyDescriptor(merged, desc)
	}
	merged := current
	if desc.Present&HasValue != 0 {
		merged.Value = desc.Value
	}
	if desc.Present&HasWritable != 0 {
		merged.Writable = desc.Writable
	}
	if desc.Present&HasGet != 0 {
		merged.Get = desc.Get
	}
	if desc.Present&HasSet != 0 {
		merged.Set = desc.Set
	}
	if desc.Present&HasEnumerable != 0 {
		merged.Enumerable = desc.Enumerable
	}
	if desc.Present&HasConfigurable != 0 {
		merged.Configurable = desc.Configurable
	}
	return merged
}
