package object

// IntegrityLevel is the argument to SetIntegrityLevel/TestIntegrityLevel
// (Object.seal/Object.freeze and their Object.isSealed/Object.isFrozen
// tests).
type IntegrityLevel int

const (
	Sealed IntegrityLevel = iota
	Frozen
)

// SetIntegrityLevel implements the SetIntegrityLevel abstract operation:
// PreventExtensions plus, for Frozen, making every data property
// non-writable and every property non-configurable.
func SetIntegrityLevel(o *Object, level IntegrityLevel) (bool, error) {
	ok, err := o.PreventExtensions()
	if err != nil || !ok {
		return ok, err
	}
	keys, err := o.OwnPropertyKeys()
	if err != nil {
		return false, err
	}
	for _, key := range keys {
		desc := Descriptor{Present: HasConfigurable, Configurable: false}
		if level == Frozen {
			current, exists, err := o.GetOwnProperty(key)
			if err != nil {
				return false, err
			}
			if exists && current.IsDataDescriptor() {
				desc.Present |= HasWritable
				desc.Writable = false
			}
		}
		if _, err := o.DefineOwnProperty(key, desc); err != nil {
			return false, err
		}
	}
	return true, nil
}

// TestIntegrityLevel implements TestIntegrityLevel: not extensible, and
// every own property matches the level's configurable/writable
// requirement.
func TestIntegrityLevel(o *Object, level IntegrityLevel) (bool, error) {
	extensible, err := o.IsExtensible()
	if err != nil {
		return false, err
	}
	if extensible {
		return false, nil
	}
	keys, err := o.OwnPropertyKeys()
	if err != nil {
		return false, err
	}
	for _, key := range keys {
		desc, exists, err := o.GetOwnProperty(key)
		if err != nil {
			return false, err
		}
		if !exists {
			continue
		}
		if desc.Configurable {
			return false, nil
		}
		if level == Frozen && desc.IsDataDescriptor() && desc.Writable {
			return false, nil
		}
	}
	return true, nil
}
