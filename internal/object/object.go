package object

import (
	"github.com/cwbudde/ratjs/internal/coll"
	"github.com/cwbudde/ratjs/internal/gcheap"
	"github.com/cwbudde/ratjs/internal/rjerrors"
	"github.com/cwbudde/ratjs/internal/value"
)

// Kind enumerates the object specializations: the ordinary layout plus
// proxy, module namespace, integer-indexed (typed array), arguments, and
// primitive wrapper. Full engines enumerate on
// the order of fifty GC-thing kinds; this core only
// distinguishes the kinds that change object-protocol behavior, since
// everything else (plain classes, built-in constructors) is an ordinary
// object with a different prototype.
type Kind uint16

const (
	KindOrdinary Kind = iota
	KindFunction
	KindBoundFunction
	KindArray
	KindArguments
	KindPrimitiveWrapper
	KindProxy
	KindModuleNamespace
	KindIntegerIndexed
)

// Ops is the ten-internal-operation vtable, represented as a
// struct of function fields rather than a Go interface: a specialized
// kind only overrides the 2-3 operations its invariants require and
// leaves the rest pointing at the Ordinary implementation, so no kind is
// forced to re-implement all ten.
type Ops struct {
	GetPrototypeOf    func(o *Object) (value.Value, error)
	SetPrototypeOf    func(o *Object, proto value.Value) (bool, error)
	IsExtensible      func(o *Object) (bool, error)
	PreventExtensions func(o *Object) (bool, error)
	GetOwnProperty    func(o *Object, key value.Value) (Descriptor, bool, error)
	DefineOwnProperty func(o *Object, key value.Value, desc Descriptor) (bool, error)
	HasProperty       func(o *Object, key value.Value) (bool, error)
	Get               func(o *Object, key value.Value, receiver value.Value) (value.Value, error)
	Set               func(o *Object, key value.Value, v value.Value, receiver value.Value) (bool, error)
	Delete            func(o *Object, key value.Value) (bool, error)
	OwnPropertyKeys   func(o *Object) ([]value.Value, error)
}

// Object is the GC-managed object header plus the ordinary layout: a
// prototype, an extensible flag, an array-indexed part, and a
// string/symbol keyed part. Specialized kinds reuse this same struct and
// swap in a different Ops and a kind-specific Ext payload; they share the
// header and are substitutable through the ten-operation protocol.
type Object struct {
	Kind       Kind
	Thing      *gcheap.Thing
	Proto      value.Value
	extensible bool
	indexed    map[uint32]Descriptor
	keyed      *coll.OrderedMap[value.Value, Descriptor]
	ops        *Ops

	// Ext carries kind-specific state: *ProxyState, *NamespaceState,
	// *ArgumentsState, *PrimitiveWrapperState, *IntegerIndexedState, or
	// *FunctionState for callable objects. Exactly one is non-nil (or
	// none, for a plain ordinary object).
	Ext any
}

var objectHeapOps = &gcheap.Ops{Kind: gcheap.KindObject, Name: "object", Scan: scanObject, Free: freeObject}

// freeObject releases any non-GC resource an Ext payload owns (e.g. an
// array buffer's data-block reference) once its object is swept. Mirrors
// ScanExt's optional-interface pattern: most Ext kinds have nothing to
// release and simply don't implement it.
func freeObject(t *gcheap.Thing) {
	o := t.Data.(*Object)
	if freer, ok := o.Ext.(interface{ FreeExt() }); ok {
		freer.FreeExt()
	}
}

func scanObject(t *gcheap.Thing, out []*gcheap.Thing) []*gcheap.Thing {
	o := t.Data.(*Object)
	if o.Proto.IsObject() {
		out = append(out, o.Proto.Ref().Thing)
	}
	addVal := func(v value.Value) {
		switch v.Kind() {
		case value.KindObject, value.KindString, value.KindSymbol, value.KindBigInt, value.KindGeneric:
			out = append(out, v.Ref().Thing)
		}
	}
	for _, d := range o.indexed {
		scanDescriptor(d, addVal)
	}
	o.keyed.Each(func(k value.Value, d Descriptor) bool {
		addVal(k)
		scanDescriptor(d, addVal)
		return true
	})
	if scanner, ok := o.Ext.(interface{ ScanExt(func(value.Value)) }); ok {
		scanner.ScanExt(addVal)
	}
	return out
}

func scanDescriptor(d Descriptor, addVal func(value.Value)) {
	if d.Present&HasValue != 0 {
		addVal(d.Value)
	}
	if d.Present&HasGet != 0 {
		addVal(d.Get)
	}
	if d.Present&HasSet != 0 {
		addVal(d.Set)
	}
}

// New allocates a fresh ordinary object with the given prototype.
func New(heap *gcheap.Heap, proto value.Value) *Object {
	o := &Object{
		Kind:       KindOrdinary,
		Proto:      proto,
		extensible: true,
		indexed:    make(map[uint32]Descriptor),
		keyed:      coll.NewOrderedMap[value.Value, Descriptor](8),
	}
	o.ops = OrdinaryOps()
	o.Thing = heap.Alloc(objectHeapOps, o)
	return o
}

// Value wraps o as a tagged value.Value.
func (o *Object) Value() value.Value {
	return value.Object(value.Ref{Thing: o.Thing})
}

// FromValue recovers the *Object behind an object-kind value.Value.
func FromValue(v value.Value) *Object {
	return v.Ref().Thing.Data.(*Object)
}

// SetOps installs a specialized vtable (used by proxy/namespace/etc.
// constructors right after New).
func (o *Object) SetOps(ops *Ops) { o.ops = ops }

// ArrayIndex reports whether key is the inline index-string variant and
// returns its numeric value. A heap
// KindString that happens to spell a canonical index is normalized to
// KindIndexString by convert.go's ToPropertyKey before it ever reaches
// the object model, so this check only needs to look at Kind.
func ArrayIndex(key value.Value) (uint32, bool) {
	if key.Kind() != value.KindIndexString {
		return 0, false
	}
	return key.IndexStringValue(), true
}

// --- The ten internal operations, ordinary implementation ---

// OrdinaryOps returns the vtable every non-exotic object uses.
func OrdinaryOps() *Ops {
	return &Ops{
		GetPrototypeOf:    OrdinaryGetPrototypeOf,
		SetPrototypeOf:    OrdinarySetPrototypeOf,
		IsExtensible:      OrdinaryIsExtensible,
		PreventExtensions: OrdinaryPreventExtensions,
		GetOwnProperty:    OrdinaryGetOwnProperty,
		DefineOwnProperty: OrdinaryDefineOwnProperty,
		HasProperty:       OrdinaryHasProperty,
		Get:               OrdinaryGet,
		Set:               OrdinarySet,
		Delete:            OrdinaryDelete,
		OwnPropertyKeys:   OrdinaryOwnPropertyKeys,
	}
}

// GetPrototypeOf dispatches to the object's installed vtable.
func (o *Object) GetPrototypeOf() (value.Value, error) { return o.ops.GetPrototypeOf(o) }

// SetPrototypeOf dispatches to the object's installed vtable.
func (o *Object) SetPrototypeOf(proto value.Value) (bool, error) {
	return o.ops.SetPrototypeOf(o, proto)
}

// IsExtensible dispatches to the object's installed vtable.
func (o *Object) IsExtensible() (bool, error) { return o.ops.IsExtensible(o) }

// PreventExtensions dispatches to the object's installed vtable.
func (o *Object) PreventExtensions() (bool, error) { return o.ops.PreventExtensions(o) }

// GetOwnProperty dispatches to the object's installed vtable.
func (o *Object) GetOwnProperty(key value.Value) (Descriptor, bool, error) {
	return o.ops.GetOwnProperty(o, key)
}

// DefineOwnProperty dispatches to the object's installed vtable.
func (o *Object) DefineOwnProperty(key value.Value, desc Descriptor) (bool, error) {
	return o.ops.DefineOwnProperty(o, key, desc)
}

// HasProperty dispatches to the object's installed vtable.
func (o *Object) HasProperty(key value.Value) (bool, error) { return o.ops.HasProperty(o, key) }

// Get dispatches to the object's installed vtable.
func (o *Object) Get(key value.Value, receiver value.Value) (value.Value, error) {
	return o.ops.Get(o, key, receiver)
}

// Set dispatches to the object's installed vtable.
func (o *Object) Set(key value.Value, v value.Value, receiver value.Value) (bool, error) {
	return o.ops.Set(o, key, v, receiver)
}

// Delete dispatches to the object's installed vtable.
func (o *Object) Delete(key value.Value) (bool, error) { return o.ops.Delete(o, key) }

// OwnPropertyKeys dispatches to the object's installed vtable.
func (o *Object) OwnPropertyKeys() ([]value.Value, error) { return o.ops.OwnPropertyKeys(o) }

func OrdinaryGetPrototypeOf(o *Object) (value.Value, error) {
	return o.Proto, nil
}

func OrdinarySetPrototypeOf(o *Object, proto value.Value) (bool, error) {
	if value.Equal(proto, o.Proto) {
		return true, nil
	}
	if !o.extensible {
		return false, nil
	}
	// Cycle check: walk proto's prototype chain looking for o itself.
	p := proto
	for p.IsObject() {
		target := FromValue(p)
		if target == o {
			return false, nil
		}
		if target.ops.GetPrototypeOf == nil {
			break
		}
		// A proxy or other exotic prototype stops the simple walk; that
		// is fine here, it only means we can't prove a cycle and allow
		// the set (the proxy invariant checks, if any, happen at the
		// proxy layer itself).
		if target.Kind == KindProxy {
			break
		}
		p = target.Proto
	}
	o.Proto = proto
	return true, nil
}

func OrdinaryIsExtensible(o *Object) (bool, error) {
	return o.extensible, nil
}

func OrdinaryPreventExtensions(o *Object) (bool, error) {
	o.extensible = false
	return true, nil
}

func OrdinaryGetOwnProperty(o *Object, key value.Value) (Descriptor, bool, error) {
	if idx, ok := ArrayIndex(key); ok {
		d, ok2 := o.indexed[idx]
		return d, ok2, nil
	}
	d, ok := o.keyed.Get(key)
	return d, ok, nil
}

func OrdinaryDefineOwnProperty(o *Object, key value.Value, desc Descriptor) (bool, error) {
	current, exists, _ := OrdinaryGetOwnProperty(o, key)
	var cur Descriptor
	if exists {
		cur = current
	}
	if !IsCompatiblePropertyDescriptor(o.extensible, desc, cur) {
		return false, nil
	}
	merged := ApplyPropertyDescriptor(cur, desc)
	if key.Kind() == value.KindIndexString {
		o.indexed[key.IndexStringValue()] = merged
		return true, nil
	}
	o.keyed.Set(key, merged)
	return true, nil
}

func OrdinaryHasProperty(o *Object, key value.Value) (bool, error) {
	_, ok, err := o.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	proto, err := o.GetPrototypeOf()
	if err != nil {
		return false, err
	}
	if !proto.IsObject() {
		return false, nil
	}
	return FromValue(proto).HasProperty(key)
}

func OrdinaryGet(o *Object, key value.Value, receiver value.Value) (value.Value, error) {
	desc, ok, err := o.GetOwnProperty(key)
	if err != nil {
		return value.Undefined, err
	}
	if !ok {
		proto, err := o.GetPrototypeOf()
		if err != nil {
			return value.Undefined, err
		}
		if !proto.IsObject() {
			return value.Undefined, nil
		}
		return FromValue(proto).Get(key, receiver)
	}
	if desc.IsAccessorDescriptor() {
		if !desc.Get.IsObject() {
			return value.Undefined, nil
		}
		fn := FromValue(desc.Get)
		return CallFunction(fn, receiver, nil)
	}
	return desc.Value, nil
}

// OrdinarySet implements [[Set]]; the receiver matters.
func OrdinarySet(o *Object, key value.Value, v value.Value, receiver value.Value) (bool, error) {
	ownDesc, ok, err := o.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	if !ok {
		proto, err := o.GetPrototypeOf()
		if err != nil {
			return false, err
		}
		if proto.IsObject() {
			return FromValue(proto).Set(key, v, receiver)
		}
		ownDesc = Descriptor{Present: 0}
		return createDataPropertyOnReceiver(receiver, key, v, ownDesc)
	}
	if ownDesc.IsDataDescriptor() {
		if !ownDesc.Writable {
			return false, nil
		}
		return createDataPropertyOnReceiver(receiver, key, v, ownDesc)
	}
	// Accessor: call the setter with receiver as this.
	if !ownDesc.Set.IsObject() {
		return false, nil
	}
	setter := FromValue(ownDesc.Set)
	_, err = CallFunction(setter, receiver, []value.Value{v})
	return err == nil, err
}

func createDataPropertyOnReceiver(receiver, key, v value.Value, ownDesc Descriptor) (bool, error) {
	if !receiver.IsObject() {
		return false, nil
	}
	ro := FromValue(receiver)
	existingDesc, exists, err := ro.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	if exists {
		if existingDesc.IsAccessorDescriptor() {
			return false, nil
		}
		if !existingDesc.Writable {
			return false, nil
		}
		return ro.DefineOwnProperty(key, Descriptor{Value: v, Present: HasValue})
	}
	return ro.DefineOwnProperty(key, DataDescriptor(v, true, true, true))
}

func OrdinaryDelete(o *Object, key value.Value) (bool, error) {
	desc, ok, err := o.GetOwnProperty(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	if !desc.Configurable {
		return false, nil
	}
	if key.Kind() == value.KindIndexString {
		delete(o.indexed, key.IndexStringValue())
		return true, nil
	}
	o.keyed.Delete(key)
	return true, nil
}

// OrdinaryOwnPropertyKeys implements the [[OwnPropertyKeys]] ordering
// rule: ascending integer-index keys, then string keys in
// insertion order, then symbol keys in insertion order.
func OrdinaryOwnPropertyKeys(o *Object) ([]value.Value, error) {
	indices := make([]uint32, 0, len(o.indexed))
	for idx := range o.indexed {
		indices = append(indices, idx)
	}
	sortUint32(indices)

	keys := make([]value.Value, 0, len(indices)+o.keyed.Len())
	for _, idx := range indices {
		keys = append(keys, value.IndexString(idx))
	}

	var strings, symbols []value.Value
	o.keyed.Each(func(k value.Value, _ Descriptor) bool {
		if k.Kind() == value.KindSymbol {
			symbols = append(symbols, k)
		} else {
			strings = append(strings, k)
		}
		return true
	})
	keys = append(keys, strings...)
	keys = append(keys, symbols...)
	return keys, nil
}

func sortUint32(s []uint32) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// ErrNotCallable is returned by CallFunction when the target object has
// no call handler installed.
var ErrNotCallable = rjerrors.TypeError("value is not a function")

// CallHandler is the native signature behind [[Call]]. The interpreter
// (out of scope for this core) and every built-in function installed by
// internal/builtin implement this signature.
type CallHandler func(thisArg value.Value, args []value.Value) (value.Value, error)

// ConstructHandler is the native signature behind [[Construct]].
type ConstructHandler func(args []value.Value, newTarget *Object) (value.Value, error)

// FunctionState is the Ext payload for KindFunction and KindBoundFunction
// objects: the native call/construct closures, plus bound-function
// bookkeeping.
type FunctionState struct {
	Call      CallHandler
	Construct ConstructHandler
	Name      string
	Length    int

	// Bound-function fields (Function.prototype.bind); Target is nil for
	// a plain (non-bound) function.
	Target    *Object
	BoundThis value.Value
	BoundArgs []value.Value
}

func (f *FunctionState) ScanExt(addVal func(value.Value)) {
	addVal(f.BoundThis)
	for _, a := range f.BoundArgs {
		addVal(a)
	}
}

// NewFunction allocates a callable ordinary object wrapping a native
// handler, the shape every built-in function shares.
func NewFunction(heap *gcheap.Heap, proto value.Value, name string, length int, call CallHandler, construct ConstructHandler) *Object {
	o := New(heap, proto)
	o.Kind = KindFunction
	o.Ext = &FunctionState{Call: call, Construct: construct, Name: name, Length: length}
	return o
}

// IsCallable reports whether o has a [[Call]] internal method.
func (o *Object) IsCallable() bool {
	fs, ok := o.Ext.(*FunctionState)
	return ok && fs.Call != nil
}

// IsConstructor reports whether o has a [[Construct]] internal method.
func (o *Object) IsConstructor() bool {
	fs, ok := o.Ext.(*FunctionState)
	return ok && fs.Construct != nil
}

// CallFunction invokes o's [[Call]], following the bound-
// function chain when o wraps Function.prototype.bind's target.
func CallFunction(o *Object, thisArg value.Value, args []value.Value) (value.Value, error) {
	fs, ok := o.Ext.(*FunctionState)
	if ok && fs.Target != nil {
		boundArgs := append(append([]value.Value{}, fs.BoundArgs...), args...)
		return CallFunction(fs.Target, fs.BoundThis, boundArgs)
	}
	if !ok || fs.Call == nil {
		return value.Undefined, ErrNotCallable
	}
	return fs.Call(thisArg, args)
}

// ConstructObject invokes o's [[Construct]].
func ConstructObject(o *Object, args []value.Value, newTarget *Object) (value.Value, error) {
	fs, ok := o.Ext.(*FunctionState)
	if !ok || fs.Construct == nil {
		return value.Undefined, rjerrors.TypeError("value is not a constructor")
	}
	if fs.Target != nil {
		boundArgs := append(append([]value.Value{}, fs.BoundArgs...), args...)
		return ConstructObject(fs.Target, boundArgs, newTarget)
	}
	return fs.Construct(args, newTarget)
}
