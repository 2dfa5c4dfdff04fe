package vm

import (
	"fmt"
	"unsafe"
)

type PropertyKind uint8

const (
	PropertyKindString PropertyKind = iota
	PropertyKindSymbol
)

// PropertyKey names an own property. String keys compare by content,
// symbol keys by the identity of the underlying SymbolObject.
type PropertyKey struct {
	kind PropertyKind
	name string
	sym  *SymbolObject
}

func NewStringKey(name string) PropertyKey {
	return PropertyKey{kind: PropertyKindString, name: name}
}

func NewSymbolKey(symbol Value) PropertyKey {
	return PropertyKey{kind: PropertyKindSymbol, sym: symbol.AsSymbolObject()}
}

func (k PropertyKey) IsSymbol() bool { return k.kind == PropertyKindSymbol }

func (k PropertyKey) String() string {
	if k.kind == PropertyKindSymbol {
		return fmt.Sprintf("Symbol(%s)", k.sym.Description)
	}
	return k.name
}

type property struct {
	key          PropertyKey
	value        Value
	getter       Value
	setter       Value
	isAccessor   bool
	writable     bool
	enumerable   bool
	configurable bool
}

// PlainObject is an ordinary object: an insertion-ordered property list
// with a lookup index and a prototype link.
type PlainObject struct {
	prototype  Value
	properties []property
	index      map[PropertyKey]int
}

// NewObject creates an empty object whose prototype is the given value,
// usually a prototype object or Null.
func NewObject(prototype Value) Value {
	obj := &PlainObject{
		prototype: prototype,
		index:     make(map[PropertyKey]int),
	}
	return Value{typ: TypeObject, obj: unsafe.Pointer(obj)}
}

// Value returns the object wrapped back into a Value.
func (o *PlainObject) Value() Value {
	return Value{typ: TypeObject, obj: unsafe.Pointer(o)}
}

func (o *PlainObject) Prototype() Value { return o.prototype }

func (o *PlainObject) lookup(key PropertyKey) *property {
	if idx, ok := o.index[key]; ok {
		return &o.properties[idx]
	}
	return nil
}

func (o *PlainObject) insert(p property) {
	o.index[p.key] = len(o.properties)
	o.properties = append(o.properties, p)
}

// GetOwn returns the value of an own data property.
func (o *PlainObject) GetOwn(name string) (Value, bool) {
	return o.GetOwnByKey(NewStringKey(name))
}

func (o *PlainObject) GetOwnByKey(key PropertyKey) (Value, bool) {
	p := o.lookup(key)
	if p == nil {
		return Undefined, false
	}
	if p.isAccessor {
		return Undefined, true
	}
	return p.value, true
}

func (o *PlainObject) HasOwn(name string) bool {
	return o.lookup(NewStringKey(name)) != nil
}

// SetOwn creates or updates a data property with default attributes
// (writable, enumerable, configurable). Existing attributes survive.
func (o *PlainObject) SetOwn(name string, v Value) {
	o.setOwnByKey(NewStringKey(name), v, true)
}

// SetOwnNonEnumerable is SetOwn for methods and other properties that
// should not show up during enumeration.
func (o *PlainObject) SetOwnNonEnumerable(name string, v Value) {
	o.setOwnByKey(NewStringKey(name), v, false)
}

func (o *PlainObject) setOwnByKey(key PropertyKey, v Value, enumerable bool) {
	if p := o.lookup(key); p != nil {
		p.value = v
		p.isAccessor = false
		return
	}
	o.insert(property{
		key:          key,
		value:        v,
		writable:     true,
		enumerable:   enumerable,
		configurable: true,
	})
}

// DefineOwnProperty installs a data property with explicit attributes.
// A nil attribute pointer means false.
func (o *PlainObject) DefineOwnProperty(name string, v Value, writable, enumerable, configurable *bool) {
	o.DefineOwnPropertyByKey(NewStringKey(name), v, writable, enumerable, configurable)
}

func (o *PlainObject) DefineOwnPropertyByKey(key PropertyKey, v Value, writable, enumerable, configurable *bool) {
	p := property{
		key:          key,
		value:        v,
		writable:     attr(writable),
		enumerable:   attr(enumerable),
		configurable: attr(configurable),
	}
	if existing := o.lookup(key); existing != nil {
		*existing = p
		return
	}
	o.insert(p)
}

// DefineAccessorProperty installs a getter/setter pair. Pass hasGetter
// or hasSetter as false to leave that side undefined.
func (o *PlainObject) DefineAccessorProperty(name string, getter Value, hasGetter bool, setter Value, hasSetter bool, enumerable, configurable *bool) {
	key := NewStringKey(name)
	p := property{
		key:          key,
		isAccessor:   true,
		enumerable:   attr(enumerable),
		configurable: attr(configurable),
	}
	if hasGetter {
		p.getter = getter
	} else {
		p.getter = Undefined
	}
	if hasSetter {
		p.setter = setter
	} else {
		p.setter = Undefined
	}
	if existing := o.lookup(key); existing != nil {
		*existing = p
		return
	}
	o.insert(p)
}

// OwnKeys lists own property keys in insertion order.
func (o *PlainObject) OwnKeys() []PropertyKey {
	keys := make([]PropertyKey, 0, len(o.properties))
	for _, p := range o.properties {
		keys = append(keys, p.key)
	}
	return keys
}

// IsEnumerable reports the enumerable attribute of an own property.
func (o *PlainObject) IsEnumerable(name string) bool {
	p := o.lookup(NewStringKey(name))
	return p != nil && p.enumerable
}

func attr(b *bool) bool {
	return b != nil && *b
}
