// Package fieldpatch provides a tri-state DSL for building JSON merge
// patches where an optional field can be left Unchanged, Set to a value, or
// explicitly Removed (serialized as a JSON null, which merge-patch
// semantics interpret as "delete this key").
//
// This exists because a plain Go pointer can't distinguish "the caller
// didn't mention this field" from "the caller wants this field gone" once
// it has been read back out of a generic map; the three states below keep
// that distinction explicit all the way to serialization.
package fieldpatch

import "encoding/json"

type state int

const (
	stateUnchanged state = iota
	stateSet
	stateRemove
)

// Value represents one field's patch instruction.
type Value struct {
	state state
	value interface{}
}

// Unchanged is the zero Value: the field is not part of the patch.
var Unchanged = Value{state: stateUnchanged}

// Set produces a Value that assigns v to the field.
func Set(v interface{}) Value {
	return Value{state: stateSet, value: v}
}

// Remove produces a Value that deletes the field via an explicit null.
var Remove = Value{state: stateRemove}

// SetIfNonEmpty returns Unchanged for the empty string, Set(s) otherwise.
// Convenience for optional string fields where "" and "absent" are the
// same thing to the caller.
func SetIfNonEmpty(s string) Value {
	if s == "" {
		return Unchanged
	}
	return Set(s)
}

// IsChanged reports whether this Value contributes to the patch at all.
func (v Value) IsChanged() bool {
	return v.state != stateUnchanged
}

// MarshalJSON renders Set(v) as v's JSON and Remove as a JSON null.
// Unchanged fields are never marshaled directly; they're skipped by Patch.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.state == stateRemove {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}

// Patch is an ordered set of named field instructions destined for a
// "spec" merge-patch body.
type Patch struct {
	fields []string
	values map[string]Value
}

// NewPatch returns an empty Patch.
func NewPatch() *Patch {
	return &Patch{values: map[string]Value{}}
}

// Field adds a named instruction to the patch if it is changed; Unchanged
// values are silently dropped so callers can build a patch by comparing
// every candidate field unconditionally.
func (p *Patch) Field(name string, v Value) *Patch {
	if !v.IsChanged() {
		return p
	}
	if _, exists := p.values[name]; !exists {
		p.fields = append(p.fields, name)
	}
	p.values[name] = v
	return p
}

// IsEmpty reports whether no field was changed.
func (p *Patch) IsEmpty() bool {
	return len(p.fields) == 0
}

// Fields returns the names of every changed field, in the order they were
// added. Exposed for tests asserting the patch covers exactly the expected
// keys (P7).
func (p *Patch) Fields() []string {
	out := make([]string, len(p.fields))
	copy(out, p.fields)
	return out
}

// MarshalMergePatch renders the patch as
// {"spec":{"<field>":<value-or-null>, ...}}, the body a
// types.MergePatchType client.Patch expects.
func (p *Patch) MarshalMergePatch() ([]byte, error) {
	spec := make(map[string]Value, len(p.fields))
	for _, f := range p.fields {
		spec[f] = p.values[f]
	}
	return json.Marshal(map[string]interface{}{"spec": spec})
}
