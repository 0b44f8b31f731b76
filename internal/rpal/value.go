package rpal

import (
	"fmt"
	"strconv"
	"strings"
)

// valueKind tags the variant held by a Value, per spec §3's runtime value
// catalog: Int, Str, Bool, Dummy, Nil, Tuple, Lambda (closure), Eta, Builtin.
type valueKind int

const (
	vInt valueKind = iota
	vStr
	vBool
	vDummy
	vTuple // zero-length tuple is Nil
	vClosure
	vEta
	vBuiltin
)

// closure pairs a lambda's compiled fragment and binder shape with the
// environment frame captured at the point the lambda value was created.
type closure struct {
	fragIndex int
	binder    *node
	env       int
}

// builtin references a primitive, accumulating arguments for primitives
// that are applied one argument at a time (e.g. Conc).
type builtin struct {
	name string
	args []Value
}

// Value is a single CSE-machine runtime value.
type Value struct {
	kind    valueKind
	i       int
	s       string
	b       bool
	tuple   []Value
	closure *closure
	eta     *closure
	builtin *builtin
}

func NewInt(i int) Value       { return Value{kind: vInt, i: i} }
func NewString(s string) Value { return Value{kind: vStr, s: s} }
func NewBoolVal(b bool) Value  { return Value{kind: vBool, b: b} }
func NewDummy() Value          { return Value{kind: vDummy} }
func NewNil() Value            { return Value{kind: vTuple, tuple: nil} }
func NewTuple(vs []Value) Value {
	if len(vs) == 0 {
		return NewNil()
	}
	return Value{kind: vTuple, tuple: vs}
}

func (v Value) IsInt() bool      { return v.kind == vInt }
func (v Value) IsStr() bool      { return v.kind == vStr }
func (v Value) IsBool() bool     { return v.kind == vBool }
func (v Value) IsDummy() bool    { return v.kind == vDummy }
func (v Value) IsTuple() bool    { return v.kind == vTuple }
func (v Value) IsNil() bool      { return v.kind == vTuple && len(v.tuple) == 0 }
func (v Value) IsFunction() bool { return v.kind == vClosure || v.kind == vEta || v.kind == vBuiltin }

func (v Value) Int() int          { return v.i }
func (v Value) Str() string       { return v.s }
func (v Value) Bool() bool        { return v.b }
func (v Value) Tuple() []Value    { return v.tuple }
func (v Value) Order() int        { return len(v.tuple) }
func (v Value) TypeName() string  { return v.kind.String() }

func (k valueKind) String() string {
	switch k {
	case vInt:
		return "integer"
	case vStr:
		return "string"
	case vBool:
		return "boolean"
	case vDummy:
		return "dummy"
	case vTuple:
		return "tuple"
	case vClosure, vEta:
		return "function"
	case vBuiltin:
		return "function"
	default:
		return "unknown"
	}
}

// Canonical returns the textual form Print emits for v, per spec §4.4
// ("Output"): integers in decimal, strings unescaped, true/false/nil/dummy
// literal, tuples as "(v1, v2, ...)", functions as "[lambda closure: id]".
func (v Value) Canonical() string {
	switch v.kind {
	case vInt:
		return strconv.Itoa(v.i)
	case vStr:
		return v.s
	case vBool:
		if v.b {
			return "true"
		}
		return "false"
	case vDummy:
		return "dummy"
	case vTuple:
		if len(v.tuple) == 0 {
			return "nil"
		}
		parts := make([]string, len(v.tuple))
		for i, e := range v.tuple {
			parts[i] = e.Canonical()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case vClosure:
		return fmt.Sprintf("[lambda closure: %d]", v.closure.fragIndex)
	case vEta:
		return fmt.Sprintf("[lambda closure: %d]", v.eta.fragIndex)
	case vBuiltin:
		return fmt.Sprintf("[lambda closure: %s]", v.builtin.name)
	default:
		return "?"
	}
}

// equalStructural implements the structural equality used by eq/ne per
// spec §6: like types compare structurally, unlike types compare unequal.
func equalStructural(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case vInt:
		return a.i == b.i
	case vStr:
		return a.s == b.s
	case vBool:
		return a.b == b.b
	case vDummy:
		return true
	case vTuple:
		if len(a.tuple) != len(b.tuple) {
			return false
		}
		for i := range a.tuple {
			if !equalStructural(a.tuple[i], b.tuple[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
