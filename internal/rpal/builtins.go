package rpal

import (
	"strconv"

	"github.com/dekarrin/rosed"
)

// Primitives returns the bindings installed in environment 0, per spec §6's
// primitive catalog. Print and print both write to the machine's output
// buffer and evaluate to Dummy, per spec §4.4's "Output" section.
func Primitives() map[string]Value {
	names := []string{
		"Order", "Null", "Isinteger", "Isstring", "Istuple", "Isfunction",
		"Isdummy", "Istruthvalue", "ItoS", "Print", "print", "Conc", "Stern", "Stem",
	}
	m := make(map[string]Value, len(names))
	for _, name := range names {
		m[name] = Value{kind: vBuiltin, builtin: &builtin{name: name}}
	}
	return m
}

// applyBuiltin applies one more argument to b, either producing the final
// result or, for curried primitives like Conc, a new partially-applied
// builtin value.
func applyBuiltin(m *Machine, b *builtin, arg Value) (Value, error) {
	switch b.name {
	case "Order":
		if !arg.IsTuple() {
			return Value{}, newRuntimeError(TypeError, "Order requires a tuple, got %s", arg.TypeName())
		}
		return NewInt(arg.Order()), nil

	case "Null":
		if !arg.IsTuple() {
			return Value{}, newRuntimeError(TypeError, "Null requires a tuple, got %s", arg.TypeName())
		}
		return NewBoolVal(arg.Order() == 0), nil

	case "Isinteger":
		return NewBoolVal(arg.IsInt()), nil
	case "Isstring":
		return NewBoolVal(arg.IsStr()), nil
	case "Istuple":
		return NewBoolVal(arg.IsTuple()), nil
	case "Isfunction":
		return NewBoolVal(arg.IsFunction()), nil
	case "Isdummy":
		return NewBoolVal(arg.IsDummy()), nil
	case "Istruthvalue":
		return NewBoolVal(arg.IsBool()), nil

	case "ItoS":
		if !arg.IsInt() {
			return Value{}, newRuntimeError(TypeError, "ItoS requires an integer, got %s", arg.TypeName())
		}
		return NewString(strconv.Itoa(arg.Int())), nil

	case "Print", "print":
		m.out.WriteString(arg.Canonical())
		return NewDummy(), nil

	case "Stern":
		if !arg.IsStr() || len(arg.Str()) == 0 {
			return Value{}, newRuntimeError(TypeError, "Stern requires a non-empty string")
		}
		return NewString(arg.Str()[1:]), nil

	case "Stem":
		if !arg.IsStr() || len(arg.Str()) == 0 {
			return Value{}, newRuntimeError(TypeError, "Stem requires a non-empty string")
		}
		return NewString(arg.Str()[:1]), nil

	case "Conc":
		if !arg.IsStr() {
			return Value{}, newRuntimeError(TypeError, "Conc requires string arguments, got %s", arg.TypeName())
		}
		if len(b.args) == 0 {
			return Value{kind: vBuiltin, builtin: &builtin{name: "Conc", args: []Value{arg}}}, nil
		}
		return NewString(b.args[0].Str() + arg.Str()), nil

	default:
		return Value{}, newRuntimeError(MalformedStandardization, "unknown primitive %q", b.name)
	}
}

var builtinDescriptions = [][]string{
	{"Order", "arity of a tuple"},
	{"Null", "true if a tuple has zero elements"},
	{"Isinteger", "true if the argument is an integer"},
	{"Isstring", "true if the argument is a string"},
	{"Istuple", "true if the argument is a tuple"},
	{"Isfunction", "true if the argument is a function"},
	{"Isdummy", "true if the argument is dummy"},
	{"Istruthvalue", "true if the argument is true or false"},
	{"ItoS", "converts an integer to its string representation"},
	{"Print", "writes the canonical form of its argument, evaluates to dummy"},
	{"print", "alias of Print"},
	{"Conc", "concatenates two strings, curried"},
	{"Stern", "all but the first character of a string"},
	{"Stem", "the first character of a string"},
}

// BuiltinsTable renders the primitive catalog as a bordered table, per the
// -builtins flag.
func BuiltinsTable() string {
	header := []string{"Name", "Description"}
	rows := append([][]string{header}, builtinDescriptions...)
	return rosed.Edit("").
		InsertTableOpts(0, rows, 80, rosed.Options{
			TableBorders: true,
		}).
		String()
}
