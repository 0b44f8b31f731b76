package rpal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Interpret_values(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		expect string
	}{
		{"integer literal", "Print 42", "42"},
		{"string literal", "Print 'hi'", "hi"},
		{"addition", "Print (1 + 2)", "3"},
		{"subtraction", "Print (5 - 2)", "3"},
		{"multiplication", "Print (3 * 4)", "12"},
		{"integer division truncates toward zero", "Print (-7 / 2)", "-3"},
		{"exponentiation", "Print (2 ** 5)", "32"},
		{"let binding", "Print (let x = 10 in x + 1)", "11"},
		{"where binding", "Print (x + 1 where x = 10)", "11"},
		{"conditional true branch", "Print (1 ls 2 -> 'yes' | 'no')", "yes"},
		{"conditional false branch", "Print (2 ls 1 -> 'yes' | 'no')", "no"},
		{"tuple construction", "Print (1, 2, 3)", "(1, 2, 3)"},
		{"nil is the empty tuple", "Print nil", "nil"},
		{"tuple indexing", "Print ((1, 2, 3) 2)", "2"},
		{"lambda application", "Print ((fn x . x + 1) 41)", "42"},
		{"curried lambda application", "Print ((fn x y . x + y) 3 4)", "7"},
		{"recursion via rec", "Print (let rec fact n = (n eq 0) -> 1 | n * fact (n - 1) in fact 5)", "120"},
		{"Conc is curried", "Print (Conc 'foo' 'bar')", "foobar"},
		{"Order of a tuple", "Print (Order (1, 2, 3))", "3"},
		{"Null on empty tuple", "Print (Null nil)", "true"},
		{"Isinteger true", "Print (Isinteger 5)", "true"},
		{"Isstring false for an integer", "Print (Isstring 5)", "false"},
		{"Stem and Stern", "Print (Conc (Stem 'hello') (Stern 'hello'))", "hello"},
		{"ItoS", "Print (ItoS 42)", "42"},
		{"structural equality on tuples", "Print ((1, 2) eq (1, 2))", "true"},
		{"aug of nil is a singleton tuple", "Print (nil aug 5)", "(5)"},
		{"aug extends left-to-right", "Print (nil aug 1 aug 2)", "(1, 2)"},
		{"and-simultaneous definitions", "Print (let a = 1 and b = 2 in a + b)", "3"},
		{"within chains one definition into another", "Print (let a = 1 within b = a + 1 in b)", "2"},
		{"function_form with multiple params", "Print (let f x y = x * y in f 3 4)", "12"},
		{"Print evaluates to dummy, not its argument", "Print (let x = Print 5 in Isdummy x)", "5true"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			result, err := Interpret(tc.source)
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, result.Output)
		})
	}
}

func Test_Interpret_errors(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		kind   RuntimeErrorKind
	}{
		{"unbound identifier", "Print zzz", UnboundIdentifier},
		{"division by zero", "Print (1 / 0)", DivisionByZero},
		{"type error adding a string to an integer", "Print (1 + 'x')", TypeError},
		{"tuple index out of bounds", "Print ((1, 2) 5)", IndexOutOfBounds},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			_, err := Interpret(tc.source)
			if !assert.Error(err) {
				return
			}
			rtErr, ok := err.(RuntimeError)
			if !assert.True(ok, "expected a RuntimeError, got %T", err) {
				return
			}
			assert.Equal(tc.kind, rtErr.Kind)
		})
	}
}

func Test_Interpret_compileRoundTrip(t *testing.T) {
	assert := assert.New(t)

	source := "Print (let rec fact n = (n eq 0) -> 1 | n * fact (n - 1) in fact 6)"
	prog, err := Compile(source)
	if !assert.NoError(err) {
		return
	}

	data := CompileBytes(prog)
	decoded, err := DecompileBytes(data)
	if !assert.NoError(err) {
		return
	}

	result, err := RunProgram(decoded)
	if !assert.NoError(err) {
		return
	}
	assert.Equal("720", result.Output)
}
