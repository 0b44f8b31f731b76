// Package rpal implements the lexer, parser, standardizer, and
// control-stack-environment machine for the RPAL language.
package rpal

// Result is the outcome of interpreting a complete program: its printed
// output and the value the top-level expression evaluated to.
type Result struct {
	Output string
	Value  Value
}

// ParseSource runs the lexer and parser over source, returning the raw AST.
func ParseSource(source string) (*node, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Compile lexes, parses, standardizes, and flattens source into a program
// ready to run on a Machine.
func Compile(source string) (*program, error) {
	raw, err := ParseSource(source)
	if err != nil {
		return nil, err
	}
	std, err := Standardize(raw)
	if err != nil {
		return nil, err
	}
	return Flatten(std)
}

// Interpret compiles and runs source to completion.
func Interpret(source string) (Result, error) {
	prog, err := Compile(source)
	if err != nil {
		return Result{}, err
	}
	return RunProgram(prog)
}

// RunProgram executes an already-compiled program against a fresh
// primitive environment.
func RunProgram(prog *program) (Result, error) {
	m := NewMachine(prog, Primitives())
	v, out, err := m.Run()
	if err != nil {
		return Result{}, err
	}
	return Result{Output: out, Value: v}, nil
}

// AST returns the dotted-indent rendering of source's raw parse tree, per
// the -ast flag.
func AST(source string) (string, error) {
	raw, err := ParseSource(source)
	if err != nil {
		return "", err
	}
	return dottedIndent(raw), nil
}

// StandardizedTree returns the dotted-indent rendering of source's
// standardized tree, per the -st flag.
func StandardizedTree(source string) (string, error) {
	raw, err := ParseSource(source)
	if err != nil {
		return "", err
	}
	std, err := Standardize(raw)
	if err != nil {
		return "", err
	}
	return dottedIndent(std), nil
}
