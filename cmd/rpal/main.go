/*
Rpal interprets an RPAL source file.

Usage:

	rpal FILE [flags]

The flags are:

	-v, --version
		Give the current version of the interpreter and then exit.

	-ast
		Print the raw parse tree instead of evaluating the program.

	-st
		Print the standardized tree instead of evaluating the program.

	--compile FILE
		Compile the source file to a binary control-fragment program and write
		it to FILE, instead of running it.

	--run FILE
		Load a previously compiled program from the given path and run it,
		instead of parsing source.

	--builtins
		List the built-in functions available to every program, then exit.
*/
package main

import (
	"fmt"
	"os"

	"github.com/sehan-dissanayake/rpal-interpreter/internal/rpal"
	"github.com/sehan-dissanayake/rpal-interpreter/internal/version"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitLexError
	ExitSyntaxError
	ExitRuntimeError
	ExitIOError
)

var (
	returnCode   = ExitSuccess
	flagVersion  = pflag.BoolP("version", "v", false, "gives the version info")
	flagAST      = pflag.Bool("ast", false, "print the raw parse tree instead of evaluating")
	flagST       = pflag.Bool("st", false, "print the standardized tree instead of evaluating")
	flagCompile  = pflag.String("compile", "", "compile the program to the given file instead of running it")
	flagRun      = pflag.String("run", "", "run a previously compiled program from the given file")
	flagBuiltins = pflag.Bool("builtins", false, "list the built-in functions and exit")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	// Accept the single-dash spelling of the long flags (-ast, -st, ...).
	for i, arg := range os.Args[1:] {
		if len(arg) > 2 && arg[0] == '-' && arg[1] != '-' && pflag.Lookup(arg[1:]) != nil {
			os.Args[i+1] = "-" + arg
		}
	}
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *flagBuiltins {
		fmt.Print(rpal.BuiltinsTable())
		return
	}

	if *flagRun != "" {
		runCompiled(*flagRun)
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: expected a source file argument")
		returnCode = ExitUsageError
		return
	}
	sourceFile := args[0]

	src, err := os.ReadFile(sourceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitIOError
		return
	}

	switch {
	case *flagAST:
		tree, err := rpal.AST(string(src))
		if err != nil {
			reportError(err)
			return
		}
		fmt.Print(tree)

	case *flagST:
		tree, err := rpal.StandardizedTree(string(src))
		if err != nil {
			reportError(err)
			return
		}
		fmt.Print(tree)

	case *flagCompile != "":
		prog, err := rpal.Compile(string(src))
		if err != nil {
			reportError(err)
			return
		}
		if err := os.WriteFile(*flagCompile, rpal.CompileBytes(prog), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitIOError
			return
		}

	default:
		result, err := rpal.Interpret(string(src))
		if err != nil {
			reportError(err)
			return
		}
		fmt.Print(result.Output)
	}
}

func runCompiled(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitIOError
		return
	}
	prog, err := rpal.DecompileBytes(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitIOError
		return
	}
	result, err := rpal.RunProgram(prog)
	if err != nil {
		reportError(err)
		return
	}
	fmt.Print(result.Output)
}

func reportError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
	switch err.(type) {
	case rpal.LexicalError:
		returnCode = ExitLexError
	case rpal.SyntaxError:
		returnCode = ExitSyntaxError
	case rpal.RuntimeError:
		returnCode = ExitRuntimeError
	default:
		returnCode = ExitIOError
	}
}
