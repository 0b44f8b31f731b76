/*
Rpalsh is an interactive read-eval-print loop for RPAL expressions.

Usage:

	rpalsh [flags]

Each line is parsed either as a top-level definition ("D" in the grammar —
a plain binding, a "rec", an "and" block, or a "within" chain) or, failing
that, as a complete expression ("E"). Definitions extend a persistent
environment rooted at the primitive environment, so a binding made on one
line is visible to every line after it; expressions are evaluated against
that same environment without changing it. To exit, type "quit" or press
Ctrl-D.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sehan-dissanayake/rpal-interpreter/internal/replio"
	"github.com/sehan-dissanayake/rpal-interpreter/internal/rpal"
	"github.com/spf13/pflag"
)

var flagVersionless = pflag.BoolP("quiet", "q", false, "suppress the startup banner")

func main() {
	pflag.Parse()

	lr, err := replio.NewLineReader("rpal> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
	defer lr.Close()

	if !*flagVersionless {
		fmt.Println("rpalsh -- type an RPAL expression or definition, or \"quit\" to exit")
	}

	session := rpal.NewSession()

	for {
		line, err := lr.ReadLine()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return
		}

		if line == "quit" || line == "exit" {
			return
		}

		result, err := session.EvalLine(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			continue
		}
		if result.Output != "" {
			fmt.Print(result.Output)
			if !strings.HasSuffix(result.Output, "\n") {
				fmt.Println()
			}
		}
		fmt.Println(result.Value.Canonical())
	}
}
