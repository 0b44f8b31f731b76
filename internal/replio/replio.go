// Package replio provides a readline-backed line reader for rpalsh's
// interactive loop.
package replio

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// LineReader reads whitespace-trimmed, non-blank lines from stdin using a Go
// implementation of the GNU Readline library, giving the shell history and
// in-line editing.
//
// LineReader should not be used directly; instead, create one with
// [NewLineReader].
type LineReader struct {
	rl     *readline.Instance
	prompt string
}

// NewLineReader initializes readline with the given prompt. The returned
// LineReader must have Close called on it before disposal to properly tear
// down readline resources.
func NewLineReader(prompt string) (*LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &LineReader{rl: rl, prompt: prompt}, nil
}

// Close cleans up readline resources associated with the LineReader.
func (lr *LineReader) Close() error {
	return lr.rl.Close()
}

// ReadLine reads the next non-blank line. It blocks until one is read.
//
// If at end of input, the returned string is empty and error is io.EOF. If
// the user interrupts with Ctrl-C, error is readline.ErrInterrupt.
func (lr *LineReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = lr.rl.Readline()
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
	}

	return line, nil
}

// SetPrompt updates the prompt to the given text.
func (lr *LineReader) SetPrompt(p string) {
	lr.prompt = p
	lr.rl.SetPrompt(p)
}

// GetPrompt gets the current prompt.
func (lr *LineReader) GetPrompt() string {
	return lr.prompt
}

var _ io.Closer = (*LineReader)(nil)
