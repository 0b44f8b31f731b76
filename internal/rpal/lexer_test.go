package rpal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Lex_tokenKindSequence(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    []tokenKind
		expectErr bool
	}{
		{name: "empty", input: "", expect: []tokenKind{tokEOF}},
		{name: "integer", input: "42", expect: []tokenKind{tokInteger, tokEOF}},
		{name: "identifier", input: "foo", expect: []tokenKind{tokIdentifier, tokEOF}},
		{name: "keyword let", input: "let", expect: []tokenKind{tokKeyword, tokEOF}},
		{name: "keyword and identifier share a prefix", input: "letter", expect: []tokenKind{tokIdentifier, tokEOF}},
		{name: "string literal", input: "'hello'", expect: []tokenKind{tokString, tokEOF}},
		{name: "punctuation", input: "(x,y)", expect: []tokenKind{
			tokPunctuation, tokIdentifier, tokPunctuation, tokIdentifier, tokPunctuation, tokEOF,
		}},
		{name: "operator run is maximal munch", input: "x>=y", expect: []tokenKind{
			tokIdentifier, tokOperator, tokIdentifier, tokEOF,
		}},
		{name: "line comment consumes to end of line", input: "x // a comment\ny", expect: []tokenKind{
			tokIdentifier, tokIdentifier, tokEOF,
		}},
		{name: "unterminated string is a lexical error", input: "'oops", expectErr: true},
		{name: "illegal character", input: "`", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			toks, err := Lex(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}

			var kinds []tokenKind
			for _, tok := range toks {
				kinds = append(kinds, tok.kind)
			}
			assert.Equal(tc.expect, kinds)
		})
	}
}

func Test_Lex_stringEscapes(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "plain", input: "'hello'", expect: "hello"},
		{name: "escaped tab", input: `'a\tb'`, expect: "a\tb"},
		{name: "escaped newline", input: `'a\nb'`, expect: "a\nb"},
		{name: "escaped backslash", input: `'a\\b'`, expect: `a\b`},
		{name: "doubled apostrophe", input: "'it''s'", expect: "it's"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			toks, err := Lex(tc.input)
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, toks[0].sval)
		})
	}
}

func Test_Lex_reportsLineAndColumn(t *testing.T) {
	assert := assert.New(t)

	toks, err := Lex("x\ny\n`")
	assert.Error(err)
	assert.Nil(toks)

	lexErr, ok := err.(LexicalError)
	if !assert.True(ok, "error should be a LexicalError") {
		return
	}
	assert.Equal(3, lexErr.Line)
}
