package rpal

// tokenKind is the coarse classification of a scanned token, per spec §3.
type tokenKind int

const (
	tokKeyword tokenKind = iota
	tokIdentifier
	tokInteger
	tokString
	tokOperator
	tokPunctuation
	tokEOF
)

func (k tokenKind) String() string {
	switch k {
	case tokKeyword:
		return "keyword"
	case tokIdentifier:
		return "identifier"
	case tokInteger:
		return "integer"
	case tokString:
		return "string"
	case tokOperator:
		return "operator"
	case tokPunctuation:
		return "punctuation"
	case tokEOF:
		return "end of input"
	default:
		return "unknown"
	}
}

// token is the tagged record produced by the lexer: {kind, lexeme, line,
// column}. ival carries the parsed value of an Integer token; sval carries
// the escape-processed body of a String token.
type token struct {
	kind   tokenKind
	lexeme string
	ival   int
	sval   string
	line   int
	col    int
}

// keywords is the fixed keyword set recognized by the lexer (spec §3).
var keywords = map[string]bool{
	"let": true, "in": true, "where": true, "fn": true, "rec": true,
	"aug": true, "or": true, "not": true, "gr": true, "ge": true,
	"ls": true, "le": true, "eq": true, "ne": true, "true": true,
	"false": true, "nil": true, "dummy": true, "within": true, "and": true,
	"isstring": true, "isint": true, "istuple": true, "isfunction": true,
	"isdummy": true, "istruthvalue": true, "order": true, "null": true,
}

// operatorChars is the set of characters that may form an Operator token,
// per spec §4.1 rule 8.
const operatorChars = "+-*/<>&.@:=~|$!#%^_[]{}\"?;'"

// punctuationChars is the set of single-character Punctuation tokens, per
// spec §4.1 rule 9.
const punctuationChars = "(),;"

func isPunctuation(ch rune) bool {
	for _, c := range punctuationChars {
		if c == ch {
			return true
		}
	}
	return false
}

func isOperatorChar(ch rune) bool {
	for _, c := range operatorChars {
		if c == ch {
			return true
		}
	}
	return false
}

func isIdentStart(ch rune) bool {
	return ch == '_' || ('A' <= ch && ch <= 'Z') || ('a' <= ch && ch <= 'z')
}

func isIdentChar(ch rune) bool {
	return isIdentStart(ch) || ('0' <= ch && ch <= '9')
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
