package formula

import (
	"fmt"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of formula"
	}
	return fmt.Sprintf("%q at offset %d", t.text, t.pos)
}

// lex splits a formula into tokens.
func lex(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_' || runes[i] == '.') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: string(runes[start:i]), pos: start})
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			start := i
			i = scanNumber(runes, i)
			toks = append(toks, token{kind: tokNumber, text: string(runes[start:i]), pos: start})
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "**", pos: i})
			i += 2
		case r == '~' || r == '+' || r == '-' || r == '*' || r == '/' || r == ':' || r == '^':
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected character %q at offset %d", ErrSyntax, r, i)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(runes)})
	return toks, nil
}

func scanNumber(runes []rune, i int) int {
	for i < len(runes) && unicode.IsDigit(runes[i]) {
		i++
	}
	if i < len(runes) && runes[i] == '.' {
		i++
		for i < len(runes) && unicode.IsDigit(runes[i]) {
			i++
		}
	}
	if i < len(runes) && (runes[i] == 'e' || runes[i] == 'E') {
		j := i + 1
		if j < len(runes) && (runes[j] == '+' || runes[j] == '-') {
			j++
		}
		if j < len(runes) && unicode.IsDigit(runes[j]) {
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			i = j
		}
	}
	return i
}
