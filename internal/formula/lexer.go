package formula

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cleared-dev/reclass/internal/shared"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokRef
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func isCodeStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '#' || r == '$' || r == '@'
}

func isCodePart(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '.', '_', ':', '#', '$', '@', '\'':
		return true
	}
	return false
}

// tokenize splits src into tokens. Codes that start with a digit or contain
// characters outside isCodePart must be written as [code].
func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, w := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += w
		case r == '+' || r == '-' || r == '*' || r == '/':
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i += w
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i += w
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i += w
		case r == '[':
			end := strings.IndexByte(src[i+1:], ']')
			if end < 0 {
				return nil, &shared.ParseError{Pos: i, Msg: "unterminated [reference]"}
			}
			code := strings.TrimSpace(src[i+1 : i+1+end])
			if code == "" {
				return nil, &shared.ParseError{Pos: i, Msg: "empty [reference]"}
			}
			toks = append(toks, token{kind: tokRef, text: code, pos: i})
			i += end + 2
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(src) {
				r, w = utf8.DecodeRuneInString(src[i:])
				if !isCodePart(r) {
					break
				}
				i += w
			}
			text := src[start:i]
			if !isNumber(text) {
				return nil, &shared.ParseError{Pos: start, Msg: "malformed number " + text + " (write account codes as [" + text + "])"}
			}
			toks = append(toks, token{kind: tokNumber, text: text, pos: start})
		case isCodeStart(r):
			start := i
			for i < len(src) {
				r, w = utf8.DecodeRuneInString(src[i:])
				if !isCodePart(r) {
					break
				}
				i += w
			}
			toks = append(toks, token{kind: tokRef, text: src[start:i], pos: start})
		default:
			return nil, &shared.ParseError{Pos: i, Msg: "unexpected character " + string(r)}
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(src)})
	return toks, nil
}

// isNumber reports whether s is digits with at most one '.', with at least
// one digit on each side of the dot when present.
func isNumber(s string) bool {
	intPart, frac, hasDot := strings.Cut(s, ".")
	if intPart == "" || !allDigits(intPart) {
		return false
	}
	if hasDot && (frac == "" || !allDigits(frac)) {
		return false
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
