package formula

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/shared"
)

// Parse parses src. Syntax errors are *shared.ParseError.
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = number | code | "[" code "]" | "(" expr ")"
func Parse(src string) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &shared.ParseError{Msg: "empty formula"}
	}
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, seen: make(map[string]bool)}
	root, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, &shared.ParseError{Pos: t.pos, Msg: "unexpected " + t.text}
	}
	return &Expr{src: src, root: root, refs: p.refs}, nil
}

// MustParse is Parse that panics on error, for tests and fixed formulas.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	toks []token
	i    int
	refs []string
	seen map[string]bool
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = binNode{op: t.text[0], l: left, r: right}
	}
}

func (p *parser) term() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/") {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = binNode{op: t.text[0], l: left, r: right}
	}
}

func (p *parser) unary() (node, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "+" || t.text == "-") {
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		if t.text == "-" {
			return negNode{x: x}, nil
		}
		return x, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, err := decimal.NewFromString(t.text)
		if err != nil {
			return nil, &shared.ParseError{Pos: t.pos, Msg: "malformed number " + t.text}
		}
		return numNode{v: v}, nil
	case tokRef:
		if !p.seen[t.text] {
			p.seen[t.text] = true
			p.refs = append(p.refs, t.text)
		}
		return refNode{code: t.text}, nil
	case tokLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &shared.ParseError{Pos: closing.pos, Msg: "missing )"}
		}
		return inner, nil
	case tokEOF:
		return nil, &shared.ParseError{Pos: t.pos, Msg: "unexpected end of formula"}
	default:
		return nil, &shared.ParseError{Pos: t.pos, Msg: "unexpected " + t.text}
	}
}
