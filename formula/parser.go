package formula

import (
	"fmt"
	"strconv"
)

// termSet is the value of a right-hand-side sub-expression.
type termSet struct {
	terms     []term
	intercept bool
	zero      bool // a literal 0, which removes the intercept when added
}

func (s *termSet) add(o termSet) {
	if o.zero {
		s.intercept = false
	}
	if o.intercept {
		s.intercept = true
	}
	for _, t := range o.terms {
		if !s.contains(t) {
			s.terms = append(s.terms, t)
		}
	}
}

func (s *termSet) remove(o termSet) {
	if o.intercept {
		s.intercept = false
	}
	if o.zero {
		s.intercept = true
	}
	kept := s.terms[:0]
	for _, t := range s.terms {
		if !o.contains(t) {
			kept = append(kept, t)
		}
	}
	s.terms = kept
}

func (s *termSet) contains(t term) bool {
	key := t.key()
	for _, u := range s.terms {
		if u.key() == key {
			return true
		}
	}
	return false
}

func interact(a, b termSet) termSet {
	var out termSet
	left := a.terms
	if a.intercept {
		left = append([]term{{}}, left...)
	}
	right := b.terms
	if b.intercept {
		right = append([]term{{}}, right...)
	}
	for _, l := range left {
		for _, r := range right {
			t := l.join(r)
			if len(t.factors) == 0 {
				out.intercept = true
				continue
			}
			if !out.contains(t) {
				out.terms = append(out.terms, t)
			}
		}
	}
	return out
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(text string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == text
}

func (p *parser) expect(kind tokenKind, text string) error {
	t := p.next()
	if t.kind != kind || (text != "" && t.text != text) {
		want := text
		if kind == tokRParen {
			want = ")"
		}
		return fmt.Errorf("%w: expected %q, found %s", ErrSyntax, want, t)
	}
	return nil
}

// parseRHS parses the right-hand side, which carries an implicit intercept.
func (p *parser) parseRHS() (termSet, error) {
	set := termSet{intercept: true}
	if p.isOp("-") {
		p.next()
		first, err := p.parseProduct()
		if err != nil {
			return termSet{}, err
		}
		set.remove(first)
	} else {
		first, err := p.parseProduct()
		if err != nil {
			return termSet{}, err
		}
		set.add(first)
	}
	return p.parseSumTail(set)
}

func (p *parser) parseSum() (termSet, error) {
	var set termSet
	first, err := p.parseProduct()
	if err != nil {
		return termSet{}, err
	}
	set.add(first)
	return p.parseSumTail(set)
}

func (p *parser) parseSumTail(set termSet) (termSet, error) {
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text
		rhs, err := p.parseProduct()
		if err != nil {
			return termSet{}, err
		}
		if op == "+" {
			set.add(rhs)
		} else {
			set.remove(rhs)
		}
	}
	return set, nil
}

// parseProduct handles a*b, which expands to a + b + a:b.
func (p *parser) parseProduct() (termSet, error) {
	set, err := p.parseInteraction()
	if err != nil {
		return termSet{}, err
	}
	for p.isOp("*") {
		p.next()
		rhs, err := p.parseInteraction()
		if err != nil {
			return termSet{}, err
		}
		cross := interact(set, rhs)
		var expanded termSet
		expanded.add(set)
		expanded.add(rhs)
		expanded.add(cross)
		set = expanded
	}
	return set, nil
}

func (p *parser) parseInteraction() (termSet, error) {
	set, err := p.parseAtom()
	if err != nil {
		return termSet{}, err
	}
	for p.isOp(":") {
		p.next()
		rhs, err := p.parseAtom()
		if err != nil {
			return termSet{}, err
		}
		set = interact(set, rhs)
	}
	return set, nil
}

func (p *parser) parseAtom() (termSet, error) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		set, err := p.parseSum()
		if err != nil {
			return termSet{}, err
		}
		if err := p.expect(tokRParen, ""); err != nil {
			return termSet{}, err
		}
		return set, nil
	case tokNumber:
		switch t.text {
		case "0":
			return termSet{zero: true}, nil
		case "1":
			return termSet{intercept: true}, nil
		}
		return termSet{}, fmt.Errorf("%w: only 0 or 1 may appear as a bare number, found %s", ErrSyntax, t)
	case tokIdent:
		if p.peek().kind != tokLParen {
			return single(variableFactor{name: t.text}), nil
		}
		p.next()
		f, err := p.parseCallFactor(t)
		if err != nil {
			return termSet{}, err
		}
		return single(f), nil
	}
	return termSet{}, fmt.Errorf("%w: unexpected %s", ErrSyntax, t)
}

func single(f factor) termSet {
	return termSet{terms: []term{{factors: []factor{f}}}}
}

// parseCallFactor parses fn(...) after the opening parenthesis.
func (p *parser) parseCallFactor(fn token) (factor, error) {
	var f factor
	switch fn.text {
	case "C":
		arg := p.next()
		if arg.kind != tokIdent {
			return nil, fmt.Errorf("%w: C() expects a column name, found %s", ErrSyntax, arg)
		}
		f = categoricalFactor{name: arg.text}
	case "I":
		e, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		f = valueFactor{expr: e, name: "I(" + e.String() + ")"}
	default:
		name, ok := lookupFunc(fn.text)
		if !ok {
			return nil, fmt.Errorf("%w: unknown function %s", ErrSyntax, fn)
		}
		e, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		call := callExpr{fn: name, arg: e}
		f = valueFactor{expr: call, name: call.String()}
	}
	if err := p.expect(tokRParen, ""); err != nil {
		return nil, err
	}
	return f, nil
}

// parseValue parses an arithmetic expression.
func (p *parser) parseValue() (expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.next().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binaryExpr{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (expr, error) {
	if p.isOp("-") {
		p.next()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negExpr{arg: arg}, nil
	}
	if p.isOp("+") {
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.isOp("**") || p.isOp("^") {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return binaryExpr{op: "**", left: base, right: exp}, nil
	}
	return base, nil
}

func (p *parser) parsePrimary() (expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %s", ErrSyntax, t)
		}
		return numberExpr{value: v}, nil
	case tokLParen:
		e, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, ""); err != nil {
			return nil, err
		}
		return e, nil
	case tokIdent:
		if p.peek().kind != tokLParen {
			return refExpr{name: t.text}, nil
		}
		p.next()
		var e expr
		if t.text == "I" {
			inner, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			e = inner
		} else {
			name, ok := lookupFunc(t.text)
			if !ok {
				return nil, fmt.Errorf("%w: unknown function %s", ErrSyntax, t)
			}
			arg, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			e = callExpr{fn: name, arg: arg}
		}
		if err := p.expect(tokRParen, ""); err != nil {
			return nil, err
		}
		return e, nil
	}
	return nil, fmt.Errorf("%w: unexpected %s", ErrSyntax, t)
}
