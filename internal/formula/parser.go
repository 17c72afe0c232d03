package formula

import (
	"github.com/tongosu/ddonilang/internal/numeric"
)

// Parse tokenizes and parses source under dialect, returning either a
// bare expression or a top-level "ident = expr" assignment (spec
// §4.8). The grammar is classical precedence climbing: add/sub <
// mul/div/mod < pow (right-assoc) < unary < primary; Ascii1 also
// allows juxtaposition of factors as implicit multiplication.
func Parse(source string, dialect Dialect) (fexpr, error) {
	toks, err := lex(source, dialect)
	if err != nil {
		return nil, err
	}
	assignCount := 0
	for _, t := range toks {
		if t.kind == tokAssign {
			assignCount++
		}
	}
	if assignCount > 1 {
		return nil, errMsg("FORMULA_MULTIPLE_ASSIGN")
	}
	p := &parser{toks: toks, dialect: dialect}
	if assignCount == 1 {
		if !(len(toks) >= 2 && toks[0].kind == tokIdent && toks[1].kind == tokAssign) {
			return nil, errMsg("FORMULA_ASSIGN_LHS_INVALID")
		}
		name := toks[0].text
		p.pos = 2
		expr, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		if err := p.expectEOF(); err != nil {
			return nil, err
		}
		return &fAssign{Name: name, Expr: expr}, nil
	}
	expr, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return expr, nil
}

type parser struct {
	toks    []token
	pos     int
	dialect Dialect
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) advance()    { p.pos++ }
func (p *parser) expectEOF() error {
	if p.cur().kind != tokEOF {
		return errMsg("FORMULA_PARSE_TRAILING_TOKENS")
	}
	return nil
}

func (p *parser) parseAddSub() (fexpr, error) {
	left, err := p.parseMulDivMod()
	if err != nil {
		return nil, err
	}
	for {
		t := p.cur()
		if t.kind == tokOp && (t.text == "+" || t.text == "-") {
			p.advance()
			right, err := p.parseMulDivMod()
			if err != nil {
				return nil, err
			}
			op := opAdd
			if t.text == "-" {
				op = opSub
			}
			left = &fBin{Op: op, Left: left, Right: right}
			continue
		}
		return left, nil
	}
}

func (p *parser) parseMulDivMod() (fexpr, error) {
	left, err := p.parsePow()
	if err != nil {
		return nil, err
	}
	for {
		t := p.cur()
		if t.kind == tokOp && (t.text == "*" || t.text == "/" || t.text == "%") {
			p.advance()
			right, err := p.parsePow()
			if err != nil {
				return nil, err
			}
			var op binOp
			switch t.text {
			case "*":
				op = opMul
			case "/":
				op = opDiv
			default:
				op = opMod
			}
			left = &fBin{Op: op, Left: left, Right: right}
			continue
		}
		if p.dialect == Ascii1 && p.startsFactor(t) {
			right, err := p.parsePow()
			if err != nil {
				return nil, err
			}
			left = &fBin{Op: opMul, Left: left, Right: right}
			continue
		}
		return left, nil
	}
}

// startsFactor reports whether t can begin a new primary expression,
// used to detect Ascii1 juxtaposition multiplication.
func (p *parser) startsFactor(t token) bool {
	return t.kind == tokNum || t.kind == tokIdent || t.kind == tokLParen
}

func (p *parser) parsePow() (fexpr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.cur().kind == tokOp && p.cur().text == "^" {
		p.advance()
		right, err := p.parsePow() // right-associative
		if err != nil {
			return nil, err
		}
		return &fBin{Op: opPow, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseUnary() (fexpr, error) {
	t := p.cur()
	if t.kind == tokOp && t.text == "-" {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &fUnary{Neg: true, Operand: operand}, nil
	}
	if t.kind == tokOp && t.text == "+" {
		p.advance()
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (fexpr, error) {
	t := p.cur()
	switch t.kind {
	case tokNum:
		p.advance()
		f, err := numeric.ParseFixed64(t.text)
		if err != nil {
			return nil, errMsg("FORMULA_NUMBER_INVALID:%s", t.text)
		}
		return &fNum{V: f}, nil
	case tokIdent:
		name := t.text
		p.advance()
		if p.cur().kind == tokLParen {
			p.advance()
			var args []fexpr
			if p.cur().kind != tokRParen {
				for {
					arg, err := p.parseAddSub()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if p.cur().kind == tokComma {
						p.advance()
						continue
					}
					break
				}
			}
			if p.cur().kind != tokRParen {
				return nil, errMsg("FORMULA_PARSE_EXPECTED_RPAREN")
			}
			p.advance()
			return &fCall{Name: name, Args: args}, nil
		}
		return &fVar{Name: name}, nil
	case tokLParen:
		p.advance()
		inner, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		if p.cur().kind != tokRParen {
			return nil, errMsg("FORMULA_PARSE_EXPECTED_RPAREN")
		}
		p.advance()
		return inner, nil
	default:
		return nil, errMsg("FORMULA_PARSE_UNEXPECTED_TOKEN:%s", t.text)
	}
}
