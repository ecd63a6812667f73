package parse

import (
	"fmt"
	"strings"

	"github.com/codalotl/treediff/internal/syntax"
)

// Ruby parses a small Ruby-flavored grammar into a Term. The subset is intentionally
// modest; it exists so the engine has a concrete, deterministic Term producer:
//
//	program   := statements
//	statement := comment | method | "return" expr? | expr
//	method    := "def" ident ( "(" ident ("," ident)* ")" )? sep statements "end"
//	expr      := ident "=" expr | binary
//	binary    := precedence-climbing over or/||, and/&&, == != < > <= >=, + -, * / %
//	primary   := integer | string | ident ( "(" expr ("," expr)* ")" )? | "(" expr ")"
//
// Statements are separated by newlines or ";". Comments run from "#" to end of line.
// Strings are single- or double-quoted without escape processing.
func Ruby(src string) (*syntax.Term, error) {
	toks, err := lexRuby(src)
	if err != nil {
		return nil, err
	}
	p := &rubyParser{src: src, toks: toks, lines: syntax.NewLineIndex(src)}
	return p.parseProgram()
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokSep         // newline or ';'
	tokIdent
	tokInt
	tokString
	tokComment
	tokOp     // and or && || == != < > <= >= + - * / %
	tokAssign // =
	tokLParen
	tokRParen
	tokComma
	tokDef
	tokEnd
	tokReturn
)

type token struct {
	kind  tokKind
	text  string
	start int
	end   int
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokSep:
		return "end of line"
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

var twoByteOps = []string{"&&", "||", "==", "!=", "<=", ">="}

func lexRuby(src string) ([]token, error) {
	var toks []token
	line := 1
	i := 0
	emit := func(kind tokKind, start, end int) {
		toks = append(toks, token{kind: kind, text: src[start:end], start: start, end: end})
	}
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '\n' || c == ';':
			if c == '\n' {
				line++
			}
			emit(tokSep, i, i+1)
			i++
		case c == '#':
			start := i
			for i < len(src) && src[i] != '\n' {
				i++
			}
			emit(tokComment, start, i)
		case c >= '0' && c <= '9':
			start := i
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			emit(tokInt, start, i)
		case isWordByte(c):
			start := i
			for i < len(src) && (isWordByte(src[i]) || src[i] >= '0' && src[i] <= '9') {
				i++
			}
			switch word := src[start:i]; word {
			case "def":
				emit(tokDef, start, i)
			case "end":
				emit(tokEnd, start, i)
			case "return":
				emit(tokReturn, start, i)
			case "and", "or":
				emit(tokOp, start, i)
			default:
				emit(tokIdent, start, i)
			}
		case c == '"' || c == '\'':
			start := i
			i++
			for i < len(src) && src[i] != c && src[i] != '\n' {
				i++
			}
			if i >= len(src) || src[i] != c {
				return nil, fmt.Errorf("ruby: line %d: unterminated string", line)
			}
			i++
			emit(tokString, start, i)
		case c == '(':
			emit(tokLParen, i, i+1)
			i++
		case c == ')':
			emit(tokRParen, i, i+1)
			i++
		case c == ',':
			emit(tokComma, i, i+1)
			i++
		default:
			if i+1 < len(src) && contains(twoByteOps, src[i:i+2]) {
				emit(tokOp, i, i+2)
				i += 2
				continue
			}
			if strings.ContainsRune("+-*/%<>", rune(c)) {
				emit(tokOp, i, i+1)
				i++
				continue
			}
			if c == '=' {
				emit(tokAssign, i, i+1)
				i++
				continue
			}
			return nil, fmt.Errorf("ruby: line %d: unexpected character %q", line, string(c))
		}
	}
	toks = append(toks, token{kind: tokEOF, start: len(src), end: len(src)})
	return toks, nil
}

func isWordByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

type rubyParser struct {
	src   string
	toks  []token
	pos   int
	lines *syntax.LineIndex
}

func (p *rubyParser) cur() token  { return p.toks[p.pos] }
func (p *rubyParser) next() token { t := p.toks[p.pos]; p.pos++; return t }

func (p *rubyParser) skipSeps() {
	for p.cur().kind == tokSep {
		p.pos++
	}
}

func (p *rubyParser) ann(start, end int) syntax.Annotation {
	r := syntax.SourceRange{Start: start, End: end}
	return syntax.Annotation{Range: r, Span: p.lines.Span(r)}
}

func (p *rubyParser) errorf(t token, format string, args ...any) error {
	return fmt.Errorf("ruby: line %d: %s", p.lines.Pos(t.start).Line, fmt.Sprintf(format, args...))
}

func (p *rubyParser) parseProgram() (*syntax.Term, error) {
	var stmts []*syntax.Term
	p.skipSeps()
	for p.cur().kind != tokEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if k := p.cur().kind; k != tokSep && k != tokEOF {
			return nil, p.errorf(p.cur(), "unexpected %s after statement", p.cur().describe())
		}
		p.skipSeps()
	}
	return syntax.New(syntax.TagProgram, p.ann(0, len(p.src)), "", stmts...), nil
}

func (p *rubyParser) parseStatement() (*syntax.Term, error) {
	switch t := p.cur(); t.kind {
	case tokComment:
		p.next()
		return syntax.New(syntax.TagComment, p.ann(t.start, t.end), t.text), nil
	case tokDef:
		return p.parseMethod()
	case tokReturn:
		p.next()
		if k := p.cur().kind; k == tokSep || k == tokEOF || k == tokEnd {
			empty := syntax.New(syntax.TagEmpty, p.ann(t.end, t.end), "")
			return syntax.New(syntax.TagReturn, p.ann(t.start, t.end), "", empty), nil
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return syntax.New(syntax.TagReturn, p.ann(t.start, expr.Ann.Range.End), "", expr), nil
	default:
		return p.parseExpr()
	}
}

func (p *rubyParser) parseMethod() (*syntax.Term, error) {
	def := p.next() // tokDef
	nameTok := p.cur()
	if nameTok.kind != tokIdent {
		return nil, p.errorf(nameTok, "expected method name, got %s", nameTok.describe())
	}
	p.next()
	name := syntax.New(syntax.TagIdentifier, p.ann(nameTok.start, nameTok.end), nameTok.text)

	params := syntax.New(syntax.TagParameters, p.ann(nameTok.end, nameTok.end), "")
	if p.cur().kind == tokLParen {
		lp := p.next()
		var idents []*syntax.Term
		for p.cur().kind != tokRParen {
			id := p.cur()
			if id.kind != tokIdent {
				return nil, p.errorf(id, "expected parameter name, got %s", id.describe())
			}
			p.next()
			idents = append(idents, syntax.New(syntax.TagIdentifier, p.ann(id.start, id.end), id.text))
			if p.cur().kind == tokComma {
				p.next()
				continue
			}
			break
		}
		rp := p.cur()
		if rp.kind != tokRParen {
			return nil, p.errorf(rp, "expected ')', got %s", rp.describe())
		}
		p.next()
		params = syntax.New(syntax.TagParameters, p.ann(lp.start, rp.end), "", idents...)
	}

	p.skipSeps()
	var stmts []*syntax.Term
	bodyStart := p.cur().start
	for p.cur().kind != tokEnd {
		if p.cur().kind == tokEOF {
			return nil, p.errorf(p.cur(), "expected 'end' to close method %s", name.Leaf)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if k := p.cur().kind; k != tokSep && k != tokEnd {
			return nil, p.errorf(p.cur(), "unexpected %s after statement", p.cur().describe())
		}
		p.skipSeps()
	}
	bodyEnd := bodyStart
	if len(stmts) > 0 {
		bodyStart = stmts[0].Ann.Range.Start
		bodyEnd = stmts[len(stmts)-1].Ann.Range.End
	}
	body := syntax.New(syntax.TagStatements, p.ann(bodyStart, bodyEnd), "", stmts...)

	endTok := p.next() // tokEnd
	ann := p.ann(def.start, endTok.end)
	return syntax.New(syntax.TagMethod, ann, "", name, params, body), nil
}

func (p *rubyParser) parseExpr() (*syntax.Term, error) {
	lhs, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.cur().kind == tokAssign && lhs.Tag == syntax.TagIdentifier {
		p.next()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ann := p.ann(lhs.Ann.Range.Start, rhs.Ann.Range.End)
		return syntax.New(syntax.TagAssignment, ann, "", lhs, rhs), nil
	}
	return lhs, nil
}

// Operator precedence levels, loosest first.
var precedence = [][]string{
	{"or", "||"},
	{"and", "&&"},
	{"==", "!=", "<", ">", "<=", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *rubyParser) parseBinary(level int) (*syntax.Term, error) {
	if level >= len(precedence) {
		return p.parsePrimary()
	}
	lhs, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokOp && contains(precedence[level], p.cur().text) {
		opTok := p.next()
		rhs, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		op := syntax.New(syntax.TagOperator, p.ann(opTok.start, opTok.end), opTok.text)
		ann := p.ann(lhs.Ann.Range.Start, rhs.Ann.Range.End)
		lhs = syntax.New(syntax.TagBinary, ann, "", lhs, op, rhs)
	}
	return lhs, nil
}

func (p *rubyParser) parsePrimary() (*syntax.Term, error) {
	switch t := p.cur(); t.kind {
	case tokInt:
		p.next()
		return syntax.New(syntax.TagInteger, p.ann(t.start, t.end), t.text), nil
	case tokString:
		p.next()
		return syntax.New(syntax.TagTextElement, p.ann(t.start, t.end), t.text), nil
	case tokIdent:
		p.next()
		ident := syntax.New(syntax.TagIdentifier, p.ann(t.start, t.end), t.text)
		if p.cur().kind != tokLParen {
			return ident, nil
		}
		lp := p.next()
		var args []*syntax.Term
		for p.cur().kind != tokRParen {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur().kind == tokComma {
				p.next()
				continue
			}
			break
		}
		rp := p.cur()
		if rp.kind != tokRParen {
			return nil, p.errorf(rp, "expected ')', got %s", rp.describe())
		}
		p.next()
		argsNode := syntax.New(syntax.TagArguments, p.ann(lp.start, rp.end), "", args...)
		return syntax.New(syntax.TagCall, p.ann(t.start, rp.end), "", ident, argsNode), nil
	case tokLParen:
		lp := p.next()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		rp := p.cur()
		if rp.kind != tokRParen {
			return nil, p.errorf(rp, "expected ')', got %s", rp.describe())
		}
		p.next()
		return syntax.New(syntax.TagParenthesized, p.ann(lp.start, rp.end), "", expr), nil
	default:
		return nil, p.errorf(t, "unexpected %s", t.describe())
	}
}
