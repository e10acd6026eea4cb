package grammar

import (
	"strings"

	"github.com/coregx/lexgen/pool"
)

// DebugString renders a non-terminal's expression tree as a fully
// parenthesized infix expression, e.g. "(a & (b* & c))". Ported from
// log_expr in original_source/src/regex.c (SPEC_FULL.md's SUPPLEMENTED
// FEATURES #1); this is read-only diagnostics and affects nothing about
// parsing or NFA construction.
func (p *Parser) DebugString(nt *NonTerminal) string {
	var b strings.Builder
	p.writeExpr(&b, nt.RootExpr)
	return b.String()
}

func (p *Parser) writeExpr(b *strings.Builder, off pool.Offset) {
	if !off.Valid() {
		return
	}
	expr := p.Exprs.Get(off)
	if expr == nil {
		return
	}

	binary := expr.Op == Or || expr.Op == And
	if binary {
		b.WriteByte('(')
	}
	p.writeOperand(b, expr.Op1, expr.Op1Kind)

	switch expr.Op {
	case Or:
		b.WriteString(" | ")
	case And:
		b.WriteString(" & ")
	case ZeroOrMore:
		b.WriteByte('*')
	case NoOp:
		// nothing
	}

	p.writeOperand(b, expr.Op2, expr.Op2Kind)
	if binary {
		b.WriteByte(')')
	}
}

func (p *Parser) writeOperand(b *strings.Builder, off pool.Offset, kind OperandKind) {
	switch kind {
	case KindNestedExpr:
		p.writeExpr(b, off)
	case KindTerminal:
		b.WriteString(p.Terms.String(off))
	case KindNonTerminal:
		nt := p.Nonterms.Get(off)
		if nt != nil {
			b.WriteByte('$')
			b.WriteString(nt.Name)
		}
	case KindNothing:
		// nothing
	}
}
