package grammar

import (
	"bufio"
	"fmt"
	"io"

	"github.com/coregx/lexgen/diag"
	"github.com/coregx/lexgen/pool"
	"github.com/coregx/lexgen/term"
)

// Parser owns the three pools the grammar phase writes (spec.md S5): the
// expression pool, the non-terminal table, and the terminal pool. It is
// the Builder context spec.md S9 recommends in place of the original's
// module-level statics.
type Parser struct {
	Exprs    *pool.Arena[Expr]
	Nonterms *pool.Arena[NonTerminal]
	Terms    *term.Pool

	nameIndex map[string]pool.Offset
	sink      diag.Sink
	line      int
}

// NewParser constructs a Parser with the fixed spec.md S3 pool capacities.
// sink may be nil, in which case warnings are silently discarded.
func NewParser(sink diag.Sink) *Parser {
	return &Parser{
		Exprs:     pool.NewArena[Expr]("expressions", MaxNestedExprs),
		Nonterms:  pool.NewArena[NonTerminal]("non-terminals", MaxNonterms),
		Terms:     term.NewPool(),
		nameIndex: make(map[string]pool.Offset),
		sink:      sink,
	}
}

// ParseAll reads and parses every line of r, in order. The first fatal
// error aborts parsing and is returned; spec.md S7 "no recovery".
func (p *Parser) ParseAll(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	// The 1024-byte MaxRegexLineLen (spec.md S6) is the external reader's
	// truncation contract (out of scope here, spec.md S1); we size our
	// buffer generously instead of truncating so a long line is still
	// parsed rather than silently cut.
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Bytes()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// parseLine implements spec.md S4.3 step 1-4 for a single logical line.
func (p *Parser) parseLine(raw []byte) error {
	c := newCursor(p.line, raw)
	skipSpace(c)

	if c.atEnd() {
		return nil
	}
	if c.cur() == '!' {
		return nil
	}

	ntOff, err := p.parseHeader(c)
	if err != nil {
		return err
	}
	if err := p.parseBody(c, ntOff); err != nil {
		return err
	}

	p.Nonterms.MustGet(ntOff).Complete = true
	return nil
}

// parseHeader consumes "$Name := " and returns the non-terminal's slot,
// ported from parse_header in original_source/src/regex.c.
func (p *Parser) parseHeader(c *cursor) (pool.Offset, error) {
	if c.cur() != '$' {
		return pool.None, syntaxErrorf(c.line, c.col, "malformed regex spec line; each line must specify a non-terminal")
	}

	nameStart := c.pos
	c.advance()
	for !c.atEnd() && !isSpace(c.cur()) {
		c.advance()
	}

	if c.pos == nameStart+1 {
		return pool.None, syntaxErrorf(c.line, c.col, "empty non-terminal name")
	}
	if c.atEnd() {
		return pool.None, syntaxErrorf(c.line, c.col, "missing definition of a non-terminal")
	}

	name := string(c.buf[nameStart+1 : c.pos])
	if len(name) > MaxNonTermName {
		return pool.None, syntaxErrorf(c.line, c.col, "non-terminal name %q exceeds %d bytes", name, MaxNonTermName)
	}

	ntOff, err := p.declareHeader(name, c.line, c.col)
	if err != nil {
		return pool.None, err
	}

	skipSpace(c)
	if c.cur() != ':' {
		return pool.None, syntaxErrorf(c.line, c.col, "missing definition of a non-terminal")
	}
	c.advance()
	if c.cur() != '=' {
		return pool.None, syntaxErrorf(c.line, c.col, "missing definition of a non-terminal")
	}
	c.advance()

	skipSpace(c)
	if c.atEnd() {
		return pool.None, syntaxErrorf(c.line, c.col, "missing definition of a non-terminal")
	}

	return ntOff, nil
}

// declareHeader resolves a header's "$Name": reuse a forward-declared slot,
// reject a redefinition of a complete entry, or allocate a fresh slot.
func (p *Parser) declareHeader(name string, line, col int) (pool.Offset, error) {
	if off, ok := p.nameIndex[name]; ok {
		nt := p.Nonterms.MustGet(off)
		if nt.Complete {
			return pool.None, syntaxErrorf(line, col, "re-definition of a non-terminal: %s", name)
		}
		nt.Idx = int(off)
		return off, nil
	}

	off, nt, err := p.Nonterms.Alloc()
	if err != nil {
		return pool.None, err
	}
	nt.Name = name
	nt.Idx = int(off)
	nt.Complete = false
	nt.RootExpr = pool.None
	p.nameIndex[name] = off
	return off, nil
}

// forwardDeclare resolves a "$Name" operand reference: reuse any existing
// slot (complete or not) or allocate a fresh, incomplete one.
func (p *Parser) forwardDeclare(name string) (pool.Offset, error) {
	if off, ok := p.nameIndex[name]; ok {
		return off, nil
	}
	off, nt, err := p.Nonterms.Alloc()
	if err != nil {
		return pool.None, err
	}
	nt.Name = name
	nt.Idx = int(off)
	nt.Complete = false
	nt.RootExpr = pool.None
	p.nameIndex[name] = off
	return off, nil
}

// parseBody consumes operand/operator pairs until the line ends,
// constructing the right-leaning expression tree described in spec.md
// S4.3's "Expression-tree construction", ported from parse_body in
// original_source/src/regex.c.
func (p *Parser) parseBody(c *cursor, ntOff pool.Offset) error {
	nt := p.Nonterms.MustGet(ntOff)

	rootOff, _, err := p.Exprs.Alloc()
	if err != nil {
		return err
	}
	nt.RootExpr = rootOff

	currentOff := rootOff
	prevOff := rootOff

	for {
		operandOff, operandKind, err := p.parseOperand(c)
		if err != nil {
			return err
		}
		if operandKind == KindNothing {
			break
		}

		opCode, err := p.parseOperator(c)
		if err != nil {
			return err
		}

		current := p.Exprs.MustGet(currentOff)
		current.Op = opCode
		current.Op1 = operandOff
		current.Op1Kind = operandKind

		if opCode == ZeroOrMore {
			current.Op2 = pool.None
			current.Op2Kind = KindNothing

			wrapperCode, err := p.parseOperator(c)
			if err != nil {
				return err
			}
			if wrapperCode == NoOp {
				// A closure that ends the line is itself the chain's tail.
				prevOff = currentOff
				break
			}
			wrapperOff, wrapper, err := p.Exprs.Alloc()
			if err != nil {
				return err
			}
			wrapper.Op = wrapperCode
			wrapper.Op1 = currentOff
			wrapper.Op1Kind = KindNestedExpr

			if currentOff == rootOff {
				nt.RootExpr = wrapperOff
			} else {
				prev := p.Exprs.MustGet(prevOff)
				prev.Op2 = wrapperOff
				prev.Op2Kind = KindNestedExpr
			}

			currentOff = wrapperOff
		}

		successorOff, _, err := p.Exprs.Alloc()
		if err != nil {
			return err
		}
		prevOff = currentOff
		p.Exprs.MustGet(currentOff).Op2 = successorOff
		p.Exprs.MustGet(currentOff).Op2Kind = KindNestedExpr
		currentOff = successorOff
	}

	tail := p.Exprs.MustGet(prevOff)
	if tail.Op != NoOp && tail.Op != ZeroOrMore {
		return fmt.Errorf("grammar: internal error: expression tail should be NO_OP or ZERO_OR_MORE, got %s", tail.Op)
	}
	// When the loop ends on an empty operand, the final allocated
	// successor (currentOff) is never filled; it is
	// simply left unlinked rather than reclaimed, since pool.Arena never
	// frees slots (spec.md S3: "no deletion").
	tail.Op2 = pool.None
	tail.Op2Kind = KindNothing

	return nil
}

// parseOperand implements spec.md S4.3's "Operand parsing", ported from
// parse_operand in original_source/src/regex.c.
func (p *Parser) parseOperand(c *cursor) (pool.Offset, OperandKind, error) {
	skipSpace(c)
	if c.atEnd() {
		return pool.None, KindNothing, nil
	}
	if c.cur() == '|' || c.cur() == '*' {
		return pool.None, KindNothing, syntaxErrorf(c.line, c.col, "an operator without an operand")
	}

	startPos := c.pos
	startCol := c.col
	for !c.atEnd() && !isSpace(c.cur()) {
		c.advance()
	}

	// Trailing '*' pushback: an operand token ending in an unescaped '*'
	// is split so the '*' becomes the next operator token.
	if c.pos-startPos >= 1 && c.buf[c.pos-1] == '*' {
		escaped := c.pos-startPos >= 2 && c.buf[c.pos-2] == '@'
		if !escaped {
			c.pos--
			c.col--
		}
	}

	tok := c.buf[startPos:c.pos]

	if len(tok) > 0 && tok[0] == '$' {
		if len(tok) == 1 {
			return pool.None, KindNothing, syntaxErrorf(c.line, startCol, "empty non-terminal name")
		}
		off, err := p.forwardDeclare(string(tok[1:]))
		if err != nil {
			return pool.None, KindNothing, err
		}
		return off, KindNonTerminal, nil
	}

	off, err := p.Terms.Intern(tok, c.line, startCol, p.sink)
	if err != nil {
		return pool.None, KindNothing, err
	}
	return off, KindTerminal, nil
}

// parseOperator implements spec.md S4.3's "Operator parsing", ported from
// parse_operator in original_source/src/regex.c.
func (p *Parser) parseOperator(c *cursor) (OperatorKind, error) {
	skipSpace(c)
	if c.atEnd() {
		return NoOp, nil
	}
	switch c.cur() {
	case '|':
		c.advance()
		return Or, nil
	case '*':
		c.advance()
		return ZeroOrMore, nil
	default:
		return And, nil
	}
}

// UndefinedNonTerminalError resolves spec.md S9's open question: a
// non-terminal referenced but never defined is a fatal error rather than
// silently ignored.
type UndefinedNonTerminalError struct {
	Name string
}

func (e *UndefinedNonTerminalError) Error() string {
	return fmt.Sprintf("undefined non-terminal: $%s", e.Name)
}

// Position satisfies the line/col reporting interface; undefined-entry
// detection happens after parsing, so there is no single offending line.
func (e *UndefinedNonTerminalError) Position() (int, int) { return 0, 0 }

// CheckComplete reports the first non-terminal left incomplete (forward-
// referenced but never defined) at end of parsing, per spec.md S3's
// invariant and S9's resolved open question.
func (p *Parser) CheckComplete() error {
	for i := 0; i < p.Nonterms.Len(); i++ {
		nt := p.Nonterms.MustGet(pool.Offset(i))
		if !nt.Complete {
			return &UndefinedNonTerminalError{Name: nt.Name}
		}
	}
	return nil
}
