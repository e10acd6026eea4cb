// Package grammar implements the spec tokenizer/parser (spec.md S4.3,
// component C3): a line-oriented recursive-descent parser that turns
// "$Name := <body>" lines into a forest of expression trees, resolving
// forward references between non-terminals and interning terminal bytes.
//
// Grounded on original_source/src/regex.c's parse_header/parse_body/
// parse_operand/parse_operator, function for function; see DESIGN.md.
package grammar

import "github.com/coregx/lexgen/pool"

// Fixed pool capacities, spec.md S3.
const (
	MaxNonterms     = 256
	MaxNonTermName  = 64
	MaxNestedExprs  = 4 * MaxNonterms
	MaxRegexLineLen = 1024
)

// OperandKind tags which arena an Expr's operand offset indexes into.
type OperandKind uint8

const (
	// KindNothing marks an absent operand (op2 of a NO_OP/ZERO_OR_MORE node).
	KindNothing OperandKind = iota
	// KindNestedExpr means the operand is an offset into the expression pool.
	KindNestedExpr
	// KindNonTerminal means the operand is an offset into the non-terminal table.
	KindNonTerminal
	// KindTerminal means the operand is an offset into the terminal pool.
	KindTerminal
)

func (k OperandKind) String() string {
	switch k {
	case KindNothing:
		return "NOTHING"
	case KindNestedExpr:
		return "NESTED_EXPR"
	case KindNonTerminal:
		return "NON_TERMINAL"
	case KindTerminal:
		return "TERMINAL"
	default:
		return "UNKNOWN"
	}
}

// OperatorKind is the operator carried by an expression node.
type OperatorKind uint8

const (
	// NoOp denotes a wrapper node carrying only Op1 (the tail of a chain).
	NoOp OperatorKind = iota
	// Or denotes alternation of Op1 and Op2.
	Or
	// And denotes concatenation of Op1 and Op2.
	And
	// ZeroOrMore denotes Kleene closure of Op1 (Op2 is always KindNothing).
	ZeroOrMore
)

func (k OperatorKind) String() string {
	switch k {
	case NoOp:
		return "NO_OP"
	case Or:
		return "OR"
	case And:
		return "AND"
	case ZeroOrMore:
		return "ZERO_OR_MORE"
	default:
		return "UNKNOWN"
	}
}

// Expr is a single expression-tree node. Per spec.md S3's invariant, trees
// are right-leaning: every binary node's Op2 is either KindNothing or
// another expression node, and leaves (KindTerminal/KindNonTerminal) only
// ever occupy Op1.
type Expr struct {
	Op1, Op2         pool.Offset
	Op1Kind, Op2Kind OperandKind
	Op               OperatorKind
}

// NonTerminal is one entry of the non-terminal table (spec.md S3).
type NonTerminal struct {
	Name     string
	RootExpr pool.Offset
	Complete bool
	Idx      int
}
