package grammar

import "fmt"

// SyntaxError is a fatal parse error (spec.md S7): a syntactic violation
// tied to a specific source line/column. cmd/lexgen formats it as
// "Error <line>:<col>: <msg>" and exits 1.
type SyntaxError struct {
	Line, Col int
	Msg       string
}

func (e *SyntaxError) Error() string {
	return e.Msg
}

// Position implements the line/col reporting interface used by cmd/lexgen
// to format diagnostics consistently across packages.
func (e *SyntaxError) Position() (int, int) { return e.Line, e.Col }

func syntaxErrorf(line, col int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}
