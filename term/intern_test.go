package term

import (
	"testing"

	"github.com/coregx/lexgen/diag"
	"github.com/stretchr/testify/require"
)

func TestInternPlain(t *testing.T) {
	p := NewPool()
	off, err := p.Intern([]byte("hello"), 1, 1, nil)
	require.NoError(t, err)
	require.Equal(t, "hello", p.String(off))
}

func TestInternEscapeSpace(t *testing.T) {
	p := NewPool()
	off, err := p.Intern([]byte(`hello@_world`), 1, 1, nil)
	require.NoError(t, err)
	require.Equal(t, "hello world", p.String(off))
}

func TestInternEscapeLiterals(t *testing.T) {
	p := NewPool()
	off, err := p.Intern([]byte(`a@@b@|c@*d@$e`), 1, 1, nil)
	require.NoError(t, err)
	require.Equal(t, "a@b|c*d$e", p.String(off))
}

func TestInternUnknownEscapeWarns(t *testing.T) {
	p := NewPool()
	sink := diag.NewRecordingSink()
	off, err := p.Intern([]byte(`a@zb`), 3, 5, sink)
	require.NoError(t, err)
	require.Equal(t, "azb", p.String(off))
	require.Len(t, sink.Warnings, 1)
	require.Contains(t, sink.Warnings[0], "Warning 3:5:")
}

func TestInternEscapeAtEndIsFatal(t *testing.T) {
	p := NewPool()
	_, err := p.Intern([]byte(`abc@`), 2, 9, nil)
	require.Error(t, err)

	var end *EscapeAtEndError
	require.ErrorAs(t, err, &end)
	line, col := end.Position()
	require.Equal(t, 2, line)
	require.Equal(t, 9, col)
}

func TestInternMultipleTerminalsGetDistinctOffsets(t *testing.T) {
	p := NewPool()
	off1, err := p.Intern([]byte("if"), 1, 1, nil)
	require.NoError(t, err)
	off2, err := p.Intern([]byte("then"), 1, 4, nil)
	require.NoError(t, err)

	require.NotEqual(t, off1, off2)
	require.Equal(t, "if", p.String(off1))
	require.Equal(t, "then", p.String(off2))
}

func TestInternOverflow(t *testing.T) {
	p := NewPool()
	p.capacity = 4
	_, err := p.Intern([]byte("hello"), 1, 1, nil)
	require.Error(t, err)
}
