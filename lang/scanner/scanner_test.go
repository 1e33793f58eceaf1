package scanner

import (
	"testing"

	"github.com/mna/wisp/lang/token"
	"github.com/stretchr/testify/require"
)

func TestScanBasic(t *testing.T) {
	src := `x = 1 + 2.5 * "hi\n" # comment
nonlocal y`
	sc := New("test", []byte(src))
	toks, err := sc.Scan()
	require.NoError(t, err)

	var kinds []token.Token
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	require.Equal(t, []token.Token{
		token.IDENT, token.EQ, token.FLOAT, token.PLUS, token.FLOAT,
		token.STAR, token.STRING, token.NONLOCAL, token.IDENT, token.EOF,
	}, kinds)
}

func TestScanStringEscapes(t *testing.T) {
	sc := New("test", []byte(`"a\tb\\c"`))
	toks, err := sc.Scan()
	require.NoError(t, err)
	require.Equal(t, "a\tb\\c", toks[0].Lit)
}

func TestScanErrors(t *testing.T) {
	sc := New("test", []byte(`"unterminated`))
	_, err := sc.Scan()
	require.Error(t, err)
}
