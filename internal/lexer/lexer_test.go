package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarn-lang/tarn/internal/lexer"
	"github.com/tarn-lang/tarn/tarnerr"
)

// kinds projects a token stream onto its token types.
func kinds(toks []lexer.Token) []lexer.TokenType {
	out := make([]lexer.TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []lexer.TokenType
	}{
		{
			name:  "punctuation",
			input: "( ) : := , . | -> => _",
			want: []lexer.TokenType{
				lexer.LPAREN, lexer.RPAREN, lexer.COLON, lexer.COLONEQ,
				lexer.COMMA, lexer.PERIOD, lexer.BAR, lexer.ARROW,
				lexer.FATARROW, lexer.UNDERSCORE, lexer.EOF,
			},
		},
		{
			name:  "keywords and identifiers",
			input: "def add match with end Nat Type fun forall let in",
			want: []lexer.TokenType{
				lexer.DEF, lexer.IDENT, lexer.MATCH, lexer.WITH, lexer.END,
				lexer.IDENT, lexer.TYPE, lexer.FUN, lexer.FORALL,
				lexer.LET, lexer.IN, lexer.EOF,
			},
		},
		{
			name:  "declaration shape",
			input: "def two : Nat := S (S Z)",
			want: []lexer.TokenType{
				lexer.DEF, lexer.IDENT, lexer.COLON, lexer.IDENT,
				lexer.COLONEQ, lexer.IDENT, lexer.LPAREN, lexer.IDENT,
				lexer.IDENT, lexer.RPAREN, lexer.EOF,
			},
		},
		{
			name:  "universe level",
			input: "Type 3",
			want:  []lexer.TokenType{lexer.TYPE, lexer.NUMBER, lexer.EOF},
		},
		{
			name:  "comments are skipped",
			input: "Z // the rest is ignored -> =>\nS",
			want:  []lexer.TokenType{lexer.IDENT, lexer.IDENT, lexer.EOF},
		},
		{
			name:  "empty input",
			input: "  \n\t ",
			want:  []lexer.TokenType{lexer.EOF},
		},
		{
			name:  "identifier with digits and underscore",
			input: "add_zero x1",
			want:  []lexer.TokenType{lexer.IDENT, lexer.IDENT, lexer.EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lexer.Tokenize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kinds(toks))
		})
	}
}

func TestTokenPositions(t *testing.T) {
	toks, err := lexer.Tokenize("def two\n  := S Z")
	require.NoError(t, err)

	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Col)
	assert.Equal(t, "two", toks[1].Lexeme)
	assert.Equal(t, 5, toks[1].Col)
	assert.Equal(t, lexer.COLONEQ, toks[2].Type)
	assert.Equal(t, 2, toks[2].Line)
	assert.Equal(t, 3, toks[2].Col)
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "bare minus hints at arrow",
			input:   "Nat - Nat",
			wantMsg: "unexpected '-'; did you mean '->'?",
		},
		{
			name:    "bare equals hints at walrus",
			input:   "def x : Nat = Z",
			wantMsg: "unexpected '='; definitions use ':='",
		},
		{
			name:    "unrecognized character",
			input:   "def x := $",
			wantMsg: "unrecognized character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lexer.Tokenize(tt.input)
			require.Error(t, err)
			var synErr *tarnerr.SyntaxError
			require.ErrorAs(t, err, &synErr)
			assert.Contains(t, synErr.Msg, tt.wantMsg)
			assert.Greater(t, synErr.Line, 0)
			assert.Greater(t, synErr.Column, 0)
		})
	}
}

func TestTypeKeywordIsCaseSensitive(t *testing.T) {
	toks, err := lexer.Tokenize("Type type")
	require.NoError(t, err)
	assert.Equal(t, lexer.TYPE, toks[0].Type)
	assert.Equal(t, lexer.IDENT, toks[1].Type)
}
