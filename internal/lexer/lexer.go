// Package lexer tokenizes tarn surface syntax.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/tarn-lang/tarn/tarnerr"
)

// TokenType represents the kind of token.
type TokenType int

const (
	EOF TokenType = iota

	// Punctuation
	LPAREN     // "("
	RPAREN     // ")"
	COLON      // ":"
	COLONEQ    // ":="
	COMMA      // ","
	PERIOD     // "."
	BAR        // "|"
	ARROW      // "->"
	FATARROW   // "=>"
	UNDERSCORE // "_"

	// Literals & identifiers
	IDENT
	NUMBER

	// Keywords
	MODULE
	IMPORT
	INDUCTIVE
	DEF
	EXTERN
	END
	MATCH
	WITH
	AS
	FORALL
	FUN
	LET
	IN
	TYPE
)

var tokenNames = map[TokenType]string{
	EOF:        "end of input",
	LPAREN:     "'('",
	RPAREN:     "')'",
	COLON:      "':'",
	COLONEQ:    "':='",
	COMMA:      "','",
	PERIOD:     "'.'",
	BAR:        "'|'",
	ARROW:      "'->'",
	FATARROW:   "'=>'",
	UNDERSCORE: "'_'",
	IDENT:      "identifier",
	NUMBER:     "number",
	MODULE:     "'module'",
	IMPORT:     "'import'",
	INDUCTIVE:  "'inductive'",
	DEF:        "'def'",
	EXTERN:     "'extern'",
	END:        "'end'",
	MATCH:      "'match'",
	WITH:       "'with'",
	AS:         "'as'",
	FORALL:     "'forall'",
	FUN:        "'fun'",
	LET:        "'let'",
	IN:         "'in'",
	TYPE:       "'Type'",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a lexical token. Line and Col are 1-based.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
	Col    int
}

// keywords map
var keywords = map[string]TokenType{
	"module":    MODULE,
	"import":    IMPORT,
	"inductive": INDUCTIVE,
	"def":       DEF,
	"extern":    EXTERN,
	"end":       END,
	"match":     MATCH,
	"with":      WITH,
	"as":        AS,
	"forall":    FORALL,
	"fun":       FUN,
	"let":       LET,
	"in":        IN,
	"Type":      TYPE,
}

// Lexer walks a source string rune by rune.
type Lexer struct {
	src  string
	pos  int // byte offset of the next rune
	line int
	col  int
}

// New creates a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize lexes src completely, ending with an EOF token.
func Tokenize(src string) ([]Token, error) {
	lx := New(src)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) peek() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[l.pos:])
}

func (l *Lexer) bump() rune {
	r, size := l.peek()
	if size == 0 {
		return 0
	}
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// Next returns the next token. After EOF it keeps returning EOF.
func (l *Lexer) Next() (Token, error) {
	l.skipSpaceAndComments()

	line, col := l.line, l.col
	r, size := l.peek()
	if size == 0 {
		return Token{Type: EOF, Line: line, Col: col}, nil
	}

	switch r {
	case '(':
		l.bump()
		return l.tok(LPAREN, "(", line, col), nil
	case ')':
		l.bump()
		return l.tok(RPAREN, ")", line, col), nil
	case ',':
		l.bump()
		return l.tok(COMMA, ",", line, col), nil
	case '.':
		l.bump()
		return l.tok(PERIOD, ".", line, col), nil
	case '|':
		l.bump()
		return l.tok(BAR, "|", line, col), nil
	case ':':
		l.bump()
		if r2, _ := l.peek(); r2 == '=' {
			l.bump()
			return l.tok(COLONEQ, ":=", line, col), nil
		}
		return l.tok(COLON, ":", line, col), nil
	case '-':
		l.bump()
		if r2, _ := l.peek(); r2 == '>' {
			l.bump()
			return l.tok(ARROW, "->", line, col), nil
		}
		return Token{}, tarnerr.NewSyntaxError(line, col, "unexpected '-'; did you mean '->'?")
	case '=':
		l.bump()
		if r2, _ := l.peek(); r2 == '>' {
			l.bump()
			return l.tok(FATARROW, "=>", line, col), nil
		}
		return Token{}, tarnerr.NewSyntaxError(line, col, "unexpected '='; definitions use ':='")
	}

	if unicode.IsDigit(r) {
		start := l.pos
		for {
			r2, sz := l.peek()
			if sz == 0 || !unicode.IsDigit(r2) {
				break
			}
			l.bump()
		}
		return l.tok(NUMBER, l.src[start:l.pos], line, col), nil
	}

	if isIdentStart(r) {
		start := l.pos
		for {
			r2, sz := l.peek()
			if sz == 0 || !isIdentContinue(r2) {
				break
			}
			l.bump()
		}
		word := l.src[start:l.pos]
		if word == "_" {
			return l.tok(UNDERSCORE, word, line, col), nil
		}
		if kw, ok := keywords[word]; ok {
			return l.tok(kw, word, line, col), nil
		}
		return l.tok(IDENT, word, line, col), nil
	}

	return Token{}, tarnerr.NewSyntaxError(line, col, fmt.Sprintf("unrecognized character %q", r))
}

func (l *Lexer) tok(t TokenType, lexeme string, line, col int) Token {
	return Token{Type: t, Lexeme: lexeme, Line: line, Col: col}
}

func (l *Lexer) skipSpaceAndComments() {
	for {
		r, size := l.peek()
		if size == 0 {
			return
		}
		if unicode.IsSpace(r) {
			l.bump()
			continue
		}
		if r == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
			for {
				r2, sz := l.peek()
				if sz == 0 || r2 == '\n' {
					break
				}
				l.bump()
			}
			continue
		}
		return
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
