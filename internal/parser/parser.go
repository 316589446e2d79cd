// Package parser turns tarn source text into the surface syntax tree.
//
// The grammar is small enough that a hand-written recursive descent parser
// stays readable; it reports every top-level declaration error it can by
// resynchronizing at the next declaration keyword instead of stopping at
// the first failure.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tarn-lang/tarn/internal/ast"
	"github.com/tarn-lang/tarn/internal/lexer"
	"github.com/tarn-lang/tarn/tarnerr"
)

type parser struct {
	toks []lexer.Token
	pos  int
	errs []error
}

// Parse parses a whole source file.
func Parse(src string) (*ast.File, error) {
	return ParseFile("", src)
}

// ParseFile parses a whole source file, recording path on the result.
// A single syntax error is returned bare; several come back wrapped in a
// MultiError.
func ParseFile(path, src string) (*ast.File, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	file := p.parseFile()
	file.Path = path
	switch len(p.errs) {
	case 0:
		return file, nil
	case 1:
		return nil, p.errs[0]
	default:
		return nil, &tarnerr.MultiError{Errors: p.errs}
	}
}

// ParseExpr parses a single expression and requires it to consume the
// whole input.
func ParseExpr(src string) (ast.Expr, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.EOF) {
		return nil, p.unexpected("end of input")
	}
	return e, nil
}

// ParseSnippet parses REPL input, which is either a run of declarations or
// a single expression. Input starting with a declaration keyword is parsed
// as a file; anything else as an expression.
func ParseSnippet(src string) (*ast.File, ast.Expr, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, nil, err
	}
	switch toks[0].Type {
	case lexer.DEF, lexer.INDUCTIVE, lexer.EXTERN, lexer.IMPORT, lexer.MODULE:
		file, err := Parse(src)
		return file, nil, err
	default:
		e, err := ParseExpr(src)
		return nil, e, err
	}
}

// IsIncomplete reports whether err indicates input that ran out before the
// construct being parsed was closed. The REPL uses this to keep reading
// lines instead of reporting the error.
func IsIncomplete(err error) bool {
	switch e := err.(type) {
	case *tarnerr.SyntaxError:
		return strings.HasPrefix(e.Msg, "unexpected end of input")
	case *tarnerr.MultiError:
		for _, sub := range e.Errors {
			if IsIncomplete(sub) {
				return true
			}
		}
	}
	return false
}

func (p *parser) peek() lexer.Token {
	return p.toks[p.pos]
}

func (p *parser) next() lexer.Token {
	tok := p.toks[p.pos]
	if tok.Type != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *parser) at(t lexer.TokenType) bool {
	return p.peek().Type == t
}

func (p *parser) accept(t lexer.TokenType) (lexer.Token, bool) {
	if p.at(t) {
		return p.next(), true
	}
	return lexer.Token{}, false
}

func (p *parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if p.at(t) {
		return p.next(), nil
	}
	return lexer.Token{}, p.unexpected(t.String())
}

func (p *parser) unexpected(wanted string) error {
	tok := p.peek()
	if tok.Type == lexer.EOF {
		return tarnerr.NewSyntaxError(tok.Line, tok.Col,
			fmt.Sprintf("unexpected end of input, expected %s", wanted))
	}
	return tarnerr.NewSyntaxError(tok.Line, tok.Col,
		fmt.Sprintf("unexpected %s, expected %s", tok.Type, wanted))
}

func span(tok lexer.Token) ast.Span {
	return ast.Span{Line: tok.Line, Column: tok.Col}
}

func (p *parser) parseFile() *ast.File {
	file := &ast.File{}

	if tok, ok := p.accept(lexer.MODULE); ok {
		path, err := p.parseImportPath()
		if err != nil {
			p.errs = append(p.errs, err)
			p.recover()
		} else {
			file.Module = strings.Join(path, ".")
		}
		_ = tok
	}

	for {
		tok, ok := p.accept(lexer.IMPORT)
		if !ok {
			break
		}
		path, err := p.parseImportPath()
		if err != nil {
			p.errs = append(p.errs, err)
			p.recover()
			continue
		}
		file.Imports = append(file.Imports, ast.Import{Path: path, Span: span(tok)})
	}

	for !p.at(lexer.EOF) {
		decl, err := p.parseDecl()
		if err != nil {
			p.errs = append(p.errs, err)
			p.recover()
			continue
		}
		file.Decls = append(file.Decls, decl)
	}
	return file
}

func (p *parser) parseImportPath() ([]string, error) {
	tok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	path := []string{tok.Lexeme}
	for {
		if _, ok := p.accept(lexer.PERIOD); !ok {
			return path, nil
		}
		tok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		path = append(path, tok.Lexeme)
	}
}

// recover skips tokens until the next plausible declaration start so one
// bad declaration does not hide errors in the rest of the file.
func (p *parser) recover() {
	for {
		switch p.peek().Type {
		case lexer.EOF, lexer.DEF, lexer.INDUCTIVE, lexer.EXTERN, lexer.IMPORT, lexer.MODULE:
			return
		}
		p.next()
	}
}

func (p *parser) parseDecl() (ast.Decl, error) {
	switch p.peek().Type {
	case lexer.INDUCTIVE:
		return p.parseInductive()
	case lexer.DEF:
		return p.parseDef()
	case lexer.EXTERN:
		return p.parseExtern()
	default:
		return nil, p.unexpected("a declaration ('def', 'inductive' or 'extern')")
	}
}

// parseInductive parses
//
//	inductive Name (p : P)* : arity
//	| Ctor : ty
//	...
//	end
func (p *parser) parseInductive() (ast.Decl, error) {
	kw := p.next()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	params, err := p.parseBinders(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	arity, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	var ctors []ast.Ctor
	for {
		bar, ok := p.accept(lexer.BAR)
		if !ok {
			break
		}
		cname, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		cty, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ctors = append(ctors, ast.Ctor{Name: cname.Lexeme, Ty: cty, Span: span(bar)})
	}
	if _, err := p.expect(lexer.END); err != nil {
		return nil, err
	}
	return &ast.Inductive{
		Name:   name.Lexeme,
		Params: params,
		Arity:  arity,
		Ctors:  ctors,
		Span:   span(kw),
	}, nil
}

// parseDef parses def Name (p : P)* : ret := body
func (p *parser) parseDef() (ast.Decl, error) {
	kw := p.next()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	params, err := p.parseBinders(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	ret, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLONEQ); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Def{
		Name:   name.Lexeme,
		Params: params,
		Ret:    ret,
		Body:   body,
		Span:   span(kw),
	}, nil
}

// parseExtern parses extern Name : ty
func (p *parser) parseExtern() (ast.Decl, error) {
	kw := p.next()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	ty, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Axiom{Name: name.Lexeme, Ty: ty, Span: span(kw)}, nil
}

// parseBinders parses zero or more parenthesized binder groups
// (x : A) (y z : B). A group with several names expands to one Binder per
// name, all sharing the group's type expression.
func (p *parser) parseBinders(atLeastOne bool) ([]ast.Binder, error) {
	var out []ast.Binder
	for {
		if !p.at(lexer.LPAREN) {
			if atLeastOne && len(out) == 0 {
				return nil, p.unexpected("'(' starting a binder")
			}
			return out, nil
		}
		p.next()

		var names []lexer.Token
		for {
			if tok, ok := p.accept(lexer.IDENT); ok {
				names = append(names, tok)
				continue
			}
			if tok, ok := p.accept(lexer.UNDERSCORE); ok {
				names = append(names, tok)
				continue
			}
			break
		}
		if len(names) == 0 {
			return nil, p.unexpected("a binder name")
		}
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		ty, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		for _, n := range names {
			out = append(out, ast.Binder{Name: n.Lexeme, Ty: ty, Span: span(n)})
		}
	}
}

// parseExpr parses the loosest level: binding forms, then the arrow.
// The arrow is right-associative and desugars to an anonymous Pi.
func (p *parser) parseExpr() (ast.Expr, error) {
	switch p.peek().Type {
	case lexer.FORALL:
		return p.parseForall()
	case lexer.FUN:
		return p.parseFun()
	case lexer.LET:
		return p.parseLet()
	case lexer.MATCH:
		return p.parseMatch()
	}

	lhs, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.accept(lexer.ARROW); ok {
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Pi{
			Binders: []ast.Binder{{Name: "_", Ty: lhs, Span: lhs.Pos()}},
			Body:    rhs,
			Span:    span(tok),
		}, nil
	}
	return lhs, nil
}

func (p *parser) parseForall() (ast.Expr, error) {
	kw := p.next()
	binders, err := p.parseBinders(true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COMMA); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Pi{Binders: binders, Body: body, Span: span(kw)}, nil
}

func (p *parser) parseFun() (ast.Expr, error) {
	kw := p.next()
	binders, err := p.parseBinders(true)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.FATARROW); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{Binders: binders, Body: body, Span: span(kw)}, nil
}

func (p *parser) parseLet() (ast.Expr, error) {
	kw := p.next()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	var ty ast.Expr
	if _, ok := p.accept(lexer.COLON); ok {
		ty, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.COLONEQ); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IN); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Let{Name: name.Lexeme, Ty: ty, Val: val, Body: body, Span: span(kw)}, nil
}

// parseMatch parses match e [as motive] with (| C xs => e)* end.
func (p *parser) parseMatch() (ast.Expr, error) {
	kw := p.next()
	scrut, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var motive ast.Expr
	if _, ok := p.accept(lexer.AS); ok {
		motive, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.WITH); err != nil {
		return nil, err
	}

	var arms []ast.Arm
	for {
		bar, ok := p.accept(lexer.BAR)
		if !ok {
			break
		}
		cname, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		var binders []string
		for {
			if tok, ok := p.accept(lexer.IDENT); ok {
				binders = append(binders, tok.Lexeme)
				continue
			}
			if _, ok := p.accept(lexer.UNDERSCORE); ok {
				binders = append(binders, "_")
				continue
			}
			break
		}
		if _, err := p.expect(lexer.FATARROW); err != nil {
			return nil, err
		}
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		arms = append(arms, ast.Arm{Ctor: cname.Lexeme, Binders: binders, Body: body, Span: span(bar)})
	}
	if _, err := p.expect(lexer.END); err != nil {
		return nil, err
	}
	return &ast.Match{Scrutinee: scrut, Motive: motive, Arms: arms, Span: span(kw)}, nil
}

// parseApp parses left-associative juxtaposition: f a b.
func (p *parser) parseApp() (ast.Expr, error) {
	fn, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.atAtomStart() {
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		fn = &ast.App{Fn: fn, Arg: arg, Span: fn.Pos()}
	}
	return fn, nil
}

func (p *parser) atAtomStart() bool {
	switch p.peek().Type {
	case lexer.IDENT, lexer.TYPE, lexer.LPAREN:
		return true
	}
	return false
}

func (p *parser) parseAtom() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.IDENT:
		p.next()
		return &ast.Name{Ident: tok.Lexeme, Span: span(tok)}, nil
	case lexer.TYPE:
		p.next()
		if num, ok := p.accept(lexer.NUMBER); ok {
			level, err := strconv.Atoi(num.Lexeme)
			if err != nil || level < 0 {
				return nil, tarnerr.NewSyntaxError(num.Line, num.Col,
					fmt.Sprintf("invalid universe level %q", num.Lexeme))
			}
			return &ast.Sort{Level: level, Span: span(tok)}, nil
		}
		return &ast.Sort{Level: 0, Span: span(tok)}, nil
	case lexer.LPAREN:
		p.next()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case lexer.UNDERSCORE:
		return nil, tarnerr.NewSyntaxError(tok.Line, tok.Col,
			"'_' is only allowed in match patterns and binder names")
	default:
		return nil, p.unexpected("an expression")
	}
}
