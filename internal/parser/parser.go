// Package parser implements a recursive-descent parser for the October
// 2021 executable subset of GraphQL (operations, fragments, no schema
// definition language), built directly over package lexer's token stream.
// Every node it produces is allocated through an arena.Arena so a parsed
// document and every sub-document cut from it during splitting share one
// request-scoped lifetime.
package parser

import (
	"fmt"

	"github.com/stellate-proxy/splitcache/internal/arena"
	"github.com/stellate-proxy/splitcache/internal/ast"
	"github.com/stellate-proxy/splitcache/internal/lexer"
)

// Parser consumes a token stream and builds a Document.
type Parser struct {
	arena *arena.Arena
	lex   *lexer.Lexer
	tok   lexer.Token
	err   error
}

// Parse parses src into a Document, allocating every node through a.
func Parse(a *arena.Arena, src string) (*ast.Document, error) {
	p := &Parser{arena: a, lex: lexer.New(src)}
	if err := p.next(); err != nil {
		return nil, err
	}
	return p.parseDocument()
}

func (p *Parser) next() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) syntaxErrorf(format string, args ...interface{}) error {
	return &ast.SyntaxError{
		Location: ast.Location{Line: p.tok.Line, Column: p.tok.Column},
		Message:  sprintf(format, args...),
	}
}

func sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if p.tok.Kind != k {
		return lexer.Token{}, p.syntaxErrorf("expected %s, found %s", k, p.tok.Kind)
	}
	tok := p.tok
	if err := p.next(); err != nil {
		return lexer.Token{}, err
	}
	return tok, nil
}

func (p *Parser) at(k lexer.Kind) bool { return p.tok.Kind == k }

func (p *Parser) atKeyword(kw string) bool {
	return p.tok.Kind == lexer.TokName && p.tok.Value == kw
}

func (p *Parser) parseDocument() (*ast.Document, error) {
	var defs []*ast.Definition
	for !p.at(lexer.TokEnd) {
		def, err := p.parseDefinition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return arena.Alloc(p.arena, ast.Document{Definitions: defs}), nil
}

func (p *Parser) parseDefinition() (*ast.Definition, error) {
	if p.atKeyword("fragment") {
		frag, err := p.parseFragmentDefinition()
		if err != nil {
			return nil, err
		}
		return arena.Alloc(p.arena, ast.Definition{Kind: ast.DefinitionFragment, Fragment: frag}), nil
	}
	op, err := p.parseOperationDefinition()
	if err != nil {
		return nil, err
	}
	return arena.Alloc(p.arena, ast.Definition{Kind: ast.DefinitionOperation, Operation: op}), nil
}

func (p *Parser) parseOperationDefinition() (*ast.OperationDefinition, error) {
	if p.at(lexer.TokBraceOpen) {
		sel, err := p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
		return arena.Alloc(p.arena, ast.OperationDefinition{Operation: ast.OperationQuery, SelectionSet: sel}), nil
	}

	kind := ast.OperationQuery
	switch {
	case p.atKeyword("query"):
		kind = ast.OperationQuery
	case p.atKeyword("mutation"):
		kind = ast.OperationMutation
	case p.atKeyword("subscription"):
		kind = ast.OperationSubscription
	default:
		return nil, p.syntaxErrorf("expected operation definition, found %s", p.tok.Kind)
	}
	if err := p.next(); err != nil {
		return nil, err
	}

	var name *string
	if p.at(lexer.TokName) {
		n := p.tok.Value
		name = &n
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	var varDefs []*ast.VariableDefinition
	if p.at(lexer.TokParenOpen) {
		var err error
		varDefs, err = p.parseVariableDefinitions()
		if err != nil {
			return nil, err
		}
	}

	directives, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}

	sel, err := p.parseSelectionSet()
	if err != nil {
		return nil, err
	}

	return arena.Alloc(p.arena, ast.OperationDefinition{
		Operation:           kind,
		Name:                name,
		VariableDefinitions: varDefs,
		Directives:          directives,
		SelectionSet:        sel,
	}), nil
}

func (p *Parser) parseFragmentDefinition() (*ast.FragmentDefinition, error) {
	if err := p.next(); err != nil { // consume "fragment"
		return nil, err
	}
	nameTok, err := p.expect(lexer.TokName)
	if err != nil {
		return nil, err
	}
	if !p.atKeyword("on") {
		return nil, p.syntaxErrorf("expected 'on', found %s", p.tok.Kind)
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	typeCondTok, err := p.expect(lexer.TokName)
	if err != nil {
		return nil, err
	}
	directives, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}
	sel, err := p.parseSelectionSet()
	if err != nil {
		return nil, err
	}
	return arena.Alloc(p.arena, ast.FragmentDefinition{
		Name:          nameTok.Value,
		TypeCondition: ast.NamedType{Name: typeCondTok.Value},
		Directives:    directives,
		SelectionSet:  sel,
	}), nil
}

func (p *Parser) parseVariableDefinitions() ([]*ast.VariableDefinition, error) {
	if _, err := p.expect(lexer.TokParenOpen); err != nil {
		return nil, err
	}
	var defs []*ast.VariableDefinition
	for !p.at(lexer.TokParenClose) {
		def, err := p.parseVariableDefinition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if _, err := p.expect(lexer.TokParenClose); err != nil {
		return nil, err
	}
	return defs, nil
}

func (p *Parser) parseVariableDefinition() (*ast.VariableDefinition, error) {
	varTok, err := p.expect(lexer.TokVariableName)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokColon); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	var defaultValue *ast.Value
	if p.at(lexer.TokEqual) {
		if err := p.next(); err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		defaultValue = &v
	}
	directives, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}
	return arena.Alloc(p.arena, ast.VariableDefinition{
		Variable:     varTok.Value,
		Type:         typ,
		DefaultValue: defaultValue,
		Directives:   directives,
	}), nil
}

func (p *Parser) parseType() (*ast.Type, error) {
	var t *ast.Type
	if p.at(lexer.TokBracketOpen) {
		if err := p.next(); err != nil {
			return nil, err
		}
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokBracketClose); err != nil {
			return nil, err
		}
		t = arena.Alloc(p.arena, ast.Type{Kind: ast.TypeList, OfType: inner})
	} else {
		nameTok, err := p.expect(lexer.TokName)
		if err != nil {
			return nil, err
		}
		t = arena.Alloc(p.arena, ast.Type{Kind: ast.TypeNamed, Named: ast.NamedType{Name: nameTok.Value}})
	}
	if p.at(lexer.TokExclam) {
		if err := p.next(); err != nil {
			return nil, err
		}
		t = arena.Alloc(p.arena, ast.Type{Kind: ast.TypeNonNull, OfType: t})
	}
	return t, nil
}

func (p *Parser) parseDirectives() ([]*ast.Directive, error) {
	var out []*ast.Directive
	for p.at(lexer.TokDirectiveName) {
		d, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (p *Parser) parseDirective() (*ast.Directive, error) {
	nameTok, err := p.expect(lexer.TokDirectiveName)
	if err != nil {
		return nil, err
	}
	var args []*ast.Argument
	if p.at(lexer.TokParenOpen) {
		args, err = p.parseArguments()
		if err != nil {
			return nil, err
		}
	}
	return arena.Alloc(p.arena, ast.Directive{Name: nameTok.Value, Arguments: args}), nil
}

func (p *Parser) parseArguments() ([]*ast.Argument, error) {
	if _, err := p.expect(lexer.TokParenOpen); err != nil {
		return nil, err
	}
	var args []*ast.Argument
	for !p.at(lexer.TokParenClose) {
		arg, err := p.parseArgument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(lexer.TokParenClose); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseArgument() (*ast.Argument, error) {
	nameTok, err := p.expect(lexer.TokName)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokColon); err != nil {
		return nil, err
	}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return arena.Alloc(p.arena, ast.Argument{Name: nameTok.Value, Value: v}), nil
}

func (p *Parser) parseSelectionSet() (*ast.SelectionSet, error) {
	if _, err := p.expect(lexer.TokBraceOpen); err != nil {
		return nil, err
	}
	var sels []*ast.Selection
	for !p.at(lexer.TokBraceClose) {
		sel, err := p.parseSelection()
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	if _, err := p.expect(lexer.TokBraceClose); err != nil {
		return nil, err
	}
	return arena.Alloc(p.arena, ast.SelectionSet{Selections: sels}), nil
}

func (p *Parser) parseSelection() (*ast.Selection, error) {
	if p.at(lexer.TokEllipsis) {
		return p.parseFragmentSelection()
	}
	field, err := p.parseField()
	if err != nil {
		return nil, err
	}
	return arena.Alloc(p.arena, ast.Selection{Kind: ast.SelectionField, Field: field}), nil
}

func (p *Parser) parseFragmentSelection() (*ast.Selection, error) {
	if err := p.next(); err != nil { // consume "..."
		return nil, err
	}
	if p.atKeyword("on") {
		if err := p.next(); err != nil {
			return nil, err
		}
		typeCondTok, err := p.expect(lexer.TokName)
		if err != nil {
			return nil, err
		}
		directives, err := p.parseDirectives()
		if err != nil {
			return nil, err
		}
		sel, err := p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
		tc := ast.NamedType{Name: typeCondTok.Value}
		inline := arena.Alloc(p.arena, ast.InlineFragment{TypeCondition: &tc, Directives: directives, SelectionSet: sel})
		return arena.Alloc(p.arena, ast.Selection{Kind: ast.SelectionInlineFragment, InlineFragment: inline}), nil
	}
	if p.at(lexer.TokName) {
		nameTok := p.tok
		if err := p.next(); err != nil {
			return nil, err
		}
		directives, err := p.parseDirectives()
		if err != nil {
			return nil, err
		}
		spread := arena.Alloc(p.arena, ast.FragmentSpread{Name: nameTok.Value, Directives: directives})
		return arena.Alloc(p.arena, ast.Selection{Kind: ast.SelectionFragmentSpread, FragmentSpread: spread}), nil
	}
	// bare "... { ... }" with no type condition
	directives, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}
	sel, err := p.parseSelectionSet()
	if err != nil {
		return nil, err
	}
	inline := arena.Alloc(p.arena, ast.InlineFragment{Directives: directives, SelectionSet: sel})
	return arena.Alloc(p.arena, ast.Selection{Kind: ast.SelectionInlineFragment, InlineFragment: inline}), nil
}

func (p *Parser) parseField() (*ast.Field, error) {
	firstTok, err := p.expect(lexer.TokName)
	if err != nil {
		return nil, err
	}
	var alias *string
	name := firstTok.Value
	if p.at(lexer.TokColon) {
		if err := p.next(); err != nil {
			return nil, err
		}
		a := firstTok.Value
		alias = &a
		nameTok, err := p.expect(lexer.TokName)
		if err != nil {
			return nil, err
		}
		name = nameTok.Value
	}
	var args []*ast.Argument
	if p.at(lexer.TokParenOpen) {
		args, err = p.parseArguments()
		if err != nil {
			return nil, err
		}
	}
	directives, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}
	var sel *ast.SelectionSet
	if p.at(lexer.TokBraceOpen) {
		sel, err = p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
	}
	return arena.Alloc(p.arena, ast.Field{
		Alias:        alias,
		Name:         name,
		Arguments:    args,
		Directives:   directives,
		SelectionSet: sel,
	}), nil
}

func (p *Parser) parseValue() (ast.Value, error) {
	switch p.tok.Kind {
	case lexer.TokDollar:
		// "$" is only produced inline in variable contexts via TokVariableName;
		// kept for completeness with the token set.
		return ast.Value{}, p.syntaxErrorf("unexpected '$'")
	case lexer.TokVariableName:
		v := ast.Value{Kind: ast.ValueVariable, Variable: p.tok.Value}
		return v, p.next()
	case lexer.TokInt:
		v := ast.Value{Kind: ast.ValueInt, Raw: p.tok.Value}
		return v, p.next()
	case lexer.TokFloat:
		v := ast.Value{Kind: ast.ValueFloat, Raw: p.tok.Value}
		return v, p.next()
	case lexer.TokString:
		v := ast.Value{Kind: ast.ValueString, Str: p.tok.Value}
		return v, p.next()
	case lexer.TokBracketOpen:
		return p.parseListValue()
	case lexer.TokBraceOpen:
		return p.parseObjectValue()
	case lexer.TokName:
		switch p.tok.Value {
		case "true":
			return ast.Value{Kind: ast.ValueBoolean, Boolean: true}, p.next()
		case "false":
			return ast.Value{Kind: ast.ValueBoolean, Boolean: false}, p.next()
		case "null":
			return ast.Value{Kind: ast.ValueNull}, p.next()
		default:
			v := ast.Value{Kind: ast.ValueEnum, Enum: p.tok.Value}
			return v, p.next()
		}
	default:
		return ast.Value{}, p.syntaxErrorf("expected value, found %s", p.tok.Kind)
	}
}

func (p *Parser) parseListValue() (ast.Value, error) {
	if _, err := p.expect(lexer.TokBracketOpen); err != nil {
		return ast.Value{}, err
	}
	var items []ast.Value
	for !p.at(lexer.TokBracketClose) {
		v, err := p.parseValue()
		if err != nil {
			return ast.Value{}, err
		}
		items = append(items, v)
	}
	if _, err := p.expect(lexer.TokBracketClose); err != nil {
		return ast.Value{}, err
	}
	return ast.Value{Kind: ast.ValueList, List: items}, nil
}

func (p *Parser) parseObjectValue() (ast.Value, error) {
	if _, err := p.expect(lexer.TokBraceOpen); err != nil {
		return ast.Value{}, err
	}
	var fields []ast.ObjectField
	for !p.at(lexer.TokBraceClose) {
		nameTok, err := p.expect(lexer.TokName)
		if err != nil {
			return ast.Value{}, err
		}
		if _, err := p.expect(lexer.TokColon); err != nil {
			return ast.Value{}, err
		}
		v, err := p.parseValue()
		if err != nil {
			return ast.Value{}, err
		}
		fields = append(fields, ast.ObjectField{Name: nameTok.Value, Value: v})
	}
	if _, err := p.expect(lexer.TokBraceClose); err != nil {
		return ast.Value{}, err
	}
	return ast.Value{Kind: ast.ValueObject, Object: fields}, nil
}
