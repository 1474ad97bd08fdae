package ast

import "fmt"

// Location is a 1-based line/column position in the source document.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// SyntaxError is raised by package lexer and package parser when the
// source document does not conform to the October 2021 executable grammar.
type SyntaxError struct {
	Location Location
	Message  string
	Snippet  string
}

func (e *SyntaxError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("syntax error at %s: %s", e.Location, e.Message)
	}
	return fmt.Sprintf("syntax error at %s: %s\n%s", e.Location, e.Message, e.Snippet)
}
