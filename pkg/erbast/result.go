package erbast

import "fmt"

// ParseOptions controls parser behavior.
type ParseOptions struct {
	// TrackWhitespace keeps whitespace inside tags as Whitespace nodes.
	// Without it the tree cannot be printed back to the exact source.
	TrackWhitespace bool
}

// ParseError is a problem reported by the parser. It is data, not a Go error:
// parsing always yields a tree.
type ParseError struct {
	Message  string
	Location Location
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location.Start, e.Message)
}

// ParseResult is the output of parsing one source.
type ParseResult struct {
	Source string
	Lines  *LineIndex
	Tree   *Tree
	Errors []ParseError
}

// HasErrors reports whether the parser found problems.
func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// LexResult is the output of tokenizing one source.
type LexResult struct {
	Source string
	Lines  *LineIndex
	Tokens []Token
	Errors []ParseError
}
