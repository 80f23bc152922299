package lint

import "github.com/yaklabco/herblint/pkg/erbast"

// Parser turns HTML+ERB source into a tree and a token stream.
//
// The lint package defines this interface in the consumer package.
// Implementations (e.g., parser/erb) provide the concrete parsing logic.
//
// Implementations must be:
//   - pure functions of (source, options),
//   - safe for concurrent use by multiple goroutines,
//   - total: problems are reported in Errors, never by panicking.
type Parser interface {
	// Parse builds the tree for source. The result should have a tree even
	// when Errors is non-empty. Without one, only source and token rules
	// run meaningfully and directives are read from the raw text.
	Parse(source string, opts erbast.ParseOptions) *erbast.ParseResult

	// Lex tokenizes source. Token ranges must cover source without gaps
	// (erbast.ValidateTokens).
	Lex(source string) *erbast.LexResult
}

// Printer serializes a tree back to source. Print must be the inverse of
// Parse with whitespace tracking: printing an unmodified tree reproduces
// the parsed source exactly.
type Printer interface {
	Print(tree *erbast.Tree) string
}
