package erbast

// TokenKind classifies a span of bytes in the HTML+ERB source.
type TokenKind uint16

// Token kinds cover every byte in the source.
const (
	TokText TokenKind = iota
	TokWhitespace
	TokNewline

	TokTagStart      // '<'
	TokTagStartClose // '</'
	TokTagEnd        // '>'
	TokTagSelfClose  // '/>'
	TokIdentifier    // tag or attribute name, unquoted attribute value
	TokEquals        // '='
	TokQuote         // '"' or '\''

	TokCommentStart // '<!--'
	TokCommentEnd   // '-->'
	TokDoctype      // '<!DOCTYPE ...>'
	TokXMLDeclaration
	TokCDATA

	TokERBStart   // '<%', '<%=', '<%#', '<%-', '<%=='
	TokERBContent // code between ERB delimiters
	TokERBEnd     // '%>', '-%>'
)

//nolint:gochecknoglobals // Read-only lookup table.
var tokenKindNames = [...]string{
	TokText:           "TEXT",
	TokWhitespace:     "WHITESPACE",
	TokNewline:        "NEWLINE",
	TokTagStart:       "HTML_TAG_START",
	TokTagStartClose:  "HTML_TAG_START_CLOSE",
	TokTagEnd:         "HTML_TAG_END",
	TokTagSelfClose:   "HTML_TAG_SELF_CLOSE",
	TokIdentifier:     "IDENTIFIER",
	TokEquals:         "EQUALS",
	TokQuote:          "QUOTE",
	TokCommentStart:   "HTML_COMMENT_START",
	TokCommentEnd:     "HTML_COMMENT_END",
	TokDoctype:        "HTML_DOCTYPE",
	TokXMLDeclaration: "XML_DECLARATION",
	TokCDATA:          "CDATA",
	TokERBStart:       "ERB_START",
	TokERBContent:     "ERB_CONTENT",
	TokERBEnd:         "ERB_END",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "TokenKind(?)"
}

// Token is a classified span of the source.
// Tokens are contiguous and non-overlapping, covering [0, len(source)).
type Token struct {
	Kind     TokenKind
	Value    string
	Range    Range
	Location Location
}

// ValidateTokens checks that tokens are contiguous and cover [0, size).
func ValidateTokens(tokens []Token, size int) bool {
	if len(tokens) == 0 {
		return size == 0
	}
	if tokens[0].Range.Start != 0 || tokens[len(tokens)-1].Range.End != size {
		return false
	}
	for i := 1; i < len(tokens); i++ {
		if tokens[i].Range.Start != tokens[i-1].Range.End {
			return false
		}
	}
	return true
}
