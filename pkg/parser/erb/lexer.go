package erb

import (
	"github.com/yaklabco/herblint/pkg/erbast"
)

type lexMode uint8

const (
	lexData lexMode = iota
	lexTag
	lexValue
	lexRaw
)

// lexer performs a single pass over the source producing a contiguous,
// non-overlapping token stream covering [0, len(source)).
type lexer struct {
	src    string
	pos    int
	lines  *erbast.LineIndex
	tokens []erbast.Token
	errors []erbast.ParseError

	mode    lexMode
	quote   byte
	tagName string
	closing bool
}

// Lex tokenizes an HTML+ERB source.
func Lex(source string) *erbast.LexResult {
	const initialCapacityDivisor = 4
	lex := &lexer{
		src:    source,
		lines:  erbast.NewLineIndex(source),
		tokens: make([]erbast.Token, 0, len(source)/initialCapacityDivisor),
	}

	for lex.pos < len(lex.src) {
		switch lex.mode {
		case lexData:
			lex.lexData()
		case lexTag:
			lex.lexTag()
		case lexValue:
			lex.lexValue()
		case lexRaw:
			lex.lexRaw()
		}
	}

	switch lex.mode {
	case lexTag:
		lex.errorAt(len(lex.src), "unexpected end of file inside tag <"+lex.tagName+">")
	case lexValue:
		lex.errorAt(len(lex.src), "unterminated attribute value")
	case lexData, lexRaw:
	}

	return &erbast.LexResult{
		Source: source,
		Lines:  lex.lines,
		Tokens: lex.tokens,
		Errors: lex.errors,
	}
}

func (l *lexer) emit(kind erbast.TokenKind, end int) {
	if end <= l.pos {
		return
	}
	r := erbast.Range{Start: l.pos, End: end}
	l.tokens = append(l.tokens, erbast.Token{
		Kind:     kind,
		Value:    l.src[l.pos:end],
		Range:    r,
		Location: l.lines.Location(r),
	})
	l.pos = end
}

func (l *lexer) errorAt(offset int, msg string) {
	pos := l.lines.Position(offset)
	l.errors = append(l.errors, erbast.ParseError{
		Message:  msg,
		Location: erbast.Location{Start: pos, End: pos},
	})
}

func (l *lexer) lexData() {
	src, pos := l.src, l.pos

	switch {
	case isERBStart(src, pos):
		l.lexERB()
	case hasPrefixFold(src, pos, "<!--"):
		l.lexDelimited(erbast.TokCommentStart, "<!--", "-->", erbast.TokCommentEnd, "comment")
	case hasPrefixFold(src, pos, "<!doctype"):
		l.lexUntil(erbast.TokDoctype, ">", "doctype")
	case hasPrefixFold(src, pos, "<![CDATA["):
		l.lexUntil(erbast.TokCDATA, "]]>", "CDATA section")
	case hasPrefixFold(src, pos, "<?xml"):
		l.lexUntil(erbast.TokXMLDeclaration, "?>", "XML declaration")
	case tagStartsAt(src, pos):
		l.closing = src[pos+1] == '/'
		if l.closing {
			l.emit(erbast.TokTagStartClose, pos+2)
		} else {
			l.emit(erbast.TokTagStart, pos+1)
		}
		end := scanName(src, l.pos)
		l.tagName = src[l.pos:end]
		l.emit(erbast.TokIdentifier, end)
		l.mode = lexTag
	default:
		l.lexText(func(i int) bool { return constructStartsAt(src, i) })
	}
}

// lexText emits whitespace, newline and text tokens up to the next stop offset.
func (l *lexer) lexText(stop func(i int) bool) {
	src := l.src
	switch c := src[l.pos]; {
	case c == '\n':
		l.emit(erbast.TokNewline, l.pos+1)
		return
	case c == '\r' && l.pos+1 < len(src) && src[l.pos+1] == '\n':
		l.emit(erbast.TokNewline, l.pos+2)
		return
	case c == ' ' || c == '\t':
		end := l.pos
		for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
			end++
		}
		l.emit(erbast.TokWhitespace, end)
		return
	}

	end := l.pos + 1
	for end < len(src) {
		c := src[end]
		if c == '\n' || c == '\r' || c == ' ' || c == '\t' || stop(end) {
			break
		}
		end++
	}
	l.emit(erbast.TokText, end)
}

func (l *lexer) lexUntil(kind erbast.TokenKind, terminator, what string) {
	idx := indexFrom(l.src, l.pos, terminator)
	if idx < 0 {
		l.errorAt(l.pos, "unterminated "+what)
		l.emit(kind, len(l.src))
		return
	}
	l.emit(kind, idx+len(terminator))
}

func (l *lexer) lexDelimited(startKind erbast.TokenKind, open, closer string, endKind erbast.TokenKind, what string) {
	start := l.pos
	l.emit(startKind, l.pos+len(open))
	idx := indexFrom(l.src, l.pos, closer)
	if idx < 0 {
		l.errorAt(start, "unterminated "+what)
		l.emit(erbast.TokText, len(l.src))
		return
	}
	l.emit(erbast.TokText, idx)
	l.emit(endKind, idx+len(closer))
}

func (l *lexer) lexERB() {
	start := l.pos
	tag := scanERB(l.src, l.pos)
	l.emit(erbast.TokERBStart, l.pos+len(tag.open))
	l.emit(erbast.TokERBContent, l.pos+len(tag.content))
	if !tag.closed {
		l.errorAt(start, "unterminated ERB tag")
		return
	}
	l.emit(erbast.TokERBEnd, tag.end)
}

func (l *lexer) lexTag() {
	src, pos := l.src, l.pos

	switch c := src[pos]; {
	case c == '\n':
		l.emit(erbast.TokNewline, pos+1)
	case isSpace(c):
		end := pos
		for end < len(src) && isSpace(src[end]) && src[end] != '\n' {
			end++
		}
		l.emit(erbast.TokWhitespace, end)
	case isERBStart(src, pos):
		l.lexERB()
	case c == '>':
		l.emit(erbast.TokTagEnd, pos+1)
		l.mode = lexData
		if !l.closing && IsRawTextElement(l.tagName) {
			l.mode = lexRaw
		}
	case c == '/' && pos+1 < len(src) && src[pos+1] == '>':
		l.emit(erbast.TokTagSelfClose, pos+2)
		l.mode = lexData
	case c == '=':
		l.emit(erbast.TokEquals, pos+1)
	case c == '"' || c == '\'':
		l.quote = c
		l.emit(erbast.TokQuote, pos+1)
		l.mode = lexValue
	default:
		end := scanAttributeName(src, pos)
		if end == pos {
			end = pos + 1
			l.emit(erbast.TokText, end)
			return
		}
		l.emit(erbast.TokIdentifier, end)
	}
}

func (l *lexer) lexValue() {
	src, pos := l.src, l.pos

	switch {
	case src[pos] == l.quote:
		l.emit(erbast.TokQuote, pos+1)
		l.mode = lexTag
	case isERBStart(src, pos):
		l.lexERB()
	default:
		end := pos + 1
		for end < len(src) && src[end] != l.quote && !isERBStart(src, end) {
			end++
		}
		l.emit(erbast.TokText, end)
	}
}

func (l *lexer) lexRaw() {
	src, pos := l.src, l.pos

	switch {
	case rawTextEnd(src, pos, l.tagName):
		l.mode = lexData
	case isERBStart(src, pos):
		l.lexERB()
	default:
		l.lexText(func(i int) bool {
			return isERBStart(src, i) || rawTextEnd(src, i, l.tagName)
		})
	}
}
