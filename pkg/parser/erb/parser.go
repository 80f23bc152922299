// Package erb provides the reference HTML+ERB lexer, parser and printer.
//
// The parser is lossless: every byte of the input is held in a literal field
// of some node, so printing an unmodified tree (parsed with TrackWhitespace)
// reproduces the input exactly. Problems are reported as data in
// ParseResult.Errors; parsing never fails.
package erb

import (
	"fmt"
	"strings"

	"github.com/yaklabco/herblint/pkg/erbast"
)

// Parser implements lint.Parser.
type Parser struct{}

// New creates a new HTML+ERB parser.
func New() *Parser {
	return &Parser{}
}

// Parse builds the AST for source.
func (*Parser) Parse(source string, opts erbast.ParseOptions) *erbast.ParseResult {
	return Parse(source, opts)
}

// Lex tokenizes source.
func (*Parser) Lex(source string) *erbast.LexResult {
	return Lex(source)
}

type frameKind uint8

const (
	frameDocument frameKind = iota
	frameElement
	frameOpenTag
	frameAttrValue
	frameControl
	frameBranch
)

type parseMode uint8

const (
	modeContent parseMode = iota
	modeTag
	modeValue
	modeRaw
)

// frame is one open construct on the parser stack. Branch frames inherit the
// mode of the construct their control flow appears in, so ERB conditionals
// work the same way in element bodies, open tags and attribute values.
type frame struct {
	kind  frameKind
	mode  parseMode
	node  erbast.NodeID
	name  string
	quote byte
}

type parser struct {
	src    string
	pos    int
	opts   erbast.ParseOptions
	tree   *erbast.Tree
	lines  *erbast.LineIndex
	stack  []frame
	errors []erbast.ParseError
}

// Parse builds the AST for an HTML+ERB source.
func Parse(source string, opts erbast.ParseOptions) *erbast.ParseResult {
	p := &parser{
		src:   source,
		opts:  opts,
		tree:  erbast.NewTree(),
		lines: erbast.NewLineIndex(source),
	}
	p.tree.RootNode().Range = erbast.Range{Start: 0, End: len(source)}
	p.stack = []frame{{kind: frameDocument, mode: modeContent, node: p.tree.Root}}

	for p.pos < len(p.src) {
		switch p.top().mode {
		case modeContent:
			p.parseContent()
		case modeTag:
			p.parseInTag()
		case modeValue:
			p.parseInValue()
		case modeRaw:
			p.parseRaw()
		}
	}

	p.finish()
	p.locate()

	return &erbast.ParseResult{
		Source: source,
		Lines:  p.lines,
		Tree:   p.tree,
		Errors: p.errors,
	}
}

func (p *parser) top() *frame {
	return &p.stack[len(p.stack)-1]
}

func (p *parser) push(f frame) {
	p.stack = append(p.stack, f)
}

func (p *parser) pop() frame {
	f := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	return f
}

func (p *parser) node(id erbast.NodeID) *erbast.Node {
	return p.tree.Node(id)
}

func (p *parser) newNode(kind erbast.NodeKind, start, end int) *erbast.Node {
	n := p.tree.New(kind)
	n.Range = erbast.Range{Start: start, End: end}
	return n
}

// appendNode attaches n to the innermost open container.
func (p *parser) appendNode(n *erbast.Node) {
	p.tree.AppendChild(p.top().node, n.ID)
}

func (p *parser) errorAt(offset int, msg string) {
	pos := p.lines.Position(offset)
	p.errors = append(p.errors, erbast.ParseError{
		Message:  msg,
		Location: erbast.Location{Start: pos, End: pos},
	})
}

func (p *parser) parseContent() {
	src, pos := p.src, p.pos

	switch {
	case isERBStart(src, pos):
		p.parseERB(false)
	case hasPrefixFold(src, pos, "<!--"):
		p.parseComment()
	case hasPrefixFold(src, pos, "<!doctype"):
		p.parseLiteral(erbast.NodeDoctype, ">", "doctype")
	case hasPrefixFold(src, pos, "<![CDATA["):
		p.parseLiteral(erbast.NodeCDATA, "]]>", "CDATA section")
	case hasPrefixFold(src, pos, "<?xml"):
		p.parseLiteral(erbast.NodeXMLDeclaration, "?>", "XML declaration")
	case tagStartsAt(src, pos) && src[pos+1] == '/':
		p.parseCloseTag()
	case tagStartsAt(src, pos):
		p.parseOpenTagStart()
	default:
		p.parseText(func(i int) bool { return constructStartsAt(src, i) })
	}
}

// parseText consumes at least one byte of text, up to the next stop offset.
func (p *parser) parseText(stop func(i int) bool) {
	start := p.pos
	end := start + 1
	for end < len(p.src) && !stop(end) {
		end++
	}
	text := p.newNode(erbast.NodeText, start, end)
	text.Value = p.src[start:end]
	p.appendNode(text)
	p.pos = end
}

func (p *parser) parseLiteral(kind erbast.NodeKind, terminator, what string) {
	start := p.pos
	end := len(p.src)
	if idx := indexFrom(p.src, start, terminator); idx >= 0 {
		end = idx + len(terminator)
	} else {
		p.errorAt(start, "unterminated "+what)
	}
	n := p.newNode(kind, start, end)
	n.Value = p.src[start:end]
	p.appendNode(n)
	p.pos = end
}

func (p *parser) parseComment() {
	start := p.pos
	comment := p.newNode(erbast.NodeHTMLComment, start, len(p.src))
	comment.Open = p.src[start : start+len("<!--")]

	bodyStart := start + len("<!--")
	if idx := indexFrom(p.src, bodyStart, "-->"); idx >= 0 {
		comment.Value = p.src[bodyStart:idx]
		comment.Close = "-->"
		comment.Range.End = idx + len("-->")
	} else {
		p.errorAt(start, "unterminated comment")
		comment.Value = p.src[bodyStart:]
	}

	p.appendNode(comment)
	p.pos = comment.Range.End
}

func (p *parser) parseOpenTagStart() {
	start := p.pos
	nameStart := start + 1
	nameEnd := scanName(p.src, nameStart)
	name := p.src[nameStart:nameEnd]

	p.closeImplied(name)

	nameLoc := p.lines.Location(erbast.Range{Start: nameStart, End: nameEnd})

	elem := p.newNode(erbast.NodeElement, start, nameEnd)
	elem.Name = name
	elem.NameLocation = nameLoc

	tag := p.newNode(erbast.NodeOpenTag, start, nameEnd)
	tag.Open = "<"
	tag.Name = name
	tag.NameLocation = nameLoc

	elem.OpenTag = tag.ID
	p.appendNode(elem)
	p.tree.Attach(elem.ID, tag.ID)

	p.push(frame{kind: frameOpenTag, mode: modeTag, node: tag.ID, name: name})
	p.pos = nameEnd
}

// closeImplied ends open elements whose end tag is implied by a start tag
// for name, such as a second <li> inside a list.
func (p *parser) closeImplied(name string) {
	for {
		f := p.top()
		if f.kind != frameElement || !impliesEnd(f.name, name) {
			return
		}
		p.popFrame()
	}
}

func (p *parser) parseInTag() {
	src, pos := p.src, p.pos

	switch c := src[pos]; {
	case isSpace(c):
		end := scanSpaces(src, pos)
		if p.opts.TrackWhitespace {
			ws := p.newNode(erbast.NodeWhitespace, pos, end)
			ws.Value = src[pos:end]
			p.appendNode(ws)
		}
		p.pos = end
	case isERBStart(src, pos):
		p.parseERB(false)
	case c == '>':
		p.finishOpenTag(">")
	case c == '/' && pos+1 < len(src) && src[pos+1] == '>':
		p.finishOpenTag("/>")
	default:
		p.parseAttribute()
	}
}

func (p *parser) finishOpenTag(closer string) {
	for p.top().kind != frameOpenTag {
		p.popFrame()
	}

	f := p.pop()
	tag := p.node(f.node)
	tag.Close = closer
	p.pos += len(closer)
	tag.Range.End = p.pos

	elem := p.node(tag.Parent)
	elem.Range.End = p.pos
	elem.Void = IsVoidElement(f.name)

	if closer == "/>" || elem.Void {
		return
	}

	mode := modeContent
	if IsRawTextElement(f.name) {
		mode = modeRaw
	}
	p.push(frame{kind: frameElement, mode: mode, node: elem.ID, name: f.name})
}

func (p *parser) parseAttribute() {
	src, start := p.src, p.pos

	nameEnd := scanAttributeName(src, start)
	if nameEnd == start {
		p.errorAt(start, fmt.Sprintf("unexpected character %q in tag", src[start]))
		stray := p.newNode(erbast.NodeText, start, start+1)
		stray.Value = src[start : start+1]
		p.appendNode(stray)
		p.pos++
		return
	}

	attr := p.newNode(erbast.NodeAttribute, start, nameEnd)
	attr.Name = src[start:nameEnd]
	attr.NameLocation = p.lines.Location(attr.Range)
	p.appendNode(attr)
	p.pos = nameEnd

	eq := scanSpaces(src, nameEnd)
	if eq >= len(src) || src[eq] != '=' {
		return
	}

	valueStart := scanSpaces(src, eq+1)
	attr.Equals = src[nameEnd:valueStart]
	attr.Range.End = valueStart
	p.pos = valueStart
	if valueStart >= len(src) {
		return
	}

	if c := src[valueStart]; c == '"' || c == '\'' {
		value := p.newNode(erbast.NodeAttributeValue, valueStart, valueStart+1)
		value.Open = string(c)
		attr.AttrValue = value.ID
		p.tree.Attach(attr.ID, value.ID)
		p.pos++
		p.push(frame{kind: frameAttrValue, mode: modeValue, node: value.ID, quote: c})
		return
	}

	p.parseUnquotedValue(attr)
}

func (p *parser) parseUnquotedValue(attr *erbast.Node) {
	src := p.src
	value := p.newNode(erbast.NodeAttributeValue, p.pos, p.pos)
	attr.AttrValue = value.ID
	p.tree.Attach(attr.ID, value.ID)

	for p.pos < len(src) && !isSpace(src[p.pos]) && src[p.pos] != '>' {
		start := p.pos
		if isERBStart(src, start) {
			tag := scanERB(src, start)
			if !tag.closed {
				p.errorAt(start, "unterminated ERB tag")
			}
			n := p.erbNode(erbast.NodeERBContent, start, tag)
			p.tree.AppendChild(value.ID, n.ID)
			p.pos = tag.end
			continue
		}
		end := start + 1
		for end < len(src) && !isSpace(src[end]) && src[end] != '>' && !isERBStart(src, end) {
			end++
		}
		text := p.newNode(erbast.NodeText, start, end)
		text.Value = src[start:end]
		p.tree.AppendChild(value.ID, text.ID)
		p.pos = end
	}

	value.Range.End = p.pos
	attr.Range.End = p.pos
}

func (p *parser) parseInValue() {
	src, pos := p.src, p.pos
	quote := p.top().quote

	switch {
	case src[pos] == quote:
		for p.top().kind != frameAttrValue {
			p.popFrame()
		}
		f := p.pop()
		value := p.node(f.node)
		value.Close = string(quote)
		p.pos++
		value.Range.End = p.pos
		p.node(value.Parent).Range.End = p.pos
	case isERBStart(src, pos):
		p.parseERB(false)
	default:
		p.parseText(func(i int) bool { return src[i] == quote || isERBStart(src, i) })
	}
}

func (p *parser) parseRaw() {
	src, pos := p.src, p.pos
	name := p.top().name

	switch {
	case rawTextEnd(src, pos, name):
		p.parseCloseTag()
	case isERBStart(src, pos):
		p.parseERB(true)
	default:
		p.parseText(func(i int) bool { return isERBStart(src, i) || rawTextEnd(src, i, name) })
	}
}

func (p *parser) parseCloseTag() {
	src, start := p.src, p.pos
	nameStart := start + 2
	nameEnd := scanName(src, nameStart)
	name := src[nameStart:nameEnd]

	end := len(src)
	closer := ""
	if idx := indexFrom(src, nameEnd, ">"); idx >= 0 {
		end = idx + 1
		closer = ">"
	} else {
		p.errorAt(start, fmt.Sprintf("unterminated closing tag </%s>", name))
	}

	closeTag := p.newNode(erbast.NodeCloseTag, start, end)
	closeTag.Open = "</"
	closeTag.Name = name
	closeTag.NameLocation = p.lines.Location(erbast.Range{Start: nameStart, End: nameEnd})
	closeTag.Value = src[nameEnd : end-len(closer)]
	closeTag.Close = closer

	idx := p.findOpenElement(name)
	if idx < 0 {
		p.errorAt(start, fmt.Sprintf("stray closing tag </%s>", name))
		p.appendNode(closeTag)
		p.pos = end
		return
	}

	for len(p.stack)-1 > idx {
		p.popFrame()
	}

	f := p.pop()
	elem := p.node(f.node)
	elem.CloseTag = closeTag.ID
	elem.Range.End = end
	p.tree.Attach(elem.ID, closeTag.ID)
	p.pos = end
}

// findOpenElement returns the stack index of the innermost open element
// named name, without crossing an ERB branch.
func (p *parser) findOpenElement(name string) int {
	for i := len(p.stack) - 1; i >= 0; i-- {
		f := p.stack[i]
		if f.kind != frameElement {
			return -1
		}
		if strings.EqualFold(f.name, name) {
			return i
		}
	}
	return -1
}

func (p *parser) erbNode(kind erbast.NodeKind, start int, tag erbTag) *erbast.Node {
	n := p.newNode(kind, start, tag.end)
	n.Open = tag.open
	n.Value = tag.content
	n.Close = tag.close
	return n
}

// parseERB consumes one ERB tag. Unless flat, control-flow keywords open,
// continue or close ERB control-flow nodes.
func (p *parser) parseERB(flat bool) {
	start := p.pos
	tag := scanERB(p.src, start)
	if !tag.closed {
		p.errorAt(start, "unterminated ERB tag")
	}

	role, kind, branch := roleContent, erbast.NodeERBContent, erbast.BranchNone
	if !flat {
		role, kind, branch = classifyERB(tag.open, tag.content)
	}

	switch role {
	case roleOpen:
		p.openControl(start, tag, kind, branch)
	case roleBranch:
		p.openBranch(start, tag, branch)
	case roleEnd:
		p.closeControl(start, tag)
	case roleContent:
		p.appendNode(p.erbNode(erbast.NodeERBContent, start, tag))
	}

	p.pos = tag.end
}

func (p *parser) openControl(start int, tag erbTag, kind erbast.NodeKind, branch erbast.BranchKind) {
	outer := *p.top()

	ctrl := p.newNode(kind, start, tag.end)
	p.appendNode(ctrl)

	br := p.erbNode(erbast.NodeERBBranch, start, tag)
	br.Branch = branch
	p.tree.AppendChild(ctrl.ID, br.ID)

	p.push(frame{kind: frameControl, mode: outer.mode, node: ctrl.ID, quote: outer.quote})
	p.push(frame{kind: frameBranch, mode: outer.mode, node: br.ID, quote: outer.quote})
}

func (p *parser) openBranch(start int, tag erbTag, branch erbast.BranchKind) {
	if !p.unwindToBranch() {
		p.errorAt(start, fmt.Sprintf("unexpected <%% %s %%> outside control flow", branch))
		p.appendNode(p.erbNode(erbast.NodeERBContent, start, tag))
		return
	}

	p.node(p.pop().node).Range.End = start
	ctrl := p.top()

	br := p.erbNode(erbast.NodeERBBranch, start, tag)
	br.Branch = branch
	p.tree.AppendChild(ctrl.node, br.ID)

	p.push(frame{kind: frameBranch, mode: ctrl.mode, node: br.ID, quote: ctrl.quote})
}

func (p *parser) closeControl(start int, tag erbTag) {
	if !p.unwindToBranch() {
		p.errorAt(start, "unexpected <% end %> outside control flow")
		p.appendNode(p.erbNode(erbast.NodeERBContent, start, tag))
		return
	}

	p.node(p.pop().node).Range.End = start
	ctrl := p.node(p.pop().node)

	end := p.erbNode(erbast.NodeERBEnd, start, tag)
	ctrl.End = end.ID
	ctrl.Range.End = tag.end
	p.tree.Attach(ctrl.ID, end.ID)
}

// unwindToBranch closes elements opened inside the innermost ERB branch.
// It reports false, leaving the stack untouched, when no branch is reachable
// through element frames alone.
func (p *parser) unwindToBranch() bool {
	idx := len(p.stack) - 1
	for idx >= 0 && p.stack[idx].kind == frameElement {
		idx--
	}
	if idx < 0 || p.stack[idx].kind != frameBranch {
		return false
	}
	for len(p.stack)-1 > idx {
		p.popFrame()
	}
	return true
}

// popFrame closes the innermost construct at the current offset, reporting
// it when its end was required.
func (p *parser) popFrame() {
	f := p.pop()
	n := p.node(f.node)
	n.Range.End = p.pos

	switch f.kind {
	case frameElement:
		if !HasOptionalEndTag(f.name) {
			p.errorAt(n.Range.Start, fmt.Sprintf("unclosed element <%s>", f.name))
		}
	case frameOpenTag:
		p.errorAt(n.Range.Start, fmt.Sprintf("unterminated tag <%s>", f.name))
		p.node(n.Parent).Range.End = p.pos
	case frameAttrValue:
		p.errorAt(n.Range.Start, "unterminated attribute value")
		p.node(n.Parent).Range.End = p.pos
	case frameBranch:
		p.errorAt(n.Range.Start, fmt.Sprintf("unclosed <%% %s %%>", n.Branch))
	case frameControl, frameDocument:
	}
}

func (p *parser) finish() {
	for len(p.stack) > 1 {
		p.popFrame()
	}
}

func (p *parser) locate() {
	for i := range p.tree.Len() {
		n := p.tree.Node(erbast.NodeID(i))
		n.Location = p.lines.Location(n.Range)
	}
}
