package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/erbast"
	"github.com/yaklabco/herblint/pkg/lint"
)

// foreignElements hold XML content where tag case and "/>" are meaningful.
//
//nolint:gochecknoglobals // Read-only lookup table.
var foreignElements = []string{"svg", "math"}

// inForeignContent reports whether a tag belongs to an svg or math element
// or to one of their descendants.
func inForeignContent(tree *erbast.Tree, tag *erbast.Node) bool {
	return lint.InsideElement(tree, tag.ID, foreignElements...)
}

// TagNameLowercaseRule checks that HTML tag names are lowercase.
type TagNameLowercaseRule struct {
	lint.BaseRule
}

// NewTagNameLowercaseRule creates a new tag name lowercase rule.
func NewTagNameLowercaseRule() *TagNameLowercaseRule {
	return &TagNameLowercaseRule{
		BaseRule: lint.NewBaseRule(
			"html-tag-name-lowercase",
			"HTML tag names should be lowercase",
			lint.KindAST,
			lint.EnabledWith(config.SeverityError),
		),
	}
}

// Check flags open and close tags whose name has uppercase letters.
func (r *TagNameLowercaseRule) Check(res *erbast.ParseResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense

	tags := res.Tree.FindAll(func(n *erbast.Node) bool {
		return n.Kind == erbast.NodeOpenTag || n.Kind == erbast.NodeCloseTag
	})
	for _, tag := range tags {
		if tag.Name == tag.TagName() {
			continue
		}
		// The tag's own element is its parent; svg itself must still be lowercase.
		if lint.InsideElement(res.Tree, tag.Parent, foreignElements...) {
			continue
		}

		kind := "Opening"
		open, want := "<"+tag.Name+">", "<"+tag.TagName()+">"
		if tag.Kind == erbast.NodeCloseTag {
			kind = "Closing"
			open, want = "</"+tag.Name+">", "</"+tag.TagName()+">"
		}
		msg := fmt.Sprintf("%s tag name `%s` should be lowercase. Use `%s` instead.", kind, open, want)
		offenses = append(offenses, r.NewOffense(tag, msg).WithLocation(tag.NameLocation).Fixable(tag.ID).Build())
	}

	return offenses, nil
}

// Autofix lowercases the tag name.
func (r *TagNameLowercaseRule) Autofix(o lint.Offense, tree *erbast.Tree, _ *lint.RuleContext) *erbast.Tree {
	tag := tree.Node(o.AutofixContext.Node)
	if tag == nil || tag.Name == tag.TagName() {
		return nil
	}
	tag.Name = tag.TagName()
	return tree
}

// RequireClosingTagsRule checks that non-void elements have an explicit
// closing tag instead of relying on implicit closing.
type RequireClosingTagsRule struct {
	lint.BaseRule
}

// NewRequireClosingTagsRule creates a new require closing tags rule.
func NewRequireClosingTagsRule() *RequireClosingTagsRule {
	return &RequireClosingTagsRule{
		BaseRule: lint.NewBaseRule(
			"html-require-closing-tags",
			"Elements should have explicit closing tags",
			lint.KindAST,
			lint.EnabledWith(config.SeverityError),
		),
	}
}

// Check flags elements whose closing tag was omitted.
func (r *RequireClosingTagsRule) Check(res *erbast.ParseResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense

	unclosed := unclosedElements(res)
	for _, el := range lint.Elements(res.Tree) {
		open, closeTag := lint.ElementTags(res.Tree, el)
		if open == nil || closeTag != nil || el.Void || open.IsSelfClosing() || open.Close == "" {
			continue
		}
		if res.Lines != nil && unclosed[res.Lines.Position(el.Range.Start)] {
			continue
		}
		name := open.TagName()
		msg := fmt.Sprintf("Missing explicit closing tag for `<%s>`. Use `</%s>` instead of relying on implicit tag closing.",
			name, name)
		offenses = append(offenses, r.NewOffense(open, msg).Fixable(el.ID).Build())
	}

	return offenses, nil
}

// unclosedElements returns the start of every element the parser reported
// as unclosed. Those are parse errors, not omitted optional end tags.
func unclosedElements(res *erbast.ParseResult) map[erbast.Position]bool {
	var out map[erbast.Position]bool
	for _, e := range res.Errors {
		if !strings.HasPrefix(e.Message, "unclosed element ") {
			continue
		}
		if out == nil {
			out = make(map[erbast.Position]bool)
		}
		out[e.Location.Start] = true
	}
	return out
}

// Autofix appends a closing tag to the element. A line break that ends the
// element body moves after the new closing tag, so "<li>Item\n" becomes
// "<li>Item</li>\n".
func (r *RequireClosingTagsRule) Autofix(o lint.Offense, tree *erbast.Tree, _ *lint.RuleContext) *erbast.Tree {
	el := tree.Node(o.AutofixContext.Node)
	if el == nil || el.Kind != erbast.NodeElement || el.CloseTag.Valid() {
		return nil
	}
	open := tree.Node(el.OpenTag)
	if open == nil {
		return nil
	}

	if n := len(el.Children); n > 0 {
		last := tree.Node(el.Children[n-1])
		if last.Kind == erbast.NodeText {
			if !moveLineEnd(tree, el, last) {
				return nil
			}
		}
	}

	closeTag := tree.New(erbast.NodeCloseTag)
	closeTag.Open = "</"
	closeTag.Name = open.Name
	closeTag.Close = ">"
	el.CloseTag = closeTag.ID
	tree.Attach(el.ID, closeTag.ID)

	return tree
}

// moveLineEnd moves the final line break of an element's trailing text, and
// the indentation after it, out past the element. Text before the break
// stays where it is.
func moveLineEnd(tree *erbast.Tree, el, last *erbast.Node) bool {
	i := strings.LastIndexByte(last.Value, '\n')
	if i < 0 {
		return true
	}
	if i > 0 && last.Value[i-1] == '\r' {
		i--
	}
	suffix := last.Value[i:]
	if strings.TrimLeft(suffix, " \t\r\n") != "" {
		return true
	}

	if i == 0 {
		tree.Remove(last.ID)
		if !tree.InsertAfter(el.ID, last.ID) {
			tree.AppendChild(el.ID, last.ID)
			return false
		}
		return true
	}

	ws := tree.New(erbast.NodeText)
	ws.Value = suffix
	if !tree.InsertAfter(el.ID, ws.ID) {
		return false
	}
	last.Value = last.Value[:i]
	return true
}

// NoSelfClosingRule checks that HTML elements are not written in the XML
// self-closing form.
type NoSelfClosingRule struct {
	lint.BaseRule
}

// NewNoSelfClosingRule creates a new no self-closing rule.
func NewNoSelfClosingRule() *NoSelfClosingRule {
	return &NoSelfClosingRule{
		BaseRule: lint.NewBaseRule(
			"html-no-self-closing",
			"HTML elements should not use self-closing syntax",
			lint.KindAST,
			lint.EnabledWith(config.SeverityError),
		),
	}
}

// Check flags "/>" on HTML elements. SVG and MathML content is exempt.
func (r *NoSelfClosingRule) Check(res *erbast.ParseResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense

	for _, tag := range lint.OpenTags(res.Tree) {
		if !tag.IsSelfClosing() || inForeignContent(res.Tree, tag) {
			continue
		}
		name := tag.TagName()
		el := res.Tree.Node(tag.Parent)

		var msg string
		if el != nil && el.Void {
			msg = fmt.Sprintf("Use `<%s>` instead of self-closing `<%s />` for HTML compatibility.", name, name)
		} else {
			msg = fmt.Sprintf("Use `<%s></%s>` instead of self-closing `<%s />` for HTML compatibility.", name, name, name)
		}
		offenses = append(offenses, r.NewOffense(tag, msg).Fixable(tag.ID).Build())
	}

	return offenses, nil
}

// Autofix rewrites "<br />" to "<br>" and "<div />" to "<div></div>".
func (r *NoSelfClosingRule) Autofix(o lint.Offense, tree *erbast.Tree, _ *lint.RuleContext) *erbast.Tree {
	tag := tree.Node(o.AutofixContext.Node)
	if tag == nil || !tag.IsSelfClosing() {
		return nil
	}
	el := tree.Node(tag.Parent)
	if el == nil || el.Kind != erbast.NodeElement {
		return nil
	}

	// Drop the space before "/>".
	if n := len(tag.Children); n > 0 {
		if last := tree.Node(tag.Children[n-1]); last.Kind == erbast.NodeWhitespace {
			tree.Remove(last.ID)
		}
	}
	tag.Close = ">"

	if !el.Void && !el.CloseTag.Valid() {
		closeTag := tree.New(erbast.NodeCloseTag)
		closeTag.Open = "</"
		closeTag.Name = tag.Name
		closeTag.Close = ">"
		el.CloseTag = closeTag.ID
		tree.Attach(el.ID, closeTag.ID)
	}

	return tree
}
