package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/herblint/pkg/config"
	"github.com/yaklabco/herblint/pkg/erbast"
	"github.com/yaklabco/herblint/pkg/lint"
)

// NoDuplicateAttributesRule checks that an open tag does not set the same
// attribute twice. Attributes in mutually exclusive ERB branches may repeat.
type NoDuplicateAttributesRule struct {
	lint.BaseRule
}

// NewNoDuplicateAttributesRule creates a new no duplicate attributes rule.
func NewNoDuplicateAttributesRule() *NoDuplicateAttributesRule {
	return &NoDuplicateAttributesRule{
		BaseRule: lint.NewBaseRule(
			"html-no-duplicate-attributes",
			"Attributes must not be repeated on the same tag",
			lint.KindAST,
			lint.EnabledWith(config.SeverityError),
		),
	}
}

// Check walks the attributes of every open tag through its control flow.
func (r *NoDuplicateAttributesRule) Check(res *erbast.ParseResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var (
		offenses []lint.Offense
		tracker  lint.ControlFlowTracker
	)

	for _, tag := range lint.OpenTags(res.Tree) {
		tracker.Reset()
		w := attributeWalker{tree: res.Tree, tracker: &tracker}
		w.walk(tag.ID)
		for _, d := range w.duplicates {
			offenses = append(offenses, r.NewOffenseAt(d.attr.NameLocation, duplicateMessage(d.attr.Name, d.verdict)).Build())
		}
	}

	return offenses, nil
}

type duplicateAttr struct {
	attr    *erbast.Node
	verdict lint.Verdict
}

// attributeWalker feeds the attributes of one open tag to a tracker.
type attributeWalker struct {
	tree       *erbast.Tree
	tracker    *lint.ControlFlowTracker
	duplicates []duplicateAttr
}

func (w *attributeWalker) walk(id erbast.NodeID) {
	for _, child := range w.tree.Contents(id) {
		n := w.tree.Node(child)
		switch {
		case n.Kind == erbast.NodeAttribute:
			if v := w.tracker.Record(n.TagName()); v != lint.Unique {
				w.duplicates = append(w.duplicates, duplicateAttr{attr: n, verdict: v})
			}
		case n.Kind.IsControlFlow():
			w.walkControl(n)
		}
	}
}

func (w *attributeWalker) walkControl(n *erbast.Node) {
	kind := lint.FlowConditional
	if n.Kind == erbast.NodeERBLoop {
		kind = lint.FlowLoop
	}

	w.tracker.EnterControlFlow(kind)
	for i, branch := range n.Children {
		if i > 0 {
			w.tracker.EnterBranch()
		}
		w.walk(branch)
	}
	w.tracker.ExitControlFlow()
}

func duplicateMessage(name string, v lint.Verdict) string {
	switch v {
	case lint.DuplicateSameBranch:
		return fmt.Sprintf("Duplicate attribute `%s` in the same conditional branch. "+
			"Attributes in different branches may repeat, but not within one.", name)
	case lint.DuplicateSameIteration:
		return fmt.Sprintf("Duplicate attribute `%s` within the same loop iteration. "+
			"Each iteration would set it more than once.", name)
	default:
		return fmt.Sprintf("Duplicate attribute `%s`. Browsers only use the first occurrence; "+
			"remove the duplicate or merge the values.", name)
	}
}

// ImgRequireAltRule checks that img elements have an alt attribute.
type ImgRequireAltRule struct {
	lint.BaseRule
}

// NewImgRequireAltRule creates a new img alt rule.
func NewImgRequireAltRule() *ImgRequireAltRule {
	return &ImgRequireAltRule{
		BaseRule: lint.NewBaseRule(
			"html-img-require-alt",
			"img elements must have an alt attribute",
			lint.KindAST,
			lint.EnabledWith(config.SeverityError),
		),
	}
}

// Check flags img tags without alt. An empty alt is valid for decorative images.
func (r *ImgRequireAltRule) Check(res *erbast.ParseResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense

	for _, tag := range lint.OpenTags(res.Tree) {
		if tag.TagName() != "img" {
			continue
		}
		if res.Tree.FindAttribute(tag.ID, "alt").Valid() {
			continue
		}
		offenses = append(offenses, r.NewOffense(tag,
			"Missing required `alt` attribute on `<img>` tag. "+
				"Add `alt=\"\"` for decorative images or a description for informative ones.").
			WithLocation(tag.NameLocation).Build())
	}

	return offenses, nil
}

// AttributeDoubleQuotesRule checks that attribute values use double quotes.
type AttributeDoubleQuotesRule struct {
	lint.BaseRule
}

// NewAttributeDoubleQuotesRule creates a new attribute double quotes rule.
func NewAttributeDoubleQuotesRule() *AttributeDoubleQuotesRule {
	return &AttributeDoubleQuotesRule{
		BaseRule: lint.NewBaseRule(
			"html-attribute-double-quotes",
			"Attribute values should be quoted with double quotes",
			lint.KindAST,
			lint.EnabledWith(config.SeverityWarning),
		),
	}
}

// Check flags single-quoted values. Values containing a double quote are
// left alone since switching quotes would end them early.
func (r *AttributeDoubleQuotesRule) Check(res *erbast.ParseResult, _ *lint.RuleContext) ([]lint.Offense, error) {
	var offenses []lint.Offense

	for _, attr := range res.Tree.FindByKind(erbast.NodeAttribute) {
		value := res.Tree.Node(attr.AttrValue)
		if value == nil || value.Open != "'" || value.Close != "'" {
			continue
		}
		if containsDoubleQuote(res.Tree, value) {
			continue
		}
		raw, _ := lint.AttributeValue(res.Tree, attr)
		msg := fmt.Sprintf("Attribute `%s` uses single quotes. Prefer double quotes: `%s=\"%s\"`.",
			attr.Name, attr.Name, raw)
		offenses = append(offenses, r.NewOffense(value, msg).Fixable(value.ID).Build())
	}

	return offenses, nil
}

func containsDoubleQuote(tree *erbast.Tree, value *erbast.Node) bool {
	for _, id := range value.Children {
		if n := tree.Node(id); n.Kind == erbast.NodeText && strings.Contains(n.Value, `"`) {
			return true
		}
	}
	return false
}

// Autofix swaps the quotes of the value.
func (r *AttributeDoubleQuotesRule) Autofix(o lint.Offense, tree *erbast.Tree, _ *lint.RuleContext) *erbast.Tree {
	value := tree.Node(o.AutofixContext.Node)
	if value == nil || value.Kind != erbast.NodeAttributeValue || value.Open != "'" {
		return nil
	}
	if containsDoubleQuote(tree, value) {
		return nil
	}
	value.Open = `"`
	value.Close = `"`
	return tree
}
