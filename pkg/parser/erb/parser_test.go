package erb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/herblint/pkg/erbast"
)

func trackWhitespace() erbast.ParseOptions {
	return erbast.ParseOptions{TrackWhitespace: true}
}

func TestParsePrint_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
	}{
		{"empty", ""},
		{"element", "<div class=\"a\" id='b'>Hello</div>\n"},
		{"implied list items", "<ul>\n  <li>Item 1\n  <li>Item 2\n</ul>"},
		{"erb output", "<%= link_to 'x', y %>"},
		{"conditional", "<% if a %>\n<p>x</p>\n<% elsif b %>\n<p>y</p>\n<% else %>\nz\n<% end %>"},
		{"conditional attributes", "<div <% if a %>class=\"x\"<% else %>id=\"y\"<% end %>></div>"},
		{"erb in value", "<input type=\"text\" value=\"<%= v %>\" disabled>"},
		{"script", "<script>if (a < b) { x() }</script>"},
		{"doctype and comment", "<!DOCTYPE html>\n<!-- c -->\n<br/>"},
		{"block", "<% items.each do |item| %><li><%= item %></li><% end %>"},
		{"uppercase", "<DIV><SPAN>Hello</SPAN></DIV>\n"},
		{"unclosed elements", "<div><span>"},
		{"unclosed control flow", "<% if a %>"},
		{"unterminated value", "<div class=\"x"},
		{"unterminated erb", "<%= oops"},
		{"unquoted value", "<a href=foo/bar>x</a>"},
		{"escaped erb", "<p>a <%%= b %> c</p>"},
		{"crlf", "text\r\nmore"},
		{"trim markers", "<%- x -%>\n<%# note %>"},
		{"spaced equals", "<a href = \"x\" >y</a >"},
		{"stray close", "</div>text"},
		{"case", "<% case x %>\n<% when 1 %>one<% when 2 %>two<% end %>"},
		{"cdata and xml", "<?xml version=\"1.0\"?><![CDATA[x]]>"},
	}

	printer := NewPrinter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := Parse(tt.source, trackWhitespace())
			assert.Equal(t, tt.source, printer.Print(result.Tree))

			lexed := Lex(tt.source)
			assert.True(t, erbast.ValidateTokens(lexed.Tokens, len(tt.source)), "tokens must cover the source")
		})
	}
}

func TestParse_ImpliedEndTags(t *testing.T) {
	t.Parallel()

	result := Parse("<ul>\n  <li>Item 1\n  <li>Item 2\n</ul>", trackWhitespace())
	require.Empty(t, result.Errors)

	tree := result.Tree
	root := tree.RootNode()
	require.Len(t, root.Children, 1)

	ul := tree.Node(root.Children[0])
	assert.Equal(t, "ul", ul.Name)
	assert.True(t, ul.CloseTag.Valid())

	items := tree.FindAll(func(n *erbast.Node) bool {
		return n.Kind == erbast.NodeElement && n.TagName() == "li"
	})
	require.Len(t, items, 2)
	for _, li := range items {
		assert.Equal(t, ul.ID, li.Parent)
		assert.False(t, li.CloseTag.Valid())
	}

	first := tree.Node(items[0].Children[0])
	assert.Equal(t, "Item 1\n  ", first.Value)
	second := tree.Node(items[1].Children[0])
	assert.Equal(t, "Item 2\n", second.Value)
}

func TestParse_UnclosedElementIsReported(t *testing.T) {
	t.Parallel()

	result := Parse("<div><span></div>", trackWhitespace())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "<span>")

	div := result.Tree.Node(result.Tree.RootNode().Children[0])
	assert.True(t, div.CloseTag.Valid())
}

func TestParse_StrayCloseTag(t *testing.T) {
	t.Parallel()

	result := Parse("</div>", trackWhitespace())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "stray")

	root := result.Tree.RootNode()
	require.Len(t, root.Children, 1)
	assert.Equal(t, erbast.NodeCloseTag, result.Tree.Node(root.Children[0]).Kind)
}

func TestParse_ControlFlow(t *testing.T) {
	t.Parallel()

	result := Parse("<% if a %>x<% else %>y<% end %>", trackWhitespace())
	require.Empty(t, result.Errors)

	tree := result.Tree
	ctrl := tree.Node(tree.RootNode().Children[0])
	require.Equal(t, erbast.NodeERBIf, ctrl.Kind)
	require.Len(t, ctrl.Children, 2)
	assert.True(t, ctrl.End.Valid())

	ifBranch := tree.Node(ctrl.Children[0])
	elseBranch := tree.Node(ctrl.Children[1])
	assert.Equal(t, erbast.BranchIf, ifBranch.Branch)
	assert.Equal(t, erbast.BranchElse, elseBranch.Branch)
	assert.Equal(t, "x", tree.Node(ifBranch.Children[0]).Value)
	assert.Equal(t, "y", tree.Node(elseBranch.Children[0]).Value)
}

func TestParse_ControlFlowInsideOpenTag(t *testing.T) {
	t.Parallel()

	result := Parse(`<div <% if a %>class="x"<% else %>class="y"<% end %>></div>`, trackWhitespace())
	require.Empty(t, result.Errors)

	tree := result.Tree
	div := tree.Node(tree.RootNode().Children[0])
	attrs := tree.Attributes(div.OpenTag)
	require.Len(t, attrs, 2)
	for _, id := range attrs {
		assert.Equal(t, "class", tree.Node(id).Name)
	}
}

func TestParse_Blocks(t *testing.T) {
	t.Parallel()

	result := Parse("<% items.each do |item| %><li><%= item %></li><% end %>", trackWhitespace())
	require.Empty(t, result.Errors)

	loop := result.Tree.Node(result.Tree.RootNode().Children[0])
	assert.Equal(t, erbast.NodeERBLoop, loop.Kind)
	assert.Equal(t, erbast.BranchBlock, result.Tree.Node(loop.Children[0]).Branch)
}

func TestParse_UnexpectedEnd(t *testing.T) {
	t.Parallel()

	result := Parse("<div><% end %></div>", trackWhitespace())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "end")
}

func TestParse_VoidAndRawText(t *testing.T) {
	t.Parallel()

	result := Parse(`<img src="a.png"><script><div></script>`, trackWhitespace())
	require.Empty(t, result.Errors)

	tree := result.Tree
	root := tree.RootNode()
	require.Len(t, root.Children, 2)

	img := tree.Node(root.Children[0])
	assert.True(t, img.Void)
	assert.False(t, img.HasChildren())

	script := tree.Node(root.Children[1])
	require.Len(t, script.Children, 1)
	assert.Equal(t, "<div>", tree.Node(script.Children[0]).Value)
}

func TestParse_Locations(t *testing.T) {
	t.Parallel()

	result := Parse("<div>\n  <SPAN>x</SPAN>\n</div>", trackWhitespace())
	spans := result.Tree.FindAll(func(n *erbast.Node) bool {
		return n.Kind == erbast.NodeOpenTag && n.TagName() == "span"
	})
	require.Len(t, spans, 1)
	assert.Equal(t, erbast.Position{Line: 2, Column: 4}, spans[0].NameLocation.Start)
	assert.Equal(t, erbast.Position{Line: 2, Column: 3}, spans[0].Location.Start)
}

func TestParse_WithoutTrackWhitespace(t *testing.T) {
	t.Parallel()

	result := Parse(`<div class="a" >x</div>`, erbast.ParseOptions{})
	tree := result.Tree
	div := tree.Node(tree.RootNode().Children[0])
	open := tree.Node(div.OpenTag)
	require.Len(t, open.Children, 1)
	assert.Equal(t, erbast.NodeAttribute, tree.Node(open.Children[0]).Kind)
}

func TestClassifyERB(t *testing.T) {
	t.Parallel()

	tests := []struct {
		open     string
		code     string
		wantRole tagRole
		wantKind erbast.NodeKind
	}{
		{"<%", " if a ", roleOpen, erbast.NodeERBIf},
		{"<%", " unless a ", roleOpen, erbast.NodeERBIf},
		{"<%", " case x ", roleOpen, erbast.NodeERBCase},
		{"<%", " while x ", roleOpen, erbast.NodeERBLoop},
		{"<%", " begin ", roleOpen, erbast.NodeERBBegin},
		{"<%=", " form_with(model: x) do |f| ", roleOpen, erbast.NodeERBLoop},
		{"<%", " items.each { |i| ", roleOpen, erbast.NodeERBLoop},
		{"<%", " else ", roleBranch, erbast.NodeERBBranch},
		{"<%", " when 1 ", roleBranch, erbast.NodeERBBranch},
		{"<%", " end ", roleEnd, erbast.NodeERBEnd},
		{"<%", " } ", roleEnd, erbast.NodeERBEnd},
		{"<%", " if a then b end ", roleContent, erbast.NodeERBContent},
		{"<%", " x = 1 if y ", roleContent, erbast.NodeERBContent},
		{"<%#", " if a ", roleContent, erbast.NodeERBContent},
		{"<%=", " ending ", roleContent, erbast.NodeERBContent},
	}

	for _, tt := range tests {
		role, kind, _ := classifyERB(tt.open, tt.code)
		assert.Equal(t, tt.wantRole, role, "code: %q", tt.code)
		assert.Equal(t, tt.wantKind, kind, "code: %q", tt.code)
	}
}
