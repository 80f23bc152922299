package erbast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/herblint/pkg/erbast"
)

func TestLineIndex_Position(t *testing.T) {
	t.Parallel()

	li := erbast.NewLineIndex("ab\ncd\n")

	tests := []struct {
		offset int
		want   erbast.Position
	}{
		{0, erbast.Position{Line: 1, Column: 1}},
		{2, erbast.Position{Line: 1, Column: 3}},
		{3, erbast.Position{Line: 2, Column: 1}},
		{6, erbast.Position{Line: 3, Column: 1}},
		{100, erbast.Position{Line: 3, Column: 1}},
		{-5, erbast.Position{Line: 1, Column: 1}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, li.Position(tt.offset), "offset %d", tt.offset)
	}
	assert.Equal(t, 3, li.LineCount())
}

func TestLineIndex_LineStart(t *testing.T) {
	t.Parallel()

	li := erbast.NewLineIndex("ab\ncd")

	start, ok := li.LineStart(2)
	assert.True(t, ok)
	assert.Equal(t, 3, start)

	_, ok = li.LineStart(3)
	assert.False(t, ok)
}

func TestValidateTokens(t *testing.T) {
	t.Parallel()

	good := []erbast.Token{
		{Range: erbast.Range{Start: 0, End: 2}},
		{Range: erbast.Range{Start: 2, End: 5}},
	}
	gap := []erbast.Token{
		{Range: erbast.Range{Start: 0, End: 2}},
		{Range: erbast.Range{Start: 3, End: 5}},
	}

	assert.True(t, erbast.ValidateTokens(good, 5))
	assert.False(t, erbast.ValidateTokens(good, 6))
	assert.False(t, erbast.ValidateTokens(gap, 5))
	assert.True(t, erbast.ValidateTokens(nil, 0))
}

func TestNode_Predicates(t *testing.T) {
	t.Parallel()

	comment := &erbast.Node{Kind: erbast.NodeERBContent, Open: "<%#"}
	output := &erbast.Node{Kind: erbast.NodeERBContent, Open: "<%="}
	selfClosing := &erbast.Node{Kind: erbast.NodeOpenTag, Name: "DIV", Close: "/>"}

	assert.True(t, comment.IsERBComment())
	assert.False(t, comment.IsERBOutput())
	assert.True(t, output.IsERBOutput())
	assert.True(t, selfClosing.IsSelfClosing())
	assert.Equal(t, "div", selfClosing.TagName())
}
