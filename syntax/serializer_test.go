package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluentkit/fluentfile/syntax"
)

func parseOne(t *testing.T, src string) syntax.Entry {
	t.Helper()
	entries := syntax.Parse(src)
	require.Len(t, entries, 1)
	if junk, ok := entries[0].(*syntax.Junk); ok {
		t.Fatalf("parsed to junk: %v", junk.Annotations)
	}
	return entries[0]
}

func TestSerializeEntryCanonical(t *testing.T) {
	// Canonical sources reproduce themselves.
	for _, src := range []string{
		"m = value",
		"m =\n    line 1\n      line 2",
		"m =\n    line 1\n\n    line 2",
		"-term = x\n    .a = y",
		"m =\n    .attr =\n        My multiline\n        attribute",
		"m = { $var } and { -term } and { msg.attr }",
		"m = {{ $var }}",
		"m = { NUMBER($n, digits: 2) } left",
		"m = { -term(tense: \"past\", count: 7.5) }",
		"m =\n    { $n ->\n        [one] an apple\n       *[other] { $n } apples\n    }",
		"m =\n    Just eat { $n ->\n        [one] an apple\n       *[other] apples\n    } today.",
		"# a comment\n# second line",
		"## a group comment",
		"### a resource comment",
	} {
		t.Run(src, func(t *testing.T) {
			require.Equal(t, src, syntax.SerializeEntry(parseOne(t, src+"\n")))
		})
	}
}

func TestSerializeEntryNormalizes(t *testing.T) {
	for _, tt := range []struct{ src, want string }{
		// Multi-line values move to their own block.
		{"m = one\n  two", "m =\n    one\n    two"},
		// Except when the first character would end the block.
		{"m = .one\n  two", "m = .one\n    two"},
		// Attribute indentation is canonicalized.
		{"m = v\n .a = x\n       .b = y", "m = v\n    .a = x\n    .b = y"},
	} {
		require.Equal(t, tt.want, syntax.SerializeEntry(parseOne(t, tt.src+"\n")))
	}
}

func TestRenderPatternSource(t *testing.T) {
	render := func(src string) string {
		msg, ok := parseOne(t, src+"\n").(*syntax.Message)
		require.True(t, ok)
		return syntax.RenderPatternSource(msg.Value)
	}

	for _, tt := range []struct{ src, want string }{
		{"m = normal", "normal"},
		{"m = e.and more", "e.and more"},
		{"m = .x", `{ "." }x`},
		{"m = *", `{ "*" }`},
		{"m = [at start", `{ "[" }at start`},
		{"m = ]x", "]x"},
		{"m = { $v }x", "{ $v }x"},
		{"m = one\n  two", "one\ntwo"},
	} {
		require.Equal(t, tt.want, render(tt.src), "source %q", tt.src)
	}
}

func TestSerializeComment(t *testing.T) {
	for _, tt := range []struct {
		level   syntax.CommentLevel
		content string
		want    string
	}{
		{syntax.CommentStandalone, "hi", "# hi"},
		{syntax.CommentGroup, "hi", "## hi"},
		{syntax.CommentResource, "hi", "### hi"},
		{syntax.CommentStandalone, "one\n\ntwo", "# one\n#\n# two"},
		{syntax.CommentGroup, "", "##"},
	} {
		got := syntax.SerializeComment(&syntax.Comment{
			Level:   tt.level,
			Content: tt.content,
		})
		require.Equal(t, tt.want, got)
	}
}
