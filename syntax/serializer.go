package syntax

import (
	"strings"

	"github.com/fluentkit/fluentfile/internal/strfmt"
)

// SerializeEntry renders a single entry as canonical Fluent source with
// 4-space indentation. The result carries no trailing line break and an
// attached comment is not included; emitting entry separation and
// comments is the caller's concern.
func SerializeEntry(e Entry) string {
	switch e := e.(type) {
	case *Message:
		return serializeMessageLike(e.ID, e.Value, e.Attributes)
	case *Term:
		return serializeMessageLike("-"+e.ID, e.Value, e.Attributes)
	case *Comment:
		return SerializeComment(e)
	case *Junk:
		return strings.TrimSuffix(e.Content, "\n")
	}
	panic("syntax: unknown entry type")
}

// SerializeComment renders a comment run as marker-prefixed lines.
// Empty lines become a bare marker without the trailing space.
func SerializeComment(c *Comment) string {
	marker := strings.Repeat("#", int(c.Level))
	lines := strings.Split(c.Content, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = marker
		} else {
			lines[i] = marker + " " + line
		}
	}
	return strings.Join(lines, "\n")
}

// RenderPatternSource renders a pattern as bare source text: no name,
// no "=", no indentation. A leading ".", "*" or "[" is wrapped into a
// string-literal placeable so the text survives a later re-parse as a
// value instead of opening an attribute or a variant.
func RenderPatternSource(p *Pattern) string {
	content := serializeElements(p.Elements)
	if content != "" {
		switch content[0] {
		case '.', '*', '[':
			content = `{ "` + content[:1] + `" }` + content[1:]
		}
	}
	return content
}

func serializeMessageLike(name string, value *Pattern, attrs []Attribute) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString(" =")
	if value != nil {
		b.WriteString(serializePattern(value))
	}
	for i := range attrs {
		b.WriteString("\n    .")
		b.WriteString(attrs[i].ID)
		b.WriteString(" =")
		b.WriteString(strfmt.IndentTail(serializePattern(attrs[i].Value), "    "))
	}
	return b.String()
}

// serializePattern renders a pattern together with its separator from
// the preceding "=" or variant key: a single space when the value stays
// on the same line, or a line break plus one indent level when it moves
// to a block of its own. Nesting is achieved by the caller re-indenting
// the result, so blank gap lines must stay empty and are skipped by
// IndentTail.
func serializePattern(p *Pattern) string {
	content := serializeElements(p.Elements)
	if startOnNewLine(p) {
		return "\n    " + strfmt.IndentTail(content, "    ")
	}
	return " " + strfmt.IndentTail(content, "    ")
}

// startOnNewLine reports whether the pattern serializes as an indented
// block. Multi-line values and values holding a select expression do,
// except when the first character is ".", "*" or "[": placed at the
// start of an indented line those would terminate the value, so such
// patterns stay inline after "=".
func startOnNewLine(p *Pattern) bool {
	multiline := false
	for _, el := range p.Elements {
		switch el := el.(type) {
		case *Text:
			if strings.ContainsRune(el.Value, '\n') {
				multiline = true
			}
		case *Placeable:
			if _, ok := el.Expression.(*SelectExpression); ok {
				multiline = true
			}
		}
	}
	if !multiline {
		return false
	}
	if t, ok := p.Elements[0].(*Text); ok && t.Value != "" {
		switch t.Value[0] {
		case '.', '*', '[':
			return false
		}
	}
	return true
}

func serializeElements(els []PatternElement) string {
	var b strings.Builder
	for _, el := range els {
		switch el := el.(type) {
		case *Text:
			b.WriteString(el.Value)
		case *Placeable:
			b.WriteString(serializePlaceable(el))
		}
	}
	return b.String()
}

func serializePlaceable(pl *Placeable) string {
	switch e := pl.Expression.(type) {
	case *Placeable:
		return "{" + serializePlaceable(e) + "}"
	case *SelectExpression:
		// The select body ends with a line break so the closing
		// brace lands at the start of the block.
		return "{ " + serializeSelect(e) + "}"
	default:
		return "{ " + serializeExpression(e) + " }"
	}
}

func serializeSelect(s *SelectExpression) string {
	var b strings.Builder
	b.WriteString(serializeExpression(s.Selector))
	b.WriteString(" ->")
	for i := range s.Variants {
		b.WriteString(serializeVariant(&s.Variants[i]))
	}
	b.WriteString("\n")
	return b.String()
}

func serializeVariant(v *Variant) string {
	prefix := "    "
	if v.Default {
		prefix = "   *"
	}
	return "\n" + prefix + "[" + v.Key.Name + "]" +
		strfmt.IndentTail(serializePattern(v.Value), "    ")
}

func serializeExpression(e Expression) string {
	switch e := e.(type) {
	case *StringLiteral:
		return `"` + e.Value + `"`
	case *NumberLiteral:
		return e.Value
	case *VariableReference:
		return "$" + e.Name
	case *MessageReference:
		if e.Attribute != "" {
			return e.ID + "." + e.Attribute
		}
		return e.ID
	case *TermReference:
		var b strings.Builder
		b.WriteString("-")
		b.WriteString(e.ID)
		if e.Attribute != "" {
			b.WriteString(".")
			b.WriteString(e.Attribute)
		}
		if e.Arguments != nil {
			b.WriteString(serializeCallArguments(e.Arguments))
		}
		return b.String()
	case *FunctionReference:
		return e.ID + serializeCallArguments(e.Arguments)
	case *SelectExpression:
		return serializeSelect(e)
	case *Placeable:
		return serializePlaceable(e)
	}
	panic("syntax: unknown expression type")
}

func serializeCallArguments(a *CallArguments) string {
	parts := make([]string, 0, len(a.Positional)+len(a.Named))
	for _, p := range a.Positional {
		parts = append(parts, serializeExpression(p))
	}
	for _, n := range a.Named {
		parts = append(parts, n.Name+": "+serializeExpression(n.Value))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
