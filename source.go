package fluentfile

import (
	"strings"

	"github.com/fluentkit/fluentfile/internal/strfmt"
	"github.com/fluentkit/fluentfile/syntax"
)

// flattenEntrySource renders a parsed message or term into the unit
// source form: the value lines without indentation, then one
// ".attr = value" block per attribute. Multi-line attribute values go
// on the lines following ".attr =", also without indentation.
func flattenEntrySource(value *syntax.Pattern, attrs []syntax.Attribute) string {
	var parts []string
	if value != nil {
		parts = append(parts, syntax.RenderPatternSource(value))
	}
	for i := range attrs {
		v := syntax.RenderPatternSource(attrs[i].Value)
		if line, more := strfmt.FirstLine(v); !more {
			parts = append(parts, "."+attrs[i].ID+" = "+line)
		} else {
			parts = append(parts, "."+attrs[i].ID+" =\n"+v)
		}
	}
	return strings.Join(parts, "\n")
}

// reparseSource parses a unit's flattened source back into an entry by
// wrapping it into a one-entry fragment:
//
//	<id> =
//	    <source indented by one level>
//
// Diagnostic positions are mapped back into unit source coordinates by
// undoing the fragment offsets. Term ids carry their "-" prefix, so the
// fragment parses as the right entry kind without extra handling.
func reparseSource(id, source string) (syntax.Entry, *SourceError) {
	fragment := id + " =\n" + strfmt.Indent(source, "    ") + "\n"
	entries := syntax.Parse(fragment)

	for _, e := range entries {
		if junk, ok := e.(*syntax.Junk); ok && len(junk.Annotations) > 0 {
			ann := junk.Annotations[0]
			return nil, &SourceError{
				UnitID: id,
				Detail: ann.Message,
				Line:   max(ann.Pos.Line-1, 1),
				Column: max(ann.Pos.Column-4, 1),
			}
		}
	}
	for _, e := range entries {
		switch e.(type) {
		case *syntax.Message, *syntax.Term:
			return e, nil
		}
	}
	return nil, &SourceError{
		UnitID: id, Detail: "Expected an entry", Line: 1, Column: 1,
	}
}
