package syntax

import (
	"fmt"
	"strings"
)

// Parse parses Fluent source into a sequence of top-level entries.
// Invalid top-level constructs become Junk entries carrying positioned
// annotations; entries around them still parse. Standalone "#" comment
// runs immediately preceding a message or term (no blank line between)
// attach to it instead of appearing as separate entries.
func Parse(source string) []Entry {
	p := &parser{cur: newCursor(source)}
	p.skipBlankBlock()

	var entries []Entry
	var pending *Comment
	flush := func() {
		if pending != nil {
			entries = append(entries, pending)
			pending = nil
		}
	}

	for !p.cur.eof() {
		start := p.cur.pos()
		entry, err := p.parseEntry()
		if err == nil {
			err = p.expectLineEnd()
		}
		if err != nil {
			flush()
			entries = append(entries, p.recoverJunk(start, err))
			p.skipBlankBlock()
			continue
		}

		gap := p.skipBlankBlock()

		switch e := entry.(type) {
		case *Comment:
			flush()
			if e.Level == CommentStandalone && gap == 0 && !p.cur.eof() {
				// Hold the comment: it may attach to the next entry.
				pending = e
				continue
			}
			entries = append(entries, e)
		case *Message:
			e.Comment = pending
			pending = nil
			entries = append(entries, e)
		case *Term:
			e.Comment = pending
			pending = nil
			entries = append(entries, e)
		}
	}
	flush()
	return entries
}

type parseError struct {
	Pos  Position
	Code string
	Msg  string
}

type parser struct {
	cur cursor
}

func (p *parser) span(start Position) Span {
	return Span{Start: start, End: p.cur.pos()}
}

func (p *parser) errExpectedToken(tok string) *parseError {
	return &parseError{
		Pos:  p.cur.pos(),
		Code: CodeExpectedToken,
		Msg:  fmt.Sprintf("Expected token: %q", tok),
	}
}

func (p *parser) expectByte(b byte) *parseError {
	if p.cur.peek() != b {
		return p.errExpectedToken(string(b))
	}
	p.cur.advance(1)
	return nil
}

// expectLineEnd consumes a line break; end of input also qualifies.
func (p *parser) expectLineEnd() *parseError {
	if p.cur.eof() {
		return nil
	}
	if p.cur.peek() != '\n' {
		return &parseError{
			Pos:  p.cur.pos(),
			Code: CodeExpectedToken,
			Msg:  "Expected a line break",
		}
	}
	p.cur.advance(1)
	return nil
}

func isEntryStart(b byte) bool {
	return isIdentStart(b) || b == '-' || b == '#'
}

// recoverJunk consumes input up to the next line that can start an
// entry and wraps it, together with the failure, into a Junk entry.
func (p *parser) recoverJunk(start Position, err *parseError) *Junk {
	for !p.cur.eof() {
		for !p.cur.eof() && p.cur.peek() != '\n' {
			p.cur.advance(1)
		}
		if !p.cur.eof() {
			p.cur.advance(1)
		}
		if p.cur.eof() || isEntryStart(p.cur.peek()) {
			break
		}
	}
	return &Junk{
		Span:    p.span(start),
		Content: p.cur.src[start.Index:p.cur.i],
		Annotations: []Annotation{
			{Pos: err.Pos, Code: err.Code, Message: err.Msg},
		},
	}
}

func (p *parser) parseEntry() (Entry, *parseError) {
	switch b := p.cur.peek(); {
	case b == '#':
		return p.parseComment()
	case b == '-':
		return p.parseTerm()
	case isIdentStart(b):
		return p.parseMessage()
	default:
		return nil, &parseError{
			Pos:  p.cur.pos(),
			Code: CodeExpectedEntry,
			Msg:  "Expected an entry start",
		}
	}
}

func (p *parser) parseComment() (Entry, *parseError) {
	start := p.cur.pos()

	level := 0
	for level < 3 && p.cur.at(level) == '#' {
		level++
	}

	var lines []string
	for {
		p.cur.advance(level)
		if b := p.cur.peek(); b != '\n' && b != 0 {
			// The markers have to be followed by a space.
			if b != ' ' {
				return nil, p.errExpectedToken(" ")
			}
			p.cur.advance(1)
			from := p.cur.i
			for !p.cur.eof() && p.cur.peek() != '\n' {
				p.cur.advance(1)
			}
			lines = append(lines, p.cur.src[from:p.cur.i])
		} else {
			lines = append(lines, "")
		}

		// The run continues only if the next line is a comment
		// of the same marker class.
		if p.cur.peek() != '\n' {
			break
		}
		same := true
		for k := 0; k < level; k++ {
			if p.cur.at(1+k) != '#' {
				same = false
				break
			}
		}
		if !same || p.cur.at(1+level) == '#' {
			break
		}
		if b := p.cur.at(1 + level); b != ' ' && b != '\n' && b != 0 {
			break
		}
		p.cur.advance(1)
	}

	return &Comment{
		Span:    p.span(start),
		Level:   CommentLevel(level),
		Content: strings.Join(lines, "\n"),
	}, nil
}

func (p *parser) parseMessage() (Entry, *parseError) {
	start := p.cur.pos()

	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	p.skipBlankInline()
	if err := p.expectByte('='); err != nil {
		return nil, err
	}

	value, err := p.parseOptionalPattern()
	if err != nil {
		return nil, err
	}
	attrs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}

	if value == nil && len(attrs) == 0 {
		return nil, &parseError{
			Pos:  start,
			Code: CodeExpectedMessageBody,
			Msg:  fmt.Sprintf("Expected message %q to have a value or attributes", id),
		}
	}
	return &Message{Span: p.span(start), ID: id, Value: value, Attributes: attrs}, nil
}

func (p *parser) parseTerm() (Entry, *parseError) {
	start := p.cur.pos()

	if err := p.expectByte('-'); err != nil {
		return nil, err
	}
	id, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	p.skipBlankInline()
	if err := p.expectByte('='); err != nil {
		return nil, err
	}

	value, err := p.parseOptionalPattern()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, &parseError{
			Pos:  start,
			Code: CodeExpectedTermValue,
			Msg:  fmt.Sprintf("Expected term \"-%s\" to have a value", id),
		}
	}
	attrs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}
	return &Term{Span: p.span(start), ID: id, Value: value, Attributes: attrs}, nil
}

// parseOptionalPattern parses a value pattern if one follows, either
// inline after "=" or as an indented block on the following lines.
func (p *parser) parseOptionalPattern() (*Pattern, *parseError) {
	inline := p.peekBlankInlineAt(0)
	first := p.cur.at(inline)

	if first == 0 {
		return nil, nil
	}
	if first != '\n' {
		p.cur.advance(inline)
		return p.parsePattern(false)
	}

	// The value may start on a following line. It has to be indented
	// unless it is a placeable; ".", "*" and "[" start attributes and
	// variants instead.
	_, blockLen := p.peekBlankBlock()
	indent := p.peekBlankInlineAt(blockLen)
	first = p.cur.at(blockLen + indent)
	if first != '{' &&
		(indent == 0 || first == 0 ||
			first == '}' || first == '.' || first == '[' || first == '*') {
		return nil, nil
	}
	p.cur.advance(blockLen)
	return p.parsePattern(true)
}

// patElem is a temporary pattern element; indent elements are merged
// into the surrounding text after the common indent is known.
type patElem struct {
	placeable *Placeable
	text      string
	indent    bool
}

func (p *parser) parsePattern(block bool) (*Pattern, *parseError) {
	start := p.cur.pos()

	commonIndent := -1
	var elems []patElem

	if block {
		n := p.peekBlankInlineAt(0)
		commonIndent = n
		elems = append(elems, patElem{text: p.cur.src[p.cur.i : p.cur.i+n], indent: true})
		p.cur.advance(n)
	}

scan:
	for !p.cur.eof() {
		switch b := p.cur.peek(); b {
		case '{':
			pl, err := p.parsePlaceable()
			if err != nil {
				return nil, err
			}
			elems = append(elems, patElem{placeable: pl})
		case '}':
			return nil, &parseError{
				Pos:  p.cur.pos(),
				Code: CodeUnbalancedBrace,
				Msg:  "Unbalanced closing brace",
			}
		case '\n':
			eols, blockLen := p.peekBlankBlock()
			indent := p.peekBlankInlineAt(blockLen)
			first := p.cur.at(blockLen + indent)
			if first != '{' &&
				(indent == 0 || first == 0 ||
					first == '}' || first == '.' || first == '[' || first == '*') {
				break scan
			}
			if commonIndent == -1 || indent < commonIndent {
				commonIndent = indent
			}
			text := strings.Repeat("\n", eols) +
				p.cur.src[p.cur.i+blockLen:p.cur.i+blockLen+indent]
			elems = append(elems, patElem{text: text, indent: true})
			p.cur.advance(blockLen + indent)
		default:
			from := p.cur.i
			for !p.cur.eof() {
				if b := p.cur.peek(); b == '{' || b == '}' || b == '\n' {
					break
				}
				p.cur.advance(1)
			}
			elems = append(elems, patElem{text: p.cur.src[from:p.cur.i]})
		}
	}

	// Strip the common indent from the indent elements and join
	// adjacent text runs.
	els := make([]PatternElement, 0, len(elems))
	appendText := func(s string) {
		if s == "" {
			return
		}
		if len(els) > 0 {
			if t, ok := els[len(els)-1].(*Text); ok {
				t.Value += s
				return
			}
		}
		els = append(els, &Text{Value: s})
	}
	for _, el := range elems {
		if el.placeable != nil {
			els = append(els, el.placeable)
			continue
		}
		s := el.text
		if el.indent && commonIndent > 0 {
			s = s[:len(s)-commonIndent]
		}
		appendText(s)
	}

	// The last line of a value carries no trailing whitespace.
	if len(els) > 0 {
		if t, ok := els[len(els)-1].(*Text); ok {
			t.Value = strings.TrimRight(t.Value, " ")
			if t.Value == "" {
				els = els[:len(els)-1]
			}
		}
	}
	if len(els) == 0 {
		return nil, nil
	}
	return &Pattern{Span: p.span(start), Elements: els}, nil
}

func (p *parser) parseAttributes() ([]Attribute, *parseError) {
	var attrs []Attribute
	for {
		blank := p.peekBlankAt(0)
		if p.cur.at(blank) != '.' {
			return attrs, nil
		}
		p.cur.advance(blank)
		a, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
}

func (p *parser) parseAttribute() (Attribute, *parseError) {
	start := p.cur.pos()

	if err := p.expectByte('.'); err != nil {
		return Attribute{}, err
	}
	id, err := p.parseIdentifier()
	if err != nil {
		return Attribute{}, err
	}
	p.skipBlankInline()
	if err := p.expectByte('='); err != nil {
		return Attribute{}, err
	}
	value, err := p.parseOptionalPattern()
	if err != nil {
		return Attribute{}, err
	}
	if value == nil {
		return Attribute{}, &parseError{
			Pos:  start,
			Code: CodeExpectedValue,
			Msg:  "Expected value",
		}
	}
	return Attribute{Span: p.span(start), ID: id, Value: value}, nil
}

func (p *parser) parsePlaceable() (*Placeable, *parseError) {
	start := p.cur.pos()

	if err := p.expectByte('{'); err != nil {
		return nil, err
	}
	mark := p.cur.pos()
	p.skipBlank()
	if p.cur.eof() {
		return nil, &parseError{
			Pos:  mark,
			Code: CodeExpectedExpression,
			Msg:  "Expected an inline expression",
		}
	}

	expr, err := p.parseExpression(start)
	if err != nil {
		return nil, err
	}
	if err := p.expectByte('}'); err != nil {
		return nil, err
	}
	return &Placeable{Span: p.span(start), Expression: expr}, nil
}

// parseExpression parses a placeable body. braceStart is the position
// of the enclosing "{" used to position selector diagnostics.
func (p *parser) parseExpression(braceStart Position) (Expression, *parseError) {
	selStart := p.cur.pos()

	sel, err := p.parseInlineExpression()
	if err != nil {
		return nil, err
	}
	p.skipBlank()

	if !(p.cur.peek() == '-' && p.cur.at(1) == '>') {
		if tr, ok := sel.(*TermReference); ok && tr.Attribute != "" {
			return nil, &parseError{
				Pos:  selStart,
				Code: CodeTermAttrAsPlaceable,
				Msg:  "Term attributes cannot be used as placeables",
			}
		}
		return sel, nil
	}

	switch s := sel.(type) {
	case *MessageReference:
		return nil, &parseError{
			Pos:  selStart,
			Code: CodeBadSelector,
			Msg:  "Message references cannot be used as selectors",
		}
	case *TermReference:
		if s.Attribute == "" {
			return nil, &parseError{
				Pos:  selStart,
				Code: CodeBadSelector,
				Msg:  "Terms cannot be used as selectors",
			}
		}
	case *Placeable:
		return nil, &parseError{
			Pos:  selStart,
			Code: CodeBadSelector,
			Msg:  "Placeables cannot be used as selectors",
		}
	}

	p.cur.advance(2) // ->
	p.skipBlankInline()
	if err := p.expectLineEnd(); err != nil {
		return nil, err
	}

	variants, err := p.parseVariants(braceStart)
	if err != nil {
		return nil, err
	}
	return &SelectExpression{
		Span:     Span{Start: selStart, End: p.cur.pos()},
		Selector: sel,
		Variants: variants,
	}, nil
}

func (p *parser) parseVariants(braceStart Position) ([]Variant, *parseError) {
	start := p.cur.pos()

	var variants []Variant
	haveDefault := false
	p.skipBlank()

	for {
		vstart := p.cur.pos()
		isDefault := false

		b := p.cur.peek()
		if b == '*' && p.cur.at(1) == '[' {
			if haveDefault {
				return nil, &parseError{
					Pos:  vstart,
					Code: CodeDuplicateDefault,
					Msg:  "Only one variant can be marked as default (*)",
				}
			}
			haveDefault, isDefault = true, true
			p.cur.advance(1)
			b = p.cur.peek()
		}
		if b != '[' {
			break
		}
		p.cur.advance(1)
		p.skipBlank()

		key, err := p.parseVariantKey()
		if err != nil {
			return nil, err
		}
		p.skipBlank()
		if err := p.expectByte(']'); err != nil {
			return nil, err
		}

		value, err := p.parseOptionalPattern()
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, &parseError{
				Pos:  vstart,
				Code: CodeExpectedValue,
				Msg:  "Expected value",
			}
		}
		variants = append(variants, Variant{
			Span:    Span{Start: vstart, End: p.cur.pos()},
			Key:     key,
			Value:   value,
			Default: isDefault,
		})

		if err := p.expectLineEnd(); err != nil {
			return nil, err
		}
		p.skipBlank()
	}

	if len(variants) == 0 {
		return nil, &parseError{
			Pos:  start,
			Code: CodeExpectedVariants,
			Msg:  "Expected at least one variant after \"->\"",
		}
	}
	if !haveDefault {
		return nil, &parseError{
			Pos:  braceStart,
			Code: CodeMissingDefaultVariant,
			Msg:  "Expected one of the variants to be marked as default (*)",
		}
	}
	return variants, nil
}

func (p *parser) parseVariantKey() (VariantKey, *parseError) {
	start := p.cur.pos()

	b := p.cur.peek()
	switch {
	case isDigit(b) || b == '-':
		n, err := p.parseNumber()
		if err != nil {
			return VariantKey{}, err
		}
		return VariantKey{Span: p.span(start), Name: n.Value}, nil
	case isIdentStart(b):
		id, err := p.parseIdentifier()
		if err != nil {
			return VariantKey{}, err
		}
		return VariantKey{Span: p.span(start), Name: id}, nil
	default:
		return VariantKey{}, &parseError{
			Pos:  start,
			Code: CodeExpectedVariantKey,
			Msg:  "Expected a variant key",
		}
	}
}

func (p *parser) parseInlineExpression() (Expression, *parseError) {
	start := p.cur.pos()

	switch b := p.cur.peek(); {
	case b == '{':
		return p.parsePlaceable()

	case isDigit(b) || (b == '-' && isDigit(p.cur.at(1))):
		return p.parseNumber()

	case b == '"':
		return p.parseString()

	case b == '$':
		p.cur.advance(1)
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		return &VariableReference{Span: p.span(start), Name: name}, nil

	case b == '-':
		p.cur.advance(1)
		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		var attr string
		if p.cur.peek() == '.' {
			p.cur.advance(1)
			if attr, err = p.parseIdentifier(); err != nil {
				return nil, err
			}
		}
		var args *CallArguments
		if blank := p.peekBlankAt(0); p.cur.at(blank) == '(' {
			p.cur.advance(blank)
			if args, err = p.parseCallArguments(); err != nil {
				return nil, err
			}
		}
		return &TermReference{
			Span: p.span(start), ID: id, Attribute: attr, Arguments: args,
		}, nil

	case isIdentStart(b):
		id, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		if blank := p.peekBlankAt(0); p.cur.at(blank) == '(' {
			if strings.ContainsFunc(id, func(r rune) bool {
				return r >= 'a' && r <= 'z'
			}) {
				return nil, &parseError{
					Pos:  start,
					Code: CodeBadCallee,
					Msg:  "The callee has to be an upper-case identifier or a term",
				}
			}
			p.cur.advance(blank)
			args, err := p.parseCallArguments()
			if err != nil {
				return nil, err
			}
			return &FunctionReference{Span: p.span(start), ID: id, Arguments: args}, nil
		}
		var attr string
		if p.cur.peek() == '.' {
			p.cur.advance(1)
			if attr, err = p.parseIdentifier(); err != nil {
				return nil, err
			}
		}
		return &MessageReference{Span: p.span(start), ID: id, Attribute: attr}, nil

	default:
		return nil, &parseError{
			Pos:  p.cur.pos(),
			Code: CodeExpectedExpression,
			Msg:  "Expected an inline expression",
		}
	}
}

func (p *parser) parseCallArguments() (*CallArguments, *parseError) {
	start := p.cur.pos()

	if err := p.expectByte('('); err != nil {
		return nil, err
	}
	p.skipBlank()

	args := &CallArguments{}
	names := map[string]bool{}
	for p.cur.peek() != ')' {
		argStart := p.cur.pos()
		expr, named, err := p.parseCallArgument()
		if err != nil {
			return nil, err
		}
		if named != nil {
			if names[named.Name] {
				return nil, &parseError{
					Pos:  argStart,
					Code: CodeDuplicateNamedArg,
					Msg:  fmt.Sprintf("The %q argument appears twice", named.Name),
				}
			}
			names[named.Name] = true
			args.Named = append(args.Named, *named)
		} else {
			if len(args.Named) > 0 {
				return nil, &parseError{
					Pos:  argStart,
					Code: CodePositionalAfterNamed,
					Msg:  "Positional arguments must not follow named arguments",
				}
			}
			args.Positional = append(args.Positional, expr)
		}
		p.skipBlank()
		if p.cur.peek() != ',' {
			break
		}
		p.cur.advance(1)
		p.skipBlank()
	}

	if err := p.expectByte(')'); err != nil {
		return nil, err
	}
	args.Span = p.span(start)
	return args, nil
}

func (p *parser) parseCallArgument() (Expression, *NamedArgument, *parseError) {
	start := p.cur.pos()

	expr, err := p.parseInlineExpression()
	if err != nil {
		return nil, nil, err
	}
	p.skipBlank()
	if p.cur.peek() != ':' {
		return expr, nil, nil
	}

	mr, ok := expr.(*MessageReference)
	if !ok || mr.Attribute != "" {
		return nil, nil, &parseError{
			Pos:  start,
			Code: CodeExpectedArgumentName,
			Msg:  "The argument name has to be a simple identifier",
		}
	}
	p.cur.advance(1)
	p.skipBlank()

	value, err := p.parseLiteral()
	if err != nil {
		return nil, nil, err
	}
	return nil, &NamedArgument{
		Span:  Span{Start: start, End: p.cur.pos()},
		Name:  mr.ID,
		Value: value,
	}, nil
}

func (p *parser) parseLiteral() (Expression, *parseError) {
	switch b := p.cur.peek(); {
	case isDigit(b) || b == '-':
		return p.parseNumber()
	case b == '"':
		return p.parseString()
	default:
		return nil, &parseError{
			Pos:  p.cur.pos(),
			Code: CodeExpectedLiteral,
			Msg:  "Expected a literal",
		}
	}
}

func (p *parser) parseNumber() (*NumberLiteral, *parseError) {
	start := p.cur.pos()
	from := p.cur.i

	if p.cur.peek() == '-' {
		p.cur.advance(1)
	}
	if !isDigit(p.cur.peek()) {
		return nil, &parseError{
			Pos:  p.cur.pos(),
			Code: CodeExpectedCharRange,
			Msg:  "Expected a character from range: \"0-9\"",
		}
	}
	for isDigit(p.cur.peek()) {
		p.cur.advance(1)
	}
	if p.cur.peek() == '.' {
		p.cur.advance(1)
		if !isDigit(p.cur.peek()) {
			return nil, &parseError{
				Pos:  p.cur.pos(),
				Code: CodeExpectedCharRange,
				Msg:  "Expected a character from range: \"0-9\"",
			}
		}
		for isDigit(p.cur.peek()) {
			p.cur.advance(1)
		}
	}
	return &NumberLiteral{Span: p.span(start), Value: p.cur.src[from:p.cur.i]}, nil
}

// parseString parses a quoted literal. The inner text is preserved
// verbatim, escape sequences included; only their validity is checked.
func (p *parser) parseString() (*StringLiteral, *parseError) {
	start := p.cur.pos()

	if err := p.expectByte('"'); err != nil {
		return nil, err
	}
	from := p.cur.i
	for {
		switch b := p.cur.peek(); b {
		case '"':
			value := p.cur.src[from:p.cur.i]
			p.cur.advance(1)
			return &StringLiteral{Span: p.span(start), Value: value}, nil
		case '\n', 0:
			return nil, &parseError{
				Pos:  p.cur.pos(),
				Code: CodeUnterminatedString,
				Msg:  "Unterminated string literal",
			}
		case '\\':
			if err := p.parseEscapeSequence(); err != nil {
				return nil, err
			}
		default:
			p.cur.advance(1)
		}
	}
}

func (p *parser) parseEscapeSequence() *parseError {
	pos := p.cur.pos()
	p.cur.advance(1) // backslash

	switch b := p.cur.peek(); b {
	case '\\', '"':
		p.cur.advance(1)
		return nil
	case 'u', 'U':
		p.cur.advance(1)
		digits := 4
		if b == 'U' {
			digits = 6
		}
		for i := 0; i < digits; i++ {
			if !isHexDigit(p.cur.peek()) {
				return &parseError{
					Pos:  p.cur.pos(),
					Code: CodeInvalidUnicodeEscape,
					Msg:  fmt.Sprintf("Invalid unicode escape sequence: \"\\%c\"", b),
				}
			}
			p.cur.advance(1)
		}
		return nil
	default:
		return &parseError{
			Pos:  pos,
			Code: CodeUnknownEscape,
			Msg:  fmt.Sprintf("Unknown escape sequence: \"\\%c\"", b),
		}
	}
}

func (p *parser) parseIdentifier() (string, *parseError) {
	if !isIdentStart(p.cur.peek()) {
		return "", &parseError{
			Pos:  p.cur.pos(),
			Code: CodeExpectedCharRange,
			Msg:  "Expected a character from range: \"a-zA-Z\"",
		}
	}
	from := p.cur.i
	p.cur.advance(1)
	for isIdentByte(p.cur.peek()) {
		p.cur.advance(1)
	}
	return p.cur.src[from:p.cur.i], nil
}

func isIdentStart(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || isDigit(b) || b == '_' || b == '-'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}
