// Package syntax provides a Fluent (FTL) parser and canonical serializer.
//
// The parser is junk-tolerant: top-level constructs that fail to parse
// become Junk entries carrying the offending source span and positioned
// annotations, while surrounding valid entries still parse. The
// serializer re-renders entries with canonical 4-space indentation.
package syntax

import "fmt"

// Position is a location in Fluent source.
// Line and Column are 1-based, Index is a byte offset.
type Position struct {
	Index  int
	Line   int
	Column int
}

// Span is the source range covered by a node.
type Span struct {
	Start Position
	End   Position
}

// Entry is a top-level Fluent construct:
// *Message, *Term, *Comment or *Junk.
type Entry interface{ entry() }

// Message is a translatable entry with an optional value and attributes.
// A message with neither value nor attributes is a parse error.
type Message struct {
	Span
	ID         string
	Value      *Pattern
	Attributes []Attribute
	Comment    *Comment
}

// Term is a "-"-prefixed entry referable from messages and other terms.
// The ID is stored without the leading "-". A term value is mandatory.
type Term struct {
	Span
	ID         string
	Value      *Pattern
	Attributes []Attribute
	Comment    *Comment
}

// Attribute is a named sub-value of a message or term.
type Attribute struct {
	Span
	ID    string
	Value *Pattern
}

// CommentLevel is the marker class of a comment run.
type CommentLevel uint8

const (
	CommentStandalone CommentLevel = iota + 1 // #
	CommentGroup                              // ##
	CommentResource                           // ###
)

// Comment is a run of comment lines of one marker class.
// Content holds the lines joined by "\n" with the marker and
// one leading space stripped; blank marker lines contribute "".
type Comment struct {
	Span
	Level   CommentLevel
	Content string
}

// Junk is a source span that failed to parse as an entry.
type Junk struct {
	Span
	Content     string
	Annotations []Annotation
}

// Annotation is a positioned diagnostic attached to a Junk entry.
type Annotation struct {
	Pos     Position
	Code    string
	Message string
}

func (a Annotation) String() string {
	return fmt.Sprintf("%s: %s (line %d, column %d)",
		a.Code, a.Message, a.Pos.Line, a.Pos.Column)
}

func (*Message) entry() {}
func (*Term) entry()    {}
func (*Comment) entry() {}
func (*Junk) entry()    {}

// Pattern is a value: a sequence of text and placeable elements.
type Pattern struct {
	Span
	Elements []PatternElement
}

// PatternElement is *Text or *Placeable.
type PatternElement interface{ element() }

// Text is a verbatim text run, possibly spanning multiple lines.
type Text struct {
	Span
	Value string
}

// Placeable is a "{ ... }" interpolation.
type Placeable struct {
	Span
	Expression Expression
}

func (*Text) element()      {}
func (*Placeable) element() {}

// Expression is a placeable body: a literal, a reference,
// a select expression or a nested *Placeable.
type Expression interface{ expression() }

// StringLiteral holds the raw inner text of a quoted literal with
// escape sequences preserved verbatim.
type StringLiteral struct {
	Span
	Value string
}

// NumberLiteral holds the raw digits of a number literal.
type NumberLiteral struct {
	Span
	Value string
}

// VariableReference is "$name".
type VariableReference struct {
	Span
	Name string
}

// MessageReference is "id" or "id.attr".
type MessageReference struct {
	Span
	ID        string
	Attribute string
}

// TermReference is "-id", "-id.attr" or "-id(...)".
// The ID is stored without the leading "-".
type TermReference struct {
	Span
	ID        string
	Attribute string
	Arguments *CallArguments
}

// FunctionReference is an upper-case call form like "NUMBER($n)".
// The engine never evaluates it; the call is preserved verbatim.
type FunctionReference struct {
	Span
	ID        string
	Arguments *CallArguments
}

// CallArguments are the arguments of a term or function reference.
type CallArguments struct {
	Span
	Positional []Expression
	Named      []NamedArgument
}

// NamedArgument is a "name: literal" call argument.
type NamedArgument struct {
	Span
	Name  string
	Value Expression
}

// SelectExpression branches on a selector across keyed variants,
// exactly one of which is marked default.
type SelectExpression struct {
	Span
	Selector Expression
	Variants []Variant
}

// Variant is one "[key] value" arm of a select expression.
type Variant struct {
	Span
	Key     VariantKey
	Value   *Pattern
	Default bool
}

// VariantKey is an identifier or number key.
type VariantKey struct {
	Span
	Name string
}

func (*StringLiteral) expression()     {}
func (*NumberLiteral) expression()     {}
func (*VariableReference) expression() {}
func (*MessageReference) expression()  {}
func (*TermReference) expression()     {}
func (*FunctionReference) expression() {}
func (*SelectExpression) expression()  {}
func (*Placeable) expression()         {}

// Diagnostic codes used in Junk annotations. The numbering follows the
// reference Fluent tooling so diagnostics stay recognizable.
const (
	CodeExpectedEntry         = "E0002" // expected an entry start
	CodeExpectedToken         = "E0003" // expected a specific token
	CodeExpectedCharRange     = "E0004" // expected a character from range
	CodeExpectedMessageBody   = "E0005" // message with neither value nor attributes
	CodeExpectedTermValue     = "E0006" // term without a value
	CodeBadCallee             = "E0008" // callee is not an upper-case identifier
	CodeExpectedArgumentName  = "E0009" // named argument name is not an identifier
	CodeMissingDefaultVariant = "E0010" // selector without a default variant
	CodeExpectedVariants      = "E0011" // selector without variants
	CodeExpectedValue         = "E0012" // attribute or variant without a value
	CodeExpectedVariantKey    = "E0013" // empty variant key
	CodeExpectedLiteral       = "E0014" // named argument value is not a literal
	CodeDuplicateDefault      = "E0015" // more than one default variant
	CodeTermAttrAsPlaceable   = "E0017" // term attribute outside a selector
	CodeUnterminatedString    = "E0020" // string literal without closing quote
	CodePositionalAfterNamed  = "E0021" // positional call argument after a named one
	CodeDuplicateNamedArg     = "E0022" // named call argument appears twice
	CodeUnknownEscape         = "E0025" // unknown escape sequence
	CodeInvalidUnicodeEscape  = "E0026" // malformed \u or \U escape
	CodeUnbalancedBrace       = "E0027" // closing brace without an opening one
	CodeExpectedExpression    = "E0028" // placeable without an inline expression
	CodeBadSelector           = "E0029" // expression not usable as a selector
)
