// Package fluentfile reads and writes Fluent (FTL) localization files
// as ordered sequences of units.
//
// A File holds one unit per message, term or standalone comment, in
// file order. Unit sources are plain mutable text; they are re-parsed
// lazily when the file serializes, so edits stay cheap and errors
// surface with positions local to the edited unit. Serialization is
// canonical: whatever the input indentation, output values are
// re-indented with 4 spaces.
package fluentfile

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"

	"github.com/fluentkit/fluentfile/internal/strfmt"
	"github.com/fluentkit/fluentfile/syntax"
)

// File is an ordered collection of Fluent units.
// The unit order is the serialization order.
type File struct {
	// FileName is metadata only; it does not affect parsing.
	FileName string
	Units    []*Unit

	lang language.Tag
}

// Parse parses Fluent source into a File. Any invalid construct makes
// the whole parse fail with a *ParseError aggregating every problem;
// no partial File is returned.
func Parse(src []byte) (*File, error) {
	f := &File{}
	if err := f.parse(string(src)); err != nil {
		return nil, err
	}
	return f, nil
}

// Decode reads Fluent source from r and parses it.
func Decode(fileName string, r io.Reader) (*File, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading fluent source: %w", err)
	}
	f, err := Parse(src)
	if err != nil {
		return nil, err
	}
	f.FileName = fileName
	return f, nil
}

func (f *File) parse(src string) error {
	entries := syntax.Parse(src)

	var perr *ParseError
	for _, e := range entries {
		junk, ok := e.(*syntax.Junk)
		if !ok {
			continue
		}
		if perr == nil {
			perr = &ParseError{Snippet: junkSnippet(junk)}
		}
		for _, ann := range junk.Annotations {
			perr.Problems = append(perr.Problems, Problem{
				Code:   ann.Code,
				Detail: ann.Message,
				Line:   ann.Pos.Line,
				Column: ann.Pos.Column,
			})
		}
	}
	if perr != nil {
		return perr
	}

	for _, e := range entries {
		switch e := e.(type) {
		case *syntax.Message:
			u := &Unit{
				typ:    UnitMessage,
				id:     e.ID,
				Source: flattenEntrySource(e.Value, e.Attributes),
			}
			if e.Comment != nil {
				u.Comment = e.Comment.Content
			}
			f.Units = append(f.Units, u)
		case *syntax.Term:
			u := &Unit{
				typ:    UnitTerm,
				id:     "-" + e.ID,
				Source: flattenEntrySource(e.Value, e.Attributes),
			}
			if e.Comment != nil {
				u.Comment = e.Comment.Content
			}
			f.Units = append(f.Units, u)
		case *syntax.Comment:
			typ := UnitDetachedComment
			switch e.Level {
			case syntax.CommentGroup:
				typ = UnitGroupComment
			case syntax.CommentResource:
				typ = UnitResourceComment
			}
			f.Units = append(f.Units, &Unit{typ: typ, Source: e.Content})
		}
	}
	return nil
}

func junkSnippet(j *syntax.Junk) string {
	content := strings.TrimSpace(j.Content)
	if line, more := strfmt.FirstLine(content); more {
		return line + "…"
	}
	return content
}

// Serialize renders every unit into canonical Fluent source. It is all
// or nothing: the first unit whose source fails to re-parse aborts the
// serialization with a *SourceError and no bytes are returned.
//
// Message and term units with all-whitespace sources stay in the file
// but contribute zero bytes. Standalone comments are separated from
// preceding output by one blank line and followed by one; an attached
// unit comment is glued directly above its entry.
func (f *File) Serialize() ([]byte, error) {
	var b strings.Builder
	wrote := false

	for _, u := range f.Units {
		switch u.typ {
		case UnitMessage, UnitTerm:
			if strings.TrimSpace(u.Source) == "" {
				continue
			}
			entry, serr := reparseSource(u.id, u.Source)
			if serr != nil {
				return nil, serr
			}
			if u.Comment != "" {
				b.WriteString(syntax.SerializeComment(&syntax.Comment{
					Level:   syntax.CommentStandalone,
					Content: u.Comment,
				}))
				b.WriteString("\n")
			}
			b.WriteString(syntax.SerializeEntry(entry))
			b.WriteString("\n")
			wrote = true

		case UnitDetachedComment, UnitGroupComment, UnitResourceComment:
			if wrote {
				b.WriteString("\n")
			}
			level := syntax.CommentStandalone
			switch u.typ {
			case UnitGroupComment:
				level = syntax.CommentGroup
			case UnitResourceComment:
				level = syntax.CommentResource
			}
			b.WriteString(syntax.SerializeComment(&syntax.Comment{
				Level:   level,
				Content: u.Source,
			}))
			b.WriteString("\n\n")
			wrote = true
		}
	}
	return []byte(b.String()), nil
}

// Encode serializes the file into w. Nothing is written on error.
func (f *File) Encode(w io.Writer) error {
	out, err := f.Serialize()
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// AddUnit appends a unit to the file.
func (f *File) AddUnit(u *Unit) { f.Units = append(f.Units, u) }

// Unit returns the unit with the given id, nil when absent.
// Term ids carry their leading "-".
func (f *File) Unit(id string) *Unit {
	if id == "" {
		return nil
	}
	for _, u := range f.Units {
		if u.id == id {
			return u
		}
	}
	return nil
}

// Len returns the number of units, comment pseudo-units included.
func (f *File) Len() int { return len(f.Units) }

// SetLanguage sets the file language from a BCP 47 tag.
func (f *File) SetLanguage(tag string) error {
	t, err := language.Parse(tag)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrMalformedLanguage, tag, err)
	}
	f.lang = t
	return nil
}

// Language returns the file language; the zero Tag when unset.
func (f *File) Language() language.Tag { return f.lang }
