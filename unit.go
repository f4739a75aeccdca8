package fluentfile

import (
	"fmt"
	"regexp"

	"github.com/cespare/xxhash"
)

// UnitType discriminates the entry kinds a File can hold.
type UnitType uint8

const (
	UnitMessage UnitType = iota + 1
	UnitTerm
	UnitResourceComment // ###
	UnitGroupComment    // ##
	UnitDetachedComment // #
)

func (t UnitType) String() string {
	switch t {
	case UnitMessage:
		return "Message"
	case UnitTerm:
		return "Term"
	case UnitResourceComment:
		return "ResourceComment"
	case UnitGroupComment:
		return "GroupComment"
	case UnitDetachedComment:
		return "DetachedComment"
	}
	return fmt.Sprintf("UnitType(%d)", uint8(t))
}

var (
	messageIDRegexp = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	termIDRegexp    = regexp.MustCompile(`^-[a-zA-Z][a-zA-Z0-9_-]*$`)
)

// ValidateID checks id against the identifier rules of the unit type.
// Message ids are plain identifiers; term ids carry a leading "-".
// Dots never appear in ids, attribute access belongs to the value
// syntax instead.
func ValidateID(typ UnitType, id string) error {
	if typ == UnitTerm {
		if !termIDRegexp.MatchString(id) {
			return fmt.Errorf("%w: term id %q must match %v",
				ErrInvalidID, id, termIDRegexp)
		}
		return nil
	}
	if !messageIDRegexp.MatchString(id) {
		return fmt.Errorf("%w: message id %q must match %v",
			ErrInvalidID, id, messageIDRegexp)
	}
	return nil
}

// Unit is a single Fluent entry held by a File.
//
// Source is the unit's text in flattened form and is free to mutate:
// for messages and terms the value lines carry no indentation and are
// followed by one ".attr = value" block per attribute; for comment
// pseudo-units it is the comment text without markers. Mutated sources
// are re-parsed lazily when the file serializes.
type Unit struct {
	Source string
	// Comment is the "#" comment text attached above a message or
	// term, without markers.
	Comment string

	typ UnitType
	id  string

	refHash uint64
	refs    []string
	refsOK  bool
}

// NewUnit creates a message or term unit.
func NewUnit(typ UnitType, id, source string) (*Unit, error) {
	switch typ {
	case UnitMessage, UnitTerm:
	default:
		return nil, fmt.Errorf("unit type %v does not take an id", typ)
	}
	if err := ValidateID(typ, id); err != nil {
		return nil, err
	}
	return &Unit{typ: typ, id: id, Source: source}, nil
}

// NewCommentUnit creates a standalone comment pseudo-unit.
// content holds the comment lines without markers.
func NewCommentUnit(typ UnitType, content string) (*Unit, error) {
	switch typ {
	case UnitResourceComment, UnitGroupComment, UnitDetachedComment:
	default:
		return nil, fmt.Errorf("unit type %v is not a comment type", typ)
	}
	return &Unit{typ: typ, Source: content}, nil
}

func (u *Unit) Type() UnitType { return u.typ }

// ID returns the unit id; term ids carry their leading "-".
// Comment pseudo-units have no id.
func (u *Unit) ID() string { return u.id }

// SetID renames the unit. On failure the unit keeps its previous id.
func (u *Unit) SetID(id string) error {
	if err := ValidateID(u.typ, id); err != nil {
		return err
	}
	u.id = id
	return nil
}

// IsTranslatable reports whether the unit carries translatable text.
func (u *Unit) IsTranslatable() bool {
	return u.typ == UnitMessage || u.typ == UnitTerm
}

// IsHeader reports whether the unit is a comment pseudo-unit; those
// carry file metadata rather than translatable text.
func (u *Unit) IsHeader() bool { return !u.IsTranslatable() }

// Target returns the unit text. Fluent stores are monolingual, the
// target is the source.
func (u *Unit) Target() string { return u.Source }

// Notes returns the attached comment text.
func (u *Unit) Notes() string { return u.Comment }

// Placeholders returns the references of the unit's current source:
// "$var" variables (messages only), "-term" term references and
// "id"/"id.attr" message references, deduplicated and sorted. It
// returns nil for comment pseudo-units and for sources that do not
// parse. The result is cached against a content hash of Source and
// recomputed only after a mutation.
func (u *Unit) Placeholders() []string {
	if !u.IsTranslatable() {
		return nil
	}
	h := xxhash.Sum64String(u.Source)
	if u.refsOK && h == u.refHash {
		return u.refs
	}
	u.refHash, u.refsOK = h, true
	u.refs = nil
	if entry, err := reparseSource(u.id, u.Source); err == nil {
		u.refs = collectRefs(entry)
	}
	return u.refs
}
