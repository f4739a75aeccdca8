package syntax

// cursor is a byte cursor over Fluent source with line/column tracking.
type cursor struct {
	src  string
	i    int
	line int
	col  int
}

func newCursor(src string) cursor {
	return cursor{src: src, line: 1, col: 1}
}

func (c *cursor) eof() bool { return c.i >= len(c.src) }

func (c *cursor) peek() byte { return c.at(0) }

// at returns the byte n positions ahead of the cursor, 0 past the end.
func (c *cursor) at(n int) byte {
	if c.i+n >= len(c.src) {
		return 0
	}
	return c.src[c.i+n]
}

func (c *cursor) pos() Position {
	return Position{Index: c.i, Line: c.line, Column: c.col}
}

func (c *cursor) advance(n int) {
	for ; n > 0 && c.i < len(c.src); n-- {
		if c.src[c.i] == '\n' {
			c.line++
			c.col = 1
		} else {
			c.col++
		}
		c.i++
	}
}

// peekBlankInlineAt counts the spaces starting at the given lookahead
// offset.
func (p *parser) peekBlankInlineAt(offset int) int {
	n := 0
	for p.cur.at(offset+n) == ' ' {
		n++
	}
	return n
}

func (p *parser) skipBlankInline() int {
	n := p.peekBlankInlineAt(0)
	p.cur.advance(n)
	return n
}

// peekBlankBlock measures a run of blank lines ahead of the cursor.
// A blank line is any number of spaces followed by a line break; the
// measurement stops before the first line holding other content. It
// returns the number of line breaks and the total byte length.
func (p *parser) peekBlankBlock() (eols, length int) {
	for {
		n := p.peekBlankInlineAt(length)
		if p.cur.at(length+n) != '\n' {
			return eols, length
		}
		length += n + 1
		eols++
	}
}

func (p *parser) skipBlankBlock() int {
	eols, length := p.peekBlankBlock()
	p.cur.advance(length)
	return eols
}

// peekBlankAt counts spaces and line breaks starting at the given
// lookahead offset.
func (p *parser) peekBlankAt(offset int) int {
	n := 0
	for {
		b := p.cur.at(offset + n)
		if b != ' ' && b != '\n' {
			return n
		}
		n++
	}
}

func (p *parser) skipBlank() {
	p.cur.advance(p.peekBlankAt(0))
}
