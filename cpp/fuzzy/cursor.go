package fuzzy

import (
	"github.com/gangfan/clang-highlight/cpp/token"
)

// cursor is a filtered forward cursor over an annotated token buffer. It
// hides comment and unknown tokens and goes exhausted at end-of-file.
// Speculative recognizers snapshot it with guard and either dismiss on
// success or let the deferred exit rewind it.
type cursor struct {
	buf   []AnnotatedToken
	first int
	last  int
}

func newCursor(buf []AnnotatedToken) *cursor {
	c := &cursor{buf: buf, first: 0, last: len(buf)}
	for c.first != c.last && ignoredKind(c.buf[c.first].Tok.Kind) {
		c.first++
	}
	if c.first == c.last || c.buf[c.first].Tok.Kind == token.EOF {
		c.first, c.last = -1, -1
	}
	return c
}

func ignoredKind(k token.Kind) bool {
	return k == token.Unknown || k == token.Comment || k == token.LineComment
}

// peek returns the current token without advancing, or nil when the cursor
// is exhausted.
func (c *cursor) peek() *AnnotatedToken {
	if c.first < 0 {
		return nil
	}
	return &c.buf[c.first]
}

// next returns the current token and advances past any following comment or
// unknown tokens. Advancing onto end-of-file exhausts the cursor.
func (c *cursor) next() *AnnotatedToken {
	if c.first < 0 {
		return nil
	}
	ret := &c.buf[c.first]
	c.first++
	for c.first != c.last && ignoredKind(c.buf[c.first].Tok.Kind) {
		c.first++
	}
	if c.first == c.last || c.buf[c.first].Tok.Kind == token.EOF {
		c.first, c.last = -1, -1
	}
	return ret
}

type checkpoint struct {
	first int
	last  int
}

func (c *cursor) mark() checkpoint {
	return checkpoint{first: c.first, last: c.last}
}

func (c *cursor) rewind(cp checkpoint) {
	c.first, c.last = cp.first, cp.last
}

// cursorGuard rewinds the cursor on exit unless dismissed. The usual shape
// is:
//
//	g := cur.guard()
//	defer g.exit()
//	...
//	g.dismiss()
type cursorGuard struct {
	cur *cursor
	cp  checkpoint
}

func (c *cursor) guard() *cursorGuard {
	return &cursorGuard{cur: c, cp: c.mark()}
}

func (g *cursorGuard) exit() {
	if g.cur != nil {
		g.cur.rewind(g.cp)
	}
}

func (g *cursorGuard) dismiss() {
	g.cur = nil
}
