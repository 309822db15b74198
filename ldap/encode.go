package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// element is one node of the two-phase encoder's length cache: a
// not-yet-serialized TLV. A primitive element already holds its final
// content bytes in value (an INTEGER's two's-complement encoding, an OCTET
// STRING's raw bytes, ...); a constructed element holds its content as a
// list of child elements instead, and contentLen is filled in by
// computeLength rather than known up front.
type element struct {
	tag        ber.Tag
	value      []byte
	children   []element
	contentLen int
}

// primitiveElement wraps already-encoded content bytes as a leaf node.
func primitiveElement(tag ber.Tag, value []byte) element {
	return element{tag: tag, value: value, contentLen: len(value)}
}

// constructedElement builds a node whose content is the concatenation of
// its children's own TLVs (a SEQUENCE, SET, or constructed
// context-specific tag).
func constructedElement(tag ber.Tag, children ...element) element {
	return element{tag: tag, children: children}
}

// computeLength is phase 1: it walks e bottom-up, filling contentLen for
// every constructed node it passes through, without writing a single byte.
// Once it returns, e's full TLV size (and that of every descendant) is
// known, so phase 2 can allocate the exact buffer it needs up front instead
// of growing one through repeated append-driven reallocation.
func (e *element) computeLength() int {
	if e.children == nil {
		return e.contentLen
	}
	total := 0
	for i := range e.children {
		childLen := e.children[i].computeLength()
		total += 1 + ber.LengthSize(childLen) + childLen
	}
	e.contentLen = total
	return total
}

// size reports e's full TLV length (tag + length octets + content);
// meaningful only after computeLength has run.
func (e *element) size() int {
	return 1 + ber.LengthSize(e.contentLen) + e.contentLen
}

// serialize is phase 2: it appends e's tag, length, and content to dst,
// consuming the lengths computeLength already cached instead of
// re-measuring anything.
func (e *element) serialize(dst []byte) []byte {
	dst = ber.AppendHeader(dst, e.tag, e.contentLen)
	if e.children == nil {
		return append(dst, e.value...)
	}
	for i := range e.children {
		dst = e.children[i].serialize(dst)
	}
	return dst
}

// encodeElement runs both phases over root and returns the single
// allocated result buffer: phase 1 (computeLength) sizes the tree, phase 2
// (serialize) fills a buffer allocated to that exact size.
func encodeElement(root element) []byte {
	root.computeLength()
	out := make([]byte, 0, root.size())
	return root.serialize(out)
}

// serializeChildren runs both phases over a list of sibling elements that
// share no common wrapping tag of their own (an Attribute's type+values, a
// Control's fields, ...) and returns their concatenated TLV bytes -- for
// callers that build the content of a SEQUENCE their caller wraps, rather
// than a whole self-contained element.
func serializeChildren(children []element) []byte {
	total := 0
	for i := range children {
		children[i].computeLength()
		total += children[i].size()
	}
	out := make([]byte, 0, total)
	for i := range children {
		out = children[i].serialize(out)
	}
	return out
}
