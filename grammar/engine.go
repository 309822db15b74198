// Package grammar implements a generic table-driven ASN.1 pushdown decoder:
// a finite set of states, a two-dimensional transition table indexed by
// (current state, peeked tag byte), and reducer actions that populate a
// caller-supplied object as the walk proceeds. It knows nothing about LDAP;
// the ldap package instantiates one Table for the LDAPMessage envelope
// grammar, and its Filter decoder uses a Container with an empty Table only
// for Push/Bump length bookkeeping.
//
// Because LDAP uses definite-length BER, a constructed TLV's value is, by
// construction, either fully present or the TLV itself could not have been
// read — so once the outermost LDAPMessage TLV has been read off the wire
// (the one place a decode can genuinely be short on bytes), every nested
// TLV inside it is guaranteed to be fully buffered. Run therefore operates
// on an already-complete byte region and reports malformed/protocol errors,
// not NeedMoreBytes; NeedMoreBytes is a ber.Cursor-level concept used only
// to find the boundary of that outermost TLV (see ldap.Decode).
package grammar

import (
	"github.com/go-ldapwire/ldapwire/ber"
)

// State is a dense integer enum naming one node of a grammar's transition
// table.
type State int

// Reducer is invoked when a transition is taken for tlv; it may mutate the
// Container's Message/Scratch fields and push child frames. Returning a
// non-nil error aborts the walk; Run propagates it unchanged.
type Reducer func(ctr *Container, tlv ber.TLV) error

// Transition names the state to move to and the reducer to run when a
// given tag is seen in a given state.
type Transition struct {
	Target State
	Reduce Reducer
}

// StateNode holds the 256-entry tag dispatch table for one state, plus
// whether the grammar may legally end while in this state.
type StateNode struct {
	ByTag      [256]*Transition
	EndAllowed bool
}

// Table is a complete grammar: every reachable state and its dispatch node.
type Table struct {
	States map[State]*StateNode
}

// NewTable returns an empty table; callers populate States directly (it is
// a plain map, built once at process init and shared read-only afterward).
func NewTable() *Table {
	return &Table{States: make(map[State]*StateNode)}
}

// On registers the transition taken from state on tag, creating the state
// node if it doesn't exist yet.
func (t *Table) On(state State, tag ber.Tag, target State, reduce Reducer) {
	node := t.node(state)
	node.ByTag[byte(tag)] = &Transition{Target: target, Reduce: reduce}
}

// AllowEnd marks state as a legal place for the grammar to terminate.
func (t *Table) AllowEnd(state State) {
	t.node(state).EndAllowed = true
}

func (t *Table) node(state State) *StateNode {
	node, ok := t.States[state]
	if !ok {
		node = &StateNode{}
		t.States[state] = node
	}
	return node
}

// Frame is one entry of the explicit parent-frame stack: the number of
// value bytes the frame's region is expected to span, how many have been
// consumed by children read so far, and an optional callback run exactly
// once when Consumed reaches Expected (spec §4.3.3's "unstack_filters").
type Frame struct {
	Expected int
	Consumed int
	Close    func(ctr *Container) error
	// Kind lets a grammar's reducers recognize what flavor of frame they
	// are popping without a type switch on Close itself (used by the LDAP
	// filter grammar to tell composite frames from terminal ones).
	Kind any
}

// Container threads through one Run call: the current state, the explicit
// frame stack, a reference to the message object under construction, and a
// free-form scratch map for values a reducer needs to hand to a later
// reducer (e.g. "the Substrings node currently being filled in").
type Container struct {
	Table   *Table
	State   State
	Stack   []*Frame
	Message any
	Scratch map[string]any
}

// NewContainer starts a walk in start state over message, with an empty
// scratch map and a single root frame spanning length bytes.
func NewContainer(table *Table, start State, message any, length int) *Container {
	ctr := &Container{
		Table:   table,
		State:   start,
		Message: message,
		Scratch: make(map[string]any),
	}
	ctr.Stack = []*Frame{{Expected: length}}
	return ctr
}

// Push opens a new child frame spanning length value-bytes, to be closed
// automatically once that many bytes have been consumed from it.
func (c *Container) Push(length int, kind any, onClose func(ctr *Container) error) {
	c.Stack = append(c.Stack, &Frame{Expected: length, Kind: kind, Close: onClose})
}

// Top returns the innermost open frame.
func (c *Container) Top() *Frame {
	return c.Stack[len(c.Stack)-1]
}

// Bump records that n value-bytes were just consumed from the innermost
// frame (and transitively from every ancestor, since a child's bytes are
// also its parent's bytes), closing and popping any frame whose Consumed
// reaches Expected. Run calls this automatically after every dispatched
// TLV; grammars that walk nested structure outside of Run's per-tag
// dispatch (the LDAP filter grammar recurses directly instead of going
// through a transition table) call it themselves — see ldap/filter.go.
func (c *Container) Bump(n int) error {
	for i := len(c.Stack) - 1; i >= 0; i-- {
		c.Stack[i].Consumed += n
	}
	for len(c.Stack) > 1 {
		top := c.Top()
		if top.Consumed < top.Expected {
			break
		}
		if top.Consumed > top.Expected {
			return &ProtocolError{Reason: "nested element overruns its parent's declared length"}
		}
		c.Stack = c.Stack[:len(c.Stack)-1]
		if top.Close != nil {
			if err := top.Close(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// Done reports whether the root frame has been fully consumed.
func (c *Container) Done() bool {
	return len(c.Stack) == 1 && c.Stack[0].Consumed >= c.Stack[0].Expected
}

// ProtocolError is a structural grammar violation: a missing required
// element, an unexpected tag for the current state, or a nested element
// whose length doesn't fit inside its parent's. The ldap package wraps
// this into its own *ldap.ProtocolError type at the boundary; the grammar
// engine itself stays LDAP-agnostic.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "grammar: " + e.Reason }

// Run walks data (a fully-buffered region — see the package doc) starting
// from ctr's current state, dispatching each child TLV through ctr.Table
// until the region is exhausted. It returns nil on a clean finish (ending
// in a state marked EndAllowed), or the error a reducer raised /
// ProtocolError for a structural violation.
func Run(ctr *Container, data []byte) error {
	cursor := ber.NewCursor(data)
	for cursor.Remaining() > 0 {
		tag, err := cursor.PeekTag()
		if err != nil {
			return &ProtocolError{Reason: "truncated element header"}
		}
		node := ctr.Table.States[ctr.State]
		if node == nil {
			return &ProtocolError{Reason: "no transitions defined for current state"}
		}
		trans := node.ByTag[byte(tag)]
		if trans == nil {
			return &ProtocolError{Reason: "unexpected tag for current state"}
		}
		tlv, err := cursor.ReadTLV()
		if err != nil {
			return &ProtocolError{Reason: "truncated element"}
		}
		if err := trans.Reduce(ctr, tlv); err != nil {
			return err
		}
		ctr.State = trans.Target
		if err := ctr.Bump(tlvTotalLen(tlv)); err != nil {
			return err
		}
	}
	node := ctr.Table.States[ctr.State]
	if node == nil || !node.EndAllowed {
		return &ProtocolError{Reason: "input ended in a non-terminal state"}
	}
	return nil
}

// tlvTotalLen returns the number of bytes a TLV occupied on the wire
// (header + value), which is what a parent frame's Expected/Consumed
// counters are measured in.
func tlvTotalLen(tlv ber.TLV) int {
	return 1 + ber.LengthSize(tlv.Length) + tlv.Length
}
