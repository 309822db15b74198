package ldap

import (
	"github.com/go-ldapwire/ldapwire/ber"
	"github.com/go-ldapwire/ldapwire/grammar"
)

// Message is a decoded LDAPMessage:
//
//	LDAPMessage ::= SEQUENCE {
//	     messageID       MessageID,
//	     protocolOp      CHOICE { ... },
//	     controls       [0] Controls OPTIONAL }
//
// spec invariant: ID is non-zero for every op except an unsolicited
// notification (an ExtendedResponse with no matching request), which is
// the one case RFC 4511 §4.4.1 allows messageID 0.
type Message struct {
	ID       int64
	Op       ProtocolOp
	Controls []Control
}

// envelope states for the top-level LDAPMessage grammar table.
const (
	envStateID grammar.State = iota
	envStateOp
	envStateControlsOrEnd
)

var envelopeTable = buildEnvelopeTable()

// decodeState is the mutable object the envelope's reducers populate;
// Decode unwraps it into a *Message once the walk finishes.
type decodeState struct {
	msg Message
}

func buildEnvelopeTable() *grammar.Table {
	t := grammar.NewTable()
	t.On(envStateID, ber.TagInteger, envStateOp, func(ctr *grammar.Container, tlv ber.TLV) error {
		id, err := ber.GetInteger(tlv.Value)
		if err != nil {
			return newProtocolError("invalid messageID", err)
		}
		if id < 0 || id > ber.MaxInt {
			return newProtocolError("messageID out of range", nil)
		}
		ctr.Message.(*decodeState).msg.ID = id
		return nil
	})
	registerOpTransition(t, TagBindRequest, func(value []byte, id int64) (ProtocolOp, error) { return decodeBindRequest(value, id) })
	registerOpTransition(t, TagBindResponse, func(value []byte, _ int64) (ProtocolOp, error) { return decodeBindResponse(value) })
	registerOpTransition(t, TagUnbindRequest, func(value []byte, _ int64) (ProtocolOp, error) { return decodeUnbindRequest(value) })
	registerOpTransition(t, TagSearchRequest, func(value []byte, _ int64) (ProtocolOp, error) { return decodeSearchRequest(value) })
	registerOpTransition(t, TagSearchResultEntry, func(value []byte, _ int64) (ProtocolOp, error) { return decodeSearchResultEntry(value) })
	registerOpTransition(t, TagSearchResultDone, func(value []byte, _ int64) (ProtocolOp, error) { return decodeSearchResultDone(value) })
	registerOpTransition(t, TagSearchResultReference, func(value []byte, _ int64) (ProtocolOp, error) { return decodeSearchResultReference(value) })
	registerOpTransition(t, TagModifyRequest, func(value []byte, _ int64) (ProtocolOp, error) { return decodeModifyRequest(value) })
	registerOpTransition(t, TagModifyResponse, func(value []byte, _ int64) (ProtocolOp, error) { return decodeModifyResponse(value) })
	registerOpTransition(t, TagAddRequest, func(value []byte, id int64) (ProtocolOp, error) { return decodeAddRequest(value, id) })
	registerOpTransition(t, TagAddResponse, func(value []byte, _ int64) (ProtocolOp, error) { return decodeAddResponse(value) })
	registerOpTransition(t, TagDeleteRequest, func(value []byte, id int64) (ProtocolOp, error) { return decodeDeleteRequest(value, id) })
	registerOpTransition(t, TagDeleteResponse, func(value []byte, _ int64) (ProtocolOp, error) { return decodeDeleteResponse(value) })
	registerOpTransition(t, TagModifyDNRequest, func(value []byte, id int64) (ProtocolOp, error) { return decodeModifyDNRequest(value, id) })
	registerOpTransition(t, TagModifyDNResponse, func(value []byte, _ int64) (ProtocolOp, error) { return decodeModifyDNResponse(value) })
	registerOpTransition(t, TagCompareRequest, func(value []byte, _ int64) (ProtocolOp, error) { return decodeCompareRequest(value) })
	registerOpTransition(t, TagCompareResponse, func(value []byte, _ int64) (ProtocolOp, error) { return decodeCompareResponse(value) })
	registerOpTransition(t, TagAbandonRequest, func(value []byte, _ int64) (ProtocolOp, error) { return decodeAbandonRequest(value) })
	registerOpTransition(t, TagExtendedRequest, func(value []byte, id int64) (ProtocolOp, error) { return decodeExtendedRequest(value, id) })
	registerOpTransition(t, TagExtendedResponse, func(value []byte, _ int64) (ProtocolOp, error) { return decodeExtendedResponse(value) })
	registerOpTransition(t, TagIntermediateResponse, func(value []byte, _ int64) (ProtocolOp, error) { return decodeIntermediateResponse(value) })

	t.On(envStateControlsOrEnd, ber.ContextSpecific(0, true), envStateControlsOrEnd, func(ctr *grammar.Container, tlv ber.TLV) error {
		controls, err := decodeControls(tlv.Value)
		if err != nil {
			return err
		}
		ctr.Message.(*decodeState).msg.Controls = controls
		return nil
	})
	t.AllowEnd(envStateControlsOrEnd)
	return t
}

// registerOpTransition wires a single protocolOp CHOICE alternative into
// the envelope table. decode receives the already-populated messageID
// (envStateID's reducer always runs first in the same walk) so that ops
// needing to reject with a ResponseCarryingError — Bind, ModifyDN, Add,
// Delete, Extended — can stamp the right MessageID on it.
func registerOpTransition(t *grammar.Table, tag ber.Tag, decode func(value []byte, messageID int64) (ProtocolOp, error)) {
	t.On(envStateOp, tag, envStateControlsOrEnd, func(ctr *grammar.Container, tlv ber.TLV) error {
		state := ctr.Message.(*decodeState)
		op, err := decode(tlv.Value, state.msg.ID)
		if err != nil {
			return err
		}
		state.msg.Op = op
		return nil
	})
}

// DecodeOutcome is the closed result of a Decode call: exactly one of
// Message, NeedMoreBytes, Protocol, or Response is populated.
type DecodeOutcome struct {
	Message       *Message
	NeedMoreBytes bool
	Protocol      *ProtocolError
	Response      *ResponseCarryingError
}

// Decode reads exactly one LDAPMessage from the front of buf. If buf does
// not yet contain a complete outer TLV, it returns NeedMoreBytes — the one
// place a decode can genuinely be short on bytes, since everything nested
// inside the outer SEQUENCE is, by definite-length BER, guaranteed fully
// present once that SEQUENCE itself is fully read (see the grammar
// package's doc comment).
func Decode(buf []byte) DecodeOutcome {
	cursor := ber.NewCursor(buf)
	tlv, err := cursor.ReadTLV()
	if err == ber.ErrNeedMoreBytes {
		return DecodeOutcome{NeedMoreBytes: true}
	}
	if err != nil {
		return DecodeOutcome{Protocol: newProtocolError("truncated or malformed LDAPMessage", err)}
	}
	if tlv.Tag != ber.TagSequence {
		return DecodeOutcome{Protocol: newProtocolError("LDAPMessage must be a SEQUENCE", nil)}
	}
	state := &decodeState{}
	ctr := grammar.NewContainer(envelopeTable, envStateID, state, len(tlv.Value))
	if err := grammar.Run(ctr, tlv.Value); err != nil {
		if pe, ok := err.(*grammar.ProtocolError); ok {
			return DecodeOutcome{Protocol: newProtocolError(pe.Reason, nil)}
		}
		if rce, ok := err.(*ResponseCarryingError); ok {
			return DecodeOutcome{Response: rce}
		}
		if pe, ok := err.(*ProtocolError); ok {
			return DecodeOutcome{Protocol: pe}
		}
		return DecodeOutcome{Protocol: newProtocolError("decode failed", err)}
	}
	if state.msg.ID == 0 {
		if _, ok := state.msg.Op.(ExtendedResponse); !ok {
			return DecodeOutcome{Protocol: newProtocolError(
				"messageID 0 is reserved for an unsolicited ExtendedResponse notification", nil)}
		}
	}
	return DecodeOutcome{Message: &state.msg}
}

// Consumed returns how many leading bytes of the buffer passed to Decode
// were part of the decoded message — callers driving a byte stream (one
// TCP connection, many messages) use this to advance their read offset.
func Consumed(buf []byte) (int, error) {
	tlv, err := ber.NewCursor(buf).ReadTLV()
	if err != nil {
		return 0, err
	}
	return 1 + ber.LengthSize(tlv.Length) + tlv.Length, nil
}

// Encode serializes msg into a single contiguous LDAPMessage buffer using a
// two-phase encode: phase 1 (computeLength) walks the messageID, protocolOp,
// and Controls elements bottom-up to fill a length cache with no side
// effects beyond that; phase 2 (serialize) allocates one buffer sized to
// the cached root length and writes tag+length prefixes in the same
// traversal order, consuming the cached child lengths instead of
// re-measuring anything or letting append grow the buffer through
// reallocation.
func Encode(msg *Message) ([]byte, error) {
	root := constructedElement(ber.TagSequence,
		primitiveElement(ber.TagInteger, ber.EncodeIntegerValue(msg.ID)),
		primitiveElement(msg.Op.OpTag(), msg.Op.encodeValue()),
	)
	if len(msg.Controls) > 0 {
		root.children = append(root.children,
			primitiveElement(ber.ContextSpecific(0, true), encodeControls(msg.Controls)))
	}
	root.computeLength()
	want := root.size()
	out := root.serialize(make([]byte, 0, want))
	if len(out) != want {
		return nil, &InternalEncoderError{Reason: "phase-2 serialization produced a different length than phase 1 computed"}
	}
	return out, nil
}
