package grammar_test

import (
	"testing"

	"github.com/go-ldapwire/ldapwire/ber"
	"github.com/go-ldapwire/ldapwire/grammar"
)

// Builds a tiny two-state grammar for SEQUENCE { a INTEGER, b SEQUENCE OF
// INTEGER } to exercise frame push/close without pulling in the full LDAP
// grammar.
type testMessage struct {
	a  int64
	bs []int64
}

const (
	stateA grammar.State = iota
	stateB
	stateEnd
)

func buildTestTable() *grammar.Table {
	table := grammar.NewTable()
	table.On(stateA, ber.TagInteger, stateB, func(ctr *grammar.Container, tlv ber.TLV) error {
		n, err := ber.GetInteger(tlv.Value)
		if err != nil {
			return err
		}
		ctr.Message.(*testMessage).a = n
		return nil
	})
	table.On(stateB, ber.TagSequence, stateEnd, func(ctr *grammar.Container, tlv ber.TLV) error {
		children, err := ber.GetSequenceElements(tlv.Value)
		if err != nil {
			return err
		}
		msg := ctr.Message.(*testMessage)
		for _, c := range children {
			n, err := ber.GetInteger(c.Value)
			if err != nil {
				return err
			}
			msg.bs = append(msg.bs, n)
		}
		return nil
	})
	table.AllowEnd(stateEnd)
	return table
}

func TestEngineRunsSimpleGrammar(t *testing.T) {
	table := buildTestTable()
	// a=5, b=[1,2,3]
	inner := append(ber.EncodeInteger(1), append(ber.EncodeInteger(2), ber.EncodeInteger(3)...)...)
	data := append(ber.EncodeInteger(5), ber.EncodeSequence(inner)...)

	msg := &testMessage{}
	ctr := grammar.NewContainer(table, stateA, msg, len(data))
	if err := grammar.Run(ctr, data); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if msg.a != 5 {
		t.Fatalf("a = %d, want 5", msg.a)
	}
	if len(msg.bs) != 3 || msg.bs[0] != 1 || msg.bs[1] != 2 || msg.bs[2] != 3 {
		t.Fatalf("bs = %v, want [1 2 3]", msg.bs)
	}
	if !ctr.Done() {
		t.Fatal("expected container to report Done")
	}
}

func TestEngineRejectsUnexpectedTag(t *testing.T) {
	table := buildTestTable()
	data := ber.EncodeOctetString("nope")
	msg := &testMessage{}
	ctr := grammar.NewContainer(table, stateA, msg, len(data))
	err := grammar.Run(ctr, data)
	if err == nil {
		t.Fatal("expected an error for unexpected tag")
	}
	if _, ok := err.(*grammar.ProtocolError); !ok {
		t.Fatalf("expected *grammar.ProtocolError, got %T: %v", err, err)
	}
}

func TestEngineRejectsPrematureEnd(t *testing.T) {
	table := buildTestTable()
	data := ber.EncodeInteger(5) // missing the SEQUENCE OF INTEGER
	msg := &testMessage{}
	ctr := grammar.NewContainer(table, stateA, msg, len(data))
	if err := grammar.Run(ctr, data); err == nil {
		t.Fatal("expected an error for premature end")
	}
}

func TestFrameCloseCallbackFiresWhenConsumedReachesExpected(t *testing.T) {
	// Exercises Push/Bump/Close directly, the way the LDAP filter grammar
	// folds a composite filter's children into it one at a time rather
	// than through the top-level Run loop (see ldap/filter.go).
	ctr := grammar.NewContainer(grammar.NewTable(), stateA, &testMessage{}, 10)
	var closed bool
	ctr.Push(5, "inner", func(ctr *grammar.Container) error {
		closed = true
		return nil
	})
	if closed {
		t.Fatal("frame closed before being fully consumed")
	}
	if err := ctr.Bump(3); err != nil {
		t.Fatalf("Bump: %v", err)
	}
	if closed {
		t.Fatal("frame closed early")
	}
	if err := ctr.Bump(2); err != nil {
		t.Fatalf("Bump: %v", err)
	}
	if !closed {
		t.Fatal("expected frame to close once Consumed reached Expected")
	}
}

func TestBumpRejectsOverrun(t *testing.T) {
	ctr := grammar.NewContainer(grammar.NewTable(), stateA, &testMessage{}, 10)
	ctr.Push(5, nil, nil)
	if err := ctr.Bump(6); err == nil {
		t.Fatal("expected an error when a child overruns its parent's declared length")
	}
}
