package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// AbandonRequest ::= [APPLICATION 16] MessageID
//
// A bare INTEGER at the PDU level — no SEQUENCE wrapper, no response. This
// is the exact shape of spec §8.3 scenario 1's worked example
// (30 06 02 01 03 50 01 02: messageID 3, AbandonRequest(2)).
type AbandonRequest struct {
	AbandonedMessageID int64
}

func (AbandonRequest) OpTag() ber.Tag { return TagAbandonRequest }

func (r AbandonRequest) encodeValue() []byte {
	return ber.EncodeIntegerValue(r.AbandonedMessageID)
}

func decodeAbandonRequest(data []byte) (AbandonRequest, error) {
	id, err := ber.GetInteger(data)
	if err != nil {
		return AbandonRequest{}, newProtocolError("invalid AbandonRequest messageID", err)
	}
	if id < 0 || id > ber.MaxInt {
		return AbandonRequest{}, newProtocolError("AbandonRequest messageID out of range", nil)
	}
	return AbandonRequest{AbandonedMessageID: id}, nil
}
