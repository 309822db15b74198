package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// Application-class tags for every protocolOp CHOICE alternative (RFC 4511
// §4.2–§4.14). Each is constructed (bit 0x20 set) except UnbindRequest,
// which RFC 4511 defines as a primitive null-valued PDU, AbandonRequest,
// which is a primitive INTEGER, and DeleteRequest, which is a primitive
// LDAPDN.
var (
	TagBindRequest            = ber.Application(0, true)
	TagBindResponse           = ber.Application(1, true)
	TagUnbindRequest          = ber.Application(2, false)
	TagSearchRequest          = ber.Application(3, true)
	TagSearchResultEntry      = ber.Application(4, true)
	TagSearchResultDone       = ber.Application(5, true)
	TagModifyRequest          = ber.Application(6, true)
	TagModifyResponse         = ber.Application(7, true)
	TagAddRequest             = ber.Application(8, true)
	TagAddResponse            = ber.Application(9, true)
	TagDeleteRequest          = ber.Application(10, false)
	TagDeleteResponse         = ber.Application(11, true)
	TagModifyDNRequest        = ber.Application(12, true)
	TagModifyDNResponse       = ber.Application(13, true)
	TagCompareRequest         = ber.Application(14, true)
	TagCompareResponse        = ber.Application(15, true)
	TagAbandonRequest         = ber.Application(16, false)
	TagSearchResultReference  = ber.Application(19, true)
	TagExtendedRequest        = ber.Application(23, true)
	TagExtendedResponse       = ber.Application(24, true)
	TagIntermediateResponse   = ber.Application(25, true)
)

// ProtocolOp is implemented by every concrete operation/response type; OpTag
// identifies which application-class CHOICE alternative it encodes as, and
// encodeValue returns its SEQUENCE (or bare-value, for Unbind/Abandon/
// Delete) content bytes without the outer application tag/length header.
type ProtocolOp interface {
	OpTag() ber.Tag
	encodeValue() []byte
}
