package ldap

import "github.com/go-ldapwire/ldapwire/ber"

// ResultCode is the ENUMERATED resultCode field carried by every LDAPResult.
type ResultCode int64

// Defined result codes (RFC 4511 §4.1.9 / IANA LDAP Result Code Registry).
const (
	ResultSuccess                        ResultCode = 0
	ResultOperationsError                ResultCode = 1
	ResultProtocolError                  ResultCode = 2
	ResultTimeLimitExceeded              ResultCode = 3
	ResultSizeLimitExceeded              ResultCode = 4
	ResultCompareFalse                   ResultCode = 5
	ResultCompareTrue                    ResultCode = 6
	ResultAuthMethodNotSupported         ResultCode = 7
	ResultStrongerAuthRequired           ResultCode = 8
	ResultReferral                       ResultCode = 10
	ResultAdminLimitExceeded             ResultCode = 11
	ResultUnavailableCriticalExtension   ResultCode = 12
	ResultConfidentialityRequired        ResultCode = 13
	ResultSaslBindInProgress             ResultCode = 14
	ResultNoSuchAttribute                ResultCode = 16
	ResultUndefinedAttributeType         ResultCode = 17
	ResultInappropriateMatching          ResultCode = 18
	ResultConstraintViolation            ResultCode = 19
	ResultAttributeOrValueExists         ResultCode = 20
	ResultInvalidAttributeSyntax         ResultCode = 21
	ResultNoSuchObject                   ResultCode = 32
	ResultAliasProblem                   ResultCode = 33
	ResultInvalidDNSyntax                ResultCode = 34
	ResultAliasDereferencingProblem      ResultCode = 36
	ResultInappropriateAuthentication    ResultCode = 48
	ResultInvalidCredentials             ResultCode = 49
	ResultInsufficientAccessRights       ResultCode = 50
	ResultBusy                           ResultCode = 51
	ResultUnavailable                    ResultCode = 52
	ResultUnwillingToPerform             ResultCode = 53
	ResultLoopDetect                     ResultCode = 54
	ResultNamingViolation                ResultCode = 64
	ResultObjectClassViolation           ResultCode = 65
	ResultNotAllowedOnNonLeaf            ResultCode = 66
	ResultNotAllowedOnRDN                ResultCode = 67
	ResultEntryAlreadyExists             ResultCode = 68
	ResultObjectClassModsProhibited      ResultCode = 69
	ResultAffectsMultipleDSAs            ResultCode = 71
	ResultOther                          ResultCode = 80
)

// Result is the LDAPResult structure shared by every response op:
//
//	LDAPResult ::= SEQUENCE {
//	     resultCode         ENUMERATED { ... },
//	     matchedDN          LDAPDN,
//	     diagnosticMessage  LDAPString,
//	     referral           [3] Referral OPTIONAL }
//
// spec §3 invariant: a present Referral is never an empty sequence — an
// empty [3] tag is a ProtocolError, not a zero-length slice.
type Result struct {
	Code              ResultCode
	MatchedDN         string
	DiagnosticMessage string
	Referral          []string
}

// decodeResult parses the LDAPResult prefix shared by every response op
// from its already-split child TLVs (resultCode, matchedDN,
// diagnosticMessage, and an optional referral make up the first 3 or 4
// elements of the enclosing SEQUENCE).
func decodeResult(children []ber.TLV) (Result, []ber.TLV, error) {
	if len(children) < 3 {
		return Result{}, nil, newProtocolError("LDAPResult requires at least 3 elements", nil)
	}
	if children[0].Tag != ber.TagEnumerated {
		return Result{}, nil, newProtocolError("LDAPResult resultCode must be ENUMERATED", nil)
	}
	code, err := ber.GetEnumerated(children[0].Value)
	if err != nil {
		return Result{}, nil, newProtocolError("invalid resultCode", err)
	}
	if children[1].Tag != ber.TagOctetString {
		return Result{}, nil, newProtocolError("LDAPResult matchedDN must be an OCTET STRING", nil)
	}
	matchedDN := ber.GetOctetString(children[1].Value)
	if children[2].Tag != ber.TagOctetString {
		return Result{}, nil, newProtocolError("LDAPResult diagnosticMessage must be an OCTET STRING", nil)
	}
	diag := ber.GetOctetString(children[2].Value)
	rest := children[3:]
	result := Result{Code: ResultCode(code), MatchedDN: matchedDN, DiagnosticMessage: diag}
	if len(rest) > 0 && rest[0].Tag == ber.ContextSpecific(3, true) {
		refChildren, err := ber.GetSequenceElements(rest[0].Value)
		if err != nil {
			return Result{}, nil, newProtocolError("malformed referral", err)
		}
		if len(refChildren) == 0 {
			return Result{}, nil, newProtocolError("referral sequence must not be empty", nil)
		}
		for _, rc := range refChildren {
			result.Referral = append(result.Referral, ber.GetOctetString(rc.Value))
		}
		rest = rest[1:]
	}
	return result, rest, nil
}

// encode returns the LDAPResult value bytes: resultCode, matchedDN,
// diagnosticMessage, and — when present — the [3] referral SEQUENCE.
// matchedDN has any leading whitespace trimmed before encoding, matching
// legacy client expectations (the one DN field this codec trims).
func (r Result) encode() []byte {
	out := ber.EncodeEnumerated(int64(r.Code))
	out = append(out, ber.EncodeOctetString(trimLeadingSpace(r.MatchedDN))...)
	out = append(out, ber.EncodeOctetString(r.DiagnosticMessage)...)
	if len(r.Referral) > 0 {
		var refBytes []byte
		for _, ref := range r.Referral {
			refBytes = append(refBytes, ber.EncodeOctetString(ref)...)
		}
		out = append(out, ber.AppendElement(nil, ber.ContextSpecific(3, true), refBytes)...)
	}
	return out
}

func trimLeadingSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

// AsResult builds a minimal success-or-failure Result carrying only a
// diagnostic message, the common case for a generated error response.
func (code ResultCode) AsResult(diagnosticMessage string) Result {
	return Result{Code: code, DiagnosticMessage: diagnosticMessage}
}
