package ldap

import "sync"

// ControlCodec decodes and encodes the controlValue OCTET STRING of a
// control with a specific OID into/from a typed Go value stored in
// Control.Decoded.
type ControlCodec interface {
	Decode(raw []byte, hasValue bool) (any, error)
	Encode(decoded any) []byte
}

// ExtendedCodec decodes and encodes the requestValue/responseValue OCTET
// STRINGs of an extended operation with a specific OID.
type ExtendedCodec interface {
	DecodeRequest(value []byte, hasValue bool) (any, error)
	EncodeRequest(decoded any) []byte
	DecodeResponse(value []byte, hasValue bool) (any, error)
	EncodeResponse(decoded any) []byte
}

var (
	registryMu      sync.RWMutex
	controlRegistry  = map[string]ControlCodec{}
	extendedRegistry = map[string]ExtendedCodec{}
)

// RegisterControl installs codec as the decoder/encoder for controls whose
// controlType equals oid. It may be called at any time (including from
// multiple goroutines at process startup); Decode/Encode only ever read the
// registry, matching the registry's read-mostly concurrency model.
func RegisterControl(oid string, codec ControlCodec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	controlRegistry[oid] = codec
}

// RegisterExtended installs codec for extended operations whose requestName
// (and responseName) equal oid.
func RegisterExtended(oid string, codec ExtendedCodec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	extendedRegistry[oid] = codec
}

func lookupControlCodec(oid string) (ControlCodec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := controlRegistry[oid]
	return c, ok
}

func lookupExtendedCodec(oid string) (ExtendedCodec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := extendedRegistry[oid]
	return c, ok
}

func init() {
	RegisterControl(string(OIDPagedResults), pagedResultsCodec{})
	RegisterControl(string(OIDServerSideSortRequest), sortRequestCodec{})
	RegisterControl(string(OIDServerSideSortResponse), sortResponseCodec{})
	RegisterControl(string(OIDVirtualListViewRequest), vlvRequestCodec{})
	RegisterControl(string(OIDVirtualListViewResponse), vlvResponseCodec{})
	RegisterControl(string(OIDManageDsaIT), manageDsaITCodec{})
	RegisterControl(string(OIDPasswordPolicyResponse), passwordPolicyResponseCodec{})
	RegisterExtended(string(OIDPasswordModify), passwordModifyCodec{})
}
