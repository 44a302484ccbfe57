package bill

// Operation-specific error codes layered on top of the shared taxonomy
const (
	CodeInvalidDateRange = "INVALID_DATE_RANGE"
	CodeWrongHolder      = "WRONG_HOLDER"
	CodeSelfEndorsement  = "SELF_ENDORSEMENT"
	CodePartyNotActive   = "PARTY_NOT_ACTIVE"
)
