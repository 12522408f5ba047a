package aerr

// EIP-1193 / EIP-1474 numeric codes the provider bridge sends to the
// page. Only a subset of host codes map onto these; anything else
// collapses to errInternal so internal details never leak verbatim.
const (
	eip1193UserRejected      = 4001
	eip1193Unauthorized      = 4100
	eip1193UnsupportedMethod = 4200
	eip1193Disconnected      = 4900
	eip1193RateLimitExceeded = 4902
	eip1193OriginMismatch    = 4903
	eip1193RequestExpired    = 4904
	eip1193DuplicateRequest  = 4905
	eip1193InvalidParams     = -32602
	eip1193Internal          = -32603
)

var hostCodeToEIP1193 = map[string]int{
	CodeUserRejected:      eip1193UserRejected,
	CodeUnauthorized:      eip1193Unauthorized,
	CodeWalletLocked:      eip1193Unauthorized,
	CodeNoActiveAccount:   eip1193Unauthorized,
	CodeUnsupportedMethod: eip1193UnsupportedMethod,
	CodeDisconnected:      eip1193Disconnected,
	CodeRateLimitExceeded: eip1193RateLimitExceeded,
	CodeOriginMismatch:    eip1193OriginMismatch,
	CodeRequestExpired:    eip1193RequestExpired,
	CodeDuplicateRequest:  eip1193DuplicateRequest,
	CodeInvalidParams:     eip1193InvalidParams,
	CodeInvalidAddress:    eip1193InvalidParams,
	CodeInvalidAmount:     eip1193InvalidParams,
	CodeInvalidNetwork:    eip1193InvalidParams,
}

// EIP1193Code maps a host-side error to the numeric code the injected
// provider script expects on its rejected Promise. Errors with no entry
// in the table (anything the page shouldn't learn the internals of)
// map to the generic -32603 Internal code.
func EIP1193Code(err error) int {
	code := Code(err)
	if n, ok := hostCodeToEIP1193[code]; ok {
		return n
	}
	return eip1193Internal
}

// EIP1193Message returns the message to send to the page alongside
// EIP1193Code. Mapped errors send only their Message, without attached
// details or cause. Internal-only errors (anything not in the mapping
// table) are flattened to a generic message so causes, stack-adjacent
// details, and internal codes never reach the page.
func EIP1193Message(err error) string {
	var ae *AurumError
	if As(err, &ae) {
		if _, ok := hostCodeToEIP1193[ae.Code]; ok {
			return ae.Message
		}
	}
	return "internal error"
}
