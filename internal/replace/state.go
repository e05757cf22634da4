// Package replace implements the client side of the replace protocol:
// the state machine that swaps a set of unspent wallet-held outputs for
// a set of freshly-derived outputs through a remote mint server,
// preserving the wallet-is-never-worse-off invariant. The state enum
// follows the same named "state TEXT" column convention an earlier
// trade-state table used, retargeted from a JSON-RPC envelope to the
// plain POST /api/v1/replace shape this protocol specifies.
package replace

// State is a stage of one Execute call.
//
//	IDLE -> VALIDATED -> SUBMITTED -> (NETWORK_ERR|HTTP_ERR|COMMITTED) -> IDLE
//
// NETWORK_ERR and HTTP_ERR are terminal with no durable state change;
// COMMITTED is the only path that mutates the ledger.
type State string

const (
	StateIdle       State = "idle"
	StateValidated  State = "validated"
	StateSubmitted  State = "submitted"
	StateNetworkErr State = "network_err"
	StateHTTPErr    State = "http_err"
	StateCommitted  State = "committed"
)
