package orders

import (
	"encoding/json"
	"errors"
	"log"
	"os"
)

// StatusPending is the entry state of every order and transaction. The rest
// of the status vocabulary is deployment-configured, not hard-coded: the
// workflow labels differ per marketplace and the engine only validates edges.
const StatusPending = "Pending"

const PaymentStatusCOD = "CASH ON DELIVERY"

var ErrBadTransition = errors.New("illegal status transition")

// StatusFlow is the legal-transition table for order statuses. With no edges
// configured the flow is open: any non-empty status may follow any other,
// matching the historical free-text behavior. Configuring edges (via the
// ORDER_STATUS_FLOW env var, JSON {"edges":{"Pending":["Accepted", ...]}})
// turns on strict validation.
type StatusFlow struct {
	Edges map[string][]string `json:"edges"`
}

// DefaultFlow loads the transition table from the environment, or returns the
// open flow when none is configured.
func DefaultFlow() *StatusFlow {
	raw := os.Getenv("ORDER_STATUS_FLOW")
	if raw == "" {
		return &StatusFlow{}
	}

	var flow StatusFlow
	if err := json.Unmarshal([]byte(raw), &flow); err != nil {
		log.Printf("ORDER_STATUS_FLOW invalid, falling back to open flow: %v", err)
		return &StatusFlow{}
	}
	return &flow
}

// CanTransition reports whether from -> to is a legal edge.
func (f *StatusFlow) CanTransition(from, to string) bool {
	if to == "" {
		return false
	}
	if len(f.Edges) == 0 {
		return true
	}
	for _, next := range f.Edges[from] {
		if next == to {
			return true
		}
	}
	return false
}
