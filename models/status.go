package models

// OrderStatus represents the lifecycle state of an order. The string value
// is what gets stored in the database and serialized over the wire.
//
// State transitions:
//
//	pending ──> confirmed ──> shipping ──> delivered ──> complete
//	   │
//	   └──> cancelled
//
// complete, cancelled and return_requested are final states.
// return_requested is only ever set out-of-band (storefront return flow);
// the admin workflow reads it but never produces it.
type OrderStatus string

const (
	StatusPending         OrderStatus = "pending"
	StatusConfirmed       OrderStatus = "confirmed"
	StatusShipping        OrderStatus = "shipping"
	StatusDelivered       OrderStatus = "delivered"
	StatusComplete        OrderStatus = "complete"
	StatusCancelled       OrderStatus = "cancelled"
	StatusReturnRequested OrderStatus = "return_requested"
)

// AllStatuses lists every valid order status
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusShipping,
	StatusDelivered,
	StatusComplete,
	StatusCancelled,
	StatusReturnRequested,
}

// MonitoringStatuses are the in-flight statuses grouped under the admin
// console's "Monitoring" tab. The bucket is a union over these statuses,
// not a sum, so an order is never counted twice.
var MonitoringStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusShipping,
}

// StatusAction is a valid transition out of a status, carrying the label
// the admin console renders for the contextual control.
type StatusAction struct {
	Target OrderStatus `json:"target"`
	Label  string      `json:"label"`
}

// statusTransitions is the adjacency table of the order workflow.
// A transition not listed here is invalid; statuses mapping to an empty
// slice are final. Status changes must go through this table; no other
// code path may set an order's status directly.
var statusTransitions = map[OrderStatus][]StatusAction{
	StatusPending: {
		{Target: StatusConfirmed, Label: "Confirm Order"},
		{Target: StatusCancelled, Label: "Reject Order"},
	},
	StatusConfirmed: {
		{Target: StatusShipping, Label: "Start Shipping"},
	},
	StatusShipping: {
		{Target: StatusDelivered, Label: "Mark as Delivered"},
	},
	StatusDelivered: {
		{Target: StatusComplete, Label: "Mark Complete"},
	},
	StatusComplete:        {},
	StatusCancelled:       {},
	StatusReturnRequested: {},
}

// Valid reports whether s is one of the known order statuses
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// String implements fmt.Stringer
func (s OrderStatus) String() string {
	return string(s)
}

// Actions returns the transitions allowed from s, each with its console
// label. The result is derived from the adjacency table and never stored.
// Unknown statuses have no actions.
func (s OrderStatus) Actions() []StatusAction {
	edges := statusTransitions[s]
	out := make([]StatusAction, len(edges))
	copy(out, edges)
	return out
}

// CanTransitionTo reports whether the workflow allows moving from s to target
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, action := range statusTransitions[s] {
		if action.Target == target {
			return true
		}
	}
	return false
}

// Terminal reports whether s is a final state with no outgoing transitions
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(statusTransitions[s]) == 0
}
