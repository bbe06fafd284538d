package routing

// Phase is the trigger lifecycle stage an operation or message applies to.
// Codes mirror the monitoring API wire protocol.
type Phase string

const (
	PhaseProblem  Phase = "0"
	PhaseRecovery Phase = "1"
	PhaseUpdate   Phase = "2"
)

// Phases lists all lifecycle phases in expansion order.
var Phases = []Phase{PhaseProblem, PhaseUpdate, PhaseRecovery}

// Label returns the human-readable phase name.
func (p Phase) Label() string {
	switch p {
	case PhaseProblem:
		return "problem"
	case PhaseRecovery:
		return "recovery"
	case PhaseUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// OperationKind distinguishes plain send-message operations from the
// synthetic notify-all-involved kinds.
type OperationKind string

const (
	OpSendMessage   OperationKind = "0"
	OpNotifyAll     OperationKind = "11"
	OpNotifyAllOnce OperationKind = "12"
)

// IsNotifyAll reports whether the operation re-sends configured message
// operations from related phases instead of naming its own recipients.
func (k OperationKind) IsNotifyAll() bool {
	return k == OpNotifyAll || k == OpNotifyAllOnce
}

// WildcardMediaTypeID targets every active media type.
const WildcardMediaTypeID = "0"

// Operation is one step of an action for a lifecycle phase.
type Operation struct {
	ID          string
	Kind        OperationKind
	EscPeriod   string
	EscStepFrom int
	EscStepTo   int
	Message     OpMessage
	UserIDs     []string
	GroupIDs    []string
}

// OpMessage is the message payload of a send-message operation.
type OpMessage struct {
	MediaTypeID string
	Subject     string
	Body        string
	// UseDefault selects the media type's template over the operation's own
	// subject and body when a matching template exists.
	UseDefault bool
}

// ExpandOperations turns one phase's operation list of a selected action into
// concrete messages. Notify-all-involved operations are replaced by synthetic
// send-message operations borrowing recipients and media targets from the
// problem and update lists; wildcard media targets fan out into one message
// per active media type.
func ExpandOperations(action Action, phase Phase, mediaTypes []MediaType) []Message {
	ops := expandNotifyAll(action, phase)

	var messages []Message
	for _, op := range ops {
		if op.Kind != OpSendMessage {
			continue
		}
		if op.Message.MediaTypeID == WildcardMediaTypeID {
			for _, mt := range mediaTypes {
				pinned := op
				pinned.Message.MediaTypeID = mt.ID
				messages = append(messages, NewMessage(phase, action, pinned, []MediaType{mt}))
			}
			continue
		}
		messages = append(messages, NewMessage(phase, action, op, mediaTypes))
	}
	return messages
}

// expandNotifyAll rewrites the phase's operation list with every notify-all
// operation replaced by clones of the send-message operations found in the
// other configured lists. Only the problem and update lists are ever
// borrowed from: recovery draws on both, while problem and update only draw
// on each other.
func expandNotifyAll(action Action, phase Phase) []Operation {
	source := action.OperationsFor(phase)
	ops := make([]Operation, 0, len(source))
	var synthetic []Operation

	for _, op := range source {
		if !op.Kind.IsNotifyAll() {
			ops = append(ops, op)
			continue
		}
		for _, borrowed := range borrowPhases(phase) {
			for _, donor := range action.OperationsFor(borrowed) {
				if donor.Kind != OpSendMessage {
					continue
				}
				clone := op
				clone.Kind = OpSendMessage
				clone.UserIDs = donor.UserIDs
				clone.GroupIDs = donor.GroupIDs
				clone.Message.MediaTypeID = donor.Message.MediaTypeID
				synthetic = append(synthetic, clone)
			}
		}
	}
	return append(ops, synthetic...)
}

func borrowPhases(current Phase) []Phase {
	candidates := []Phase{PhaseProblem, PhaseUpdate}
	borrowed := make([]Phase, 0, len(candidates))
	for _, p := range candidates {
		if p != current {
			borrowed = append(borrowed, p)
		}
	}
	return borrowed
}
