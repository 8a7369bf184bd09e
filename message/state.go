// Package message holds the Hermes wire vocabulary: the tagged union of
// message variants (spec.md §3 "Message"), the lane/vertical state
// enumerations, and the notification/error code enumerations of spec.md
// §6.2. Every variant is treated as an opaque record of named fields, per
// spec.md §1's "generated XML schema data types are treated as opaque
// value records" — this package restates their field names from
// original_source/src/include/Connection/*.hpp, it does not invent them.
package message

// State enumerates the lane-role state machine of spec.md §3.
type State uint8

const (
	NotConnected State = iota
	SocketConnected
	ServiceDescriptionDownstream
	ServiceDescriptionUpstream
	NotAvailableNotReady
	BoardAvailableState
	MachineReadyState
	AvailableAndReady
	Transporting
	TransportStopped
	TransportFinishedState
	Disconnected
)

func (s State) String() string {
	switch s {
	case NotConnected:
		return "NOT_CONNECTED"
	case SocketConnected:
		return "SOCKET_CONNECTED"
	case ServiceDescriptionDownstream:
		return "SERVICE_DESCRIPTION_DOWNSTREAM"
	case ServiceDescriptionUpstream:
		return "SERVICE_DESCRIPTION_UPSTREAM"
	case NotAvailableNotReady:
		return "NOT_AVAILABLE_NOT_READY"
	case BoardAvailableState:
		return "BOARD_AVAILABLE"
	case MachineReadyState:
		return "MACHINE_READY"
	case AvailableAndReady:
		return "AVAILABLE_AND_READY"
	case Transporting:
		return "TRANSPORTING"
	case TransportStopped:
		return "TRANSPORT_STOPPED"
	case TransportFinishedState:
		return "TRANSPORT_FINISHED"
	case Disconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// VerticalState enumerates the vertical (supervisory/configuration) state
// machine of spec.md §4.3.3.
type VerticalState uint8

const (
	VerticalNotConnected VerticalState = iota
	VerticalSocketConnected
	VerticalServiceDescription
	VerticalConnected
	VerticalDisconnected
)

func (s VerticalState) String() string {
	switch s {
	case VerticalNotConnected:
		return "NOT_CONNECTED"
	case VerticalSocketConnected:
		return "SOCKET_CONNECTED"
	case VerticalServiceDescription:
		return "SERVICE_DESCRIPTION"
	case VerticalConnected:
		return "CONNECTED"
	case VerticalDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}
