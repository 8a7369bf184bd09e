package statemachine

import "github.com/EuroplacerUk/hermes-sdk/message"

// UpstreamTable implements spec.md §4.3.2: the mirror of DownstreamTable
// running on a station's upstream-facing connection. This role
// originates the readiness and transport-control messages
// (MachineReady/RevokeMachineReady/StartTransport/StopTransport/
// TransportFinished/QueryBoardInfo) and receives the neighbour's board
// signals.
func UpstreamTable() *Table[message.State] {
	return &Table[message.State]{
		Originates: map[message.Kind]bool{
			message.KindMachineReady:       true,
			message.KindRevokeMachineReady: true,
			message.KindStartTransport:     true,
			message.KindStopTransport:      true,
			message.KindTransportFinished:  true,
			message.KindQueryBoardInfo:     true,
			message.KindNotification:       true,
			message.KindCheckAlive:         true,
			message.KindCommand:            true,
		},
		Incoming: map[message.State]map[message.Kind]Transition[message.State]{
			message.ServiceDescriptionUpstream: {
				message.KindServiceDescription:   {Next: message.NotAvailableNotReady, Action: Accept},
				message.KindBoardAvailable:       {Action: ProtocolErr},
				message.KindRevokeBoardAvailable: {Action: Ignore},
				message.KindTransportFinished:    {Action: ProtocolErr},
			},
			message.NotAvailableNotReady: {
				message.KindServiceDescription:   {Action: ProtocolErr},
				message.KindBoardAvailable:       {Next: message.BoardAvailableState, Action: Accept},
				message.KindRevokeBoardAvailable: {Action: Ignore},
				message.KindTransportFinished:    {Action: ProtocolErr},
				message.KindSendBoardInfo:        {Action: Stay},
				message.KindBoardForecast:        {Action: Stay},
			},
			message.BoardAvailableState: {
				message.KindServiceDescription:   {Action: ProtocolErr},
				message.KindBoardAvailable:       {Action: Ignore},
				message.KindRevokeBoardAvailable: {Next: message.NotAvailableNotReady, Action: Accept},
				message.KindTransportFinished:    {Action: ProtocolErr},
				message.KindSendBoardInfo:        {Action: Stay},
				message.KindBoardForecast:        {Action: Stay},
			},
			message.MachineReadyState: {
				message.KindServiceDescription:   {Action: ProtocolErr},
				message.KindBoardAvailable:       {Next: message.AvailableAndReady, Action: Accept},
				message.KindRevokeBoardAvailable: {Action: Ignore},
				message.KindTransportFinished:    {Action: ProtocolErr},
				message.KindSendBoardInfo:        {Action: Stay},
				message.KindBoardForecast:        {Action: Stay},
			},
			message.AvailableAndReady: {
				message.KindServiceDescription:   {Action: ProtocolErr},
				message.KindBoardAvailable:       {Next: message.AvailableAndReady, Action: Stay},
				message.KindRevokeBoardAvailable: {Next: message.MachineReadyState, Action: Accept},
				message.KindTransportFinished:    {Action: ProtocolErr},
				message.KindSendBoardInfo:        {Action: Stay},
				message.KindBoardForecast:        {Action: Stay},
			},
			message.Transporting: {
				message.KindServiceDescription:   {Action: ProtocolErr},
				message.KindBoardAvailable:       {Action: ProtocolErr},
				message.KindRevokeBoardAvailable: {Action: ProtocolErr},
				message.KindTransportFinished:    {Next: message.TransportFinishedState, Action: Accept},
			},
			message.TransportStopped: {
				message.KindTransportFinished: {Next: message.TransportFinishedState, Action: Accept},
			},
			// TRANSPORT_FINISHED has no incoming entries: as in
			// DownstreamTable, the next cycle begins when the
			// application Signals a fresh MachineReady.
		},
		Outgoing: map[message.State]map[message.Kind]Transition[message.State]{
			message.NotAvailableNotReady: {
				message.KindMachineReady: {Next: message.MachineReadyState, Action: Accept},
			},
			message.BoardAvailableState: {
				message.KindMachineReady: {Next: message.AvailableAndReady, Action: Accept},
			},
			message.MachineReadyState: {
				message.KindRevokeMachineReady: {Next: message.NotAvailableNotReady, Action: Accept},
			},
			message.AvailableAndReady: {
				message.KindRevokeMachineReady: {Next: message.BoardAvailableState, Action: Accept},
				message.KindStartTransport:     {Next: message.Transporting, Action: Accept},
				message.KindStopTransport:      {Next: message.TransportStopped, Action: Accept},
			},
			message.Transporting: {
				message.KindStopTransport:     {Next: message.TransportStopped, Action: Accept},
				message.KindTransportFinished: {Next: message.TransportFinishedState, Action: Accept},
			},
			message.TransportStopped: {
				message.KindTransportFinished: {Next: message.TransportFinishedState, Action: Accept},
			},
		},
	}
}
