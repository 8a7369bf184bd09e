package statemachine

import "github.com/EuroplacerUk/hermes-sdk/message"

// DownstreamTable implements spec.md §4.3.1: the state machine running
// on a station's downstream-facing connection. This role sends boards
// onward (it originates BoardAvailable/RevokeBoardAvailable/
// TransportFinished/BoardForecast/SendBoardInfo) and receives the
// neighbour's readiness and transport-control messages.
//
// session.go drives the ServiceDescriptionDownstream state as soon as the
// local ServiceDescription has been sent; the row below is keyed on that
// state rather than SocketConnected for exactly that reason.
func DownstreamTable() *Table[message.State] {
	return &Table[message.State]{
		Originates: map[message.Kind]bool{
			message.KindBoardAvailable:       true,
			message.KindRevokeBoardAvailable: true,
			message.KindTransportFinished:    true,
			message.KindBoardForecast:        true,
			message.KindSendBoardInfo:        true,
			message.KindNotification:         true,
			message.KindCheckAlive:           true,
			message.KindCommand:              true,
		},
		Incoming: map[message.State]map[message.Kind]Transition[message.State]{
			message.ServiceDescriptionDownstream: {
				message.KindServiceDescription:   {Next: message.NotAvailableNotReady, Action: Accept},
				message.KindMachineReady:         {Action: ProtocolErr},
				message.KindRevokeMachineReady:    {Action: Ignore},
				message.KindStartTransport:        {Action: ProtocolErr},
				message.KindStopTransport:         {Action: ProtocolErr},
				message.KindTransportFinished:     {Action: ProtocolErr},
			},
			message.NotAvailableNotReady: {
				message.KindServiceDescription:   {Action: ProtocolErr},
				message.KindMachineReady:         {Next: message.MachineReadyState, Action: Accept},
				message.KindRevokeMachineReady:    {Action: Ignore},
				message.KindStartTransport:        {Action: ProtocolErr},
				message.KindStopTransport:         {Action: ProtocolErr},
				message.KindTransportFinished:     {Action: ProtocolErr},
				message.KindQueryBoardInfo:        {Action: Stay},
			},
			message.MachineReadyState: {
				message.KindServiceDescription:   {Action: ProtocolErr},
				message.KindMachineReady:         {Action: Ignore},
				message.KindRevokeMachineReady:    {Next: message.NotAvailableNotReady, Action: Accept},
				message.KindStartTransport:        {Action: ProtocolErr},
				message.KindStopTransport:         {Action: ProtocolErr},
				message.KindTransportFinished:     {Action: ProtocolErr},
				message.KindQueryBoardInfo:        {Action: Stay},
			},
			message.BoardAvailableState: {
				message.KindServiceDescription:   {Action: ProtocolErr},
				message.KindMachineReady:         {Next: message.AvailableAndReady, Action: Accept},
				message.KindRevokeMachineReady:    {Action: Ignore},
				message.KindStartTransport:        {Action: ProtocolErr},
				message.KindStopTransport:         {Action: ProtocolErr},
				message.KindTransportFinished:     {Action: ProtocolErr},
				message.KindQueryBoardInfo:        {Action: Stay},
			},
			message.AvailableAndReady: {
				message.KindServiceDescription:   {Action: ProtocolErr},
				message.KindMachineReady:         {Next: message.AvailableAndReady, Action: Stay},
				message.KindRevokeMachineReady:    {Next: message.BoardAvailableState, Action: Accept},
				message.KindStartTransport:        {Next: message.Transporting, Action: Accept},
				message.KindStopTransport:         {Next: message.TransportStopped, Action: Accept},
				message.KindTransportFinished:     {Action: ProtocolErr},
				message.KindQueryBoardInfo:        {Action: Stay},
			},
			message.Transporting: {
				message.KindServiceDescription:   {Action: ProtocolErr},
				message.KindMachineReady:         {Action: ProtocolErr},
				message.KindRevokeMachineReady:    {Action: ProtocolErr},
				message.KindStartTransport:        {Action: ProtocolErr},
				message.KindStopTransport:         {Next: message.TransportStopped, Action: Accept},
				message.KindTransportFinished:     {Next: message.TransportFinishedState, Action: Accept},
			},
			message.TransportStopped: {
				message.KindTransportFinished: {Next: message.TransportFinishedState, Action: Accept},
			},
			// TRANSPORT_FINISHED has no incoming entries: the cycle
			// restarts only when the application Signals a fresh
			// BoardAvailable, an outgoing-triggered transition that
			// Outgoing (below) applies.
		},
		Outgoing: map[message.State]map[message.Kind]Transition[message.State]{
			message.NotAvailableNotReady: {
				message.KindBoardAvailable: {Next: message.BoardAvailableState, Action: Accept},
			},
			message.MachineReadyState: {
				message.KindBoardAvailable: {Next: message.AvailableAndReady, Action: Accept},
			},
			message.BoardAvailableState: {
				message.KindRevokeBoardAvailable: {Next: message.NotAvailableNotReady, Action: Accept},
			},
			message.AvailableAndReady: {
				message.KindRevokeBoardAvailable: {Next: message.MachineReadyState, Action: Accept},
			},
			message.Transporting: {
				message.KindTransportFinished: {Next: message.TransportFinishedState, Action: Accept},
			},
			message.TransportStopped: {
				message.KindTransportFinished: {Next: message.TransportFinishedState, Action: Accept},
			},
		},
	}
}
