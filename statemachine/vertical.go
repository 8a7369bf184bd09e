package statemachine

import "github.com/EuroplacerUk/hermes-sdk/message"

// VerticalTable implements spec.md §4.3.3: the state machine shared by
// vertical-client, vertical-service and configuration-service roles.
// A SupervisoryServiceDescription is required as the first message
// each way; once CONNECTED, every supervisory/configuration message
// kind is permitted in both directions.
func VerticalTable() *Table[message.VerticalState] {
	connected := map[message.Kind]Transition[message.VerticalState]{
		message.KindBoardArrived:                   {Next: message.VerticalConnected, Action: Stay},
		message.KindBoardDeparted:                   {Next: message.VerticalConnected, Action: Stay},
		message.KindQueryWorkOrderInfo:              {Next: message.VerticalConnected, Action: Stay},
		message.KindReplyWorkOrderInfo:               {Next: message.VerticalConnected, Action: Stay},
		message.KindSendWorkOrderInfo:                {Next: message.VerticalConnected, Action: Stay},
		message.KindQueryHermesCapabilities:          {Next: message.VerticalConnected, Action: Stay},
		message.KindSendHermesCapabilities:           {Next: message.VerticalConnected, Action: Stay},
		message.KindGetConfiguration:                 {Next: message.VerticalConnected, Action: Stay},
		message.KindSetConfiguration:                 {Next: message.VerticalConnected, Action: Stay},
		message.KindCurrentConfiguration:             {Next: message.VerticalConnected, Action: Stay},
		message.KindNotification:                     {Next: message.VerticalConnected, Action: Stay},
		message.KindCheckAlive:                       {Next: message.VerticalConnected, Action: Stay},
		message.KindCommand:                          {Next: message.VerticalConnected, Action: Stay},
		message.KindSupervisoryServiceDescription:    {Action: ProtocolErr},
	}

	return &Table[message.VerticalState]{
		Originates: map[message.Kind]bool{
			message.KindSupervisoryServiceDescription: true,
			message.KindBoardArrived:                  true,
			message.KindBoardDeparted:                 true,
			message.KindQueryWorkOrderInfo:             true,
			message.KindReplyWorkOrderInfo:             true,
			message.KindSendWorkOrderInfo:               true,
			message.KindQueryHermesCapabilities:         true,
			message.KindSendHermesCapabilities:          true,
			message.KindGetConfiguration:                true,
			message.KindSetConfiguration:                true,
			message.KindCurrentConfiguration:            true,
			message.KindNotification:                    true,
			message.KindCheckAlive:                      true,
			message.KindCommand:                         true,
		},
		Incoming: map[message.VerticalState]map[message.Kind]Transition[message.VerticalState]{
			// session.VerticalSession moves SocketConnected -> ServiceDescription as
			// soon as the local SupervisoryServiceDescription has been
			// sent; this row then waits for the peer's.
			message.VerticalServiceDescription: {
				message.KindSupervisoryServiceDescription: {Next: message.VerticalConnected, Action: Accept},
			},
			message.VerticalConnected: connected,
		},
	}
}
