package message

import "encoding/xml"

// Kind identifies a message variant for dispatch (statemachine tables,
// codec.Dispatcher), replacing the C++ per-message virtual callback
// methods with a single sum type per Design Notes §9 "callbacks as
// sum-typed events".
type Kind uint8

const (
	KindUnknown Kind = iota
	KindServiceDescription
	KindMachineReady
	KindRevokeMachineReady
	KindStartTransport
	KindStopTransport
	KindTransportFinished
	KindBoardAvailable
	KindRevokeBoardAvailable
	KindBoardForecast
	KindQueryBoardInfo
	KindSendBoardInfo
	KindNotification
	KindCheckAlive
	KindCommand
	// Supervisory (vertical) variants.
	KindBoardArrived
	KindBoardDeparted
	KindQueryWorkOrderInfo
	KindReplyWorkOrderInfo
	KindSendWorkOrderInfo
	KindQueryHermesCapabilities
	KindSendHermesCapabilities
	KindSupervisoryServiceDescription
	// Configuration variants.
	KindGetConfiguration
	KindSetConfiguration
	KindCurrentConfiguration
)

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

var kindNames = map[Kind]string{
	KindServiceDescription:            "ServiceDescription",
	KindMachineReady:                   "MachineReady",
	KindRevokeMachineReady:             "RevokeMachineReady",
	KindStartTransport:                 "StartTransport",
	KindStopTransport:                  "StopTransport",
	KindTransportFinished:              "TransportFinished",
	KindBoardAvailable:                 "BoardAvailable",
	KindRevokeBoardAvailable:           "RevokeBoardAvailable",
	KindBoardForecast:                  "BoardForecast",
	KindQueryBoardInfo:                 "QueryBoardInfo",
	KindSendBoardInfo:                  "SendBoardInfo",
	KindNotification:                   "Notification",
	KindCheckAlive:                     "CheckAlive",
	KindCommand:                        "Command",
	KindBoardArrived:                   "BoardArrived",
	KindBoardDeparted:                  "BoardDeparted",
	KindQueryWorkOrderInfo:             "QueryWorkOrderInfo",
	KindReplyWorkOrderInfo:             "ReplyWorkOrderInfo",
	KindSendWorkOrderInfo:              "SendWorkOrderInfo",
	KindQueryHermesCapabilities:        "QueryHermesCapabilities",
	KindSendHermesCapabilities:         "SendHermesCapabilities",
	KindSupervisoryServiceDescription:  "SupervisoryServiceDescription",
	KindGetConfiguration:               "GetConfiguration",
	KindSetConfiguration:               "SetConfiguration",
	KindCurrentConfiguration:           "CurrentConfiguration",
}

// nameKinds is the reverse lookup used by the XML reader when the next
// top-level element name is discovered.
var nameKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, v := range kindNames {
		m[v] = k
	}
	return m
}()

// KindByName resolves an XML element name to its Kind, or KindUnknown +
// false if the name is not part of the Hermes vocabulary (spec.md §4.2:
// unknown top-level names produce a PROTOCOL_ERROR notification).
func KindByName(name string) (Kind, bool) {
	k, ok := nameKinds[name]
	return k, ok
}

// NewByKind returns a freshly zeroed pointer to the concrete *Data type for
// k, ready to be passed to xml.Decoder.DecodeElement. The codec reader uses
// this to materialize the right Go type before it has parsed a single
// attribute, once it has resolved the element name via KindByName.
func NewByKind(k Kind) Message {
	switch k {
	case KindServiceDescription:
		return &ServiceDescriptionData{}
	case KindMachineReady:
		return &MachineReadyData{}
	case KindRevokeMachineReady:
		return &RevokeMachineReadyData{}
	case KindStartTransport:
		return &StartTransportData{}
	case KindStopTransport:
		return &StopTransportData{}
	case KindTransportFinished:
		return &TransportFinishedData{}
	case KindBoardAvailable:
		return &BoardAvailableData{}
	case KindRevokeBoardAvailable:
		return &RevokeBoardAvailableData{}
	case KindBoardForecast:
		return &BoardForecastData{}
	case KindQueryBoardInfo:
		return &QueryBoardInfoData{}
	case KindSendBoardInfo:
		return &SendBoardInfoData{}
	case KindNotification:
		return &NotificationData{}
	case KindCheckAlive:
		return &CheckAliveData{}
	case KindCommand:
		return &CommandData{}
	case KindBoardArrived:
		return &BoardArrivedData{}
	case KindBoardDeparted:
		return &BoardDepartedData{}
	case KindQueryWorkOrderInfo:
		return &QueryWorkOrderInfoData{}
	case KindReplyWorkOrderInfo:
		return &ReplyWorkOrderInfoData{}
	case KindSendWorkOrderInfo:
		return &SendWorkOrderInfoData{}
	case KindQueryHermesCapabilities:
		return &QueryHermesCapabilitiesData{}
	case KindSendHermesCapabilities:
		return &SendHermesCapabilitiesData{}
	case KindSupervisoryServiceDescription:
		return &SupervisoryServiceDescriptionData{}
	case KindGetConfiguration:
		return &GetConfigurationData{}
	case KindSetConfiguration:
		return &SetConfigurationData{}
	case KindCurrentConfiguration:
		return &CurrentConfigurationData{}
	default:
		return nil
	}
}

// Unwrap returns the concrete *Data value stripped of its pointer, since
// DecodeElement requires a pointer but callers generally want the Message
// interface holding the dereferenced value to match what a Writer.Encode
// caller would have constructed by hand.
func Unwrap(m Message) Message {
	switch v := m.(type) {
	case *ServiceDescriptionData:
		return *v
	case *MachineReadyData:
		return *v
	case *RevokeMachineReadyData:
		return *v
	case *StartTransportData:
		return *v
	case *StopTransportData:
		return *v
	case *TransportFinishedData:
		return *v
	case *BoardAvailableData:
		return *v
	case *RevokeBoardAvailableData:
		return *v
	case *BoardForecastData:
		return *v
	case *QueryBoardInfoData:
		return *v
	case *SendBoardInfoData:
		return *v
	case *NotificationData:
		return *v
	case *CheckAliveData:
		return *v
	case *CommandData:
		return *v
	case *BoardArrivedData:
		return *v
	case *BoardDepartedData:
		return *v
	case *QueryWorkOrderInfoData:
		return *v
	case *ReplyWorkOrderInfoData:
		return *v
	case *SendWorkOrderInfoData:
		return *v
	case *QueryHermesCapabilitiesData:
		return *v
	case *SendHermesCapabilitiesData:
		return *v
	case *SupervisoryServiceDescriptionData:
		return *v
	case *GetConfigurationData:
		return *v
	case *SetConfigurationData:
		return *v
	case *CurrentConfigurationData:
		return *v
	default:
		return m
	}
}

// Message is implemented by every concrete *Data struct below.
type Message interface {
	Kind() Kind
}

// SupportedFeaturesData advertises optional protocol features, carried
// inside ServiceDescriptionData.
type SupportedFeaturesData struct {
	BoardTracking                        bool `xml:"BoardTracking,attr,omitempty"`
	QueryBoardInfo                        bool `xml:"QueryBoardInfo,attr,omitempty"`
	SendsStartTransportWithoutBoardRefs bool `xml:"SendsStartTransportWithoutBoardRefs,attr,omitempty"`
}

type ServiceDescriptionData struct {
	XMLName            xml.Name              `xml:"ServiceDescription"`
	Version            string                `xml:"Version,attr"`
	AgentName          string                `xml:"AgentName,attr,omitempty"`
	LaneId             *uint32               `xml:"LaneId,attr,omitempty"`
	SupportedFeatures  SupportedFeaturesData `xml:"SupportedFeatures"`
}

func (ServiceDescriptionData) Kind() Kind { return KindServiceDescription }

type MachineReadyData struct {
	XMLName     xml.Name `xml:"MachineReady"`
	BoardId     string   `xml:"BoardId,attr,omitempty"`
	FailedBoard bool     `xml:"FailedBoard,attr,omitempty"`
}

func (MachineReadyData) Kind() Kind { return KindMachineReady }

type RevokeMachineReadyData struct {
	XMLName xml.Name `xml:"RevokeMachineReady"`
}

func (RevokeMachineReadyData) Kind() Kind { return KindRevokeMachineReady }

type StartTransportData struct {
	XMLName xml.Name `xml:"StartTransport"`
	BoardId string   `xml:"BoardId,attr"`
}

func (StartTransportData) Kind() Kind { return KindStartTransport }

type StopTransportData struct {
	XMLName        xml.Name       `xml:"StopTransport"`
	BoardId        string         `xml:"BoardId,attr"`
	TransportState TransportState `xml:"TransportState,attr"`
}

func (StopTransportData) Kind() Kind { return KindStopTransport }

type TransportFinishedData struct {
	XMLName        xml.Name       `xml:"TransportFinished"`
	BoardId        string         `xml:"BoardId,attr"`
	TransportState TransportState `xml:"TransportState,attr"`
}

func (TransportFinishedData) Kind() Kind { return KindTransportFinished }

type BoardAvailableData struct {
	XMLName         xml.Name `xml:"BoardAvailable"`
	BoardId         string   `xml:"BoardId,attr"`
	BoardIdCreatedBy string  `xml:"BoardIdCreatedBy,attr,omitempty"`
	FailedBoard     bool     `xml:"FailedBoard,attr,omitempty"`
}

func (BoardAvailableData) Kind() Kind { return KindBoardAvailable }

type RevokeBoardAvailableData struct {
	XMLName xml.Name `xml:"RevokeBoardAvailable"`
	BoardId string   `xml:"BoardId,attr"`
}

func (RevokeBoardAvailableData) Kind() Kind { return KindRevokeBoardAvailable }

type BoardForecastEntry struct {
	BoardId  string `xml:"BoardId,attr"`
	TimeUntilAvailable float64 `xml:"TimeUntilAvailable,attr,omitempty"`
}

type BoardForecastData struct {
	XMLName xml.Name             `xml:"BoardForecast"`
	Boards  []BoardForecastEntry `xml:"Board"`
}

func (BoardForecastData) Kind() Kind { return KindBoardForecast }

type QueryBoardInfoData struct {
	XMLName xml.Name `xml:"QueryBoardInfo"`
	BoardId string   `xml:"BoardId,attr"`
}

func (QueryBoardInfoData) Kind() Kind { return KindQueryBoardInfo }

type SendBoardInfoData struct {
	XMLName xml.Name `xml:"SendBoardInfo"`
	BoardId string   `xml:"BoardId,attr"`
	Product string   `xml:"Product,attr,omitempty"`
}

func (SendBoardInfoData) Kind() Kind { return KindSendBoardInfo }

type NotificationData struct {
	XMLName     xml.Name         `xml:"Notification"`
	Code        NotificationCode `xml:"NotificationCode,attr"`
	Severity    Severity         `xml:"Severity,attr"`
	Description string           `xml:"Description,attr,omitempty"`
}

func (NotificationData) Kind() Kind { return KindNotification }

type CheckAliveData struct {
	XMLName xml.Name        `xml:"CheckAlive"`
	Type    *CheckAliveType `xml:"Type,attr,omitempty"`
	Id      string          `xml:"Id,attr,omitempty"`
}

func (CheckAliveData) Kind() Kind { return KindCheckAlive }

type CommandData struct {
	XMLName    xml.Name `xml:"Command"`
	Code       string   `xml:"Code,attr"`
	Parameters []string `xml:"Parameter"`
}

func (CommandData) Kind() Kind { return KindCommand }

// --- Supervisory (vertical) variants ---

type BoardArrivedData struct {
	XMLName  xml.Name `xml:"BoardArrived"`
	BoardId  string   `xml:"BoardId,attr"`
	LaneId   uint32   `xml:"LaneId,attr"`
}

func (BoardArrivedData) Kind() Kind { return KindBoardArrived }

type BoardDepartedData struct {
	XMLName xml.Name `xml:"BoardDeparted"`
	BoardId string   `xml:"BoardId,attr"`
	LaneId  uint32   `xml:"LaneId,attr"`
}

func (BoardDepartedData) Kind() Kind { return KindBoardDeparted }

type QueryWorkOrderInfoData struct {
	XMLName xml.Name `xml:"QueryWorkOrderInfo"`
}

func (QueryWorkOrderInfoData) Kind() Kind { return KindQueryWorkOrderInfo }

type ReplyWorkOrderInfoData struct {
	XMLName     xml.Name `xml:"ReplyWorkOrderInfo"`
	WorkOrderId string   `xml:"WorkOrderId,attr"`
}

func (ReplyWorkOrderInfoData) Kind() Kind { return KindReplyWorkOrderInfo }

type SendWorkOrderInfoData struct {
	XMLName     xml.Name `xml:"SendWorkOrderInfo"`
	WorkOrderId string   `xml:"WorkOrderId,attr"`
}

func (SendWorkOrderInfoData) Kind() Kind { return KindSendWorkOrderInfo }

type QueryHermesCapabilitiesData struct {
	XMLName xml.Name `xml:"QueryHermesCapabilities"`
}

func (QueryHermesCapabilitiesData) Kind() Kind { return KindQueryHermesCapabilities }

type SendHermesCapabilitiesData struct {
	XMLName       xml.Name `xml:"SendHermesCapabilities"`
	SupportedMajorVersions []uint32 `xml:"SupportedMajorVersion"`
}

func (SendHermesCapabilitiesData) Kind() Kind { return KindSendHermesCapabilities }

type SupervisoryServiceDescriptionData struct {
	XMLName           xml.Name              `xml:"SupervisoryServiceDescription"`
	Version           string                `xml:"Version,attr"`
	SupportedFeatures SupportedFeaturesData `xml:"SupportedFeatures"`
}

func (SupervisoryServiceDescriptionData) Kind() Kind { return KindSupervisoryServiceDescription }

// --- Configuration variants ---

type GetConfigurationData struct {
	XMLName xml.Name `xml:"GetConfiguration"`
}

func (GetConfigurationData) Kind() Kind { return KindGetConfiguration }

// SetConfigurationData carries whichever role's NetworkConfiguration the
// embedder accepts to set; this core treats it as an opaque key/value bag
// rendered as <Setting Name="..." Value="..."/> child elements (see
// configuration_xml.go), per spec.md §1's "opaque value records".
type SetConfigurationData struct {
	XMLName  xml.Name          `xml:"SetConfiguration"`
	Settings map[string]string `xml:"-"`
}

func (SetConfigurationData) Kind() Kind { return KindSetConfiguration }

type CurrentConfigurationData struct {
	XMLName  xml.Name          `xml:"CurrentConfiguration"`
	Settings map[string]string `xml:"-"`
}

func (CurrentConfigurationData) Kind() Kind { return KindCurrentConfiguration }
