package message

// NotificationCode is spec.md §6.2's ENotificationCode.
type NotificationCode string

const (
	CodeConfigurationError                              NotificationCode = "CONFIGURATION_ERROR"
	CodeConnectionResetBecauseOfChangedConfiguration     NotificationCode = "CONNECTION_RESET_BECAUSE_OF_CHANGED_CONFIGURATION"
	CodeConnectionRefusedBecauseOfEstablishedConnection  NotificationCode = "CONNECTION_REFUSED_BECAUSE_OF_ESTABLISHED_CONNECTION"
	CodeMachineShutdown                                  NotificationCode = "MACHINE_SHUTDOWN"
	CodeProtocolError                                    NotificationCode = "PROTOCOL_ERROR"
	CodeUnknown                                          NotificationCode = "UNKNOWN"
)

// Severity is spec.md §6.2's ESeverity.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
)

// ErrorCode is spec.md §6.2's EErrorCode, carried in an OnDisconnected Error.
type ErrorCode string

const (
	ErrorCodeNetworkError      ErrorCode = "NETWORK_ERROR"
	ErrorCodeTimeout           ErrorCode = "TIMEOUT"
	ErrorCodePeerError         ErrorCode = "PEER_ERROR"
	ErrorCodeClientError       ErrorCode = "CLIENT_ERROR"
	ErrorCodeImplementationErr ErrorCode = "IMPLEMENTATION_ERROR"
)

// CheckAliveType is spec.md §6.2's ECheckAliveType.
type CheckAliveType string

const (
	CheckAlivePing CheckAliveType = "PING"
	CheckAlivePong CheckAliveType = "PONG"
)

// CheckAliveResponseMode is spec.md §6.2's ECheckAliveResponseMode.
type CheckAliveResponseMode string

const (
	CheckAliveAuto        CheckAliveResponseMode = "AUTO"
	CheckAliveApplication CheckAliveResponseMode = "APPLICATION"
)

// TransportState names the state a StopTransport/TransportFinished message
// reports about the physical move, per original_source's StopTransportData
// / TransportFinishedData fields.
type TransportState string

const (
	TransportStateIncomplete TransportState = "INCOMPLETE"
	TransportStateComplete   TransportState = "COMPLETE"
)
