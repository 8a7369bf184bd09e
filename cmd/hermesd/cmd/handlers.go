package cmd

import (
	"fmt"

	"github.com/EuroplacerUk/hermes-sdk/logger"
	"github.com/EuroplacerUk/hermes-sdk/message"
	"github.com/EuroplacerUk/hermes-sdk/metrics"
	"github.com/EuroplacerUk/hermes-sdk/session"
)

// laneHandler adapts one upstream/downstream lane's event stream onto
// hermesd's console output and Prometheus counters. It implements
// supervisor.EndpointCallback.
type laneHandler struct {
	role    string
	metrics *metrics.Metrics
	verbose bool
}

func (h *laneHandler) OnAccepted(sessionID uint32, info session.ConnectionInfo) {
	printTrace(sessionID, logger.Info, fmt.Sprintf("%s connected from %s:%d", h.role, info.Address, info.Port), h.verbose)
}

func (h *laneHandler) OnState(sessionID uint32, state message.State) {
	printTrace(sessionID, logger.Info, h.role+" state -> "+state.String(), h.verbose)
}

func (h *laneHandler) OnMessage(sessionID uint32, msg message.Message) {
	h.metrics.RecordReceived(msg.Kind().String())
	if notif, ok := msg.(message.NotificationData); ok {
		printTrace(sessionID, logger.Warning, h.role+" notification: "+string(notif.Code)+" "+notif.Description, h.verbose)
	}
}

func (h *laneHandler) OnDisconnected(sessionID uint32, notification *message.NotificationData, cause error) {
	if cause != nil {
		printTrace(sessionID, logger.ErrorTrace, h.role+" disconnected: "+cause.Error(), h.verbose)
		return
	}
	printTrace(sessionID, logger.Info, h.role+" disconnected", h.verbose)
}

func (h *laneHandler) OnTrace(sessionID uint32, kind logger.TraceType, text string) {
	printTrace(sessionID, kind, h.role+": "+text, h.verbose)
	if kind == logger.Sent {
		h.metrics.RecordSent(text)
	}
}

// verticalHandler is laneHandler's counterpart for the multi-station
// vertical and configuration services, implementing
// supervisor.MultiEndpointCallback.
type verticalHandler struct {
	role    string
	metrics *metrics.Metrics
	verbose bool
}

func (h *verticalHandler) OnAccepted(sessionID uint32, info session.ConnectionInfo) {
	printTrace(sessionID, logger.Info, fmt.Sprintf("%s station connected from %s:%d", h.role, info.Address, info.Port), h.verbose)
}

func (h *verticalHandler) OnState(sessionID uint32, state message.VerticalState) {
	printTrace(sessionID, logger.Info, h.role+" state -> "+state.String(), h.verbose)
}

func (h *verticalHandler) OnMessage(sessionID uint32, msg message.Message) {
	h.metrics.RecordReceived(msg.Kind().String())
}

func (h *verticalHandler) OnDisconnected(sessionID uint32, notification *message.NotificationData, cause error) {
	if cause != nil {
		printTrace(sessionID, logger.ErrorTrace, h.role+" station disconnected: "+cause.Error(), h.verbose)
		return
	}
	printTrace(sessionID, logger.Info, h.role+" station disconnected", h.verbose)
}

func (h *verticalHandler) OnTrace(sessionID uint32, kind logger.TraceType, text string) {
	printTrace(sessionID, kind, h.role+": "+text, h.verbose)
}
