// Package configsvc implements the Hermes configuration service
// (spec.md §4.6): a multi-peer endpoint that answers GetConfiguration
// and SetConfiguration requests from stations, backed by an
// embedder-supplied ConfigStore, plus a one-shot Client an operator tool
// can use to query or change a single station's configuration without
// holding a long-lived session.
package configsvc

import "github.com/EuroplacerUk/hermes-sdk/message"

// ConfigStore is the embedder boundary Service calls into: Get answers a
// station's GetConfiguration, Set applies a SetConfiguration and
// returns the configuration actually in effect afterwards (which need
// not equal the request — spec.md §4.6 allows the embedder to clamp or
// ignore individual settings).
//
// Set returning a non-nil error is reported to the station as a
// CONFIGURATION_ERROR notification (Severity Error) ahead of the
// CurrentConfiguration reply, distinct from a transport-level failure.
type ConfigStore interface {
	Get(stationID uint32) (message.CurrentConfigurationData, error)
	Set(stationID uint32, req message.SetConfigurationData) (message.CurrentConfigurationData, error)
}
