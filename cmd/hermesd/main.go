// Command hermesd runs the Hermes protocol engine: a downstream lane, an
// upstream lane, a vertical (multi-station) service and a configuration
// service, all driven from one YAML/env configuration.
package main

import (
	"fmt"
	"os"

	"github.com/EuroplacerUk/hermes-sdk/cmd/hermesd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
