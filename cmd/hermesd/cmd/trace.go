package cmd

import (
	"fmt"

	"github.com/EuroplacerUk/hermes-sdk/logger"

	"github.com/fatih/color"
)

// traceColors maps each logger.TraceType to the console color hermesd
// prints it with, following nabbar-golib/console's colorType table: a
// nil entry means "print uncolored" rather than panic, so a trace kind
// added to the logger package later still prints instead of breaking
// the CLI.
var traceColors = map[logger.TraceType]*color.Color{
	logger.Sent:       color.New(color.FgCyan),
	logger.Received:    color.New(color.FgGreen),
	logger.Info:        color.New(color.FgWhite),
	logger.Warning:     color.New(color.FgYellow),
	logger.ErrorTrace:  color.New(color.FgRed, color.Bold),
	logger.Debug:       color.New(color.FgHiBlack),
}

// printTrace writes one line to stdout for a lane/vertical trace event,
// colorized by kind. verbose gates logger.Debug lines on the console
// only; the structured logrus sink's level comes from logLevel.
func printTrace(sessionID uint32, kind logger.TraceType, text string, verbose bool) {
	if kind == logger.Debug && !verbose {
		return
	}
	line := fmt.Sprintf("[session %d] %s %s", sessionID, kind.String(), text)
	if c := traceColors[kind]; c != nil {
		_, _ = c.Println(line)
		return
	}
	fmt.Println(line)
}
